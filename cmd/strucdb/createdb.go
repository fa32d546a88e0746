package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/strucdb"
	"github.com/hupe1980/strucdb/blobstore"
	"github.com/hupe1980/strucdb/blobstore/minio"
	"github.com/hupe1980/strucdb/blobstore/s3"
	"github.com/hupe1980/strucdb/store"
)

var errUsage = errors.New("usage: strucdb createdb [options] <input>... <output prefix>")

type createDBCommand struct {
	Threads     int           `long:"threads" default:"0" description:"Number of worker threads (0: all CPUs)"`
	Compressed  int           `long:"compressed" default:"0" choice:"0" choice:"1" description:"Compress database records"`
	Compression string        `long:"compression" default:"zstd" choice:"lz4" choice:"zstd" description:"Codec used with --compressed 1"`
	WriteLookup int           `long:"write-lookup" default:"1" choice:"0" choice:"1" description:"Write .lookup and .source tables"`
	Verbosity   int           `short:"v" long:"verbosity" default:"3" choice:"0" choice:"1" choice:"2" choice:"3" description:"0: quiet, 1: errors, 2: +warnings, 3: +info"`
	LogFormat   string        `long:"log-format" default:"text" choice:"text" choice:"json" description:"Log output format"`
	Progress    time.Duration `long:"progress" default:"5s" description:"Progress log interval (0 disables)"`

	PublishDir       string `long:"publish-dir" description:"Copy finished artifacts into this directory"`
	PublishMinio     string `long:"publish-minio-endpoint" description:"Upload finished artifacts to this MinIO endpoint (credentials from MINIO_ACCESS_KEY/MINIO_SECRET_KEY)"`
	PublishMinioTLS  bool   `long:"publish-minio-secure" description:"Use TLS for the MinIO endpoint"`
	PublishS3        bool   `long:"publish-s3" description:"Upload finished artifacts to S3 using the default AWS configuration"`
	PublishBucket    string `long:"publish-bucket" description:"Bucket for --publish-minio-endpoint and --publish-s3"`
	PublishPrefix    string `long:"publish-prefix" description:"Name prefix for published artifacts"`
	PublishUploads   int    `long:"publish-uploads" default:"4" description:"Concurrent uploads"`
	PublishRate      int64  `long:"publish-rate" default:"0" description:"Upload rate limit in bytes per second (0: unlimited)"`

	ctx    context.Context
	stderr io.Writer
}

// Execute implements flags.Commander.
func (c *createDBCommand) Execute(args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	inputs, prefix := args[:len(args)-1], args[len(args)-1]

	opts := []strucdb.Option{
		strucdb.WithThreads(c.Threads),
		strucdb.WithLookup(c.WriteLookup == 1),
		strucdb.WithLogger(c.logger()),
		strucdb.WithProgressInterval(c.Progress),
	}
	if c.Compressed == 1 {
		codec, err := store.ParseCompression(c.Compression)
		if err != nil {
			return err
		}
		opts = append(opts, strucdb.WithCompression(codec))
	}

	pub, err := c.publisher()
	if err != nil {
		return err
	}
	if pub != nil {
		opts = append(opts,
			strucdb.WithPublisher(pub, c.PublishPrefix),
			strucdb.WithPublishLimits(c.PublishUploads, c.PublishRate),
		)
	}

	_, err = strucdb.CreateDB(c.ctx, inputs, prefix, opts...)
	return err
}

func (c *createDBCommand) logger() *strucdb.Logger {
	var level slog.Level
	switch c.Verbosity {
	case 0:
		return strucdb.NoopLogger()
	case 1:
		level = slog.LevelError
	case 2:
		level = slog.LevelWarn
	default:
		level = slog.LevelInfo
	}

	if c.LogFormat == "json" {
		return strucdb.NewJSONLogger(c.stderr, level)
	}
	return strucdb.NewTextLogger(c.stderr, level)
}

func (c *createDBCommand) publisher() (blobstore.Store, error) {
	targets := 0
	for _, set := range []bool{c.PublishDir != "", c.PublishMinio != "", c.PublishS3} {
		if set {
			targets++
		}
	}
	if targets > 1 {
		return nil, errors.New("choose at most one of --publish-dir, --publish-minio-endpoint, --publish-s3")
	}

	switch {
	case c.PublishDir != "":
		return blobstore.NewLocalStore(c.PublishDir, nil), nil
	case c.PublishMinio != "":
		if c.PublishBucket == "" {
			return nil, errors.New("--publish-minio-endpoint requires --publish-bucket")
		}
		return minio.New(minio.Config{
			Endpoint:  c.PublishMinio,
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Secure:    c.PublishMinioTLS,
		}, c.PublishBucket, "")
	case c.PublishS3:
		if c.PublishBucket == "" {
			return nil, errors.New("--publish-s3 requires --publish-bucket")
		}
		st, err := s3.New(c.ctx, c.PublishBucket, "")
		if err != nil {
			return nil, fmt.Errorf("s3: %w", err)
		}
		return st, nil
	}
	return nil, nil
}
