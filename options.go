package strucdb

import (
	"runtime"
	"time"

	"github.com/hupe1980/strucdb/alphabet"
	"github.com/hupe1980/strucdb/blobstore"
	"github.com/hupe1980/strucdb/internal/fs"
	"github.com/hupe1980/strucdb/store"
	"github.com/hupe1980/strucdb/structure"
)

type options struct {
	threads          int
	compression      store.Compression
	lookup           bool
	logger           *Logger
	parser           structure.Parser
	converter        alphabet.Converter
	table            *alphabet.Table
	fs               fs.FileSystem
	progressInterval time.Duration

	publisher      blobstore.Store
	publishPrefix  string
	publishUploads int64
	publishRate    int64
}

func defaultOptions() options {
	return options{
		threads:          runtime.GOMAXPROCS(0),
		compression:      store.CompressionNone,
		lookup:           true,
		logger:           NoopLogger(),
		parser:           structure.NewPDBParser(),
		converter:        alphabet.NewGeometric(),
		table:            alphabet.DefaultTable,
		fs:               fs.Default,
		progressInterval: 5 * time.Second,
		publishUploads:   4,
	}
}

// Option configures CreateDB.
type Option func(*options)

// WithThreads sets the number of ingestion workers and the shard count of
// every database. Values < 1 are ignored.
func WithThreads(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.threads = n
		}
	}
}

// WithCompression compresses every record of every database with c.
func WithCompression(c store.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithLookup enables or disables the lookup and source tables (default on).
func WithLookup(enabled bool) Option {
	return func(o *options) {
		o.lookup = enabled
	}
}

// WithLogger sets the logger.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithParser replaces the default PDB parser.
func WithParser(p structure.Parser) Option {
	return func(o *options) {
		if p != nil {
			o.parser = p
		}
	}
}

// WithConverter replaces the default geometric structure-alphabet converter.
func WithConverter(c alphabet.Converter) Option {
	return func(o *options) {
		if c != nil {
			o.converter = c
		}
	}
}

// WithTable replaces the state-to-letter table.
func WithTable(t *alphabet.Table) Option {
	return func(o *options) {
		if t != nil {
			o.table = t
		}
	}
}

// WithFileSystem routes all database and table writes through fsys.
//
// If nil is passed, fs.Default is used.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fs = fsys
	}
}

// WithProgressInterval sets how often ingest progress is logged.
// Zero disables progress logging.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}

// WithPublisher uploads every finished artifact to st under prefix.
func WithPublisher(st blobstore.Store, prefix string) Option {
	return func(o *options) {
		o.publisher = st
		o.publishPrefix = prefix
	}
}

// WithPublishLimits bounds publishing: at most uploads artifacts at once,
// reading at most bytesPerSec (0 = unlimited).
func WithPublishLimits(uploads int, bytesPerSec int64) Option {
	return func(o *options) {
		if uploads > 0 {
			o.publishUploads = int64(uploads)
		}
		if bytesPerSec >= 0 {
			o.publishRate = bytesPerSec
		}
	}
}
