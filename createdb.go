package strucdb

import (
	"context"
	"fmt"

	"github.com/hupe1980/strucdb/blobstore"
	"github.com/hupe1980/strucdb/collect"
	"github.com/hupe1980/strucdb/ingest"
	"github.com/hupe1980/strucdb/internal/resource"
	"github.com/hupe1980/strucdb/lookup"
	"github.com/hupe1980/strucdb/store"
)

// Stream names one database of a run.
type Stream struct {
	Data  string
	Index string
	Type  store.DBType
}

// DBType returns the sidecar path of the stream.
func (s Stream) DBType() string { return store.DBTypePath(s.Data) }

// Streams are the four databases written for an output prefix.
type Streams struct {
	Sequence Stream
	Alphabet Stream
	Header   Stream
	Coords   Stream
}

// StreamsFor returns the database paths for prefix.
func StreamsFor(prefix string) Streams {
	mk := func(data string, t store.DBType) Stream {
		return Stream{Data: data, Index: data + ".index", Type: t}
	}
	return Streams{
		Sequence: mk(prefix, store.DBTypeAminoAcids),
		Alphabet: mk(prefix+"_ss", store.DBTypeAminoAcids),
		Header:   mk(prefix+"_h", store.DBTypeGeneric),
		Coords:   mk(prefix+"_ca", store.DBTypeCAlpha),
	}
}

// All returns the streams in finalization order.
func (s Streams) All() []Stream {
	return []Stream{s.Alphabet, s.Header, s.Coords, s.Sequence}
}

// Result describes a finished run.
type Result struct {
	Files   []string     // input files; file number i is Files[i]
	Stats   ingest.Stats // ingestion counters
	Streams Streams

	// Lookup is nil when lookup tables are disabled.
	Lookup *lookup.Summary

	// Artifacts lists every file written, in publishing order.
	Artifacts []string
}

// CreateDB ingests the structure files found in inputs and writes the
// databases for prefix.
//
// Files that fail to parse are counted in Result.Stats.Failed and do not make
// the run fail. An error is returned only for invalid arguments, an
// unreadable input directory, or an I/O failure while writing, finalizing,
// renumbering or publishing; finalization failures are *FinalizeError.
func CreateDB(ctx context.Context, inputs []string, prefix string, optFns ...Option) (*Result, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	log := opts.logger.WithPrefix(prefix)

	files, err := collect.Collect(opts.fs, inputs, collect.WithLogger(log.Logger))
	if err != nil {
		return nil, err
	}

	res := &Result{
		Files:   files,
		Streams: StreamsFor(prefix),
	}

	stores, writers, err := createWriters(res.Streams, opts)
	if err != nil {
		return nil, err
	}

	pool := ingest.NewPool(opts.parser, opts.converter, opts.table,
		ingest.WithThreads(opts.threads),
		ingest.WithLogger(log.Logger),
		ingest.WithProgressInterval(opts.progressInterval),
	)
	res.Stats, err = pool.Run(ctx, files, stores)
	log.LogIngest(ctx, res.Stats, err)
	if err != nil {
		abortAll(writers)
		return nil, err
	}

	for i, w := range writers {
		err := w.Close()
		log.LogFinalize(ctx, w.DataPath(), err)
		if err != nil {
			abortAll(writers[i+1:])
			return nil, err
		}
	}

	for _, s := range res.Streams.All() {
		res.Artifacts = append(res.Artifacts, s.Data, s.Index, s.DBType())
	}

	if opts.lookup {
		sum, err := writeLookup(res.Streams.Header, prefix, files, opts, log)
		log.LogLookup(ctx, sum.Entries, sum.Sources, err)
		if err != nil {
			return nil, err
		}
		res.Lookup = &sum
		res.Artifacts = append(res.Artifacts, lookup.LookupPath(prefix), lookup.SourcePath(prefix))
	}

	for _, s := range res.Streams.All() {
		err := store.Renumber(opts.fs, s.Index)
		log.LogRenumber(ctx, s.Index, err)
		if err != nil {
			return nil, err
		}
	}

	if opts.publisher != nil {
		rc := resource.NewController(resource.Config{
			MaxConcurrentUploads: opts.publishUploads,
			IOLimitBytesPerSec:   opts.publishRate,
		})
		err := blobstore.PublishWithPrefix(ctx, opts.publisher, opts.publishPrefix, res.Artifacts, rc)
		log.LogPublish(ctx, len(res.Artifacts), err)
		if err != nil {
			return nil, err
		}
	}

	log.InfoContext(ctx, fmt.Sprintf("%d out of %d entries are incorrect", res.Stats.Failed, len(files)))
	return res, nil
}

func createWriters(streams Streams, opts options) (ingest.Stores, []*store.Writer, error) {
	var (
		stores  ingest.Stores
		writers []*store.Writer
	)
	targets := []**store.Writer{&stores.Alphabet, &stores.Header, &stores.Coords, &stores.Sequence}
	for i, s := range streams.All() {
		w, err := store.Create(s.Data, s.Index, opts.threads,
			store.WithCompression(opts.compression),
			store.WithDBType(s.Type),
			store.WithFileSystem(opts.fs),
		)
		if err != nil {
			abortAll(writers)
			return ingest.Stores{}, nil, err
		}
		*targets[i] = w
		writers = append(writers, w)
	}
	return stores, writers, nil
}

func abortAll(writers []*store.Writer) {
	for _, w := range writers {
		w.Abort()
	}
}

func writeLookup(header Stream, prefix string, files []string, opts options, log *Logger) (lookup.Summary, error) {
	r, err := store.OpenReader(header.Data, header.Index, store.WithFileSystem(opts.fs))
	if err != nil {
		return lookup.Summary{}, &FinalizeError{Op: "open header database", Path: header.Data, Err: err}
	}
	defer r.Close()

	return lookup.WriteFiles(opts.fs, prefix, r, files, lookup.WithLogger(log.Logger))
}
