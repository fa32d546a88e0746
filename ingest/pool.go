package ingest

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/hupe1980/strucdb/alphabet"
	"github.com/hupe1980/strucdb/store"
	"github.com/hupe1980/strucdb/structure"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrMissingStore is returned when one of the four stores is nil.
	ErrMissingStore = errors.New("ingest: missing store")

	// ErrTooFewShards is returned when a store has fewer shards than workers.
	ErrTooFewShards = errors.New("ingest: store has fewer shards than workers")

	// ErrTooManyFiles is returned when file ordinals would not fit a key.
	ErrTooManyFiles = errors.New("ingest: too many files")
)

// Stores are the four output streams of a run.
type Stores struct {
	Alphabet *store.Writer
	Header   *store.Writer
	Coords   *store.Writer
	Sequence *store.Writer
}

func (s Stores) validate(threads int) error {
	for _, w := range []*store.Writer{s.Alphabet, s.Header, s.Coords, s.Sequence} {
		if w == nil {
			return ErrMissingStore
		}
		if w.Shards() < threads {
			return fmt.Errorf("%w: %s has %d, need %d", ErrTooFewShards, w.DataPath(), w.Shards(), threads)
		}
	}
	return nil
}

// Stats summarizes a run.
type Stats struct {
	Files  int // files processed
	Failed int // files that failed to parse
	Chains int // chains written
}

// Pool fans files out over a fixed number of workers.
type Pool struct {
	parser    structure.Parser
	converter alphabet.Converter
	table     *alphabet.Table
	opts      options
}

// NewPool creates a pool. A nil table selects alphabet.DefaultTable.
// The table is only read during Run.
func NewPool(parser structure.Parser, converter alphabet.Converter, table *alphabet.Table, optFns ...Option) *Pool {
	opts := options{
		threads:          runtime.GOMAXPROCS(0),
		logger:           slog.New(slog.DiscardHandler),
		progressInterval: defaultProgressInterval,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if table == nil {
		table = alphabet.DefaultTable
	}
	return &Pool{
		parser:    parser,
		converter: converter,
		table:     table,
		opts:      opts,
	}
}

// Threads returns the number of workers.
func (p *Pool) Threads() int { return p.opts.threads }

// Run processes files and appends their chains to stores. Each store needs at
// least Threads() shards. The key of file i is i.
//
// Run does not stop early: ctx only carries logging context. All workers have
// returned when Run returns, so the stores may be closed right after.
func (p *Pool) Run(ctx context.Context, files []string, stores Stores) (Stats, error) {
	if err := stores.validate(p.opts.threads); err != nil {
		return Stats{}, err
	}
	if uint64(len(files)) > math.MaxUint32 {
		return Stats{}, ErrTooManyFiles
	}

	var (
		processed atomic.Int64
		failed    atomic.Int64
		workers   = make([]*workerContext, p.opts.threads)
		g         errgroup.Group
	)

	stop := p.reportProgress(ctx, &processed, len(files))

	n := len(files)
	block := (n + len(workers) - 1) / len(workers)
	for t := range workers {
		w := &workerContext{shard: t}
		workers[t] = w

		lo, hi := t*block, min((t+1)*block, n)
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				err := p.process(ctx, w, stores, i, files[i], &failed)
				processed.Add(1)
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()
	stop()

	stats := Stats{
		Files:  int(processed.Load()),
		Failed: int(failed.Load()),
	}
	for _, w := range workers {
		stats.Chains += w.chains
	}
	return stats, err
}

func (p *Pool) process(ctx context.Context, w *workerContext, stores Stores, i int, path string, failed *atomic.Int64) error {
	if err := p.parser.Parse(path, &w.structure); err != nil {
		failed.Add(1)
		p.opts.logger.WarnContext(ctx, "skipping file", "file", path, "error", err)
		return nil
	}

	key := uint32(i)
	s := &w.structure
	for c := range s.Chains {
		coords := s.ChainCoords(c)

		w.states = p.converter.Convert(w.states[:0], coords)
		w.buf = p.table.AppendLetters(w.buf[:0], w.states)
		w.buf = append(w.buf, '\n')
		if err := stores.Alphabet.Append(w.shard, key, w.buf); err != nil {
			return err
		}

		w.buf = s.AppendHeader(w.buf[:0], c)
		if err := stores.Header.Append(w.shard, key, w.buf); err != nil {
			return err
		}

		if err := appendSequence(stores.Sequence, w.shard, key, s.ChainSequence(c)); err != nil {
			return err
		}

		w.buf = AppendCoords(w.buf[:0], coords.CA)
		if err := stores.Coords.Append(w.shard, key, w.buf); err != nil {
			return err
		}
		w.chains++
	}
	return nil
}

var newline = []byte{'\n'}

func appendSequence(sw *store.Writer, shard int, key uint32, seq []byte) error {
	if err := sw.BeginRecord(shard); err != nil {
		return err
	}
	if err := sw.AddFragment(shard, seq); err != nil {
		return err
	}
	if err := sw.AddFragment(shard, newline); err != nil {
		return err
	}
	return sw.EndRecord(shard, key)
}

// AppendCoords appends ca as little-endian float32: all x, then all y, then
// all z.
func AppendCoords(dst []byte, ca []structure.Vec3) []byte {
	for _, v := range ca {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.X))
	}
	for _, v := range ca {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Y))
	}
	for _, v := range ca {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Z))
	}
	return dst
}

// DecodeCoords is the inverse of AppendCoords.
func DecodeCoords(data []byte) ([]structure.Vec3, error) {
	if len(data)%12 != 0 {
		return nil, fmt.Errorf("ingest: coordinate record of %d bytes", len(data))
	}
	n := len(data) / 12
	out := make([]structure.Vec3, n)
	f := func(k int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(data[4*k:])) }
	for i := range out {
		out[i] = structure.Vec3{X: f(i), Y: f(n + i), Z: f(2*n + i)}
	}
	return out, nil
}

func (p *Pool) reportProgress(ctx context.Context, processed *atomic.Int64, total int) func() {
	if p.opts.progressInterval <= 0 || total == 0 {
		return func() {}
	}
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ticker := time.NewTicker(p.opts.progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p.opts.logger.InfoContext(ctx, "ingest progress", "processed", processed.Load(), "total", total)
			}
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}
