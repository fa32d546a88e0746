package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/hupe1980/strucdb/internal/compress"
	"github.com/hupe1980/strucdb/internal/fs"
)

// Writer appends records to a database through per-worker shards.
//
// Append, BeginRecord, AddFragment and EndRecord may be called concurrently
// for distinct shards. A shard must only be used by one goroutine at a time.
// Close must not overlap with any append.
type Writer struct {
	dataPath  string
	indexPath string
	opts      options
	shards    []*shard
	closed    atomic.Bool
}

type shard struct {
	path    string
	file    fs.File
	w       *bufio.Writer
	size    uint64
	entries []IndexEntry

	inRecord    bool
	recordStart uint64
	staging     []byte // fragments of the open record, compressed writers only
	frame       []byte

	err error // first write error, reported again by Close
}

// Create opens a writer for dataPath/indexPath with the given number of shards.
func Create(dataPath, indexPath string, shards int, optFns ...Option) (*Writer, error) {
	if shards <= 0 {
		return nil, fmt.Errorf("%w: shard count %d", ErrInvalidShard, shards)
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	w := &Writer{
		dataPath:  dataPath,
		indexPath: indexPath,
		opts:      opts,
		shards:    make([]*shard, 0, shards),
	}

	for i := 0; i < shards; i++ {
		path := dataPath + ".shard." + strconv.Itoa(i)
		f, err := fs.Create(opts.fs, path)
		if err != nil {
			w.removeShards()
			return nil, fmt.Errorf("create shard %s: %w", path, err)
		}
		w.shards = append(w.shards, &shard{
			path: path,
			file: f,
			w:    bufio.NewWriterSize(f, opts.bufferSize),
		})
	}

	return w, nil
}

// DataPath returns the final data file path.
func (w *Writer) DataPath() string { return w.dataPath }

// IndexPath returns the final index file path.
func (w *Writer) IndexPath() string { return w.indexPath }

// Shards returns the number of shards.
func (w *Writer) Shards() int { return len(w.shards) }

func (w *Writer) shard(i int) (*shard, error) {
	if w.closed.Load() {
		return nil, ErrClosed
	}
	if i < 0 || i >= len(w.shards) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidShard, i, len(w.shards))
	}
	s := w.shards[i]
	if s.err != nil {
		return nil, s.err
	}
	return s, nil
}

// Append writes data as one record under key.
func (w *Writer) Append(shardIdx int, key uint32, data []byte) error {
	s, err := w.shard(shardIdx)
	if err != nil {
		return err
	}
	if s.inRecord {
		return ErrRecordOpen
	}

	start := s.size
	if w.opts.compression == CompressionNone {
		err = s.write(data)
	} else {
		err = s.writeFrame(data, w.opts.compression)
	}
	if err != nil {
		return err
	}

	s.entries = append(s.entries, IndexEntry{Key: key, Offset: start, Length: s.size - start})
	return nil
}

// BeginRecord starts a record assembled from fragments.
func (w *Writer) BeginRecord(shardIdx int) error {
	s, err := w.shard(shardIdx)
	if err != nil {
		return err
	}
	if s.inRecord {
		return ErrRecordOpen
	}
	s.inRecord = true
	s.recordStart = s.size
	s.staging = s.staging[:0]
	return nil
}

// AddFragment appends data to the open record.
// Uncompressed writers stream fragments straight into the shard.
func (w *Writer) AddFragment(shardIdx int, data []byte) error {
	s, err := w.shard(shardIdx)
	if err != nil {
		return err
	}
	if !s.inRecord {
		return ErrNoRecordOpen
	}
	if w.opts.compression != CompressionNone {
		s.staging = append(s.staging, data...)
		return nil
	}
	return s.write(data)
}

// EndRecord finishes the open record and indexes it under key.
func (w *Writer) EndRecord(shardIdx int, key uint32) error {
	s, err := w.shard(shardIdx)
	if err != nil {
		return err
	}
	if !s.inRecord {
		return ErrNoRecordOpen
	}
	if w.opts.compression != CompressionNone {
		if err := s.writeFrame(s.staging, w.opts.compression); err != nil {
			return err
		}
		s.staging = s.staging[:0]
	}
	s.inRecord = false
	s.entries = append(s.entries, IndexEntry{Key: key, Offset: s.recordStart, Length: s.size - s.recordStart})
	return nil
}

func (s *shard) write(p []byte) error {
	n, err := s.w.Write(p)
	s.size += uint64(n)
	if err != nil {
		s.err = fmt.Errorf("write shard %s: %w", s.path, err)
		return s.err
	}
	return nil
}

func (s *shard) writeFrame(p []byte, c Compression) error {
	frame, err := compress.AppendFrame(s.frame[:0], p, c)
	if err != nil {
		s.err = fmt.Errorf("compress record in %s: %w", s.path, err)
		return s.err
	}
	s.frame = frame
	return s.write(frame)
}

// Close finalizes the database. See the package documentation for the
// publishing protocol. Any returned error is a *FinalizeError.
func (w *Writer) Close(optFns ...CloseOption) error {
	if w.closed.Swap(true) {
		return ErrClosed
	}
	defer w.removeShards()

	var co closeOptions
	for _, fn := range optFns {
		fn(&co)
	}

	total := 0
	for _, s := range w.shards {
		if s.err != nil {
			return finalizeErr("write", s.path, s.err)
		}
		if s.inRecord {
			return finalizeErr("close", s.path, ErrRecordOpen)
		}
		if err := s.w.Flush(); err != nil {
			return finalizeErr("flush", s.path, err)
		}
		total += len(s.entries)
	}

	fsys := w.opts.fs
	dataTmp := w.dataPath + ".tmp"
	indexTmp := w.indexPath + ".tmp"

	entries, err := w.mergeShards(dataTmp, total)
	if err != nil {
		_ = fsys.Remove(dataTmp)
		return err
	}

	sortByKey(entries)
	if co.renumber {
		renumberKeys(entries)
	}

	if err := writeIndexFile(fsys, indexTmp, entries); err != nil {
		_ = fsys.Remove(dataTmp)
		_ = fsys.Remove(indexTmp)
		return err
	}

	dbTypeTmp := DBTypePath(w.dataPath) + ".tmp"
	if err := writeDBTypeFile(fsys, dbTypeTmp, w.opts.dbType, w.opts.compression != CompressionNone); err != nil {
		removeAll(fsys, dataTmp, indexTmp, dbTypeTmp)
		return finalizeErr("write", dbTypeTmp, err)
	}

	// A previous database under the same names is unpublished first, so a
	// failure below never pairs an old index with new data.
	for _, p := range []string{w.indexPath, DBTypePath(w.dataPath)} {
		if err := fsys.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			removeAll(fsys, dataTmp, indexTmp, dbTypeTmp)
			return finalizeErr("remove", p, err)
		}
	}

	// The index rename publishes the pair and the sidecar comes last: a reader
	// never sees an index that points into data that is not in place.
	if err := fsys.Rename(dataTmp, w.dataPath); err != nil {
		removeAll(fsys, dataTmp, indexTmp, dbTypeTmp)
		return finalizeErr("rename", w.dataPath, err)
	}
	if err := fsys.Rename(indexTmp, w.indexPath); err != nil {
		removeAll(fsys, indexTmp, dbTypeTmp, w.dataPath)
		return finalizeErr("rename", w.indexPath, err)
	}
	if err := fsys.Rename(dbTypeTmp, DBTypePath(w.dataPath)); err != nil {
		removeAll(fsys, dbTypeTmp, w.indexPath, w.dataPath)
		return finalizeErr("rename", DBTypePath(w.dataPath), err)
	}
	return nil
}

// mergeShards concatenates shard files in shard order into path and returns
// the index with global offsets.
func (w *Writer) mergeShards(path string, total int) ([]IndexEntry, error) {
	out, err := fs.Create(w.opts.fs, path)
	if err != nil {
		return nil, finalizeErr("create", path, err)
	}

	bw := bufio.NewWriterSize(out, w.opts.bufferSize)
	entries := make([]IndexEntry, 0, total)
	var base uint64

	for _, s := range w.shards {
		if _, err := s.file.Seek(0, io.SeekStart); err != nil {
			out.Close()
			return nil, finalizeErr("seek", s.path, err)
		}
		n, err := io.Copy(bw, s.file)
		if err != nil {
			out.Close()
			return nil, finalizeErr("write", path, err)
		}
		if uint64(n) != s.size {
			out.Close()
			return nil, finalizeErr("read", s.path, fmt.Errorf("copied %d bytes, shard holds %d", n, s.size))
		}
		for _, e := range s.entries {
			e.Offset += base
			entries = append(entries, e)
		}
		base += s.size
	}

	if err := bw.Flush(); err != nil {
		out.Close()
		return nil, finalizeErr("write", path, err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return nil, finalizeErr("sync", path, err)
	}
	if err := out.Close(); err != nil {
		return nil, finalizeErr("close", path, err)
	}
	return entries, nil
}

func writeIndexFile(fsys fs.FileSystem, path string, entries []IndexEntry) error {
	f, err := fs.Create(fsys, path)
	if err != nil {
		return finalizeErr("create", path, err)
	}
	bw := bufio.NewWriterSize(f, 64*1024)
	if err := WriteIndex(bw, entries); err != nil {
		f.Close()
		return finalizeErr("write", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return finalizeErr("write", path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return finalizeErr("sync", path, err)
	}
	if err := f.Close(); err != nil {
		return finalizeErr("close", path, err)
	}
	return nil
}

func removeAll(fsys fs.FileSystem, paths ...string) {
	for _, p := range paths {
		_ = fsys.Remove(p)
	}
}

// Abort discards all appended records without publishing anything.
func (w *Writer) Abort() {
	if w.closed.Swap(true) {
		return
	}
	w.removeShards()
}

func (w *Writer) removeShards() {
	for _, s := range w.shards {
		if s.file != nil {
			_ = s.file.Close()
			s.file = nil
		}
		_ = w.opts.fs.Remove(s.path)
	}
}
