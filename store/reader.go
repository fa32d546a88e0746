package store

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/hupe1980/strucdb/internal/compress"
	"github.com/hupe1980/strucdb/internal/mmap"
)

// Reader provides read access to a finalized database.
// A Reader is safe for concurrent use.
type Reader struct {
	data       *mmap.Mapping
	entries    []IndexEntry
	sorted     bool
	dbType     DBType
	compressed bool
}

// OpenReader opens the database stored in dataPath/indexPath.
func OpenReader(dataPath, indexPath string, optFns ...Option) (*Reader, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	dbType, compressed, err := ReadDBType(opts.fs, dataPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		dbType, compressed = opts.dbType, opts.compression != CompressionNone
	}

	entries, err := readIndexFile(opts.fs, indexPath)
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", indexPath, err)
	}

	m, err := mmap.Open(dataPath)
	if err != nil {
		return nil, fmt.Errorf("map data %s: %w", dataPath, err)
	}

	size := uint64(m.Size())
	for i, e := range entries {
		if e.Offset > size || e.Length > size-e.Offset {
			m.Close()
			return nil, fmt.Errorf("%w: entry %d (key %d) range [%d,+%d) exceeds data size %d",
				ErrCorruptIndex, i, e.Key, e.Offset, e.Length, size)
		}
	}

	return &Reader{
		data:       m,
		entries:    entries,
		sorted:     isSortedByKey(entries),
		dbType:     dbType,
		compressed: compressed,
	}, nil
}

// Len returns the number of records.
func (r *Reader) Len() int { return len(r.entries) }

// Entry returns the i-th index entry in storage order.
func (r *Reader) Entry(i int) IndexEntry { return r.entries[i] }

// Key returns the key of the i-th record.
func (r *Reader) Key(i int) uint32 { return r.entries[i].Key }

// DBType returns the type recorded in the .dbtype sidecar.
func (r *Reader) DBType() DBType { return r.dbType }

// Compressed reports whether records are stored as compression frames.
func (r *Reader) Compressed() bool { return r.compressed }

// Raw returns the stored bytes of the i-th record without decoding.
// The slice aliases the mapping and is valid until Close; after Close it
// returns an error wrapping mmap.ErrClosed.
func (r *Reader) Raw(i int) ([]byte, error) {
	e := r.entries[i]
	b, err := r.data.Slice(e.Offset, e.Length)
	if err != nil {
		return nil, fmt.Errorf("record %d (key %d): %w", i, e.Key, err)
	}
	return b, nil
}

// Data returns the decoded bytes of the i-th record.
// For uncompressed databases the slice aliases the mapping and is valid until Close.
func (r *Reader) Data(i int) ([]byte, error) {
	raw, err := r.Raw(i)
	if err != nil || !r.compressed {
		return raw, err
	}
	out, err := compress.DecodeFrame(raw)
	if err != nil {
		return nil, fmt.Errorf("record %d (key %d): %w", i, r.entries[i].Key, err)
	}
	return out, nil
}

// AdviseSequential hints that records will be read once in storage order.
func (r *Reader) AdviseSequential() error {
	return r.data.Advise(mmap.AccessSequential)
}

// Lookup returns the position of the first record stored under key.
func (r *Reader) Lookup(key uint32) (int, bool) {
	if r.sorted {
		i := sort.Search(len(r.entries), func(i int) bool { return r.entries[i].Key >= key })
		if i < len(r.entries) && r.entries[i].Key == key {
			return i, true
		}
		return -1, false
	}
	for i, e := range r.entries {
		if e.Key == key {
			return i, true
		}
	}
	return -1, false
}

// EntriesForKey returns the positions of all records stored under key, in
// storage order.
func (r *Reader) EntriesForKey(key uint32) []int {
	var out []int
	if r.sorted {
		first, ok := r.Lookup(key)
		if !ok {
			return nil
		}
		for i := first; i < len(r.entries) && r.entries[i].Key == key; i++ {
			out = append(out, i)
		}
		return out
	}
	for i, e := range r.entries {
		if e.Key == key {
			out = append(out, i)
		}
	}
	return out
}

// Close releases the mapping.
func (r *Reader) Close() error {
	return r.data.Close()
}
