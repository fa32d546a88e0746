package store

import (
	"bytes"
	"io"

	"github.com/hupe1980/strucdb/internal/fs"
)

// Renumber rewrites the index at indexPath so that keys form the dense
// sequence 0..N-1. Entries are stable-sorted by their current key first, so
// records sharing a key end up on consecutive new keys in write order.
// Offsets and lengths are kept; the data file is not touched.
//
// Renumber is idempotent: running it on a renumbered index reproduces the
// same bytes. The new index replaces the old one through a rename; any
// failure is returned as a *FinalizeError and leaves the old index in place.
func Renumber(fsys fs.FileSystem, indexPath string) error {
	if fsys == nil {
		fsys = fs.Default
	}

	entries, err := readIndexFile(fsys, indexPath)
	if err != nil {
		return finalizeErr("read", indexPath, err)
	}

	sortByKey(entries)
	renumberKeys(entries)

	var buf bytes.Buffer
	buf.Grow(len(entries) * 24)
	if err := WriteIndex(&buf, entries); err != nil {
		return finalizeErr("write", indexPath, err)
	}
	if err := fs.WriteFileAtomic(fsys, indexPath, buf.Bytes()); err != nil {
		return finalizeErr("write", indexPath, err)
	}
	return nil
}

func readIndexFile(fsys fs.FileSystem, path string) ([]IndexEntry, error) {
	f, err := fs.Open(fsys, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return ParseIndex(data)
}
