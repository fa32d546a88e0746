package store

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// IndexEntry locates one record in a data file.
type IndexEntry struct {
	Key    uint32
	Offset uint64
	Length uint64
}

// AppendIndexLine appends the text form of e ("key\toffset\tlength\n") to dst.
func AppendIndexLine(dst []byte, e IndexEntry) []byte {
	dst = strconv.AppendUint(dst, uint64(e.Key), 10)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, e.Offset, 10)
	dst = append(dst, '\t')
	dst = strconv.AppendUint(dst, e.Length, 10)
	return append(dst, '\n')
}

// WriteIndex writes entries in text form to w.
func WriteIndex(w io.Writer, entries []IndexEntry) error {
	buf := make([]byte, 0, 64*1024)
	for _, e := range entries {
		buf = AppendIndexLine(buf, e)
		if len(buf) >= 60*1024 {
			if _, err := w.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// ParseIndex parses the text form of an index.
func ParseIndex(data []byte) ([]IndexEntry, error) {
	entries := make([]IndexEntry, 0, bytes.Count(data, []byte{'\n'}))
	line := 0
	for len(data) > 0 {
		line++
		var raw []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			raw, data = data[:i], data[i+1:]
		} else {
			raw, data = data, nil
		}
		if len(raw) == 0 {
			continue
		}

		fields := bytes.Split(raw, []byte{'\t'})
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: expected 3 fields, got %d", ErrCorruptIndex, line, len(fields))
		}
		key, err := strconv.ParseUint(string(fields[0]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: key: %w", ErrCorruptIndex, line, err)
		}
		off, err := strconv.ParseUint(string(fields[1]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: offset: %w", ErrCorruptIndex, line, err)
		}
		length, err := strconv.ParseUint(string(fields[2]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: length: %w", ErrCorruptIndex, line, err)
		}
		entries = append(entries, IndexEntry{Key: uint32(key), Offset: off, Length: length})
	}
	return entries, nil
}

// sortByKey stable-sorts entries by key; equal keys keep their order.
func sortByKey(entries []IndexEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
}

// renumberKeys assigns dense keys 0..N-1 in slice order.
func renumberKeys(entries []IndexEntry) {
	for i := range entries {
		entries[i].Key = uint32(i)
	}
}

func isSortedByKey(entries []IndexEntry) bool {
	return sort.SliceIsSorted(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
}
