package lookup

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// ReadLookup parses a lookup table.
func ReadLookup(r io.Reader) ([]Entry, error) {
	var out []Entry
	err := scanRows(r, 3, func(line int, f [][]byte) error {
		id, err := strconv.ParseUint(string(f[0]), 10, 64)
		if err != nil {
			return fmt.Errorf("lookup line %d: %w", line, err)
		}
		fn, err := strconv.ParseUint(string(f[2]), 10, 32)
		if err != nil {
			return fmt.Errorf("lookup line %d: %w", line, err)
		}
		out = append(out, Entry{ID: id, Name: string(f[1]), FileNumber: uint32(fn)})
		return nil
	})
	return out, err
}

// ReadSource parses a source table.
func ReadSource(r io.Reader) ([]Source, error) {
	var out []Source
	err := scanRows(r, 2, func(line int, f [][]byte) error {
		fn, err := strconv.ParseUint(string(f[0]), 10, 32)
		if err != nil {
			return fmt.Errorf("source line %d: %w", line, err)
		}
		out = append(out, Source{FileNumber: uint32(fn), BaseName: string(f[1])})
		return nil
	})
	return out, err
}

func scanRows(r io.Reader, columns int, fn func(line int, fields [][]byte) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := bytes.SplitN(sc.Bytes(), []byte{'\t'}, columns)
		if len(fields) != columns {
			return fmt.Errorf("line %d: want %d columns, got %d", line, columns, len(fields))
		}
		if err := fn(line, fields); err != nil {
			return err
		}
	}
	return sc.Err()
}
