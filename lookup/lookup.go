package lookup

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/strucdb/internal/fs"
	"github.com/hupe1980/strucdb/store"
)

// ErrUnknownFile is returned when a header record's key is not a valid index
// into the file list.
var ErrUnknownFile = errors.New("lookup: record key outside file list")

// Entry is one row of the lookup table.
type Entry struct {
	ID         uint64
	Name       string
	FileNumber uint32
}

// Source is one row of the source table.
type Source struct {
	FileNumber uint32
	BaseName   string
}

// Summary describes a build.
type Summary struct {
	Entries int // lookup rows
	Sources int // source rows
	Unnamed int // records whose name could not be parsed
}

type options struct {
	logger *slog.Logger
}

// Option configures Build and WriteFiles.
type Option func(*options)

// WithLogger sets the logger used for unnamed-record warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// ParseHeaderName returns the first whitespace-delimited token of a header,
// without a leading '>'.
func ParseHeaderName(header []byte) string {
	header = bytes.TrimPrefix(bytes.TrimLeft(header, " \t"), []byte{'>'})
	fields := bytes.Fields(header)
	if len(fields) == 0 {
		return ""
	}
	return string(fields[0])
}

// Build scans the header store r in storage order and writes the lookup and
// source tables. Record keys must still be file ordinals into files.
func Build(r *store.Reader, files []string, lookupW, sourceW io.Writer, optFns ...Option) (Summary, error) {
	opts := options{logger: slog.New(slog.DiscardHandler)}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := r.AdviseSequential(); err != nil {
		opts.logger.Debug("sequential access hint failed", "error", err)
	}

	lw := bufio.NewWriter(lookupW)
	sw := bufio.NewWriter(sourceW)

	var (
		sum   Summary
		seen  = roaring.New()
		prev  uint32
		line  []byte
		first = true
	)
	for i := 0; i < r.Len(); i++ {
		header, err := r.Data(i)
		if err != nil {
			return sum, fmt.Errorf("read header %d: %w", i, err)
		}
		fileNumber := r.Key(i)
		if int64(fileNumber) >= int64(len(files)) {
			return sum, fmt.Errorf("%w: record %d has key %d, %d files", ErrUnknownFile, i, fileNumber, len(files))
		}

		name := ParseHeaderName(header)
		if name == "" {
			sum.Unnamed++
			opts.logger.Warn("cannot parse entry name", "record", i, "file", files[fileNumber])
		}

		line = strconv.AppendUint(line[:0], uint64(i), 10)
		line = append(line, '\t')
		line = append(line, name...)
		line = append(line, '\t')
		line = strconv.AppendUint(line, uint64(fileNumber), 10)
		line = append(line, '\n')
		if _, err := lw.Write(line); err != nil {
			return sum, err
		}
		sum.Entries++

		if (first || fileNumber != prev) && seen.CheckedAdd(fileNumber) {
			line = strconv.AppendUint(line[:0], uint64(fileNumber), 10)
			line = append(line, '\t')
			line = append(line, filepath.Base(files[fileNumber])...)
			line = append(line, '\n')
			if _, err := sw.Write(line); err != nil {
				return sum, err
			}
			sum.Sources++
		}
		prev, first = fileNumber, false
	}

	if err := lw.Flush(); err != nil {
		return sum, err
	}
	return sum, sw.Flush()
}

// LookupPath returns the lookup table path of a database prefix.
func LookupPath(prefix string) string { return prefix + ".lookup" }

// SourcePath returns the source table path of a database prefix.
func SourcePath(prefix string) string { return prefix + ".source" }

// WriteFiles builds both tables for the header store r and publishes them as
// prefix.lookup and prefix.source. Each table is written to a temporary file
// and renamed into place; failures are returned as *store.FinalizeError.
func WriteFiles(fsys fs.FileSystem, prefix string, r *store.Reader, files []string, optFns ...Option) (Summary, error) {
	var lookupBuf, sourceBuf bytes.Buffer
	sum, err := Build(r, files, &lookupBuf, &sourceBuf, optFns...)
	if err != nil {
		return sum, err
	}

	for _, t := range []struct {
		path string
		data []byte
	}{
		{LookupPath(prefix), lookupBuf.Bytes()},
		{SourcePath(prefix), sourceBuf.Bytes()},
	} {
		if err := fs.WriteFileAtomic(fsys, t.path, t.data); err != nil {
			return sum, &store.FinalizeError{Op: "write table", Path: t.path, Err: err}
		}
	}
	return sum, nil
}
