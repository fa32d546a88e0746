package store

import (
	"github.com/hupe1980/strucdb/internal/compress"
	"github.com/hupe1980/strucdb/internal/fs"
)

// Compression selects the per-record transform applied by a Writer.
type Compression = compress.Type

const (
	CompressionNone = compress.None
	CompressionLZ4  = compress.LZ4
	CompressionZSTD = compress.ZSTD
)

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	return compress.ParseType(s)
}

const defaultBufferSize = 256 * 1024

type options struct {
	compression Compression
	dbType      DBType
	fs          fs.FileSystem
	bufferSize  int
}

func defaultOptions() options {
	return options{
		compression: CompressionNone,
		dbType:      DBTypeGeneric,
		fs:          fs.Default,
		bufferSize:  defaultBufferSize,
	}
}

// Option configures a Writer or Reader.
type Option func(*options)

// WithCompression compresses every record with c. Readers detect compression
// from the .dbtype sidecar; the option only matters for readers when the
// sidecar is missing.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithDBType sets the type code written to the .dbtype sidecar.
func WithDBType(t DBType) Option {
	return func(o *options) {
		o.dbType = t
	}
}

// WithFileSystem routes file operations through fsys.
// If nil is passed, fs.Default is used.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys == nil {
			fsys = fs.Default
		}
		o.fs = fsys
	}
}

// WithBufferSize sets the per-shard write buffer size.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

type closeOptions struct {
	renumber bool
}

// CloseOption configures Writer.Close.
type CloseOption func(*closeOptions)

// WithRenumber makes Close write a renumbered index (dense keys 0..N-1 in
// storage order) instead of the caller's keys.
func WithRenumber() CloseOption {
	return func(o *closeOptions) {
		o.renumber = true
	}
}
