package mmap

import "errors"

// AccessPattern is a hint about how a mapping will be read.
type AccessPattern int

const (
	AccessDefault AccessPattern = iota
	// AccessSequential suits single front-to-back scans such as building
	// lookup tables from a header database.
	AccessSequential
)

var (
	// ErrClosed is returned when attempting to access a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the file size does not fit in memory.
	ErrInvalidSize = errors.New("mmap: invalid file size")
	// ErrOutOfRange is returned by Slice for a range past the end of the mapping.
	ErrOutOfRange = errors.New("mmap: range out of bounds")
)
