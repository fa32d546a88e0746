package store

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when a writer is used after Close.
	ErrClosed = errors.New("store: writer closed")

	// ErrInvalidShard is returned for a shard index outside [0, shards).
	ErrInvalidShard = errors.New("store: invalid shard")

	// ErrRecordOpen is returned when a shard already assembles a fragmented record.
	ErrRecordOpen = errors.New("store: record already open on shard")

	// ErrNoRecordOpen is returned by AddFragment or EndRecord without BeginRecord.
	ErrNoRecordOpen = errors.New("store: no record open on shard")

	// ErrCorruptIndex is returned when an index cannot be parsed or points outside the data file.
	ErrCorruptIndex = errors.New("store: corrupt index")
)

// FinalizeError reports an I/O failure while publishing a database.
// Finalize errors are not recoverable: nothing was published under Path.
type FinalizeError struct {
	Op   string
	Path string
	Err  error
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FinalizeError) Unwrap() error { return e.Err }

func finalizeErr(op, path string, err error) error {
	var fe *FinalizeError
	if errors.As(err, &fe) {
		return err
	}
	return &FinalizeError{Op: op, Path: path, Err: err}
}
