package strucdb

import (
	"errors"

	"github.com/hupe1980/strucdb/store"
)

var (
	// ErrNoInputs is returned when CreateDB is called without input paths.
	ErrNoInputs = errors.New("strucdb: no input paths")

	// ErrEmptyPrefix is returned when the output prefix is empty.
	ErrEmptyPrefix = errors.New("strucdb: empty output prefix")
)

// FinalizeError reports an I/O failure while publishing a database or table.
// Use errors.As to detect it; the run must be treated as failed.
type FinalizeError = store.FinalizeError

// IsFinalizeError reports whether err was caused by a finalization failure.
func IsFinalizeError(err error) bool {
	var fe *FinalizeError
	return errors.As(err, &fe)
}
