package alphabet

import (
	"errors"

	"github.com/hupe1980/strucdb/structure"
)

// States is the number of regular states. Invalid is the extra state used for
// residues that cannot be assigned.
const (
	States  = 20
	Invalid = States
)

// ErrTableSize is returned by NewTable when the letter count does not match
// States+1.
var ErrTableSize = errors.New("alphabet: table needs one letter per state plus invalid")

// Converter appends one state per residue of a chain to dst.
// Implementations must be safe for concurrent use.
type Converter interface {
	Convert(dst []byte, c structure.Coords) []byte
}

// Table maps states to letters.
type Table struct {
	letters [States + 1]byte
}

// DefaultLetters are the letters of DefaultTable, Invalid last.
const DefaultLetters = "ACDEFGHIKLMNPQRSTVWYX"

// DefaultTable is the table used when none is configured.
var DefaultTable = mustTable(DefaultLetters)

// NewTable builds a table from one letter per state, Invalid last.
func NewTable(letters string) (*Table, error) {
	if len(letters) != States+1 {
		return nil, ErrTableSize
	}
	t := &Table{}
	copy(t.letters[:], letters)
	return t, nil
}

func mustTable(letters string) *Table {
	t, err := NewTable(letters)
	if err != nil {
		panic(err)
	}
	return t
}

// Letter returns the letter for state s. Out-of-range states map to the
// Invalid letter.
func (t *Table) Letter(s byte) byte {
	if int(s) > Invalid {
		s = Invalid
	}
	return t.letters[s]
}

// AppendLetters appends the letters of states to dst.
func (t *Table) AppendLetters(dst, states []byte) []byte {
	for _, s := range states {
		dst = append(dst, t.Letter(s))
	}
	return dst
}
