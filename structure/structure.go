package structure

import (
	"errors"
	"math"
)

var (
	// ErrNoChains is returned when a file contains no residue with a CA atom.
	ErrNoChains = errors.New("structure: no chains")

	// ErrMalformed is returned for records that cannot be parsed.
	ErrMalformed = errors.New("structure: malformed record")
)

// Vec3 is a point in Ångström.
type Vec3 struct {
	X, Y, Z float32
}

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Scale(s float32) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}
func (a Vec3) Dot(b Vec3) float32 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{a.Y*b.Z - a.Z*b.Y, a.Z*b.X - a.X*b.Z, a.X*b.Y - a.Y*b.X}
}
func (a Vec3) Norm() float32 { return float32(math.Sqrt(float64(a.Dot(a)))) }

// Chain is the half-open residue range [Start, End) of one chain.
type Chain struct {
	ID    string
	Start int
	End   int
}

// Len returns the number of residues in the chain.
func (c Chain) Len() int { return c.End - c.Start }

// Coords is the backbone view of one chain.
type Coords struct {
	CA, N, C, CB []Vec3
}

// Structure holds per-residue data for all chains of one file. Residue arrays
// are parallel; chains index into them.
type Structure struct {
	Name     string
	Title    string
	Chains   []Chain
	Sequence []byte
	CA       []Vec3
	N        []Vec3
	C        []Vec3
	CB       []Vec3
}

// Reset clears s while keeping its allocations.
func (s *Structure) Reset() {
	s.Name = ""
	s.Title = ""
	s.Chains = s.Chains[:0]
	s.Sequence = s.Sequence[:0]
	s.CA = s.CA[:0]
	s.N = s.N[:0]
	s.C = s.C[:0]
	s.CB = s.CB[:0]
}

// ChainCoords returns the backbone coordinates of chain i.
func (s *Structure) ChainCoords(i int) Coords {
	c := s.Chains[i]
	return Coords{
		CA: s.CA[c.Start:c.End],
		N:  s.N[c.Start:c.End],
		C:  s.C[c.Start:c.End],
		CB: s.CB[c.Start:c.End],
	}
}

// ChainSequence returns the one-letter residue codes of chain i.
func (s *Structure) ChainSequence(i int) []byte {
	c := s.Chains[i]
	return s.Sequence[c.Start:c.End]
}

// EntryName returns the identifier of chain i ("<name>_<chain>").
func (s *Structure) EntryName(i int) string {
	id := s.Chains[i].ID
	if id == "" {
		return s.Name
	}
	return s.Name + "_" + id
}

// AppendHeader appends the header line of chain i to dst: the entry name,
// the title if there is one, and a trailing newline.
func (s *Structure) AppendHeader(dst []byte, i int) []byte {
	dst = append(dst, s.EntryName(i)...)
	if s.Title != "" {
		dst = append(dst, ' ')
		dst = append(dst, s.Title...)
	}
	return append(dst, '\n')
}

// Parser loads a structure file into dst, reusing dst's allocations.
// Implementations must be safe for concurrent use with distinct dst values.
type Parser interface {
	Parse(path string, dst *Structure) error
}

// VirtualCB places an ideal CB from the backbone, for residues without one
// (glycine, truncated side chains).
func VirtualCB(n, ca, c Vec3) Vec3 {
	b := ca.Sub(n)
	cc := c.Sub(ca)
	a := b.Cross(cc)
	return a.Scale(-0.58273431).Add(b.Scale(0.56802827)).Add(cc.Scale(-0.54067466)).Add(ca)
}
