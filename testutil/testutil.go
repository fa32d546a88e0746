package testutil

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/hupe1980/strucdb/structure"
	"github.com/klauspost/compress/gzip"
)

// ChainSpec describes one chain of a generated PDB file.
type ChainSpec struct {
	ID       string
	Residues string // one-letter codes
}

var oneToThree = map[byte]string{
	'A': "ALA", 'R': "ARG", 'N': "ASN", 'D': "ASP", 'C': "CYS",
	'Q': "GLN", 'E': "GLU", 'G': "GLY", 'H': "HIS", 'I': "ILE",
	'L': "LEU", 'K': "LYS", 'M': "MET", 'F': "PHE", 'P': "PRO",
	'S': "SER", 'T': "THR", 'W': "TRP", 'Y': "TYR", 'V': "VAL",
}

// helix returns the position of atom offset off (0 = N, 1 = CA, 2 = C, 3 = CB)
// of the i-th residue of a file.
func helix(i, off int) (float64, float64, float64) {
	angle := (100*float64(i) + 25*float64(off)) * math.Pi / 180
	radius := 2.3
	if off != 1 {
		radius = 1.9
	}
	return radius * math.Cos(angle), radius * math.Sin(angle), 1.5*float64(i) + 0.3*float64(off)
}

func round3(v float64) float32 {
	f, _ := strconv.ParseFloat(fmt.Sprintf("%.3f", v), 32)
	return float32(f)
}

// CA returns the CA position of the i-th residue (counted across all chains
// of a file) exactly as the parser will read it back.
func CA(i int) structure.Vec3 {
	x, y, z := helix(i, 1)
	return structure.Vec3{X: round3(x), Y: round3(y), Z: round3(z)}
}

// PDB renders a PDB file with the given title and chains.
func PDB(title string, chains ...ChainSpec) []byte {
	var b bytes.Buffer
	if title != "" {
		fmt.Fprintf(&b, "TITLE     %s\n", title)
	}

	serial, res := 1, 0
	for _, ch := range chains {
		for j := 0; j < len(ch.Residues); j++ {
			name, ok := oneToThree[ch.Residues[j]]
			if !ok {
				name = "UNK"
			}
			atoms := []string{"N", "CA", "C"}
			if ch.Residues[j] != 'G' {
				atoms = append(atoms, "CB")
			}
			for off, atom := range atoms {
				x, y, z := helix(res, off)
				fmt.Fprintf(&b, "ATOM  %5d  %-3s %3s %1s%4d    %8.3f%8.3f%8.3f  1.00  0.00           %1s\n",
					serial, atom, name, ch.ID, j+1, x, y, z, atom[:1])
				serial++
			}
			res++
		}
		fmt.Fprintf(&b, "TER   %5d\n", serial)
		serial++
	}
	b.WriteString("END\n")
	return b.Bytes()
}

// WritePDB writes a generated PDB file to dir/name and returns its path.
func WritePDB(t testing.TB, dir, name, title string, chains ...ChainSpec) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, PDB(title, chains...), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteGzipPDB is WritePDB with gzip compression.
func WriteGzipPDB(t testing.TB, dir, name, title string, chains ...ChainSpec) string {
	t.Helper()
	var b bytes.Buffer
	zw := gzip.NewWriter(&b)
	if _, err := zw.Write(PDB(title, chains...)); err != nil {
		t.Fatalf("gzip: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteFile writes raw content to dir/name and returns its path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
