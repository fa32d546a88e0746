package structure

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// PDBParser reads the first model of a PDB file. Gzip input is detected from
// the magic bytes. Only residues with a CA atom are kept; alternate locations
// other than the first are ignored. A chain is a consecutive run of records
// with the same chain identifier.
type PDBParser struct{}

// NewPDBParser returns a PDB parser.
func NewPDBParser() PDBParser { return PDBParser{} }

// Parse implements Parser.
func (PDBParser) Parse(path string, dst *Structure) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dst.Reset()
	dst.Name = EntryBaseName(path)

	br := bufio.NewReaderSize(f, 64*1024)
	var r io.Reader = br
	if magic, _ := br.Peek(2); len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	if err := parsePDB(r, dst); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

type atomKey struct {
	chain  string
	resSeq string
}

type residueAtoms struct {
	resName      string
	ca, n, c, cb Vec3
	hasCA        bool
	hasN, hasC   bool
	hasCB        bool
}

func parsePDB(r io.Reader, dst *Structure) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256), 1024*1024)

	var (
		title   []string
		cur     residueAtoms
		curKey  atomKey
		started bool
	)

	flush := func() {
		if !started || !cur.hasCA {
			return
		}
		if n := len(dst.Chains); n == 0 || dst.Chains[n-1].ID != curKey.chain {
			dst.Chains = append(dst.Chains, Chain{ID: curKey.chain, Start: len(dst.CA), End: len(dst.CA)})
		}
		n, c := cur.n, cur.c
		if !cur.hasN {
			n = cur.ca
		}
		if !cur.hasC {
			c = cur.ca
		}
		cb := cur.cb
		if !cur.hasCB {
			if cur.hasN && cur.hasC {
				cb = VirtualCB(n, cur.ca, c)
			} else {
				cb = cur.ca
			}
		}
		dst.Sequence = append(dst.Sequence, OneLetter(cur.resName))
		dst.CA = append(dst.CA, cur.ca)
		dst.N = append(dst.N, n)
		dst.C = append(dst.C, c)
		dst.CB = append(dst.CB, cb)
		dst.Chains[len(dst.Chains)-1].End = len(dst.CA)
	}

	line := 0
scan:
	for sc.Scan() {
		line++
		rec := sc.Bytes()
		switch {
		case bytes.HasPrefix(rec, []byte("ENDMDL")):
			break scan
		case bytes.HasPrefix(rec, []byte("TITLE ")):
			if len(rec) > 10 {
				if t := strings.TrimSpace(string(rec[10:])); t != "" {
					title = append(title, t)
				}
			}
		case bytes.HasPrefix(rec, []byte("ATOM  ")), bytes.HasPrefix(rec, []byte("HETATM")):
			if len(rec) < 54 {
				return fmt.Errorf("%w: line %d: atom record too short", ErrMalformed, line)
			}
			resName := strings.TrimSpace(string(rec[17:20]))
			if rec[0] == 'H' && resName != "MSE" {
				continue
			}
			if alt := rec[16]; alt != ' ' && alt != 'A' {
				continue
			}

			key := atomKey{
				chain:  strings.TrimSpace(string(rec[21:22])),
				resSeq: string(rec[22:27]),
			}
			if !started || key != curKey {
				flush()
				cur = residueAtoms{resName: resName}
				curKey = key
				started = true
			}

			pos, err := parseCoords(rec)
			if err != nil {
				return fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
			}
			switch strings.TrimSpace(string(rec[12:16])) {
			case "CA":
				cur.ca, cur.hasCA = pos, true
			case "N":
				cur.n, cur.hasN = pos, true
			case "C":
				cur.c, cur.hasC = pos, true
			case "CB":
				cur.cb, cur.hasCB = pos, true
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	flush()

	dst.Title = strings.Join(title, " ")
	if len(dst.Chains) == 0 {
		return ErrNoChains
	}
	return nil
}

func parseCoords(rec []byte) (Vec3, error) {
	var v [3]float32
	for i := 0; i < 3; i++ {
		field := strings.TrimSpace(string(rec[30+8*i : 38+8*i]))
		f, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return Vec3{}, err
		}
		v[i] = float32(f)
	}
	return Vec3{v[0], v[1], v[2]}, nil
}

// EntryBaseName derives an entry name from a file path: the base name with a
// trailing ".gz" and then the format extension removed.
func EntryBaseName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
