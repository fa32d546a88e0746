package store

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/strucdb/internal/fs"
)

// DBType identifies the content of a database in its .dbtype sidecar.
type DBType int32

const (
	DBTypeAminoAcids DBType = 0
	DBTypeGeneric    DBType = 12
	DBTypeCAlpha     DBType = 101
)

const dbTypeCompressedBit = 1 << 16

func (t DBType) String() string {
	switch t {
	case DBTypeAminoAcids:
		return "Aminoacid"
	case DBTypeGeneric:
		return "Generic"
	case DBTypeCAlpha:
		return "CA"
	default:
		return fmt.Sprintf("DBType(%d)", int32(t))
	}
}

// DBTypePath returns the sidecar path for the data file dataPath.
func DBTypePath(dataPath string) string {
	return dataPath + ".dbtype"
}

func encodeDBType(t DBType, compressed bool) []byte {
	v := uint32(t) &^ dbTypeCompressedBit
	if compressed {
		v |= dbTypeCompressedBit
	}
	return binary.LittleEndian.AppendUint32(nil, v)
}

// writeDBTypeFile writes a sidecar to path as is; Close renames it into place.
func writeDBTypeFile(fsys fs.FileSystem, path string, t DBType, compressed bool) error {
	f, err := fs.Create(fsys, path)
	if err != nil {
		return err
	}
	if _, err := f.Write(encodeDBType(t, compressed)); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadDBType reads the sidecar for dataPath.
func ReadDBType(fsys fs.FileSystem, dataPath string) (DBType, bool, error) {
	f, err := fs.Open(fsys, DBTypePath(dataPath))
	if err != nil {
		return 0, false, err
	}
	defer f.Close()

	var buf [4]byte
	if _, err := io.ReadFull(f, buf[:]); err != nil {
		return 0, false, fmt.Errorf("read %s: %w", DBTypePath(dataPath), err)
	}
	v := binary.LittleEndian.Uint32(buf[:])
	return DBType(v &^ dbTypeCompressedBit), v&dbTypeCompressedBit != 0, nil
}
