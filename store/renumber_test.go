package store

import (
	"os"
	"testing"

	"github.com/hupe1980/strucdb/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenumber(t *testing.T) {
	data, index := paths(t)

	w, err := Create(data, index, 2)
	require.NoError(t, err)
	// File 0 has two chains, file 2 one, file 5 two; files 1, 3, 4 failed.
	require.NoError(t, w.Append(0, 0, []byte("0a")))
	require.NoError(t, w.Append(0, 0, []byte("0b")))
	require.NoError(t, w.Append(0, 2, []byte("2a")))
	require.NoError(t, w.Append(1, 5, []byte("5a")))
	require.NoError(t, w.Append(1, 5, []byte("5b")))
	require.NoError(t, w.Close())

	before := readEntries(t, index)
	require.NoError(t, Renumber(nil, index))
	after := readEntries(t, index)

	require.Len(t, after, len(before))
	for i := range after {
		assert.Equal(t, uint32(i), after[i].Key)
		assert.Equal(t, before[i].Offset, after[i].Offset)
		assert.Equal(t, before[i].Length, after[i].Length)
	}

	r := readAll(t, data, index)
	for i, want := range []string{"0a", "0b", "2a", "5a", "5b"} {
		pos, ok := r.Lookup(uint32(i))
		require.True(t, ok)
		got, err := r.Data(pos)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	}
}

func TestRenumber_Idempotent(t *testing.T) {
	_, index := paths(t)
	require.NoError(t, os.WriteFile(index, []byte("9\t10\t2\n3\t0\t5\n9\t12\t1\n3\t5\t5\n"), 0644))

	require.NoError(t, Renumber(nil, index))
	once, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Equal(t, "0\t0\t5\n1\t5\t5\n2\t10\t2\n3\t12\t1\n", string(once))

	require.NoError(t, Renumber(nil, index))
	twice, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestRenumber_Empty(t *testing.T) {
	_, index := paths(t)
	require.NoError(t, os.WriteFile(index, nil, 0644))
	require.NoError(t, Renumber(nil, index))

	got, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRenumber_Failures(t *testing.T) {
	_, index := paths(t)

	err := Renumber(nil, index)
	var fe *FinalizeError
	require.ErrorAs(t, err, &fe)
	assert.True(t, os.IsNotExist(fe.Err))

	original := []byte("4\t0\t1\n")
	require.NoError(t, os.WriteFile(index, original, 0644))

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(".index", fs.Fault{FailAfterBytes: -1, FailOnRename: true})
	err = Renumber(ffs, index)
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, fs.ErrInjected)

	got, err := os.ReadFile(index)
	require.NoError(t, err)
	assert.Equal(t, original, got, "old index must survive a failed renumber")

	require.NoError(t, os.WriteFile(index, []byte("x\t0\t1\n"), 0644))
	assert.ErrorIs(t, Renumber(nil, index), ErrCorruptIndex)
}

func readEntries(t *testing.T, index string) []IndexEntry {
	t.Helper()
	raw, err := os.ReadFile(index)
	require.NoError(t, err)
	entries, err := ParseIndex(raw)
	require.NoError(t, err)
	return entries
}
