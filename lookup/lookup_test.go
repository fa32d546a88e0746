package lookup

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/strucdb/internal/fs"
	"github.com/hupe1980/strucdb/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	key    uint32
	header string
}

func headerStore(t *testing.T, dir string, recs ...record) *store.Reader {
	t.Helper()
	data := filepath.Join(dir, "db_h")
	w, err := store.Create(data, data+".index", 1)
	require.NoError(t, err)
	for _, r := range recs {
		require.NoError(t, w.Append(0, r.key, []byte(r.header)))
	}
	require.NoError(t, w.Close())

	r, err := store.OpenReader(data, data+".index")
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

var files = []string{"/in/a.pdb", "/in/b.pdb", "/in/c.pdb"}

func TestBuild(t *testing.T) {
	r := headerStore(t, t.TempDir(),
		record{0, "a_A T1\n"},
		record{1, "b_A\n"},
		record{1, "b_B\n"},
	)

	var lookupBuf, sourceBuf bytes.Buffer
	sum, err := Build(r, files, &lookupBuf, &sourceBuf)
	require.NoError(t, err)

	assert.Equal(t, Summary{Entries: 3, Sources: 2}, sum)
	assert.Equal(t, "0\ta_A\t0\n1\tb_A\t1\n2\tb_B\t1\n", lookupBuf.String())
	assert.Equal(t, "0\ta.pdb\n1\tb.pdb\n", sourceBuf.String())

	entries, err := ReadLookup(&lookupBuf)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{0, "a_A", 0}, {1, "b_A", 1}, {2, "b_B", 1}}, entries)

	sources, err := ReadSource(&sourceBuf)
	require.NoError(t, err)
	assert.Equal(t, []Source{{0, "a.pdb"}, {1, "b.pdb"}}, sources)
}

func TestBuild_UnnamedRecordKeepsID(t *testing.T) {
	r := headerStore(t, t.TempDir(),
		record{0, "\n"},
		record{2, "c_A\n"},
	)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	var lookupBuf, sourceBuf bytes.Buffer
	sum, err := Build(r, files, &lookupBuf, &sourceBuf, WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, Summary{Entries: 2, Sources: 2, Unnamed: 1}, sum)
	assert.Equal(t, "0\t\t0\n1\tc_A\t2\n", lookupBuf.String())
	assert.Equal(t, "0\ta.pdb\n2\tc.pdb\n", sourceBuf.String())
	assert.Contains(t, logs.String(), "cannot parse entry name")
}

func TestBuild_SourceRowOncePerFile(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "db_h")
	// an unsorted index revisits file 0 after file 1
	require.NoError(t, os.WriteFile(data, []byte("x\ny\nz\n"), 0644))
	require.NoError(t, os.WriteFile(data+".index", []byte("0\t0\t2\n1\t2\t2\n0\t4\t2\n"), 0644))

	r, err := store.OpenReader(data, data+".index")
	require.NoError(t, err)
	defer r.Close()

	var lookupBuf, sourceBuf bytes.Buffer
	sum, err := Build(r, files, &lookupBuf, &sourceBuf)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Sources)
	assert.Equal(t, "0\ta.pdb\n1\tb.pdb\n", sourceBuf.String())
}

func TestBuild_UnknownFile(t *testing.T) {
	r := headerStore(t, t.TempDir(), record{7, "x\n"})

	_, err := Build(r, files, &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrUnknownFile)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	r := headerStore(t, dir, record{0, "a_A\n"}, record{1, "b_A\n"})
	prefix := filepath.Join(dir, "db")

	sum, err := WriteFiles(fs.Default, prefix, r, files)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Entries)

	got, err := os.ReadFile(LookupPath(prefix))
	require.NoError(t, err)
	assert.Equal(t, "0\ta_A\t0\n1\tb_A\t1\n", string(got))

	got, err = os.ReadFile(SourcePath(prefix))
	require.NoError(t, err)
	assert.Equal(t, "0\ta.pdb\n1\tb.pdb\n", string(got))

	_, err = os.Stat(LookupPath(prefix) + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFiles_FailureIsFinalizeError(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		fault   fs.Fault
	}{
		{"lookup write", "db.lookup", fs.Fault{FailAfterBytes: 0}},
		{"source rename", "db.source", fs.Fault{FailAfterBytes: -1, FailOnRename: true}},
		{"lookup sync", "db.lookup", fs.Fault{FailAfterBytes: -1, FailOnSync: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			r := headerStore(t, dir, record{0, "a_A\n"})

			faulty := fs.NewFaultyFS(nil)
			faulty.AddRule(tt.pattern, tt.fault)

			_, err := WriteFiles(faulty, filepath.Join(dir, "db"), r, files)
			var fe *store.FinalizeError
			require.ErrorAs(t, err, &fe)
			assert.True(t, strings.HasSuffix(fe.Path, tt.pattern))
			assert.ErrorIs(t, err, fs.ErrInjected)
		})
	}
}

func TestParseHeaderName(t *testing.T) {
	tests := map[string]string{
		"1abc_A LYSOZYME\n": "1abc_A",
		">1abc_A desc":      "1abc_A",
		"  x\ty":            "x",
		"\n":                "",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseHeaderName([]byte(in)), "%q", in)
	}
}

func TestReadLookup_Malformed(t *testing.T) {
	_, err := ReadLookup(strings.NewReader("0\tname\n"))
	assert.Error(t, err)

	_, err = ReadLookup(strings.NewReader("x\tname\t0\n"))
	assert.Error(t, err)

	_, err = ReadSource(strings.NewReader("1\n"))
	assert.Error(t, err)
}
