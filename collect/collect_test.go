package collect

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/strucdb/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestCollect_NestedDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "sub", "a.pdb"))
	touch(t, filepath.Join(root, "sub", "b.pdb"))

	files, err := Collect(fs.Default, []string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "sub", "a.pdb"),
		filepath.Join(root, "sub", "b.pdb"),
	}, files)
}

func TestCollect_DepthFirstOrder(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "z.pdb"))
	touch(t, filepath.Join(root, "a", "deep", "1.pdb"))
	touch(t, filepath.Join(root, "a", "2.pdb"))
	touch(t, filepath.Join(root, "b", "3.pdb"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(root, "z.pdb"), filepath.Join(root, "link.pdb")))

	files, err := Collect(nil, []string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "z.pdb"),
		filepath.Join(root, "a", "2.pdb"),
		filepath.Join(root, "a", "deep", "1.pdb"),
		filepath.Join(root, "b", "3.pdb"),
	}, files)
}

func TestCollect_Verbatim(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.pdb"))

	in := []string{"c.pdb", root, "a.pdb"}
	files, err := Collect(fs.Default, in)
	require.NoError(t, err)
	assert.Equal(t, in, files)

	// a single regular or missing file is passed through
	single := filepath.Join(root, "a.pdb")
	files, err = Collect(fs.Default, []string{single})
	require.NoError(t, err)
	assert.Equal(t, []string{single}, files)

	files, err = Collect(fs.Default, []string{filepath.Join(root, "missing.pdb")})
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestCollect_EmptyDirectory(t *testing.T) {
	files, err := Collect(fs.Default, []string{t.TempDir()})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCollect_UnreadableSubdirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.pdb"))
	touch(t, filepath.Join(root, "locked", "b.pdb"))
	touch(t, filepath.Join(root, "open", "c.pdb"))

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(string(filepath.Separator)+"locked", fs.Fault{FailAfterBytes: -1, FailOnReadDir: true})

	var buf bytes.Buffer
	files, err := Collect(ffs, []string{root}, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.pdb"),
		filepath.Join(root, "open", "c.pdb"),
	}, files)
	assert.Contains(t, buf.String(), "skipping unreadable directory")
	assert.Contains(t, buf.String(), "locked")
}

func TestCollect_UnreadableRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.pdb"))

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(root, fs.Fault{FailAfterBytes: -1, FailOnReadDir: true})

	_, err := Collect(ffs, []string{root})
	assert.ErrorIs(t, err, fs.ErrInjected)
}
