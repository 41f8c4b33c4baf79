package localfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scpane/internal/domain"
)

func TestListDirSortsDirsFirst(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "zdir"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Adir"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "beta.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Alpha.txt"), nil, 0o644))

	entries, err := ListDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []domain.FileEntry{
		{Name: "Adir", IsDir: true},
		{Name: "zdir", IsDir: true},
		{Name: "Alpha.txt"},
		{Name: "beta.txt"},
	}, entries)
}

func TestListDirMissingDirectoryErrors(t *testing.T) {
	_, err := ListDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestFileSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 42), 0o644))

	assert.Equal(t, int64(42), FileSize(path))
	assert.Equal(t, int64(0), FileSize(filepath.Join(dir, "missing")))
}

func TestWalkFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "mid.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "deep", "leaf.txt"), nil, 0o644))

	files, err := WalkFiles(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"top.txt",
		filepath.Join("sub", "mid.txt"),
		filepath.Join("sub", "deep", "leaf.txt"),
	}, files)
}
