package localfs

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"scpane/internal/domain"
)

// ListDir lists a local directory as sorted FileEntries. Unlike the
// remote side, failures here are real local problems (missing directory,
// permission denied) and are returned to the caller.
func ListDir(path string) ([]domain.FileEntry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", path)
	}

	entries := make([]domain.FileEntry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		entries = append(entries, domain.FileEntry{
			Name:  dirEntry.Name(),
			IsDir: dirEntry.IsDir(),
		})
	}
	domain.SortEntries(entries)
	return entries, nil
}

// FileSize returns the on-disk size of a file, or 0 when it cannot be
// statted. Used to sample download progress from the destination file.
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// WalkFiles collects every regular file under root, depth first,
// returning paths relative to root. Used to build folder upload jobs.
func WalkFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}
	return files, nil
}
