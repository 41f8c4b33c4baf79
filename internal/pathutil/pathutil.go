package pathutil

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// JoinRemote joins a remote directory and a child name with a single
// slash, treating "/" as a bare prefix.
func JoinRemote(base, name string) string {
	if base == "/" {
		return "/" + name
	}
	if strings.HasSuffix(base, "/") {
		return base + name
	}
	return base + "/" + name
}

// ParentRemote returns the parent of a remote path, or "/" when the path
// is the root or the parent collapses to empty. Paths containing "." or
// ".." segments are not normalized.
func ParentRemote(remotePath string) string {
	if remotePath == "/" {
		return "/"
	}
	parent := path.Dir(remotePath)
	if parent == "" || parent == "." {
		return "/"
	}
	return parent
}

// ShellEscape wraps a path in single quotes, closing and reopening the
// quotes around any embedded single quote. This keeps paths with spaces
// and most metacharacters intact through the remote shell; it is not a
// general shell-injection defense.
func ShellEscape(remotePath string) string {
	if remotePath == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(remotePath, "'", `'\''`) + "'"
}

// UniqueLocalPath picks a destination under dir that does not exist yet.
// The file name is split at its first dot so multi-part extensions stay
// together ("archive.tar.gz" keeps ".tar.gz"); collisions get " (1)",
// " (2)", ... inserted between base and suffix.
func UniqueLocalPath(dir, fileName string) string {
	base := fileName
	suffix := ""
	if pos := strings.Index(fileName, "."); pos >= 0 {
		base = fileName[:pos]
		suffix = fileName[pos:]
	}

	candidate := filepath.Join(dir, base+suffix)
	if !exists(candidate) {
		return candidate
	}
	for n := 1; ; n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, n, suffix))
		if !exists(candidate) {
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
