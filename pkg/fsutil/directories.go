// Package fsutil provides utility functions and constants for file system operations.
package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	pkgerrors "github.com/glorpus-work/narget/pkg/errors"
)

// EnsureDir creates a directory and all necessary parent directories with default permissions.
// It succeeds when path already exists as a directory and fails when something that is not a
// directory occupies it. Failures are returned as a FilesystemFailure carrying the path and the
// underlying *fs.PathError.
func EnsureDir(path string) error {
	return EnsureDirPerm(path, DirModeDefault)
}

// EnsureDirPerm is EnsureDir with an explicit mode for newly created directories.
func EnsureDirPerm(path string, perm os.FileMode) error {
	err := os.MkdirAll(path, perm)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.KindFilesystemFailure, path, err)
}

// EnsureFileDir creates the parent directory of a file path if it doesn't exist.
func EnsureFileDir(filePath string) error {
	return EnsureDir(filepath.Dir(filePath))
}
