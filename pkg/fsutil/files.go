package fsutil

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/glorpus-work/narget/pkg/errors"
)

// CreateFilePerm creates a new file with the specified permissions.
func CreateFilePerm(name string, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, perm)
}

// WriteFile streams r into path with the given permissions, creating parent directories as
// needed. The write is not atomic: a failure part way through leaves a truncated file behind.
// Errors from r are returned unchanged; errors from the file system are FilesystemFailures.
func WriteFile(path string, r io.Reader, perm os.FileMode) (int64, error) {
	if err := EnsureFileDir(path); err != nil {
		return 0, err
	}

	file, err := CreateFilePerm(path, perm)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.KindFilesystemFailure, path, err)
	}

	src := &trackingReader{r: r}
	n, err := io.Copy(file, src)
	if err != nil {
		_ = file.Close()
		if src.err != nil {
			return n, src.err
		}
		return n, pkgerrors.New(pkgerrors.KindFilesystemFailure, path, err)
	}
	if err := file.Close(); err != nil {
		return n, pkgerrors.New(pkgerrors.KindFilesystemFailure, path, err)
	}

	// The mode passed to OpenFile only applies when the file is created.
	if err := os.Chmod(path, perm); err != nil {
		return n, pkgerrors.New(pkgerrors.KindFilesystemFailure, path, err)
	}
	return n, nil
}

// WithinDir reports whether path lies inside root (or is root itself) once both are cleaned.
func WithinDir(root, path string) bool {
	root = filepath.Clean(root)
	path = filepath.Clean(path)
	if root == path {
		return true
	}
	return strings.HasPrefix(path, root+string(os.PathSeparator))
}

// trackingReader remembers the last non-EOF error returned by the wrapped reader so that
// WriteFile can tell read failures apart from write failures.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF {
		t.err = err
	}
	return n, err
}
