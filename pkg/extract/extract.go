// Package extract materializes archive entries on disk.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/glorpus-work/narget/internal/logger"
	"github.com/glorpus-work/narget/pkg/archive"
	pkgerrors "github.com/glorpus-work/narget/pkg/errors"
	"github.com/glorpus-work/narget/pkg/fsutil"
)

// SymlinkFunc is called for every symlink entry with the link's target. Symlinks are never
// created on disk; the callback decides what the target refers to.
type SymlinkFunc func(ctx context.Context, entry *archive.Entry) error

// Extractor writes the entries of an archive below a destination root.
type Extractor struct {
	onSymlink SymlinkFunc
	// RootFileName is used when the archive root is a file rather than a directory.
	RootFileName string
}

// NewExtractor creates an extractor. onSymlink may be nil, in which case symlinks are skipped.
func NewExtractor(onSymlink SymlinkFunc) *Extractor {
	return &Extractor{onSymlink: onSymlink, RootFileName: "out"}
}

// Extract creates root and then consumes r entry by entry in stream order. The first error
// stops extraction; files written so far are left in place.
func (x *Extractor) Extract(ctx context.Context, r archive.Reader, root string) error {
	if err := fsutil.EnsureDir(root); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return asMalformed(root, err)
		}

		if err := x.extractEntry(ctx, r, root, entry); err != nil {
			return err
		}
	}
}

func (x *Extractor) extractEntry(ctx context.Context, r io.Reader, root string, entry *archive.Entry) error {
	dest, err := x.destination(root, entry)
	if err != nil {
		return err
	}

	switch entry.Kind {
	case archive.KindDirectory:
		if entry.IsRoot() {
			return nil
		}
		logger.Debug("creating directory", logger.Fields{"path": dest})
		return fsutil.EnsureDir(dest)

	case archive.KindFile, archive.KindExecutable:
		var perm os.FileMode = fsutil.FileModeDefault
		if entry.Kind == archive.KindExecutable {
			perm = fsutil.FileModeExec
		}
		logger.Debug("extracting file", logger.Fields{"path": dest, "size": entry.Size, "mode": perm.String()})
		if _, err := fsutil.WriteFile(dest, r, perm); err != nil {
			return asMalformed(dest, err)
		}
		return nil

	case archive.KindSymlink:
		logger.Debug("following symlink", logger.Fields{"path": dest, "target": entry.Target})
		if x.onSymlink == nil {
			return nil
		}
		return x.onSymlink(ctx, entry)

	default:
		logger.Warn("skipping unsupported archive entry", logger.Fields{"path": dest, "kind": entry.Kind.String()})
		return nil
	}
}

// destination maps an entry name below root and rejects names that would leave it.
func (x *Extractor) destination(root string, entry *archive.Entry) (string, error) {
	if entry.IsRoot() {
		if entry.Kind == archive.KindDirectory {
			return root, nil
		}
		return filepath.Join(root, x.RootFileName), nil
	}

	dest := filepath.Join(root, filepath.FromSlash(entry.Name))
	if dest == filepath.Clean(root) || !fsutil.WithinDir(root, dest) {
		return "", pkgerrors.New(pkgerrors.KindMalformedReference, entry.Name,
			fmt.Errorf("entry escapes %s", root))
	}
	return dest, nil
}

// asMalformed tags untyped errors coming out of the archive stream as MalformedReference.
func asMalformed(subject string, err error) error {
	if pkgerrors.KindOf(err) != pkgerrors.KindUnknown {
		return err
	}
	return pkgerrors.New(pkgerrors.KindMalformedReference, subject, err)
}
