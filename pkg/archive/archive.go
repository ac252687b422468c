// Package archive exposes NAR archives as a forward-only sequence of entries.
package archive

import (
	"io"
)

// Kind is the type of an archive entry.
type Kind int

// Entry kinds. KindOther covers anything the extractor does not know how to materialize.
const (
	KindOther Kind = iota
	KindDirectory
	KindFile
	KindExecutable
	KindSymlink
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	case KindExecutable:
		return "executable"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// Entry describes one node of an archive. Name is slash separated and relative to the archive
// root; the root node itself has an empty name.
type Entry struct {
	Name   string
	Kind   Kind
	Target string // symlink target, only set for KindSymlink
	Size   int64  // content length, only set for KindFile and KindExecutable
}

// IsRoot reports whether the entry is the archive's root node.
func (e *Entry) IsRoot() bool {
	return e.Name == ""
}

// Reader iterates over archive entries. Next advances to the following entry and returns
// io.EOF once the archive is exhausted. Read returns the content of the current file entry.
// A Reader is consumed once and cannot be rewound.
type Reader interface {
	Next() (*Entry, error)
	io.Reader
	io.Closer
}
