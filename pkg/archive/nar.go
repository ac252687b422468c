package archive

import (
	"io"
	"path"
	"strings"

	pkgerrors "github.com/glorpus-work/narget/pkg/errors"
	"github.com/nix-community/go-nix/pkg/nar"
)

// NARReader adapts a go-nix NAR reader to Reader.
type NARReader struct {
	nr *nar.Reader
}

// NewNARReader starts parsing a decompressed NAR stream.
func NewNARReader(r io.Reader) (*NARReader, error) {
	nr, err := nar.NewReader(r)
	if err != nil {
		return nil, malformed("nar stream", err)
	}
	return &NARReader{nr: nr}, nil
}

// Next returns the next entry or io.EOF.
func (r *NARReader) Next() (*Entry, error) {
	hdr, err := r.nr.Next()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, malformed("nar entry", err)
	}
	return entryFromHeader(hdr), nil
}

func (r *NARReader) Read(p []byte) (int, error) {
	n, err := r.nr.Read(p)
	if err != nil && err != io.EOF {
		return n, malformed("nar content", err)
	}
	return n, err
}

// Close releases the parser. It does not close the underlying stream.
func (r *NARReader) Close() error {
	return r.nr.Close()
}

func entryFromHeader(hdr *nar.Header) *Entry {
	e := &Entry{Name: relativeName(hdr.Path)}
	switch hdr.Type {
	case nar.TypeDirectory:
		e.Kind = KindDirectory
	case nar.TypeRegular:
		e.Kind = KindFile
		if hdr.Executable {
			e.Kind = KindExecutable
		}
		e.Size = hdr.Size
	case nar.TypeSymlink:
		e.Kind = KindSymlink
		e.Target = hdr.LinkTarget
	default:
		e.Kind = KindOther
	}
	return e
}

// relativeName turns a NAR node path ("/", "/bin/hello") into a root-relative name.
func relativeName(p string) string {
	return strings.TrimPrefix(path.Clean("/"+p), "/")
}

// malformed tags an error as MalformedReference unless it already carries a kind, such as a
// transport failure surfacing from the HTTP body.
func malformed(subject string, err error) error {
	if pkgerrors.KindOf(err) != pkgerrors.KindUnknown {
		return err
	}
	return pkgerrors.New(pkgerrors.KindMalformedReference, subject, err)
}
