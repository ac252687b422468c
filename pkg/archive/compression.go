package archive

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	pkgerrors "github.com/glorpus-work/narget/pkg/errors"
	"github.com/mholt/archives"
)

// uncompressedExt marks archives published with "Compression: none".
const uncompressedExt = ".nar"

// Decompress wraps r in the decompressor matching name (usually the archive URL path) or the
// stream header. Plain ".nar" files and streams that match no compression format are
// returned as they are. A stream that identifies as an archive format other than a NAR is
// rejected.
func Decompress(ctx context.Context, name string, r io.Reader) (io.ReadCloser, error) {
	if strings.HasSuffix(name, uncompressedExt) {
		return io.NopCloser(r), nil
	}

	format, stream, err := archives.Identify(ctx, path.Base(name), r)
	if errors.Is(err, archives.NoMatch) {
		return io.NopCloser(stream), nil
	}
	if err != nil {
		return nil, malformed(name, err)
	}

	decompressor, ok := format.(archives.Decompressor)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.KindMalformedReference, name,
			errors.New("not a compressed NAR: "+format.Extension()))
	}

	rc, err := decompressor.OpenReader(stream)
	if err != nil {
		return nil, malformed(name, err)
	}
	return rc, nil
}
