// Package fetch opens remote NAR archives as entry streams.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/glorpus-work/narget/pkg/archive"
	"github.com/glorpus-work/narget/pkg/download"
	pkgerrors "github.com/glorpus-work/narget/pkg/errors"
)

// Fetcher streams archives from binary caches.
type Fetcher struct {
	getter download.Getter
}

// NewFetcher creates a fetcher that downloads through getter.
func NewFetcher(getter download.Getter) *Fetcher {
	return &Fetcher{getter: getter}
}

// Open issues a GET for archiveURL and returns its entries. The body is decompressed on the
// fly and parsed as a NAR; nothing is buffered to disk. Closing the returned reader releases
// the parser, the decompressor and the HTTP connection.
func (f *Fetcher) Open(ctx context.Context, archiveURL string) (archive.Reader, error) {
	resp, err := f.getter.Get(ctx, archiveURL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, pkgerrors.New(pkgerrors.KindArchiveUnavailable, archiveURL,
			fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	decompressed, err := archive.Decompress(ctx, archiveName(archiveURL), resp.Body)
	if err != nil {
		_ = resp.Body.Close()
		return nil, err
	}

	nr, err := archive.NewNARReader(decompressed)
	if err != nil {
		_ = decompressed.Close()
		_ = resp.Body.Close()
		return nil, err
	}

	return &stream{Reader: nr, closers: []io.Closer{decompressed, resp.Body}}, nil
}

// archiveName returns the path component of the URL used to identify the compression format.
func archiveName(archiveURL string) string {
	u, err := url.Parse(archiveURL)
	if err != nil {
		return archiveURL
	}
	return u.Path
}

// stream closes the parser first and then every layer below it.
type stream struct {
	archive.Reader
	closers []io.Closer
}

func (s *stream) Close() error {
	errs := []error{s.Reader.Close()}
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
