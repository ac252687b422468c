// Package cache locates NAR archives in Nix binary caches.
package cache

import (
	"context"
	"io"
	"net/http"

	"github.com/glorpus-work/narget/internal/logger"
	"github.com/glorpus-work/narget/pkg/download"
	pkgerrors "github.com/glorpus-work/narget/pkg/errors"
	"github.com/glorpus-work/narget/pkg/identifier"
)

// Hit is the first successful narinfo response for a hash.
type Hit struct {
	Hash     string
	Endpoint string
	URL      string
	Body     []byte
}

// Location is where the archive for a hash can be downloaded from.
type Location struct {
	Hash     string
	Endpoint string
	// Path is the archive path as written in the narinfo, relative to Endpoint.
	Path string
	URL  string
}

// Resolver queries binary caches in priority order. The endpoint list is fixed at
// construction.
type Resolver struct {
	endpoints []string
	getter    download.Getter
}

// NewResolver creates a resolver over the given endpoints. The slice is copied.
func NewResolver(endpoints []string, getter download.Getter) *Resolver {
	return &Resolver{
		endpoints: append([]string(nil), endpoints...),
		getter:    getter,
	}
}

// Endpoints returns the endpoints in query order.
func (r *Resolver) Endpoints() []string {
	return append([]string(nil), r.endpoints...)
}

// Lookup fetches the narinfo for hash from the first endpoint that answers with a 2xx status.
// Non-success statuses move on to the next endpoint. A transport error aborts the lookup
// without trying the remaining endpoints. A hash that is not a bare store hash is rejected
// before any request is made.
func (r *Resolver) Lookup(ctx context.Context, hash string) (*Hit, error) {
	if !identifier.IsValid(hash) {
		return nil, pkgerrors.New(pkgerrors.KindNoIdentifierFound, hash, nil)
	}

	for _, endpoint := range r.endpoints {
		url := endpoint + hash + NarInfoSuffix

		resp, err := r.getter.Get(ctx, url)
		if err != nil {
			return nil, err
		}

		if !isSuccess(resp.StatusCode) {
			_ = resp.Body.Close()
			logger.Debug("narinfo not found in cache", logger.Fields{
				"endpoint": endpoint,
				"hash":     hash,
				"status":   resp.StatusCode,
			})
			continue
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, err
		}

		return &Hit{Hash: hash, Endpoint: endpoint, URL: url, Body: body}, nil
	}

	return nil, pkgerrors.New(pkgerrors.KindResolutionExhausted, hash, nil)
}

// Resolve returns the archive location for hash: the endpoint that answered first joined with
// the archive path from its narinfo.
func (r *Resolver) Resolve(ctx context.Context, hash string) (*Location, error) {
	hit, err := r.Lookup(ctx, hash)
	if err != nil {
		return nil, err
	}

	path, err := ArchivePath(string(hit.Body))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "narinfo %s", hit.URL)
	}

	return &Location{
		Hash:     hash,
		Endpoint: hit.Endpoint,
		Path:     path,
		URL:      hit.Endpoint + path,
	}, nil
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
