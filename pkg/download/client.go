// Package download wraps the HTTP transport used to talk to binary caches.
package download

import (
	"context"
	"io"
	"net/http"
	"time"

	pkgerrors "github.com/glorpus-work/narget/pkg/errors"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "narget/1.0"

// Client is a minimal blocking HTTP client. It performs no retries.
type Client struct {
	client    *http.Client
	userAgent string
}

// NewClient creates a client with the given timeout and user agent. A zero timeout
// disables the client-side deadline.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Get issues a GET request for rawURL. Any status code is returned to the caller; network
// errors are reported as TransportFailure. Reads from the returned body that fail are
// reported as TransportFailure as well.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.KindMalformedReference, rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.KindTransportFailure, rawURL, err)
	}
	resp.Body = &transportBody{ReadCloser: resp.Body, url: rawURL}
	return resp, nil
}

// transportBody tags body read failures so they are not mistaken for archive corruption
// further down the decompression chain.
type transportBody struct {
	io.ReadCloser
	url string
}

func (b *transportBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && err != io.EOF {
		return n, pkgerrors.New(pkgerrors.KindTransportFailure, b.url, err)
	}
	return n, err
}
