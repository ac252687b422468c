// Package testutil provides fixtures shared by narget tests: in-memory NAR archives and a fake
// binary cache served over HTTP.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// BinaryCache is a fake Nix binary cache backed by httptest.
type BinaryCache struct {
	Server *httptest.Server

	mu       sync.Mutex
	narinfos map[string]string
	archives map[string][]byte
	requests []string
}

// NewBinaryCache starts an empty cache that answers 404 for everything. It is closed when the
// test ends.
func NewBinaryCache(t *testing.T) *BinaryCache {
	t.Helper()

	c := &BinaryCache{
		narinfos: make(map[string]string),
		archives: make(map[string][]byte),
	}
	c.Server = httptest.NewServer(http.HandlerFunc(c.serve))
	t.Cleanup(c.Server.Close)
	return c
}

// URL returns the cache base URL with a trailing slash, as used in endpoint lists.
func (c *BinaryCache) URL() string {
	return c.Server.URL + "/"
}

// AddNarInfo serves body as the narinfo of hash.
func (c *BinaryCache) AddNarInfo(hash, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.narinfos[hash] = body
}

// AddArchive serves data under archivePath, relative to the cache root.
func (c *BinaryCache) AddArchive(archivePath string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.archives[strings.TrimLeft(archivePath, "/")] = data
}

// AddNAR publishes a compressed NAR for hash under nar/<hash>.nar.xz together with a narinfo
// pointing at it. It returns the archive path.
func (c *BinaryCache) AddNAR(hash, name string, compressed []byte) string {
	archivePath := "nar/" + hash + ".nar.xz"
	c.AddNarInfo(hash, NarInfo(hash, name, archivePath))
	c.AddArchive(archivePath, compressed)
	return archivePath
}

// Requests returns the request paths received so far, in order.
func (c *BinaryCache) Requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requests...)
}

func (c *BinaryCache) serve(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimLeft(r.URL.Path, "/")

	c.mu.Lock()
	c.requests = append(c.requests, r.URL.Path)
	body, isNarInfo := c.narinfos[strings.TrimSuffix(key, ".narinfo")]
	isNarInfo = isNarInfo && strings.HasSuffix(key, ".narinfo")
	data, isArchive := c.archives[key]
	c.mu.Unlock()

	switch {
	case isNarInfo:
		w.Header().Set("Content-Type", "text/x-nix-narinfo")
		_, _ = w.Write([]byte(body))
	case isArchive:
		w.Header().Set("Content-Type", "application/x-nix-nar")
		_, _ = w.Write(data)
	default:
		http.NotFound(w, r)
	}
}

// NarInfo renders a minimal narinfo whose second line is the archive URL.
func NarInfo(hash, name, archivePath string) string {
	return fmt.Sprintf("StorePath: /nix/store/%s-%s\nURL: %s\nCompression: xz\n", hash, name, archivePath)
}
