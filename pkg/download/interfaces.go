package download

import (
	"context"
	"net/http"
)

// Getter issues GET requests against binary caches. Implementations return the response for
// every HTTP status and only fail on transport errors, leaving status handling to the caller.
// The caller owns the response body.
type Getter interface {
	Get(ctx context.Context, rawURL string) (*http.Response, error)
}
