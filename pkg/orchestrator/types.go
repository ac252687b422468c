//go:generate mockgen -destination=./mocks/orchestrator.go . Resolver,Opener,HookRunner

package orchestrator

import (
	"context"

	"github.com/glorpus-work/narget/pkg/archive"
	"github.com/glorpus-work/narget/pkg/cache"
	"github.com/glorpus-work/narget/pkg/hooks"
)

// Resolver finds the archive of a store hash in the binary caches.
type Resolver interface {
	Resolve(ctx context.Context, hash string) (*cache.Location, error)
}

// Opener streams the entries of a remote archive.
type Opener interface {
	Open(ctx context.Context, archiveURL string) (archive.Reader, error)
}

// HookRunner runs user scripts at fixed points of a fetch.
type HookRunner interface {
	Execute(hookType hooks.HookType, ctx hooks.HookContext) error
}

// Orchestrator ties Resolver, Opener and the extractor together. Symlinks found while
// extracting re-enter the same pipeline for the store path they point at.
type Orchestrator struct {
	Resolver   Resolver
	Opener     Opener
	HookRunner HookRunner // optional
	Hooks      Hooks      // Hooks for progress and event notifications
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // resolving|downloading|extracting|following|done
	ID    string // store hash
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// Options control orchestrator execution.
type Options struct {
	// ResultsDir receives one directory per extracted store hash.
	ResultsDir string
	// SkipUnresolvableLinks turns symlinks without a store hash into warnings.
	SkipUnresolvableLinks bool
	// MaxDepth bounds how many symlinks deep the fetch may go. Zero means unlimited.
	MaxDepth int
}
