package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/glorpus-work/narget/internal/logger"
	"github.com/glorpus-work/narget/pkg/archive"
	pkgerrors "github.com/glorpus-work/narget/pkg/errors"
	"github.com/glorpus-work/narget/pkg/extract"
	"github.com/glorpus-work/narget/pkg/hooks"
	"github.com/glorpus-work/narget/pkg/identifier"
)

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// Fetch extracts the store path named by input (a store path or bare hash) into
// <ResultsDir>/<hash>, then every store path reachable through its symlinks, depth first.
// Each store hash is extracted at most once per call.
func (o *Orchestrator) Fetch(ctx context.Context, input string, opts Options) error {
	if o.Resolver == nil {
		return fmt.Errorf("cache resolver is not configured")
	}
	if o.Opener == nil {
		return fmt.Errorf("archive opener is not configured")
	}

	hash, err := identifier.Extract(input)
	if err != nil {
		return err
	}

	f := &fetchRun{o: o, opts: opts, seen: make(map[string]bool)}
	if err := f.fetch(ctx, hash, 0); err != nil {
		return err
	}

	emit(o.Hooks, Event{Phase: "done", ID: hash, Msg: fmt.Sprintf("%d store path(s) extracted", f.extracted)})
	return nil
}

// fetchRun holds the state of one Fetch call.
type fetchRun struct {
	o         *Orchestrator
	opts      Options
	seen      map[string]bool
	extracted int
}

func (f *fetchRun) fetch(ctx context.Context, hash string, depth int) error {
	f.seen[hash] = true

	emit(f.o.Hooks, Event{Phase: "resolving", ID: hash})
	loc, err := f.o.Resolver.Resolve(ctx, hash)
	if err != nil {
		return err
	}
	logger.Info("resolved store path", logger.Fields{
		"hash":     hash,
		"endpoint": loc.Endpoint,
		"url":      loc.URL,
		"depth":    depth,
	})

	emit(f.o.Hooks, Event{Phase: "downloading", ID: hash, Msg: loc.URL})
	stream, err := f.o.Opener.Open(ctx, loc.URL)
	if err != nil {
		return err
	}
	defer func() { _ = stream.Close() }()

	root := filepath.Join(f.opts.ResultsDir, hash)
	emit(f.o.Hooks, Event{Phase: "extracting", ID: hash, Msg: root})

	x := extract.NewExtractor(func(ctx context.Context, e *archive.Entry) error {
		return f.follow(ctx, e, depth+1)
	})
	x.RootFileName = hash
	if err := x.Extract(ctx, stream, root); err != nil {
		return err
	}
	f.extracted++

	if f.o.HookRunner != nil {
		hookCtx := hooks.HookContext{Hash: hash, ArchiveURL: loc.URL, ExtractPath: root, Depth: depth}
		if err := f.o.HookRunner.Execute(hooks.PostExtract, hookCtx); err != nil {
			return pkgerrors.Wrapf(err, "%s hook for %s", hooks.PostExtract, hash)
		}
	}
	return nil
}

// follow resolves the store path a symlink points at and extracts it before the caller
// continues with its own entries.
func (f *fetchRun) follow(ctx context.Context, e *archive.Entry, depth int) error {
	hash, err := identifier.Extract(e.Target)
	if err != nil {
		if f.opts.SkipUnresolvableLinks {
			logger.Warn("skipping symlink without store hash", logger.Fields{"entry": e.Name, "target": e.Target})
			return nil
		}
		return pkgerrors.Wrapf(err, "symlink %s", e.Name)
	}

	if f.seen[hash] {
		logger.Debug("store path already extracted", logger.Fields{"hash": hash, "entry": e.Name})
		return nil
	}
	if f.opts.MaxDepth > 0 && depth > f.opts.MaxDepth {
		return pkgerrors.New(pkgerrors.KindMalformedReference, e.Target,
			fmt.Errorf("symlink chain deeper than %d", f.opts.MaxDepth))
	}

	emit(f.o.Hooks, Event{Phase: "following", ID: hash, Msg: e.Name + " -> " + e.Target})
	return f.fetch(ctx, hash, depth)
}
