package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/glorpus-work/narget/internal/logger"
	"github.com/glorpus-work/narget/pkg/orchestrator"
)

// RunFetch downloads and extracts the store path named by input, following symlinks into other
// store paths. Progress is written to out.
func RunFetch(ctx context.Context, out io.Writer, input string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	events := orchestrator.Hooks{OnEvent: func(e orchestrator.Event) {
		if e.Msg != "" {
			_, _ = fmt.Fprintf(out, "%s: %s (%s)\n", e.Phase, e.Msg, e.ID)
		} else {
			_, _ = fmt.Fprintf(out, "%s: %s\n", e.Phase, e.ID)
		}
	}}

	orch, err := loadOrchestrator(cfg, events)
	if err != nil {
		return err
	}

	if err := orch.Fetch(ctx, input, fetchOptions(cfg)); err != nil {
		return err
	}

	logger.Debug("fetch finished", logger.Fields{"input": input, "results_dir": cfg.Settings.ResultsDir})
	return nil
}
