package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/glorpus-work/narget/pkg/cache"
	"github.com/glorpus-work/narget/pkg/identifier"
	"github.com/spf13/cobra"
)

// NewInfoCmd creates the info command.
func NewInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info PATH-OR-HASH",
		Short: "Show the narinfo of a store path",
		Long: `Look up a store path in the binary caches and print its narinfo
without downloading the archive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

func runInfo(ctx context.Context, out io.Writer, input string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	hash, err := identifier.Extract(input)
	if err != nil {
		return err
	}

	hit, err := newResolver(cfg).Lookup(ctx, hash)
	if err != nil {
		return err
	}

	info, err := cache.ParseNarInfo(hit)
	if err != nil {
		return err
	}

	tabWriter := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintf(tabWriter, "Cache:\t%s\n", hit.Endpoint)
	_, _ = fmt.Fprintf(tabWriter, "StorePath:\t%s\n", info.StorePath)
	_, _ = fmt.Fprintf(tabWriter, "URL:\t%s\n", info.URL)
	_, _ = fmt.Fprintf(tabWriter, "Compression:\t%s\n", info.Compression)
	_, _ = fmt.Fprintf(tabWriter, "FileSize:\t%d\n", info.FileSize)
	_, _ = fmt.Fprintf(tabWriter, "NarSize:\t%d\n", info.NarSize)
	if info.Deriver != "" {
		_, _ = fmt.Fprintf(tabWriter, "Deriver:\t%s\n", info.Deriver)
	}
	_, _ = fmt.Fprintf(tabWriter, "References:\t%s\n", strings.Join(info.References, " "))
	return tabWriter.Flush()
}
