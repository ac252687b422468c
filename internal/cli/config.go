package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/glorpus-work/narget/internal/logger"
	"github.com/glorpus-work/narget/pkg/config"
	"github.com/glorpus-work/narget/pkg/errors"
	"github.com/glorpus-work/narget/pkg/fsutil"
	"github.com/glorpus-work/narget/pkg/hooks"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View and modify narget configuration settings",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetCmd(),
		newConfigGetCmd(),
		newConfigInitCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current configuration settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	return cmd
}

// Number of arguments expected by the set command.
const setCommandArgs = 2

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration key to a specific value",
		Args:  cobra.ExactArgs(setCommandArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Get a configuration value",
		Long:  "Get the value of a specific configuration key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force, withHook bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long: `Create a default configuration file.
With --with-hook a post-extract hook skeleton is written next to it and enabled.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(force, withHook)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&withHook, "with-hook", false, "Also create a post-extract hook script")

	return cmd
}

func runConfigShow(out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tabWriter := tabwriter.NewWriter(out, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tabWriter, "SETTING\tVALUE")
	_, _ = fmt.Fprintln(tabWriter, "-------\t-----")

	settingsMap := cfg.ToMap()
	keys := make([]string, 0, len(settingsMap))
	for key := range settingsMap {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\n", key, settingsMap[key])
	}
	_, _ = fmt.Fprintf(tabWriter, "post_extract\t%s\n", cfg.Hooks.PostExtract)

	if err := tabWriter.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "\nBinary caches (%d):\n", len(Endpoints))
	for i, endpoint := range Endpoints {
		_, _ = fmt.Fprintf(out, "  %d. %s\n", i+1, endpoint)
	}

	return nil
}

func runConfigSet(key, value string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := cfg.SetValue(key, value); err != nil {
		return fmt.Errorf("failed to set configuration value: %w", err)
	}

	configPath := getConfigPath()
	if err := cfg.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Configuration updated", logger.Fields{"key": key, "value": value})
	return nil
}

func runConfigGet(out io.Writer, key string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	value, err := cfg.GetValue(key)
	if err != nil {
		return fmt.Errorf("failed to get configuration value: %w", err)
	}

	_, _ = fmt.Fprintln(out, value)
	return nil
}

func runConfigInit(force, withHook bool) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite): %w", configPath, errors.ErrConfigFileExists)
	}

	cfg := config.DefaultConfig()
	if withHook {
		hookPath, err := writeHookTemplate(filepath.Dir(configPath), force)
		if err != nil {
			return err
		}
		cfg.Hooks.PostExtract = hookPath
	}

	if err := cfg.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save default configuration: %w", err)
	}

	logger.Success("Configuration file created", logger.Fields{"path": configPath})
	return nil
}

func writeHookTemplate(dir string, force bool) (string, error) {
	hookPath := filepath.Join(dir, string(hooks.PostExtract)+".tengo")
	if _, err := os.Stat(hookPath); err == nil && !force {
		return "", fmt.Errorf("hook script already exists at %s (use --force to overwrite): %w", hookPath, errors.ErrConfigFileExists)
	}

	if err := fsutil.EnsureDirPerm(dir, fsutil.DirModeSecure); err != nil {
		return "", err
	}
	if err := os.WriteFile(hookPath, []byte(hooks.HookTemplate(hooks.PostExtract)), fsutil.FileModeSecure); err != nil {
		return "", fmt.Errorf("failed to write hook script: %w", err)
	}

	logger.Info("Hook script created", logger.Fields{"path": hookPath})
	return hookPath, nil
}
