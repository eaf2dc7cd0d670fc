package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/countdown/internal/model"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(opts))
	cmd.AddCommand(newConfigShowCmd(opts))
	return cmd
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.resolvedConfigPath()

			if !force {
				_, err := os.Stat(path)
				if err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
				if !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("checking %s: %w", path, err)
				}
			}

			if err := model.SaveConfig(path, model.DefaultAppConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config: %s\n", opts.resolvedConfigPath())
			fmt.Fprintf(out, "timer.initial: %s\n", cfg.Timer.Initial)
			fmt.Fprintf(out, "timer.tick_interval_ms: %d\n", cfg.Timer.TickIntervalMs)
			fmt.Fprintf(out, "timer.clamp_on_edit: %t\n", cfg.Timer.ClampOnEdit)
			fmt.Fprintf(out, "tasks.attach_timer_default: %t\n", cfg.Tasks.AttachTimerDefault)
			fmt.Fprintf(out, "log.level: %s\n", cfg.Log.Level)
			fmt.Fprintf(out, "log.file: %s\n", cfg.Log.File)
			fmt.Fprintf(out, "history.limit: %d\n", cfg.History.Limit)
			return nil
		},
	}
}
