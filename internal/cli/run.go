package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/countdown/internal/logging"
	"github.com/nhle/countdown/internal/model"
	"github.com/nhle/countdown/internal/timer"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "run [HH:MM:SS]",
		Short: "Count down without the terminal UI",
		Long: `Count down from the given value (or timer.initial) and print the
remaining time after every tick. Exits 0 when the countdown finishes and
non-zero when interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd, opts, args, interval)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "tick interval (default timer.tick_interval_ms)")
	return cmd
}

func runHeadless(cmd *cobra.Command, opts *rootOptions, args []string, interval time.Duration) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	target, err := cfg.InitialDuration()
	if len(args) == 1 {
		target, err = model.ParseDuration(args[0])
	}
	if err != nil {
		return err
	}
	if interval <= 0 {
		interval = cfg.TickInterval()
	}

	logger, err := logging.NewConsoleLogger(opts.debug)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logging.Sync(logger)

	engine := timer.New(
		timer.WithInterval(interval),
		timer.WithInitial(target),
		timer.WithClampOnEdit(cfg.Timer.ClampOnEdit),
		timer.WithLogger(logger),
	)
	defer engine.Close()

	out := cmd.OutOrStdout()
	done := make(chan struct{})
	engine.Observe(func(ev timer.Event) {
		switch ev.Kind {
		case timer.EventTicked:
			fmt.Fprintln(out, ev.Duration)
		case timer.EventFinished:
			fmt.Fprintln(out, "Time's up\a")
			close(done)
		}
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(out, target)
	engine.Start()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		engine.Stop()
		return fmt.Errorf("interrupted with %s remaining", engine.Current())
	}
}
