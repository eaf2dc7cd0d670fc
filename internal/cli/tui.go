package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/countdown/internal/app"
	"github.com/nhle/countdown/internal/history"
	"github.com/nhle/countdown/internal/logging"
	"github.com/nhle/countdown/internal/store"
	"github.com/nhle/countdown/internal/tasklist"
	"github.com/nhle/countdown/internal/timer"
)

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFileLogger(cfg.Log.File, cfg.Log.Level, opts.debug)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	initial, err := cfg.InitialDuration()
	if err != nil {
		return fmt.Errorf("timer.initial: %w", err)
	}

	engine := timer.New(
		timer.WithInterval(cfg.TickInterval()),
		timer.WithInitial(initial),
		timer.WithClampOnEdit(cfg.Timer.ClampOnEdit),
		timer.WithLogger(logger.Named("timer")),
	)
	defer engine.Close()

	s, err := store.NewMemoryStore()
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer s.Close()

	history.NewRecorder(s, logger.Named("history")).Attach(engine)
	tasks := tasklist.New()

	m := app.New(app.Deps{
		Engine: engine,
		Tasks:  tasks,
		Store:  s,
		Config: cfg,
		Logger: logger.Named("ui"),
	})

	logger.Info("session started",
		zap.Stringer("initial", initial),
		zap.Duration("length", initial.Std()),
		zap.Duration("interval", engine.Interval()),
	)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}

	logger.Info("session ended", zap.Int("tasks", tasks.Len()))
	return nil
}
