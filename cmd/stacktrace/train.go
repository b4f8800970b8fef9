package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/stacktrace/cmd/stacktrace/shared"
	"github.com/lox/stacktrace/internal/config"
	"github.com/lox/stacktrace/internal/session"
	"github.com/lox/stacktrace/internal/tui"
)

// TrainCmd runs the interactive trainer
type TrainCmd struct {
	SettingsFlags

	Simple       bool   `help:"Start in simple (Low/Neutral/High) input mode"`
	SettingsFile string `type:"path" help:"Where settings are persisted (default: user config dir)"`
	Color        string `enum:"auto,always,never" default:"auto" help:"Colour output (auto, always, never)"`
}

func (c *TrainCmd) Run(globals *Globals) error {
	cfg, registry, err := shared.LoadConfig(globals.Config)
	if err != nil {
		return err
	}

	logger, closer, err := shared.SetupFileLogger(cfg.Log.File, cfg.Log.Level, globals.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	lipgloss.SetColorProfile(colorProfile(c.Color))

	path := c.SettingsFile
	if path == "" {
		if path, err = config.DefaultSettingsPath(); err != nil {
			return err
		}
	}
	store := config.NewSettingsStore(path, cfg.Settings)

	settings, err := store.Load()
	if err != nil {
		logger.Warn("Ignoring saved settings", "path", path, "error", err)
		settings = cfg.Settings
	}
	if err := settings.ValidateWith(registry); err != nil {
		logger.Warn("Saved settings do not match config, using defaults", "error", err)
		settings = cfg.Settings
	}
	settings = c.apply(settings)
	if c.Simple {
		settings.InputMode = config.InputSimple
	}

	sess, err := session.New(settings, registry, session.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	logger.Info("Starting trainer", "decks", settings.Decks, "system", settings.System, "settings", path)

	model := tui.NewModel(sess, store, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("trainer failed: %w", err)
	}

	state := sess.Snapshot().State
	logger.Info("Trainer exited", "cards_seen", state.CardsSeen, "running_count", state.RunningCount)
	return nil
}

func colorProfile(mode string) termenv.Profile {
	switch mode {
	case "always":
		return termenv.TrueColor
	case "never":
		return termenv.Ascii
	default:
		return termenv.EnvColorProfile()
	}
}
