package main

import (
	"github.com/lox/stacktrace/internal/config"
)

// SettingsFlags override the configured settings for one run
type SettingsFlags struct {
	Decks  *int   `short:"d" help:"Number of decks in the shoe"`
	System string `short:"s" help:"Counting system id (see 'stacktrace systems')"`
}

func (f SettingsFlags) apply(settings config.Settings) config.Settings {
	if f.Decks != nil {
		settings.Decks = *f.Decks
	}
	if f.System != "" {
		settings.System = f.System
	}
	return settings
}
