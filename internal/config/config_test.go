package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/stacktrace/internal/cards"
	"github.com/lox/stacktrace/internal/counting"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stacktrace.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.Equal(t, 8, config.Settings.Decks)
	assert.Equal(t, "hilo", config.Settings.System)
	assert.Equal(t, InputDetailed, config.Settings.InputMode)
	require.NoError(t, config.Validate())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
settings {
  decks  = 6
  system = "ko"
}

log {
  level = "debug"
}

system "ko" {
  name        = "Knock-Out"
  description = "Unbalanced single-level system."
  weights = {
    "2" = 1, "3" = 1, "4" = 1, "5" = 1, "6" = 1, "7" = 1,
    "8" = 0, "9" = 0,
    "10" = -1, "J" = -1, "Q" = -1, "K" = -1, "A" = -1
  }
}
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 6, config.Settings.Decks)
	assert.Equal(t, "ko", config.Settings.System)
	assert.Equal(t, InputDetailed, config.Settings.InputMode, "unset fields keep defaults")
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, DefaultLogFile, config.Log.File)
	assert.Equal(t, DefaultAddr, config.Server.Addr)
	require.Len(t, config.Systems, 1)
	require.NoError(t, config.Validate())

	registry, err := config.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"hilo", "zen", "halves", "ko"}, registry.IDs())

	ko, err := registry.Get("ko")
	require.NoError(t, err)
	assert.Equal(t, "Knock-Out", ko.Name)
	assert.Equal(t, 1.0, ko.Weight(cards.Seven))
	assert.False(t, ko.Balanced())
	assert.Equal(t, 4.0, ko.DeckSum())
}

func TestLoadConfigIncompleteSystem(t *testing.T) {
	path := writeConfig(t, `
system "broken" {
  weights = { "2" = 1, "A" = -1 }
}
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)

	_, err = config.Registry()
	require.Error(t, err)
	assert.True(t, errors.Is(err, counting.ErrIncompleteSystem))
	assert.Error(t, config.Validate())
}

func TestLoadConfigDuplicateSystem(t *testing.T) {
	path := writeConfig(t, `
system "hilo" {
  weights = {
    "2" = 1, "3" = 1, "4" = 1, "5" = 1, "6" = 1, "7" = 0,
    "8" = 0, "9" = 0, "10" = -1, "J" = -1, "Q" = -1, "K" = -1, "A" = -1
  }
}
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)

	_, err = config.Registry()
	assert.True(t, errors.Is(err, counting.ErrDuplicateSystem))
}

func TestLoadConfigParseError(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `settings {`))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `unknown_block {}`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		is      error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero decks", mutate: func(c *Config) { c.Settings.Decks = 0 }, wantErr: true, is: ErrInvalidDecks},
		{name: "negative decks", mutate: func(c *Config) { c.Settings.Decks = -3 }, wantErr: true, is: ErrInvalidDecks},
		{name: "many decks", mutate: func(c *Config) { c.Settings.Decks = 12 }},
		{name: "unknown system", mutate: func(c *Config) { c.Settings.System = "omega" }, wantErr: true, is: counting.ErrUnknownSystem},
		{name: "bad input mode", mutate: func(c *Config) { c.Settings.InputMode = "voice" }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestSettingsAnalytics(t *testing.T) {
	s := Settings{Decks: 2, System: "zen", InputMode: InputSimple}
	a := s.Analytics()
	assert.Equal(t, 2, a.Decks)
	assert.Equal(t, "zen", a.SystemID)
}

func TestExampleConfig(t *testing.T) {
	config, err := LoadConfig("../../examples/stacktrace.hcl")
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, 6, config.Settings.Decks)
	assert.Equal(t, ":8080", config.Server.Addr)

	registry, err := config.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"hilo", "zen", "halves", "ko", "omega2"}, registry.IDs())

	omega, err := registry.Get("omega2")
	require.NoError(t, err)
	assert.True(t, omega.Balanced())
	assert.Equal(t, 2.0, omega.Level())
}
