// Package config loads the stacktrace HCL configuration file and persists the
// trainer settings between sessions.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/stacktrace/internal/analytics"
	"github.com/lox/stacktrace/internal/counting"
)

// Input modes. The mode only changes how cards are entered, never the counts.
const (
	InputDetailed = "detailed"
	InputSimple   = "simple"
)

const (
	DefaultDecks     = 8
	DefaultInputMode = InputDetailed
	DefaultLogLevel  = "info"
	DefaultLogFile   = "stacktrace.log"
	DefaultAddr      = ":8080"
)

// ErrInvalidDecks is returned for deck counts below one
var ErrInvalidDecks = errors.New("deck count must be at least 1")

// Config represents the complete configuration file
type Config struct {
	Settings Settings
	Log      LogSettings
	Server   ServerSettings
	Systems  []SystemConfig
}

// Settings are the trainer settings a user changes during a session
type Settings struct {
	Decks     int    `hcl:"decks,optional" json:"decks"`
	System    string `hcl:"system,optional" json:"system"`
	InputMode string `hcl:"input_mode,optional" json:"inputMode"`
}

// LogSettings configures logging
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// ServerSettings configures the live session server
type ServerSettings struct {
	Addr string `hcl:"addr,optional"`
}

// SystemConfig declares an additional counting system
type SystemConfig struct {
	ID          string             `hcl:"id,label"`
	Name        string             `hcl:"name,optional"`
	Description string             `hcl:"description,optional"`
	Weights     map[string]float64 `hcl:"weights"`
}

// fileConfig mirrors the file layout; every block is optional
type fileConfig struct {
	Settings *Settings       `hcl:"settings,block"`
	Log      *LogSettings    `hcl:"log,block"`
	Server   *ServerSettings `hcl:"server,block"`
	Systems  []SystemConfig  `hcl:"system,block"`
}

// DefaultSettings returns the settings of a fresh install
func DefaultSettings() Settings {
	return Settings{
		Decks:     DefaultDecks,
		System:    counting.DefaultSystemID,
		InputMode: DefaultInputMode,
	}
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Settings: DefaultSettings(),
		Log: LogSettings{
			Level: DefaultLogLevel,
			File:  DefaultLogFile,
		},
		Server: ServerSettings{
			Addr: DefaultAddr,
		},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config := DefaultConfig()
	if raw.Settings != nil {
		config.Settings = raw.Settings.WithDefaults(config.Settings)
	}
	if raw.Log != nil {
		if raw.Log.Level != "" {
			config.Log.Level = raw.Log.Level
		}
		if raw.Log.File != "" {
			config.Log.File = raw.Log.File
		}
	}
	if raw.Server != nil && raw.Server.Addr != "" {
		config.Server.Addr = raw.Server.Addr
	}
	config.Systems = raw.Systems

	return config, nil
}

// Registry builds the counting system registry: the built-in systems plus
// every system block, each validated as it is registered
func (c *Config) Registry() (*counting.Registry, error) {
	registry := counting.NewDefaultRegistry()
	for _, sc := range c.Systems {
		system, err := sc.System()
		if err != nil {
			return nil, err
		}
		if err := registry.Register(system); err != nil {
			return nil, fmt.Errorf("system %q: %w", sc.ID, err)
		}
	}
	return registry, nil
}

// Validate validates the configuration, including the custom systems
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	registry, err := c.Registry()
	if err != nil {
		return err
	}

	return c.Settings.ValidateWith(registry)
}

// System converts the block into a counting system
func (sc SystemConfig) System() (counting.System, error) {
	weights, err := counting.WeightsFromLabels(sc.Weights)
	if err != nil {
		return counting.System{}, fmt.Errorf("system %q: %w", sc.ID, err)
	}

	name := sc.Name
	if name == "" {
		name = sc.ID
	}

	return counting.System{
		ID:          sc.ID,
		Name:        name,
		Description: sc.Description,
		Weights:     weights,
	}, nil
}

// WithDefaults fills zero fields from defaults
func (s Settings) WithDefaults(defaults Settings) Settings {
	if s.Decks == 0 {
		s.Decks = defaults.Decks
	}
	if s.System == "" {
		s.System = defaults.System
	}
	if s.InputMode == "" {
		s.InputMode = defaults.InputMode
	}
	return s
}

// Validate checks the settings that do not depend on the registry
func (s Settings) Validate() error {
	if s.Decks < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidDecks, s.Decks)
	}
	if !ValidInputMode(s.InputMode) {
		return fmt.Errorf("invalid input mode: %s", s.InputMode)
	}
	return nil
}

// ValidateWith also checks that the selected system is registered
func (s Settings) ValidateWith(registry *counting.Registry) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, err := registry.Get(s.System); err != nil {
		return err
	}
	return nil
}

// Analytics returns the engine inputs for these settings
func (s Settings) Analytics() analytics.Settings {
	return analytics.Settings{Decks: s.Decks, SystemID: s.System}
}

// ValidInputMode reports whether mode is a known input mode
func ValidInputMode(mode string) bool {
	return mode == InputDetailed || mode == InputSimple
}
