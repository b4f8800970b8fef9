package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/lox/stacktrace/internal/fileutil"
)

// SettingsFileName is the file the trainer settings are persisted to
const SettingsFileName = "settings_v1.hcl"

type settingsFile struct {
	Settings *Settings `hcl:"settings,block"`
}

// SettingsStore persists Settings to a small HCL file
type SettingsStore struct {
	path     string
	defaults Settings
}

// NewSettingsStore creates a store at path, falling back to defaults when the
// file does not exist or leaves fields unset
func NewSettingsStore(path string, defaults Settings) *SettingsStore {
	return &SettingsStore{path: path, defaults: defaults}
}

// DefaultSettingsPath returns the per-user settings location
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "stacktrace", SettingsFileName), nil
}

// Path returns the file the store reads and writes
func (s *SettingsStore) Path() string {
	return s.path
}

// Load reads persisted settings
func (s *SettingsStore) Load() (Settings, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return s.defaults, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(s.path)
	if diags.HasErrors() {
		return Settings{}, fmt.Errorf("failed to parse settings file: %s", diags.Error())
	}

	var raw settingsFile
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return Settings{}, fmt.Errorf("failed to decode settings: %s", diags.Error())
	}
	if raw.Settings == nil {
		return s.defaults, nil
	}

	settings := raw.Settings.WithDefaults(s.defaults)
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings in %s: %w", s.path, err)
	}
	return settings, nil
}

// Save writes settings, replacing the previous file atomically
func (s *SettingsStore) Save(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	file := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(&settingsFile{Settings: &settings}, file.Body())

	if err := fileutil.WriteFileAtomicAll(s.path, file.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
