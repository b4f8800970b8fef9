package shared

import (
	"fmt"

	"github.com/lox/stacktrace/internal/config"
	"github.com/lox/stacktrace/internal/counting"
)

// LoadConfig loads and validates the config file, returning it with the
// counting system registry it describes
func LoadConfig(path string) (*config.Config, *counting.Registry, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	registry, err := cfg.Registry()
	if err != nil {
		return nil, nil, err
	}
	return cfg, registry, nil
}
