package bot

import (
	"fmt"

	coreconfig "github.com/m3rciful/marketbot/core/config"
	coredatabase "github.com/m3rciful/marketbot/core/database"
	"github.com/m3rciful/marketbot/internal/market"
)

// Config is the full marketbot configuration: the reusable core sections
// plus the database and marketplace sections.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Market   market.Config       `yaml:"market"`
}

// LoadConfig reads path, overlays the environment and validates every section.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.LoadInto(path, &cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := cfg.Database.Normalize(); err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}
	if err := cfg.Market.Normalize(); err != nil {
		return nil, fmt.Errorf("market config: %w", err)
	}
	return &cfg, nil
}
