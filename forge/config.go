package forge

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tabular-agents/forge/executor"
	"github.com/tabular-agents/forge/oracle"
)

const defaultMaxAttempts = 3

// Config holds initialization parameters for all forge subsystems.
// Each subsystem section delegates to that subsystem's config-driven
// constructor.
type Config struct {
	Oracle   oracle.Config   `json:"oracle"`
	Executor executor.Config `json:"executor"`
	// Oracles holds additional named oracle configurations. All of them are
	// registered at startup; OracleName selects which one generates.
	Oracles map[string]oracle.Config `json:"oracles,omitempty"`
	// OracleName names the registered oracle to generate with. Empty selects
	// "default", the registration of the Oracle section above.
	OracleName  string `json:"oracle_name,omitempty"`
	FixtureRoot string `json:"fixture_root,omitempty"`
	MaxAttempts int    `json:"max_attempts,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Oracle:      oracle.DefaultConfig(),
		Executor:    executor.DefaultConfig(),
		FixtureRoot: "data",
		MaxAttempts: defaultMaxAttempts,
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method. Named oracle configs merge by name; a source
// entry replaces the whole entry under that name.
func (c *Config) Merge(source *Config) {
	c.Oracle.Merge(&source.Oracle)
	c.Executor.Merge(&source.Executor)

	for name, ocfg := range source.Oracles {
		if c.Oracles == nil {
			c.Oracles = make(map[string]oracle.Config)
		}
		c.Oracles[name] = ocfg
	}
	if source.OracleName != "" {
		c.OracleName = source.OracleName
	}
	if source.FixtureRoot != "" {
		c.FixtureRoot = source.FixtureRoot
	}
	if source.MaxAttempts > 0 {
		c.MaxAttempts = source.MaxAttempts
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
