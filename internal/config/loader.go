package config

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "RPG_DUNGEON_"

//go:embed defaults/config.yaml
var defaultYAML []byte

// Default returns the embedded configuration
func Default() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultYAML, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse embedded config")
	}
	return cfg, nil
}

// Load reads the configuration, applies environment overrides and validates it.
// Search order: customPath -> ~/.rpg-dungeon/config.yaml -> ./configs/config.yaml -> embedded default.
// Files found later in the order are not merged; the first readable one wins,
// layered over the embedded defaults.
func Load(customPath string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", customPath)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.InvalidArgumentf("failed to parse config %s: %v", customPath, err)
		}
	} else {
		for _, path := range []string{userConfigPath(), filepath.Join("configs", "config.yaml")} {
			if path == "" {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.InvalidArgumentf("failed to parse config %s: %v", path, err)
			}
			break
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.InvalidArgumentf("failed to parse environment: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// userConfigPath returns the path to the user config file, or empty if home is unavailable.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rpg-dungeon", "config.yaml")
}
