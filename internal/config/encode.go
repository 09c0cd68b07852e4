package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Marshal renders the effective configuration as TOML, in the same shape
// Save writes to disk.
func Marshal(cfg *Config) ([]byte, error) {
	out, err := toml.Marshal(toMap(cfg))
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}
