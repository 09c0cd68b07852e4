package opener

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed openers.toml
var openersTOML []byte

type platformConfig struct {
	Commands [][]string `toml:"commands"`
}

type openersConfig struct {
	Platforms map[string]platformConfig `toml:"platforms"`
}

// Registry holds the candidate browser commands per platform.
type Registry struct {
	platforms map[string][][]string
}

// NewRegistry loads the built-in definitions and merges any user file
// found at ~/.config/cyberx/openers.toml. User entries replace built-in
// ones for the same platform.
func NewRegistry() (*Registry, error) {
	r, err := parseRegistry(openersTOML)
	if err != nil {
		return nil, fmt.Errorf("parsing openers.toml: %w", err)
	}

	if home, herr := os.UserHomeDir(); herr == nil {
		r.merge(filepath.Join(home, ".config", "cyberx", "openers.toml"))
	}
	return r, nil
}

func parseRegistry(data []byte) (*Registry, error) {
	var cfg openersConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	r := &Registry{platforms: make(map[string][][]string)}
	for name, p := range cfg.Platforms {
		r.platforms[name] = p.Commands
	}
	return r, nil
}

func (r *Registry) merge(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	user, err := parseRegistry(data)
	if err != nil {
		return
	}
	for name, cmds := range user.platforms {
		r.platforms[name] = cmds
	}
}

// Candidates returns the commands to try on goos, in order.
func (r *Registry) Candidates(goos string) [][]string {
	return r.platforms[goos]
}
