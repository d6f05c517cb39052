package classifier

import (
	"os"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// Config holds the keyword sets of the heuristic classifier
type Config struct {
	Categories map[string][]string `toml:"categories"`
	Priority   PriorityTerms       `toml:"priority"`
}

// PriorityTerms are the terms that raise the priority score
type PriorityTerms struct {
	High   []string `toml:"high"`
	Medium []string `toml:"medium"`
}

const (
	highTermWeight   = 3
	mediumTermWeight = 1
)

// DefaultConfig returns the built-in keyword sets
func DefaultConfig() *Config {
	return &Config{
		Categories: map[string][]string{
			"fraude":        {"desvio", "suborno", "propina", "corrupção", "embezzlement"},
			"assedio":       {"assédio", "abuso", "bullying", "violência"},
			"discriminacao": {"discriminação", "racismo", "preconceito", "machismo"},
			"conflito":      {"conflito de interesses", "favor", "nepotismo"},
		},
		Priority: PriorityTerms{
			High:   []string{"corrupção", "suborno", "fraude massiva", "assédio grave", "violência física"},
			Medium: []string{"assédio", "intimidação", "racismo", "discriminação", "conflito de interesses"},
		},
	}
}

// LoadConfig reads a TOML keyword file. Sections absent from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read classifier config", goerr.V("path", path))
	}

	var parsed Config
	if err := toml.Unmarshal(raw, &parsed); err != nil {
		return nil, goerr.Wrap(err, "failed to parse classifier config", goerr.V("path", path))
	}

	cfg := DefaultConfig()
	if len(parsed.Categories) > 0 {
		cfg.Categories = parsed.Categories
	}
	if len(parsed.Priority.High) > 0 {
		cfg.Priority.High = parsed.Priority.High
	}
	if len(parsed.Priority.Medium) > 0 {
		cfg.Priority.Medium = parsed.Priority.Medium
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid classifier config", goerr.V("path", path))
	}
	return cfg, nil
}

// Validate checks category names and that every category has at least one keyword
func (c *Config) Validate() error {
	for name, keywords := range c.Categories {
		if err := types.CategoryID(name).Validate(); err != nil {
			return err
		}
		if len(keywords) == 0 {
			return goerr.New("category has no keywords", goerr.V("category", name))
		}
	}
	return nil
}

// CategoryNames returns the configured category names sorted
func (c *Config) CategoryNames() []string {
	names := make([]string, 0, len(c.Categories))
	for name := range c.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
