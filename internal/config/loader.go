package config

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/estimathon/internal/domain/contest"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if ESTIMATHON_CONFIG is set
//  3. env (prefix ESTIMATHON_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ESTIMATHON_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: ESTIMATHON_ADDR, ESTIMATHON_LOG_LEVEL, ...
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("ESTIMATHON_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "estimathon_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if n := len(c.Problems); n != 0 && n != contest.TotalProblems {
		return ErrBadCatalog
	}
	return nil
}

// Catalog builds the problem catalog from config, falling back to the
// built-in set when none is configured.
func (c *Config) Catalog() *contest.Catalog {
	if len(c.Problems) == 0 {
		return contest.DefaultCatalog()
	}
	problems := make([]contest.Problem, len(c.Problems))
	for i, p := range c.Problems {
		problems[i] = contest.Problem{ID: p.ID, Description: p.Description, Answer: p.Answer}
	}
	return contest.NewCatalog(problems)
}
