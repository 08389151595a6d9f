package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix  = "SINGULARITY_"
	EnvConfig  = EnvPrefix + "CONFIG"
	dotEnvFile = ".env"
)

// Load layers, low to high precedence:
//  1. defaults (New)
//  2. the YAML file named by SINGULARITY_CONFIG, if set
//  3. SINGULARITY_* environment variables
//
// A .env file in the working directory is read into the environment first;
// a missing one is fine.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(dotEnvFile)

	base := New(ctx)
	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// SINGULARITY_PIN_ATTEMPTS -> pin_attempts. Flat keys keep their
	// underscores to match the struct tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		if s == EnvConfig {
			return ""
		}
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
