// Package config loads function settings from the environment.
//
// Variables are parsed with github.com/caarlos0/env. A .env file in the
// working directory is loaded first when present, for local invocation.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// DistributionID is the CloudFront distribution to invalidate.
	DistributionID string `env:"DISTRIBUTION_ID"`

	// DistributionIDParameter names an SSM parameter holding the distribution
	// id. Used only when DistributionID is empty.
	DistributionIDParameter string `env:"DISTRIBUTION_ID_PARAMETER"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// ParameterStore resolves named configuration values.
type ParameterStore interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DistributionID == "" && c.DistributionIDParameter == "" {
		return errors.New("DISTRIBUTION_ID or DISTRIBUTION_ID_PARAMETER is required")
	}
	return nil
}

// DistributionIDFrom returns DistributionID, falling back to the parameter store.
func (c *Config) DistributionIDFrom(ctx context.Context, store ParameterStore) (string, error) {
	if c.DistributionID != "" {
		return c.DistributionID, nil
	}
	if c.DistributionIDParameter == "" {
		return "", errors.New("no distribution id configured")
	}
	if store == nil {
		return "", fmt.Errorf("no parameter store to resolve %s", c.DistributionIDParameter)
	}

	id, err := store.GetParameter(ctx, c.DistributionIDParameter)
	if err != nil {
		return "", fmt.Errorf("resolve distribution id: %w", err)
	}
	return id, nil
}
