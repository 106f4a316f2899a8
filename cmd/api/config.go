package main

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/conf"
)

type Config struct {
	Port        string `conf:"default:8080,env:PORT"`
	StoreAddr   string `conf:"env:STORE_ADDR"`
	StoreKey    string `conf:"env:STORE_KEY,noprint"`
	RedisAddr   string `conf:"default:localhost:6379,env:REDIS_ADDR"`
	CatalogYear int    `conf:"default:2026,env:CATALOG_YEAR"`
}

func ReadConfig() (*Config, error) {
	var cfg Config
	help, err := conf.ParseOSArgs("APP", &cfg)

	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil, fmt.Errorf("parsing config: %w", err)
		}
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// MissingSettings lists the required store settings that are absent. The
// service still serves with them missing; query endpoints report the
// problem instead of failing silently.
func (c *Config) MissingSettings() []string {
	var missing []string
	if c.StoreAddr == "" {
		missing = append(missing, "STORE_ADDR")
	}
	if c.StoreKey == "" {
		missing = append(missing, "STORE_KEY")
	}
	return missing
}
