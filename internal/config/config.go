// Package config loads the catalog service settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

const minSecretLen = 32

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Service  string `toml:"service"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`

	MetricsEnabled bool   `toml:"metrics_enabled"`
	MetricsToken   string `toml:"metrics_token"`

	// AdminSecret signs admin tokens. Empty leaves mutations unauthenticated.
	AdminSecret string `toml:"admin_secret"`

	HikeLimitPerMin int `toml:"hike_limit_per_min"`
	BTreeDegree     int `toml:"btree_degree"`
}

func New() *Config {
	return &Config{
		Service:         "catalog",
		Port:            8082,
		LogLevel:        "info",
		HikeLimitPerMin: 30,
		BTreeDegree:     8,
	}
}

// Load reads a TOML file into c. Keys absent from the file keep their values.
func (c *Config) Load(path string) error {
	_, err := toml.DecodeFile(path, c)
	return err
}

// FromEnv overrides fields from the process environment.
func (c *Config) FromEnv() error {
	return c.apply(os.Getenv)
}

func (c *Config) apply(getenv func(string) string) error {
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("METRICS_TOKEN"); v != "" {
		c.MetricsToken = v
	}
	if v := getenv("ADMIN_SECRET"); v != "" {
		c.AdminSecret = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"PORT", &c.Port},
		{"HIKE_LIMIT_PER_MIN", &c.HikeLimitPerMin},
		{"BTREE_DEGREE", &c.BTreeDegree},
	}
	for _, e := range ints {
		v := getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalid, e.key, v)
		}
		*e.dst = n
	}

	if v := getenv("METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: METRICS_ENABLED=%q", ErrInvalid, v)
		}
		c.MetricsEnabled = b
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d", ErrInvalid, c.Port)
	}
	if c.BTreeDegree < 2 {
		return fmt.Errorf("%w: btree_degree %d", ErrInvalid, c.BTreeDegree)
	}
	if c.HikeLimitPerMin <= 0 {
		return fmt.Errorf("%w: hike_limit_per_min %d", ErrInvalid, c.HikeLimitPerMin)
	}
	if c.AdminSecret != "" && len(c.AdminSecret) < minSecretLen {
		return fmt.Errorf("%w: admin_secret must be at least %d chars", ErrInvalid, minSecretLen)
	}
	return nil
}

func (c *Config) Addr() string { return ":" + strconv.Itoa(c.Port) }
