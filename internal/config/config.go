package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable names. The environment always wins over the file.
const (
	EnvConfig      = "SMARTSHOP_CONFIG"
	EnvAddr        = "SMARTSHOP_ADDR"
	EnvPGDSN       = "SMARTSHOP_PG_DSN"
	EnvAuthSecret  = "SMARTSHOP_AUTH_SECRET"
	EnvTokenTTL    = "SMARTSHOP_TOKEN_TTL"
	EnvStateDir    = "SMARTSHOP_STATE_DIR"
	EnvRapidAPIKey = "SMARTSHOP_RAPIDAPI_KEY"
)

// Duration wraps time.Duration so YAML values like "10s" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full process configuration: listen address, authority
// connection, token signing, session state location and the vendor list.
type Config struct {
	Addr      string          `yaml:"addr"`
	Authority AuthorityConfig `yaml:"authority"`
	Token     TokenConfig     `yaml:"token"`
	StateDir  string          `yaml:"state_dir"`
	Vendors   VendorsConfig   `yaml:"vendors"`
}

type AuthorityConfig struct {
	DSN     string   `yaml:"dsn"`
	Timeout Duration `yaml:"timeout"`
}

type TokenConfig struct {
	Secret string   `yaml:"secret"`
	TTL    Duration `yaml:"ttl"`
}

type VendorsConfig struct {
	Timeout Duration       `yaml:"timeout"`
	List    []VendorConfig `yaml:"list"`
}

type VendorConfig struct {
	Name     string `yaml:"name"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Host     string `yaml:"host"`
	PageSize int    `yaml:"page_size"`
}

// Default returns the configuration the service starts from before the file
// and the environment are applied. The vendor pair mirrors the production
// setup: two grocery price APIs behind RapidAPI.
func Default() *Config {
	return &Config{
		Addr: ":8080",
		Authority: AuthorityConfig{
			Timeout: Duration(10 * time.Second),
		},
		Token: TokenConfig{
			TTL: Duration(24 * time.Hour),
		},
		StateDir: "data",
		Vendors: VendorsConfig{
			Timeout: Duration(8 * time.Second),
			List: []VendorConfig{
				{
					Name:     "coles",
					BaseURL:  "https://coles-product-price-api.p.rapidapi.com/coles/product-search/",
					Host:     "coles-product-price-api.p.rapidapi.com",
					PageSize: 20,
				},
				{
					Name:     "woolworths",
					BaseURL:  "https://woolworths-products-api.p.rapidapi.com/woolworths/product-search/",
					Host:     "woolworths-products-api.p.rapidapi.com",
					PageSize: 100,
				},
			},
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides, in that order. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			// fall through to env-only configuration
		} else {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvPGDSN); v != "" {
		c.Authority.DSN = v
	}
	if v := os.Getenv(EnvAuthSecret); v != "" {
		c.Token.Secret = v
	}
	if v := os.Getenv(EnvTokenTTL); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Token.TTL = Duration(parsed)
		}
	}
	if v := os.Getenv(EnvStateDir); v != "" {
		c.StateDir = v
	}
	if v := os.Getenv(EnvRapidAPIKey); v != "" {
		for i := range c.Vendors.List {
			if c.Vendors.List[i].APIKey == "" {
				c.Vendors.List[i].APIKey = v
			}
		}
	}
}
