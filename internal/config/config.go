package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"url-shortener-api/internal/codec"
	"url-shortener-api/internal/sequence"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Cache    CacheConfig    `yaml:"cache"`
	Token    TokenConfig    `yaml:"token"`
	Sequence SequenceConfig `yaml:"sequence"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// BaseURL is prefixed to tokens in shorten responses.
	BaseURL string `yaml:"baseUrl"`
}

// CacheConfig configures the link cache.
type CacheConfig struct {
	MaxEntries    int           `yaml:"maxEntries"`
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
}

// TokenConfig configures token encoding.
type TokenConfig struct {
	Width    int    `yaml:"width"`
	Alphabet string `yaml:"alphabet"`
}

// SequenceConfig configures the sequence seed. Without Start a random seed
// in [SeedMin, SeedMax) is used.
type SequenceConfig struct {
	Start   *uint64 `yaml:"start,omitempty"`
	SeedMin uint64  `yaml:"seedMin"`
	SeedMax uint64  `yaml:"seedMax"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:    ":8008",
			BaseURL: "http://localhost:8008/s/",
		},
		Cache: CacheConfig{
			MaxEntries:    100000,
			TTL:           30 * time.Minute,
			SweepInterval: time.Minute,
		},
		Token: TokenConfig{
			Width:    8,
			Alphabet: codec.Base62Alphabet,
		},
		Sequence: SequenceConfig{
			SeedMin: sequence.DefaultSeedMin,
			SeedMax: sequence.DefaultSeedMax,
		},
	}
}

// Load reads the defaults, then the YAML file at path if it is non-empty and
// exists, then environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.maxEntries must be positive, got %d", c.Cache.MaxEntries)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Cache.SweepInterval < 0 {
		return fmt.Errorf("cache.sweepInterval must not be negative, got %s", c.Cache.SweepInterval)
	}
	if c.Token.Width < 1 {
		return fmt.Errorf("token.width must be positive, got %d", c.Token.Width)
	}
	enc, err := codec.New(c.Token.Alphabet)
	if err != nil {
		return fmt.Errorf("token.alphabet: %w", err)
	}

	// the first sequence number handed out has to be encodable
	max, _ := enc.MaxValue(c.Token.Width)
	if c.Sequence.Start != nil {
		if *c.Sequence.Start > max {
			return fmt.Errorf("sequence.start %d does not fit in %d-symbol tokens (max %d)",
				*c.Sequence.Start, c.Token.Width, max)
		}
		return nil
	}
	if c.Sequence.SeedMax <= c.Sequence.SeedMin {
		return fmt.Errorf("sequence.seedMax (%d) must be greater than sequence.seedMin (%d)",
			c.Sequence.SeedMax, c.Sequence.SeedMin)
	}
	if c.Sequence.SeedMax-1 > max {
		return fmt.Errorf("sequence seed band [%d, %d) does not fit in %d-symbol tokens (max %d)",
			c.Sequence.SeedMin, c.Sequence.SeedMax, c.Token.Width, max)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func applyEnv(cfg *Config) error {
	cfg.Server.Addr = getEnv("SHORTENER_ADDR", cfg.Server.Addr)
	cfg.Server.BaseURL = getEnv("SHORTENER_BASE_URL", cfg.Server.BaseURL)
	cfg.Token.Alphabet = getEnv("SHORTENER_TOKEN_ALPHABET", cfg.Token.Alphabet)

	var err error
	if v := os.Getenv("SHORTENER_CACHE_MAX_ENTRIES"); v != "" {
		if cfg.Cache.MaxEntries, err = cast.ToIntE(v); err != nil {
			return fmt.Errorf("SHORTENER_CACHE_MAX_ENTRIES: %w", err)
		}
	}
	if v := os.Getenv("SHORTENER_CACHE_TTL"); v != "" {
		if cfg.Cache.TTL, err = cast.ToDurationE(v); err != nil {
			return fmt.Errorf("SHORTENER_CACHE_TTL: %w", err)
		}
	}
	if v := os.Getenv("SHORTENER_CACHE_SWEEP_INTERVAL"); v != "" {
		if cfg.Cache.SweepInterval, err = cast.ToDurationE(v); err != nil {
			return fmt.Errorf("SHORTENER_CACHE_SWEEP_INTERVAL: %w", err)
		}
	}
	if v := os.Getenv("SHORTENER_TOKEN_WIDTH"); v != "" {
		if cfg.Token.Width, err = cast.ToIntE(v); err != nil {
			return fmt.Errorf("SHORTENER_TOKEN_WIDTH: %w", err)
		}
	}
	if v := os.Getenv("SHORTENER_SEQUENCE_START"); v != "" {
		var start uint64
		if start, err = cast.ToUint64E(v); err != nil {
			return fmt.Errorf("SHORTENER_SEQUENCE_START: %w", err)
		}
		cfg.Sequence.Start = &start
	}
	return nil
}
