// Package config loads mesh designer configuration from a TOML file with
// environment overrides. A .env file in the working directory is honored
// (never required) so local development matches container deployments.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the full designer configuration.
type Config struct {
	Server  Server  `toml:"server"`
	Synth   Synth   `toml:"synth"`
	Layout  Layout  `toml:"layout"`
	Designs Designs `toml:"designs"`
}

// Server configures the HTTP console.
type Server struct {
	Addr string `toml:"addr"` // listen address, e.g. ":8080"
}

// Synth configures the synthesis adapter.
type Synth struct {
	// Backend selects the design client: "http" for the external AI
	// design service, "keyword" for the offline fallback.
	Backend        string `toml:"backend"`
	ServiceURL     string `toml:"service_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`

	// CacheDir enables file-based caching of synthesis responses when
	// non-empty. CacheTTLMinutes bounds entry age (0 = no expiration).
	CacheDir        string `toml:"cache_dir"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

// Layout configures the layout engine defaults.
type Layout struct {
	Direction  string  `toml:"direction"` // "horizontal" or "vertical"
	NodeWidth  float64 `toml:"node_width"`
	NodeHeight float64 `toml:"node_height"`
	RankGap    float64 `toml:"rank_gap"`
	NodeGap    float64 `toml:"node_gap"`
}

// Designs configures named-design persistence.
type Designs struct {
	// Backend selects the store: "memory", "file", "redis", or "mongo".
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`            // file backend
	RedisAddr     string `toml:"redis_addr"`     // redis backend
	RedisPassword string `toml:"redis_password"` // redis backend
	MongoURI      string `toml:"mongo_uri"`      // mongo backend
	MongoDatabase string `toml:"mongo_database"` // mongo backend
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Synth: Synth{
			Backend:        "keyword",
			ServiceURL:     "http://localhost:8091/api/design/generate",
			TimeoutSeconds: 30,
		},
		Layout: Layout{Direction: "horizontal"},
		Designs: Designs{
			Backend:       "memory",
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "meshdesign",
		},
	}
}

// Load reads configuration from path (optional; "" skips the file),
// then applies environment overrides. A .env file is loaded first if
// present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values with MESHDESIGN_* environment variables.
func (c *Config) applyEnv() {
	setString(&c.Server.Addr, "MESHDESIGN_ADDR")
	setString(&c.Synth.Backend, "MESHDESIGN_SYNTH_BACKEND")
	setString(&c.Synth.ServiceURL, "MESHDESIGN_SYNTH_URL")
	setInt(&c.Synth.TimeoutSeconds, "MESHDESIGN_SYNTH_TIMEOUT")
	setString(&c.Synth.CacheDir, "MESHDESIGN_SYNTH_CACHE_DIR")
	setInt(&c.Synth.CacheTTLMinutes, "MESHDESIGN_SYNTH_CACHE_TTL")
	setString(&c.Layout.Direction, "MESHDESIGN_LAYOUT_DIRECTION")
	setString(&c.Designs.Backend, "MESHDESIGN_DESIGNS_BACKEND")
	setString(&c.Designs.Dir, "MESHDESIGN_DESIGNS_DIR")
	setString(&c.Designs.RedisAddr, "MESHDESIGN_REDIS_ADDR")
	setString(&c.Designs.RedisPassword, "MESHDESIGN_REDIS_PASSWORD")
	setString(&c.Designs.MongoURI, "MESHDESIGN_MONGO_URI")
	setString(&c.Designs.MongoDatabase, "MESHDESIGN_MONGO_DATABASE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
