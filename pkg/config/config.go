// Package config loads kintree's TOML configuration.
//
// A configuration file looks like:
//
//	[layout]
//	person_width = 200
//	generation_height = 380
//
//	[render]
//	style = "detailed"
//	decorations = true
//	generations = 4
//
//	[source]
//	type = "mongodb"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//	database = "family"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	timeout = "30s"
//
// Every section is optional. A missing default file yields [Default], and
// the environment variables KINTREE_REDIS_ADDR, KINTREE_MONGO_URI,
// KINTREE_ADDR and KINTREE_SOURCE_TOKEN override the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/layout"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "kintree.toml"

// Environment variables that override file settings.
const (
	EnvRedisAddr   = "KINTREE_REDIS_ADDR"
	EnvMongoURI    = "KINTREE_MONGO_URI"
	EnvAddr        = "KINTREE_ADDR"
	EnvSourceToken = "KINTREE_SOURCE_TOKEN"
)

// Source types.
const (
	SourceFile    = "file"
	SourceRemote  = "remote"
	SourceMongoDB = "mongodb"
)

// Config is the complete configuration.
type Config struct {
	Layout layout.Config `toml:"layout"`
	Render RenderConfig  `toml:"render"`
	Source SourceConfig  `toml:"source"`
	Mongo  MongoConfig   `toml:"mongo"`
	Cache  CacheConfig   `toml:"cache"`
	Server ServerConfig  `toml:"server"`
}

// RenderConfig holds request defaults.
type RenderConfig struct {
	Style       string `toml:"style"`
	Decorations bool   `toml:"decorations"`
	Generations int    `toml:"generations"`
}

// SourceConfig selects where snapshots are loaded from.
type SourceConfig struct {
	Type  string `toml:"type"`
	Path  string `toml:"path"`
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

// MongoConfig configures the MongoDB source.
type MongoConfig struct {
	URI      string   `toml:"uri"`
	Database string   `toml:"database"`
	Persons  string   `toml:"persons"`
	Unions   string   `toml:"unions"`
	Links    string   `toml:"links"`
	Timeout  Duration `toml:"timeout"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr    string   `toml:"addr"`
	Timeout Duration `toml:"timeout"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: layout.DefaultConfig(),
		Render: RenderConfig{Style: "simple", Decorations: true, Generations: 4},
		Source: SourceConfig{Type: SourceFile},
		Mongo: MongoConfig{
			Database: "family",
			Persons:  "people",
			Unions:   "spouserelationships",
			Links:    "parentchildren",
			Timeout:  Duration{30 * time.Second},
		},
		Cache:  CacheConfig{Backend: cache.BackendFile, RedisPrefix: cache.DefaultRedisPrefix},
		Server: ServerConfig{Addr: ":8080", Timeout: Duration{60 * time.Second}},
	}
}

// Load reads the configuration. An empty path looks for kintree.toml in the
// working directory and then in the user config directory; if neither
// exists the defaults are used. An explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findDefault()
	}
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			if !explicit && os.IsNotExist(err) {
				return finish(cfg)
			}
			return Config{}, err
		}
	}
	return finish(cfg)
}

// Parse decodes TOML text on top of the defaults. Environment overrides are
// not applied.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	cfg.Layout = cfg.Layout.WithDefaults()
	return cfg, cfg.Validate()
}

func finish(cfg Config) (Config, error) {
	cfg.applyEnv(os.Getenv)
	cfg.Layout = cfg.Layout.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return err
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return checkUndecoded(md)
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(names, ", "))
}

func findDefault() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "kintree", "config.toml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		if c.Cache.Backend == "" || c.Cache.Backend == cache.BackendFile {
			c.Cache.Backend = cache.BackendRedis
		}
	}
	if v := getenv(EnvMongoURI); v != "" {
		c.Mongo.URI = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := getenv(EnvSourceToken); v != "" {
		c.Source.Token = v
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[layout]")
	}
	if err := errors.ValidateGenerations(c.Render.Generations); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[render]")
	}
	switch c.Source.Type {
	case "", SourceFile, SourceRemote, SourceMongoDB:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[source]: unknown type %q", c.Source.Type)
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendNone:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "[cache]: redis backend needs redis_addr or %s", EnvRedisAddr)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "[cache]: unknown backend %q", c.Cache.Backend)
	}
	if c.Server.Timeout.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "[server]: timeout cannot be negative")
	}
	return nil
}

// CacheOptions converts the cache section for [cache.Open].
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   c.Cache.RedisPrefix,
		},
	}
}

// String renders the configuration as TOML with secrets masked.
func (c Config) String() string {
	masked := c
	if masked.Cache.RedisPassword != "" {
		masked.Cache.RedisPassword = "***"
	}
	if masked.Source.Token != "" {
		masked.Source.Token = "***"
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(masked); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}
