// Package config loads bilateral settings.
//
// Values are layered, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file ($XDG_CONFIG_HOME/bilateral/config.toml or --config)
//  3. a .env file in the working directory
//  4. BILATERAL_* environment variables
//
// Command-line flags are applied on top by the caller.
//
// Example file:
//
//	[solver]
//	friend = 1009
//	max_frontier = 1048576
//	timeout = "30s"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/bilateral/pkg/cover"
	errs "github.com/matzehuels/bilateral/pkg/errors"
	"github.com/matzehuels/bilateral/pkg/pipeline"
	"github.com/matzehuels/bilateral/pkg/team"
)

// AppName names the config and cache directories.
const AppName = "bilateral"

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

var backends = []string{BackendFile, BackendMemory, BackendRedis, BackendNone}

// Config is the full application configuration.
type Config struct {
	Solver SolverConfig `toml:"solver"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
}

// SolverConfig holds search budgets and the preferred employee.
type SolverConfig struct {
	Friend      int      `toml:"friend"`
	MaxTeams    int      `toml:"max_teams"`
	MaxFrontier int      `toml:"max_frontier"`
	Timeout     Duration `toml:"timeout"`
	Workers     int      `toml:"workers"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend    string   `toml:"backend"`
	Dir        string   `toml:"dir"`
	TTL        Duration `toml:"ttl"`
	RedisAddr  string   `toml:"redis_addr"`
	MemorySize int      `toml:"memory_size"`
	Prefix     string   `toml:"prefix"`
}

// ServerConfig configures `bilateral serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// StoreConfig configures where solve records are archived. An empty
// MongoURI keeps records in memory.
type StoreConfig struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Duration is a time.Duration written as a string ("30s") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			Friend:      int(cover.DefaultFriend),
			MaxFrontier: cover.DefaultMaxFrontier,
			Timeout:     Duration{pipeline.DefaultTimeout},
		},
		Cache: CacheConfig{
			Backend:    BackendFile,
			Dir:        DefaultCacheDir(),
			MemorySize: 1024,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			MaxBodyBytes: 1 << 20,
		},
		Store: StoreConfig{
			Database: AppName,
		},
	}
}

// Load builds the configuration. An explicit path must exist; otherwise the
// default path is read only when present.
func Load(path string) (*Config, error) {
	cfg := Default()

	_ = godotenv.Load()

	if path == "" {
		if p := DefaultPath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
	}

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errs.New(errs.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envVar binds a BILATERAL_* variable to a setter.
type envVar struct {
	name string
	set  func(string) error
}

func (c *Config) applyEnv() error {
	vars := []envVar{
		{"FRIEND", intVar(&c.Solver.Friend)},
		{"MAX_TEAMS", intVar(&c.Solver.MaxTeams)},
		{"MAX_FRONTIER", intVar(&c.Solver.MaxFrontier)},
		{"TIMEOUT", durationVar(&c.Solver.Timeout)},
		{"WORKERS", intVar(&c.Solver.Workers)},
		{"CACHE_BACKEND", stringVar(&c.Cache.Backend)},
		{"CACHE_DIR", stringVar(&c.Cache.Dir)},
		{"CACHE_TTL", durationVar(&c.Cache.TTL)},
		{"CACHE_PREFIX", stringVar(&c.Cache.Prefix)},
		{"REDIS_ADDR", stringVar(&c.Cache.RedisAddr)},
		{"MEMORY_SIZE", intVar(&c.Cache.MemorySize)},
		{"ADDR", stringVar(&c.Server.Addr)},
		{"MONGO_URI", stringVar(&c.Store.MongoURI)},
		{"MONGO_DATABASE", stringVar(&c.Store.Database)},
	}
	for _, v := range vars {
		name := "BILATERAL_" + v.name
		raw, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if err := v.set(strings.TrimSpace(raw)); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "%s", name)
		}
	}
	return nil
}

func intVar(dst *int) func(string) error {
	return func(s string) error {
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func stringVar(dst *string) func(string) error {
	return func(s string) error {
		*dst = s
		return nil
	}
}

func durationVar(dst *Duration) func(string) error {
	return func(s string) error {
		return dst.UnmarshalText([]byte(s))
	}
}

// Validate rejects settings no component can honor.
func (c *Config) Validate() error {
	if c.Solver.Friend <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "solver.friend must be positive (got %d)", c.Solver.Friend)
	}
	if err := errs.ValidateNonNegative("solver.max_teams", int64(c.Solver.MaxTeams)); err != nil {
		return err
	}
	if c.Solver.MaxFrontier < cover.Unlimited {
		return errs.New(errs.ErrCodeInvalidConfig, "solver.max_frontier must be -1, 0 or positive (got %d)", c.Solver.MaxFrontier)
	}
	if err := errs.ValidateNonNegative("solver.workers", int64(c.Solver.Workers)); err != nil {
		return err
	}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.backend %q is not one of %s", c.Cache.Backend, strings.Join(backends, ", "))
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.Backend == BackendMemory && c.Cache.MemorySize <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.memory_size must be positive (got %d)", c.Cache.MemorySize)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// PipelineOptions converts the solver section into pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Friend:      team.ID(c.Solver.Friend),
		MaxTeams:    c.Solver.MaxTeams,
		MaxFrontier: c.Solver.MaxFrontier,
		Workers:     c.Solver.Workers,
		Timeout:     c.Solver.Timeout.Duration,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/bilateral/config.toml, falling back
// to ~/.config. It returns "" when no home directory is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName, "config.toml")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/bilateral, falling back to
// ~/.cache/bilateral.
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".cache", AppName)
}

// DefaultDataDir returns $XDG_DATA_HOME/bilateral, falling back to
// ~/.local/share/bilateral. The CLI archives solve records here.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, ".local", "share", AppName)
}
