// Package config provides loading and parsing of sequent.yaml configuration
// files. A configuration selects the knowledge backend and sets the default
// processor parameters the engine hands to newly created processors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sequent-ai/sequent/kv"
)

// Backend names accepted by KnowledgeConfig.Backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendEtcd   = "etcd"
	BackendSQLite = "sqlite"
)

// Config represents a sequent.yaml configuration file.
type Config struct {
	// Knowledge selects and configures the model persistence backend.
	Knowledge KnowledgeConfig `yaml:"knowledge"`

	// Processor holds defaults applied to processors on first use.
	Processor ProcessorConfig `yaml:"processor"`
}

// KnowledgeConfig configures the model persistence backend.
type KnowledgeConfig struct {
	// Backend is one of "memory", "redis", "etcd", "sqlite".
	// Default: "memory".
	Backend string `yaml:"backend,omitempty"`

	// Shared makes every processor use one knowledge namespace instead
	// of an isolated namespace per processor identity. Default: false.
	Shared bool `yaml:"shared,omitempty"`

	// Namespace is the shared namespace name when Shared is true.
	// Default: "shared".
	Namespace string `yaml:"namespace,omitempty"`

	// Redis configures the Redis backend.
	Redis *RedisConfig `yaml:"redis,omitempty"`

	// Etcd configures the etcd backend.
	Etcd *EtcdConfig `yaml:"etcd,omitempty"`

	// SQLite configures the SQLite backend.
	SQLite *SQLiteConfig `yaml:"sqlite,omitempty"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379").
	URL string `yaml:"url"`

	// ConnectTimeout is a Go duration string (e.g., "5s"). Default: 5s.
	ConnectTimeout string `yaml:"connect_timeout,omitempty"`

	// ReadTimeout is a Go duration string. Default: 30s.
	ReadTimeout string `yaml:"read_timeout,omitempty"`

	// WriteTimeout is a Go duration string. Default: 5s.
	WriteTimeout string `yaml:"write_timeout,omitempty"`
}

// EtcdConfig holds etcd connection settings.
type EtcdConfig struct {
	// Endpoints is the list of etcd cluster endpoints.
	Endpoints []string `yaml:"endpoints"`

	// DialTimeout is a Go duration string. Default: 5s.
	DialTimeout string `yaml:"dial_timeout,omitempty"`

	// TLS holds optional mutual-TLS settings.
	TLS *TLSConfig `yaml:"tls,omitempty"`
}

// TLSConfig holds certificate paths for mutual TLS.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file,omitempty"`
	KeyFile  string `yaml:"key_file,omitempty"`
	CAFile   string `yaml:"ca_file,omitempty"`
}

// SQLiteConfig holds SQLite settings.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string `yaml:"path"`
}

// ProcessorConfig holds the per-processor defaults.
type ProcessorConfig struct {
	// MaxPredictions caps the number of prediction entries returned.
	// Must be positive. Default: 10.
	MaxPredictions int `yaml:"max_predictions,omitempty"`

	// RecallThreshold is the minimum similarity score, in [0, 1], a
	// model must reach to be predicted. Default: 0.1.
	RecallThreshold float64 `yaml:"recall_threshold,omitempty"`

	// WorkingMemoryLimit bounds working-memory length, evicting oldest
	// events on overflow. Zero means unbounded. Default: 0.
	WorkingMemoryLimit int `yaml:"working_memory_limit,omitempty"`
}

// DefaultFileName is the configuration file the engine looks for when no
// explicit path is given.
const DefaultFileName = "sequent.yaml"

// Default returns the configuration used when no file is provided: the
// in-memory backend with isolated namespaces, MaxPredictions 10, and
// RecallThreshold 0.1.
func Default() *Config {
	return &Config{
		Knowledge: KnowledgeConfig{
			Backend:   BackendMemory,
			Namespace: "shared",
		},
		Processor: ProcessorConfig{
			MaxPredictions:  10,
			RecallThreshold: 0.1,
		},
	}
}

// Load reads and parses a configuration file, fills in defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromCurrentDir loads sequent.yaml from the current directory.
func LoadFromCurrentDir() (*Config, error) {
	return Load(filepath.Join(".", DefaultFileName))
}

func (c *Config) applyDefaults() {
	if c.Knowledge.Backend == "" {
		c.Knowledge.Backend = BackendMemory
	}
	if c.Knowledge.Namespace == "" {
		c.Knowledge.Namespace = "shared"
	}
	if c.Processor.MaxPredictions == 0 {
		c.Processor.MaxPredictions = 10
	}
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	switch c.Knowledge.Backend {
	case BackendMemory, BackendRedis, BackendEtcd, BackendSQLite:
	default:
		return fmt.Errorf("unknown knowledge backend %q", c.Knowledge.Backend)
	}

	if c.Knowledge.Backend == BackendEtcd && (c.Knowledge.Etcd == nil || len(c.Knowledge.Etcd.Endpoints) == 0) {
		return fmt.Errorf("etcd backend requires endpoints")
	}
	if c.Knowledge.Backend == BackendSQLite && (c.Knowledge.SQLite == nil || c.Knowledge.SQLite.Path == "") {
		return fmt.Errorf("sqlite backend requires a path")
	}

	if c.Processor.MaxPredictions <= 0 {
		return fmt.Errorf("max_predictions must be positive, got %d", c.Processor.MaxPredictions)
	}
	if c.Processor.RecallThreshold < 0 || c.Processor.RecallThreshold > 1 {
		return fmt.Errorf("recall_threshold must lie in [0,1], got %v", c.Processor.RecallThreshold)
	}
	if c.Processor.WorkingMemoryLimit < 0 {
		return fmt.Errorf("working_memory_limit cannot be negative, got %d", c.Processor.WorkingMemoryLimit)
	}
	return nil
}

// Open constructs the kv backend the configuration selects.
func (k *KnowledgeConfig) Open() (kv.Store, error) {
	switch k.Backend {
	case BackendMemory, "":
		return kv.NewMemoryStore(), nil

	case BackendRedis:
		opts := kv.RedisOptions{}
		if k.Redis != nil {
			opts.URL = k.Redis.URL
			opts.ConnectTimeout = parseDuration(k.Redis.ConnectTimeout, 5*time.Second)
			opts.ReadTimeout = parseDuration(k.Redis.ReadTimeout, 30*time.Second)
			opts.WriteTimeout = parseDuration(k.Redis.WriteTimeout, 5*time.Second)
		}
		return kv.NewRedisStore(opts)

	case BackendEtcd:
		opts := kv.EtcdOptions{}
		if k.Etcd != nil {
			opts.Endpoints = k.Etcd.Endpoints
			opts.DialTimeout = parseDuration(k.Etcd.DialTimeout, 5*time.Second)
			if k.Etcd.TLS != nil {
				opts.TLS = &kv.TLSConfig{
					Enabled:  k.Etcd.TLS.Enabled,
					CertFile: k.Etcd.TLS.CertFile,
					KeyFile:  k.Etcd.TLS.KeyFile,
					CAFile:   k.Etcd.TLS.CAFile,
				}
			}
		}
		return kv.NewEtcdStore(opts)

	case BackendSQLite:
		if k.SQLite == nil {
			return nil, fmt.Errorf("sqlite backend requires a path")
		}
		return kv.NewSQLiteStore(k.SQLite.Path)

	default:
		return nil, fmt.Errorf("unknown knowledge backend %q", k.Backend)
	}
}

// parseDuration parses a Go duration string, returning the default value
// if not set or invalid.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
