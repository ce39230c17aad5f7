// Package config resolves lingua's runtime configuration from flags,
// environment variables, an optional .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/lingua/internal/remote"
)

// EnvPrefix prefixes every environment variable lingua reads.
const EnvPrefix = "LINGUA"

// Config is the resolved configuration.
type Config struct {
	DBPath   string
	Language string
	Verbose  bool

	// SyncInterval is the period of the background sync watcher.
	SyncInterval time.Duration

	Remote remote.Config
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		SyncInterval: 5 * time.Minute,
		Remote:       remote.DefaultConfig(),
	}
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	if c.SyncInterval < 0 {
		return fmt.Errorf("sync interval must not be negative, got %s", c.SyncInterval)
	}
	return c.Remote.Validate()
}

// Options control where Load looks.
type Options struct {
	// ConfigFile is an explicit config file. When empty, lingua/config.yaml
	// under the XDG config dirs is used if it exists.
	ConfigFile string

	// EnvFile is loaded into the process environment without overriding
	// variables that are already set. Default: ".env". A missing file is
	// not an error.
	EnvFile string
}

// Load resolves configuration. Precedence, highest first: environment,
// config file, defaults. Flags are applied by the caller on top.
func Load(opts Options) (Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := newViper()

	path := opts.ConfigFile
	if path == "" {
		if p, err := xdg.SearchConfigFile(filepath.Join("lingua", "config.yaml")); err == nil {
			path = p
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	def := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db", "")
	v.SetDefault("language", "")
	v.SetDefault("verbose", false)
	v.SetDefault("sync_interval", def.SyncInterval)
	v.SetDefault("device_id", "")

	v.SetDefault("remote.kind", def.Remote.Kind)
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.token", "")
	v.SetDefault("remote.rate_limit", def.Remote.HTTP.RateLimit)
	v.SetDefault("remote.dir", "")
	v.SetDefault("remote.timeout", def.Remote.Timeout)
	v.SetDefault("remote.retry.attempts", def.Remote.Retry.MaxAttempts)
	v.SetDefault("remote.retry.initial_wait", def.Remote.Retry.InitialWait)
	v.SetDefault("remote.retry.max_wait", def.Remote.Retry.MaxWait)
	v.SetDefault("remote.retry.multiplier", def.Remote.Retry.Multiplier)
	return v
}

func fromViper(v *viper.Viper) Config {
	return Config{
		DBPath:       v.GetString("db"),
		Language:     v.GetString("language"),
		Verbose:      v.GetBool("verbose"),
		SyncInterval: v.GetDuration("sync_interval"),
		Remote: remote.Config{
			Kind: strings.ToLower(v.GetString("remote.kind")),
			HTTP: remote.HTTPConfig{
				BaseURL:   v.GetString("remote.url"),
				Token:     v.GetString("remote.token"),
				RateLimit: v.GetFloat64("remote.rate_limit"),
			},
			Dir: v.GetString("remote.dir"),
			Retry: remote.RetryConfig{
				MaxAttempts: v.GetInt("remote.retry.attempts"),
				InitialWait: v.GetDuration("remote.retry.initial_wait"),
				MaxWait:     v.GetDuration("remote.retry.max_wait"),
				Multiplier:  v.GetFloat64("remote.retry.multiplier"),
			},
			DeviceID: v.GetString("device_id"),
			Timeout:  v.GetDuration("remote.timeout"),
		},
	}
}

// DeviceID returns the identity of this installation, creating and
// persisting a random one under the XDG state dir on first use.
func DeviceID() (string, error) {
	path, err := xdg.StateFile(filepath.Join("lingua", "device-id"))
	if err != nil {
		return "", fmt.Errorf("resolve device id path: %w", err)
	}
	return deviceIDAt(path)
}

func deviceIDAt(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(b)); id != "" {
			return id, nil
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read device id: %w", err)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write device id: %w", err)
	}
	return id, nil
}
