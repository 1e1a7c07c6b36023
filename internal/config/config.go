package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DirName   = ".admin-dashboard"
	EnvPrefix = "AD"

	KeyBaseURL        = "api.base_url"
	KeyTimeout        = "api.timeout"
	KeyProfile        = "profile"
	KeyLogLevel       = "log.level"
	KeyItemsPerPage   = "activity.items_per_page"
	KeySecretsBackend = "secrets.backend"
	KeyPassPrefix     = "secrets.pass_prefix"
	KeyProfilesPath   = "profiles.path"

	BackendChain = "chain"
	BackendFile  = "file"
)

// Config is the resolved runtime configuration.
type Config struct {
	Dir            string
	BaseURL        string
	Timeout        time.Duration
	Profile        string
	LogLevel       slog.Level
	ItemsPerPage   int
	SecretsBackend string
	PassPrefix     string
}

func (c Config) SecretsDir() string {
	return filepath.Join(c.Dir, "secrets")
}

// New returns a viper instance reading <home>/.admin-dashboard/config.toml
// with AD_ prefixed environment overrides. A missing config file is fine.
func New(home string) (*viper.Viper, error) {
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
	}

	dir := filepath.Join(home, DirName)
	v := viper.New()
	v.SetDefault("dir", dir)
	v.SetDefault(KeyBaseURL, "http://127.0.0.1:8000/api")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyProfile, "default")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyItemsPerPage, 10)
	v.SetDefault(KeySecretsBackend, BackendChain)
	v.SetDefault(KeyPassPrefix, "admin-dashboard")
	v.SetDefault(KeyProfilesPath, filepath.Join(dir, "profiles.toml"))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return v, nil
}

func Load(v *viper.Viper) (Config, error) {
	level, err := ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Dir:            v.GetString("dir"),
		BaseURL:        strings.TrimSpace(v.GetString(KeyBaseURL)),
		Timeout:        v.GetDuration(KeyTimeout),
		Profile:        strings.TrimSpace(v.GetString(KeyProfile)),
		LogLevel:       level,
		ItemsPerPage:   v.GetInt(KeyItemsPerPage),
		SecretsBackend: strings.ToLower(strings.TrimSpace(v.GetString(KeySecretsBackend))),
		PassPrefix:     v.GetString(KeyPassPrefix),
	}

	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %s", KeyTimeout, v.GetString(KeyTimeout))
	}
	if cfg.ItemsPerPage < 1 {
		return Config{}, fmt.Errorf("%s must be at least 1, got %d", KeyItemsPerPage, cfg.ItemsPerPage)
	}
	switch cfg.SecretsBackend {
	case BackendChain, BackendFile:
	default:
		return Config{}, fmt.Errorf("unsupported %s %q", KeySecretsBackend, cfg.SecretsBackend)
	}

	return cfg, nil
}

func ParseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", KeyLogLevel, raw, err)
	}
	return level, nil
}

func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
