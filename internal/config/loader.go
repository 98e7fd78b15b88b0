package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/hugo-lorenzo-mato/docfix/internal/fix"
)

// EnvPrefix prefixes every environment override, as in DOCFIX_DATABASE_SERVER.
const EnvPrefix = "DOCFIX"

// legacyEnv maps keys to the environment names older deployments used.
var legacyEnv = map[string]string{
	"database.server":                   "SQL_SERVER",
	"database.user":                     "UID",
	"database.password":                 "SQL_PWD",
	"database.name":                     "DATABASE",
	"database.encrypt":                  "ENCRYPT",
	"database.trust_server_certificate": "TSC",
}

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	envPrefix  string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return NewLoaderWithViper(viper.New())
}

// NewLoaderWithViper creates a loader using an existing viper instance so
// CLI flags bound to it take part in loading.
func NewLoaderWithViper(v *viper.Viper) *Loader {
	return &Loader{v: v, envPrefix: EnvPrefix}
}

// WithConfigFile sets an explicit config file path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithEnvPrefix sets the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Viper returns the underlying viper instance for flag binding.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load loads configuration from all sources.
// Precedence (highest to lowest):
// 1. CLI flags (set via viper.BindPFlag)
// 2. Environment variables (DOCFIX_*, then the legacy names)
// 3. Project config (.docfix.yaml in current directory)
// 4. User config (~/.config/docfix/.docfix.yaml)
// 5. Defaults
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()

	l.v.SetEnvPrefix(l.envPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
	if err := l.bindLegacyEnv(); err != nil {
		return nil, err
	}

	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	} else {
		l.v.SetConfigName(".docfix")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if dir, err := UserConfigDir(); err == nil {
			l.v.AddConfigPath(dir)
		}
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// bindLegacyEnv lets the prefixed name win over the legacy one.
func (l *Loader) bindLegacyEnv() error {
	for key, legacy := range legacyEnv {
		prefixed := strings.ToUpper(l.envPrefix + "_" + strings.ReplaceAll(key, ".", "_"))
		if err := l.v.BindEnv(key, prefixed, legacy); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.format", "auto")
	l.v.SetDefault("log.file", "")

	l.v.SetDefault("server.host", "0.0.0.0")
	l.v.SetDefault("server.port", 8000)
	l.v.SetDefault("server.read_timeout", "15s")
	l.v.SetDefault("server.write_timeout", "60s")
	l.v.SetDefault("server.shutdown_timeout", "10s")
	l.v.SetDefault("server.cors.enabled", true)
	l.v.SetDefault("server.cors.allowed_origins", []string{"*"})

	l.v.SetDefault("database.driver", "sqlserver")
	l.v.SetDefault("database.port", 0)
	l.v.SetDefault("database.encrypt", "no")
	l.v.SetDefault("database.trust_server_certificate", "no")
	l.v.SetDefault("database.query_timeout", "30s")
	l.v.SetDefault("database.max_open_conns", 4)
	l.v.SetDefault("database.connect_attempts", 4)
	l.v.SetDefault("database.connect_backoff", "2s")

	l.v.SetDefault("statements.dir", "")
	l.v.SetDefault("statements.watch", false)

	fixDefaults := fix.DefaultConfig()
	l.v.SetDefault("fix.statement", fixDefaults.Statement)
	l.v.SetDefault("fix.wrong_day_statement", fixDefaults.WrongDayStatement)
	l.v.SetDefault("fix.wrong_day_error", fixDefaults.WrongDayError)
	l.v.SetDefault("fix.wrong_day_hint", fixDefaults.WrongDayHint)
}

// ConfigFile returns the config file path if one was used.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// UserConfigDir returns ~/.config/docfix.
func UserConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "docfix"), nil
}
