// Package config loads docfix configuration from files, environment and flags.
package config

import (
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Statements StatementsConfig `mapstructure:"statements" yaml:"statements"`
	Fix        FixConfig        `mapstructure:"fix" yaml:"fix"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=auto text json"`
	File   string `mapstructure:"file" yaml:"file"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host" validate:"required"`
	Port            int           `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"gte=0"`
	CORS            CORSConfig    `mapstructure:"cors" yaml:"cors"`
}

// CORSConfig configures cross-origin access to the JSON API.
type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled" yaml:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins" validate:"dive,required"`
}

// DatabaseConfig configures the data source.
type DatabaseConfig struct {
	Driver                 string        `mapstructure:"driver" yaml:"driver" validate:"oneof=sqlserver sqlite"`
	DSN                    string        `mapstructure:"dsn" yaml:"dsn"`
	Server                 string        `mapstructure:"server" yaml:"server"`
	Port                   int           `mapstructure:"port" yaml:"port" validate:"min=0,max=65535"`
	Name                   string        `mapstructure:"name" yaml:"name"`
	User                   string        `mapstructure:"user" yaml:"user"`
	Password               string        `mapstructure:"password" yaml:"password"`
	Encrypt                string        `mapstructure:"encrypt" yaml:"encrypt" validate:"omitempty,oneof=yes no true false disable strict optional mandatory"`
	TrustServerCertificate string        `mapstructure:"trust_server_certificate" yaml:"trust_server_certificate" validate:"omitempty,oneof=yes no true false"`
	Path                   string        `mapstructure:"path" yaml:"path"`
	QueryTimeout           time.Duration `mapstructure:"query_timeout" yaml:"query_timeout" validate:"gt=0"`
	MaxOpenConns           int           `mapstructure:"max_open_conns" yaml:"max_open_conns" validate:"min=0"`
	ConnectAttempts        int           `mapstructure:"connect_attempts" yaml:"connect_attempts" validate:"min=1,max=10"`
	ConnectBackoff         time.Duration `mapstructure:"connect_backoff" yaml:"connect_backoff" validate:"gte=0"`
}

// EncryptMode returns the driver value for Encrypt. The yes/no spelling of
// ODBC connection strings is accepted.
func (d DatabaseConfig) EncryptMode() string {
	switch strings.ToLower(d.Encrypt) {
	case "yes":
		return "true"
	case "no":
		return "false"
	default:
		return strings.ToLower(d.Encrypt)
	}
}

// TrustsServerCertificate reports whether certificate validation is skipped.
func (d DatabaseConfig) TrustsServerCertificate() bool {
	switch strings.ToLower(d.TrustServerCertificate) {
	case "yes", "true":
		return true
	default:
		return false
	}
}

// StatementsConfig configures where SQL statements are loaded from.
type StatementsConfig struct {
	// Dir overrides embedded statements with <name>.sql files.
	Dir   string `mapstructure:"dir" yaml:"dir"`
	Watch bool   `mapstructure:"watch" yaml:"watch"`
}

// FixConfig configures the fix decision.
type FixConfig struct {
	Statement         string `mapstructure:"statement" yaml:"statement" validate:"required"`
	WrongDayStatement string `mapstructure:"wrong_day_statement" yaml:"wrong_day_statement" validate:"required"`
	WrongDayError     string `mapstructure:"wrong_day_error" yaml:"wrong_day_error" validate:"required"`
	WrongDayHint      string `mapstructure:"wrong_day_hint" yaml:"wrong_day_hint"`
}
