package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "auto"},
		Server: ServerConfig{Host: "0.0.0.0", Port: 8000, CORS: CORSConfig{AllowedOrigins: []string{"*"}}},
		Database: DatabaseConfig{
			Driver:          "sqlserver",
			Server:          "db",
			Name:            "ERP",
			Encrypt:         "no",
			QueryTimeout:    30 * time.Second,
			ConnectAttempts: 4,
		},
		Fix: FixConfig{
			Statement:         "set",
			WrongDayStatement: "update_wrong_login_day",
			WrongDayError:     "error",
		},
	}
}

func fields(t *testing.T, err error) []string {
	t.Helper()
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs), "error %v is not ValidationErrors", err)
	out := make([]string, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidate_Nil(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"host", func(c *Config) { c.Server.Host = "" }, "server.host"},
		{"empty origin", func(c *Config) { c.Server.CORS.AllowedOrigins = []string{""} }, "server.cors.allowed_origins[0]"},
		{"driver", func(c *Config) { c.Database.Driver = "oracle" }, "database.driver"},
		{"encrypt", func(c *Config) { c.Database.Encrypt = "maybe" }, "database.encrypt"},
		{"query timeout", func(c *Config) { c.Database.QueryTimeout = 0 }, "database.query_timeout"},
		{"connect attempts", func(c *Config) { c.Database.ConnectAttempts = 0 }, "database.connect_attempts"},
		{"fix statement", func(c *Config) { c.Fix.Statement = "" }, "fix.statement"},
		{"sqlserver server", func(c *Config) { c.Database.Server = " " }, "database.server"},
		{"sqlite path", func(c *Config) { c.Database.Driver = "sqlite" }, "database.path"},
		{"watch without dir", func(c *Config) { c.Statements.Watch = true }, "statements.watch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, fields(t, err), tt.field)
		})
	}
}

func TestValidate_DSNSkipsConnectionFields(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Server = ""
	cfg.Database.Name = ""
	cfg.Database.DSN = "sqlserver://u:p@db?database=ERP"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_CollectsAll(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	cfg.Server.Port = 0
	err := Validate(cfg)
	assert.ElementsMatch(t, []string{"log.level", "server.port"}, fields(t, err))
	assert.Contains(t, err.Error(), "must be one of")
}
