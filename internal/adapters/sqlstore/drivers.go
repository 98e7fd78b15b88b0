package sqlstore

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	// Database drivers.
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/hugo-lorenzo-mato/docfix/internal/core"
)

// Supported database/sql driver names.
const (
	DriverSQLServer = "sqlserver"
	DriverSQLite    = "sqlite"
)

// Connection describes how to reach the database.
type Connection struct {
	Driver string
	// DSN, when set, is used as is and the fields below are ignored.
	DSN string

	// SQL Server. Server may name an instance as host\instance.
	Server                 string
	Port                   int
	Database               string
	User                   string
	Password               string
	Encrypt                string
	TrustServerCertificate bool
	AppName                string

	// SQLite.
	Path string
}

// DataSourceName builds the driver-specific connection string.
func (c Connection) DataSourceName() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	switch c.Driver {
	case DriverSQLServer:
		return c.sqlServerDSN()
	case DriverSQLite:
		return c.sqliteDSN()
	default:
		return "", core.ErrValidation(core.CodeUnsupportedDriver, fmt.Sprintf("unsupported driver %q", c.Driver))
	}
}

func (c Connection) sqlServerDSN() (string, error) {
	if c.Server == "" {
		return "", core.ErrConfig("database.server is required for sqlserver")
	}

	host, instance, _ := strings.Cut(c.Server, `\`)
	if c.Port > 0 {
		host = net.JoinHostPort(host, strconv.Itoa(c.Port))
	}

	q := url.Values{}
	if c.Database != "" {
		q.Set("database", c.Database)
	}
	if c.Encrypt != "" {
		q.Set("encrypt", c.Encrypt)
	}
	if c.TrustServerCertificate {
		q.Set("TrustServerCertificate", "true")
	}
	if c.AppName != "" {
		q.Set("app name", c.AppName)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		Host:     host,
		Path:     instance,
		RawQuery: q.Encode(),
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String(), nil
}

func (c Connection) sqliteDSN() (string, error) {
	if c.Path == "" {
		return "", core.ErrConfig("database.path is required for sqlite")
	}
	return c.Path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", nil
}

// Target describes the connection for logs without credentials.
func (c Connection) Target() string {
	switch {
	case c.DSN != "":
		return c.Driver
	case c.Driver == DriverSQLite:
		return c.Driver + ":" + c.Path
	default:
		return c.Driver + "://" + c.Server + "/" + c.Database
	}
}
