package config

// DefaultConfigYAML is written by `docfix init`. Keys left out fall back to
// the loader defaults.
const DefaultConfigYAML = `# docfix configuration
#
# Every key can be overridden with an environment variable prefixed with
# DOCFIX_, e.g. DOCFIX_DATABASE_SERVER. The connection settings also honor
# SQL_SERVER, UID, SQL_PWD, DATABASE, ENCRYPT and TSC.

log:
  level: info
  # auto, text or json
  format: auto
  # file: /var/log/docfix.log

server:
  host: 0.0.0.0
  port: 8000
  read_timeout: 15s
  write_timeout: 60s
  shutdown_timeout: 10s
  cors:
    enabled: true
    allowed_origins: ["*"]

database:
  # sqlserver or sqlite
  driver: sqlserver
  server: ""
  name: ""
  user: ""
  # Prefer DOCFIX_DATABASE_PASSWORD or SQL_PWD over storing it here.
  password: ""
  encrypt: "no"
  trust_server_certificate: "no"
  # path: ./erp.db   # sqlite only
  query_timeout: 30s
  max_open_conns: 4
  connect_attempts: 4
  connect_backoff: 2s

statements:
  # Directory with <name>.sql files overriding the built-in statements.
  dir: ""
  # Reload changed statement files without restarting.
  watch: false

fix:
  statement: set
  wrong_day_statement: update_wrong_login_day
  wrong_day_error: "Aade Validation Error: IssueDate is invalid, it must be equal with current date"
  wrong_day_hint: "να γίνει ενημέρωση offline συναλλαγών"
`
