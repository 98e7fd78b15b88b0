package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors collects multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance reports fields by their config key rather than the Go
// field name.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		validateInst = v
	})
	return validateInst
}

// Validator validates configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{errors: make(ValidationErrors, 0)}
}

// Validate checks struct tags first, then the rules that span fields.
func (v *Validator) Validate(cfg *Config) error {
	if cfg == nil {
		return ValidationErrors{{Field: "config", Message: "configuration is nil"}}
	}

	if err := validatorInstance().Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating config: %w", err)
		}
		for _, fe := range fieldErrs {
			v.addError(fieldKey(fe), fe.Value(), tagMessage(fe))
		}
	}

	v.validateDatabase(&cfg.Database)
	v.validateStatements(&cfg.Statements)

	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

func (v *Validator) addError(field string, value interface{}, message string) {
	v.errors = append(v.errors, ValidationError{Field: field, Value: value, Message: message})
}

func (v *Validator) validateDatabase(db *DatabaseConfig) {
	if db.DSN != "" {
		return
	}
	switch db.Driver {
	case "sqlserver":
		if strings.TrimSpace(db.Server) == "" {
			v.addError("database.server", db.Server, "required for sqlserver unless database.dsn is set")
		}
		if strings.TrimSpace(db.Name) == "" {
			v.addError("database.name", db.Name, "required for sqlserver unless database.dsn is set")
		}
	case "sqlite":
		if strings.TrimSpace(db.Path) == "" {
			v.addError("database.path", db.Path, "required for sqlite unless database.dsn is set")
		}
	}
}

func (v *Validator) validateStatements(st *StatementsConfig) {
	if st.Watch && strings.TrimSpace(st.Dir) == "" {
		v.addError("statements.watch", st.Watch, "requires statements.dir")
	}
}

// fieldKey turns "Config.database.port" into "database.port".
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// Validate is a convenience wrapper around Validator.
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
