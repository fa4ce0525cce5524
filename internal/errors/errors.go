// Package errors defines the error taxonomy used across record.
//
// Every failure that leaves a package is one of five types:
//   - ConfigError: a required configuration value is missing or invalid
//   - SchemaError: the storage file has an unexpected schema
//   - ValidationError: user input was rejected before any mutation
//   - NoSessionError: there is no open session to close
//   - StorageError: an underlying I/O or query failure
//
// Use errors.As to branch on the type and errors.Is against the sentinels.
package errors

import (
	"errors"
	"fmt"
)

// Re-exported so callers only need this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

var (
	ErrNoSession      = New("no task has begun")
	ErrUnknownTask    = New("unknown task keyword")
	ErrMissingConfig  = New("required configuration value is not set")
	ErrSchemaExists   = New("records table already exists")
	ErrSchemaMismatch = New("records table does not match the expected schema")
)

// RecordError is implemented by every error type in this package.
type RecordError interface {
	error
	Unwrap() error
	// IsUserFacing reports whether the message can be shown to the user as is.
	IsUserFacing() bool
}

type baseError struct {
	message    string
	cause      error
	userFacing bool
}

func (e *baseError) Unwrap() error      { return e.cause }
func (e *baseError) IsUserFacing() bool { return e.userFacing }

func (e *baseError) format(prefix string) string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// ConfigError reports a missing or unusable configuration value.
type ConfigError struct {
	baseError
	Key string
}

// NewConfigError creates a ConfigError for the given key.
func NewConfigError(key, message string, cause error) *ConfigError {
	return &ConfigError{
		baseError: baseError{message: message, cause: cause, userFacing: true},
		Key:       key,
	}
}

func (e *ConfigError) Error() string {
	return e.format(fmt.Sprintf("config error [%s]", e.Key))
}

// SchemaError reports that the storage schema is missing, already present
// where it should not be, or malformed.
type SchemaError struct {
	baseError
	Path string
}

// NewSchemaError creates a SchemaError for the storage file at path.
func NewSchemaError(path, message string, cause error) *SchemaError {
	return &SchemaError{
		baseError: baseError{message: message, cause: cause, userFacing: true},
		Path:      path,
	}
}

func (e *SchemaError) Error() string {
	return e.format(fmt.Sprintf("schema error [%s]", e.Path))
}

// ValidationError reports rejected user input.
type ValidationError struct {
	baseError
	Field string
	Value string
}

// NewValidationError creates a ValidationError for a field value.
func NewValidationError(field, value, message string, cause error) *ValidationError {
	return &ValidationError{
		baseError: baseError{message: message, cause: cause, userFacing: true},
		Field:     field,
		Value:     value,
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.message)
}

// NoSessionError is returned when closing is requested but no session is open.
// A store that has never seen a start and one whose latest session is already
// closed produce the same error.
type NoSessionError struct {
	baseError
}

// NewNoSessionError creates a NoSessionError wrapping ErrNoSession.
func NewNoSessionError() *NoSessionError {
	return &NoSessionError{
		baseError: baseError{message: ErrNoSession.Error(), cause: ErrNoSession, userFacing: true},
	}
}

func (e *NoSessionError) Error() string { return e.message }

// StorageError wraps an I/O or query failure together with the operation that
// was attempted.
type StorageError struct {
	baseError
	Op string
}

// NewStorageError creates a StorageError for op.
func NewStorageError(op string, cause error) *StorageError {
	return &StorageError{
		baseError: baseError{message: op + " failed", cause: cause},
		Op:        op,
	}
}

func (e *StorageError) Error() string { return e.format("storage error") }

// IsUserFacing reports whether err, or anything it wraps, is safe to print to
// the user without further context.
func IsUserFacing(err error) bool {
	var re RecordError
	if As(err, &re) {
		return re.IsUserFacing()
	}
	return false
}

// IsNoSession reports whether err is a NoSessionError.
func IsNoSession(err error) bool {
	var ns *NoSessionError
	return As(err, &ns)
}
