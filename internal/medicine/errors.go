package medicine

import (
	"errors"
	"fmt"
)

// Sentinels matched by NotFoundError and DuplicateKeyError through errors.Is.
var (
	ErrNotFound     = errors.New("medicine not found")
	ErrDuplicateKey = errors.New("medicine already exists")
)

// ValidationError reports a field that is missing or malformed.
type ValidationError struct {
	// Field is the column name of the offending field.
	// Empty when the error is not tied to one field.
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid medicine: " + e.Message
	}
	return fmt.Sprintf("invalid medicine: %s: %s", e.Field, e.Message)
}

// DuplicateKeyError reports an insert or rename onto a name that is taken.
type DuplicateKeyError struct {
	Name string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("medicine %q already exists", e.Name)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// NotFoundError reports a lookup or update of a name that does not exist.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("medicine %q not found", e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// SchemaError reports that the table definition could not be applied.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("ensure schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failure of the storage engine itself.
// Op names the repository operation that failed ("create", "list", ...).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateKey returns true if err is or wraps a DuplicateKeyError.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

// IsValidation returns true if err is or wraps a ValidationError.
// Uses errors.As to handle wrapped errors.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorage returns true if err is or wraps a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// IsSchema returns true if err is or wraps a SchemaError.
func IsSchema(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
