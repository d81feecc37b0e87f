package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("malformed setting value")
	// ErrMissingDefault is returned when nothing overrides a setting that has no default.
	ErrMissingDefault = errors.New("setting has no value and no default")
	// ErrTypeMismatch is returned when a default cannot be converted to the requested type.
	ErrTypeMismatch = errors.New("setting default does not match requested type")
	// ErrUnknownSetting is returned by Lookup for keys outside the registry.
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrNilStore is returned by setters that were handed no store.
	ErrNilStore = errors.New("configuration store is nil")
)

// ParseError reports a raw value that could not be converted to the
// setting's type.
type ParseError struct {
	Key   string
	Value string
	Kind  Kind
	Err   error
}

// Error reports the key, the raw value and the expected kind.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s=%q as %s: %v", e.Key, e.Value, e.Kind, e.Err)
}

// Unwrap exposes both ErrParse and the conversion error.
func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}
