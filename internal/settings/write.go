package settings

import (
	"fmt"
	"strconv"

	"github.com/eugenenazirov/pixels-conf/internal/encoding"
)

// SetLong stores value under the canonical key.
func (s Setting) SetLong(store Store, value int64) error {
	if store == nil {
		return ErrNilStore
	}
	return store.SetLong(s.key, value)
}

// SetString stores value under the canonical key.
func (s Setting) SetString(store Store, value string) error {
	if store == nil {
		return ErrNilStore
	}
	return store.SetString(s.key, value)
}

// SetBool stores value under the canonical key.
func (s Setting) SetBool(store Store, value bool) error {
	if store == nil {
		return ErrNilStore
	}
	return store.SetBoolean(s.key, value)
}

// SetDouble stores value under the canonical key.
func (s Setting) SetDouble(store Store, value float64) error {
	if store == nil {
		return ErrNilStore
	}
	return store.SetDouble(s.key, value)
}

// SetEncodingLevel stores the level name under the canonical key.
func (s Setting) SetEncodingLevel(store Store, value encoding.Level) error {
	if store == nil {
		return ErrNilStore
	}
	return store.SetString(s.key, value.String())
}

// Set parses raw according to the setting's kind and stores the typed value.
// Malformed input is rejected with a *ParseError and leaves the store
// untouched.
func (s Setting) Set(store Store, raw string) error {
	switch s.kind {
	case KindLong:
		v, err := parseLong(raw)
		if err != nil {
			return &ParseError{Key: s.key, Value: raw, Kind: s.kind, Err: err}
		}
		return s.SetLong(store, v)
	case KindString:
		return s.SetString(store, raw)
	case KindBoolean:
		v, _ := parseBool(raw)
		return s.SetBool(store, v)
	case KindDouble:
		v, err := parseDouble(raw)
		if err != nil {
			return &ParseError{Key: s.key, Value: raw, Kind: s.kind, Err: err}
		}
		return s.SetDouble(store, v)
	case KindEncodingLevel:
		v, err := encoding.ParseLevel(raw)
		if err != nil {
			return &ParseError{Key: s.key, Value: raw, Kind: s.kind, Err: err}
		}
		return s.SetEncodingLevel(store, v)
	default:
		return fmt.Errorf("%s: unsupported kind %s", s.key, s.kind)
	}
}

// Format renders a typed value the way it would be written into a store.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case encoding.Level:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
