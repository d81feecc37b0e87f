package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eugenenazirov/pixels-conf/internal/encoding"
)

// Source names the layer a resolved value came from.
type Source int

const (
	// SourceAbsent means no layer supplied a value and there is no default.
	SourceAbsent Source = iota
	// SourceScoped means the scoped property map supplied the value.
	SourceScoped
	// SourcePrimary means the store held the canonical key.
	SourcePrimary
	// SourceLegacy means the store held only the legacy key.
	SourceLegacy
	// SourceDefault means the compiled-in default applies.
	SourceDefault
)

// String returns the lowercase layer name.
func (s Source) String() string {
	switch s {
	case SourceScoped:
		return "scoped"
	case SourcePrimary:
		return "primary"
	case SourceLegacy:
		return "legacy"
	case SourceDefault:
		return "default"
	default:
		return "absent"
	}
}

// Resolution is the outcome of a raw lookup. Raw and Key are empty unless
// Source is scoped, primary or legacy.
type Resolution struct {
	Source Source
	Key    string
	Raw    string
}

// Resolve walks the lookup layers and reports where the value was found.
// Empty strings count as unset.
func (s Setting) Resolve(props Properties, store Store) Resolution {
	if v := props[s.key]; v != "" {
		return Resolution{Source: SourceScoped, Key: s.key, Raw: v}
	}
	if store != nil {
		if v, ok := store.Get(s.key); ok && v != "" {
			return Resolution{Source: SourcePrimary, Key: s.key, Raw: v}
		}
		if s.legacyKey != "" {
			if v, ok := store.Get(s.legacyKey); ok && v != "" {
				return Resolution{Source: SourceLegacy, Key: s.legacyKey, Raw: v}
			}
		}
	}
	if s.def != nil {
		return Resolution{Source: SourceDefault}
	}
	return Resolution{}
}

// Raw returns the first non-empty override, ignoring the default.
func (s Setting) Raw(props Properties, store Store) (string, bool) {
	r := s.Resolve(props, store)
	switch r.Source {
	case SourceScoped, SourcePrimary, SourceLegacy:
		return r.Raw, true
	default:
		return "", false
	}
}

// Long resolves the setting as a signed 64-bit integer. Pass nil props to
// consult the store only.
func (s Setting) Long(props Properties, store Store) (int64, error) {
	return get(s, props, store, KindLong, parseLong, longDefault)
}

// StringValue resolves the setting verbatim. Settings without a default
// return ErrMissingDefault when nothing overrides them.
func (s Setting) StringValue(props Properties, store Store) (string, error) {
	return get(s, props, store, KindString, parseString, stringDefault)
}

// Bool resolves the setting as a boolean. Only a case-insensitive "true" is
// true; any other override is false.
func (s Setting) Bool(props Properties, store Store) (bool, error) {
	return get(s, props, store, KindBoolean, parseBool, boolDefault)
}

// Double resolves the setting as a float64.
func (s Setting) Double(props Properties, store Store) (float64, error) {
	return get(s, props, store, KindDouble, parseDouble, doubleDefault)
}

// EncodingLevel resolves the setting as an encoding level.
func (s Setting) EncodingLevel(props Properties, store Store) (encoding.Level, error) {
	return get(s, props, store, KindEncodingLevel, encoding.ParseLevel, levelDefault)
}

// Value resolves the setting using its declared kind.
func (s Setting) Value(props Properties, store Store) (any, error) {
	switch s.kind {
	case KindLong:
		return s.Long(props, store)
	case KindString:
		return s.StringValue(props, store)
	case KindBoolean:
		return s.Bool(props, store)
	case KindDouble:
		return s.Double(props, store)
	case KindEncodingLevel:
		return s.EncodingLevel(props, store)
	default:
		return nil, fmt.Errorf("%s: unsupported kind %s", s.key, s.kind)
	}
}

func get[T any](
	s Setting,
	props Properties,
	store Store,
	kind Kind,
	parse func(string) (T, error),
	fromDefault func(any) (T, bool),
) (T, error) {
	var zero T
	if raw, ok := s.Raw(props, store); ok {
		v, err := parse(raw)
		if err != nil {
			return zero, &ParseError{Key: s.key, Value: raw, Kind: kind, Err: err}
		}
		return v, nil
	}
	if s.def == nil {
		return zero, fmt.Errorf("%s: %w", s.key, ErrMissingDefault)
	}
	v, ok := fromDefault(s.def)
	if !ok {
		return zero, fmt.Errorf("%s: default %v as %s: %w", s.key, s.def, kind, ErrTypeMismatch)
	}
	return v, nil
}

func parseLong(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

func parseString(raw string) (string, error) {
	return raw, nil
}

func parseBool(raw string) (bool, error) {
	return strings.EqualFold(raw, "true"), nil
}

func parseDouble(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

func longDefault(def any) (int64, bool) {
	switch v := def.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func doubleDefault(def any) (float64, bool) {
	switch v := def.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func stringDefault(def any) (string, bool) {
	v, ok := def.(string)
	return v, ok
}

func boolDefault(def any) (bool, bool) {
	v, ok := def.(bool)
	return v, ok
}

func levelDefault(def any) (encoding.Level, bool) {
	v, ok := def.(encoding.Level)
	return v, ok
}
