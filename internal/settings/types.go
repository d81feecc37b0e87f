package settings

// Kind is the declared value type of a Setting.
type Kind int

const (
	// KindLong is a signed 64-bit integer parsed in base 10.
	KindLong Kind = iota + 1
	// KindString is returned verbatim.
	KindString
	// KindBoolean is true only for a case-insensitive "true".
	KindBoolean
	// KindDouble is a 64-bit float.
	KindDouble
	// KindEncodingLevel is one of EL0, EL1 or EL2.
	KindEncodingLevel
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindLong:
		return "long"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindDouble:
		return "double"
	case KindEncodingLevel:
		return "encoding-level"
	default:
		return "unknown"
	}
}

// Properties is a scoped override map, typically the properties of a table.
// A nil Properties is valid and behaves as empty.
type Properties map[string]string

// Store is the global configuration store. Implementations own their own
// serialisation of typed values.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	SetLong(key string, value int64) error
	SetString(key, value string) error
	SetBoolean(key string, value bool) error
	SetDouble(key string, value float64) error
}

// Setting describes one configuration key. Values are immutable; copies are
// cheap and safe to share.
type Setting struct {
	key         string
	legacyKey   string
	def         any
	description string
	kind        Kind
}

// Key returns the canonical key.
func (s Setting) Key() string { return s.key }

// LegacyKey returns the Hive-era alias, or "" when the setting has none.
func (s Setting) LegacyKey() string { return s.legacyKey }

// Description returns the human-readable documentation string.
func (s Setting) Description() string { return s.description }

// Kind returns the declared value type.
func (s Setting) Kind() Kind { return s.kind }

// Default returns the compiled-in default and whether one exists.
func (s Setting) Default() (any, bool) { return s.def, s.def != nil }
