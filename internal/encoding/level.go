package encoding

import (
	"fmt"
	"strconv"
	"strings"
)

// Level controls how aggressively the writer applies lightweight column
// encodings. It does not affect the block compression codec.
type Level int

const (
	// EL0 disables lightweight encoding.
	EL0 Level = iota
	// EL1 enables run-length encoding.
	EL1
	// EL2 enables run-length and dictionary encoding.
	EL2
)

var levelNames = [...]string{"EL0", "EL1", "EL2"}

// FromInt maps a numeric level onto its Level.
func FromInt(level int) (Level, error) {
	if level < int(EL0) || level > int(EL2) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownLevel, level)
	}
	return Level(level), nil
}

// ParseLevel accepts either the level name (case-insensitive) or its number.
func ParseLevel(raw string) (Level, error) {
	s := strings.TrimSpace(raw)
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, raw)
	}
	return FromInt(n)
}

// Int returns the numeric level.
func (l Level) Int() int {
	return int(l)
}

// AtLeast reports whether l is the same as or stronger than other.
func (l Level) AtLeast(other Level) bool {
	return l >= other
}

// String returns the level name, e.g. "EL2".
func (l Level) String() string {
	if l < EL0 || l > EL2 {
		return "Level(" + strconv.Itoa(int(l)) + ")"
	}
	return levelNames[l]
}

// MarshalText renders the level name so JSON and YAML output stay readable.
func (l Level) MarshalText() ([]byte, error) {
	if l < EL0 || l > EL2 {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText is the inverse of MarshalText and also accepts numbers.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
