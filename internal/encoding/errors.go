package encoding

import "errors"

// ErrUnknownLevel is returned when a value names no known encoding level.
var ErrUnknownLevel = errors.New("unknown encoding level")
