package writer

import "errors"

// ErrInvalidOptions is returned when resolved options violate writer constraints.
var ErrInvalidOptions = errors.New("invalid writer options")
