package storage

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/eugenenazirov/pixels-conf/internal/settings"
)

// LoadProperties reads a key=value properties file (for example exported
// table properties) into a scoped override map. An empty path yields nil.
func LoadProperties(path string) (settings.Properties, error) {
	if path == "" {
		return nil, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read properties %s: %w", path, err)
	}
	return settings.Properties(values), nil
}

// MergeProperties layers overrides on top of base. Neither input is modified.
func MergeProperties(base settings.Properties, overrides map[string]string) settings.Properties {
	if len(base) == 0 && len(overrides) == 0 {
		return nil
	}

	out := make(settings.Properties, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
