// Package config loads the runtime configuration of the pixelsconf tool from
// multiple sources (YAML files, environment variables, CLI flags) with
// precedence: CLI flags > YAML config > Environment variables > Defaults.
// It describes where the global store and table properties come from; the
// Pixels settings themselves live in package settings.
package config
