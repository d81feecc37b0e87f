// Package settings is the registry of configuration keys understood by the
// Pixels writer and reader.
//
// Every Setting resolves its effective value from, in order, a scoped
// property map (usually table properties), the canonical key in the global
// store, the legacy Hive key in the global store, and finally the compiled-in
// default. Resolution is stateless and evaluated on every call.
package settings
