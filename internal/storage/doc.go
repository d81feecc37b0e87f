// Package storage provides the global configuration stores consulted by the
// settings registry and loaders for scoped table properties.
package storage
