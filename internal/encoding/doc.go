// Package encoding defines the encoding levels understood by the Pixels
// writer.
package encoding
