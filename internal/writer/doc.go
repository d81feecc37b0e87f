// Package writer assembles the typed options a Pixels file writer needs
// from the settings registry.
package writer
