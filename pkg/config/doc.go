// Package config defines the Polaris configuration model and its loading
// pipeline: YAML file parsing, default application, environment variable
// overrides (POLARIS_* prefix), and validation.
//
// Threshold values are read once at startup and treated as constants for
// the lifetime of the decision engine they are handed to. The file watcher
// in watcher.go emits change events so the serving layer can construct a
// fresh engine from a fresh Config; it never mutates a Config in place.
package config
