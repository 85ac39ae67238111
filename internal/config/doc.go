// Package config loads vinparser CLI settings.
//
// Settings come from, in increasing priority: built-in defaults, a
// config.cue file validated against an embedded CUE schema, and
// VINPARSER_* environment variables. Command-line flags are applied on
// top by the CLI itself.
package config
