// Package config handles configuration management for sifter.
// Settings are layered: embedded defaults, then the user's config file,
// then SIFTER_ environment variables, then command-line overrides.
package config
