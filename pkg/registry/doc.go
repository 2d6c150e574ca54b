// Package registry provides a generic, thread-safe registry keyed by stable
// string names. Plugin packages populate registries from init() functions;
// consumers look items up by the name found in a run definition.
package registry
