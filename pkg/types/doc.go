// Package types defines the contracts shared by the engine and its plugins:
// match and processing results, the Condition, FieldSource, Processor and
// FileSource interfaces, the per-run RunContext and the Progress sinks.
package types
