// Package definition loads run definitions: TOML or YAML documents naming
// the file source, condition tree, field sources and both processor
// pipelines of a run. Documents are checked against an embedded JSON schema
// and a version constraint, then built into an engine.Config through the
// plugin registries.
package definition
