package cli

// Command descriptions
const (
	MsgRootShort = "Find files by rule and feed them through processors"
	MsgRootLong  = `sifter walks a set of files, tests each against a condition tree, extracts
values from the ones it keeps and hands them to processing pipelines.

A run is described by a definition file (TOML or YAML). Start one with
'sifter init run.toml' and see 'sifter help definitions' for the format.`

	MsgRunShort = "Execute a run definition"
	MsgRunLong  = `Run loads a definition file, builds its source, condition, fields and
processor pipelines, and streams every file through them.

Press Ctrl-C once to stop after the current file and still flush the
pipelines; press it again to cancel immediately.`
	MsgRunExample = `  sifter run todo.toml
  sifter run --all --max 10 images.yaml`

	MsgPluginsShort = "List the available sources, conditions, fields, processors and caches"
	MsgInitShort    = "Write a starter definition file"
	MsgInitExample  = `  sifter init run.toml
  sifter init --format yaml run.yaml`
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages into a directory"
)

// Flag descriptions
const (
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig  = "Config file (default $XDG_CONFIG_HOME/sifter/config.toml)"
	MsgFlagColor   = "Color output: auto, always or never"
	MsgFlagMax     = "Stop after this many matches (overrides the definition)"
	MsgFlagAll     = "Print every tested file, not only matches"
	MsgFlagFormat  = "Definition format: toml or yaml (default from the file extension)"
	MsgFlagForce   = "Overwrite an existing file"
)

// Output messages
const (
	MsgInterrupt      = "Stopping after the current file; press Ctrl-C again to cancel."
	MsgRunCancelled   = "run cancelled"
	MsgFileCreated    = "Created %s\n"
	MsgFileExists     = "%s already exists; use --force to overwrite"
	MsgNoCommand      = "no command specified"
	MsgUnknownFormat  = "unknown format %q: use toml or yaml"
	MsgPluginsHeading = "# Plugins\n\n"
)
