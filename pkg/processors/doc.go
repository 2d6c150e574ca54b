// Package processors implements the actions a pipeline runs on tested or
// matched files: copying, archiving, exporting rows, uploading and sending
// notifications, plus the helpers concrete processors are built from.
//
// Base supplies no-op lifecycle and aggregation. EachFile adapts a function
// that handles one file to the pipeline contract, running it once per
// generated file when a stage chains on earlier output. Multi runs several
// processors as one, never stopping at the first failure.
package processors
