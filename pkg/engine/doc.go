// Package engine drives a run: it pulls files from a source, evaluates the
// condition and field sources against per-file caches, and feeds the tested
// and matched pipelines.
//
// A run moves through NotStarted → Initializing → Streaming → Finalizing →
// Cleanup → Done. Cancelling the context moves it to Cancelled; Cleanup still
// runs but Finalizing is skipped. RequestStop ends Streaming at the next file
// boundary and lets the run finish normally.
//
// Failures inside a plugin are reported through the progress error sink with
// the file they concern and never end the run. Only cancellation escapes Run.
package engine
