// Package report renders a run's progress events for a terminal.
//
// A Printer turns the engine's sinks into one line per reported file, keeps
// a bounded buffer of errors and closes the run with a summary box. Styling
// is applied only when the output is a color-capable terminal or the user
// forces it.
package report
