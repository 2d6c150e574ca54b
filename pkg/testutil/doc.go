// Package testutil provides shared helpers for sifter tests.
//
// Key components:
//   - Recorder: an ordered, goroutine-safe log of plugin calls
//   - MockCondition, MockField, MockProcessor, MockSource: Func-field mocks
//     that record their lifecycle into a Recorder
//   - RecordingProgress: captures every progress event of a run
//   - FileTree: declarative file layout written into an afero.Fs
package testutil
