// Package fields implements field sources: extractors that report values for
// every tested file whether or not it matched. A field that does not apply to
// a file (a line count for a binary file, say) yields no values rather than
// an error.
package fields
