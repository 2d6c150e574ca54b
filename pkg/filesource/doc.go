// Package filesource provides the file sources a run can enumerate:
// "directory" walks a tree and "list" yields a fixed set of paths.
package filesource
