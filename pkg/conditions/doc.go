// Package conditions implements the match predicates a run definition can
// name. Conditions are three-valued: a file matches, does not match, or the
// condition cannot judge it (NotApplicable), for example a content search on
// a binary file.
//
// The compound conditions (all, any, not) evaluate every child, never
// short-circuiting, so every child observes every file. Concrete conditions
// register themselves in init() under the name used in definitions.
package conditions
