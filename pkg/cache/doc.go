// Package cache holds per-file, lazily loaded views of a file's content that
// several plugins can share while a single file is evaluated.
//
// The engine collects the cache kinds every condition and field source asks
// for, builds one Set per file, hands it to each evaluator and closes it once
// matching and field extraction are done. Nothing cached for one file is ever
// visible while another file is being evaluated.
package cache
