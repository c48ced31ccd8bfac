// Package main provides the entry point for the coloringbook CLI.
//
// coloringbook turns source images into print-ready coloring pages and binds
// a pool of pages into a KDP interior PDF.
//
// Usage:
//
//	coloringbook process
//	coloringbook generate "friendly dinosaurs" --count 20
//	coloringbook export --count 40 --paper a4 --bleed 3mm
//
// See --help for all available options.
package main

import "go.uber.org/automaxprocs/maxprocs"

// main is the entry point for coloringbook.
func main() {
	// Error ignored: Set only fails on an invalid GOMAXPROCS variable, in
	// which case the runtime default applies.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	Execute()
}
