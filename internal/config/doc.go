// Package config provides configuration structures and utilities for
// coloringbook. It defines the page transform parameters, book assembly
// defaults, generation and cover settings, the on-disk layout of a project,
// and the optional .coloringbook YAML file that overrides the defaults.
package config
