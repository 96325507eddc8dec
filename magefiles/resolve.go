//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Resolve builds the CLI and runs a full lookup over the built-in records.
func Resolve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "resolve")
}

// Records builds the CLI and prints the record list with query text.
func Records() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "records")
}
