//go:build mage

// Package main contains Mage build targets for docbatch developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "docbatch"
)

// Default target when mage runs without arguments.
var Default = Build

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, "."); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs go vet.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Fixtures writes sample images and PDFs into testdata/fixtures.
func Fixtures() error {
	return sh.RunV("go", "run", "./e2e/gen_fixtures.go", filepath.Join("testdata", "fixtures"))
}

// E2E builds the binary and runs a few operations against fresh fixtures.
func E2E() error {
	mg.Deps(Build, Fixtures)
	bin := filepath.Join(binDir, binName)
	dir := filepath.Join("testdata", "fixtures")
	for _, op := range []string{"info", "crop-90", "merge-images", "merge-pdf", "stitch-pdf", "colors", "duplicates"} {
		if err := sh.RunV(bin, "run", op, "--no-progress", dir); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// Clean removes build output and generated fixtures.
func Clean() error {
	for _, dir := range []string{binDir, filepath.Join("testdata", "fixtures")} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}
