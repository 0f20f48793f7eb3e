// Package loader wraps go/packages to load Go packages with full
// type information for access scanning.
package loader

import (
	"fmt"
	"go/token"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode is the minimum set of flags needed to resolve every
// identifier of the loaded syntax to its object.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo |
	packages.NeedTypesSizes

// Options configures package loading.
type Options struct {
	// Tests includes the test variants of the matched packages.
	Tests bool

	// Dir is the directory the patterns are resolved in. Empty means
	// the current working directory.
	Dir string
}

// Result holds the loaded package along with convenience accessors.
type Result struct {
	// Pkg is the loaded package.
	Pkg *packages.Package

	// Fset is the shared file set for position information.
	Fset *token.FileSet
}

// Load loads a single Go package at the given import path or file
// pattern. It returns the loaded package result or an error if loading
// or type-checking fails.
func Load(pattern string) (*Result, error) {
	pkgs, err := LoadAll([]string{pattern}, Options{})
	if err != nil {
		return nil, err
	}
	return &Result{
		Pkg:  pkgs[0],
		Fset: pkgs[0].Fset,
	}, nil
}

// LoadAll loads every package matched by patterns. Any package-level
// error (syntax, type errors, missing packages) fails the whole load.
func LoadAll(patterns []string, opts Options) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode:  LoadMode,
		Tests: opts.Tests,
		Dir:   opts.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages %q: %w", patterns, err)
	}

	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found for patterns %q", patterns)
	}

	// Check for package-level errors (syntax, type errors, etc.).
	var errs []string
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e.Error())
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("packages %q have errors:\n  %s",
			patterns, strings.Join(errs, "\n  "))
	}

	return pkgs, nil
}
