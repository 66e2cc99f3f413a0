//go:build mage

// Package main contains Mage build targets for summary-engine developer tooling.
// See docs/ARCHITECTURE.md § Developer Tooling.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"articles",
	"summaries",
	"catalog",
	".secrets",
}

// Init creates the project directory structure for the pipeline.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "summary-engine"
	cmdPkg  = "./cmd/summary-engine"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	cmd := exec.Command("go", "build", "-o", out, cmdPkg)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// pkgLines holds non-blank Go line counts for one package directory.
type pkgLines struct {
	prod int
	test int
}

// Stats prints per-package Go line counts (production and test) plus the
// documentation word count.
func Stats() error {
	perPkg, err := collectPackageLines(".")
	if err != nil {
		return err
	}

	pkgs := make([]string, 0, len(perPkg))
	for p := range perPkg {
		pkgs = append(pkgs, p)
	}
	sort.Strings(pkgs)

	var totalProd, totalTest int
	fmt.Printf("%-30s  %10s  %10s\n", "package", "production", "tests")
	for _, p := range pkgs {
		l := perPkg[p]
		fmt.Printf("%-30s  %10d  %10d\n", p, l.prod, l.test)
		totalProd += l.prod
		totalTest += l.test
	}
	fmt.Printf("%-30s  %10d  %10d\n", "total", totalProd, totalTest)

	docWords, err := countDocWords("docs")
	if err != nil {
		return err
	}
	fmt.Printf("\nWords (documentation): %d\n", docWords)
	return nil
}

// collectPackageLines walks the module tree and tallies non-blank lines
// of Go source per package directory, splitting production from _test.go
// files. Hidden directories, bin/, and working directories are skipped.
func collectPackageLines(root string) (map[string]pkgLines, error) {
	perPkg := make(map[string]pkgLines)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == binDir) {
				return filepath.SkipDir
			}
			for _, wd := range projectDirs {
				if path == wd {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		lines, err := countSourceLines(path)
		if err != nil {
			return err
		}

		pkg := filepath.ToSlash(filepath.Dir(path))
		l := perPkg[pkg]
		if strings.HasSuffix(path, "_test.go") {
			l.test += lines
		} else {
			l.prod += lines
		}
		perPkg[pkg] = l
		return nil
	})
	return perPkg, err
}

// countSourceLines counts the non-blank lines in one file.
func countSourceLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n := 0
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n, nil
}

// countDocWords counts whitespace-separated words across Markdown and
// YAML files under root. A missing docs directory counts as zero.
func countDocWords(root string) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".md", ".yaml", ".yml":
		default:
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		total += len(strings.Fields(string(data)))
		return nil
	})
	return total, err
}
