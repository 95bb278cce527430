package test

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// getProjectRoot returns the project root directory based on this test file's location.
func getProjectRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "."
	}
	return filepath.Dir(filepath.Dir(filename))
}

// walkGoFiles calls fn for every .go file of the module. Hidden, vendor
// and underscore directories are not part of the build and are skipped.
func walkGoFiles(t *testing.T, fn func(path string)) {
	t.Helper()
	err := filepath.Walk(getProjectRoot(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != getProjectRoot() && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".go") {
			fn(path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to walk directory: %v", err)
	}
}

// TestNoSkippedTests ensures no test files contain t.Skip() calls.
// Skipped tests hide failures - tests should either pass or fail, never skip.
func TestNoSkippedTests(t *testing.T) {
	forbiddenPatterns := []string{
		"t.Skip(",
		"t.SkipNow(",
		"testing.Short()",
	}

	var testFiles []string
	walkGoFiles(t, func(path string) {
		if strings.HasSuffix(path, "_test.go") && filepath.Base(path) != "quality_test.go" {
			testFiles = append(testFiles, path)
		}
	})

	var violations []string
	for _, testFile := range testFiles {
		f, err := os.Open(testFile)
		if err != nil {
			t.Fatalf("Failed to open %s: %v", testFile, err)
		}

		scanner := bufio.NewScanner(f)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()

			if strings.HasPrefix(strings.TrimSpace(line), "//") {
				continue
			}
			for _, pattern := range forbiddenPatterns {
				if strings.Contains(line, pattern) {
					violations = append(violations,
						fmt.Sprintf("%s:%d: contains forbidden pattern %q", testFile, lineNum, pattern))
				}
			}
		}
		_ = f.Close()

		if err := scanner.Err(); err != nil {
			t.Fatalf("Error scanning %s: %v", testFile, err)
		}
	}

	if len(violations) > 0 {
		t.Errorf("Found %d test skip violation(s):", len(violations))
		for _, v := range violations {
			t.Errorf("  %s", v)
		}
	}
}

// TestEveryPackageTested ensures each library package ships tests.
func TestEveryPackageTested(t *testing.T) {
	sources := make(map[string]bool)
	tested := make(map[string]bool)

	walkGoFiles(t, func(path string) {
		dir := filepath.Dir(path)
		rel, err := filepath.Rel(getProjectRoot(), dir)
		if err != nil {
			t.Fatalf("relative path for %s: %v", dir, err)
		}
		if !strings.HasPrefix(rel, "pkg"+string(filepath.Separator)) &&
			!strings.HasPrefix(rel, "internal"+string(filepath.Separator)) {
			return
		}
		if strings.HasSuffix(path, "_test.go") {
			tested[rel] = true
		} else {
			sources[rel] = true
		}
	})

	if len(sources) == 0 {
		t.Fatal("No packages found - something is wrong with package discovery")
	}

	for pkg := range sources {
		if !tested[pkg] {
			t.Errorf("package %s has no _test.go file", pkg)
		}
	}
}
