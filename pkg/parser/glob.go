package parser

import (
	"fmt"
	"path/filepath"
	"sort"
)

// ExpandCaptures turns capture-file arguments (literal paths or glob
// patterns) into a sorted, deduplicated file list. An argument that
// matches nothing is kept verbatim so that opening it later reports a
// useful file-not-found error.
func ExpandCaptures(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid capture pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			add(arg)
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}

	sort.Strings(files)
	return files, nil
}
