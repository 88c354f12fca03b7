// Package pathutil validates user-supplied storage paths.
//
// Custom collection-file paths come from environment variables, so they are
// treated as untrusted: resolution pins them inside the data directory and
// follows symlinks to their real targets before checking containment.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolve resolves userPath against baseDir and verifies the result stays
// inside baseDir after symlink resolution.
//
// Relative paths are joined with baseDir; absolute paths are accepted but
// still checked for containment. Empty paths, whitespace-only paths, and
// paths containing null bytes are rejected, as is any path that escapes
// baseDir (including via symlinks).
func Resolve(baseDir, userPath string) (string, error) {
	if strings.TrimSpace(userPath) == "" {
		return "", fmt.Errorf("path is empty or whitespace-only")
	}
	if strings.Contains(userPath, "\x00") {
		return "", fmt.Errorf("path contains null byte")
	}

	candidate := userPath
	if !filepath.IsAbs(userPath) {
		candidate = filepath.Join(baseDir, userPath)
	}
	candidate = filepath.Clean(candidate)

	resolved, err := resolveSymlinks(candidate)
	if err != nil {
		return "", err
	}

	baseResolved, err := filepath.EvalSymlinks(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}

	rel, err := filepath.Rel(baseResolved, resolved)
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes base directory: %s", userPath)
	}

	return resolved, nil
}

// resolveSymlinks resolves symlinks in path, tolerating components that do
// not exist yet. The target file may not have been created; in that case the
// deepest existing ancestor is resolved and the missing tail is rejoined.
func resolveSymlinks(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	current := filepath.Clean(path)
	var missing []string
	for {
		if _, err := os.Stat(current); err == nil {
			resolved, err := filepath.EvalSymlinks(current)
			if err != nil {
				return "", fmt.Errorf("failed to resolve existing ancestor: %w", err)
			}
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, missing[i])
			}
			return resolved, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing ancestor directory found for %s", path)
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}
