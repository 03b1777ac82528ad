// Package patternfinder locates directories and files holding user pattern
// definitions.
package patternfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EnvPatternsDir is the environment variable name for specifying the
// pattern directory.
const EnvPatternsDir = "GROKLINE_PATTERNS_DIR"

// Sentinel errors.
var (
	ErrPatternDirNotFound = errors.New("pattern directory not found")
	ErrNoPatternFiles     = errors.New("no pattern files found")
)

// Extensions lists the file extensions recognized as pattern files.
var Extensions = []string{".patterns", ".yaml", ".yml"}

// DefaultPatternDirs returns candidate pattern directories in priority
// order: the user config directory, then the system-wide one.
func DefaultPatternDirs() []string {
	var dirs []string
	if cfg, err := os.UserConfigDir(); err == nil && cfg != "" {
		dirs = append(dirs, filepath.Join(cfg, "grokline", "patterns"))
	}
	if os.PathSeparator == '/' {
		dirs = append(dirs, "/etc/grokline/patterns")
	}
	return dirs
}

// FindPatternDir returns the directory to load user patterns from.
//
// Priority:
//  1. explicit (if non-empty)
//  2. GROKLINE_PATTERNS_DIR environment variable
//  3. Auto-detect from DefaultPatternDirs()
//
// Returns ErrPatternDirNotFound if no valid directory is found.
// The returned path has symlinks resolved for consistency.
func FindPatternDir(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveAndValidatePatternDir(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: specified directory is invalid or contains no pattern files", ErrPatternDirNotFound)
	}

	if envDir := os.Getenv(EnvPatternsDir); envDir != "" {
		if resolved := resolveAndValidatePatternDir(envDir); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid directory", ErrPatternDirNotFound, EnvPatternsDir)
	}

	for _, dir := range DefaultPatternDirs() {
		if resolved := resolveAndValidatePatternDir(dir); resolved != "" {
			return resolved, nil
		}
	}

	return "", ErrPatternDirNotFound
}

// FindPatternFiles returns the regular pattern files directly inside dir,
// sorted by name so later files override earlier ones predictably.
//
// Returns ErrNoPatternFiles if there are none.
func FindPatternFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading pattern directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !isPatternFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		// Lstat so symlinks and special files are skipped.
		info, err := os.Lstat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, path)
	}

	if len(files) == 0 {
		return nil, ErrNoPatternFiles
	}
	sort.Strings(files)
	return files, nil
}

func isPatternFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// resolveAndValidatePatternDir resolves symlinks and validates the
// directory. Returns the resolved path if valid, empty string otherwise.
func resolveAndValidatePatternDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}

	if !isValidPatternDir(resolved) {
		return ""
	}
	return resolved
}

func isValidPatternDir(dir string) bool {
	files, err := FindPatternFiles(dir)
	return err == nil && len(files) > 0
}
