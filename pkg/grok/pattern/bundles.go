package pattern

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed bundles/*.patterns
var bundleFS embed.FS

const bundleExt = ".patterns"

// DefaultBundle is the base catalog every other bundle builds on.
const DefaultBundle = "grok-patterns"

// Bundles returns the names of the embedded catalogs, base catalog first
// and the rest in alphabetical order.
func Bundles() []string {
	entries, err := fs.ReadDir(bundleFS, "bundles")
	if err != nil {
		// The directory is compiled into the binary.
		panic(err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), bundleExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), bundleExt))
	}
	sort.Slice(names, func(i, j int) bool {
		if (names[i] == DefaultBundle) != (names[j] == DefaultBundle) {
			return names[i] == DefaultBundle
		}
		return names[i] < names[j]
	})
	return names
}

// UnknownBundleError is returned by Bundle for a name that is not embedded.
type UnknownBundleError struct {
	Name string
}

func (e *UnknownBundleError) Error() string {
	return fmt.Sprintf("unknown pattern bundle %q (available: %s)", e.Name, strings.Join(Bundles(), ", "))
}

// Bundle parses the embedded catalog called name. Each call returns a fresh
// PatternFile the caller may modify.
func Bundle(name string) (*PatternFile, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, &UnknownBundleError{Name: name}
	}

	f, err := bundleFS.Open(path.Join("bundles", name+bundleExt))
	if err != nil {
		return nil, &UnknownBundleError{Name: name}
	}
	defer f.Close()

	pf, err := ParseDefinitions(f, name)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", name, err)
	}
	return pf, nil
}
