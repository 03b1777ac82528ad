package pattern

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/grokline/grokline-go/internal/resolver"
	"github.com/grokline/grokline-go/internal/safefile"
)

// sanitizePathError removes the path from os.PathError so error messages
// never expose file system paths.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

const (
	// MaxPatternFileSize is the maximum allowed size for a pattern file (1MB).
	MaxPatternFileSize = 1 * 1024 * 1024

	// MaxPatternLength is the maximum length of a single definition.
	MaxPatternLength = 4096

	// MaxPatternCount is the maximum number of definitions in one file.
	MaxPatternCount = 5000

	// SupportedVersion is the currently supported YAML format version.
	SupportedVersion = 1
)

// Load reads a pattern file. Files ending in .yaml or .yml are parsed as
// YAML; anything else uses the definition format, with the set named after
// the file.
//
// Only regular files are accepted and the size limit is enforced while
// reading, so a FIFO or a growing file cannot stall the loader.
func Load(path string) (*PatternFile, error) {
	data, err := safefile.ReadLimited(path, MaxPatternFileSize)
	if err != nil {
		if errors.Is(err, safefile.ErrNotRegularFile) {
			return nil, errors.New("pattern file must be a regular file (not FIFO, device, or special file)")
		}
		if errors.Is(err, safefile.ErrTooLarge) {
			return nil, fmt.Errorf("pattern file too large (max %d bytes)", MaxPatternFileSize)
		}
		return nil, fmt.Errorf("failed to read pattern file: %w", sanitizePathError(err))
	}
	if len(data) == 0 {
		return nil, errors.New("pattern file is empty")
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		pf, err := LoadBytes(data)
		if err != nil {
			return nil, err
		}
		if pf.Set == "" {
			pf.Set = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return pf, nil
	default:
		return ParseDefinitions(bytes.NewReader(data), strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
}

// LoadBytes parses a YAML pattern file from a byte slice.
func LoadBytes(data []byte) (*PatternFile, error) {
	if len(data) == 0 {
		return nil, errors.New("pattern file is empty")
	}
	if len(data) > MaxPatternFileSize {
		return nil, fmt.Errorf("pattern file too large: %d bytes (max %d)", len(data), MaxPatternFileSize)
	}

	var pf PatternFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := pf.Validate(); err != nil {
		return nil, err
	}

	return &pf, nil
}

// ParseDefinitions reads the definition format: one "NAME regex" pair per
// line, '#' comments and blank lines ignored. The result is validated like
// a YAML file.
func ParseDefinitions(r io.Reader, set string) (*PatternFile, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPatternFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", sanitizePathError(err))
	}
	if len(data) > MaxPatternFileSize {
		return nil, fmt.Errorf("pattern file too large (max %d bytes)", MaxPatternFileSize)
	}

	pf := &PatternFile{Version: SupportedVersion, Set: set}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), MaxPatternFileSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		// Only leading whitespace is insignificant: a regex may end in a
		// literal space.
		line := strings.TrimLeft(strings.TrimRight(sc.Text(), "\r"), " \t")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, regex, found := strings.Cut(line, " ")
		if tab := strings.IndexByte(name, '\t'); tab >= 0 {
			name, regex, found = line[:tab], line[tab+1:], true
		}
		regex = strings.TrimLeft(regex, " \t")
		if !found || strings.TrimSpace(regex) == "" {
			return nil, &PatternError{
				Index:   len(pf.Patterns),
				Line:    lineNo,
				Name:    name,
				Field:   "regex",
				Message: "definition has no regex",
			}
		}

		pf.Patterns = append(pf.Patterns, Pattern{Name: name, Regex: regex})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read definitions: %w", err)
	}

	if err := pf.Validate(); err != nil {
		return nil, err
	}
	return pf, nil
}

// Validate performs schema-level validation. It checks the version, that
// at least one definition exists, the count and length limits, that names
// are valid pattern names, and that names are unique.
//
// Templates are not resolved or compiled here: a definition may reference a
// pattern from another file that is registered later.
func (pf *PatternFile) Validate() error {
	if pf.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", pf.Version, SupportedVersion),
		}
	}

	if len(pf.Patterns) == 0 {
		return &ValidationError{
			Field:   "patterns",
			Message: "at least one pattern is required",
		}
	}

	if len(pf.Patterns) > MaxPatternCount {
		return &ValidationError{
			Field:   "patterns",
			Message: fmt.Sprintf("too many patterns (%d), maximum allowed is %d", len(pf.Patterns), MaxPatternCount),
		}
	}

	seen := make(map[string]int, len(pf.Patterns))
	for i, p := range pf.Patterns {
		if p.Name == "" {
			return &PatternError{Index: i, Field: "name", Message: "name is required"}
		}
		if !resolver.IsName(p.Name) {
			return &PatternError{
				Index:   i,
				Field:   "name",
				Message: fmt.Sprintf("invalid name %q (use letters, digits and '_')", p.Name),
			}
		}
		if p.Regex == "" {
			return &PatternError{Index: i, Name: p.Name, Field: "regex", Message: "regex is required"}
		}

		if prev, exists := seen[p.Name]; exists {
			return &PatternError{
				Index:   i,
				Name:    p.Name,
				Field:   "name",
				Message: fmt.Sprintf("duplicate name (previously defined at pattern[%d])", prev),
			}
		}
		seen[p.Name] = i

		if len(p.Regex) > MaxPatternLength {
			return &PatternError{
				Index:   i,
				Name:    p.Name,
				Field:   "regex",
				Message: fmt.Sprintf("pattern too long: %d bytes (max %d)", len(p.Regex), MaxPatternLength),
			}
		}
	}

	return nil
}
