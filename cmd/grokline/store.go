package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/grokline/grokline-go/internal/patternfinder"
	"github.com/grokline/grokline-go/pkg/grok"
	"github.com/grokline/grokline-go/pkg/grok/pattern"
)

type storeConfig struct {
	Sets         []string // bundled sets; empty means all
	PatternFiles []string
	PatternsDir  string
}

// buildStore registers, in order, the bundled sets, the files of the
// patterns directory and the explicit pattern files. Later definitions
// replace earlier ones with the same name.
func buildStore(cfg storeConfig, logger *slog.Logger) (*grok.Store, error) {
	store := grok.NewStore(grok.WithStoreLogger(logger))

	names := cfg.Sets
	if len(names) == 0 {
		names = pattern.Bundles()
	} else if !contains(names, pattern.DefaultBundle) {
		names = append([]string{pattern.DefaultBundle}, names...)
	}
	for _, name := range names {
		if err := store.RegisterSet(name); err != nil {
			return nil, err
		}
	}

	files, err := patternDirFiles(cfg.PatternsDir)
	if err != nil {
		return nil, err
	}
	files = append(files, cfg.PatternFiles...)

	for i, path := range files {
		pf, err := pattern.Load(path)
		if err != nil {
			// Error from pattern package is already sanitized (no path)
			return nil, fmt.Errorf("pattern file %d: %w", i+1, err)
		}
		if err := store.RegisterFile(pf); err != nil {
			return nil, fmt.Errorf("pattern file %d: %w", i+1, err)
		}
		logger.Debug("loaded pattern file", "path", path, "set", pf.Set, "patterns", len(pf.Patterns))
	}

	return store, nil
}

// patternDirFiles returns the files of the patterns directory. A missing
// directory is only an error when one was asked for explicitly or through
// the environment.
func patternDirFiles(explicit string) ([]string, error) {
	dir, err := patternfinder.FindPatternDir(explicit)
	if err != nil {
		if errors.Is(err, patternfinder.ErrPatternDirNotFound) &&
			explicit == "" && os.Getenv(patternfinder.EnvPatternsDir) == "" {
			return nil, nil
		}
		return nil, err
	}
	return patternfinder.FindPatternFiles(dir)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
