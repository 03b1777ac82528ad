package grok

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/grokline/grokline-go/internal/resolver"
	"github.com/grokline/grokline-go/pkg/grok/pattern"
)

// Definition is a registered pattern.
type Definition struct {
	Name     string
	Template string
	Set      string // catalog or file the definition came from, may be empty
}

// Store is a registry of named pattern definitions. It is safe for
// concurrent use; Compile works on a snapshot, so registering while
// compiling never produces a half-updated expression.
//
// Definitions may be registered in any order. References are only resolved
// when an expression is compiled.
type Store struct {
	mu     sync.RWMutex
	defs   map[string]Definition
	logger *slog.Logger
}

// NewStore returns an empty store.
func NewStore(opts ...StoreOption) *Store {
	cfg := applyStoreOptions(opts)
	return &Store{
		defs:   make(map[string]Definition),
		logger: cfg.logger,
	}
}

// NewDefaultStore returns a store with every bundled catalog registered.
func NewDefaultStore(opts ...StoreOption) (*Store, error) {
	s := NewStore(opts...)
	for _, name := range pattern.Bundles() {
		if err := s.RegisterSet(name); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds or replaces the definition called name.
func (s *Store) Register(name, template, set string) error {
	if !resolver.IsName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	s.mu.Lock()
	_, replaced := s.defs[name]
	s.defs[name] = Definition{Name: name, Template: template, Set: set}
	s.mu.Unlock()

	s.logger.Debug("pattern registered", "name", name, "set", set, "replaced", replaced)
	return nil
}

// RegisterMap registers every name -> template pair in defs. Nothing is
// registered if any name is invalid.
func (s *Store) RegisterMap(set string, defs map[string]string) error {
	batch := make([]Definition, 0, len(defs))
	for name, template := range defs {
		if !resolver.IsName(name) {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		batch = append(batch, Definition{Name: name, Template: template, Set: set})
	}
	s.insert(set, batch)
	return nil
}

// RegisterFile registers the definitions of a loaded pattern file after
// validating it.
func (s *Store) RegisterFile(pf *pattern.PatternFile) error {
	if pf == nil {
		return errors.New("nil pattern file")
	}
	if err := pf.Validate(); err != nil {
		return err
	}

	batch := make([]Definition, 0, len(pf.Patterns))
	for _, p := range pf.Patterns {
		batch = append(batch, Definition{Name: p.Name, Template: p.Regex, Set: pf.Set})
	}
	s.insert(pf.Set, batch)
	return nil
}

// RegisterSet registers a bundled catalog by name (see pattern.Bundles).
func (s *Store) RegisterSet(name string) error {
	pf, err := pattern.Bundle(name)
	if err != nil {
		var unk *pattern.UnknownBundleError
		if errors.As(err, &unk) {
			return fmt.Errorf("%w: %q", ErrUnknownSet, name)
		}
		return err
	}
	return s.RegisterFile(pf)
}

// insert adds a whole batch under one write lock so readers never observe a
// partially registered set.
func (s *Store) insert(set string, batch []Definition) {
	s.mu.Lock()
	for _, d := range batch {
		s.defs[d.Name] = d
	}
	total := len(s.defs)
	s.mu.Unlock()

	s.logger.Debug("pattern set registered", "set", set, "count", len(batch), "total", total)
}

// Get returns the definition called name.
func (s *Store) Get(name string) (Definition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.defs[name]
	return d, ok
}

// List returns a copy of all definitions as name -> template.
func (s *Store) List() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := make(map[string]string, len(s.defs))
	for name, d := range s.defs {
		m[name] = d.Template
	}
	return m
}

// Names returns the registered names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.defs))
	for name := range s.defs {
		names = append(names, name)
	}
	s.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Len returns the number of registered definitions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.defs)
}

// snapshot returns a lookup over a copy of the current definitions.
func (s *Store) snapshot() resolver.Lookup {
	defs := s.List()
	return func(name string) (string, bool) {
		t, ok := defs[name]
		return t, ok
	}
}
