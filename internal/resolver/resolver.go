// Package resolver expands %{NAME}, %{NAME:field} and %{NAME:field:type}
// references into a single regular expression source.
//
// Field references become named groups whose names carry an internal site
// marker; the alias package later rewrites them into engine-safe names.
package resolver

import (
	"errors"
	"strconv"
	"strings"
)

// MaxDepth bounds how deeply references may nest.
const MaxDepth = 256

// siteMarker prefixes group names written for capture sites. NUL cannot
// appear in an author-written group name.
const siteMarker = "\x00"

// Lookup returns the template registered under name.
type Lookup func(name string) (template string, ok bool)

// Site is one field capture in a resolved expression.
type Site struct {
	ID    int
	Field string
	Type  string // raw type tag, empty when untyped
}

// Expression is the result of resolving a grok expression.
type Expression struct {
	Source string
	Sites  []Site // in order of their opening group
}

// SiteGroupName returns the group name the resolver writes for site id.
func SiteGroupName(id int) string {
	return siteMarker + strconv.Itoa(id)
}

// ParseSiteGroupName reports whether name was written by SiteGroupName and
// returns its site id.
func ParseSiteGroupName(name string) (int, bool) {
	if !strings.HasPrefix(name, siteMarker) {
		return 0, false
	}
	id, err := strconv.Atoi(name[len(siteMarker):])
	if err != nil {
		return 0, false
	}
	return id, true
}

type resolver struct {
	lookup Lookup
	path   []string
	active map[string]struct{}
	sites  []Site
}

// Resolve expands every reference in expr depth-first. Names currently being
// expanded are tracked so that a cycle fails with CyclicPatternError instead
// of recursing forever; patterns reused outside the active path are fine.
func Resolve(expr string, lookup Lookup) (*Expression, error) {
	if lookup == nil {
		return nil, errors.New("resolver: nil lookup")
	}

	r := &resolver{
		lookup: lookup,
		active: make(map[string]struct{}),
	}

	var sb strings.Builder
	sb.Grow(len(expr))
	if err := r.expand(&sb, expr, ""); err != nil {
		return nil, err
	}

	return &Expression{Source: sb.String(), Sites: r.sites}, nil
}

func (r *resolver) expand(sb *strings.Builder, template, owner string) error {
	refs, err := Scan(template)
	if err != nil {
		var synErr *SyntaxError
		if errors.As(err, &synErr) {
			synErr.Pattern = owner
		}
		return err
	}

	last := 0
	for _, ref := range refs {
		sb.WriteString(template[last:ref.Start])
		last = ref.End
		if err := r.expandReference(sb, ref); err != nil {
			return err
		}
	}
	sb.WriteString(template[last:])
	return nil
}

func (r *resolver) expandReference(sb *strings.Builder, ref Reference) error {
	if _, onPath := r.active[ref.Name]; onPath {
		return &CyclicPatternError{Path: append(r.pathCopy(), ref.Name)}
	}
	if len(r.path) >= MaxDepth {
		return &DepthError{Path: append(r.pathCopy(), ref.Name), Max: MaxDepth}
	}

	template, ok := r.lookup(ref.Name)
	if !ok {
		return &UnknownPatternError{Name: ref.Name, Path: r.pathCopy()}
	}

	// The site is recorded before descending so that outer captures precede
	// the captures declared inside the referenced template.
	if ref.Field != "" {
		id := len(r.sites)
		r.sites = append(r.sites, Site{ID: id, Field: ref.Field, Type: ref.Type})
		sb.WriteString("(?P<")
		sb.WriteString(SiteGroupName(id))
		sb.WriteString(">")
	} else {
		sb.WriteString("(?:")
	}

	r.path = append(r.path, ref.Name)
	r.active[ref.Name] = struct{}{}
	err := r.expand(sb, template, ref.Name)
	r.path = r.path[:len(r.path)-1]
	delete(r.active, ref.Name)
	if err != nil {
		return err
	}

	sb.WriteString(")")
	return nil
}

func (r *resolver) pathCopy() []string {
	p := make([]string, len(r.path), len(r.path)+1)
	copy(p, r.path)
	return p
}
