// Package catalog is the catalog-number resolution engine: scheme-driven
// parsing of raw catalog strings, total ordering per scheme, group and
// range query evaluation, and cross-edition alias resolution. Everything
// here is a pure computation over immutable data; a Registry and an Index
// built once may serve any number of concurrent queries.
package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/werklab/wv/internal/schema"
)

// Scheme is a compiled catalog scheme: the definition plus its pattern
// compiled for case-insensitive full matching and its edition table
// indexed for lookup.
type Scheme struct {
	ID  string
	Def *schema.Scheme

	re              *regexp.Regexp
	byEditionNumber map[string]map[string]*schema.EditionAlias
	byNumber        map[string][]*schema.EditionAlias
}

// Normalize folds a raw catalog number to its lookup form.
func Normalize(number string) string {
	return strings.ToLower(strings.TrimSpace(number))
}

// CompileScheme compiles a scheme definition. The pattern is anchored so
// partial matches are rejected, and matched case-insensitively as in the
// source catalogs ("XVI:52" and "xvi:52" are the same reference).
func CompileScheme(id string, def *schema.Scheme) (*Scheme, error) {
	s := &Scheme{ID: id, Def: def}

	if def.Pattern != "" {
		re, err := regexp.Compile(`(?i)\A(?:` + def.Pattern + `)\z`)
		if err != nil {
			return nil, fmt.Errorf("scheme %s: invalid pattern: %w", id, err)
		}
		s.re = re
	}

	if len(def.Editions) > 0 {
		s.byEditionNumber = make(map[string]map[string]*schema.EditionAlias)
		s.byNumber = make(map[string][]*schema.EditionAlias)
		for i := range def.Editions {
			alias := &def.Editions[i]
			num := Normalize(alias.Number)
			ed := s.byEditionNumber[alias.Edition]
			if ed == nil {
				ed = make(map[string]*schema.EditionAlias)
				s.byEditionNumber[alias.Edition] = ed
			}
			ed[num] = alias
			s.byNumber[num] = append(s.byNumber[num], alias)
		}
	}

	return s, nil
}

// Registry maps scheme ids (and their declared aliases) to compiled
// schemes. It is built once from loaded definitions and never mutated;
// share it freely across queries.
type Registry struct {
	schemes map[string]*Scheme
}

// NewRegistry compiles every definition and registers it under its id and
// aliases. Alias collisions and bad patterns fail construction.
func NewRegistry(defs map[string]*schema.Scheme) (*Registry, error) {
	r := &Registry{schemes: make(map[string]*Scheme, len(defs))}

	for id, def := range defs {
		compiled, err := CompileScheme(id, def)
		if err != nil {
			return nil, err
		}
		names := append([]string{id}, def.Aliases...)
		for _, name := range names {
			key := Normalize(name)
			if prev, ok := r.schemes[key]; ok && prev != compiled {
				return nil, fmt.Errorf("scheme alias %q claimed by both %s and %s", name, prev.ID, id)
			}
			r.schemes[key] = compiled
		}
	}

	return r, nil
}

// Lookup resolves a scheme id or alias.
func (r *Registry) Lookup(id string) (*Scheme, error) {
	s, ok := r.schemes[Normalize(id)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrSchemeNotFound)
	}
	return s, nil
}

// IDs returns the registered primary scheme ids, sorted.
func (r *Registry) IDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range r.schemes {
		if !seen[s.ID] {
			seen[s.ID] = true
			ids = append(ids, s.ID)
		}
	}
	sort.Strings(ids)
	return ids
}
