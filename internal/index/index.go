// Package index builds the in-memory and on-disk lookup tables from the
// dataset: composer -> scheme -> canonical number -> composition id. The
// query engine consumes the per-composer view; the index command writes
// the JSON tables for external tooling.
package index

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/werklab/wv/internal/catalog"
	"github.com/werklab/wv/internal/schema"
	"github.com/werklab/wv/internal/store"
)

// Index is the full dataset index.
type Index struct {
	composers map[string]*ComposerView
	Warnings  []string
}

// ComposerView is the per-composer slice of the index. It satisfies the
// query engine's lookup interface.
type ComposerView struct {
	Composer string
	// scheme -> normalized number -> composition id
	numbers map[string]map[string]string
	// scheme -> edition-qualified numbers the dataset records explicitly
	editioned map[string]map[string]string
}

// Lookup resolves a canonical (scheme, number) to a composition id.
func (v *ComposerView) Lookup(scheme, number string) (string, bool) {
	id, ok := v.numbers[scheme][catalog.Normalize(number)]
	return id, ok
}

// Numbers lists every canonical number of the scheme, unordered.
func (v *ComposerView) Numbers(scheme string) []string {
	m := v.numbers[scheme]
	out := make([]string, 0, len(m))
	for num := range m {
		out = append(out, num)
	}
	return out
}

// Schemes lists the schemes the composer has works under, sorted.
func (v *ComposerView) Schemes() []string {
	out := make([]string, 0, len(v.numbers))
	for s := range v.numbers {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (v *ComposerView) add(scheme, number, id string, editioned bool) (collision string) {
	target := v.numbers
	if editioned {
		target = v.editioned
	}
	m := target[scheme]
	if m == nil {
		m = make(map[string]string)
		target[scheme] = m
	}
	num := catalog.Normalize(number)
	if prev, ok := m[num]; ok && prev != id {
		return prev
	}
	m[num] = id
	return ""
}

// Build walks every composition, merges its attribution with the
// collections it belongs to, and indexes each catalog reference under
// its composer. References carrying an explicit edition are kept apart
// from the canonical table; duplicate canonical numbers are reported as
// warnings, first write wins.
func Build(st *store.Store) (*Index, error) {
	idx := &Index{composers: make(map[string]*ComposerView)}

	collections, err := st.Collections()
	if err != nil {
		return nil, err
	}
	memberOf := make(map[string][]schema.Collection)
	for _, coll := range collections {
		for _, id := range coll.Compositions {
			memberOf[id] = append(memberOf[id], coll)
		}
	}

	ids, err := st.CompositionIDs()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		comp, err := st.LoadComposition(id)
		if err != nil {
			return nil, fmt.Errorf("composition %s: %w", id, err)
		}
		merged := schema.MergeWithCollections(comp.Attribution, memberOf[id])
		if merged.Composer == "" {
			idx.Warnings = append(idx.Warnings, fmt.Sprintf("composition %s has no composer", id))
			continue
		}

		view := idx.composers[merged.Composer]
		if view == nil {
			view = &ComposerView{
				Composer:  merged.Composer,
				numbers:   make(map[string]map[string]string),
				editioned: make(map[string]map[string]string),
			}
			idx.composers[merged.Composer] = view
		}

		for _, entry := range merged.Catalog {
			if prev := view.add(entry.Scheme, entry.Number, id, entry.Edition != ""); prev != "" {
				idx.Warnings = append(idx.Warnings, fmt.Sprintf(
					"%s %s %q claimed by both %s and %s", merged.Composer, entry.Scheme, entry.Number, prev, id))
			}
		}
	}

	return idx, nil
}

// View returns the per-composer slice, nil when the composer has no
// indexed works.
func (idx *Index) View(composer string) *ComposerView {
	return idx.composers[composer]
}

// Composers lists indexed composers, sorted.
func (idx *Index) Composers() []string {
	out := make([]string, 0, len(idx.composers))
	for c := range idx.composers {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// fileEntry is one row of the on-disk index tables.
type fileEntry struct {
	Composer string `json:"composer"`
	Scheme   string `json:"scheme"`
	Number   string `json:"number"`
	ID       string `json:"id"`
	Edition  bool   `json:"edition,omitempty"`
}

// Write renders the index as JSON under <dataDir>/index/ for tools that
// read the dataset without this binary.
func (idx *Index) Write(st *store.Store) error {
	var entries []fileEntry
	for _, composer := range idx.Composers() {
		view := idx.composers[composer]
		for _, scheme := range view.Schemes() {
			for num, id := range view.numbers[scheme] {
				entries = append(entries, fileEntry{Composer: composer, Scheme: scheme, Number: num, ID: id})
			}
		}
		for scheme, m := range view.editioned {
			for num, id := range m {
				entries = append(entries, fileEntry{Composer: composer, Scheme: scheme, Number: num, ID: id, Edition: true})
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Composer != b.Composer {
			return a.Composer < b.Composer
		}
		if a.Scheme != b.Scheme {
			return a.Scheme < b.Scheme
		}
		return a.Number < b.Number
	})

	return writeIndexFile(st, "by_catalog.json", entries)
}

func writeIndexFile(st *store.Store, name string, v any) error {
	path := filepath.Join(st.DataDir, "index", name)
	return store.WriteJSONFile(path, v)
}
