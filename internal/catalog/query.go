package catalog

import (
	"fmt"
	"sort"
)

// Selector picks which works of a scheme a query addresses. Exactly one
// variant is set per query.
type Selector interface {
	isSelector()
}

// Exact addresses a single catalog number.
type Exact struct {
	Number string
}

// Range addresses every number ordering between Start and End inclusive.
type Range struct {
	Start string
	End   string
}

// Group addresses every number sharing a leading group component, e.g.
// group "2" selects 2/1, 2/2, 2/3 but not 20.
type Group struct {
	Number string
}

func (Exact) isSelector() {}
func (Range) isSelector() {}
func (Group) isSelector() {}

// Query is one resolution request. Strict nil takes the selector default:
// ranges are strict, exact and group queries are not.
type Query struct {
	Composer string
	Scheme   string
	Selector Selector
	Edition  string
	Strict   *bool
}

func (q Query) strictFor(def bool) bool {
	if q.Strict != nil {
		return *q.Strict
	}
	return def
}

// Index is the externally supplied read-only mapping from canonical
// number to composition id for one composer. The engine never builds or
// mutates it.
type Index interface {
	// Lookup resolves a canonical (scheme, number) to a composition id.
	Lookup(scheme, number string) (string, bool)
	// Numbers lists every canonical number of the scheme in the index.
	Numbers(scheme string) []string
}

// Entry is one resolved work.
type Entry struct {
	Number        *Number
	CompositionID string
}

// Result is an ordered sequence of resolved works plus the non-fatal
// warnings gathered along the way. Constructed fresh per query.
type Result struct {
	Entries  []Entry
	Warnings []Warning
}

// Resolver evaluates queries against a registry and a caller-supplied
// index. It holds no per-query state; one Resolver serves concurrent
// queries over the same immutable data.
type Resolver struct {
	registry *Registry
}

func NewResolver(r *Registry) *Resolver {
	return &Resolver{registry: r}
}

// Resolve evaluates one query. Parse and edition failures surface as
// errors on this query alone; warnings ride on the result and are never
// fatal.
func (r *Resolver) Resolve(q Query, idx Index) (Result, error) {
	scheme, err := r.registry.Lookup(q.Scheme)
	if err != nil {
		return Result{}, err
	}

	switch sel := q.Selector.(type) {
	case Exact:
		return r.resolveExact(scheme, q, sel, idx)
	case Range:
		return r.resolveRange(scheme, q, sel, idx)
	case Group:
		return r.resolveGroup(scheme, q, sel, idx)
	}
	return Result{}, fmt.Errorf("scheme %s: query has no selector", scheme.ID)
}

func (r *Resolver) resolveExact(s *Scheme, q Query, sel Exact, idx Index) (Result, error) {
	num, err := s.Parse(sel.Number)
	if err != nil {
		return Result{}, err
	}

	canonical := num.Raw
	var warning *Warning

	if s.Def.HasEditions() || q.Edition != "" {
		res, err := s.ResolveEdition(num.Raw, q.Edition, false)
		if err != nil {
			return Result{}, err
		}
		canonical = res.Canonical
		warning = res.Warning

		if warning != nil && q.strictFor(false) {
			// Strict mode rejects the substitution but still tells the
			// caller why nothing matched.
			return Result{Warnings: []Warning{*warning}}, nil
		}
	}

	id, ok := idx.Lookup(s.ID, Normalize(canonical))
	if !ok {
		return Result{}, nil
	}

	entry, err := s.Parse(canonical)
	if err != nil {
		return Result{}, err
	}
	entry.Edition = q.Edition

	result := Result{Entries: []Entry{{Number: entry, CompositionID: id}}}
	if warning != nil {
		result.Warnings = append(result.Warnings, *warning)
	}
	return result, nil
}

type keyedEntry struct {
	key   SortKey
	entry Entry
}

func sortEntries(entries []keyedEntry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		if c := entries[i].key.Compare(entries[j].key); c != 0 {
			return c < 0
		}
		// Equal keys should not occur for distinct works; composition id
		// keeps the order deterministic if the dataset violates that.
		return entries[i].entry.CompositionID < entries[j].entry.CompositionID
	})
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.entry
	}
	return out
}

// resolveRange enumerates every canonical index entry ordering between
// the bounds inclusive. Ranges operate purely on canonical numbering:
// superseded aliases are never substituted into the result. Under the
// default strict mode they are silently out of reach; with strict
// explicitly disabled, aliases falling inside the bounds are reported as
// warnings so the caller knows what was skipped. A scheme declaring
// strict_ranges additionally requires both bounds to share one group.
func (r *Resolver) resolveRange(s *Scheme, q Query, sel Range, idx Index) (Result, error) {
	startNum, err := s.Parse(sel.Start)
	if err != nil {
		return Result{}, err
	}
	endNum, err := s.Parse(sel.End)
	if err != nil {
		return Result{}, err
	}
	startKey := s.Key(startNum)
	endKey := s.Key(endNum)
	if startKey.Compare(endKey) > 0 {
		return Result{}, fmt.Errorf("%q-%q: %w", sel.Start, sel.End, ErrAmbiguousRange)
	}
	if s.Def.StrictRanges && s.GroupPrefix(startNum).Compare(s.GroupPrefix(endNum)) != 0 {
		return Result{}, fmt.Errorf("%q-%q spans multiple groups: %w", sel.Start, sel.End, ErrAmbiguousRange)
	}
	ceiling := inclusiveCeiling(endKey)

	var result Result
	var keyed []keyedEntry
	for _, raw := range idx.Numbers(s.ID) {
		num, err := s.Parse(raw)
		if err != nil {
			continue
		}
		key := s.Key(num)
		if key.Compare(startKey) < 0 || key.Compare(ceiling) > 0 {
			continue
		}
		id, ok := idx.Lookup(s.ID, Normalize(raw))
		if !ok {
			continue
		}
		keyed = append(keyed, keyedEntry{key: key, entry: Entry{Number: num, CompositionID: id}})
	}
	result.Entries = sortEntries(keyed)

	if !q.strictFor(true) && s.Def.HasEditions() {
		for _, alias := range s.SupersededAliases() {
			key, err := s.KeyForRaw(alias.Number)
			if err != nil {
				continue
			}
			if key.Compare(startKey) < 0 || key.Compare(ceiling) > 0 {
				continue
			}
			res, err := s.ResolveEdition(alias.Number, "", false)
			if err != nil {
				return Result{}, err
			}
			if res.Warning != nil {
				result.Warnings = append(result.Warnings, *res.Warning)
			}
		}
		sort.Slice(result.Warnings, func(i, j int) bool {
			return result.Warnings[i].From < result.Warnings[j].From
		})
	}

	return result, nil
}

// resolveGroup selects every index entry whose leading group components
// equal the query's, ordered ascending by full sort key.
func (r *Resolver) resolveGroup(s *Scheme, q Query, sel Group, idx Index) (Result, error) {
	groupNum, err := s.Parse(sel.Number)
	if err != nil {
		return Result{}, err
	}
	want := s.GroupPrefix(groupNum)

	var keyed []keyedEntry
	for _, raw := range idx.Numbers(s.ID) {
		num, err := s.Parse(raw)
		if err != nil {
			continue
		}
		if !matchesPrefix(want, s.GroupPrefix(num)) {
			continue
		}
		id, ok := idx.Lookup(s.ID, Normalize(raw))
		if !ok {
			continue
		}
		keyed = append(keyed, keyedEntry{key: s.Key(num), entry: Entry{Number: num, CompositionID: id}})
	}

	return Result{Entries: sortEntries(keyed)}, nil
}
