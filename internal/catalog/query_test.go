package catalog

import (
	"errors"
	"testing"

	"github.com/werklab/wv/internal/schema"
)

// memIndex is a canonical-number index for tests, scheme -> number -> id.
type memIndex map[string]map[string]string

func (m memIndex) Lookup(scheme, number string) (string, bool) {
	id, ok := m[scheme][number]
	return id, ok
}

func (m memIndex) Numbers(scheme string) []string {
	var out []string
	for num := range m[scheme] {
		out = append(out, num)
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

func opusResolver(t *testing.T) (*Resolver, memIndex) {
	t.Helper()
	reg, err := NewRegistry(map[string]*schema.Scheme{
		"op": {
			Name:    "Opus",
			Pattern: `(\d+)(?:/(\d+))?([a-z])?`,
			SortKeys: []schema.SortKeySpec{
				{Group: 1, Type: "int"},
				{Group: 2, Type: "int"},
				{Group: 3, Type: "str"},
			},
			GroupBy: []int{1},
			Aliases: []string{"opus"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	idx := memIndex{"op": {
		"2/1":  "aa000001",
		"2/2":  "aa000002",
		"2/3":  "aa000003",
		"7":    "aa000004",
		"10/1": "aa000005",
		"10/2": "aa000006",
		"10/3": "aa000007",
	}}
	return NewResolver(reg), idx
}

func entryNumbers(res Result) []string {
	out := make([]string, len(res.Entries))
	for i, e := range res.Entries {
		out[i] = e.Number.Raw
	}
	return out
}

func wantNumbers(t *testing.T, res Result, want ...string) {
	t.Helper()
	got := entryNumbers(res)
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entries = %v, want %v", got, want)
		}
	}
}

func TestResolveExact(t *testing.T) {
	r, idx := opusResolver(t)

	res, err := r.Resolve(Query{Scheme: "op", Selector: Exact{Number: "10/2"}}, idx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantNumbers(t, res, "10/2")
	if res.Entries[0].CompositionID != "aa000006" {
		t.Errorf("id = %q, want aa000006", res.Entries[0].CompositionID)
	}
}

func TestResolveExactSchemeAlias(t *testing.T) {
	r, idx := opusResolver(t)

	res, err := r.Resolve(Query{Scheme: "Opus", Selector: Exact{Number: "7"}}, idx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantNumbers(t, res, "7")
}

func TestResolveExactAbsent(t *testing.T) {
	r, idx := opusResolver(t)

	res, err := r.Resolve(Query{Scheme: "op", Selector: Exact{Number: "99"}}, idx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Entries) != 0 {
		t.Errorf("entries = %v, want none", entryNumbers(res))
	}
}

func TestResolveUnknownScheme(t *testing.T) {
	r, idx := opusResolver(t)

	_, err := r.Resolve(Query{Scheme: "bwv", Selector: Exact{Number: "1"}}, idx)
	if !errors.Is(err, ErrSchemeNotFound) {
		t.Errorf("err = %v, want ErrSchemeNotFound", err)
	}
}

func TestResolveExactParseError(t *testing.T) {
	r, idx := opusResolver(t)

	_, err := r.Resolve(Query{Scheme: "op", Selector: Exact{Number: "op. 7"}}, idx)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Errorf("err = %v, want *ParseError", err)
	}
}

func TestResolveRange(t *testing.T) {
	r, idx := opusResolver(t)

	res, err := r.Resolve(Query{Scheme: "op", Selector: Range{Start: "2", End: "11"}}, idx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantNumbers(t, res, "2/1", "2/2", "2/3", "7", "10/1", "10/2", "10/3")
}

func TestResolveRangeInclusiveUpperBound(t *testing.T) {
	r, idx := opusResolver(t)

	// A bare upper bound still admits its own subdivisions.
	res, err := r.Resolve(Query{Scheme: "op", Selector: Range{Start: "7", End: "10"}}, idx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantNumbers(t, res, "7", "10/1", "10/2", "10/3")
}

func TestResolveRangeReversed(t *testing.T) {
	r, idx := opusResolver(t)

	_, err := r.Resolve(Query{Scheme: "op", Selector: Range{Start: "11", End: "2"}}, idx)
	if !errors.Is(err, ErrAmbiguousRange) {
		t.Errorf("err = %v, want ErrAmbiguousRange", err)
	}
}

func TestResolveRangeSchemeForbidsCrossGroup(t *testing.T) {
	reg, err := NewRegistry(map[string]*schema.Scheme{
		"op": {
			Name:    "Opus",
			Pattern: `(\d+)(?:/(\d+))?`,
			SortKeys: []schema.SortKeySpec{
				{Group: 1, Type: "int"},
				{Group: 2, Type: "int"},
			},
			GroupBy:      []int{1},
			StrictRanges: true,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	r := NewResolver(reg)
	idx := memIndex{"op": {
		"2/1": "aa000001",
		"2/3": "aa000002",
		"7":   "aa000003",
	}}

	_, err = r.Resolve(Query{Scheme: "op", Selector: Range{Start: "2", End: "11"}}, idx)
	if !errors.Is(err, ErrAmbiguousRange) {
		t.Errorf("cross-group range err = %v, want ErrAmbiguousRange", err)
	}

	// Within one group the range is fine.
	res, err := r.Resolve(Query{Scheme: "op", Selector: Range{Start: "2/1", End: "2/3"}}, idx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantNumbers(t, res, "2/1", "2/3")
}

func TestResolveGroup(t *testing.T) {
	r, idx := opusResolver(t)

	res, err := r.Resolve(Query{Scheme: "op", Selector: Group{Number: "2"}}, idx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantNumbers(t, res, "2/1", "2/2", "2/3")
}

func TestResolveGroupNoPrefixConfusion(t *testing.T) {
	r, _ := opusResolver(t)
	idx := memIndex{"op": {
		"1":    "aa000010",
		"10/1": "aa000011",
		"100":  "aa000012",
	}}

	res, err := r.Resolve(Query{Scheme: "op", Selector: Group{Number: "1"}}, idx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Grouping is by component equality, not string prefix.
	wantNumbers(t, res, "1")
}

func kochelResolver(t *testing.T) (*Resolver, memIndex) {
	t.Helper()
	reg, err := NewRegistry(map[string]*schema.Scheme{
		"k": {
			Name:    "Köchel",
			Pattern: `(\d+)([a-z])?`,
			SortKeys: []schema.SortKeySpec{
				{Group: 1, Type: "int"},
				{Group: 2, Type: "str"},
			},
			Editions: []schema.EditionAlias{
				{Edition: "6", Number: "300i", Canonical: "331", Status: schema.EditionSuperseded},
				{Edition: "9", Number: "331", Canonical: "331", Status: schema.EditionCurrent},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	idx := memIndex{"k": {
		"310": "bb000001",
		"331": "bb000002",
		"332": "bb000003",
	}}
	return NewResolver(reg), idx
}

func TestResolveExactSuperseded(t *testing.T) {
	r, idx := kochelResolver(t)

	res, err := r.Resolve(Query{Scheme: "k", Selector: Exact{Number: "300i"}}, idx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantNumbers(t, res, "331")
	if res.Entries[0].CompositionID != "bb000002" {
		t.Errorf("id = %q, want bb000002", res.Entries[0].CompositionID)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnSuperseded {
		t.Fatalf("warnings = %v, want one superseded warning", res.Warnings)
	}
	if res.Warnings[0].From != "300i" || res.Warnings[0].To != "331" {
		t.Errorf("warning = %+v", res.Warnings[0])
	}
}

func TestResolveExactSupersededStrict(t *testing.T) {
	r, idx := kochelResolver(t)

	res, err := r.Resolve(Query{
		Scheme:   "k",
		Selector: Exact{Number: "300i"},
		Strict:   boolPtr(true),
	}, idx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Entries) != 0 {
		t.Errorf("entries = %v, want none under strict", entryNumbers(res))
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Kind != WarnSuperseded {
		t.Errorf("warnings = %v, want the rejected substitution reported", res.Warnings)
	}
}

func TestResolveExactExplicitEdition(t *testing.T) {
	r, idx := kochelResolver(t)

	res, err := r.Resolve(Query{
		Scheme:   "k",
		Selector: Exact{Number: "300i"},
		Edition:  "6",
	}, idx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantNumbers(t, res, "331")
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v, want none for an explicit edition", res.Warnings)
	}
}

func TestResolveRangeStrictByDefault(t *testing.T) {
	r, idx := kochelResolver(t)

	// 300i falls between 300 and 320 but is superseded; a range never
	// substitutes canonical numbers for aliases.
	res, err := r.Resolve(Query{Scheme: "k", Selector: Range{Start: "300", End: "320"}}, idx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantNumbers(t, res, "310")
	if len(res.Warnings) != 0 {
		t.Errorf("warnings = %v, want none by default", res.Warnings)
	}
}

func TestResolveRangeLenientWarns(t *testing.T) {
	r, idx := kochelResolver(t)

	res, err := r.Resolve(Query{
		Scheme:   "k",
		Selector: Range{Start: "300", End: "320"},
		Strict:   boolPtr(false),
	}, idx)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	wantNumbers(t, res, "310")
	if len(res.Warnings) != 1 || res.Warnings[0].From != "300i" {
		t.Fatalf("warnings = %v, want the in-range superseded alias reported", res.Warnings)
	}
	if res.Warnings[0].To != "331" {
		t.Errorf("warning = %+v, want canonical target named", res.Warnings[0])
	}
}
