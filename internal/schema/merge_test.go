package schema

import (
	"reflect"
	"testing"
)

func TestMergeAttribution(t *testing.T) {
	entries := []AttributionEntry{
		{
			Composer: "bach",
			Status:   StatusProbable,
			Dates:    &Dates{Composed: 1723},
			Catalog:  []CatalogEntry{{Scheme: "bwv", Number: "846"}},
			Note:     "earlier attribution to Kellner withdrawn",
		},
		{
			Composer: "kellner",
			Status:   StatusSpurious,
			Dates:    &Dates{Composed: 1730, Published: 1801},
			Catalog:  []CatalogEntry{{Scheme: "bwv", Number: "Anh. 14"}},
		},
	}

	merged := MergeAttribution(entries)

	if merged.Composer != "bach" {
		t.Errorf("Composer = %q, want first entry's", merged.Composer)
	}
	if merged.Status != StatusProbable {
		t.Errorf("Status = %q, want first entry's", merged.Status)
	}
	// First entry's dates win; later entries only fill gaps.
	want := Dates{Composed: 1723, Published: 1801}
	if merged.Dates != want {
		t.Errorf("Dates = %+v, want %+v", merged.Dates, want)
	}
	if len(merged.Catalog) != 2 {
		t.Errorf("Catalog = %v, want both entries appended", merged.Catalog)
	}
	if !reflect.DeepEqual(merged.Notes, []string{"earlier attribution to Kellner withdrawn"}) {
		t.Errorf("Notes = %v", merged.Notes)
	}
}

func TestMergeAttributionEmpty(t *testing.T) {
	merged := MergeAttribution(nil)
	if merged.Composer != "" || merged.Status != "" || len(merged.Catalog) != 0 {
		t.Errorf("merge of no entries = %+v, want zero value", merged)
	}
}

func TestMergeWithCollections(t *testing.T) {
	entries := []AttributionEntry{
		{Catalog: []CatalogEntry{{Scheme: "bwv", Number: "1007"}}},
	}
	collections := []Collection{
		{
			ID:       "cello-suites",
			Composer: "bach",
			Scheme:   "bwv",
			Attribution: []AttributionEntry{
				{Dates: &Dates{Composed: 1720}},
			},
			Compositions: []string{"aa000001"},
		},
	}

	merged := MergeWithCollections(entries, collections)

	if merged.Composer != "bach" {
		t.Errorf("Composer = %q, want collection fallback", merged.Composer)
	}
	if merged.Dates.Composed != 1720 {
		t.Errorf("Composed = %d, want collection date filled in", merged.Dates.Composed)
	}
	if len(merged.Catalog) != 1 || merged.Catalog[0].Number != "1007" {
		t.Errorf("Catalog = %v, want the work's own reference first", merged.Catalog)
	}
}

func TestGroupComponents(t *testing.T) {
	tests := []struct {
		name   string
		scheme Scheme
		want   []int
	}{
		{
			name:   "group_by wins",
			scheme: Scheme{SortKeys: []SortKeySpec{{Group: 1}, {Group: 2}, {Group: 3}}, GroupBy: []int{1}},
			want:   []int{1},
		},
		{
			name:   "default drops last key",
			scheme: Scheme{SortKeys: []SortKeySpec{{Group: 1}, {Group: 2}}},
			want:   []int{1},
		},
		{
			name:   "single key groups on itself",
			scheme: Scheme{SortKeys: []SortKeySpec{{Group: 1}}},
			want:   []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scheme.GroupComponents(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GroupComponents() = %v, want %v", got, tt.want)
			}
		})
	}
}
