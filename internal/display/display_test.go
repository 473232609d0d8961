package display

import (
	"testing"

	"github.com/werklab/wv/internal/catalog"
	"github.com/werklab/wv/internal/schema"
)

func TestExpandKey(t *testing.T) {
	en := Options{Language: "en", KeySymbols: "unicode"}
	ascii := Options{Language: "en", KeySymbols: "ascii"}
	de := Options{Language: "de", KeySymbols: "unicode"}

	tests := []struct {
		key  string
		opts Options
		want string
	}{
		{"C", en, "C major"},
		{"c", en, "C minor"},
		{"c#", en, "C♯ minor"},
		{"Bb", en, "B♭ major"},
		{"c#", ascii, "C-sharp minor"},
		{"Eb", ascii, "E-flat major"},
		{"d.dor", en, "D dorian"},
		{"C", de, "C-Dur"},
		{"c", de, "c-Moll"},
		{"B", de, "H-Dur"},
		{"Bb", de, "B-Dur"},
		{"Eb", de, "Es-Dur"},
		{"ab", de, "as-Moll"},
		{"d.dor", de, "D dorisch"},
		{"", en, ""},
	}
	for _, tt := range tests {
		t.Run(tt.key+"/"+tt.opts.Language, func(t *testing.T) {
			if got := ExpandKey(tt.key, tt.opts); got != tt.want {
				t.Errorf("ExpandKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestExpandKeyUnknownPassesThrough(t *testing.T) {
	opts := Options{Language: "en"}
	for _, key := range []string{"Cx", "c.unknown"} {
		if got := ExpandKey(key, opts); got != key {
			t.Errorf("ExpandKey(%q) = %q, want input unchanged", key, got)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	s, err := catalog.CompileScheme("hob", &schema.Scheme{
		Name:    "Hoboken",
		Pattern: `([ivxlcdm]+):(\d+)([a-z])?`,
		SortKeys: []schema.SortKeySpec{
			{Group: 1, Type: "roman", Display: "upper"},
			{Group: 2, Type: "int"},
			{Group: 3, Type: "str", Display: "lower"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		raw, want string
	}{
		{"xvi:52", "XVI:52"},
		{"XVI:52", "XVI:52"},
		{"iii:6B", "III:6b"},
	}
	for _, tt := range tests {
		if got := FormatNumber(s, tt.raw); got != tt.want {
			t.Errorf("FormatNumber(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestFormatNumberUnparsable(t *testing.T) {
	s, err := catalog.CompileScheme("hob", &schema.Scheme{
		Name:    "Hoboken",
		Pattern: `([ivxlcdm]+):(\d+)`,
		SortKeys: []schema.SortKeySpec{
			{Group: 1, Type: "roman", Display: "upper"},
			{Group: 2, Type: "int"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatNumber(s, "Anh. 3"); got != "Anh. 3" {
		t.Errorf("FormatNumber = %q, want input unchanged", got)
	}
}

func TestFormatCatalog(t *testing.T) {
	op := &schema.Scheme{Name: "Opus", CanonicalFormat: "op. {number}"}
	bwv := &schema.Scheme{Name: "Bach-Werke-Verzeichnis", CanonicalFormat: "BWV {number}"}
	placed := &schema.Scheme{Name: "Opus", CanonicalFormat: "Op. {group}, No. {sub}"}

	tests := []struct {
		def    *schema.Scheme
		scheme string
		number string
		want   string
	}{
		{op, "op", "27", "op. 27"},
		{op, "op", "10/3", "op. 10 no. 3"},
		{bwv, "bwv", "846", "BWV 846"},
		{nil, "d", "118", "D 118"},
		{nil, "d", "911/1", "D 911 no. 1"},
		{placed, "op", "10/3", "Op. 10, No. 3"},
		{placed, "op", "27", "Op. 27"},
	}
	for _, tt := range tests {
		if got := FormatCatalog(tt.def, tt.scheme, tt.number); got != tt.want {
			t.Errorf("FormatCatalog(%s, %q) = %q, want %q", tt.scheme, tt.number, got, tt.want)
		}
	}
}

func TestComposedTitle(t *testing.T) {
	en := Options{Language: "en", KeySymbols: "unicode"}

	comp := &schema.Composition{
		Title: map[string]string{"en": "Moonlight Sonata", "de": "Mondscheinsonate"},
		Form:  "sonata",
		Key:   "c#",
	}
	if got := ComposedTitle(comp, en); got != "Moonlight Sonata" {
		t.Errorf("ComposedTitle = %q", got)
	}
	if got := ComposedTitle(comp, Options{Language: "de"}); got != "Mondscheinsonate" {
		t.Errorf("ComposedTitle de = %q", got)
	}

	untitled := &schema.Composition{Form: "sonata", Key: "c#"}
	if got := ComposedTitle(untitled, en); got != "Sonata in C♯ minor" {
		t.Errorf("composed fallback = %q", got)
	}
}

func TestExpandedTitle(t *testing.T) {
	en := Options{Language: "en", KeySymbols: "unicode"}

	coll := schema.Collection{
		ID:               "wtc1",
		Title:            map[string]string{"en": "The Well-Tempered Clavier I"},
		ExpansionPattern: map[string]string{"en": "Prelude and Fugue no. {n} in {key}"},
		Compositions:     []string{"aa000001", "aa000002"},
	}
	comp := &schema.Composition{ID: "aa000002", Form: "prelude", Key: "c"}

	got := ExpandedTitle(comp, []schema.Collection{coll}, en)
	if got != "Prelude and Fugue no. 2 in C minor" {
		t.Errorf("ExpandedTitle = %q", got)
	}

	// A work's own title wins over the collection pattern.
	titled := &schema.Composition{ID: "aa000001", Title: map[string]string{"en": "Named"}}
	if got := ExpandedTitle(titled, []schema.Collection{coll}, en); got != "Named" {
		t.Errorf("ExpandedTitle = %q, want the stored title", got)
	}

	// Without a matching collection the composed fallback applies.
	loose := &schema.Composition{ID: "ffffffff", Form: "sonata", Key: "C"}
	if got := ExpandedTitle(loose, nil, en); got != "Sonata in C major" {
		t.Errorf("ExpandedTitle = %q, want composed fallback", got)
	}
}

func TestTruncateInstrumentation(t *testing.T) {
	long := "2 flutes, 2 oboes, 2 clarinets, 2 bassoons, 4 horns, strings"
	got := TruncateInstrumentation(long, 30)
	if len(got) > 35 {
		t.Errorf("truncated = %q, still too long", got)
	}
	if got != "2 flutes, 2 oboes, 2 clarinets, ..." && got != "2 flutes, 2 oboes, ..." {
		t.Errorf("truncated = %q", got)
	}

	if got := TruncateInstrumentation("piano", 30); got != "piano" {
		t.Errorf("short string changed: %q", got)
	}
}
