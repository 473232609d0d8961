package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/werklab/wv/internal/schema"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	for _, sub := range []string{"composers", "compositions", "collections", "catalogs"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			t.Fatal(err)
		}
	}
	return &Store{DataDir: dir, Config: &Config{}}
}

func TestPathForID(t *testing.T) {
	s := testStore(t)

	path, err := s.PathForID("ab12cd34")
	if err != nil {
		t.Fatalf("PathForID: %v", err)
	}
	want := filepath.Join(s.DataDir, "compositions", "ab", "12cd34.json")
	if path != want {
		t.Errorf("PathForID = %q, want %q", path, want)
	}

	id, err := ExtractIDFromPath(path)
	if err != nil {
		t.Fatalf("ExtractIDFromPath: %v", err)
	}
	if id != "ab12cd34" {
		t.Errorf("ExtractIDFromPath = %q, want ab12cd34", id)
	}
}

func TestPathForIDRejectsBadID(t *testing.T) {
	s := testStore(t)
	for _, id := range []string{"", "abc", "ab12cd345"} {
		if _, err := s.PathForID(id); err == nil {
			t.Errorf("PathForID(%q) = nil error, want failure", id)
		}
	}
}

func TestCompositionRoundTrip(t *testing.T) {
	s := testStore(t)

	comp := &schema.Composition{
		ID:    "ab12cd34",
		Title: map[string]string{"en": "Prelude"},
		Form:  "prelude",
		Key:   "C",
		Attribution: []schema.AttributionEntry{
			{Composer: "bach", Catalog: []schema.CatalogEntry{{Scheme: "bwv", Number: "846"}}},
		},
	}
	if err := s.SaveComposition(comp); err != nil {
		t.Fatalf("SaveComposition: %v", err)
	}

	got, err := s.LoadComposition("ab12cd34")
	if err != nil {
		t.Fatalf("LoadComposition: %v", err)
	}
	if got.Title["en"] != "Prelude" || got.Key != "C" {
		t.Errorf("loaded = %+v", got)
	}
	if len(got.Attribution) != 1 || got.Attribution[0].Catalog[0].Number != "846" {
		t.Errorf("attribution = %+v", got.Attribution)
	}

	ids, err := s.CompositionIDs()
	if err != nil {
		t.Fatalf("CompositionIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != "ab12cd34" {
		t.Errorf("CompositionIDs = %v", ids)
	}
}

func TestResolveDataDirWalksUp(t *testing.T) {
	s := testStore(t)
	nested := filepath.Join(s.DataDir, "compositions", "ab")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveDataDir("", &Config{})
	if err != nil {
		t.Fatalf("ResolveDataDir: %v", err)
	}
	// Resolve symlinks: t.TempDir may sit behind one on some systems.
	wantResolved, _ := filepath.EvalSymlinks(s.DataDir)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("ResolveDataDir = %q, want %q", got, s.DataDir)
	}
}

func TestResolveDataDirFlagWins(t *testing.T) {
	got, err := ResolveDataDir("/tmp/explicit", &Config{DataDir: "/tmp/configured"})
	if err != nil {
		t.Fatalf("ResolveDataDir: %v", err)
	}
	if got != "/tmp/explicit" {
		t.Errorf("ResolveDataDir = %q, want the flag value", got)
	}
}

func TestSchemeDefsForMergesOverrides(t *testing.T) {
	s := testStore(t)

	if err := writeJSON(filepath.Join(s.DataDir, "catalogs", "op.json"), &schema.Scheme{
		Name:            "Opus",
		Pattern:         `(\d+)`,
		CanonicalFormat: "op. {number}",
		SortKeys:        []schema.SortKeySpec{{Group: 1, Type: "int"}},
	}); err != nil {
		t.Fatal(err)
	}

	composer := &schema.Composer{
		ID: "chopin",
		Catalogs: map[string]*schema.Scheme{
			"op": {Pattern: `(\d+)(?:/(\d+))?`},
			"b":  {Name: "Brown", Pattern: `(\d+)`},
		},
	}

	defs, err := s.SchemeDefsFor(composer)
	if err != nil {
		t.Fatalf("SchemeDefsFor: %v", err)
	}

	op := defs["op"]
	if op.Pattern != `(\d+)(?:/(\d+))?` {
		t.Errorf("override pattern not applied: %q", op.Pattern)
	}
	if op.Name != "Opus" || op.CanonicalFormat != "op. {number}" {
		t.Errorf("global fields lost: %+v", op)
	}
	if defs["b"] == nil || defs["b"].Name != "Brown" {
		t.Errorf("composer-only scheme missing: %+v", defs["b"])
	}
}

func TestSchemeDefsReadYAML(t *testing.T) {
	s := testStore(t)

	def := `name: Hoboken-Verzeichnis
pattern: '([ivxlcdm]+):(\d+)'
canonical_format: 'Hob. {number}'
sort_keys:
  - group: 1
    type: roman
    display: upper
  - group: 2
    type: int
`
	if err := os.WriteFile(filepath.Join(s.DataDir, "catalogs", "hob.yaml"), []byte(def), 0644); err != nil {
		t.Fatal(err)
	}

	defs, err := s.SchemeDefs()
	if err != nil {
		t.Fatalf("SchemeDefs: %v", err)
	}
	hob := defs["hob"]
	if hob == nil {
		t.Fatal("hob scheme not loaded from YAML")
	}
	if hob.Name != "Hoboken-Verzeichnis" || hob.Pattern != `([ivxlcdm]+):(\d+)` {
		t.Errorf("scheme = %+v", hob)
	}
	if len(hob.SortKeys) != 2 || hob.SortKeys[0].Type != "roman" || hob.SortKeys[0].Display != "upper" {
		t.Errorf("sort keys = %+v", hob.SortKeys)
	}
	if hob.CanonicalFormat != "Hob. {number}" {
		t.Errorf("scheme = %+v", hob)
	}
}

func TestGenerateID(t *testing.T) {
	s := testStore(t)

	id, err := s.GenerateID()
	if err != nil {
		t.Fatalf("GenerateID: %v", err)
	}
	if len(id) != 8 {
		t.Errorf("id = %q, want 8 hex characters", id)
	}
	for _, c := range id {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Errorf("id %q contains non-hex %q", id, c)
		}
	}
	if s.Exists(id) {
		t.Errorf("fresh id %q already exists", id)
	}
}

func TestCollectionsFor(t *testing.T) {
	s := testStore(t)

	if err := writeJSON(filepath.Join(s.DataDir, "collections", "cello-suites.json"), &schema.Collection{
		ID:           "cello-suites",
		Title:        map[string]string{"en": "Cello Suites"},
		Scheme:       "bwv",
		Compositions: []string{"aa000001", "aa000002"},
	}); err != nil {
		t.Fatal(err)
	}

	colls, err := s.CollectionsFor("aa000002")
	if err != nil {
		t.Fatalf("CollectionsFor: %v", err)
	}
	if len(colls) != 1 || colls[0].ID != "cello-suites" {
		t.Errorf("CollectionsFor = %+v", colls)
	}

	none, err := s.CollectionsFor("ffffffff")
	if err != nil {
		t.Fatalf("CollectionsFor: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("CollectionsFor = %+v, want none", none)
	}
}

func TestCheckHealth(t *testing.T) {
	s := testStore(t)
	if issues := CheckHealth(s.DataDir); len(issues) != 0 {
		t.Errorf("healthy dataset reported issues: %v", issues)
	}

	bad := t.TempDir()
	issues := CheckHealth(bad)
	if len(issues) != 2 {
		t.Errorf("empty dir issues = %v, want missing composers and compositions", issues)
	}

	if fixed := FixIssues(bad); len(fixed) == 0 {
		t.Error("FixIssues fixed nothing")
	}
	if issues := CheckHealth(bad); len(issues) != 0 {
		t.Errorf("issues after fix: %v", issues)
	}
}

func TestCheckHealthFlagsMisnamedComposition(t *testing.T) {
	s := testStore(t)
	shard := filepath.Join(s.DataDir, "compositions", "aa")
	if err := os.MkdirAll(shard, 0755); err != nil {
		t.Fatal(err)
	}
	// Valid JSON, but the path does not reassemble into an 8-hex id.
	if err := os.WriteFile(filepath.Join(shard, "short.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	issues := CheckHealth(s.DataDir)
	if len(issues) != 1 || issues[0].Severity != "warning" {
		t.Fatalf("issues = %v, want one warning", issues)
	}
	if !strings.Contains(issues[0].Message, "short.json") {
		t.Errorf("issue = %v, want the misnamed file flagged", issues[0])
	}
}

func TestCheckHealthFlagsBadJSON(t *testing.T) {
	s := testStore(t)
	path := filepath.Join(s.DataDir, "catalogs", "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	issues := CheckHealth(s.DataDir)
	if len(issues) != 1 || issues[0].Severity != "error" {
		t.Errorf("issues = %v, want one error for broken.json", issues)
	}
}
