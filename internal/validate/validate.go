// Package validate runs the semantic checks over a dataset: file shape,
// id and key formats, attribution references, catalog numbers against
// their schemes, and the integrity of edition alias tables.
package validate

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/werklab/wv/internal/catalog"
	"github.com/werklab/wv/internal/schema"
	"github.com/werklab/wv/internal/store"
)

// Finding is one validation result.
type Finding struct {
	Subject  string // composition id, composer slug, or scheme id
	Severity string // "warning" or "error"
	Message  string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Severity, f.Subject, f.Message)
}

var (
	idRe  = regexp.MustCompile(`^[0-9a-f]{8}$`)
	keyRe = regexp.MustCompile(`^[A-Ga-g][#b]?(\.(dor|phr|lyd|mix|loc))?$`)
)

var validStatuses = map[schema.AttributionStatus]bool{
	"":                    true,
	schema.StatusCertain:  true,
	schema.StatusProbable: true,
	schema.StatusDoubtful: true,
	schema.StatusSpurious: true,
}

// Validator holds the cross-file context a single composition cannot
// check alone: the known composers and each composer's scheme registry.
type Validator struct {
	st         *store.Store
	composers  map[string]bool
	registries map[string]*catalog.Registry
	compSchema *jsonschema.Resolved
}

// New loads composers and scheme definitions and derives the JSON
// schema compositions are checked against.
func New(st *store.Store) (*Validator, error) {
	v := &Validator{
		st:         st,
		composers:  make(map[string]bool),
		registries: make(map[string]*catalog.Registry),
	}

	slugs, err := st.ComposerSlugs()
	if err != nil {
		return nil, err
	}
	for _, slug := range slugs {
		v.composers[slug] = true
		composer, err := st.LoadComposer(slug)
		if err != nil {
			return nil, fmt.Errorf("composer %s: %w", slug, err)
		}
		defs, err := st.SchemeDefsFor(composer)
		if err != nil {
			return nil, err
		}
		reg, err := catalog.NewRegistry(defs)
		if err != nil {
			return nil, fmt.Errorf("composer %s: %w", slug, err)
		}
		v.registries[slug] = reg
	}

	sch, err := jsonschema.For[schema.Composition](nil)
	if err != nil {
		return nil, fmt.Errorf("deriving composition schema: %w", err)
	}
	resolved, err := sch.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving composition schema: %w", err)
	}
	v.compSchema = resolved

	return v, nil
}

// All validates every composition and every scheme's alias table.
func (v *Validator) All() ([]Finding, error) {
	ids, err := v.st.CompositionIDs()
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for _, id := range ids {
		findings = append(findings, v.Composition(id)...)
	}
	findings = append(findings, v.Integrity()...)
	return findings, nil
}

// Composition validates one composition file.
func (v *Validator) Composition(id string) []Finding {
	var findings []Finding
	add := func(severity, format string, args ...any) {
		findings = append(findings, Finding{Subject: id, Severity: severity, Message: fmt.Sprintf(format, args...)})
	}

	if !idRe.MatchString(id) {
		add("error", "invalid id: want 8 lowercase hex characters")
		return findings
	}

	path, err := v.st.PathForID(id)
	if err != nil {
		add("error", "%v", err)
		return findings
	}
	data, err := os.ReadFile(path)
	if err != nil {
		add("error", "cannot read file: %v", err)
		return findings
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		add("error", "invalid JSON: %v", err)
		return findings
	}
	if err := v.compSchema.Validate(instance); err != nil {
		add("error", "schema violation: %v", err)
	}

	var comp schema.Composition
	if err := json.Unmarshal(data, &comp); err != nil {
		add("error", "invalid composition: %v", err)
		return findings
	}

	if comp.ID != id {
		add("error", "id field %q does not match file path", comp.ID)
	}
	if comp.Form == "" {
		add("warning", "missing form")
	}
	if comp.Key != "" && !keyRe.MatchString(comp.Key) {
		add("error", "invalid key %q", comp.Key)
	}
	if len(comp.Attribution) == 0 {
		add("error", "no attribution entries")
		return findings
	}

	for i, entry := range comp.Attribution {
		if !validStatuses[entry.Status] {
			add("error", "attribution %d: unknown status %q", i, entry.Status)
		}
		if entry.Composer == "" && entry.Cf == "" && i == 0 {
			add("warning", "attribution %d: no composer", i)
			continue
		}
		if entry.Composer != "" && !v.composers[entry.Composer] {
			add("error", "attribution %d: unknown composer %q", i, entry.Composer)
			continue
		}

		reg := v.registries[entry.Composer]
		if reg == nil {
			continue
		}
		for _, ref := range entry.Catalog {
			scheme, err := reg.Lookup(ref.Scheme)
			if err != nil {
				add("error", "attribution %d: unknown scheme %q", i, ref.Scheme)
				continue
			}
			if _, err := scheme.Parse(ref.Number); err != nil {
				add("error", "attribution %d: %s number %q does not match the scheme pattern", i, ref.Scheme, ref.Number)
			}
		}
	}

	return findings
}

// Integrity checks each composer's scheme data: alias chains terminate
// and no two works share a sort key within one scheme.
func (v *Validator) Integrity() []Finding {
	var findings []Finding

	composers := make([]string, 0, len(v.registries))
	for c := range v.registries {
		composers = append(composers, c)
	}
	sort.Strings(composers)

	for _, composer := range composers {
		reg := v.registries[composer]
		for _, id := range reg.IDs() {
			scheme, err := reg.Lookup(id)
			if err != nil {
				continue
			}
			if err := scheme.CheckEditionIntegrity(); err != nil {
				findings = append(findings, Finding{
					Subject:  composer + "/" + id,
					Severity: "error",
					Message:  err.Error(),
				})
			}
		}
	}

	return findings
}

// Collisions reports distinct compositions whose numbers generate the
// same sort key under one scheme, which would make query order depend
// on composition ids.
func Collisions(scheme *catalog.Scheme, numbers map[string]string) []Finding {
	byKey := make(map[string][]string)
	for number := range numbers {
		key, err := scheme.KeyForRaw(number)
		if err != nil {
			continue
		}
		byKey[key.String()] = append(byKey[key.String()], number)
	}

	var findings []Finding
	for key, nums := range byKey {
		if len(nums) < 2 {
			continue
		}
		sort.Strings(nums)
		findings = append(findings, Finding{
			Subject:  scheme.ID,
			Severity: "warning",
			Message:  fmt.Sprintf("numbers %v share sort key %s", nums, key),
		})
	}
	sort.Slice(findings, func(i, j int) bool { return findings[i].Message < findings[j].Message })
	return findings
}
