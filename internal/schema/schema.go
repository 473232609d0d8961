// Package schema defines the on-disk data model: compositions, composers,
// collections, and catalog scheme definitions. All files are JSON; the
// loaders live in internal/store.
package schema

// AttributionStatus records how confident the attribution of a work is.
type AttributionStatus string

const (
	StatusCertain  AttributionStatus = "certain"
	StatusProbable AttributionStatus = "probable"
	StatusDoubtful AttributionStatus = "doubtful"
	StatusSpurious AttributionStatus = "spurious"
)

// Composition is one work in the dataset, stored at
// compositions/<aa>/<bbcccc>.json where aabbcccc is the composition id.
type Composition struct {
	ID              string             `json:"id"`
	Title           map[string]string  `json:"title,omitempty"` // language -> title
	Form            string             `json:"form"`
	Key             string             `json:"key,omitempty"`
	Instrumentation string             `json:"instrumentation,omitempty"`
	Attribution     []AttributionEntry `json:"attribution"`
	Movements       []Movement         `json:"movements,omitempty"`
	Sections        []Section          `json:"sections,omitempty"`
	Xref            *Xref              `json:"xref,omitempty"`
}

// AttributionEntry ties a composition to a composer, dates, and catalog
// references. A composition may carry several entries (reattributions,
// arrangements); the first entry describes the current attribution.
type AttributionEntry struct {
	Composer string            `json:"composer,omitempty"`
	Cf       string            `json:"cf,omitempty"`
	Dates    *Dates            `json:"dates,omitempty"`
	Status   AttributionStatus `json:"status,omitempty"`
	Catalog  []CatalogEntry    `json:"catalog,omitempty"`
	Since    string            `json:"since,omitempty"`
	Note     string            `json:"note,omitempty"`
}

// Dates are years; zero means unknown.
type Dates struct {
	Composed  int `json:"composed,omitempty"`
	Published int `json:"published,omitempty"`
	Premiered int `json:"premiered,omitempty"`
	Revised   int `json:"revised,omitempty"`
}

// CatalogEntry is one catalog reference for a work, e.g. {bwv, 846}.
// Edition marks the catalog edition that assigned this number; numbers
// from older editions are superseded by the current one.
type CatalogEntry struct {
	Scheme  string `json:"scheme"`
	Number  string `json:"number"`
	Edition string `json:"edition,omitempty"`
	Since   string `json:"since,omitempty"`
}

type Movement struct {
	Title    string    `json:"title,omitempty"`
	Key      string    `json:"key,omitempty"`
	Form     string    `json:"form,omitempty"`
	Soloists string    `json:"soloists,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

type Section struct {
	Title     string     `json:"title,omitempty"`
	Key       string     `json:"key,omitempty"`
	Form      string     `json:"form,omitempty"`
	Soloists  string     `json:"soloists,omitempty"`
	Movements []Movement `json:"movements,omitempty"`
	Sections  []Section  `json:"sections,omitempty"`
}

// Xref holds external identifiers (MusicBrainz, IMSLP, Wikidata, ...).
type Xref struct {
	OO    string `json:"oo,omitempty"`
	MB    string `json:"mb,omitempty"`
	IMSLP string `json:"imslp,omitempty"`
	WP    string `json:"wp,omitempty"`
	WD    string `json:"wd,omitempty"`
	VIAF  string `json:"viaf,omitempty"`
}

// Collection groups compositions published together (e.g. op. 10) and can
// carry attribution and title-expansion patterns shared by its members.
type Collection struct {
	ID               string             `json:"id"`
	Title            map[string]string  `json:"title"`
	ExpansionPattern map[string]string  `json:"expansion_pattern,omitempty"`
	Composer         string             `json:"composer,omitempty"`
	Attribution      []AttributionEntry `json:"attribution,omitempty"`
	Scheme           string             `json:"scheme"`
	Description      string             `json:"description,omitempty"`
	Compositions     []string           `json:"compositions"`
}

// Composer is stored at composers/<slug>.json. Catalogs holds
// composer-specific scheme definitions that override the global ones in
// catalogs/<scheme>.json field by field.
type Composer struct {
	ID            string             `json:"id"`
	Name          ComposerName       `json:"name"`
	DefaultScheme string             `json:"default_scheme,omitempty"`
	Born          string             `json:"born,omitempty"`
	Died          string             `json:"died,omitempty"`
	Nationality   string             `json:"nationality,omitempty"`
	Catalogs      map[string]*Scheme `json:"catalogs,omitempty"`
	Xref          *Xref              `json:"xref,omitempty"`
}

type ComposerName struct {
	Full string `json:"full"`
	Sort string `json:"sort"`
}

// SortKeySpec declares one component of a scheme's sort key: which capture
// group feeds it and how that group compares. Display optionally names a
// case transform ("upper", "lower", "title") applied when rendering.
type SortKeySpec struct {
	Group   int    `json:"group" yaml:"group"`
	Type    string `json:"type" yaml:"type"` // "int", "str", or "roman"
	Display string `json:"display,omitempty" yaml:"display,omitempty"`
}

// EditionStatus tags an edition alias as the current number or a
// superseded one.
type EditionStatus string

const (
	EditionCurrent    EditionStatus = "current"
	EditionSuperseded EditionStatus = "superseded"
)

// EditionAlias records that a specific catalog edition assigned Number to
// the work whose current number is Canonical. Superseded aliases chain
// toward exactly one current entry.
type EditionAlias struct {
	Edition   string        `json:"edition" yaml:"edition"`
	Number    string        `json:"number" yaml:"number"`
	Canonical string        `json:"canonical" yaml:"canonical"`
	Status    EditionStatus `json:"status" yaml:"status"`
}

// Scheme defines a catalog numbering system as data: a full-match pattern
// with capture groups, the typed sort-key spec over those groups, a
// canonical display format, and optionally the edition alias table.
// Definitions are authored as JSON or YAML under catalogs/.
type Scheme struct {
	ID              string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name            string         `json:"name" yaml:"name"`
	Description     string         `json:"description,omitempty" yaml:"description,omitempty"`
	CanonicalFormat string         `json:"canonical_format,omitempty" yaml:"canonical_format,omitempty"`
	Pattern         string         `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	SortKeys        []SortKeySpec  `json:"sort_keys,omitempty" yaml:"sort_keys,omitempty"`
	GroupBy         []int          `json:"group_by,omitempty" yaml:"group_by,omitempty"`
	Aliases         []string       `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Editions        []EditionAlias `json:"editions,omitempty" yaml:"editions,omitempty"`
	StrictRanges    bool           `json:"strict_ranges,omitempty" yaml:"strict_ranges,omitempty"`
	MBFormat        string         `json:"mb_format,omitempty" yaml:"mb_format,omitempty"`
	MBPartFormat    string         `json:"mb_part_format,omitempty" yaml:"mb_part_format,omitempty"`
}

// MaxGroup returns the highest capture-group index referenced by the
// scheme's sort keys.
func (s *Scheme) MaxGroup() int {
	max := 0
	for _, sk := range s.SortKeys {
		if sk.Group > max {
			max = sk.Group
		}
	}
	return max
}

// GroupComponents returns the capture groups that define group membership:
// GroupBy when set, otherwise all sort-key groups except the last (a
// single-key scheme groups on that one key).
func (s *Scheme) GroupComponents() []int {
	if len(s.GroupBy) > 0 {
		return s.GroupBy
	}
	groups := make([]int, 0, len(s.SortKeys))
	for _, sk := range s.SortKeys {
		groups = append(groups, sk.Group)
	}
	if len(groups) > 1 {
		return groups[:len(groups)-1]
	}
	return groups
}

// HasEditions reports whether the scheme carries an edition alias table.
func (s *Scheme) HasEditions() bool {
	return len(s.Editions) > 0
}
