// Package xref looks compositions up in a prepared MusicBrainz SQLite
// extract. The extract has one table, works(composer, catalog, gid,
// title), keyed by the composer's display name and the MusicBrainz
// rendering of the catalog number.
package xref

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/werklab/wv/internal/schema"
)

// DB is an open extract.
type DB struct {
	db *sql.DB
}

// Open opens the extract at path. Use ":memory:" for tests.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening musicbrainz extract: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Work is one MusicBrainz match.
type Work struct {
	GID   string
	Title string
}

// FormatForMB renders a catalog number the way MusicBrainz writes it,
// using the scheme's mb_format template. Placeholders: {number} the raw
// number, {NUMBER} uppercased, {major} and {minor} the parts around the
// first slash. Sub-numbers use mb_part_format when the scheme declares
// one, since MusicBrainz files opus parts as works of their own.
// Without a template the scheme id is uppercased and prefixed.
func FormatForMB(def *schema.Scheme, schemeID, number string) string {
	major, minor := SplitNumber(number)

	format := ""
	if def != nil {
		format = def.MBFormat
		if minor != "" && def.MBPartFormat != "" {
			format = def.MBPartFormat
		}
	}
	if format == "" {
		return strings.ToUpper(schemeID) + " " + number
	}

	out := format
	out = strings.ReplaceAll(out, "{number}", number)
	out = strings.ReplaceAll(out, "{NUMBER}", strings.ToUpper(number))
	out = strings.ReplaceAll(out, "{major}", major)
	out = strings.ReplaceAll(out, "{minor}", minor)
	return out
}

// SplitNumber splits a compound number at its first slash.
func SplitNumber(number string) (major, minor string) {
	if i := strings.Index(number, "/"); i >= 0 {
		return number[:i], number[i+1:]
	}
	return number, ""
}

// Lookup finds works whose catalog column matches the rendered number
// for a composer. The composer pattern is matched with LIKE so "Bach"
// also hits "Johann Sebastian Bach".
func (d *DB) Lookup(ctx context.Context, composer, catalog string) ([]Work, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT gid, title FROM works WHERE composer LIKE ? AND catalog = ? ORDER BY gid`,
		"%"+composer+"%", catalog)
	if err != nil {
		return nil, fmt.Errorf("musicbrainz lookup: %w", err)
	}
	defer rows.Close()

	var out []Work
	for rows.Next() {
		var w Work
		if err := rows.Scan(&w.GID, &w.Title); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Match pairs a catalog number with its MusicBrainz candidates.
type Match struct {
	Number string
	Works  []Work
}

// LookupBatch resolves several numbers of one scheme in order.
func (d *DB) LookupBatch(ctx context.Context, composer string, def *schema.Scheme, schemeID string, numbers []string) ([]Match, error) {
	out := make([]Match, 0, len(numbers))
	for _, number := range numbers {
		works, err := d.Lookup(ctx, composer, FormatForMB(def, schemeID, number))
		if err != nil {
			return nil, err
		}
		out = append(out, Match{Number: number, Works: works})
	}
	return out, nil
}

// Duplicate reports one MusicBrainz work claimed by several catalog
// numbers, usually a sign of a stale edition alias in the dataset.
type Duplicate struct {
	GID     string
	Numbers []string
}

// CheckDuplicates finds MusicBrainz works matched by more than one of
// the given numbers.
func (d *DB) CheckDuplicates(ctx context.Context, composer string, def *schema.Scheme, schemeID string, numbers []string) ([]Duplicate, error) {
	byGID := make(map[string][]string)
	order := []string{}

	for _, number := range numbers {
		works, err := d.Lookup(ctx, composer, FormatForMB(def, schemeID, number))
		if err != nil {
			return nil, err
		}
		for _, w := range works {
			if len(byGID[w.GID]) == 0 {
				order = append(order, w.GID)
			}
			byGID[w.GID] = append(byGID[w.GID], number)
		}
	}

	var out []Duplicate
	for _, gid := range order {
		if nums := byGID[gid]; len(nums) > 1 {
			out = append(out, Duplicate{GID: gid, Numbers: nums})
		}
	}
	return out, nil
}
