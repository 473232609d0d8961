// Package display renders dataset values for humans: musical keys in
// several languages, catalog numbers in their canonical casing, and the
// composed fallback titles for works that have none.
package display

import (
	"sort"
	"strconv"
	"strings"

	"github.com/werklab/wv/internal/catalog"
	"github.com/werklab/wv/internal/schema"
)

// Options select the rendering language and accidental style.
type Options struct {
	Language   string // "en" or "de"
	KeySymbols string // "unicode" or "ascii"
}

var modeNames = map[string]map[string]string{
	"en": {
		"dor": "dorian",
		"phr": "phrygian",
		"lyd": "lydian",
		"mix": "mixolydian",
		"loc": "locrian",
	},
	"de": {
		"dor": "dorisch",
		"phr": "phrygisch",
		"lyd": "lydisch",
		"mix": "mixolydisch",
		"loc": "lokrisch",
	},
}

// ExpandKey renders a stored key like "c#", "Bb" or "d.dor" as prose.
// Uppercase letters are major, lowercase minor; a mode suffix replaces
// the major/minor quality. German output uses Dur/Moll compounds and the
// H/B note names.
func ExpandKey(key string, opts Options) string {
	if key == "" {
		return ""
	}

	letter := key[:1]
	rest := key[1:]

	accidental := ""
	if strings.HasPrefix(rest, "#") {
		accidental = "#"
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "b") {
		accidental = "b"
		rest = rest[1:]
	}

	mode := ""
	if strings.HasPrefix(rest, ".") {
		mode = rest[1:]
	} else if rest != "" {
		return key
	}

	minor := letter == strings.ToLower(letter)
	note := noteName(strings.ToUpper(letter), accidental, opts)

	if opts.Language == "de" {
		if mode != "" {
			if name, ok := modeNames["de"][mode]; ok {
				return note + " " + name
			}
			return key
		}
		if minor {
			return strings.ToLower(note[:1]) + note[1:] + "-Moll"
		}
		return note + "-Dur"
	}

	if mode != "" {
		if name, ok := modeNames["en"][mode]; ok {
			return note + " " + name
		}
		return key
	}
	if minor {
		return note + " minor"
	}
	return note + " major"
}

func noteName(letter, accidental string, opts Options) string {
	if opts.Language == "de" {
		// German names fold the flat into the letter for B/E/A and use
		// H for natural B.
		switch letter + accidental {
		case "B":
			return "H"
		case "Bb":
			return "B"
		case "Eb":
			return "Es"
		case "Ab":
			return "As"
		}
	}
	switch accidental {
	case "#":
		if opts.KeySymbols == "ascii" {
			return letter + "-sharp"
		}
		return letter + "♯"
	case "b":
		if opts.KeySymbols == "ascii" {
			return letter + "-flat"
		}
		return letter + "♭"
	}
	return letter
}

// FormatNumber renders a catalog number in the scheme's preferred
// casing, applying each sort key's display transform to its capture
// group. Numbers the pattern rejects render as stored.
func FormatNumber(s *catalog.Scheme, raw string) string {
	spans := s.Submatches(raw)
	if spans == nil {
		return raw
	}

	type edit struct {
		start, end int
		text       string
	}
	var edits []edit
	for _, sk := range s.Def.SortKeys {
		if sk.Display == "" {
			continue
		}
		i := sk.Group * 2
		if i+1 >= len(spans) || spans[i] < 0 {
			continue
		}
		edits = append(edits, edit{spans[i], spans[i+1], transform(raw[spans[i]:spans[i+1]], sk.Display)})
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	pos := 0
	for _, e := range edits {
		if e.start < pos {
			continue
		}
		b.WriteString(raw[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.WriteString(raw[pos:])
	return b.String()
}

func transform(s, style string) string {
	switch style {
	case "upper":
		return strings.ToUpper(s)
	case "lower":
		return strings.ToLower(s)
	case "title":
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
	}
	return s
}

// FormatCatalog renders a catalog reference with the scheme's canonical
// prefix, splitting sub-numbers out as "no. N": opus "10/3" becomes
// "op. 10 no. 3". A canonical_format may place the parts itself with
// {group} and {sub}; everything after {group} is dropped when the
// number has no sub-part.
func FormatCatalog(def *schema.Scheme, schemeID, number string) string {
	main := number
	sub := ""
	if i := strings.Index(number, "/"); i >= 0 {
		main, sub = number[:i], number[i+1:]
	}

	format := ""
	if def != nil {
		format = def.CanonicalFormat
	}
	if format == "" {
		out := strings.ToUpper(schemeID) + " " + main
		if sub != "" {
			out += " no. " + sub
		}
		return out
	}

	if strings.Contains(format, "{sub}") {
		if sub == "" {
			if j := strings.Index(format, "{group}"); j >= 0 {
				format = format[:j] + "{group}"
			} else {
				format = strings.TrimRight(format[:strings.Index(format, "{sub}")], " ")
			}
		} else {
			format = strings.ReplaceAll(format, "{sub}", sub)
		}
	}
	format = strings.ReplaceAll(format, "{group}", main)

	out := strings.ReplaceAll(format, "{number}", main)
	if sub != "" && !strings.Contains(def.CanonicalFormat, "{sub}") {
		out += " no. " + sub
	}
	return out
}

// FormatForm capitalizes a stored form for display.
func FormatForm(form string) string {
	return transform(form, "title")
}

// ComposedTitle builds the display title of a work: the stored title in
// the requested language when present, otherwise "Form in Key" from the
// work's metadata.
func ComposedTitle(comp *schema.Composition, opts Options) string {
	lang := opts.Language
	if lang == "" {
		lang = "en"
	}
	if t := comp.Title[lang]; t != "" {
		return t
	}
	if t := comp.Title["en"]; t != "" {
		return t
	}

	title := FormatForm(comp.Form)
	if comp.Key != "" {
		title += " in " + ExpandKey(comp.Key, opts)
	}
	return title
}

// ExpandedTitle is ComposedTitle with collection context: a member of a
// collection that declares an expansion pattern takes its title from the
// pattern. {n} is the work's one-based position in the collection, {key}
// the expanded key, {form} the capitalized form.
func ExpandedTitle(comp *schema.Composition, collections []schema.Collection, opts Options) string {
	lang := opts.Language
	if lang == "" {
		lang = "en"
	}
	if t := comp.Title[lang]; t != "" {
		return t
	}

	for _, coll := range collections {
		pattern := coll.ExpansionPattern[lang]
		if pattern == "" {
			pattern = coll.ExpansionPattern["en"]
		}
		if pattern == "" {
			continue
		}
		for i, member := range coll.Compositions {
			if member != comp.ID {
				continue
			}
			out := strings.ReplaceAll(pattern, "{n}", strconv.Itoa(i+1))
			out = strings.ReplaceAll(out, "{key}", ExpandKey(comp.Key, opts))
			out = strings.ReplaceAll(out, "{form}", FormatForm(comp.Form))
			return out
		}
	}

	return ComposedTitle(comp, opts)
}

// TruncateInstrumentation shortens long instrumentation strings for
// one-line listings.
func TruncateInstrumentation(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := s[:max]
	if i := strings.LastIndex(cut, ","); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,") + ", ..."
}
