package catalog

import (
	"strconv"
	"strings"
)

// Number is a raw catalog reference parsed against its scheme. Groups
// holds capture groups 1..n in order; an empty string is an absent group.
// A Number exists only for raw strings the scheme's pattern matched in
// full.
type Number struct {
	Scheme  string
	Raw     string
	Groups  []string
	Edition string
}

// Parse matches raw against the scheme's pattern and captures its groups.
// Integer-typed groups tolerate leading zeros ("007" orders as 7) but the
// raw text is preserved for display.
func (s *Scheme) Parse(raw string) (*Number, error) {
	raw = strings.TrimSpace(raw)
	if s.re == nil {
		// Schemes without a pattern treat the whole number as one
		// opaque string group.
		return &Number{Scheme: s.ID, Raw: raw, Groups: []string{raw}}, nil
	}

	m := s.re.FindStringSubmatch(raw)
	if m == nil {
		return nil, &ParseError{Kind: NoMatch, Scheme: s.ID, Raw: raw}
	}

	groups := make([]string, len(m)-1)
	for i := 1; i < len(m); i++ {
		groups[i-1] = strings.TrimSpace(m[i])
	}

	for _, sk := range s.Def.SortKeys {
		text := groupText(groups, sk.Group)
		if text == "" {
			continue
		}
		switch sk.Type {
		case "int":
			if _, err := strconv.ParseInt(text, 10, 64); err != nil {
				return nil, &ParseError{Kind: InvalidGroup, Scheme: s.ID, Raw: raw, Group: sk.Group}
			}
		case "roman":
			if !isRoman(text) {
				return nil, &ParseError{Kind: InvalidGroup, Scheme: s.ID, Raw: raw, Group: sk.Group}
			}
		}
	}

	return &Number{Scheme: s.ID, Raw: raw, Groups: groups}, nil
}

// Submatches returns the byte spans of raw's capture groups against the
// scheme's pattern, nil when raw does not match or the scheme has no
// pattern. Display formatting uses the spans to restyle individual
// groups in place.
func (s *Scheme) Submatches(raw string) []int {
	if s.re == nil {
		return nil
	}
	return s.re.FindStringSubmatchIndex(raw)
}

// groupText returns the text of 1-based capture group g, "" when absent.
func groupText(groups []string, g int) string {
	if g < 1 || g > len(groups) {
		return ""
	}
	return groups[g-1]
}

func isRoman(s string) bool {
	for _, c := range strings.ToUpper(s) {
		if !strings.ContainsRune("IVXLCDM", c) {
			return false
		}
	}
	return len(s) > 0
}

// parseRoman reads a roman numeral additively from the right, handling
// subtractive pairs (IV, IX, XL, ...). Non-roman input yields 0.
func parseRoman(s string) int64 {
	vals := map[rune]int64{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000}

	var total, prev int64
	upper := strings.ToUpper(s)
	runes := []rune(upper)
	for i := len(runes) - 1; i >= 0; i-- {
		v, ok := vals[runes[i]]
		if !ok {
			return 0
		}
		if v < prev {
			total -= v
		} else {
			total += v
		}
		prev = v
	}
	return total
}
