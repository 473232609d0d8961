package catalog

import (
	"sort"
	"strconv"
	"strings"
)

type valueKind int8

const (
	kindNoneFirst valueKind = iota
	kindInt
	kindStr
	kindNoneLast
)

// SortValue is one typed component of a sort key. Absent groups compare
// before any present value (noneFirst), so "812" orders before "812a";
// noneLast exists only as the inclusive ceiling for range upper bounds.
type SortValue struct {
	kind valueKind
	num  int64
	str  string
}

func IntValue(v int64) SortValue  { return SortValue{kind: kindInt, num: v} }
func StrValue(s string) SortValue { return SortValue{kind: kindStr, str: s} }
func NoneFirst() SortValue        { return SortValue{kind: kindNoneFirst} }
func NoneLast() SortValue         { return SortValue{kind: kindNoneLast} }

// Compare orders noneFirst < int < str < noneLast, ints numerically and
// strings lexicographically.
func (v SortValue) Compare(o SortValue) int {
	if v.kind != o.kind {
		if v.kind < o.kind {
			return -1
		}
		return 1
	}
	switch v.kind {
	case kindInt:
		switch {
		case v.num < o.num:
			return -1
		case v.num > o.num:
			return 1
		}
	case kindStr:
		return strings.Compare(v.str, o.str)
	}
	return 0
}

func (v SortValue) String() string {
	switch v.kind {
	case kindInt:
		return strconv.FormatInt(v.num, 10)
	case kindStr:
		return strconv.Quote(v.str)
	case kindNoneLast:
		return "+"
	}
	return "-"
}

// SortKey is the totally ordered key of a parsed number, one component
// per entry in the scheme's sort-key spec.
type SortKey []SortValue

// Compare is component-wise, left to right, first difference decides.
func (k SortKey) Compare(o SortKey) int {
	n := len(k)
	if len(o) < n {
		n = len(o)
	}
	for i := 0; i < n; i++ {
		if c := k[i].Compare(o[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k) < len(o):
		return -1
	case len(k) > len(o):
		return 1
	}
	return 0
}

func (k SortKey) String() string {
	parts := make([]string, len(k))
	for i, v := range k {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Key generates the sort key for a parsed number: one component per
// sort-key spec entry, typed per the spec, noneFirst for absent groups.
func (s *Scheme) Key(n *Number) SortKey {
	if len(s.Def.SortKeys) == 0 {
		return SortKey{StrValue(Normalize(n.Raw))}
	}

	key := make(SortKey, 0, len(s.Def.SortKeys))
	for _, sk := range s.Def.SortKeys {
		text := groupText(n.Groups, sk.Group)
		if text == "" {
			key = append(key, NoneFirst())
			continue
		}
		switch sk.Type {
		case "int":
			v, _ := strconv.ParseInt(text, 10, 64)
			key = append(key, IntValue(v))
		case "roman":
			key = append(key, IntValue(parseRoman(text)))
		default:
			key = append(key, StrValue(Normalize(text)))
		}
	}
	return key
}

// KeyForRaw parses raw and generates its key in one step.
func (s *Scheme) KeyForRaw(raw string) (SortKey, error) {
	n, err := s.Parse(raw)
	if err != nil {
		return nil, err
	}
	return s.Key(n), nil
}

// GroupPrefix returns the key components that define group membership:
// the scheme's group_by groups when declared, otherwise every component
// but the last. An absent component in the prefix matches any value.
func (s *Scheme) GroupPrefix(n *Number) SortKey {
	comps := s.Def.GroupComponents()
	key := s.Key(n)

	prefix := make(SortKey, 0, len(comps))
	for i, sk := range s.Def.SortKeys {
		for _, g := range comps {
			if sk.Group == g {
				prefix = append(prefix, key[i])
			}
		}
	}
	return prefix
}

// matchesPrefix reports whether a candidate's group prefix matches the
// query's: components the query leaves absent are wildcards, everything
// else must compare equal.
func matchesPrefix(query, candidate SortKey) bool {
	if len(query) != len(candidate) {
		return false
	}
	for i := range query {
		if query[i].kind == kindNoneFirst {
			continue
		}
		if query[i].Compare(candidate[i]) != 0 {
			return false
		}
	}
	return true
}

// inclusiveCeiling lifts trailing absent components of a range's upper
// bound to noneLast, so the bound "11" still admits "11/4" and "11a".
func inclusiveCeiling(k SortKey) SortKey {
	out := make(SortKey, len(k))
	copy(out, k)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i].kind != kindNoneFirst {
			break
		}
		out[i] = NoneLast()
	}
	return out
}

// fallbackKey orders numbers the scheme cannot parse after everything it
// can, alphabetically among themselves.
func fallbackKey(raw string) SortKey {
	return SortKey{NoneLast(), StrValue(Normalize(raw))}
}

// SortNumbers orders raw numbers in place by the scheme's total order.
// Numbers the pattern rejects sort last, alphabetically.
func (s *Scheme) SortNumbers(numbers []string) {
	keys := make(map[string]SortKey, len(numbers))
	for _, num := range numbers {
		if key, err := s.KeyForRaw(num); err == nil {
			keys[num] = key
		} else {
			keys[num] = fallbackKey(num)
		}
	}
	sort.SliceStable(numbers, func(i, j int) bool {
		return keys[numbers[i]].Compare(keys[numbers[j]]) < 0
	})
}
