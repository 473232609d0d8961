package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrSchemeNotFound is returned by Registry.Lookup for an unknown
	// scheme id or alias.
	ErrSchemeNotFound = errors.New("catalog scheme not found")

	// ErrEditionNotFound is returned for an unknown (edition, number)
	// pair, and by strict-mode resolution of a superseded number. Callers
	// that set strict distinguish the two cases themselves.
	ErrEditionNotFound = errors.New("edition number not found")

	// ErrAmbiguousRange is returned when a range's start sorts after its
	// end, or when a scheme forbids ranges spanning multiple groups.
	ErrAmbiguousRange = errors.New("ambiguous range")
)

// ParseErrorKind distinguishes why a raw number was rejected.
type ParseErrorKind int

const (
	// NoMatch: the raw string did not fully match the scheme's pattern.
	NoMatch ParseErrorKind = iota
	// InvalidGroup: a capture group typed int or roman holds text that
	// cannot be read as that type.
	InvalidGroup
)

func (k ParseErrorKind) String() string {
	switch k {
	case NoMatch:
		return "no match"
	case InvalidGroup:
		return "invalid group"
	}
	return "unknown"
}

// ParseError reports a raw catalog number the scheme's pattern rejects.
type ParseError struct {
	Kind   ParseErrorKind
	Scheme string
	Raw    string
	Group  int // 1-based capture group for InvalidGroup, 0 otherwise
}

func (e *ParseError) Error() string {
	if e.Kind == InvalidGroup {
		return fmt.Sprintf("%s: %q: group %d: %s", e.Scheme, e.Raw, e.Group, e.Kind)
	}
	return fmt.Sprintf("%s: %q: %s", e.Scheme, e.Raw, e.Kind)
}

// DataIntegrityError marks malformed scheme data: a cyclic edition alias
// chain or a sort-key collision between distinct compositions. It poisons
// the scheme it names, not the whole process.
type DataIntegrityError struct {
	Scheme string
	Detail string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("scheme %s: data integrity: %s", e.Scheme, e.Detail)
}
