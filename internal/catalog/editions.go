package catalog

import (
	"fmt"

	"github.com/werklab/wv/internal/schema"
)

// Warning kinds attached to otherwise successful resolutions.
const WarnSuperseded = "superseded"

// Warning is a non-fatal annotation on a query result, e.g. a superseded
// number silently mapped to its current canonical equivalent.
type Warning struct {
	Kind string
	From string
	To   string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s -> %s", w.Kind, w.From, w.To)
}

// Resolution is the outcome of edition resolution: the current canonical
// number, plus a Superseded warning when the input was an obsolete one.
type Resolution struct {
	Canonical string
	Warning   *Warning
}

// ResolveEdition maps a possibly obsolete catalog number to the current
// canonical number within this scheme.
//
// With an explicit edition, the (edition, number) pair is looked up
// directly; an explicit reference is never ambiguous and never warns.
// Without one, a current number passes through unchanged, a superseded
// number follows the alias chain to its current entry (warning attached,
// or ErrEditionNotFound under strict), and a number in no alias table at
// all is already canonical.
//
// Chain following is iterative with a visited set; a cycle is a
// DataIntegrityError, not a hang.
func (s *Scheme) ResolveEdition(number, edition string, strict bool) (Resolution, error) {
	num := Normalize(number)

	if edition != "" {
		ed, ok := s.byEditionNumber[edition]
		if !ok {
			return Resolution{}, fmt.Errorf("edition %q: %w", edition, ErrEditionNotFound)
		}
		alias, ok := ed[num]
		if !ok {
			return Resolution{}, fmt.Errorf("edition %q number %q: %w", edition, number, ErrEditionNotFound)
		}
		return Resolution{Canonical: alias.Canonical}, nil
	}

	aliases := s.byNumber[num]
	if len(aliases) == 0 {
		// Unknown to every edition table: already canonical.
		return Resolution{Canonical: number}, nil
	}

	for _, a := range aliases {
		if a.Status == schema.EditionCurrent {
			return Resolution{Canonical: a.Number}, nil
		}
	}

	canonical, err := s.followChain(num)
	if err != nil {
		return Resolution{}, err
	}
	if strict {
		return Resolution{}, fmt.Errorf("superseded number %q: %w", number, ErrEditionNotFound)
	}
	return Resolution{
		Canonical: canonical,
		Warning:   &Warning{Kind: WarnSuperseded, From: number, To: canonical},
	}, nil
}

// followChain walks superseded -> canonical links until it reaches a
// current entry or a number no alias table mentions (a pass-through
// terminal).
func (s *Scheme) followChain(num string) (string, error) {
	visited := map[string]bool{num: true}
	cur := num

	for {
		aliases := s.byNumber[cur]
		if len(aliases) == 0 {
			return cur, nil
		}

		next := ""
		for _, a := range aliases {
			if a.Status == schema.EditionCurrent {
				return a.Number, nil
			}
			next = Normalize(a.Canonical)
		}

		if visited[next] {
			return "", &DataIntegrityError{
				Scheme: s.ID,
				Detail: fmt.Sprintf("cyclic edition alias chain at %q", cur),
			}
		}
		visited[next] = true
		cur = next
	}
}

// CheckEditionIntegrity verifies every alias chain terminates in a
// current entry without cycles. Used by validate before trusting a
// scheme's alias graph.
func (s *Scheme) CheckEditionIntegrity() error {
	for num := range s.byNumber {
		if _, err := s.followChain(num); err != nil {
			return err
		}
	}
	return nil
}

// SupersededAliases returns the scheme's superseded alias entries, for
// callers that enumerate obsolete numbers (range warnings, validation).
func (s *Scheme) SupersededAliases() []*schema.EditionAlias {
	var out []*schema.EditionAlias
	for _, aliases := range s.byNumber {
		for _, a := range aliases {
			if a.Status == schema.EditionSuperseded {
				out = append(out, a)
			}
		}
	}
	return out
}
