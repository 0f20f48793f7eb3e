// Package check verifies expectations against the accesses reported by
// the scanner.
package check

import (
	"fmt"

	"github.com/unbound-force/archexpect/internal/expect"
	"github.com/unbound-force/archexpect/internal/scan"
	"github.com/unbound-force/archexpect/internal/taxonomy"
)

// Satisfies reports whether access a is an occurrence of expectation e:
// origin and target match, the target kinds agree, a field access was
// made with exactly the expected access kinds, and the line agrees when
// the expectation names one.
func Satisfies(e expect.Expectation, a scan.Access) bool {
	if a.Kind != e.Target.Kind() {
		return false
	}
	if a.Kind == taxonomy.FieldTarget && a.Accesses != e.Target.Accesses() {
		return false
	}
	if e.Line > 0 && a.Line() != e.Line {
		return false
	}
	return e.Origin.Matches(a.Origin) && e.Target.Matches(a.Target)
}

// Run evaluates every expectation against accesses.
func Run(expectations []expect.Expectation, accesses []scan.Access) ([]taxonomy.ExpectationResult, error) {
	results := make([]taxonomy.ExpectationResult, 0, len(expectations))
	for i, e := range expectations {
		r, err := Evaluate(e, accesses)
		if err != nil {
			return nil, fmt.Errorf("expectation %d: %w", i, err)
		}
		results = append(results, r)
	}
	return results, nil
}

// Evaluate checks a single expectation. The expectation is found when
// the message it renders at the line of an occurrence equals the
// message reported for that occurrence.
func Evaluate(e expect.Expectation, accesses []scan.Access) (taxonomy.ExpectationResult, error) {
	r := taxonomy.ExpectationResult{
		ID:          e.ID(),
		Origin:      e.Origin.Render(),
		Target:      e.Target.Render(),
		Kind:        e.Target.Kind(),
		Occurrences: []taxonomy.Occurrence{},
	}

	if e.Line > 0 {
		msg, err := e.Message()
		if err != nil {
			return r, err
		}
		r.Expected = msg
	}

	for _, a := range accesses {
		if !Satisfies(e, a) {
			continue
		}
		reported, err := a.Message()
		if err != nil {
			return r, fmt.Errorf("rendering access at %s: %w", a.Position, err)
		}
		expected, err := e.MessageAt(a.Line())
		if err != nil {
			return r, err
		}
		if r.Expected == "" {
			r.Expected = expected
		}
		if reported == expected {
			r.Found = true
		}
		r.Occurrences = append(r.Occurrences, taxonomy.Occurrence{
			Line:    a.Line(),
			Message: reported,
		})
	}

	return r, nil
}
