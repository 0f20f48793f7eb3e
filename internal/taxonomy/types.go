// Package taxonomy defines the access vocabulary, target kinds, core
// report structures, and stable ID generation for archexpect results.
package taxonomy

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"
)

// TargetKind enumerates the kinds of member an access can point at.
type TargetKind string

// Target kind constants.
const (
	FieldTarget       TargetKind = "field"
	MethodTarget      TargetKind = "method"
	ConstructorTarget TargetKind = "constructor"
)

// ParseTargetKind converts a configuration value into a TargetKind.
func ParseTargetKind(s string) (TargetKind, error) {
	switch k := TargetKind(s); k {
	case FieldTarget, MethodTarget, ConstructorTarget:
		return k, nil
	default:
		return "", fmt.Errorf("unknown target kind %q: must be 'field', 'method', or 'constructor'", s)
	}
}

// Occurrence is a single reported access that satisfied an expectation.
type Occurrence struct {
	// Line is the source line of the access in the origin.
	Line int `json:"line"`

	// Message is the diagnostic rendered for the reported access.
	Message string `json:"message"`
}

// ExpectationResult is the outcome of checking one expectation against
// the accesses reported for the scanned packages.
type ExpectationResult struct {
	// ID is a stable identifier for diffing across runs.
	// Generated from sha256(origin+target+kind+line).
	ID string `json:"id"`

	// Origin is the rendered expected origin, e.g.
	// "example.com/shop.Cart.Checkout(int)".
	Origin string `json:"origin"`

	// Target is the rendered expected target.
	Target string `json:"target"`

	// Kind is the kind of the expected target.
	Kind TargetKind `json:"kind"`

	// Expected is the message the expectation renders to. Empty when
	// the expectation has no line and nothing matched.
	Expected string `json:"expected,omitempty"`

	// Found reports whether Expected appears among the messages of the
	// matched occurrences.
	Found bool `json:"found"`

	// Occurrences lists the reported accesses matching the expectation.
	Occurrences []Occurrence `json:"occurrences"`
}

// AccessRecord is the flattened form of one access reported by the
// scanner, used for scan output.
type AccessRecord struct {
	Origin   string     `json:"origin"`
	Target   string     `json:"target"`
	Kind     TargetKind `json:"kind"`
	Access   string     `json:"access,omitempty"`
	Location string     `json:"location"`
	Message  string     `json:"message"`
}

// Summary aggregates a set of expectation results.
type Summary struct {
	Total     int `json:"total"`
	Satisfied int `json:"satisfied"`
	Missing   int `json:"missing"`
}

// Summarize counts satisfied and missing expectations.
func Summarize(results []ExpectationResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Found {
			s.Satisfied++
		} else {
			s.Missing++
		}
	}
	return s
}

// Metadata holds run metadata.
type Metadata struct {
	Version   string        `json:"version"`
	GoVersion string        `json:"go_version"`
	Patterns  []string      `json:"patterns"`
	Timestamp time.Time     `json:"-"`
	Duration  time.Duration `json:"-"`
}

// MarshalJSON customizes JSON encoding to use duration_ms and
// ISO 8601 timestamp.
func (m Metadata) MarshalJSON() ([]byte, error) {
	type Alias Metadata
	ts := ""
	if !m.Timestamp.IsZero() {
		ts = m.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(&struct {
		Alias
		DurationMS int64  `json:"duration_ms"`
		Timestamp  string `json:"timestamp,omitempty"`
	}{
		Alias:      Alias(m),
		DurationMS: m.Duration.Milliseconds(),
		Timestamp:  ts,
	})
}

// GenerateID produces a stable, deterministic ID for an expectation
// based on its identity. The ID is a sha256 hash truncated to 8 hex
// characters, prefixed with "ex-".
func GenerateID(origin, target string, kind TargetKind, line int) string {
	input := fmt.Sprintf("%s:%s:%s:%d", origin, target, kind, line)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("ex-%x", hash[:4])
}
