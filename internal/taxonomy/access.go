package taxonomy

import (
	"errors"
	"fmt"
	"strings"
)

// AccessKind is a single way of touching a field.
type AccessKind uint8

// Access kind constants.
const (
	Get AccessKind = 1 << iota
	Set
)

// String returns the upper-case name of the kind.
func (k AccessKind) String() string {
	switch k {
	case Get:
		return "GET"
	case Set:
		return "SET"
	default:
		return fmt.Sprintf("AccessKind(%d)", uint8(k))
	}
}

// AccessKinds is a set of access kinds.
type AccessKinds uint8

// The recognized access kind sets.
const (
	GetOnly   = AccessKinds(Get)
	SetOnly   = AccessKinds(Set)
	GetAndSet = AccessKinds(Get | Set)
)

// KindsOf builds a set from individual kinds.
func KindsOf(kinds ...AccessKind) AccessKinds {
	var s AccessKinds
	for _, k := range kinds {
		s |= AccessKinds(k)
	}
	return s
}

// Has reports whether k is a member of the set.
func (s AccessKinds) Has(k AccessKind) bool {
	return k != 0 && s&AccessKinds(k) == AccessKinds(k)
}

// String renders the set as e.g. "{GET, SET}".
func (s AccessKinds) String() string {
	var parts []string
	for _, k := range []AccessKind{Get, Set} {
		if s.Has(k) {
			parts = append(parts, k.String())
		}
	}
	if rest := s &^ GetAndSet; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%02x", uint8(rest)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ErrUnrecognizedAccessKinds is returned when an access kind set has no
// verb in the field access vocabulary.
var ErrUnrecognizedAccessKinds = errors.New("unrecognized access kinds")

// Verb returns the verb used in field access messages for the given set.
// Only {GET}, {SET} and {GET, SET} have a verb; every other set is an error.
func Verb(s AccessKinds) (string, error) {
	switch s {
	case GetOnly:
		return "gets", nil
	case SetOnly:
		return "sets", nil
	case GetAndSet:
		return "accesses", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnrecognizedAccessKinds, s)
	}
}

// ParseAccessKind converts a configuration value into an AccessKind.
// Accepts get/read and set/write, case-insensitively.
func ParseAccessKind(s string) (AccessKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "get", "read":
		return Get, nil
	case "set", "write":
		return Set, nil
	default:
		return 0, fmt.Errorf("unknown access kind %q: must be 'get' or 'set'", s)
	}
}
