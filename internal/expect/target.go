package expect

import (
	"errors"
	"fmt"

	"github.com/unbound-force/archexpect/internal/taxonomy"
)

// ConstructorName is the reserved member name of every constructor.
const ConstructorName = "<init>"

// Errors returned while rendering messages.
var (
	ErrMissingOrigin     = errors.New("access event has no origin")
	ErrMissingTarget     = errors.New("access event has no target")
	ErrInvalidLine       = errors.New("access event line number must be positive")
	ErrUnknownTargetKind = errors.New("unknown target kind")
)

// AccessEvent is an access reported by an analysis engine: the origin
// made an access to target at the given line of the origin's source.
type AccessEvent struct {
	Origin     Member
	Target     Member
	LineNumber int
}

// Target describes the member being accessed. It is one of three
// variants selected by Kind: a field carrying the access kinds it is
// expected to be touched with, a method, or a constructor.
type Target struct {
	Descriptor
	kind     taxonomy.TargetKind
	accesses taxonomy.AccessKinds
	verb     string
}

// NewFieldTarget returns a field target. The verb for the access kinds is
// resolved here; sets without a verb are rejected.
func NewFieldTarget(owner TypeName, name string, accesses taxonomy.AccessKinds) (Target, error) {
	verb, err := taxonomy.Verb(accesses)
	if err != nil {
		return Target{}, fmt.Errorf("field target %s.%s: %w", owner.QualifiedName(), name, err)
	}
	return Target{
		Descriptor: newDescriptor(owner, name, nil),
		kind:       taxonomy.FieldTarget,
		accesses:   accesses,
		verb:       verb,
	}, nil
}

// NewMethodTarget returns a method target.
func NewMethodTarget(owner TypeName, name string, params ...string) Target {
	return Target{
		Descriptor: newDescriptor(owner, name, params),
		kind:       taxonomy.MethodTarget,
	}
}

// NewConstructorTarget returns a constructor target. Its name is always
// ConstructorName.
func NewConstructorTarget(owner TypeName, params ...string) Target {
	return Target{
		Descriptor: newDescriptor(owner, ConstructorName, params),
		kind:       taxonomy.ConstructorTarget,
	}
}

// Kind returns the target variant.
func (t Target) Kind() taxonomy.TargetKind { return t.kind }

// Accesses returns the expected access kinds of a field target, zero for
// other kinds.
func (t Target) Accesses() taxonomy.AccessKinds { return t.accesses }

// Render returns the target as it appears in messages: fields without a
// parameter list, methods and constructors with one.
func (t Target) Render() string {
	switch t.kind {
	case taxonomy.MethodTarget, taxonomy.ConstructorTarget:
		return RenderMember(t)
	default:
		return t.String()
	}
}

// Template returns the message format with slots for the origin, the
// target and the location.
func (t Target) Template() (string, error) {
	switch t.kind {
	case taxonomy.FieldTarget:
		return "Method <%s> " + t.verb + " field <%s> in %s", nil
	case taxonomy.MethodTarget:
		return "Method <%s> calls method <%s> in %s", nil
	case taxonomy.ConstructorTarget:
		return "Method <%s> calls constructor <%s> in %s", nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownTargetKind, t.kind)
	}
}

// RenderMessage renders the diagnostic for ev with this target as the
// accessed member. The origin and the location come from ev.
func (t Target) RenderMessage(ev AccessEvent) (string, error) {
	switch {
	case isNil(ev.Origin):
		return "", ErrMissingOrigin
	case isNil(ev.Target):
		return "", ErrMissingTarget
	case ev.LineNumber <= 0:
		return "", fmt.Errorf("%w: got %d", ErrInvalidLine, ev.LineNumber)
	}
	tmpl, err := t.Template()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(tmpl, RenderMember(ev.Origin), t.Render(), Location(ev.Origin, ev.LineNumber)), nil
}

// Expectation pairs an expected origin with an expected target. Line is
// the expected source line, or zero when any line is acceptable.
type Expectation struct {
	Origin Origin
	Target Target
	Line   int
}

// Message renders the expectation on its own, without a reported event.
func (e Expectation) Message() (string, error) {
	return e.MessageAt(e.Line)
}

// MessageAt renders the expectation as if the access was at line.
func (e Expectation) MessageAt(line int) (string, error) {
	return e.Target.RenderMessage(AccessEvent{
		Origin:     e.Origin,
		Target:     e.Target,
		LineNumber: line,
	})
}

// ID returns a stable identifier for the expectation.
func (e Expectation) ID() string {
	return taxonomy.GenerateID(e.Origin.Render(), e.Target.Render(), e.Target.Kind(), e.Line)
}
