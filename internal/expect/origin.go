package expect

import "fmt"

// SourceSuffix is appended to the origin's simple type name in location
// annotations. Reported diagnostics always use it, whatever the source
// language of the scanned code.
const SourceSuffix = ".java"

// Origin describes the member performing an access.
type Origin struct {
	Descriptor
}

// NewOrigin returns an origin descriptor.
func NewOrigin(owner TypeName, name string, params ...string) Origin {
	return Origin{Descriptor: newDescriptor(owner, name, params)}
}

// Render returns "<owner>.<name>(<params>)".
func (o Origin) Render() string {
	return RenderMember(o)
}

// Location returns the "(<Simple>.java:<line>)" annotation for an access
// made by origin at the given line.
func Location(origin Member, line int) string {
	return fmt.Sprintf("(%s%s:%d)", origin.OwnerType().SimpleName(), SourceSuffix, line)
}
