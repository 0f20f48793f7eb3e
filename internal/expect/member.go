// Package expect describes expected members (fields, methods and
// constructors) and renders them into the exact diagnostic an access
// analysis reports, so tests can assert on reported violations.
package expect

import (
	"path"
	"reflect"
	"slices"
	"strings"
)

// TypeName identifies the type owning a member. Package-level functions
// have no owning type and carry only the package.
type TypeName struct {
	// Package is the import path (or dotted package name) of the type.
	Package string

	// Name is the declared type name, empty for package-level members.
	Name string
}

// ParseTypeName splits a qualified name at the last dot following the
// last slash. "example.com/shop.Cart" and "com.example.Foo" carry a type
// name; "example.com/shop" names only a package. A dotted package path
// without a slash cannot be told apart from a type name, so
// "example.com" parses as package "example" and type "com".
func ParseTypeName(s string) TypeName {
	s = strings.TrimPrefix(strings.TrimSpace(s), "*")
	slash := strings.LastIndex(s, "/")
	dot := strings.LastIndex(s[slash+1:], ".")
	if dot < 0 {
		return TypeName{Package: s}
	}
	dot += slash + 1
	return TypeName{Package: s[:dot], Name: s[dot+1:]}
}

// QualifiedName returns "<package>.<name>", or just the package for
// package-level owners.
func (t TypeName) QualifiedName() string {
	switch {
	case t.Name == "":
		return t.Package
	case t.Package == "":
		return t.Name
	default:
		return t.Package + "." + t.Name
	}
}

// SimpleName returns the unqualified type name, falling back to the last
// element of the package path.
func (t TypeName) SimpleName() string {
	if t.Name != "" {
		return strings.TrimPrefix(t.Name, "*")
	}
	return path.Base(t.Package)
}

// String implements fmt.Stringer.
func (t TypeName) String() string {
	return t.QualifiedName()
}

// EquivalentTo reports whether t and other denote the same type. Pointer
// markers and vendor directory prefixes are ignored, so a type seen
// through a vendored copy is equivalent to the original.
func (t TypeName) EquivalentTo(other TypeName) bool {
	return t.canonical() == other.canonical()
}

func (t TypeName) canonical() TypeName {
	pkg := t.Package
	if i := strings.LastIndex(pkg, "/vendor/"); i >= 0 {
		pkg = pkg[i+len("/vendor/"):]
	} else {
		pkg = strings.TrimPrefix(pkg, "vendor/")
	}
	return TypeName{Package: pkg, Name: strings.TrimPrefix(t.Name, "*")}
}

// Member is the capability an actual reported member exposes.
type Member interface {
	OwnerType() TypeName
	Name() string
}

// Parameterized is implemented by members with a parameter list. Members
// without it (fields) have an empty parameter sequence.
type Parameterized interface {
	ParameterTypeNames() []string
}

// isNil reports whether m is nil or wraps a nil pointer, map, slice,
// func or channel.
func isNil(m Member) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// parameterNames returns the parameter type names of m, or nil if m has
// no parameter list.
func parameterNames(m Member) []string {
	if p, ok := m.(Parameterized); ok {
		return p.ParameterTypeNames()
	}
	return nil
}

// Descriptor is the identity of an expected member: owning type, name
// and ordered parameter type names. Descriptors are immutable.
type Descriptor struct {
	owner  TypeName
	name   string
	params []string
}

func newDescriptor(owner TypeName, name string, params []string) Descriptor {
	return Descriptor{
		owner:  owner,
		name:   name,
		params: slices.Clone(params),
	}
}

// OwnerType returns the owning type.
func (d Descriptor) OwnerType() TypeName { return d.owner }

// Name returns the member name.
func (d Descriptor) Name() string { return d.name }

// ParameterTypeNames returns a copy of the parameter type names in
// declaration order.
func (d Descriptor) ParameterTypeNames() []string {
	return slices.Clone(d.params)
}

// Matches reports whether actual has an equivalent owning type, the same
// name and the same parameter type names in the same order.
func (d Descriptor) Matches(actual Member) bool {
	if isNil(actual) {
		return false
	}
	return actual.OwnerType().EquivalentTo(d.owner) &&
		actual.Name() == d.name &&
		slices.Equal(parameterNames(actual), d.params)
}

// String returns "<owner>.<name>".
func (d Descriptor) String() string {
	return d.owner.QualifiedName() + "." + d.name
}

// RenderMember renders any member as "<owner>.<name>(<p1>, <p2>)".
func RenderMember(m Member) string {
	return m.OwnerType().QualifiedName() + "." + m.Name() +
		"(" + strings.Join(parameterNames(m), ", ") + ")"
}
