package expect

import (
	"errors"
	"strings"
	"testing"

	"github.com/unbound-force/archexpect/internal/taxonomy"
)

// reportedField is an actual member without a parameter list.
type reportedField struct {
	owner TypeName
	name  string
}

func (f reportedField) OwnerType() TypeName { return f.owner }
func (f reportedField) Name() string        { return f.name }

// reportedMethod is an actual member with a parameter list.
type reportedMethod struct {
	owner  TypeName
	name   string
	params []string
}

func (m reportedMethod) OwnerType() TypeName          { return m.owner }
func (m reportedMethod) Name() string                 { return m.name }
func (m reportedMethod) ParameterTypeNames() []string { return m.params }

// pointerMember has pointer receivers, so a nil *pointerMember panics
// when its methods are called.
type pointerMember struct {
	owner TypeName
	name  string
}

func (m *pointerMember) OwnerType() TypeName { return m.owner }
func (m *pointerMember) Name() string        { return m.name }

var (
	foo = TypeName{Package: "com.example", Name: "Foo"}
	bar = TypeName{Package: "com.example", Name: "Bar"}
)

func TestParseTypeName(t *testing.T) {
	tests := []struct {
		in   string
		want TypeName
	}{
		{"com.example.Foo", TypeName{Package: "com.example", Name: "Foo"}},
		{"example.com/shop.Cart", TypeName{Package: "example.com/shop", Name: "Cart"}},
		{"*example.com/shop.Cart", TypeName{Package: "example.com/shop", Name: "Cart"}},
		{"example.com/shop", TypeName{Package: "example.com/shop"}},
		{"Foo", TypeName{Package: "Foo"}},
		// A slash-free dotted path reads as package plus type.
		{"example.com", TypeName{Package: "example", Name: "com"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseTypeName(tt.in); got != tt.want {
				t.Errorf("ParseTypeName(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTypeName_Names(t *testing.T) {
	if got := foo.QualifiedName(); got != "com.example.Foo" {
		t.Errorf("QualifiedName() = %q", got)
	}
	if got := foo.SimpleName(); got != "Foo" {
		t.Errorf("SimpleName() = %q", got)
	}
	pkgOnly := TypeName{Package: "example.com/shop"}
	if got := pkgOnly.QualifiedName(); got != "example.com/shop" {
		t.Errorf("package-only QualifiedName() = %q", got)
	}
	if got := pkgOnly.SimpleName(); got != "shop" {
		t.Errorf("package-only SimpleName() = %q", got)
	}
}

func TestTypeName_EquivalentTo(t *testing.T) {
	orig := TypeName{Package: "example.com/shop", Name: "Cart"}
	tests := []struct {
		name  string
		other TypeName
		want  bool
	}{
		{"identical", TypeName{Package: "example.com/shop", Name: "Cart"}, true},
		{"pointer", TypeName{Package: "example.com/shop", Name: "*Cart"}, true},
		{"vendored", TypeName{Package: "example.com/app/vendor/example.com/shop", Name: "Cart"}, true},
		{"other name", TypeName{Package: "example.com/shop", Name: "Order"}, false},
		{"other package", TypeName{Package: "example.com/store", Name: "Cart"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := orig.EquivalentTo(tt.other); got != tt.want {
				t.Errorf("EquivalentTo(%v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func TestMatches_AllThreeMustHold(t *testing.T) {
	d := NewOrigin(foo, "bar", "int", "java.lang.String")
	actual := reportedMethod{owner: foo, name: "bar", params: []string{"int", "java.lang.String"}}

	if !d.Matches(actual) {
		t.Fatal("expected identical member to match")
	}

	tests := []struct {
		name   string
		actual Member
	}{
		{"owner differs", reportedMethod{owner: bar, name: "bar", params: []string{"int", "java.lang.String"}}},
		{"name differs", reportedMethod{owner: foo, name: "baz", params: []string{"int", "java.lang.String"}}},
		{"params differ", reportedMethod{owner: foo, name: "bar", params: []string{"int", "long"}}},
		{"params shorter", reportedMethod{owner: foo, name: "bar", params: []string{"int"}}},
		{"params longer", reportedMethod{owner: foo, name: "bar", params: []string{"int", "java.lang.String", "int"}}},
		{"params reordered", reportedMethod{owner: foo, name: "bar", params: []string{"java.lang.String", "int"}}},
		{"no params capability", reportedField{owner: foo, name: "bar"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if d.Matches(tt.actual) {
				t.Errorf("expected %s to not match", tt.name)
			}
		})
	}
}

func TestMatches_ParameterOrderIsSignificant(t *testing.T) {
	d := NewOrigin(foo, "m", "int", "String")
	if d.Matches(reportedMethod{owner: foo, name: "m", params: []string{"String", "int"}}) {
		t.Error("reordered parameters must not match")
	}
}

func TestMatches_FieldWithoutParameters(t *testing.T) {
	target, err := NewFieldTarget(foo, "counter", taxonomy.SetOnly)
	if err != nil {
		t.Fatal(err)
	}
	if !target.Matches(reportedField{owner: foo, name: "counter"}) {
		t.Error("field should match an actual member without a parameter list")
	}
	if !target.Matches(reportedMethod{owner: foo, name: "counter"}) {
		t.Error("empty parameter list should equal the absent one")
	}
}

func TestMatches_Nil(t *testing.T) {
	if NewOrigin(foo, "bar").Matches(nil) {
		t.Error("nil member must not match")
	}
	var typed *pointerMember
	if NewOrigin(foo, "bar").Matches(typed) {
		t.Error("nil pointer member must not match")
	}
	field, err := NewFieldTarget(foo, "count", taxonomy.GetOnly)
	if err != nil {
		t.Fatal(err)
	}
	if field.Matches(typed) {
		t.Error("nil pointer member must not match a field target")
	}
}

func TestDescriptor_Immutable(t *testing.T) {
	params := []string{"int"}
	d := NewOrigin(foo, "bar", params...)
	params[0] = "long"
	if got := d.ParameterTypeNames(); got[0] != "int" {
		t.Errorf("descriptor changed with caller slice: %v", got)
	}

	got := d.ParameterTypeNames()
	got[0] = "long"
	if d.Render() != "com.example.Foo.bar(int)" {
		t.Errorf("descriptor changed through returned slice: %s", d.Render())
	}
}

func TestOrigin_Render(t *testing.T) {
	o := NewOrigin(foo, "bar", "int", "java.lang.String")
	first := o.Render()
	if first != "com.example.Foo.bar(int, java.lang.String)" {
		t.Errorf("Render() = %q", first)
	}
	if second := o.Render(); second != first {
		t.Errorf("Render() not idempotent: %q != %q", first, second)
	}
	if got := NewOrigin(bar, "run").Render(); got != "com.example.Bar.run()" {
		t.Errorf("Render() without params = %q", got)
	}
}

func TestConstructorTarget_SentinelName(t *testing.T) {
	c := NewConstructorTarget(foo, "int")
	if c.Name() != ConstructorName {
		t.Errorf("Name() = %q, want %q", c.Name(), ConstructorName)
	}
	if got := c.Render(); got != "com.example.Foo.<init>(int)" {
		t.Errorf("Render() = %q", got)
	}
	if c.Kind() != taxonomy.ConstructorTarget {
		t.Errorf("Kind() = %q", c.Kind())
	}
}

func TestFieldTarget_InvalidAccessKinds(t *testing.T) {
	for _, kinds := range []taxonomy.AccessKinds{0, 4} {
		_, err := NewFieldTarget(foo, "counter", kinds)
		if err == nil {
			t.Errorf("NewFieldTarget(%s) expected error", kinds)
			continue
		}
		if !errors.Is(err, taxonomy.ErrUnrecognizedAccessKinds) {
			t.Errorf("error %v should wrap ErrUnrecognizedAccessKinds", err)
		}
		if !strings.Contains(err.Error(), "com.example.Foo.counter") {
			t.Errorf("error %q should name the field", err)
		}
	}
}

func TestRenderMessage_ScenarioMethod(t *testing.T) {
	origin := NewOrigin(bar, "run")
	target := NewMethodTarget(foo, "baz")

	got, err := target.RenderMessage(AccessEvent{Origin: origin, Target: target, LineNumber: 10})
	if err != nil {
		t.Fatal(err)
	}
	want := "Method <com.example.Bar.run()> calls method <com.example.Foo.baz()> in (Bar.java:10)"
	if got != want {
		t.Errorf("RenderMessage() =\n  %q\nwant\n  %q", got, want)
	}
}

func TestRenderMessage_ScenarioFieldWrite(t *testing.T) {
	origin := NewOrigin(bar, "run")
	target, err := NewFieldTarget(foo, "counter", taxonomy.SetOnly)
	if err != nil {
		t.Fatal(err)
	}

	got, err := target.RenderMessage(AccessEvent{Origin: origin, Target: target, LineNumber: 42})
	if err != nil {
		t.Fatal(err)
	}
	want := "Method <com.example.Bar.run()> sets field <com.example.Foo.counter> in (Bar.java:42)"
	if got != want {
		t.Errorf("RenderMessage() =\n  %q\nwant\n  %q", got, want)
	}
}

func TestRenderMessage_FieldVerbs(t *testing.T) {
	origin := NewOrigin(bar, "run")
	tests := []struct {
		kinds taxonomy.AccessKinds
		verb  string
	}{
		{taxonomy.GetOnly, "gets"},
		{taxonomy.SetOnly, "sets"},
		{taxonomy.GetAndSet, "accesses"},
	}
	for _, tt := range tests {
		target, err := NewFieldTarget(foo, "counter", tt.kinds)
		if err != nil {
			t.Fatal(err)
		}
		got, err := target.RenderMessage(AccessEvent{Origin: origin, Target: target, LineNumber: 7})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(got, "> "+tt.verb+" field <com.example.Foo.counter>") {
			t.Errorf("kinds %s: message %q lacks verb %q", tt.kinds, got, tt.verb)
		}
	}
}

func TestRenderMessage_ScenarioConstructor(t *testing.T) {
	origin := NewOrigin(bar, "run")
	target := NewConstructorTarget(foo, "int")

	got, err := target.RenderMessage(AccessEvent{Origin: origin, Target: target, LineNumber: 3})
	if err != nil {
		t.Fatal(err)
	}
	want := "Method <com.example.Bar.run()> calls constructor <com.example.Foo.<init>(int)> in (Bar.java:3)"
	if got != want {
		t.Errorf("RenderMessage() =\n  %q\nwant\n  %q", got, want)
	}
}

func TestRenderMessage_UsesEventOrigin(t *testing.T) {
	target := NewMethodTarget(foo, "baz")
	actualOrigin := reportedMethod{
		owner:  TypeName{Package: "example.com/shop", Name: "Cart"},
		name:   "Checkout",
		params: []string{"int"},
	}

	got, err := target.RenderMessage(AccessEvent{Origin: actualOrigin, Target: target, LineNumber: 5})
	if err != nil {
		t.Fatal(err)
	}
	want := "Method <example.com/shop.Cart.Checkout(int)> calls method <com.example.Foo.baz()> in (Cart.java:5)"
	if got != want {
		t.Errorf("RenderMessage() = %q, want %q", got, want)
	}
}

func TestRenderMessage_MalformedEvents(t *testing.T) {
	origin := NewOrigin(bar, "run")
	target := NewMethodTarget(foo, "baz")

	tests := []struct {
		name string
		ev   AccessEvent
		want error
	}{
		{"missing origin", AccessEvent{Target: target, LineNumber: 1}, ErrMissingOrigin},
		{"missing target", AccessEvent{Origin: origin, LineNumber: 1}, ErrMissingTarget},
		{"nil pointer origin", AccessEvent{Origin: (*pointerMember)(nil), Target: target, LineNumber: 1}, ErrMissingOrigin},
		{"nil pointer target", AccessEvent{Origin: origin, Target: (*pointerMember)(nil), LineNumber: 1}, ErrMissingTarget},
		{"zero line", AccessEvent{Origin: origin, Target: target}, ErrInvalidLine},
		{"negative line", AccessEvent{Origin: origin, Target: target, LineNumber: -4}, ErrInvalidLine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := target.RenderMessage(tt.ev)
			if !errors.Is(err, tt.want) {
				t.Errorf("RenderMessage() error = %v, want %v", err, tt.want)
			}
			if msg != "" {
				t.Errorf("RenderMessage() returned message %q alongside error", msg)
			}
		})
	}
}

func TestRenderMessage_ZeroTarget(t *testing.T) {
	var target Target
	_, err := target.RenderMessage(AccessEvent{Origin: NewOrigin(bar, "run"), Target: target, LineNumber: 1})
	if !errors.Is(err, ErrUnknownTargetKind) {
		t.Errorf("expected ErrUnknownTargetKind, got %v", err)
	}
}

func TestExpectation_Message(t *testing.T) {
	e := Expectation{
		Origin: NewOrigin(bar, "run"),
		Target: NewMethodTarget(foo, "baz"),
		Line:   10,
	}
	got, err := e.Message()
	if err != nil {
		t.Fatal(err)
	}
	want := "Method <com.example.Bar.run()> calls method <com.example.Foo.baz()> in (Bar.java:10)"
	if got != want {
		t.Errorf("Message() = %q, want %q", got, want)
	}

	if _, err := (Expectation{Origin: e.Origin, Target: e.Target}).Message(); !errors.Is(err, ErrInvalidLine) {
		t.Errorf("expectation without line should fail with ErrInvalidLine, got %v", err)
	}
}

func TestExpectation_ID(t *testing.T) {
	a := Expectation{Origin: NewOrigin(bar, "run"), Target: NewMethodTarget(foo, "baz"), Line: 10}
	b := Expectation{Origin: NewOrigin(bar, "run"), Target: NewConstructorTarget(foo), Line: 10}
	if a.ID() == b.ID() {
		t.Error("different targets should produce different IDs")
	}
	again := Expectation{Origin: NewOrigin(bar, "run"), Target: NewMethodTarget(foo, "baz"), Line: 10}
	if a.ID() != again.ID() {
		t.Error("ID not deterministic")
	}
}
