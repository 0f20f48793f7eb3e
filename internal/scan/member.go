package scan

import (
	"go/types"
	"strings"

	"github.com/unbound-force/archexpect/internal/expect"
)

// Func is a function, method or constructor found in scanned code.
type Func struct {
	Owner  expect.TypeName
	Ident  string
	Params []string
}

// OwnerType implements expect.Member.
func (f Func) OwnerType() expect.TypeName { return f.Owner }

// Name implements expect.Member.
func (f Func) Name() string { return f.Ident }

// ParameterTypeNames implements expect.Parameterized.
func (f Func) ParameterTypeNames() []string { return f.Params }

// Field is a struct field or package-level variable found in scanned
// code. Package-level variables are owned by their package.
type Field struct {
	Owner expect.TypeName
	Ident string
}

// OwnerType implements expect.Member.
func (f Field) OwnerType() expect.TypeName { return f.Owner }

// Name implements expect.Member.
func (f Field) Name() string { return f.Ident }

// funcMember converts a function object into a Func. Package-level
// functions named New<T> whose first result is T or *T, for a type T
// declared in the same package, are reported as constructors of T.
func funcMember(fn *types.Func) (Func, bool) {
	fn = fn.Origin()
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return Func{}, false
	}

	params := make([]string, 0, sig.Params().Len())
	for i := 0; i < sig.Params().Len(); i++ {
		params = append(params, types.TypeString(sig.Params().At(i).Type(), nil))
	}

	if recv := sig.Recv(); recv != nil {
		owner, ok := typeNameOf(recv.Type())
		if !ok {
			owner = expect.TypeName{Package: pkgPath(fn.Pkg())}
		}
		return Func{Owner: owner, Ident: fn.Name(), Params: params}, true
	}

	if owner, ok := constructedType(fn, sig); ok {
		return Func{Owner: owner, Ident: expect.ConstructorName, Params: params}, true
	}

	return Func{
		Owner:  expect.TypeName{Package: pkgPath(fn.Pkg())},
		Ident:  fn.Name(),
		Params: params,
	}, true
}

// constructedType reports the type fn constructs when it follows the
// New<T> convention.
func constructedType(fn *types.Func, sig *types.Signature) (expect.TypeName, bool) {
	name, ok := strings.CutPrefix(fn.Name(), "New")
	if !ok || name == "" || fn.Pkg() == nil || sig.Results().Len() == 0 {
		return expect.TypeName{}, false
	}
	tn, ok := fn.Pkg().Scope().Lookup(name).(*types.TypeName)
	if !ok {
		return expect.TypeName{}, false
	}
	result, ok := namedOf(sig.Results().At(0).Type())
	if !ok || result.Obj() != tn {
		return expect.TypeName{}, false
	}
	return expect.TypeName{Package: pkgPath(tn.Pkg()), Name: tn.Name()}, true
}

// namedOf returns the named type behind t, dereferencing one pointer.
func namedOf(t types.Type) (*types.Named, bool) {
	t = types.Unalias(t)
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}
	n, ok := t.(*types.Named)
	if !ok {
		return nil, false
	}
	return n.Origin(), true
}

func typeNameOf(t types.Type) (expect.TypeName, bool) {
	n, ok := namedOf(t)
	if !ok {
		return expect.TypeName{}, false
	}
	return expect.TypeName{Package: pkgPath(n.Obj().Pkg()), Name: n.Obj().Name()}, true
}

// fieldOwner walks a selection's embedding path from its receiver type
// and returns the named struct type declaring the selected field.
func fieldOwner(recv types.Type, index []int) (expect.TypeName, bool) {
	t := recv
	for i, idx := range index {
		n, ok := namedOf(t)
		if !ok {
			return expect.TypeName{}, false
		}
		st, ok := n.Underlying().(*types.Struct)
		if !ok || idx >= st.NumFields() {
			return expect.TypeName{}, false
		}
		if i == len(index)-1 {
			return typeNameOf(n)
		}
		t = st.Field(idx).Type()
	}
	return expect.TypeName{}, false
}

func pkgPath(p *types.Package) string {
	if p == nil {
		return ""
	}
	return p.Path()
}
