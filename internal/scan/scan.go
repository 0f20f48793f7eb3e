// Package scan discovers the accesses Go code makes: method and
// function calls, constructor calls and field reads and writes. Each
// access is reported with actual members that expectations match
// against.
package scan

import (
	"cmp"
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/packages"

	"github.com/unbound-force/archexpect/internal/expect"
	"github.com/unbound-force/archexpect/internal/taxonomy"
)

// Access is one access found in scanned code.
type Access struct {
	// Origin is the function or method making the access.
	Origin Func

	// Target is the accessed member, a Func or a Field.
	Target expect.Member

	// Kind is the kind of the accessed member.
	Kind taxonomy.TargetKind

	// Accesses is the set of access kinds of a field access: {GET},
	// {SET}, or {GET, SET} for compound assignments. Zero otherwise.
	Accesses taxonomy.AccessKinds

	// Position is the source position of the access.
	Position token.Position
}

// Line returns the source line of the access.
func (a Access) Line() int { return a.Position.Line }

// Event returns the access as an expect.AccessEvent.
func (a Access) Event() expect.AccessEvent {
	return expect.AccessEvent{
		Origin:     a.Origin,
		Target:     a.Target,
		LineNumber: a.Position.Line,
	}
}

// Descriptor describes the accessed member as an expectation target.
// Field targets carry the access kinds of this access.
func (a Access) Descriptor() (expect.Target, error) {
	switch a.Kind {
	case taxonomy.FieldTarget:
		return expect.NewFieldTarget(a.Target.OwnerType(), a.Target.Name(), a.Accesses)
	case taxonomy.MethodTarget:
		return expect.NewMethodTarget(a.Target.OwnerType(), a.Target.Name(), paramsOf(a.Target)...), nil
	case taxonomy.ConstructorTarget:
		return expect.NewConstructorTarget(a.Target.OwnerType(), paramsOf(a.Target)...), nil
	default:
		return expect.Target{}, fmt.Errorf("%w %q", expect.ErrUnknownTargetKind, a.Kind)
	}
}

// Message renders the diagnostic reported for this access.
func (a Access) Message() (string, error) {
	target, err := a.Descriptor()
	if err != nil {
		return "", err
	}
	return target.RenderMessage(a.Event())
}

// Record flattens the access for output.
func (a Access) Record() (taxonomy.AccessRecord, error) {
	target, err := a.Descriptor()
	if err != nil {
		return taxonomy.AccessRecord{}, err
	}
	msg, err := target.RenderMessage(a.Event())
	if err != nil {
		return taxonomy.AccessRecord{}, err
	}
	rec := taxonomy.AccessRecord{
		Origin:   expect.RenderMember(a.Origin),
		Target:   target.Render(),
		Kind:     a.Kind,
		Location: a.Position.String(),
		Message:  msg,
	}
	if a.Kind == taxonomy.FieldTarget {
		rec.Access = a.Accesses.String()
	}
	return rec, nil
}

func paramsOf(m expect.Member) []string {
	if p, ok := m.(expect.Parameterized); ok {
		return p.ParameterTypeNames()
	}
	return nil
}

// ScanAll scans every package concurrently. Accesses seen in more than
// one package (test variants share files with their package) are
// reported once. The result is ordered by source position.
func ScanAll(ctx context.Context, pkgs []*packages.Package) ([]Access, error) {
	found := make([][]Access, len(pkgs))

	g, ctx := errgroup.WithContext(ctx)
	for i, pkg := range pkgs {
		if strings.HasSuffix(pkg.PkgPath, ".test") {
			// Synthesized test main.
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			found[i] = Package(pkg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanning packages: %w", err)
	}

	seen := make(map[string]bool)
	var all []Access
	for _, accesses := range found {
		for _, a := range accesses {
			key := fmt.Sprintf("%s|%s|%s|%s|%d", a.Position, expect.RenderMember(a.Target), a.Kind, expect.RenderMember(a.Origin), a.Accesses)
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, a)
		}
	}
	sortAccesses(all)
	return all, nil
}

// Package scans the function bodies of a single package.
func Package(pkg *packages.Package) []Access {
	var accesses []Access
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Name == nil || fd.Body == nil {
				continue
			}
			fn, ok := pkg.TypesInfo.Defs[fd.Name].(*types.Func)
			if !ok {
				continue
			}
			origin, ok := funcMember(fn)
			if !ok {
				continue
			}
			s := &bodyScanner{
				fset:   pkg.Fset,
				info:   pkg.TypesInfo,
				origin: origin,
				writes: collectWrites(fd.Body),
			}
			ast.Inspect(fd.Body, s.visit)
			accesses = append(accesses, s.accesses...)
		}
	}
	sortAccesses(accesses)
	return accesses
}

// bodyScanner collects the accesses of one function body.
type bodyScanner struct {
	fset     *token.FileSet
	info     *types.Info
	origin   Func
	writes   map[ast.Expr]taxonomy.AccessKinds
	accesses []Access
}

func (s *bodyScanner) visit(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.CallExpr:
		s.call(n)
	case *ast.CompositeLit:
		s.composite(n)
	case *ast.SelectorExpr:
		s.selector(n)
	case *ast.Ident:
		s.ident(n)
	}
	return true
}

func (s *bodyScanner) call(call *ast.CallExpr) {
	var id *ast.Ident
	switch fun := astutil.Unparen(call.Fun).(type) {
	case *ast.Ident:
		id = fun
	case *ast.SelectorExpr:
		id = fun.Sel
	case *ast.IndexExpr:
		id = calleeIdent(fun.X)
	case *ast.IndexListExpr:
		id = calleeIdent(fun.X)
	}
	if id == nil {
		return
	}
	fn, ok := s.info.Uses[id].(*types.Func)
	if !ok {
		return
	}
	target, ok := funcMember(fn)
	if !ok {
		return
	}
	kind := taxonomy.MethodTarget
	if target.Ident == expect.ConstructorName {
		kind = taxonomy.ConstructorTarget
	}
	s.add(target, kind, 0, id.Pos())
}

func calleeIdent(x ast.Expr) *ast.Ident {
	switch x := astutil.Unparen(x).(type) {
	case *ast.Ident:
		return x
	case *ast.SelectorExpr:
		return x.Sel
	}
	return nil
}

func (s *bodyScanner) selector(sel *ast.SelectorExpr) {
	selection, ok := s.info.Selections[sel]
	if !ok || selection.Kind() != types.FieldVal {
		return
	}
	owner, ok := fieldOwner(selection.Recv(), selection.Index())
	if !ok {
		return
	}
	s.field(Field{Owner: owner, Ident: sel.Sel.Name}, sel, sel.Sel.Pos())
}

// composite records keyed fields of a struct literal as writes to the
// literal's type. Anonymous struct literals have no owner and are skipped.
func (s *bodyScanner) composite(lit *ast.CompositeLit) {
	owner, ok := typeNameOf(s.info.TypeOf(lit))
	if !ok {
		return
	}
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		v, ok := s.info.Uses[key].(*types.Var)
		if !ok || !v.IsField() {
			continue
		}
		s.add(Field{Owner: owner, Ident: key.Name}, taxonomy.FieldTarget, taxonomy.SetOnly, key.Pos())
	}
}

// ident records accesses to package-level variables.
func (s *bodyScanner) ident(id *ast.Ident) {
	v, ok := s.info.Uses[id].(*types.Var)
	if !ok || v.IsField() || v.Pkg() == nil || v.Parent() != v.Pkg().Scope() {
		return
	}
	s.field(Field{Owner: expect.TypeName{Package: v.Pkg().Path()}, Ident: v.Name()}, id, id.Pos())
}

func (s *bodyScanner) field(f Field, expr ast.Expr, pos token.Pos) {
	kinds, ok := s.writes[expr]
	if !ok {
		kinds = taxonomy.GetOnly
	}
	s.add(f, taxonomy.FieldTarget, kinds, pos)
}

func (s *bodyScanner) add(target expect.Member, kind taxonomy.TargetKind, accesses taxonomy.AccessKinds, pos token.Pos) {
	s.accesses = append(s.accesses, Access{
		Origin:   s.origin,
		Target:   target,
		Kind:     kind,
		Accesses: accesses,
		Position: s.fset.Position(pos),
	})
}

// collectWrites maps every assigned expression in body to the access
// kinds of the assignment: plain assignment and range assignment set,
// compound assignment and increments both get and set. Qualified identifiers are recorded
// under their selector identifier as well.
func collectWrites(body *ast.BlockStmt) map[ast.Expr]taxonomy.AccessKinds {
	writes := make(map[ast.Expr]taxonomy.AccessKinds)
	mark := func(e ast.Expr, kinds taxonomy.AccessKinds) {
		e = astutil.Unparen(e)
		writes[e] = kinds
		if sel, ok := e.(*ast.SelectorExpr); ok {
			writes[sel.Sel] = kinds
		}
	}
	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.AssignStmt:
			kinds := taxonomy.GetAndSet
			if n.Tok == token.ASSIGN || n.Tok == token.DEFINE {
				kinds = taxonomy.SetOnly
			}
			for _, lhs := range n.Lhs {
				mark(lhs, kinds)
			}
		case *ast.IncDecStmt:
			mark(n.X, taxonomy.GetAndSet)
		case *ast.RangeStmt:
			if n.Tok != token.ASSIGN {
				break
			}
			if n.Key != nil {
				mark(n.Key, taxonomy.SetOnly)
			}
			if n.Value != nil {
				mark(n.Value, taxonomy.SetOnly)
			}
		}
		return true
	})
	return writes
}

func sortAccesses(accesses []Access) {
	slices.SortStableFunc(accesses, func(a, b Access) int {
		return cmp.Or(
			cmp.Compare(a.Position.Filename, b.Position.Filename),
			cmp.Compare(a.Position.Line, b.Position.Line),
			cmp.Compare(a.Position.Column, b.Position.Column),
			cmp.Compare(a.Accesses, b.Accesses),
		)
	})
}
