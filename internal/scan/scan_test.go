package scan_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"

	"github.com/unbound-force/archexpect/internal/expect"
	"github.com/unbound-force/archexpect/internal/loader"
	"github.com/unbound-force/archexpect/internal/scan"
	"github.com/unbound-force/archexpect/internal/taxonomy"
)

const shopPkg = "github.com/unbound-force/archexpect/internal/scan/testdata/src/shop"

func loadShop(t *testing.T) *packages.Package {
	t.Helper()
	result, err := loader.Load(shopPkg)
	if err != nil {
		t.Fatalf("failed to load test package: %v", err)
	}
	return result.Pkg
}

func messages(t *testing.T, accesses []scan.Access) []string {
	t.Helper()
	var msgs []string
	for _, a := range accesses {
		msg, err := a.Message()
		if err != nil {
			t.Fatalf("Message() for access at %s: %v", a.Position, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func TestPackage_ReportsAllAccesses(t *testing.T) {
	accesses := scan.Package(loadShop(t))

	p := shopPkg
	want := []string{
		"Method <" + p + ".Ledger.Record(int, string)> accesses field <" + p + ".Ledger.Total> in (Ledger.java:19)",
		"Method <" + p + ".Cart.<init>(*" + p + ".Ledger)> sets field <" + p + ".Cart.ledger> in (Cart.java:32)",
		"Method <" + p + ".Cart.Checkout(int)> gets field <" + p + ".Cart.Items> in (Cart.java:38)",
		"Method <" + p + ".Cart.Checkout(int)> gets field <" + p + ".Item.Count> in (Cart.java:39)",
		"Method <" + p + ".Cart.Checkout(int)> gets field <" + p + ".Cart.ledger> in (Cart.java:41)",
		"Method <" + p + ".Cart.Checkout(int)> calls method <" + p + ".Ledger.Record(int, string)> in (Cart.java:41)",
		"Method <" + p + ".Cart.Checkout(int)> calls method <strings.ToUpper(string)> in (Cart.java:41)",
		"Method <" + p + ".Cart.Checkout(int)> sets field <" + p + ".Cart.closed> in (Cart.java:42)",
		"Method <" + p + ".Open()> accesses field <" + p + ".opened> in (shop.java:50)",
		"Method <" + p + ".Open()> calls constructor <" + p + ".Cart.<init>(*" + p + ".Ledger)> in (shop.java:51)",
		"Method <" + p + ".Cart.IsClosed()> gets field <" + p + ".Cart.closed> in (Cart.java:56)",
		"Method <" + p + ".Cursor.Seek([]" + p + ".Item)> sets field <" + p + ".Cursor.pos> in (Cursor.java:66)",
	}

	got := messages(t, accesses)
	if !slices.Equal(got, want) {
		t.Errorf("messages mismatch\ngot:\n  %s\nwant:\n  %s",
			strings.Join(got, "\n  "), strings.Join(want, "\n  "))
	}
}

func TestPackage_ConstructorOrigin(t *testing.T) {
	// NewCart initializes a field through a keyed literal, and calls to
	// it are constructor calls.
	var fromConstructor []scan.Access
	for _, a := range scan.Package(loadShop(t)) {
		if a.Origin.Ident == expect.ConstructorName {
			fromConstructor = append(fromConstructor, a)
		}
		if a.Kind != taxonomy.ConstructorTarget {
			continue
		}
		if a.Target.Name() != expect.ConstructorName {
			t.Errorf("constructor target name = %q", a.Target.Name())
		}
		if got := a.Target.OwnerType().Name; got != "Cart" {
			t.Errorf("constructor owner = %q, want Cart", got)
		}
	}

	if len(fromConstructor) != 1 {
		t.Fatalf("expected 1 access from the constructor, got %d", len(fromConstructor))
	}
	a := fromConstructor[0]
	if a.Kind != taxonomy.FieldTarget || a.Accesses != taxonomy.SetOnly {
		t.Errorf("constructor access = %s %s, want field {SET}", a.Kind, a.Accesses)
	}
	if a.Target.Name() != "ledger" || a.Line() != 32 {
		t.Errorf("constructor access = %s at line %d, want ledger at 32", a.Target.Name(), a.Line())
	}
}

func TestPackage_WriteForms(t *testing.T) {
	cart := expect.TypeName{Package: shopPkg, Name: "Cart"}
	cursor := expect.TypeName{Package: shopPkg, Name: "Cursor"}
	ledger := expect.TypeName{Package: shopPkg, Name: "Ledger"}

	tests := []struct {
		name  string
		owner expect.TypeName
		field string
		line  int
		want  taxonomy.AccessKinds
	}{
		{"compound assignment", ledger, "Total", 19, taxonomy.GetAndSet},
		{"keyed literal", cart, "ledger", 32, taxonomy.SetOnly},
		{"range read", cart, "Items", 38, taxonomy.GetOnly},
		{"plain assignment", cart, "closed", 42, taxonomy.SetOnly},
		{"range assignment", cursor, "pos", 66, taxonomy.SetOnly},
	}

	accesses := scan.Package(loadShop(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := expect.NewFieldTarget(tt.owner, tt.field, tt.want)
			if err != nil {
				t.Fatal(err)
			}
			var found bool
			for _, a := range accesses {
				if a.Kind != taxonomy.FieldTarget || a.Line() != tt.line || !target.Matches(a.Target) {
					continue
				}
				found = true
				if a.Accesses != tt.want {
					t.Errorf("%s at line %d accessed with %s, want %s", tt.field, tt.line, a.Accesses, tt.want)
				}
			}
			if !found {
				t.Errorf("no access to %s at line %d", tt.field, tt.line)
			}
		})
	}
}

func TestPackage_MatchesDescriptors(t *testing.T) {
	accesses := scan.Package(loadShop(t))
	cart := expect.TypeName{Package: shopPkg, Name: "Cart"}
	ledger := expect.TypeName{Package: shopPkg, Name: "Ledger"}

	origin := expect.NewOrigin(cart, "Checkout", "int")
	target := expect.NewMethodTarget(ledger, "Record", "int", "string")
	reordered := expect.NewMethodTarget(ledger, "Record", "string", "int")

	var matched, reorderedMatched int
	for _, a := range accesses {
		if !origin.Matches(a.Origin) {
			continue
		}
		if target.Matches(a.Target) {
			matched++
			if a.Line() != 41 {
				t.Errorf("matched access at line %d, want 41", a.Line())
			}
		}
		if reordered.Matches(a.Target) {
			reorderedMatched++
		}
	}
	if matched != 1 {
		t.Errorf("expected exactly 1 matching access, got %d", matched)
	}
	if reorderedMatched != 0 {
		t.Errorf("reordered parameters matched %d access(es)", reorderedMatched)
	}
}

func TestAccess_Record(t *testing.T) {
	accesses := scan.Package(loadShop(t))
	rec, err := accesses[0].Record()
	if err != nil {
		t.Fatal(err)
	}
	if rec.Kind != taxonomy.FieldTarget {
		t.Errorf("Kind = %q, want field", rec.Kind)
	}
	if rec.Access != "{GET, SET}" {
		t.Errorf("Access = %q, want {GET, SET}", rec.Access)
	}
	if rec.Target != shopPkg+".Ledger.Total" {
		t.Errorf("Target = %q", rec.Target)
	}
	if !strings.HasSuffix(rec.Location, "shop.go:19:4") {
		t.Errorf("Location = %q, want suffix shop.go:19:4", rec.Location)
	}
}

func TestAccess_DescriptorUnknownKind(t *testing.T) {
	a := scan.Access{Target: scan.Func{Ident: "x"}}
	if _, err := a.Descriptor(); !errors.Is(err, expect.ErrUnknownTargetKind) {
		t.Errorf("expected ErrUnknownTargetKind, got %v", err)
	}
}

func TestScanAll_Deterministic(t *testing.T) {
	pkgs, err := loader.LoadAll([]string{shopPkg}, loader.Options{Tests: true})
	if err != nil {
		t.Fatal(err)
	}
	first, err := scan.ScanAll(context.Background(), pkgs)
	if err != nil {
		t.Fatal(err)
	}
	second, err := scan.ScanAll(context.Background(), pkgs)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 12 {
		t.Errorf("expected 12 accesses, got %d", len(first))
	}
	if !slices.Equal(messages(t, first), messages(t, second)) {
		t.Error("ScanAll results differ between runs")
	}
}

func TestScanAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scan.ScanAll(ctx, []*packages.Package{loadShop(t)})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
