package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Tjoosten/ApiGen/pkg/catalog"
)

func setupTestResolver(tb testing.TB) (*Resolver, *catalog.Catalog) {
	tb.Helper()
	f, err := os.Open(filepath.Join("..", "catalog", "testdata", "fixture.yaml"))
	if err != nil {
		tb.Fatalf("failed to open fixture: %v", err)
	}
	defer func() { _ = f.Close() }()

	snapshot, err := catalog.ReadSnapshot(f, catalog.FormatYAML)
	if err != nil {
		tb.Fatalf("ReadSnapshot() error = %v", err)
	}
	c := snapshot.Catalog()
	return New(c), c
}

func mustFind(tb testing.TB, c *catalog.Catalog, path string) catalog.Element {
	tb.Helper()
	el := c.Find(path)
	if el == nil {
		tb.Fatalf("fixture has no element %q", path)
	}
	return el
}

func TestPrimitivesNeverResolve(t *testing.T) {
	r, c := setupTestResolver(t)
	contexts := []catalog.Element{
		mustFind(t, c, "Foo\\Bar"),
		mustFind(t, c, "Foo\\Bar::bar()"),
		mustFind(t, c, "Foo\\helper"),
		mustFind(t, c, "GLOBAL_C"),
	}

	// A class named like a primitive must stay unreachable.
	c.AddClass(&catalog.Class{Base: catalog.Base{Name: "string"}, Documented: true})

	for _, name := range []string{"boolean", "integer", "float", "string", "array", "object", "resource", "callback", "null", "false", "true"} {
		for _, ctx := range contexts {
			if el := r.ResolveElement(name, ctx); el != nil {
				t.Errorf("ResolveElement(%q, %s) = %v, want nil", name, ctx.Info().Name, el)
			}
		}
	}

	// The match is case-sensitive.
	c.AddClass(&catalog.Class{Base: catalog.Base{Name: "String"}, Documented: true})
	if el := r.ResolveElement("String", contexts[0]); el == nil {
		t.Error("expected \"String\" to resolve to the class of that name")
	}
}

func TestResolveClasses(t *testing.T) {
	r, c := setupTestResolver(t)
	bar := mustFind(t, c, "Foo\\Bar")

	tests := []struct {
		name      string
		reference string
		context   catalog.Element
		want      string
	}{
		{"qualified", "Foo\\Bar", bar, "Foo\\Bar"},
		{"leading backslash", "\\Other\\Baz", bar, "Other\\Baz"},
		{"relative to namespace", "Bar", bar, "Foo\\Bar"},
		{"through alias", "Baz", bar, "Other\\Baz"},
		{"from method context", "Baz", mustFind(t, c, "Foo\\Bar::bar()"), "Other\\Baz"},
		{"from property context", "Bar", mustFind(t, c, "Foo\\Bar::$prop"), "Foo\\Bar"},
		{"from class constant context", "Bar", mustFind(t, c, "Foo\\Bar::LIMIT"), "Foo\\Bar"},
		{"from free function", "Bar", mustFind(t, c, "Foo\\helper"), "Foo\\Bar"},
		{"from global constant", "Other\\Baz", mustFind(t, c, "GLOBAL_C"), "Other\\Baz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := r.ResolveElement(tt.reference, tt.context)
			class, ok := el.(*catalog.Class)
			if !ok {
				t.Fatalf("ResolveElement(%q) = %v, want class %q", tt.reference, el, tt.want)
			}
			if class.Name != tt.want {
				t.Errorf("ResolveElement(%q) = %q, want %q", tt.reference, class.Name, tt.want)
			}
		})
	}
}

func TestUndocumentedClassesNeverResolve(t *testing.T) {
	r, c := setupTestResolver(t)
	bar := mustFind(t, c, "Foo\\Bar")

	for _, ref := range []string{"Hidden", "Foo\\Hidden", "Hidden::secret", "Hidden::secret()", "Exception"} {
		if el := r.ResolveElement(ref, bar); el != nil {
			t.Errorf("ResolveElement(%q) = %v, want nil", ref, el)
		}
	}

	hidden, _ := c.Class("Foo\\Hidden")
	if el := r.ResolveElement("secret", hidden); el != nil {
		t.Errorf("member of undocumented context class resolved to %v", el)
	}
}

func TestUndocumentedClassShadowsConstant(t *testing.T) {
	r, c := setupTestResolver(t)
	c.AddClass(&catalog.Class{Base: catalog.Base{Name: "Foo\\SHADOW"}, Documented: false})
	c.AddConstant(&catalog.Constant{Base: catalog.Base{Name: "Foo\\SHADOW"}})
	c.AddFunction(&catalog.Function{Base: catalog.Base{Name: "Foo\\SHADOW"}})

	if el := r.ResolveElement("SHADOW", mustFind(t, c, "Foo\\Bar")); el != nil {
		t.Errorf("ResolveElement(SHADOW) = %v, want nil", el)
	}
}

func TestResolveConstantsAndFunctions(t *testing.T) {
	r, c := setupTestResolver(t)
	bar := mustFind(t, c, "Foo\\Bar")

	tests := []struct {
		reference string
		context   catalog.Element
		wantKind  catalog.Kind
		wantName  string
	}{
		{"VERSION", bar, catalog.KindConstant, "Foo\\VERSION"},
		{"Foo\\VERSION", mustFind(t, c, "Other\\Baz"), catalog.KindConstant, "Foo\\VERSION"},
		{"GLOBAL_C", bar, catalog.KindConstant, "GLOBAL_C"},
		{"helper", bar, catalog.KindFunction, "Foo\\helper"},
		{"strlen_x", bar, catalog.KindFunction, "strlen_x"},
		{"helper", mustFind(t, c, "Foo\\helper").(*catalog.Function).Parameters[0], catalog.KindFunction, "Foo\\helper"},
	}
	for _, tt := range tests {
		t.Run(tt.reference, func(t *testing.T) {
			el := r.ResolveElement(tt.reference, tt.context)
			if el == nil {
				t.Fatalf("ResolveElement(%q) = nil", tt.reference)
			}
			if el.Kind() != tt.wantKind || el.Info().Name != tt.wantName {
				t.Errorf("ResolveElement(%q) = %s %q, want %s %q", tt.reference, el.Kind(), el.Info().Name, tt.wantKind, tt.wantName)
			}
		})
	}
}

func TestResolveMembers(t *testing.T) {
	r, c := setupTestResolver(t)
	bar := mustFind(t, c, "Foo\\Bar")
	method := mustFind(t, c, "Foo\\Bar::bar()")
	prop := mustFind(t, c, "Foo\\Bar::$prop")
	limit := mustFind(t, c, "Foo\\Bar::LIMIT")
	run := mustFind(t, c, "Other\\Baz::run()")

	tests := []struct {
		name      string
		reference string
		context   catalog.Element
		want      catalog.Element
	}{
		{"static separator", "Foo\\Bar::bar", bar, method},
		{"instance separator", "Foo\\Bar->bar", bar, method},
		{"separator with parens", "Bar::bar()", bar, method},
		{"separator through alias", "Baz::run", bar, run},
		{"separator into other namespace", "Other\\Baz->run()", bar, run},
		{"dollar property", "$prop", bar, prop},
		{"bare property", "prop", bar, prop},
		{"method", "bar", bar, method},
		{"method with parens", "bar()", bar, method},
		{"constant", "LIMIT", bar, limit},
		{"member from method context", "$prop", method, prop},
		{"member from parameter context", "LIMIT", method.(*catalog.Method).Parameters[0], limit},
		{"class constant via separator", "Bar::LIMIT", bar, limit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ResolveElement(tt.reference, tt.context); got != tt.want {
				t.Errorf("ResolveElement(%q) = %v, want %v", tt.reference, got, tt.want)
			}
		})
	}
}

func TestResolveMisses(t *testing.T) {
	r, c := setupTestResolver(t)
	bar := mustFind(t, c, "Foo\\Bar")

	tests := []struct {
		name      string
		reference string
		context   catalog.Element
	}{
		{"empty", "", bar},
		{"unknown", "Nope", bar},
		{"unknown class before separator", "Nope::bar", bar},
		{"unknown member after separator", "Bar::nope", bar},
		{"leading separator", "::bar", mustFind(t, c, "GLOBAL_C")},
		{"member without class scope", "bar", mustFind(t, c, "GLOBAL_C")},
		{"member from function scope", "prop", mustFind(t, c, "Foo\\helper")},
		{"nil context", "Foo\\Bar", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if el := r.ResolveElement(tt.reference, tt.context); el != nil {
				t.Errorf("ResolveElement(%q) = %v, want nil", tt.reference, el)
			}
		})
	}
}

func TestSeparator(t *testing.T) {
	tests := map[string]int{
		"A::b":    1,
		"A->b":    1,
		"A::b->c": 1,
		"::a->b":  3,
		"ab":      -1,
		"->b":     0,
	}
	for in, want := range tests {
		if got := separator(in); got != want {
			t.Errorf("separator(%q) = %d, want %d", in, got, want)
		}
	}
}

func BenchmarkResolveElement(b *testing.B) {
	r, c := setupTestResolver(b)
	bar := mustFind(b, c, "Foo\\Bar")
	refs := []string{"Baz", "Bar::bar()", "$prop", "helper", "Nope"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.ResolveElement(refs[i%len(refs)], bar)
	}
}
