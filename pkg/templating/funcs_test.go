package templating

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/Tjoosten/ApiGen/pkg/catalog"
)

// TestTemplateFunctions validates the behavior of each category of template functions.
func TestTemplateFunctions(t *testing.T) {
	tm := setupTestManager(t)
	bar := mustFind(t, tm, "Foo\\Bar")

	t.Run("NameFuncs", func(t *testing.T) {
		if got := packageName("Demo\\Core"); got != "Demo" {
			t.Errorf("packageName() = %q", got)
		}
		if got := subpackageName("Demo\\Core"); got != "Core" {
			t.Errorf("subpackageName() = %q", got)
		}
		if got := subpackageName("Demo"); got != "" {
			t.Errorf("subpackageName() of a top-level package = %q", got)
		}
		if got := subnamespaceName("A\\B\\C"); got != "C" {
			t.Errorf("subnamespaceName() = %q", got)
		}

		types := map[string]string{
			"int":        "integer",
			"bool":       "boolean",
			"double":     "float",
			"void":       "",
			"NULL":       "null",
			"string":     "string",
			"\\Foo\\Bar": "Foo\\Bar",
		}
		for in, want := range types {
			if got := typeName(in); got != want {
				t.Errorf("typeName(%q) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("ValueType", func(t *testing.T) {
		n := 1
		values := []struct {
			in   any
			want string
		}{
			{nil, ""},
			{true, "boolean"},
			{42, "integer"},
			{1.5, "float"},
			{"s", "string"},
			{[]int{1}, "array"},
			{map[string]int{}, "array"},
			{struct{}{}, "object"},
			{&n, "object"},
			{func() {}, "resource"},
		}
		for _, v := range values {
			if got := valueType(v.in); got != v.want {
				t.Errorf("valueType(%#v) = %q, want %q", v.in, got, v.want)
			}
		}
	})

	t.Run("StringFuncs", func(t *testing.T) {
		for in, want := range map[string]string{"hello": "Hello", "": "", "élan": "Élan", "Done": "Done"} {
			if got := ucfirst(in); got != want {
				t.Errorf("ucfirst(%q) = %q, want %q", in, got, want)
			}
		}
		if got := escape("<b>&</b>"); got != "&lt;b&gt;&amp;&lt;/b&gt;" {
			t.Errorf("escape() = %q", got)
		}
		if got := tm.replaceRE("~foo~i", "bar", "FOO baz"); got != "bar baz" {
			t.Errorf("replaceRE() with flags = %q", got)
		}
		if got := tm.replaceRE("o", "0", "foo"); got != "f00" {
			t.Errorf("replaceRE() = %q", got)
		}
		if got := tm.replaceRE("[", "x", "abc"); got != "abc" {
			t.Errorf("replaceRE() with an invalid pattern = %q", got)
		}
	})

	t.Run("LogicFuncs", func(t *testing.T) {
		if got := repeat(3); !reflect.DeepEqual(got, []int{0, 1, 2}) {
			t.Errorf("repeat(3) = %v", got)
		}
		if got := repeat(-1); len(got) != 0 {
			t.Errorf("repeat(-1) = %v", got)
		}
		if !and(true, true) || and(true, false) || !or(false, true) || or(false) || not(true) {
			t.Error("boolean helpers returned wrong results")
		}
		if isSet("") || isSet(nil) || !isSet("x") || !isSet(1) {
			t.Error("isSet returned wrong results")
		}
	})

	t.Run("HighlightValue", func(t *testing.T) {
		got := tm.highlightValue("    $a = 1;\n    $b = '<x>';")
		if want := "$a = 1;\n$b = &#39;&lt;x&gt;&#39;;"; string(got) != want {
			t.Errorf("highlightValue() = %q, want %q", got, want)
		}
	})

	t.Run("Docblock", func(t *testing.T) {
		got := tm.docblock("Intro.\n\n<code>$a = 1;</code>", bar)
		if want := "<p>Intro.</p>\n<pre>$a = 1;</pre>\n"; string(got) != want {
			t.Errorf("docblock() = %q, want %q", got, want)
		}
		if got := tm.docline("See {@link Baz}.", bar); string(got) != `See <a href="class-Other.Baz.html">Other\Baz</a>.` {
			t.Errorf("docline() = %q", got)
		}
	})
}

func TestAnnotationSort(t *testing.T) {
	annotations := map[string][]string{
		"zeta":       {"z"},
		"todo":       {"t"},
		"author":     {"a"},
		"alpha":      {"a"},
		"package":    {"p"},
		"deprecated": {"d"},
	}
	var names []string
	for _, group := range annotationSort(annotations) {
		names = append(names, group.Name)
	}
	want := []string{"deprecated", "package", "author", "todo", "alpha", "zeta"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("annotationSort() = %v, want %v", names, want)
	}
}

func TestAnnotationFilter(t *testing.T) {
	tm := setupTestManager(t)
	annotations := map[string][]string{
		"package":  {"Demo"},
		"author":   {"Jane Doe"},
		"todo":     {"Finish it"},
		"see":      {"Baz"},
		"property": {"int $x"},
		"final":    {""},
	}

	got := tm.annotationFilter(annotations, "see")
	for _, name := range []string{"todo", "see", "property", "final"} {
		if _, ok := got[name]; ok {
			t.Errorf("annotationFilter() kept %q", name)
		}
	}
	if len(got) != 2 {
		t.Errorf("annotationFilter() = %v, want package and author only", got)
	}
	if len(annotations) != 6 {
		t.Error("annotationFilter() must not modify its argument")
	}

	config := tm.GetConfig()
	config.Todo = true
	tm.SetConfig(&config)
	if _, ok := tm.annotationFilter(annotations)["todo"]; !ok {
		t.Error("annotationFilter() dropped @todo although it is enabled")
	}
}

func TestAnnotation(t *testing.T) {
	tm := setupTestManager(t)
	bar := mustFind(t, tm, "Foo\\Bar")
	method := mustFind(t, tm, "Foo\\Bar::bar()").(*catalog.Method)
	param := method.Parameters[0]

	tests := []struct {
		name    string
		value   string
		tag     string
		context catalog.Element
		want    string
	}{
		{"param", "int $x The input", "param", param, `<code>integer</code><br />The input`},
		{"param without description", "int $x", "param", param, `<code>integer</code>`},
		{"return", "Baz|null The result", "return", method, `<code><a href="class-Other.Baz.html">Other\Baz</a>|null</code><br />The result`},
		{"package", "Demo", "package", bar, `<a href="package-Demo.html">Demo</a> `},
		{"subpackage", "Core", "subpackage", bar, `<a href="package-Demo.Core.html">Core</a> `},
		{"see class", "Baz", "see", bar, `<code><a href="class-Other.Baz.html">Other\Baz</a></code> `},
		{"see member", "Baz Also this", "see", method, `<code><a href="class-Other.Baz.html">Other\Baz</a></code><br />Also this`},
		{"see unresolved", "Nope", "see", bar, `Nope`},
		{"other", "Jane *Doe*", "author", bar, `Jane <em>Doe</em>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tm.annotation(tt.value, tt.tag, tt.context); string(got) != tt.want {
				t.Errorf("annotation(%q, %q) = %q, want %q", tt.value, tt.tag, got, tt.want)
			}
		})
	}

	config := tm.GetConfig()
	config.Packages = false
	tm.SetConfig(&config)
	if got := tm.annotation("Demo", "package", bar); got != "Demo" {
		t.Errorf("annotation() with packages disabled = %q", got)
	}
}

func TestStaticFile(t *testing.T) {
	tm := setupTestManager(t)
	dest := tm.GetConfig().Destination
	if err := os.MkdirAll(dest, 0755); err != nil {
		t.Fatalf("failed to create destination: %v", err)
	}
	content := []byte("body { color: red; }")
	path := filepath.Join(dest, "style.css")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write static file: %v", err)
	}

	want := fmt.Sprintf("style.css?%d", crc32.ChecksumIEEE(content))
	if got := tm.staticFile("style.css"); got != want {
		t.Errorf("staticFile() = %q, want %q", got, want)
	}

	// The checksum is computed once per file.
	if err := os.WriteFile(path, []byte("changed"), 0644); err != nil {
		t.Fatalf("failed to rewrite static file: %v", err)
	}
	if got := tm.staticFile("style.css"); got != want {
		t.Errorf("staticFile() after change = %q, want cached %q", got, want)
	}

	if got := tm.staticFile("missing.js"); got != "missing.js" {
		t.Errorf("staticFile() of a missing file = %q", got)
	}
}
