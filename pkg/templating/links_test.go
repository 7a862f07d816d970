package templating

import "testing"

func TestResolveLink(t *testing.T) {
	tm := setupTestManager(t)
	bar := mustFind(t, tm, "Foo\\Bar")

	tests := []struct {
		ref  string
		want string
		ok   bool
	}{
		{"Baz", `<a href="class-Other.Baz.html">Other\Baz</a>`, true},
		{"\\Other\\Baz", `<a href="class-Other.Baz.html">Other\Baz</a>`, true},
		{"Bar::bar()", `<a href="class-Foo.Bar.html#_bar">Foo\Bar::bar()</a>`, true},
		{"$prop", `<a href="class-Foo.Bar.html#$prop">Foo\Bar::<var>$prop</var></a>`, true},
		{"LIMIT", `<a href="class-Foo.Bar.html#LIMIT">Foo\Bar::<b>LIMIT</b></a>`, true},
		{"VERSION", `<a href="constant-Foo.VERSION.html">Foo\<b>VERSION</b></a>`, true},
		{"GLOBAL_C", `<a href="constant-GLOBAL_C.html"><b>GLOBAL_C</b></a>`, true},
		{"helper", `<a href="function-Foo.helper.html">Foo\helper()</a>`, true},
		{"Hidden", "", false},
		{"string", "", false},
		{"Nope", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := tm.ResolveLink(tt.ref, bar)
			if ok != tt.ok || string(got) != tt.want {
				t.Errorf("ResolveLink(%q) = (%q, %v), want (%q, %v)", tt.ref, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestResolveLinks(t *testing.T) {
	tm := setupTestManager(t)
	bar := mustFind(t, tm, "Foo\\Bar")

	got := tm.ResolveLinks("See {@see Bar::bar()} and {@link Nope}.", bar)
	want := `See <a href="class-Foo.Bar.html#_bar">Foo\Bar::bar()</a> and Nope.`
	if got != want {
		t.Errorf("ResolveLinks() = %q, want %q", got, want)
	}
}

func TestNamespaceLinks(t *testing.T) {
	tm := setupTestManager(t)

	got := tm.namespaceLinks("A\\B\\C")
	want := `<a href="namespace-A.html">A</a>\<a href="namespace-A.B.html">B</a>\<a href="namespace-A.B.C.html">C</a>`
	if string(got) != want {
		t.Errorf("namespaceLinks() = %q, want %q", got, want)
	}

	got = tm.namespaceLinks("A\\B\\C", false)
	want = `<a href="namespace-A.html">A</a>\<a href="namespace-A.B.html">B</a>\C`
	if string(got) != want {
		t.Errorf("namespaceLinks() without last = %q, want %q", got, want)
	}
}

func TestTypeLinks(t *testing.T) {
	tm := setupTestManager(t)
	bar := mustFind(t, tm, "Foo\\Bar")

	tests := []struct {
		annotation string
		want       string
	}{
		{"Baz|null $x The value", `<a href="class-Other.Baz.html">Other\Baz</a>|null`},
		{"int", "integer"},
		{"Unknown<T>", "Unknown&lt;T&gt;"},
	}
	for _, tt := range tests {
		if got := tm.typeLinks(tt.annotation, bar); string(got) != tt.want {
			t.Errorf("typeLinks(%q) = %q, want %q", tt.annotation, got, tt.want)
		}
	}
}

func TestClassURL(t *testing.T) {
	tm := setupTestManager(t)
	if got := tm.classURL("Foo\\Bar"); got != "class-Foo.Bar.html" {
		t.Errorf("classURL(string) = %q", got)
	}
	if got := tm.classURL(mustFind(t, tm, "Other\\Baz")); got != "class-Other.Baz.html" {
		t.Errorf("classURL(*Class) = %q", got)
	}
	if got := tm.classURL(42); got != "" {
		t.Errorf("classURL(int) = %q", got)
	}
}
