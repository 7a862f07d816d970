package templating

import (
	"strconv"
	"strings"

	"github.com/Tjoosten/ApiGen/pkg/catalog"
)

// reservedClasses are documented together on a single manual page.
var reservedClasses = map[string]struct{}{
	"stdClass":  {},
	"Closure":   {},
	"Directory": {},
}

// URLBuilder produces the relative URLs of generated pages. It is a pure
// function of its configuration.
type URLBuilder struct {
	filenames  map[string]string
	manualBase string
}

// NewURLBuilder returns a URLBuilder using the file name patterns and the
// manual base of config.
func NewURLBuilder(config *TemplateConfig) *URLBuilder {
	filenames := DefaultConfig().Filenames
	for k, v := range config.Filenames {
		filenames[k] = v
	}
	manual := strings.TrimSuffix(config.ManualBase, "/")
	if manual == "" {
		manual = DefaultConfig().ManualBase
	}
	return &URLBuilder{filenames: filenames, manualBase: manual}
}

// Urlize replaces every byte outside [A-Za-z0-9_] with a dot. Runs are not
// collapsed.
func Urlize(s string) string {
	b := []byte(s)
	for i, c := range b {
		if !isWordByte(c) {
			b[i] = '.'
		}
	}
	return string(b)
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (u *URLBuilder) file(kind, name string) string {
	return strings.Replace(u.filenames[kind], "%s", name, 1)
}

// NamespaceURL returns the page of a namespace.
func (u *URLBuilder) NamespaceURL(name string) string {
	return u.file(FileNamespace, Urlize(name))
}

// PackageURL returns the page of a package.
func (u *URLBuilder) PackageURL(name string) string {
	return u.file(FilePackage, Urlize(name))
}

// ClassURL returns the page of the named class.
func (u *URLBuilder) ClassURL(name string) string {
	return u.file(FileClass, Urlize(name))
}

// MethodURL returns the anchor of a method on its class page.
func (u *URLBuilder) MethodURL(m *catalog.Method) string {
	return u.ClassURL(m.Class) + "#_" + m.Name
}

// PropertyURL returns the anchor of a property on its class page.
func (u *URLBuilder) PropertyURL(p *catalog.Property) string {
	return u.ClassURL(p.Class) + "#$" + p.Name
}

// ConstantURL returns the anchor of a class constant on its class page, or
// the page of a namespace or global constant.
func (u *URLBuilder) ConstantURL(k *catalog.Constant) string {
	if k.Class != "" {
		return u.ClassURL(k.Class) + "#" + k.Name
	}
	return u.file(FileConstant, Urlize(k.Name))
}

// FunctionURL returns the page of a function.
func (u *URLBuilder) FunctionURL(f *catalog.Function) string {
	return u.file(FileFunction, Urlize(f.Name))
}

// ElementURL returns the documentation URL of any linkable element, or ""
// for parameters and extensions.
func (u *URLBuilder) ElementURL(el catalog.Element) string {
	switch e := el.(type) {
	case *catalog.Class:
		return u.ClassURL(e.Name)
	case *catalog.Method:
		return u.MethodURL(e)
	case *catalog.Property:
		return u.PropertyURL(e)
	case *catalog.Constant:
		return u.ConstantURL(e)
	case *catalog.Function:
		return u.FunctionURL(e)
	}
	return ""
}

// SourceFile returns the name of the highlighted source page of an element,
// without a line anchor. Members and method parameters share the page of
// their declaring class.
func (u *URLBuilder) SourceFile(el catalog.Element) string {
	var file string
	switch e := el.(type) {
	case *catalog.Class:
		file = Urlize(e.Name)
	case *catalog.Function:
		file = "function-" + Urlize(e.Name)
	case *catalog.Constant:
		if e.Class == "" {
			file = "constant-" + Urlize(e.Name)
		} else {
			file = Urlize(e.Class)
		}
	case *catalog.Parameter:
		if e.Class == "" {
			file = "function-" + Urlize(e.Function)
		} else {
			file = Urlize(e.Class)
		}
	default:
		file = Urlize(catalog.DeclaringClass(el))
	}
	return u.file(FileSource, file)
}

// SourceURL returns the source page of an element. With withLine set, the
// anchor points at the first line of the element's doc comment.
func (u *URLBuilder) SourceURL(el catalog.Element, withLine bool) string {
	url := u.SourceFile(el)
	if !withLine {
		return url
	}
	info := el.Info()
	line := info.StartLine
	if info.DocComment != "" {
		line -= strings.Count(info.DocComment, "\n") + 1
	}
	return url + "#" + strconv.Itoa(line)
}

// ManualURL returns the language manual page of an internal class, one of
// its members, or an extension.
func (u *URLBuilder) ManualURL(el catalog.Element) string {
	if el == nil {
		return ""
	}
	if ext, ok := el.(*catalog.Extension); ok {
		name := strings.ToLower(ext.Name)
		switch name {
		case "core":
			return u.manualBase
		case "date":
			name = "datetime"
		}
		return u.manualBase + "/book." + name + ".php"
	}

	className := el.Info().Name
	if el.Kind() != catalog.KindClass {
		className = catalog.DeclaringClass(el)
	}
	if _, ok := reservedClasses[className]; ok {
		return u.manualBase + "/reserved.classes.php"
	}

	className = strings.ToLower(className)
	classURL := u.manualBase + "/class." + className + ".php"
	member := strings.ToLower(strings.ReplaceAll(strings.TrimLeft(el.Info().Name, "_"), "_", "-"))

	switch el.Kind() {
	case catalog.KindMethod:
		return u.manualBase + "/" + className + "." + member + ".php"
	case catalog.KindProperty:
		return classURL + "#" + className + ".props." + member
	case catalog.KindConstant:
		return classURL + "#" + className + ".constants." + member
	}
	return classURL
}
