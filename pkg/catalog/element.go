package catalog

import "strings"

// Element is any catalog record. The concrete types are *Class, *Method,
// *Property, *Constant, *Function, *Parameter and *Extension; callers
// dispatch on Kind or with a type switch.
type Element interface {
	Kind() Kind
	Info() *Base
}

// Base holds the fields shared by every element.
type Base struct {
	// Name is the namespace-qualified name for classes, free constants and
	// functions, and the short name for members and parameters.
	Name string `json:"name" yaml:"name"`
	// Namespace is the namespace the element was declared in. Members and
	// parameters inherit the namespace of their class or function.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	// Aliases are the namespace imports in scope, alias -> qualified name.
	Aliases map[string]string `json:"aliases,omitempty" yaml:"aliases,omitempty"`

	File             string              `json:"file,omitempty" yaml:"file,omitempty"`
	StartLine        int                 `json:"line,omitempty" yaml:"line,omitempty"`
	DocComment       string              `json:"doc_comment,omitempty" yaml:"doc_comment,omitempty"`
	ShortDescription string              `json:"short_description,omitempty" yaml:"short_description,omitempty"`
	LongDescription  string              `json:"long_description,omitempty" yaml:"long_description,omitempty"`
	Annotations      map[string][]string `json:"annotations,omitempty" yaml:"annotations,omitempty"`
}

// Info returns the shared fields of the element.
func (b *Base) Info() *Base {
	return b
}

// HasAnnotation reports whether the doc comment carries the named tag.
func (b *Base) HasAnnotation(name string) bool {
	return len(b.Annotations[name]) > 0
}

// Annotation returns the first value of the named tag, or "".
func (b *Base) Annotation(name string) string {
	if values := b.Annotations[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// Class is a class, interface or trait.
type Class struct {
	Base `yaml:",inline"`

	// Documented is false for classes that are known but excluded from the
	// generated output; links to them are never produced.
	Documented bool `json:"documented" yaml:"documented"`
	// Internal marks classes provided by the language runtime, documented
	// in its manual rather than in the generated pages.
	Internal  bool   `json:"internal,omitempty" yaml:"internal,omitempty"`
	Extension string `json:"extension,omitempty" yaml:"extension,omitempty"`
	Parent    string `json:"parent,omitempty" yaml:"parent,omitempty"`

	Properties map[string]*Property `json:"properties,omitempty" yaml:"properties,omitempty"`
	Methods    map[string]*Method   `json:"methods,omitempty" yaml:"methods,omitempty"`
	Constants  map[string]*Constant `json:"constants,omitempty" yaml:"constants,omitempty"`
}

func (c *Class) Kind() Kind { return KindClass }

// ShortName returns the class name without its namespace.
func (c *Class) ShortName() string {
	return shortName(c.Name)
}

// ExtensionElement returns the extension providing an internal class, or
// nil.
func (c *Class) ExtensionElement() Element {
	if c.Extension == "" {
		return nil
	}
	return &Extension{Base: Base{Name: c.Extension}}
}

// HasProperty reports whether the class declares the named property.
func (c *Class) HasProperty(name string) bool {
	_, ok := c.Properties[name]
	return ok
}

// Property returns the named property.
func (c *Class) Property(name string) (*Property, bool) {
	p, ok := c.Properties[name]
	return p, ok
}

// HasMethod reports whether the class declares the named method.
func (c *Class) HasMethod(name string) bool {
	_, ok := c.Methods[name]
	return ok
}

// Method returns the named method.
func (c *Class) Method(name string) (*Method, bool) {
	m, ok := c.Methods[name]
	return m, ok
}

// HasConstant reports whether the class declares the named constant.
func (c *Class) HasConstant(name string) bool {
	_, ok := c.Constants[name]
	return ok
}

// Constant returns the named class constant.
func (c *Class) Constant(name string) (*Constant, bool) {
	k, ok := c.Constants[name]
	return k, ok
}

// Method is a class method.
type Method struct {
	Base `yaml:",inline"`

	Class      string       `json:"class" yaml:"class"`
	Parameters []*Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

func (m *Method) Kind() Kind { return KindMethod }

// Property is a class property.
type Property struct {
	Base `yaml:",inline"`

	Class string `json:"class" yaml:"class"`
}

func (p *Property) Kind() Kind { return KindProperty }

// Constant is a class constant when Class is set, and a namespace or global
// constant otherwise.
type Constant struct {
	Base `yaml:",inline"`

	Class string `json:"class,omitempty" yaml:"class,omitempty"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

func (k *Constant) Kind() Kind { return KindConstant }

// ShortName returns the constant name without its namespace.
func (k *Constant) ShortName() string {
	return shortName(k.Name)
}

// InNamespace reports whether a free constant was declared in a namespace.
func (k *Constant) InNamespace() bool {
	return k.Namespace != ""
}

// Function is a namespace or global function.
type Function struct {
	Base `yaml:",inline"`

	Parameters []*Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

func (f *Function) Kind() Kind { return KindFunction }

// ShortName returns the function name without its namespace.
func (f *Function) ShortName() string {
	return shortName(f.Name)
}

// Parameter is a parameter of a method or of a free function. Class is
// empty for free functions.
type Parameter struct {
	Base `yaml:",inline"`

	Class    string `json:"class,omitempty" yaml:"class,omitempty"`
	Function string `json:"function,omitempty" yaml:"function,omitempty"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
}

func (p *Parameter) Kind() Kind { return KindParameter }

// Extension is a language extension providing internal classes.
type Extension struct {
	Base `yaml:",inline"`
}

func (e *Extension) Kind() Kind { return KindExtension }

// DeclaringClass returns the declaring class name of a member or method
// parameter, and "" for everything else.
func DeclaringClass(e Element) string {
	switch el := e.(type) {
	case *Method:
		return el.Class
	case *Property:
		return el.Class
	case *Constant:
		return el.Class
	case *Parameter:
		return el.Class
	}
	return ""
}

func shortName(name string) string {
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// namespaceOf returns the namespace part of a qualified name.
func namespaceOf(name string) string {
	if i := strings.LastIndexByte(name, '\\'); i > 0 {
		return name[:i]
	}
	return ""
}
