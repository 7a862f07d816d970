package catalog

import (
	"sort"
	"strings"
)

// Catalog is the registry of classes, free constants and functions, each
// keyed by its qualified name.
type Catalog struct {
	classes   map[string]*Class
	constants map[string]*Constant
	functions map[string]*Function
}

// New returns an empty Catalog.
func New() *Catalog {
	return &Catalog{
		classes:   make(map[string]*Class),
		constants: make(map[string]*Constant),
		functions: make(map[string]*Function),
	}
}

// AddClass registers a class, replacing any class of the same name. Member
// maps are normalised so that every member knows its name, its declaring
// class and its namespace.
func (c *Catalog) AddClass(class *Class) {
	class.Name = strings.TrimLeft(class.Name, "\\")
	if class.Namespace == "" {
		class.Namespace = namespaceOf(class.Name)
	}

	for name, p := range class.Properties {
		if p.Name == "" {
			p.Name = name
		}
		p.Class = class.Name
		inheritScope(&p.Base, &class.Base)
	}
	for name, m := range class.Methods {
		if m.Name == "" {
			m.Name = name
		}
		m.Class = class.Name
		inheritScope(&m.Base, &class.Base)
		for _, param := range m.Parameters {
			param.Class = class.Name
			param.Function = m.Name
			inheritScope(&param.Base, &class.Base)
		}
	}
	for name, k := range class.Constants {
		if k.Name == "" {
			k.Name = name
		}
		k.Class = class.Name
		inheritScope(&k.Base, &class.Base)
	}

	c.classes[class.Name] = class
}

// AddConstant registers a namespace or global constant.
func (c *Catalog) AddConstant(constant *Constant) {
	constant.Name = strings.TrimLeft(constant.Name, "\\")
	constant.Class = ""
	if constant.Namespace == "" {
		constant.Namespace = namespaceOf(constant.Name)
	}
	c.constants[constant.Name] = constant
}

// AddFunction registers a namespace or global function.
func (c *Catalog) AddFunction(function *Function) {
	function.Name = strings.TrimLeft(function.Name, "\\")
	if function.Namespace == "" {
		function.Namespace = namespaceOf(function.Name)
	}
	for _, param := range function.Parameters {
		param.Class = ""
		param.Function = function.Name
		inheritScope(&param.Base, &function.Base)
	}
	c.functions[function.Name] = function
}

func inheritScope(member, owner *Base) {
	member.Namespace = owner.Namespace
	if member.Aliases == nil {
		member.Aliases = owner.Aliases
	}
	if member.File == "" {
		member.File = owner.File
	}
}

// Class returns the class with the given qualified name.
func (c *Catalog) Class(name string) (*Class, bool) {
	class, ok := c.classes[name]
	return class, ok
}

// Constant returns the free constant with the given qualified name.
func (c *Catalog) Constant(name string) (*Constant, bool) {
	constant, ok := c.constants[name]
	return constant, ok
}

// Function returns the function with the given qualified name.
func (c *Catalog) Function(name string) (*Function, bool) {
	function, ok := c.functions[name]
	return function, ok
}

// Classes returns all classes sorted by name.
func (c *Catalog) Classes() []*Class {
	result := make([]*Class, 0, len(c.classes))
	for _, class := range c.classes {
		result = append(result, class)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Constants returns all free constants sorted by name.
func (c *Catalog) Constants() []*Constant {
	result := make([]*Constant, 0, len(c.constants))
	for _, constant := range c.constants {
		result = append(result, constant)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Functions returns all functions sorted by name.
func (c *Catalog) Functions() []*Function {
	result := make([]*Function, 0, len(c.functions))
	for _, function := range c.functions {
		result = append(result, function)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// DocumentedClasses returns the classes that get their own page.
func (c *Catalog) DocumentedClasses() []*Class {
	var result []*Class
	for _, class := range c.Classes() {
		if class.Documented {
			result = append(result, class)
		}
	}
	return result
}

// Len returns the number of classes, free constants and functions.
func (c *Catalog) Len() int {
	return len(c.classes) + len(c.constants) + len(c.functions)
}

// Namespaces returns every namespace holding a documented class, a free
// constant or a function, together with all of its parent namespaces.
func (c *Catalog) Namespaces() []string {
	seen := make(map[string]struct{})
	add := func(namespace string) {
		for _, ns := range SplitNamespace(namespace) {
			seen[ns] = struct{}{}
		}
	}
	for _, class := range c.classes {
		if class.Documented {
			add(class.Namespace)
		}
	}
	for _, constant := range c.constants {
		add(constant.Namespace)
	}
	for _, function := range c.functions {
		add(function.Namespace)
	}
	return sortedKeys(seen)
}

// Packages returns every package named by a @package tag (combined with
// @subpackage as "Package\Subpackage"), together with the parent packages.
func (c *Catalog) Packages() []string {
	seen := make(map[string]struct{})
	add := func(b *Base) {
		if name := PackageName(b); name != "" {
			for _, pkg := range SplitNamespace(name) {
				seen[pkg] = struct{}{}
			}
		}
	}
	for _, class := range c.classes {
		if class.Documented {
			add(&class.Base)
		}
	}
	for _, constant := range c.constants {
		add(&constant.Base)
	}
	for _, function := range c.functions {
		add(&function.Base)
	}
	return sortedKeys(seen)
}

// PackageName returns "Package" or "Package\Subpackage" from the element's
// annotations, or "" when it has no @package tag.
func PackageName(b *Base) string {
	pkg := firstWord(b.Annotation("package"))
	if pkg == "" {
		return ""
	}
	if sub := firstWord(b.Annotation("subpackage")); sub != "" {
		return pkg + "\\" + sub
	}
	return pkg
}

// Members lists the top-level elements of one namespace or package.
type Members struct {
	Name      string
	Classes   []*Class
	Constants []*Constant
	Functions []*Function
}

// InNamespace returns the documented classes, constants and functions
// declared directly in namespace.
func (c *Catalog) InNamespace(namespace string) Members {
	return c.collect(namespace, func(b *Base) bool { return b.Namespace == namespace })
}

// InPackage returns the documented classes, constants and functions whose
// package (with subpackage) is pkg.
func (c *Catalog) InPackage(pkg string) Members {
	return c.collect(pkg, func(b *Base) bool { return PackageName(b) == pkg })
}

func (c *Catalog) collect(name string, match func(*Base) bool) Members {
	result := Members{Name: name}
	for _, class := range c.DocumentedClasses() {
		if match(&class.Base) {
			result.Classes = append(result.Classes, class)
		}
	}
	for _, constant := range c.Constants() {
		if match(&constant.Base) {
			result.Constants = append(result.Constants, constant)
		}
	}
	for _, function := range c.Functions() {
		if match(&function.Base) {
			result.Functions = append(result.Functions, function)
		}
	}
	return result
}

// Find looks up an element by its written path: "Class", "Class::method()",
// "Class::$property", "Class::CONSTANT", "function()" or "CONSTANT". A
// bare member name after "::" is tried as a constant, then a method, then a
// property. It returns nil when nothing matches.
func (c *Catalog) Find(path string) Element {
	path = strings.TrimLeft(strings.TrimSpace(path), "\\")
	if path == "" {
		return nil
	}

	if i := strings.Index(path, "::"); i > 0 {
		class, ok := c.classes[path[:i]]
		if !ok {
			return nil
		}
		member := path[i+2:]
		switch {
		case strings.HasPrefix(member, "$"):
			if p, ok := class.Property(member[1:]); ok {
				return p
			}
			return nil
		case strings.HasSuffix(member, "()"):
			if m, ok := class.Method(strings.TrimSuffix(member, "()")); ok {
				return m
			}
			return nil
		}
		if k, ok := class.Constant(member); ok {
			return k
		}
		if m, ok := class.Method(member); ok {
			return m
		}
		if p, ok := class.Property(member); ok {
			return p
		}
		return nil
	}

	if class, ok := c.classes[path]; ok {
		return class
	}
	if function, ok := c.functions[strings.TrimSuffix(path, "()")]; ok {
		return function
	}
	if constant, ok := c.constants[path]; ok {
		return constant
	}
	return nil
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func sortedKeys(set map[string]struct{}) []string {
	result := make([]string, 0, len(set))
	for k := range set {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}
