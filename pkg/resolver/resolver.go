// Package resolver turns free-text references found in documentation
// comments, such as "Foo::bar()", "$prop" or "Baz", into catalog elements.
//
// Resolution is best effort. A reference that names nothing, names a
// primitive type or names an undocumented class resolves to nil, and the
// caller falls back to printing the reference as text.
package resolver

import (
	"strings"

	"github.com/Tjoosten/ApiGen/pkg/catalog"
)

// Catalog is the read-only view of the symbol catalog the resolver needs.
// *catalog.Catalog implements it.
type Catalog interface {
	Class(name string) (*catalog.Class, bool)
	Constant(name string) (*catalog.Constant, bool)
	Function(name string) (*catalog.Function, bool)
}

// primitives are the type names that never resolve to a catalog element.
var primitives = map[string]struct{}{
	"boolean": {}, "integer": {}, "float": {}, "string": {},
	"array": {}, "object": {}, "resource": {}, "callback": {},
	"null": {}, "false": {}, "true": {},
}

// Resolver resolves references against a catalog. It never modifies the
// catalog and is safe for concurrent use.
type Resolver struct {
	catalog Catalog
}

// New returns a Resolver over c.
func New(c Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// IsPrimitive reports whether name is one of the reserved primitive type
// names. The match is exact and case-sensitive.
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// ResolveElement returns the element that reference denotes when written
// in the documentation of context, or nil.
//
// Classes are tried first, then constants, then functions, each relative
// to the namespace of the context. A reference of the form "Class::member"
// or "Class->member" is then re-scoped into that class; otherwise members
// are looked up in the context class itself.
func (r *Resolver) ResolveElement(reference string, context catalog.Element) catalog.Element {
	if reference == "" || IsPrimitive(reference) {
		return nil
	}

	context = r.scope(context)
	if context == nil {
		return nil
	}
	info := context.Info()
	namespace := info.Namespace

	qualified := catalog.ResolveQualifiedName(reference, info.Aliases, namespace)
	class, ok := r.class(qualified, namespace)
	if !ok {
		class, ok = r.class(reference, namespace)
	}
	if ok {
		if !class.Documented {
			return nil
		}
		return class
	}
	if constant, ok := r.constant(reference, namespace); ok {
		return constant
	}
	if function, ok := r.function(reference, namespace); ok {
		return function
	}

	if pos := separator(reference); pos > 0 {
		left := reference[:pos]
		class, ok := r.class(left, namespace)
		if !ok {
			class, ok = r.class(catalog.ResolveQualifiedName(left, info.Aliases, namespace), "")
		}
		if !ok {
			return nil
		}
		context = class
		reference = reference[pos+2:]
	}

	class, ok = context.(*catalog.Class)
	if !ok || !class.Documented {
		return nil
	}
	return member(class, reference)
}

// scope replaces a member or parameter context with the element whose
// namespace and aliases apply to it: the declaring function for parameters
// of free functions and the declaring class for everything else.
func (r *Resolver) scope(context catalog.Element) catalog.Element {
	switch el := context.(type) {
	case nil:
		return nil
	case *catalog.Parameter:
		if el.Class == "" {
			if function, ok := r.catalog.Function(el.Function); ok {
				return function
			}
			return nil
		}
		return r.declaringClass(el.Class)
	case *catalog.Method:
		return r.declaringClass(el.Class)
	case *catalog.Property:
		return r.declaringClass(el.Class)
	case *catalog.Constant:
		if el.Class != "" {
			return r.declaringClass(el.Class)
		}
	}
	return context
}

func (r *Resolver) declaringClass(name string) catalog.Element {
	if class, ok := r.catalog.Class(name); ok {
		return class
	}
	return nil
}

// class looks name up first inside namespace, then as given.
func (r *Resolver) class(name, namespace string) (*catalog.Class, bool) {
	if namespace != "" {
		if class, ok := r.catalog.Class(namespace + "\\" + name); ok {
			return class, true
		}
	}
	return r.catalog.Class(name)
}

func (r *Resolver) constant(name, namespace string) (*catalog.Constant, bool) {
	if namespace != "" {
		if constant, ok := r.catalog.Constant(namespace + "\\" + name); ok {
			return constant, true
		}
	}
	return r.catalog.Constant(name)
}

func (r *Resolver) function(name, namespace string) (*catalog.Function, bool) {
	if namespace != "" {
		if function, ok := r.catalog.Function(namespace + "\\" + name); ok {
			return function, true
		}
	}
	return r.catalog.Function(name)
}

// separator returns the position of the first "::", or failing that of the
// first "->". A separator at the very start of the reference does not count.
func separator(reference string) int {
	if pos := strings.Index(reference, "::"); pos > 0 {
		return pos
	}
	return strings.Index(reference, "->")
}

func member(class *catalog.Class, name string) catalog.Element {
	if p, ok := class.Property(name); ok {
		return p
	}
	if strings.HasPrefix(name, "$") {
		if p, ok := class.Property(name[1:]); ok {
			return p
		}
	}
	if m, ok := class.Method(name); ok {
		return m
	}
	if strings.HasSuffix(name, "()") {
		if m, ok := class.Method(strings.TrimSuffix(name, "()")); ok {
			return m
		}
	}
	if k, ok := class.Constant(name); ok {
		return k
	}
	return nil
}
