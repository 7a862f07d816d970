package catalog

import "strings"

// ResolveQualifiedName turns a name written inside namespace into a fully
// qualified name, honouring the namespace imports in aliases.
//
// A leading backslash marks an already qualified name. An unqualified name
// matching an alias resolves to the alias target; a qualified name whose
// first segment is an alias gets that segment replaced. Anything else is
// taken relative to namespace.
func ResolveQualifiedName(name string, aliases map[string]string, namespace string) string {
	if name == "" {
		return name
	}
	if name[0] == '\\' {
		return strings.TrimLeft(name, "\\")
	}

	if i := strings.IndexByte(name, '\\'); i < 0 {
		if target, ok := aliases[name]; ok {
			return target
		}
	} else if target, ok := aliases[name[:i]]; ok {
		return target + "\\" + name[i+1:]
	}

	if namespace == "" {
		return name
	}
	return namespace + "\\" + name
}

// SplitNamespace returns every cumulative prefix of a namespace name, from
// the outermost one: "A\B\C" gives "A", "A\B", "A\B\C".
func SplitNamespace(namespace string) []string {
	if namespace == "" {
		return nil
	}
	parts := strings.Split(namespace, "\\")
	result := make([]string, 0, len(parts))
	for i := range parts {
		result = append(result, strings.Join(parts[:i+1], "\\"))
	}
	return result
}
