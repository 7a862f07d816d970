package catalog

import "fmt"

// Kind is the discriminant of an Element.
type Kind int

const (
	KindUnknown Kind = iota
	KindClass
	KindMethod
	KindProperty
	KindConstant
	KindFunction
	KindParameter
	KindExtension
)

var kindNames = map[Kind]string{
	KindUnknown:   "unknown",
	KindClass:     "class",
	KindMethod:    "method",
	KindProperty:  "property",
	KindConstant:  "constant",
	KindFunction:  "function",
	KindParameter: "parameter",
	KindExtension: "extension",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}
