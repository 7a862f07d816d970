package templating

import (
	"reflect"
	"strings"
)

// typeNames maps short and upper-case spellings of primitive types to the
// names used in the documentation.
var typeNames = map[string]string{
	"int":    "integer",
	"bool":   "boolean",
	"double": "float",
	"void":   "",
	"FALSE":  "false",
	"TRUE":   "true",
	"NULL":   "null",
}

// packageName returns the top-level package of "Package\Subpackage".
func packageName(name string) string {
	if pos := strings.IndexByte(name, '\\'); pos > 0 {
		return name[:pos]
	}
	return name
}

// subpackageName returns the subpackage of "Package\Subpackage", or "".
func subpackageName(name string) string {
	if pos := strings.IndexByte(name, '\\'); pos > 0 {
		return name[pos+1:]
	}
	return ""
}

// subnamespaceName returns the last segment of a namespace name.
func subnamespaceName(name string) string {
	if pos := strings.LastIndexByte(name, '\\'); pos > 0 {
		return name[pos+1:]
	}
	return name
}

// typeName normalises a type as written in an annotation. Class, constant
// and function names lose their leading backslash.
func typeName(name string) string {
	if n, ok := typeNames[name]; ok {
		return n
	}
	return strings.TrimLeft(name, "\\")
}

// valueType returns the documentation type name of a template value, or ""
// for nil.
func valueType(v any) string {
	if v == nil {
		return ""
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array, reflect.Map:
		return "array"
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return "resource"
	}
	return "object"
}
