package main

import (
	"errors"
	"fmt"

	"github.com/Tjoosten/ApiGen/pkg/catalog"
	"github.com/Tjoosten/ApiGen/pkg/templating"
)

var errContextNotFound = errors.New("context element not found")

// Resolution is the outcome of resolving one reference, as reported by the
// preview API and the MCP tool.
type Resolution struct {
	Reference string `json:"reference"`
	Context   string `json:"context"`
	Resolved  bool   `json:"resolved"`
	Kind      string `json:"kind,omitempty"`
	Name      string `json:"name,omitempty"`
	URL       string `json:"url,omitempty"`
	Link      string `json:"link,omitempty"`
}

// resolveReference resolves reference in the documentation of the element
// at contextPath, e.g. "Foo\Bar" or "Foo\Bar::baz()".
func resolveReference(tm *templating.TemplateManager, reference, contextPath string) (*Resolution, error) {
	context := tm.Catalog().Find(contextPath)
	if context == nil {
		return nil, fmt.Errorf("%w: %q", errContextNotFound, contextPath)
	}

	result := &Resolution{Reference: reference, Context: contextPath}
	el := tm.ResolveElement(reference, context)
	if el == nil {
		return result, nil
	}

	link, _ := tm.ResolveLink(reference, context)
	result.Resolved = true
	result.Kind = el.Kind().String()
	result.Name = elementName(el)
	result.URL = tm.URLs().ElementURL(el)
	result.Link = string(link)
	return result, nil
}

// elementName returns the qualified name of el, with members prefixed by
// their declaring class.
func elementName(el catalog.Element) string {
	name := el.Info().Name
	if class := catalog.DeclaringClass(el); class != "" {
		switch el.Kind() {
		case catalog.KindMethod:
			return class + "::" + name + "()"
		case catalog.KindProperty:
			return class + "::$" + name
		}
		return class + "::" + name
	}
	if el.Kind() == catalog.KindFunction {
		return name + "()"
	}
	return name
}
