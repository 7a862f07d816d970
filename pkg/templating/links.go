package templating

import (
	"html/template"
	"strings"

	"github.com/Tjoosten/ApiGen/pkg/catalog"
)

// ResolveElement returns the element that reference denotes in the
// documentation of context, or nil.
func (tm *TemplateManager) ResolveElement(reference string, context catalog.Element) catalog.Element {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.resolveElement(reference, context)
}

// ResolveLink returns an HTML link to the element that reference denotes.
// ok is false, and the link empty, when the reference does not resolve.
func (tm *TemplateManager) ResolveLink(reference string, context catalog.Element) (link template.HTML, ok bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	s, ok := tm.resolveLink(reference, context)
	return template.HTML(s), ok
}

// ResolveLinks replaces every {@link REF} and {@see REF} tag in text with a
// link to the element REF denotes, or with REF itself when it does not
// resolve. The text is expected to be HTML already; it is not escaped.
func (tm *TemplateManager) ResolveLinks(text string, context catalog.Element) string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.resolveLinks(text, context)
}

func (tm *TemplateManager) resolveElement(reference string, context catalog.Element) catalog.Element {
	return tm.resolver.ResolveElement(reference, context)
}

func (tm *TemplateManager) resolveLink(reference string, context catalog.Element) (string, bool) {
	el := tm.resolver.ResolveElement(reference, context)
	if el == nil {
		return "", false
	}

	switch e := el.(type) {
	case *catalog.Class:
		return string(link(tm.urls.ClassURL(e.Name), e.Name)), true
	case *catalog.Function:
		return string(link(tm.urls.FunctionURL(e), e.Name+"()")), true
	case *catalog.Constant:
		if e.Class == "" {
			var text string
			if e.InNamespace() {
				text = template.HTMLEscapeString(e.Namespace) + `\<b>` + template.HTMLEscapeString(e.ShortName()) + `</b>`
			} else {
				text = `<b>` + template.HTMLEscapeString(e.Name) + `</b>`
			}
			return anchor(tm.urls.ConstantURL(e), text), true
		}
		return anchor(tm.urls.ConstantURL(e), template.HTMLEscapeString(e.Class)+`::<b>`+template.HTMLEscapeString(e.Name)+`</b>`), true
	case *catalog.Property:
		return anchor(tm.urls.PropertyURL(e), template.HTMLEscapeString(e.Class)+`::<var>$`+template.HTMLEscapeString(e.Name)+`</var>`), true
	case *catalog.Method:
		return anchor(tm.urls.MethodURL(e), template.HTMLEscapeString(e.Class)+`::`+template.HTMLEscapeString(e.Name)+`()`), true
	}
	return "", false
}

func (tm *TemplateManager) resolveLinks(text string, context catalog.Element) string {
	return replaceInlineTags(text, func(ref string) string {
		if l, ok := tm.resolveLink(ref, context); ok {
			return l
		}
		return ref
	})
}

// resolveLinkHTML is the template form of resolveLink. It returns an empty
// string for references that do not resolve.
func (tm *TemplateManager) resolveLinkHTML(reference string, context catalog.Element) template.HTML {
	l, _ := tm.resolveLink(reference, context)
	return template.HTML(l)
}

func (tm *TemplateManager) resolveLinksHTML(text string, context catalog.Element) template.HTML {
	return template.HTML(tm.resolveLinks(text, context))
}

// namespaceLinks links every segment of a namespace name to the page of the
// namespace it ends. With last set to false, the final segment is plain
// text.
func (tm *TemplateManager) namespaceLinks(namespace string, last ...bool) template.HTML {
	withLast := len(last) == 0 || last[0]

	parts := strings.Split(namespace, "\\")
	links := make([]string, 0, len(parts))
	var parent string
	for _, part := range parts {
		parent = strings.TrimLeft(parent+"\\"+part, "\\")
		if withLast || parent != namespace {
			links = append(links, string(link(tm.urls.NamespaceURL(parent), part)))
		} else {
			links = append(links, template.HTMLEscapeString(part))
		}
	}
	return template.HTML(strings.Join(links, "\\"))
}

// typeLinks links each of the "|" separated types in the first word of an
// annotation. Types that do not resolve are printed as text.
func (tm *TemplateManager) typeLinks(annotation string, context catalog.Element) template.HTML {
	types, _ := Split(annotation)
	parts := strings.Split(types, "|")
	links := make([]string, 0, len(parts))
	for _, t := range parts {
		t = typeName(t)
		if l, ok := tm.resolveLink(t, context); ok {
			links = append(links, l)
		} else {
			links = append(links, template.HTMLEscapeString(t))
		}
	}
	return template.HTML(strings.Join(links, "|"))
}

func (tm *TemplateManager) classURL(class any) string {
	switch c := class.(type) {
	case *catalog.Class:
		return tm.urls.ClassURL(c.Name)
	case string:
		return tm.urls.ClassURL(c)
	}
	return ""
}

func (tm *TemplateManager) sourceURL(el catalog.Element, withLine ...bool) string {
	return tm.urls.SourceURL(el, len(withLine) == 0 || withLine[0])
}

// link returns an anchor to url with text escaped as its content.
func link(url, text string) template.HTML {
	return template.HTML(anchor(url, template.HTMLEscapeString(text)))
}

func anchor(url, html string) string {
	return `<a href="` + template.HTMLEscapeString(url) + `">` + html + `</a>`
}
