package templating

import (
	"html/template"
	"regexp"
	"sort"

	"github.com/Tjoosten/ApiGen/pkg/catalog"
)

// unsupportedAnnotations are never listed with the other annotations of an
// element.
var unsupportedAnnotations = []string{
	"property", "property-read", "property-write", "method", "abstract", "access",
	"final", "filesource", "global", "name", "static", "staticvar",
}

// annotationOrder is the listing order of annotations. Tags not listed here
// come last.
var annotationOrder = map[string]int{
	"deprecated": 0, "internal": 1, "category": 2, "package": 3, "subpackage": 4, "copyright": 5,
	"license": 6, "author": 7, "version": 8, "since": 9, "see": 10, "uses": 11,
	"link": 12, "example": 13, "tutorial": 14, "todo": 15,
}

const unorderedAnnotation = 99

// AnnotationGroup is one tag with all of its values.
type AnnotationGroup struct {
	Name   string
	Values []string
}

// docblock formats text as a sequence of blocks and links its inline tags.
func (tm *TemplateManager) docblock(text string, context catalog.Element) template.HTML {
	html, err := tm.markup.Block(text)
	if err != nil {
		tm.logger.Error("failed to format docblock", "error", err)
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(tm.resolveLinks(html, context))
}

// docline formats text as inline content and links its inline tags.
func (tm *TemplateManager) docline(text string, context catalog.Element) template.HTML {
	html, err := tm.markup.Line(text)
	if err != nil {
		tm.logger.Error("failed to format docline", "error", err)
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(tm.resolveLinks(html, context))
}

// description formats the part of an annotation after its first word. For
// parameters, a leading "$name" or "name" is dropped as well.
func (tm *TemplateManager) description(annotation string, context catalog.Element) template.HTML {
	_, description := Split(annotation)
	if p, ok := context.(*catalog.Parameter); ok && p.Name != "" {
		re := regexp.MustCompile(`(?i)^(\$?` + regexp.QuoteMeta(p.Name) + `)(\s+|$)`)
		description = re.ReplaceAllString(description, "$2")
	}
	return tm.docline(description, context)
}

func (tm *TemplateManager) shortDescription(el catalog.Element) template.HTML {
	return tm.docline(el.Info().ShortDescription, el)
}

func (tm *TemplateManager) longDescription(el catalog.Element) template.HTML {
	info := el.Info()
	text := info.ShortDescription
	if info.LongDescription != "" {
		text += "\n\n" + info.LongDescription
	}
	return tm.docblock(text, el)
}

// annotation formats one value of the named annotation of context.
func (tm *TemplateManager) annotation(value, name string, context catalog.Element) template.HTML {
	switch name {
	case "param", "return", "throws":
		out := "<code>" + string(tm.typeLinks(value, context)) + "</code>"
		if description := tm.description(value, context); description != "" {
			out += "<br />" + string(description)
		}
		return template.HTML(out)

	case "package":
		if tm.config.Packages {
			pkg, description := Split(value)
			return link(tm.urls.PackageURL(pkg), pkg) + " " + tm.docline(description, context)
		}

	case "subpackage":
		var pkg string
		if context != nil {
			pkg, _ = Split(context.Info().Annotation("package"))
		}
		sub, description := Split(value)
		if tm.config.Packages && pkg != "" {
			return link(tm.urls.PackageURL(pkg+"\\"+sub), sub) + " " + tm.docline(description, context)
		}

	case "see", "uses":
		ref, description := Split(value)
		separator := "<br />"
		if _, isClass := context.(*catalog.Class); isClass || description == "" {
			separator = " "
		}
		if tm.resolveElement(ref, context) != nil {
			return template.HTML("<code>" + string(tm.typeLinks(ref, context)) + "</code>" + separator + template.HTMLEscapeString(description))
		}
	}

	return tm.docline(value, context)
}

// annotationFilter returns the annotations without the unsupported tags,
// without the tags named in filter and, unless enabled, without @todo.
func (tm *TemplateManager) annotationFilter(annotations map[string][]string, filter ...string) map[string][]string {
	result := make(map[string][]string, len(annotations))
	for name, values := range annotations {
		result[name] = values
	}
	for _, name := range unsupportedAnnotations {
		delete(result, name)
	}
	for _, name := range filter {
		delete(result, name)
	}
	if !tm.config.Todo {
		delete(result, "todo")
	}
	return result
}

// annotationSort orders annotations for listing. Tags of equal rank are
// sorted by name.
func annotationSort(annotations map[string][]string) []AnnotationGroup {
	groups := make([]AnnotationGroup, 0, len(annotations))
	for name, values := range annotations {
		groups = append(groups, AnnotationGroup{Name: name, Values: values})
	}
	sort.Slice(groups, func(i, j int) bool {
		a, b := annotationRank(groups[i].Name), annotationRank(groups[j].Name)
		if a != b {
			return a < b
		}
		return groups[i].Name < groups[j].Name
	})
	return groups
}

func annotationRank(name string) int {
	if rank, ok := annotationOrder[name]; ok {
		return rank
	}
	return unorderedAnnotation
}
