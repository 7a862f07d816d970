package templating

import "html/template"

// Highlighter renders source code as HTML.
type Highlighter interface {
	Highlight(source string) template.HTML
}

// HighlighterFunc adapts a function to the Highlighter interface.
type HighlighterFunc func(source string) template.HTML

func (f HighlighterFunc) Highlight(source string) template.HTML {
	return f(source)
}

// EscapeHighlighter is the default Highlighter. It only escapes the source.
type EscapeHighlighter struct{}

func (EscapeHighlighter) Highlight(source string) template.HTML {
	return template.HTML(template.HTMLEscapeString(source))
}
