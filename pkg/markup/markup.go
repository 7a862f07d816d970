// Package markup converts documentation comment text into HTML.
//
// Text is treated as Markdown. Inline and block HTML written in comments is
// passed through only for the tags on the allow list; any other tag is
// escaped and shows up as text. Blocks wrapped in <code> or <pre> are
// rendered verbatim inside <pre>, optionally through a highlighter.
package markup

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// DefaultAllowedHTML is the tag allow list used when none is configured.
var DefaultAllowedHTML = []string{"b", "i", "a", "ul", "ol", "li", "p", "br", "var", "samp", "kbd", "tt"}

var codeBlock = regexp.MustCompile(`(?s)<(code|pre)>(.+?)</(?:code|pre)>`)

// Converter turns comment text into HTML. It is safe for concurrent use.
type Converter struct {
	md        goldmark.Markdown
	highlight func(string) string
}

// Option configures a Converter.
type Option func(*Converter)

// WithHighlighter sets the function used for the contents of <code> blocks.
// Without one, the contents are HTML-escaped.
func WithHighlighter(fn func(source string) string) Option {
	return func(c *Converter) {
		c.highlight = fn
	}
}

// New returns a Converter that lets through the given HTML tags.
func New(allowed []string, opts ...Option) *Converter {
	filter := newTagFilter(allowed)
	c := &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough, extension.Table),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
				renderer.WithNodeRenderers(util.Prioritized(filter, 100)),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Block converts text as a sequence of blocks.
func (c *Converter) Block(text string) (string, error) {
	var out strings.Builder
	last := 0
	for _, m := range codeBlock.FindAllStringSubmatchIndex(text, -1) {
		if err := c.convert(&out, text[last:m[0]]); err != nil {
			return "", err
		}
		tag, body := text[m[2]:m[3]], text[m[4]:m[5]]
		out.WriteString("<pre>")
		if tag == "code" && c.highlight != nil {
			out.WriteString(c.highlight(body))
		} else {
			out.WriteString(html.EscapeString(body))
		}
		out.WriteString("</pre>\n")
		last = m[1]
	}
	if err := c.convert(&out, text[last:]); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Line converts text as inline content. A result that is a single
// paragraph is returned without the enclosing <p> element.
func (c *Converter) Line(line string) (string, error) {
	source := []byte(line)
	doc := c.md.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, source, doc); err != nil {
		return "", fmt.Errorf("failed to render line: %w", err)
	}

	out := buf.String()
	if doc.ChildCount() == 1 && doc.FirstChild().Kind() == ast.KindParagraph {
		out = strings.TrimSuffix(out, "\n")
		out = strings.TrimPrefix(out, "<p>")
		out = strings.TrimSuffix(out, "</p>")
	}
	return out, nil
}

func (c *Converter) convert(out *strings.Builder, source string) error {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(source), &buf); err != nil {
		return fmt.Errorf("failed to convert markup: %w", err)
	}
	out.Write(buf.Bytes())
	return nil
}
