package markup

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

var (
	htmlTag = regexp.MustCompile(`<[^<>]*>`)
	tagName = regexp.MustCompile(`^</?([A-Za-z][A-Za-z0-9]*)`)
)

// tagFilter renders raw HTML nodes, escaping every tag that is not on the
// allow list. It replaces the default raw HTML renderers of goldmark.
type tagFilter struct {
	allowed map[string]struct{}
}

func newTagFilter(allowed []string) *tagFilter {
	f := &tagFilter{allowed: make(map[string]struct{}, len(allowed))}
	for _, name := range allowed {
		f.allowed[strings.ToLower(name)] = struct{}{}
	}
	return f
}

func (f *tagFilter) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindRawHTML, f.renderRawHTML)
	reg.Register(ast.KindHTMLBlock, f.renderHTMLBlock)
}

func (f *tagFilter) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	var raw []byte
	for i := 0; i < n.Segments.Len(); i++ {
		segment := n.Segments.At(i)
		raw = append(raw, segment.Value(source)...)
	}
	_, _ = w.Write(f.filter(raw))
	return ast.WalkSkipChildren, nil
}

func (f *tagFilter) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if entering {
		var raw []byte
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			raw = append(raw, line.Value(source)...)
		}
		_, _ = w.Write(f.filter(raw))
	} else if n.HasClosure() {
		_, _ = w.Write(f.filter(n.ClosureLine.Value(source)))
	}
	return ast.WalkContinue, nil
}

// filter escapes the disallowed tags found in raw. Text between tags is
// kept as written.
func (f *tagFilter) filter(raw []byte) []byte {
	return htmlTag.ReplaceAllFunc(raw, func(tag []byte) []byte {
		if f.allows(tag) {
			return tag
		}
		return util.EscapeHTML(tag)
	})
}

func (f *tagFilter) allows(tag []byte) bool {
	if bytes.HasPrefix(tag, []byte("<!")) {
		return false
	}
	m := tagName.FindSubmatch(tag)
	if m == nil {
		return false
	}
	_, ok := f.allowed[strings.ToLower(string(m[1]))]
	return ok
}
