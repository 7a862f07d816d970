package templating

import (
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	inlineTagCode = iota + 1
	whitespaceCode
	referenceCode
	closeCode
)

var (
	inlineTagToken  = parsly.NewToken(inlineTagCode, "Inline tag", matcher.NewFragments([]byte("{@link"), []byte("{@see")))
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	referenceToken  = parsly.NewToken(referenceCode, "Reference", &untilMatcher{stop: '}'})
	closeToken      = parsly.NewToken(closeCode, "Close", matcher.NewByte('}'))
)

// untilMatcher matches one or more bytes up to, not including, stop.
type untilMatcher struct {
	stop byte
}

func (m *untilMatcher) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if cursor.Input[i] == m.stop {
			break
		}
		matched++
	}
	return matched
}

// replaceInlineTags calls replace for every {@link REF} and {@see REF} tag
// in text and substitutes the result for the whole tag. The tag name must
// be followed by whitespace, and REF runs up to the first "}". All other
// text is copied unchanged.
func replaceInlineTags(text string, replace func(ref string) string) string {
	if !strings.Contains(text, "{@") {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))
	cursor := parsly.NewCursor("", []byte(text), 0)
	for cursor.Pos < cursor.InputSize {
		start := cursor.Pos
		if ref, ok := matchInlineTag(cursor); ok {
			out.WriteString(replace(ref))
			continue
		}
		cursor.Pos = start + 1
		out.WriteByte(text[start])
	}
	return out.String()
}

func matchInlineTag(cursor *parsly.Cursor) (string, bool) {
	if cursor.MatchOne(inlineTagToken).Code != inlineTagCode {
		return "", false
	}
	wsStart := cursor.Pos
	if cursor.MatchOne(whitespaceToken).Code != whitespaceCode {
		return "", false
	}
	wsSize := cursor.Pos - wsStart

	match := cursor.MatchOne(referenceToken)
	var ref string
	switch {
	case match.Code == referenceCode:
		ref = match.Text(cursor)
	case wsSize > 1:
		// Nothing but whitespace before "}": the last whitespace byte is
		// the reference.
		ref = string(cursor.Input[cursor.Pos-1])
	default:
		return "", false
	}

	if cursor.MatchOne(closeToken).Code != closeCode {
		return "", false
	}
	return ref, true
}

// Split separates the first word of an annotation value from the rest. The
// words are separated by the first run of whitespace, which belongs to
// neither part.
func Split(value string) (first, rest string) {
	cursor := parsly.NewCursor("", []byte(value), 0)
	for cursor.Pos < cursor.InputSize {
		start := cursor.Pos
		if cursor.MatchOne(whitespaceToken).Code == whitespaceCode {
			return value[:start], value[cursor.Pos:]
		}
		cursor.Pos = start + 1
	}
	return value, ""
}
