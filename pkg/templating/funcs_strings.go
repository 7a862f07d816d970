package templating

import (
	"html/template"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ucfirst upper-cases the first character of s.
func ucfirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// escape returns s escaped for use as HTML text.
func escape(s string) template.HTML {
	return template.HTML(template.HTMLEscapeString(s))
}

// replaceRE replaces the matches of pattern in subject. The subject comes
// last so that the helper can end a pipeline. A pattern may be wrapped in
// "~" delimiters followed by i, m or s flags. An invalid pattern leaves the
// subject unchanged.
func (tm *TemplateManager) replaceRE(pattern, replacement, subject string) string {
	re, err := compileDelimited(pattern)
	if err != nil {
		tm.logger.Error("invalid replaceRE pattern", "pattern", pattern, "error", err)
		return subject
	}
	return re.ReplaceAllString(subject, replacement)
}

func compileDelimited(pattern string) (*regexp.Regexp, error) {
	if len(pattern) >= 2 && pattern[0] == '~' {
		if end := strings.LastIndexByte(pattern, '~'); end > 0 {
			body, flags := pattern[1:end], pattern[end+1:]
			if flags != "" && strings.Trim(flags, "ims") == "" {
				body = "(?" + flags + ")" + body
			}
			return regexp.Compile(body)
		}
	}
	return regexp.Compile(pattern)
}
