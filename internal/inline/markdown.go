package inline

import (
	"strings"
	"unicode"
)

// Characters that open or close an inline construct wherever they appear:
// emphasis, links, code spans, autolinks and raw HTML, entity references,
// strikethrough and table cells
var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`&`, `\&`,
	`~`, `\~`,
	`|`, `\|`,
)

// Encode renders rich text as inline Markdown.
//
// Text leaves are escaped before any delimiter is written, so delimiters are
// never escaped twice. Bold and italic may nest to any depth. Characters that
// would start a block at the beginning of a line are escaped last, once the
// line layout is known.
func Encode(t Text) string {
	var b strings.Builder
	encode(&b, Normalize(t))
	return escapeLineStarts(b.String())
}

func encode(b *strings.Builder, t Text) {
	for _, s := range t {
		switch s.Kind {
		case KindText:
			b.WriteString(textEscaper.Replace(s.Value))
		case KindBold:
			delimit(b, "**", s.Children)
		case KindItalic:
			delimit(b, "*", s.Children)
		case KindLink:
			var label strings.Builder
			encode(&label, s.Children)
			b.WriteString("[")
			b.WriteString(label.String())
			b.WriteString("](")
			b.WriteString(destination(s.URL))
			b.WriteString(")")
		}
	}
}

// delimit wraps the encoded children in delim. Leading and trailing
// whitespace is moved outside the delimiters, otherwise the run would not be
// left- or right-flanking and would be read back as literal asterisks.
func delimit(b *strings.Builder, delim string, children Text) {
	var inner strings.Builder
	encode(&inner, children)
	body := inner.String()

	trimmed := strings.TrimFunc(body, unicode.IsSpace)
	if trimmed == "" {
		b.WriteString(body)
		return
	}
	start := strings.Index(body, trimmed)
	b.WriteString(body[:start])
	b.WriteString(delim)
	b.WriteString(trimmed)
	b.WriteString(delim)
	b.WriteString(body[start+len(trimmed):])
}

// destination formats a link target, switching to the <...> form when the
// bare form would end early.
func destination(url string) string {
	if !strings.ContainsAny(url, " \t()<>") {
		return url
	}
	r := strings.NewReplacer(`<`, `\<`, `>`, `\>`)
	return "<" + r.Replace(url) + ">"
}

// escapeLineStarts escapes the first character of any line that would
// otherwise open a heading, quote, list item or setext underline
func escapeLineStarts(s string) string {
	if !strings.ContainsAny(s, "#-+>=0123456789") {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if at := blockMarker(line[indent:]); at >= 0 {
			at += indent
			lines[i] = line[:at] + `\` + line[at:]
		}
	}
	return strings.Join(lines, "\n")
}

// blockMarker returns the offset of the character in line that makes it a
// block marker, or -1
func blockMarker(line string) int {
	if line == "" {
		return -1
	}
	switch line[0] {
	case '#', '-', '+', '>', '=':
		return 0
	}
	// ordered list markers have at most nine digits
	digits := 0
	for digits < len(line) && digits < 10 && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(line) && (line[digits] == '.' || line[digits] == ')') {
		return digits
	}
	return -1
}
