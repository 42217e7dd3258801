// Package inline holds rich text: a small span tree of plain text, bold,
// italic and link runs, and the codecs that move it between Markdown and the
// tag-delimited form stored inside editor blocks.
package inline

import "strings"

// Kind identifies a span variant
type Kind int

const (
	KindText Kind = iota
	KindBold
	KindItalic
	KindLink
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBold:
		return "bold"
	case KindItalic:
		return "italic"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Span is one run of rich text. Value is set for KindText only, URL for
// KindLink only; every other kind carries its content in Children.
type Span struct {
	Kind     Kind
	Value    string
	URL      string
	Children Text
}

// Text is the rich text content of a single block field
type Text []Span

// Plain returns a text span
func Plain(s string) Span {
	return Span{Kind: KindText, Value: s}
}

// Bold wraps children in a bold span
func Bold(children ...Span) Span {
	return Span{Kind: KindBold, Children: children}
}

// Italic wraps children in an italic span
func Italic(children ...Span) Span {
	return Span{Kind: KindItalic, Children: children}
}

// Link wraps children in a link pointing at url
func Link(url string, children ...Span) Span {
	return Span{Kind: KindLink, URL: url, Children: children}
}

// FromString returns plain text without any formatting
func FromString(s string) Text {
	return Normalize(Text{Plain(s)})
}

// String returns the text with all formatting removed
func (t Text) String() string {
	var b strings.Builder
	writePlain(&b, t)
	return b.String()
}

func writePlain(b *strings.Builder, t Text) {
	for _, s := range t {
		if s.Kind == KindText {
			b.WriteString(s.Value)
			continue
		}
		writePlain(b, s.Children)
	}
}

// IsEmpty reports whether the text renders to nothing
func (t Text) IsEmpty() bool {
	return len(Normalize(t)) == 0
}

// Normalize merges adjacent text spans and drops empty text, bold and italic
// spans. Bold directly inside bold, and italic inside italic, is merged into
// its parent. Links are kept even without children since their URL is
// content. An empty result is nil so that equal texts compare equal.
func Normalize(t Text) Text {
	var out Text
	for _, s := range t {
		switch s.Kind {
		case KindText:
			if s.Value == "" {
				continue
			}
			if n := len(out); n > 0 && out[n-1].Kind == KindText {
				out[n-1].Value += s.Value
				continue
			}
			out = append(out, Plain(s.Value))
		case KindBold, KindItalic:
			children := unwrap(s.Kind, Normalize(s.Children))
			if children == nil {
				continue
			}
			out = append(out, Span{Kind: s.Kind, Children: children})
		case KindLink:
			out = append(out, Span{Kind: KindLink, URL: s.URL, Children: Normalize(s.Children)})
		}
	}
	return out
}

// Join concatenates texts with a plain separator between them
func Join(parts []Text, sep string) Text {
	var out Text
	for i, p := range parts {
		if i > 0 {
			out = append(out, Plain(sep))
		}
		out = append(out, p...)
	}
	return Normalize(out)
}

// unwrap replaces children of the given kind with their own children
func unwrap(kind Kind, children Text) Text {
	nested := false
	for _, c := range children {
		if c.Kind == kind {
			nested = true
			break
		}
	}
	if !nested {
		return children
	}

	var out Text
	for _, c := range children {
		if c.Kind == kind {
			out = append(out, c.Children...)
			continue
		}
		out = append(out, c)
	}
	return Normalize(out)
}

// SingleLine replaces line breaks with spaces
func SingleLine(t Text) Text {
	out := make(Text, 0, len(t))
	for _, s := range t {
		if s.Kind == KindText {
			s.Value = strings.ReplaceAll(s.Value, "\n", " ")
		} else {
			s.Children = SingleLine(s.Children)
		}
		out = append(out, s)
	}
	return Normalize(out)
}
