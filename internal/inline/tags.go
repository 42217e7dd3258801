package inline

import (
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Tagged renders rich text in the editor's storage form: HTML-escaped text
// with <b>, <i> and <a href> runs and <br> for line breaks.
func (t Text) Tagged() string {
	var b strings.Builder
	writeTagged(&b, Normalize(t))
	return b.String()
}

func writeTagged(b *strings.Builder, t Text) {
	for _, s := range t {
		switch s.Kind {
		case KindText:
			lines := strings.Split(s.Value, "\n")
			for i, line := range lines {
				if i > 0 {
					b.WriteString("<br>")
				}
				b.WriteString(html.EscapeString(line))
			}
		case KindBold:
			b.WriteString("<b>")
			writeTagged(b, s.Children)
			b.WriteString("</b>")
		case KindItalic:
			b.WriteString("<i>")
			writeTagged(b, s.Children)
			b.WriteString("</i>")
		case KindLink:
			b.WriteString(`<a href="`)
			b.WriteString(html.EscapeString(s.URL))
			b.WriteString(`">`)
			writeTagged(b, s.Children)
			b.WriteString("</a>")
		}
	}
}

type frame struct {
	tag  atom.Atom
	span Span
}

// ParseTagged reads the editor's storage form. <strong> and <em> are read as
// bold and italic; any other tag is dropped while its text is kept. Unclosed
// runs are closed at the end of input and stray end tags are ignored.
func ParseTagged(s string) Text {
	z := nethtml.NewTokenizer(strings.NewReader(s))
	stack := []*frame{{}}

	appendSpan := func(sp Span) {
		top := stack[len(stack)-1]
		top.span.Children = append(top.span.Children, sp)
	}
	pop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		appendSpan(top.span)
	}

	for {
		tt := z.Next()
		switch tt {
		case nethtml.ErrorToken:
			for len(stack) > 1 {
				pop()
			}
			return Normalize(stack[0].span.Children)

		case nethtml.TextToken:
			appendSpan(Plain(string(z.Text())))

		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := atom.Lookup(name)
			switch tag {
			case atom.Br:
				appendSpan(Plain("\n"))
				continue
			case atom.B, atom.Strong:
				tag = atom.B
			case atom.I, atom.Em:
				tag = atom.I
			case atom.A:
			default:
				continue
			}
			if tt == nethtml.SelfClosingTagToken {
				continue
			}
			f := &frame{tag: tag}
			switch tag {
			case atom.B:
				f.span = Span{Kind: KindBold}
			case atom.I:
				f.span = Span{Kind: KindItalic}
			case atom.A:
				f.span = Span{Kind: KindLink, URL: href(z, hasAttr)}
			}
			stack = append(stack, f)

		case nethtml.EndTagToken:
			name, _ := z.TagName()
			tag := atom.Lookup(name)
			switch tag {
			case atom.Strong:
				tag = atom.B
			case atom.Em:
				tag = atom.I
			}
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].tag != tag {
					continue
				}
				for len(stack) > i {
					pop()
				}
				break
			}
		}
	}
}

func href(z *nethtml.Tokenizer, hasAttr bool) string {
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		if string(key) == "href" {
			return string(val)
		}
	}
	return ""
}
