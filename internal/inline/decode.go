package inline

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// Decode converts the inline children of a parsed Markdown node into rich
// text. Inline kinds outside text, emphasis and links contribute nothing;
// their kind names are returned so the caller can report them.
func Decode(parent ast.Node, source []byte) (Text, []string) {
	d := &decoder{source: source}
	t := d.children(parent)
	return Normalize(t), d.skipped
}

type decoder struct {
	source  []byte
	skipped []string
}

func (d *decoder) children(n ast.Node) Text {
	var out Text
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, d.node(c)...)
	}
	return out
}

func (d *decoder) node(n ast.Node) Text {
	switch n := n.(type) {
	case *ast.Text:
		value := resolve(n.Value(d.source))
		// hard breaks are kept as plain line breaks
		if n.SoftLineBreak() || n.HardLineBreak() {
			value += "\n"
		}
		return Text{Plain(value)}

	case *ast.String:
		if n.IsCode() {
			return Text{Plain(string(n.Value))}
		}
		return Text{Plain(resolve(n.Value))}

	case *ast.Emphasis:
		children := d.children(n)
		if n.Level >= 2 {
			return Text{Bold(children...)}
		}
		return Text{Italic(children...)}

	case *ast.Link:
		return Text{Link(resolve(n.Destination), d.children(n)...)}

	case *ast.AutoLink:
		return Text{Link(string(n.URL(d.source)), Plain(string(n.Label(d.source))))}

	default:
		d.skipped = append(d.skipped, n.Kind().String())
		return nil
	}
}

// resolve removes backslash escapes and expands character references. An
// escaped character is never part of a reference.
func resolve(b []byte) string {
	var out []byte
	start := 0
	for i := 0; i+1 < len(b); i++ {
		if b[i] == '\\' && util.IsPunct(b[i+1]) {
			out = append(out, references(b[start:i])...)
			out = append(out, b[i+1])
			i++
			start = i + 1
		}
	}
	out = append(out, references(b[start:])...)
	return string(out)
}

func references(b []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(b))
}
