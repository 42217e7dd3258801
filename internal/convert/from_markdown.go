package convert

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/gerunddev/blockdown/internal/block"
	"github.com/gerunddev/blockdown/internal/inline"
)

// FromMarkdown parses Markdown into a block document. Top-level constructs
// without a block equivalent (tables, quotes, rules, raw HTML) are reported
// and left out.
func (c *Converter) FromMarkdown(markdown string) (block.Document, Report) {
	source := []byte(markdown)
	root := c.md.Parser().Parse(text.NewReader(source))

	m := &mapper{source: source}
	var blocks []block.Block
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if b := m.block(n); b != nil {
			blocks = append(blocks, b)
		}
		m.index++
	}

	c.logReport(m.report)
	return block.Document{
		Time:    c.Now().UnixMilli(),
		Blocks:  blocks,
		Version: block.FormatVersion,
	}, m.report
}

// mapper walks one syntax tree. It lives for a single call.
type mapper struct {
	source []byte
	index  int
	report Report
}

func (m *mapper) block(n ast.Node) block.Block {
	switch n := n.(type) {
	case *ast.Heading:
		// a setext heading may span lines; a header holds one
		return &block.Header{Level: n.Level, Text: inline.SingleLine(m.inline(n))}

	case *ast.Paragraph:
		return &block.Paragraph{Text: m.inline(n)}

	case *ast.FencedCodeBlock:
		body := m.lines(n)
		if string(n.Language(m.source)) == block.DiagramMarker {
			return &block.Diagram{Source: body}
		}
		return &block.Code{Code: body}

	case *ast.CodeBlock:
		return &block.Code{Code: m.lines(n)}

	case *ast.List:
		style := block.Unordered
		if n.IsOrdered() {
			style = block.Ordered
		}
		return &block.List{Style: style, Items: m.items(n)}

	default:
		m.report.add(Parsing, ScopeBlock, n.Kind().String(), m.index)
		return nil
	}
}

func (m *mapper) items(list *ast.List) []block.ListItem {
	var items []block.ListItem
	for c := list.FirstChild(); c != nil; c = c.NextSibling() {
		if li, ok := c.(*ast.ListItem); ok {
			items = append(items, m.item(li))
		}
	}
	return items
}

// item splits a list item into its text and its sub-items. Lists directly
// inside the item become nested items one level down; every other child
// with inline content is joined line by line into the item's text.
func (m *mapper) item(li *ast.ListItem) block.ListItem {
	var item block.ListItem
	var content []inline.Text

	for c := li.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.List:
			item.Items = append(item.Items, m.items(c)...)
		case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
			content = append(content, m.inline(c))
		default:
			m.report.add(Parsing, ScopeBlock, c.Kind().String(), m.index)
		}
	}

	item.Content = inline.Join(content, "\n")
	return item
}

func (m *mapper) inline(n ast.Node) inline.Text {
	t, skipped := inline.Decode(n, m.source)
	for _, kind := range skipped {
		m.report.add(Parsing, ScopeInline, kind, m.index)
	}
	return t
}

// lines returns the raw body of a code block without its final newline
func (m *mapper) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(m.source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
