package convert

import (
	"strconv"
	"strings"

	"github.com/gerunddev/blockdown/internal/block"
	"github.com/gerunddev/blockdown/internal/inline"
)

// ToMarkdown renders a block document as Markdown. Blocks are separated by
// a blank line; blocks of an unknown type are reported and left out.
func (c *Converter) ToMarkdown(doc block.Document) (string, Report) {
	var report Report
	parts := make([]string, 0, len(doc.Blocks))

	// the list written last, nil once anything else has been written
	var prevList *block.List
	alternate := false

	for i, b := range doc.Blocks {
		var part string
		var list *block.List
		alt := false

		switch b := b.(type) {
		case *block.Header:
			part = strings.Repeat("#", clampLevel(b.Level)) + " " + inline.Encode(inline.SingleLine(b.Text))
		case *block.Paragraph:
			part = inline.Encode(b.Text)
		case *block.List:
			// two lists in a row would merge into one unless the marker changes
			alt = prevList != nil && prevList.Style == b.Style && !alternate
			part, list = renderList(b, alt), b
		case *block.Code:
			part = fence("", b.Code)
		case *block.Diagram:
			part = fence(block.DiagramMarker, b.Source)
		default:
			report.add(Rendering, ScopeBlock, block.TypeOf(b), i)
		}

		if part == "" {
			continue
		}
		parts = append(parts, part)
		prevList, alternate = list, alt
	}

	c.logReport(report)
	return strings.Join(parts, "\n\n"), report
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

// renderList writes one line per item. Nested items sit directly below
// their parent, indented to the parent's content column, and use the same
// marker style as the top-level list.
func renderList(l *block.List, alternate bool) string {
	var lines []string
	writeItems(&lines, l.Items, l.Style, alternate, "")
	return strings.Join(lines, "\n")
}

func writeItems(lines *[]string, items []block.ListItem, style block.Style, alternate bool, indent string) {
	for i, item := range items {
		marker := bullet(style, alternate, i)
		pad := indent + strings.Repeat(" ", len(marker))

		content := strings.Split(inline.Encode(item.Content), "\n")
		*lines = append(*lines, strings.TrimRight(indent+marker+content[0], " "))
		for _, line := range content[1:] {
			*lines = append(*lines, pad+line)
		}

		if len(item.Items) > 0 {
			writeItems(lines, item.Items, style, alternate, pad)
		}
	}
}

func bullet(style block.Style, alternate bool, index int) string {
	if style == block.Ordered {
		if alternate {
			return strconv.Itoa(index+1) + ") "
		}
		return strconv.Itoa(index+1) + ". "
	}
	if alternate {
		return "* "
	}
	return "- "
}

// fence wraps body in a code fence long enough that the body cannot close it
func fence(lang, body string) string {
	longest, run := 0, 0
	for _, r := range body {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	f := strings.Repeat("`", max(3, longest+1))
	return f + lang + "\n" + body + "\n" + f
}
