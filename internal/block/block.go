// Package block defines the editor's block document: an ordered sequence of
// headers, paragraphs, nested lists, code and diagram blocks.
package block

import (
	"encoding/json"

	"github.com/gerunddev/blockdown/internal/inline"
)

const (
	// DiagramMarker is the fenced code language tag reserved for diagrams.
	// It is matched exactly, case included.
	DiagramMarker = "mermaid"

	// FormatVersion is the document format version reported to the host
	FormatVersion = "2.28.2"
)

// Type names used by the host's tool registry
const (
	TypeHeader    = "header"
	TypeParagraph = "paragraph"
	TypeList      = "list"
	TypeCode      = "code"
	TypeDiagram   = "mermaid"
)

// Document is one editable document in reading order
type Document struct {
	Time    int64 // milliseconds since the Unix epoch
	Blocks  []Block
	Version string
}

// Block is one of *Header, *Paragraph, *List, *Code, *Diagram or *Unknown
type Block interface {
	Type() string
	BlockID() string
	block()
}

// Meta carries host data that conversion ignores
type Meta struct {
	ID string
}

// BlockID returns the host-assigned block ID, empty when unassigned
func (m *Meta) BlockID() string { return m.ID }

func (m *Meta) setID(id string) { m.ID = id }

// Header is a heading of level 1 to 6
type Header struct {
	Meta
	Level int
	Text  inline.Text
}

// Paragraph is a text paragraph
type Paragraph struct {
	Meta
	Text inline.Text
}

// Style selects ordered or unordered list markers
type Style int

const (
	Unordered Style = iota
	Ordered
)

func (s Style) String() string {
	if s == Ordered {
		return "ordered"
	}
	return "unordered"
}

// ParseStyle maps the host's style name, defaulting to unordered
func ParseStyle(s string) Style {
	if s == "ordered" {
		return Ordered
	}
	return Unordered
}

// List is a possibly nested list. Nested items carry no style of their own
// and always follow the list's style.
type List struct {
	Meta
	Style Style
	Items []ListItem
}

// ListItem is one line of list text with its nested sub-items
type ListItem struct {
	Content inline.Text
	Items   []ListItem
}

// Code is a fenced code block without the diagram marker
type Code struct {
	Meta
	Code string
}

// Diagram is a fenced code block tagged with DiagramMarker
type Diagram struct {
	Meta
	Source string
}

// Unknown is a host block of a kind this package does not know. It only
// comes out of the JSON decoder and is preserved verbatim on re-encoding.
type Unknown struct {
	Meta
	Kind string
	Data json.RawMessage
}

func (*Header) Type() string    { return TypeHeader }
func (*Paragraph) Type() string { return TypeParagraph }
func (*List) Type() string      { return TypeList }
func (*Code) Type() string      { return TypeCode }
func (*Diagram) Type() string   { return TypeDiagram }
func (u *Unknown) Type() string { return u.Kind }

func (*Header) block()    {}
func (*Paragraph) block() {}
func (*List) block()      {}
func (*Code) block()      {}
func (*Diagram) block()   {}
func (*Unknown) block()   {}

// TypeOf returns the type name of b, "nil" for a nil block
func TypeOf(b Block) string {
	if b == nil {
		return "nil"
	}
	return b.Type()
}
