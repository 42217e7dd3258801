package block

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gerunddev/blockdown/internal/inline"
)

// Wire shapes of the editor's saved output
type wireDocument struct {
	Time    int64       `json:"time"`
	Blocks  []wireBlock `json:"blocks"`
	Version string      `json:"version"`
}

type wireBlock struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type headerData struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

type paragraphData struct {
	Text string `json:"text"`
}

type listData struct {
	Style string            `json:"style"`
	Items []json.RawMessage `json:"items"`
}

type listItemData struct {
	Content string            `json:"content"`
	Items   []json.RawMessage `json:"items"`
}

type codeData struct {
	Code string `json:"code"`
}

type diagramData struct {
	Mermaid string `json:"mermaid"`
}

// MarshalJSON encodes the document in the editor's output format
func (d Document) MarshalJSON() ([]byte, error) {
	wire := wireDocument{
		Time:    d.Time,
		Blocks:  make([]wireBlock, 0, len(d.Blocks)),
		Version: d.Version,
	}
	for i, b := range d.Blocks {
		if b == nil {
			return nil, fmt.Errorf("block %d is nil", i)
		}
		data, err := marshalData(b)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s block %d: %w", b.Type(), i, err)
		}
		wire.Blocks = append(wire.Blocks, wireBlock{ID: b.BlockID(), Type: b.Type(), Data: data})
	}
	return json.Marshal(wire)
}

func marshalData(b Block) (json.RawMessage, error) {
	switch b := b.(type) {
	case *Header:
		return json.Marshal(headerData{Text: b.Text.Tagged(), Level: b.Level})
	case *Paragraph:
		return json.Marshal(paragraphData{Text: b.Text.Tagged()})
	case *List:
		return json.Marshal(struct {
			Style string         `json:"style"`
			Items []itemEncoding `json:"items"`
		}{Style: b.Style.String(), Items: encodeItems(b.Items)})
	case *Code:
		return json.Marshal(codeData{Code: b.Code})
	case *Diagram:
		return json.Marshal(diagramData{Mermaid: b.Source})
	case *Unknown:
		if len(b.Data) == 0 {
			return json.RawMessage("{}"), nil
		}
		return b.Data, nil
	default:
		return nil, fmt.Errorf("unsupported block type %T", b)
	}
}

type itemEncoding struct {
	Content string         `json:"content"`
	Items   []itemEncoding `json:"items"`
}

func encodeItems(items []ListItem) []itemEncoding {
	out := make([]itemEncoding, 0, len(items))
	for _, item := range items {
		out = append(out, itemEncoding{
			Content: item.Content.Tagged(),
			Items:   encodeItems(item.Items),
		})
	}
	return out
}

// UnmarshalJSON decodes the editor's output format. Block types this
// package does not know are kept as *Unknown.
func (d *Document) UnmarshalJSON(data []byte) error {
	var wire wireDocument
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	blocks := make([]Block, 0, len(wire.Blocks))
	for i, wb := range wire.Blocks {
		b, err := unmarshalBlock(wb)
		if err != nil {
			return fmt.Errorf("failed to decode %s block %d: %w", wb.Type, i, err)
		}
		blocks = append(blocks, b)
	}

	d.Time = wire.Time
	d.Blocks = blocks
	d.Version = wire.Version
	return nil
}

func unmarshalBlock(wb wireBlock) (Block, error) {
	meta := Meta{ID: wb.ID}
	data := wb.Data
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		data = []byte("{}")
	}

	switch wb.Type {
	case TypeHeader:
		var h headerData
		if err := json.Unmarshal(data, &h); err != nil {
			return nil, err
		}
		return &Header{Meta: meta, Level: h.Level, Text: inline.ParseTagged(h.Text)}, nil

	case TypeParagraph:
		var p paragraphData
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &Paragraph{Meta: meta, Text: inline.ParseTagged(p.Text)}, nil

	case TypeList:
		var l listData
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, err
		}
		items, err := decodeItems(l.Items)
		if err != nil {
			return nil, err
		}
		return &List{Meta: meta, Style: ParseStyle(l.Style), Items: items}, nil

	case TypeCode:
		var c codeData
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, err
		}
		return &Code{Meta: meta, Code: c.Code}, nil

	case TypeDiagram:
		var m diagramData
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		// the diagram widget saves without surrounding blank lines
		return &Diagram{Meta: meta, Source: strings.Trim(m.Mermaid, "\n")}, nil

	default:
		var raw bytes.Buffer
		if err := json.Compact(&raw, data); err != nil {
			return nil, err
		}
		return &Unknown{Meta: meta, Kind: wb.Type, Data: raw.Bytes()}, nil
	}
}

// decodeItems accepts both nested items and the flat string items written
// by the non-nested list tool.
func decodeItems(raw []json.RawMessage) ([]ListItem, error) {
	var items []ListItem
	for _, r := range raw {
		r = bytes.TrimSpace(r)
		if len(r) > 0 && r[0] == '"' {
			var s string
			if err := json.Unmarshal(r, &s); err != nil {
				return nil, err
			}
			items = append(items, ListItem{Content: inline.ParseTagged(s)})
			continue
		}

		var it listItemData
		if err := json.Unmarshal(r, &it); err != nil {
			return nil, err
		}
		nested, err := decodeItems(it.Items)
		if err != nil {
			return nil, err
		}
		items = append(items, ListItem{Content: inline.ParseTagged(it.Content), Items: nested})
	}
	return items, nil
}

// Decode reads a document from its JSON form
func Decode(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("failed to parse document: %w", err)
	}
	return doc, nil
}

// Encode writes a document in its indented JSON form
func Encode(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}
