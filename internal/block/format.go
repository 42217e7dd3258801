package block

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sanity-io/litter"
	"gopkg.in/yaml.v3"
)

// Format selects how a document is written for humans or tools
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatDump Format = "dump"
)

// Valid reports whether f is a known format
func (f Format) Valid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatDump:
		return true
	}
	return false
}

// Write renders doc in the given format
func Write(doc Document, f Format) ([]byte, error) {
	switch f {
	case FormatJSON, "":
		return Encode(doc)

	case FormatYAML:
		data, err := Encode(doc)
		if err != nil {
			return nil, err
		}
		// JSON is a subset of YAML; going through a node keeps key order
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("failed to convert document to yaml: %w", err)
		}
		blockStyle(&node)
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return nil, fmt.Errorf("failed to marshal yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal yaml: %w", err)
		}
		return buf.Bytes(), nil

	case FormatDump:
		opts := litter.Options{
			HidePrivateFields: true,
			HideZeroValues:    true,
			StripPackageNames: true,
		}
		return []byte(opts.Sdump(doc) + "\n"), nil

	default:
		return nil, fmt.Errorf("unsupported output format %q", f)
	}
}

// Read parses a document written in JSON or YAML
func Read(data []byte, f Format) (Document, error) {
	switch f {
	case FormatJSON, "":
		return Decode(data)

	case FormatYAML:
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return Document{}, fmt.Errorf("failed to parse yaml document: %w", err)
		}
		jsonData, err := json.Marshal(generic)
		if err != nil {
			return Document{}, fmt.Errorf("failed to convert yaml document: %w", err)
		}
		return Decode(jsonData)

	default:
		return Document{}, fmt.Errorf("cannot read documents in %q format", f)
	}
}

// blockStyle drops the flow style inherited from the JSON source
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
