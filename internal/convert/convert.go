// Package convert maps between the block document and Markdown.
//
// Both directions are best effort: constructs the block model cannot
// represent are dropped, recorded in the returned Report and logged, while
// everything around them is still converted.
package convert

import (
	"fmt"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/gerunddev/blockdown/internal/block"
	"github.com/gerunddev/blockdown/internal/logger"
)

// Direction names the transform a diagnostic came from
type Direction string

const (
	Rendering Direction = "render"
	Parsing   Direction = "parse"
)

// Scope tells whether a whole block or an inline run was dropped
type Scope string

const (
	ScopeBlock  Scope = "block"
	ScopeInline Scope = "inline"
)

// Diagnostic records one skipped construct
type Diagnostic struct {
	Direction Direction
	Scope     Scope
	Kind      string
	Index     int // position of the top-level block or node involved
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: skipped unsupported %s %q at block %d", d.Direction, d.Scope, d.Kind, d.Index)
}

// Report collects what a conversion dropped
type Report struct {
	Skipped []Diagnostic
}

// Clean reports whether nothing was dropped
func (r Report) Clean() bool {
	return len(r.Skipped) == 0
}

func (r *Report) add(dir Direction, scope Scope, kind string, index int) {
	r.Skipped = append(r.Skipped, Diagnostic{Direction: dir, Scope: scope, Kind: kind, Index: index})
}

// Converter runs both transforms. It holds no per-call state and is safe
// for concurrent use.
type Converter struct {
	log *logger.Logger
	md  goldmark.Markdown

	// Now stamps documents produced by FromMarkdown
	Now func() time.Time
}

// New creates a converter logging skipped constructs to log
func New(log *logger.Logger) *Converter {
	if log == nil {
		log = logger.Discard()
	}
	return &Converter{
		log: log,
		md:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
		Now: time.Now,
	}
}

var std = New(nil)

// ToMarkdown renders doc with a converter that does not log
func ToMarkdown(doc block.Document) (string, Report) {
	return std.ToMarkdown(doc)
}

// FromMarkdown parses markdown with a converter that does not log
func FromMarkdown(markdown string) (block.Document, Report) {
	return std.FromMarkdown(markdown)
}

func (c *Converter) logReport(r Report) {
	for _, d := range r.Skipped {
		c.log.ConstructSkipped(string(d.Direction), string(d.Scope), d.Kind, d.Index)
	}
}
