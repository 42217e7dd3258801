// Package diff shows what a save would change in the Markdown document.
package diff

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/blockdown/internal/block"
	"github.com/gerunddev/blockdown/internal/convert"
)

// Unified returns a unified diff turning before into after, or an empty
// string when they are equal
func Unified(beforeName, afterName, before, after string) string {
	edits := myers.ComputeEdits(span.URIFromPath(beforeName), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(beforeName, afterName, before, edits))
}

// Render wraps a unified diff in a diff code fence and renders it for the
// terminal. The plain fenced text is returned if rendering fails.
func Render(unified string) string {
	// Wrap in diff code fence for proper syntax highlighting (+ in green, - in red)
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		return diffMarkdown
	}

	return rendered
}

// Pending diffs the document on disk against the Markdown the snapshot
// renders to, which is what the next save would write. A missing document
// counts as empty.
func Pending(snapshotPath, documentPath string) (string, convert.Report, error) {
	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		return "", convert.Report{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	doc, err := block.Decode(data)
	if err != nil {
		return "", convert.Report{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	current, err := os.ReadFile(documentPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", convert.Report{}, fmt.Errorf("failed to read document: %w", err)
	}

	markdown, report := convert.ToMarkdown(doc)
	return Unified(filepath.Base(documentPath), filepath.Base(snapshotPath), string(current), markdown+"\n"), report, nil
}
