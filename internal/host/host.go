// Package host runs the editing loop around the converter: it loads a
// Markdown document into an editor, and on every change snapshots the editor,
// renders Markdown and hands it to a sink.
package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gerunddev/blockdown/internal/block"
	"github.com/gerunddev/blockdown/internal/state"
)

// DefaultBootstrap is the document a fresh editor starts with
const DefaultBootstrap = "# Hello world!\n" +
	"This is a **test**.\n" +
	"\n" +
	"```mermaid\n" +
	"flowchart\n" +
	"  md[Markdown]\n" +
	"  ejs[\"EditorJS Data\"]\n" +
	"\n" +
	"  md -->|\"fromMarkdown()\"| ejs\n" +
	"  ejs -->|\"toMarkdown()\"| md\n" +
	"\n" +
	"  ejs <-->|\"edit\"| EditorJS\n" +
	"```"

// Editor is the block editor being hosted
type Editor interface {
	// Render replaces the editor's content
	Render(ctx context.Context, doc block.Document) error
	// Save snapshots the editor's current content
	Save(ctx context.Context) (block.Document, error)
}

// Sink receives rendered Markdown
type Sink interface {
	Write(ctx context.Context, markdown string) error
	// Name identifies the destination in logs and state
	Name() string
}

// Holder is implemented by sinks that can tell whether they still hold a
// given rendering. Save only skips an unchanged document when the sink
// confirms it was not edited or removed since.
type Holder interface {
	Holds(markdown string) bool
}

// SnapshotEditor is an editor whose content lives in a JSON snapshot file,
// written by whatever front end is doing the editing
type SnapshotEditor struct {
	Path string
}

// Render writes doc to the snapshot file
func (e *SnapshotEditor) Render(_ context.Context, doc block.Document) error {
	data, err := block.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return writeFile(e.Path, data)
}

// Save reads the snapshot file
func (e *SnapshotEditor) Save(_ context.Context) (block.Document, error) {
	data, err := os.ReadFile(e.Path)
	if err != nil {
		return block.Document{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	doc, err := block.Decode(data)
	if err != nil {
		return block.Document{}, fmt.Errorf("failed to decode snapshot %s: %w", e.Path, err)
	}
	return doc, nil
}

// FileSink writes each save to a file, replacing it
type FileSink struct {
	Path string
}

func (s *FileSink) Write(_ context.Context, markdown string) error {
	return writeFile(s.Path, []byte(markdown+"\n"))
}

func (s *FileSink) Name() string { return s.Path }

// Holds reports whether the file still contains exactly what Write would
// write for markdown
func (s *FileSink) Holds(markdown string) bool {
	hash, err := state.ComputeHash(s.Path)
	return err == nil && hash == state.HashBytes([]byte(markdown+"\n"))
}

// WriterSink prints each save to a stream, separated by a blank line
type WriterSink struct {
	W     io.Writer
	Label string
}

func (s *WriterSink) Write(_ context.Context, markdown string) error {
	_, err := fmt.Fprintf(s.W, "%s\n\n", markdown)
	return err
}

func (s *WriterSink) Name() string {
	if s.Label == "" {
		return "stdout"
	}
	return s.Label
}

// writeFile replaces path through a temporary file in the same directory
// so readers never see a partial write
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
