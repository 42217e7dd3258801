package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	cleanup := func() {
		f.Close()
	}

	return &Logger{Logger: l}, cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(writers ...io.Writer) *Logger {
	w := io.MultiWriter(writers...)
	return New(w)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ConstructSkipped logs a construct dropped during conversion
func (l *Logger) ConstructSkipped(direction, scope, kind string, index int) {
	l.Warn("unsupported construct skipped",
		"direction", direction,
		"scope", scope,
		"kind", kind,
		"index", index)
}

// DocumentLoaded logs a document handed to the editor
func (l *Logger) DocumentLoaded(source string, blocks int) {
	l.Info("document loaded",
		"source", source,
		"blocks", blocks)
}

// DocumentSaved logs a rendered document written to its sink
func (l *Logger) DocumentSaved(dest string, blocks, bytes int, duration time.Duration) {
	l.Info("document saved",
		"dest", dest,
		"blocks", blocks,
		"bytes", bytes,
		"duration", duration.Round(time.Millisecond))
}

// SaveUnchanged logs a save skipped because the Markdown did not change
func (l *Logger) SaveUnchanged(dest string) {
	l.Debug("save skipped",
		"dest", dest,
		"reason", "unchanged")
}

// SaveFailed logs a failed save
func (l *Logger) SaveFailed(dest string, err error) {
	l.Error("save failed",
		"dest", dest,
		"error", err)
}

// SnapshotChanged logs a change notification from the editor snapshot
func (l *Logger) SnapshotChanged(path string) {
	l.Debug("snapshot changed",
		"path", path)
}

// WatchStarted logs the start of the autosave loop
func (l *Logger) WatchStarted(snapshot, dest string, interval time.Duration) {
	l.Info("watch started",
		"snapshot", snapshot,
		"dest", dest,
		"interval", interval)
}

// WatchStopped logs the end of the autosave loop
func (l *Logger) WatchStopped(saves int) {
	l.Info("watch stopped",
		"saves", saves)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(document, snapshot string, interval time.Duration) {
	l.Debug("config loaded",
		"document_file", document,
		"snapshot_file", snapshot,
		"interval", interval)
}
