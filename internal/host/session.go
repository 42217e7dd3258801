package host

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/gerunddev/blockdown/internal/block"
	"github.com/gerunddev/blockdown/internal/convert"
	"github.com/gerunddev/blockdown/internal/logger"
	"github.com/gerunddev/blockdown/internal/state"
)

// DefaultDebounce is how long Autosave waits for changes to settle
const DefaultDebounce = 250 * time.Millisecond

// Session connects one editor to one sink
type Session struct {
	editor Editor
	sink   Sink
	conv   *convert.Converter
	log    *logger.Logger

	// Debounce is the quiet period Autosave waits for before saving
	Debounce time.Duration

	mu        sync.Mutex // guards state
	state     *state.State
	statePath string

	now func() time.Time
}

// NewSession creates a session. A nil logger discards output.
func NewSession(editor Editor, sink Sink, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Discard()
	}
	return &Session{
		editor:   editor,
		sink:     sink,
		conv:     convert.New(log),
		log:      log,
		Debounce: DefaultDebounce,
		state:    state.NewState(),
		now:      time.Now,
	}
}

// WithState makes the session remember what it saved across runs. The state
// is written to path after every save; an empty path keeps it in memory.
func (s *Session) WithState(st *state.State, path string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	s.statePath = path
	return s
}

// Bootstrap parses markdown and loads the result into the editor. Every
// block gets an ID before the editor sees it.
func (s *Session) Bootstrap(ctx context.Context, markdown string) (block.Document, convert.Report, error) {
	doc, report := s.conv.FromMarkdown(markdown)
	block.AssignIDs(&doc)

	if err := s.editor.Render(ctx, doc); err != nil {
		return block.Document{}, report, fmt.Errorf("failed to load document into editor: %w", err)
	}

	s.log.DocumentLoaded("bootstrap", len(doc.Blocks))
	return doc, report, nil
}

// SaveResult describes one save
type SaveResult struct {
	Dest      string
	Markdown  string
	Blocks    int
	Bytes     int
	Unchanged bool // the sink already had this Markdown
	Report    convert.Report
	Duration  time.Duration
}

// String returns a human-readable summary of the save
func (r *SaveResult) String() string {
	if r.Unchanged {
		return fmt.Sprintf("%s is up to date (%d blocks)", r.Dest, r.Blocks)
	}
	return fmt.Sprintf("Saved %d blocks to %s: %d bytes, %d skipped (took %v)",
		r.Blocks, r.Dest, r.Bytes, len(r.Report.Skipped), r.Duration.Round(time.Millisecond))
}

// Save snapshots the editor, renders Markdown and writes it to the sink,
// unless that Markdown was the last save and the sink still holds it.
func (s *Session) Save(ctx context.Context) (*SaveResult, error) {
	start := s.now()
	dest := s.sink.Name()

	doc, err := s.editor.Save(ctx)
	if err != nil {
		s.log.SaveFailed(dest, err)
		return nil, err
	}

	markdown, report := s.conv.ToMarkdown(doc)
	result := &SaveResult{
		Dest:     dest,
		Markdown: markdown,
		Blocks:   len(doc.Blocks),
		Bytes:    len(markdown),
		Report:   report,
	}
	hash := state.HashBytes([]byte(markdown))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Matches(dest, hash) && s.sinkHolds(markdown) {
		result.Unchanged = true
		s.log.SaveUnchanged(dest)
		return result, nil
	}

	if err := s.sink.Write(ctx, markdown); err != nil {
		s.log.SaveFailed(dest, err)
		return nil, fmt.Errorf("failed to write %s: %w", dest, err)
	}

	s.state.Record(dest, hash, result.Blocks, s.now())
	if s.statePath != "" {
		if err := s.state.Save(s.statePath); err != nil {
			s.log.SaveFailed(s.statePath, err)
			return nil, err
		}
	}

	result.Duration = s.now().Sub(start)
	s.log.DocumentSaved(dest, result.Blocks, result.Bytes, result.Duration)
	return result, nil
}

// sinkHolds asks the sink whether it still holds markdown. Sinks that
// cannot tell are trusted.
func (s *Session) sinkHolds(markdown string) bool {
	h, ok := s.sink.(Holder)
	return !ok || h.Holds(markdown)
}

// Autosave saves once changes have been quiet for the debounce period. It
// returns when ctx is cancelled or changes is closed, flushing a pending
// save first, and reports how many saves wrote to the sink. Failed saves
// are logged and do not stop the loop.
func (s *Session) Autosave(ctx context.Context, changes <-chan struct{}) int {
	saves := 0
	save := func(ctx context.Context) {
		if result, err := s.Save(ctx); err == nil && !result.Unchanged {
			saves++
		}
	}

	timer := time.NewTimer(s.Debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			if pending {
				save(context.WithoutCancel(ctx))
			}
			return saves

		case _, ok := <-changes:
			if !ok {
				timer.Stop()
				if pending {
					save(ctx)
				}
				return saves
			}
			timer.Reset(s.Debounce)
			pending = true

		case <-timer.C:
			pending = false
			save(ctx)
		}
	}
}

// Watch polls the snapshot file at path and sends on the returned channel
// whenever its content changes. Notifications that arrive while one is
// already pending are coalesced. The channel is closed when ctx is done.
func (s *Session) Watch(ctx context.Context, path string, interval time.Duration) <-chan struct{} {
	changes := make(chan struct{}, 1)

	go func() {
		defer close(changes)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.poll(path, changes)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.poll(path, changes)
			}
		}
	}()

	return changes
}

func (s *Session) poll(path string, changes chan<- struct{}) {
	s.mu.Lock()
	changed, err := s.state.HasChanged(path)
	if err == nil && changed {
		err = s.state.Update(path)
	}
	s.mu.Unlock()

	if err != nil {
		// the front end may not have written a snapshot yet
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("failed to check snapshot", "path", path, "error", err)
		}
		return
	}
	if !changed {
		return
	}

	s.log.SnapshotChanged(path)
	select {
	case changes <- struct{}{}:
	default:
	}
}

// Run watches the snapshot at path and autosaves until ctx is done
func (s *Session) Run(ctx context.Context, path string, interval time.Duration) int {
	s.log.WatchStarted(path, s.sink.Name(), interval)
	saves := s.Autosave(ctx, s.Watch(ctx, path, interval))
	s.log.WatchStopped(saves)
	return saves
}
