package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FileState represents the state of a single tracked file: either an
// editor snapshot that is watched, or a Markdown document that is written.
type FileState struct {
	MTime   int64  `json:"mtime"`
	Hash    string `json:"hash"`
	Blocks  int    `json:"blocks,omitempty"`
	SavedAt int64  `json:"saved_at,omitempty"`
}

// State is what blockdown remembers between runs
type State struct {
	Files map[string]*FileState `json:"files"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Files: make(map[string]*FileState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	if state.Files == nil {
		state.Files = make(map[string]*FileState)
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HashBytes hashes in-memory content the same way ComputeHash hashes files
func HashBytes(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}

// HasChanged checks if a file has changed since it was last recorded.
// Uses hybrid mtime + hash approach
func (s *State) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	mtime := info.ModTime().Unix()

	fileState, exists := s.Files[path]
	if !exists {
		// New file
		return true, nil
	}

	// Fast path: check mtime first
	if mtime == fileState.MTime {
		return false, nil
	}

	// mtime changed, compute hash to check for actual content changes
	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != fileState.Hash, nil
}

// Update records the current mtime and hash of a file on disk
func (s *State) Update(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	fs := s.entry(path)
	fs.MTime = info.ModTime().Unix()
	fs.Hash = hash

	return nil
}

// Matches reports whether hash is what was last recorded for path
func (s *State) Matches(path, hash string) bool {
	fs, exists := s.Files[path]
	return exists && fs.Hash == hash
}

// Record notes that content with the given hash and block count was saved
// to path at the given time
func (s *State) Record(path, hash string, blocks int, at time.Time) {
	fs := s.entry(path)
	fs.Hash = hash
	fs.Blocks = blocks
	fs.SavedAt = at.Unix()
	if info, err := os.Stat(path); err == nil {
		fs.MTime = info.ModTime().Unix()
	}
}

// GetMTime returns the modification time for a file
func (s *State) GetMTime(path string) time.Time {
	if fileState, exists := s.Files[path]; exists {
		return time.Unix(fileState.MTime, 0)
	}
	return time.Time{}
}

// LastSaved returns when content was last saved to path, or the zero time
func (s *State) LastSaved(path string) time.Time {
	if fileState, exists := s.Files[path]; exists && fileState.SavedAt != 0 {
		return time.Unix(fileState.SavedAt, 0)
	}
	return time.Time{}
}

func (s *State) entry(path string) *FileState {
	fs, exists := s.Files[path]
	if !exists {
		fs = &FileState{}
		s.Files[path] = fs
	}
	return fs
}
