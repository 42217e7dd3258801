package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/blockdown/internal/block"
	"github.com/gerunddev/blockdown/internal/convert"
	"github.com/gerunddev/blockdown/internal/inline"
)

func sampleData() *InspectData {
	doc, report := convert.FromMarkdown("# Title\n\n- a\n  - b\n- c\n\n| x |\n|---|\n| 1 |\n\n```mermaid\nflowchart\n  A --> B\n```")
	return &InspectData{Source: "sample.md", Document: doc, Report: report}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name  string
		block block.Block
		width int
		want  string
	}{
		{name: "header", block: &block.Header{Level: 2, Text: inline.FromString("Intro")}, width: 60, want: "H2 Intro"},
		{name: "paragraph newlines", block: &block.Paragraph{Text: inline.FromString("one\ntwo")}, width: 60, want: "one two"},
		{name: "list counts nested", block: &block.List{Style: block.Ordered, Items: []block.ListItem{
			{Content: inline.FromString("a"), Items: []block.ListItem{{Content: inline.FromString("b")}}},
		}}, width: 60, want: "ordered list, 2 items"},
		{name: "single item", block: &block.List{Items: []block.ListItem{{}}}, width: 60, want: "unordered list, 1 item"},
		{name: "code first line", block: &block.Code{Code: "x := 1\ny := 2"}, width: 60, want: "x := 1 …"},
		{name: "diagram", block: &block.Diagram{Source: "flowchart"}, width: 60, want: "flowchart"},
		{name: "unknown", block: &block.Unknown{Kind: "table", Data: []byte(`{}`)}, width: 60, want: "unsupported: {}"},
		{name: "truncated", block: &block.Paragraph{Text: inline.FromString("abcdefghij")}, width: 5, want: "abcd…"},
		{name: "wide runes", block: &block.Paragraph{Text: inline.FromString("日本語です")}, width: 5, want: "日本…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summary(tt.block, tt.width); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRows(t *testing.T) {
	data := sampleData()
	rows := Rows(data.Document)

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	wantTypes := []string{block.TypeHeader, block.TypeList, block.TypeDiagram}
	for i, row := range rows {
		if row[1] != wantTypes[i] {
			t.Errorf("row %d type = %q, want %q", i, row[1], wantTypes[i])
		}
	}
}

func TestInspectNavigation(t *testing.T) {
	m := InitInspectModel(sampleData())

	view := m.View()
	if !strings.Contains(view, "Blocks: 3") {
		t.Errorf("table view missing block count:\n%s", view)
	}
	if !strings.Contains(view, "1 constructs skipped") {
		t.Errorf("table view missing diagnostics:\n%s", view)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(inspectModel)
	if m.view != viewBlock || m.selected != 0 {
		t.Fatalf("enter should open block 0, got view %d block %d", m.view, m.selected)
	}
	if !strings.Contains(m.View(), "Block 0: header") {
		t.Errorf("block view missing heading:\n%s", m.View())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(inspectModel)
	if m.view != viewTable {
		t.Fatalf("esc should return to the table, got view %d", m.view)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	m = next.(inspectModel)
	if m.view != viewMarkdown {
		t.Fatalf("m should show markdown, got view %d", m.view)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(inspectModel)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestInspectEmptyDocument(t *testing.T) {
	m := InitInspectModel(&InspectData{Source: "empty.md"})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if next.(inspectModel).view != viewTable {
		t.Error("enter on an empty document should stay on the table")
	}
	if !strings.Contains(m.View(), "No constructs skipped") {
		t.Errorf("clean report not shown:\n%s", m.View())
	}
}

func TestWatchView(t *testing.T) {
	now := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	m := InitWatchModel()
	m.now = func() time.Time { return now }

	if strings.Contains(m.View(), "Watcher") {
		t.Error("dashboard should be empty before data arrives")
	}

	next, _ := m.Update(WatchMsg{Data: &WatchData{
		Running:   true,
		PID:       42,
		StartTime: now.Add(-90 * time.Second),
		Snapshot:  "/tmp/snapshot.json",
		Document:  "/tmp/document.md",
		LastSave:  now.Add(-3 * time.Minute),
		Blocks:    1200,
		LogLines:  []string{"INFO document saved"},
	}})
	view := next.(watchModel).View()

	for _, want := range []string{"● Running", "1m30s", "3 minutes ago", "1,200", "document saved"} {
		if !strings.Contains(view, want) {
			t.Errorf("dashboard missing %q:\n%s", want, view)
		}
	}
}

func TestWatchQuit(t *testing.T) {
	_, cmd := InitWatchModel().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}
