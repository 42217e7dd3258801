package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/gerunddev/blockdown/internal/styles"
)

// WatchData holds what the watch dashboard shows
type WatchData struct {
	Running   bool
	PID       int
	StartTime time.Time
	Snapshot  string
	Document  string
	LastSave  time.Time
	Blocks    int
	LogLines  []string
}

// WatchMsg is sent when dashboard data is ready
type WatchMsg struct {
	Data *WatchData
	Err  error
}

type watchModel struct {
	data  *WatchData
	err   error
	ready bool
	now   func() time.Time
}

// InitWatchModel creates the watch dashboard
func InitWatchModel() watchModel {
	return watchModel{now: time.Now}
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case WatchMsg:
		m.ready = true
		m.data = msg.Data
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("blockdown watch"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.Failure("Error: %s", m.err.Error()) + "\n"
	}

	if !m.ready || m.data == nil {
		return b.String()
	}

	b.WriteString(styles.HeaderStyle.Render("Watcher"))
	b.WriteString("\n")
	if m.data.Running {
		uptime := m.now().Sub(m.data.StartTime).Round(time.Second)
		b.WriteString(fmt.Sprintf("  Status:   %s\n", styles.SuccessStyle.Render("● Running")))
		b.WriteString(fmt.Sprintf("  PID:      %s\n", styles.NormalTextStyle.Render(fmt.Sprintf("%d", m.data.PID))))
		b.WriteString(fmt.Sprintf("  Uptime:   %s\n", styles.NormalTextStyle.Render(uptime.String())))
	} else {
		b.WriteString(fmt.Sprintf("  Status:   %s\n", styles.HelpStyle.Render("○ Not running")))
	}
	b.WriteString(fmt.Sprintf("  Snapshot: %s\n", styles.DimStyle.Render(m.data.Snapshot)))
	b.WriteString(fmt.Sprintf("  Document: %s\n", styles.DimStyle.Render(m.data.Document)))
	b.WriteString("\n")

	b.WriteString(styles.HeaderStyle.Render("Saves"))
	b.WriteString("\n")
	if !m.data.LastSave.IsZero() {
		b.WriteString(fmt.Sprintf("  Last save: %s\n", styles.NormalTextStyle.Render(humanize.RelTime(m.data.LastSave, m.now(), "ago", "from now"))))
		b.WriteString(fmt.Sprintf("  Blocks:    %s\n", styles.NormalTextStyle.Render(humanize.Comma(int64(m.data.Blocks)))))
	} else {
		b.WriteString(fmt.Sprintf("  %s\n", styles.HelpStyle.Render("Nothing saved yet")))
	}
	b.WriteString("\n")

	b.WriteString(styles.HeaderStyle.Render("Recent Logs"))
	b.WriteString("\n")
	if len(m.data.LogLines) > 0 {
		for _, line := range m.data.LogLines {
			b.WriteString("  " + line + "\n")
		}
	} else {
		b.WriteString(styles.HelpStyle.Render("  No logs available"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.HelpStyle.Render("q quit • auto-refresh: 2s"))
	b.WriteString("\n")

	return b.String()
}
