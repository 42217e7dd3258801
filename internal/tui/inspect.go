package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/gerunddev/blockdown/internal/block"
	"github.com/gerunddev/blockdown/internal/convert"
	"github.com/gerunddev/blockdown/internal/preview"
	"github.com/gerunddev/blockdown/internal/styles"
)

// InspectData is the document shown by the inspector
type InspectData struct {
	Source   string
	Document block.Document
	Report   convert.Report
}

type inspectView int

const (
	viewTable inspectView = iota
	viewBlock
	viewMarkdown
)

const summaryWidth = 60

type inspectModel struct {
	table    table.Model
	viewport viewport.Model
	data     *InspectData
	view     inspectView
	selected int
	width    int
	height   int
}

// InitInspectModel creates a block inspector for data
func InitInspectModel(data *InspectData) inspectModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Type", Width: 10},
		{Title: "ID", Width: 12},
		{Title: "Content", Width: summaryWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(Rows(data.Document)),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		BorderBottom(true).
		Bold(false)
	ts.Selected = styles.SelectedStyle.Bold(false)
	t.SetStyles(ts)

	vp := viewport.New(100, 20)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(styles.Border)).
		Padding(1)

	return inspectModel{
		table:    t,
		viewport: vp,
		data:     data,
	}
}

// Rows builds one table row per block
func Rows(doc block.Document) []table.Row {
	rows := make([]table.Row, 0, len(doc.Blocks))
	for i, b := range doc.Blocks {
		id := ""
		if b != nil {
			id = b.BlockID()
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i),
			block.TypeOf(b),
			id,
			Summary(b, summaryWidth),
		})
	}
	return rows
}

// Summary describes a block on a single line of at most width cells
func Summary(b block.Block, width int) string {
	var s string
	switch b := b.(type) {
	case *block.Header:
		s = fmt.Sprintf("H%d %s", b.Level, b.Text.String())
	case *block.Paragraph:
		s = b.Text.String()
	case *block.List:
		s = fmt.Sprintf("%s list, %s", b.Style, countItems(b.Items))
	case *block.Code:
		s = firstLine(b.Code)
	case *block.Diagram:
		s = firstLine(b.Source)
	case *block.Unknown:
		s = "unsupported: " + string(b.Data)
	}
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, width, "…")
}

func countItems(items []block.ListItem) string {
	total := 0
	var walk func([]block.ListItem)
	walk = func(items []block.ListItem) {
		for _, it := range items {
			total++
			walk(it.Items)
		}
	}
	walk(items)
	if total == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", total)
}

func firstLine(s string) string {
	line, rest, _ := strings.Cut(s, "\n")
	if rest != "" {
		return line + " …"
	}
	return line
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-10, 3))
		m.viewport.Width = max(msg.Width-4, 20)
		m.viewport.Height = max(msg.Height-8, 3)

	case tea.KeyMsg:
		if m.view != viewTable {
			switch msg.String() {
			case "q", "esc":
				m.view = viewTable
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter":
			if len(m.data.Document.Blocks) == 0 {
				return m, nil
			}
			m.selected = m.table.Cursor()
			m.view = viewBlock
			m.viewport.SetContent(m.blockContent(m.selected))
			m.viewport.GotoTop()
			return m, nil
		case "m":
			m.view = viewMarkdown
			markdown, _ := convert.ToMarkdown(m.data.Document)
			m.viewport.SetContent(preview.Markdown(markdown, m.viewport.Width-4))
			m.viewport.GotoTop()
			return m, nil
		}
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

// blockContent renders one block the way it would appear in the Markdown
func (m inspectModel) blockContent(i int) string {
	b := m.data.Document.Blocks[i]
	if u, ok := b.(*block.Unknown); ok {
		return styles.WarningStyle.Render(fmt.Sprintf("Block type %q has no Markdown form.", u.Kind)) +
			"\n\n" + string(u.Data)
	}
	markdown, _ := convert.ToMarkdown(block.Document{Blocks: []block.Block{b}})
	return preview.Markdown(markdown, m.viewport.Width-4)
}

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("blockdown inspector"))
	b.WriteString("  ")
	b.WriteString(styles.DimStyle.Render(m.data.Source))
	b.WriteString("\n\n")

	switch m.view {
	case viewBlock:
		blk := m.data.Document.Blocks[m.selected]
		b.WriteString(styles.BlockStyle(block.TypeOf(blk)).Render(fmt.Sprintf("Block %d: %s", m.selected, block.TypeOf(blk))))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • esc/q back"))

	case viewMarkdown:
		b.WriteString(styles.HighlightStyle.Render("Markdown"))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • esc/q back"))

	default:
		b.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("Blocks: %d", len(m.data.Document.Blocks))))
		b.WriteString("\n\n")
		b.WriteString(styles.TableStyle.Render(m.table.View()))
		b.WriteString("\n\n")
		b.WriteString(m.diagnostics())
		b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter block • m markdown • q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m inspectModel) diagnostics() string {
	if m.data.Report.Clean() {
		return styles.SuccessStyle.Render("No constructs skipped") + "\n\n"
	}
	var b strings.Builder
	b.WriteString(styles.WarningStyle.Render(fmt.Sprintf("%d constructs skipped", len(m.data.Report.Skipped))))
	b.WriteString("\n")
	for _, d := range m.data.Report.Skipped {
		b.WriteString(styles.DimStyle.Render("  " + d.String()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
