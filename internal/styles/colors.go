package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/blockdown/internal/block"
)

// Monokai Pro color palette
const (
	// Base colors
	Background = "#2D2A2E"
	Foreground = "#FCFCFA"

	// Accent colors
	Red     = "#FF6188" // Errors, danger
	Orange  = "#FC9867" // Warnings, skipped constructs
	Yellow  = "#FFD866" // Highlights
	Green   = "#A9DC76" // Success
	Cyan    = "#78DCE8" // Info
	Blue    = "#AB9DF2" // Links
	Magenta = "#FF6188" // Titles, emphasis

	// UI colors
	Comment = "#727072" // Dim text, help
	Border  = "#5B595C" // Borders, separators
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
	HelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))

	// Table styles
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(Magenta))

	TableStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(Border))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Background)).
			Background(lipgloss.Color(Yellow))

	NormalTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Foreground))
)

var blockColors = map[string]string{
	block.TypeHeader:    Magenta,
	block.TypeParagraph: Foreground,
	block.TypeList:      Cyan,
	block.TypeCode:      Green,
	block.TypeDiagram:   Blue,
}

// BlockStyle colors a block type name. Types the converter does not know
// are shown as warnings.
func BlockStyle(typ string) lipgloss.Style {
	if c, ok := blockColors[typ]; ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return WarningStyle
}

// Success renders a ✓ line
func Success(format string, a ...any) string {
	return SuccessStyle.Render("✓ " + fmt.Sprintf(format, a...))
}

// Failure renders a ✗ line
func Failure(format string, a ...any) string {
	return ErrorStyle.Render("✗ " + fmt.Sprintf(format, a...))
}

// Warning renders a ! line
func Warning(format string, a ...any) string {
	return WarningStyle.Render("! " + fmt.Sprintf(format, a...))
}
