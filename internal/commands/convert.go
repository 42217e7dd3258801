package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/blockdown/internal/block"
	"github.com/gerunddev/blockdown/internal/convert"
	"github.com/gerunddev/blockdown/internal/diff"
	"github.com/gerunddev/blockdown/internal/preview"
	"github.com/gerunddev/blockdown/internal/styles"
	"github.com/gerunddev/blockdown/internal/tui"
)

// Parse converts Markdown to a block document
func Parse(args []string) {
	f, err := formatFlag(args, block.FormatJSON)
	exitOnError(err, "Invalid format")

	data, err := readInput(positional(args), os.Stdin)
	exitOnError(err, "Error reading input")

	out, report, err := parseMarkdown(convert.New(stderrLogger(args)), string(data), f, hasFlag(args, "--ids"))
	exitOnError(err, "Error writing document")

	os.Stdout.Write(out)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		fmt.Println()
	}
	printReport(report)
}

func parseMarkdown(c *convert.Converter, markdown string, f block.Format, ids bool) ([]byte, convert.Report, error) {
	doc, report := c.FromMarkdown(markdown)
	if ids {
		block.AssignIDs(&doc)
	}
	out, err := block.Write(doc, f)
	return out, report, err
}

// Render converts a block document to Markdown
func Render(args []string) {
	path := positional(args)
	f, err := inputFormat(args, path)
	exitOnError(err, "Invalid format")

	data, err := readInput(path, os.Stdin)
	exitOnError(err, "Error reading input")

	markdown, report, err := renderDocument(convert.New(stderrLogger(args)), data, f)
	exitOnError(err, "Error reading document")

	fmt.Println(markdown)
	printReport(report)
}

func renderDocument(c *convert.Converter, data []byte, f block.Format) (string, convert.Report, error) {
	doc, err := block.Read(data, f)
	if err != nil {
		return "", convert.Report{}, err
	}
	markdown, report := c.ToMarkdown(doc)
	return markdown, report, nil
}

// checkResult describes what a Markdown text loses on its way through the
// editor
type checkResult struct {
	Normalized string // the Markdown after one round trip
	Diff       string // unified diff from the input to Normalized
	Stable     bool   // a second round trip leaves Normalized unchanged
	Report     convert.Report
}

func checkMarkdown(c *convert.Converter, markdown string) checkResult {
	doc, report := c.FromMarkdown(markdown)
	normalized, rendered := c.ToMarkdown(doc)
	report.Skipped = append(report.Skipped, rendered.Skipped...)

	again, _ := c.FromMarkdown(normalized)
	twice, _ := c.ToMarkdown(again)

	input := strings.TrimRight(markdown, "\n") + "\n"
	return checkResult{
		Normalized: normalized,
		Diff:       diff.Unified("input", "editor", input, normalized+"\n"),
		Stable:     twice == normalized,
		Report:     report,
	}
}

// Check reports what a Markdown file would lose in the editor. It exits
// non-zero when constructs are dropped or the round trip is unstable.
func Check(args []string) {
	path := positional(args)
	data, err := readInput(path, os.Stdin)
	exitOnError(err, "Error reading input")

	result := checkMarkdown(convert.New(stderrLogger(args)), string(data))

	if result.Diff == "" {
		fmt.Println(styles.Success("Round trip is lossless"))
		return
	}

	if hasFlag(args, "--plain") {
		fmt.Print(result.Diff)
	} else {
		fmt.Print(diff.Render(result.Diff))
	}

	printReport(result.Report)
	if !result.Stable {
		fmt.Println(styles.Failure("Round trip is not stable: a second pass changes the output"))
		os.Exit(1)
	}
	if !result.Report.Clean() {
		fmt.Println(styles.Failure("%d constructs would be dropped", len(result.Report.Skipped)))
		os.Exit(1)
	}
	fmt.Println(styles.Success("Only formatting changes"))
}

// Diff shows what the next save would change in the document
func Diff(args []string) {
	cfg := loadConfig()

	pending, report, err := diff.Pending(cfg.SnapshotFile, cfg.DocumentFile)
	exitOnError(err, "Error computing diff")

	if pending == "" {
		fmt.Println(styles.Success("%s is up to date", cfg.DocumentFile))
		return
	}
	if hasFlag(args, "--plain") {
		fmt.Print(pending)
	} else {
		fmt.Print(diff.Render(pending))
	}
	printReport(report)
}

// Preview renders a Markdown file or block document in the terminal
func Preview(args []string) {
	path := positional(args)
	width := preview.DefaultWidth
	if v, ok := flagValue(args, "--width"); ok {
		w, err := strconv.Atoi(v)
		if err != nil || w <= 0 {
			exitOnError(fmt.Errorf("%q is not a positive number", v), "Invalid width")
		}
		width = w
	}

	data, err := readInput(path, os.Stdin)
	exitOnError(err, "Error reading input")

	if _, forced := flagValue(args, "--from"); !forced && isMarkdown(path) {
		fmt.Print(preview.Markdown(string(data), width))
		return
	}

	f, err := inputFormat(args, path)
	exitOnError(err, "Invalid format")
	doc, err := block.Read(data, f)
	exitOnError(err, "Error reading document")

	out, report := preview.Document(doc, width)
	fmt.Print(out)
	printReport(report)
}

// Inspect browses the blocks of a document interactively. Without a path
// the configured snapshot is inspected.
func Inspect(args []string) {
	path := positional(args)
	if path == "" || path == "-" {
		path = loadConfig().SnapshotFile
	}

	data, err := readInput(path, os.Stdin)
	exitOnError(err, "Error reading input")

	c := convert.New(stderrLogger(args))
	inspect := &tui.InspectData{Source: path}
	if isMarkdown(path) {
		inspect.Document, inspect.Report = c.FromMarkdown(string(data))
	} else {
		f, err := inputFormat(args, path)
		exitOnError(err, "Invalid format")
		inspect.Document, err = block.Read(data, f)
		exitOnError(err, "Error reading document")
		_, inspect.Report = c.ToMarkdown(inspect.Document)
	}

	p := tea.NewProgram(tui.InitInspectModel(inspect), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println(styles.Failure("Error: %s", err.Error()))
		os.Exit(1)
	}
}
