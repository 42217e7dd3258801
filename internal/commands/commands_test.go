package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gerunddev/blockdown/internal/block"
	"github.com/gerunddev/blockdown/internal/convert"
)

func TestParseLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "blockdown.log")
	content := strings.Join([]string{
		"2025-01-02 10:00:00 INFO watch started snapshot=/s.json dest=/d.md interval=2s",
		"2025-01-02 10:00:01 INFO document saved dest=/d.md blocks=3 bytes=120 duration=1ms",
		"2025-01-02 10:05:00 WARN unsupported construct skipped direction=render scope=block kind=table index=2",
		"2025-01-02 10:06:30 INFO document saved dest=/d.md blocks=7 bytes=410 duration=2ms",
		"2025-01-02 10:07:00 DEBU snapshot changed path=/s.json",
	}, "\n") + "\n"
	if err := os.WriteFile(logPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lines, lastSave, blocks := ParseLogFile(logPath, 3)
	if len(lines) != 3 {
		t.Errorf("got %d lines, want 3", len(lines))
	}
	want := time.Date(2025, 1, 2, 10, 6, 30, 0, time.Local)
	if !lastSave.Equal(want) {
		t.Errorf("lastSave = %v, want %v", lastSave, want)
	}
	if blocks != 7 {
		t.Errorf("blocks = %d, want 7", blocks)
	}

	_, lastSave, _ = ParseLogFile(logPath, 1)
	if !lastSave.IsZero() {
		t.Error("no save within the tail should give a zero time")
	}

	lines, _, _ = ParseLogFile(filepath.Join(t.TempDir(), "missing.log"), 5)
	if len(lines) != 1 || lines[0] != "Unable to read log file" {
		t.Errorf("missing log lines = %v", lines)
	}
}

func TestFlagParsing(t *testing.T) {
	args := []string{"--format", "yaml", "--plain", "notes.md", "--interval=5s"}

	if v, ok := flagValue(args, "--format"); !ok || v != "yaml" {
		t.Errorf("flagValue(--format) = %q, %v", v, ok)
	}
	if v, ok := flagValue(args, "--interval"); !ok || v != "5s" {
		t.Errorf("flagValue(--interval) = %q, %v", v, ok)
	}
	if _, ok := flagValue(args, "--width"); ok {
		t.Error("flagValue(--width) should be absent")
	}
	if !hasFlag(args, "--plain") || hasFlag(args, "--force") {
		t.Error("hasFlag mismatch")
	}
	if got := positional(args); got != "notes.md" {
		t.Errorf("positional() = %q, want notes.md", got)
	}
	if got := positional([]string{"-f", "json"}); got != "" {
		t.Errorf("positional() = %q, want empty", got)
	}
	if got := positional([]string{"--ids", "-"}); got != "-" {
		t.Errorf("positional() = %q, want -", got)
	}
}

func TestFormatFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    block.Format
		wantErr bool
	}{
		{name: "default", args: nil, want: block.FormatJSON},
		{name: "long", args: []string{"--format", "dump"}, want: block.FormatDump},
		{name: "short", args: []string{"-f", "yaml"}, want: block.FormatYAML},
		{name: "unknown", args: []string{"-f", "toml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatFlag(tt.args, block.FormatJSON)
			if (err != nil) != tt.wantErr {
				t.Fatalf("formatFlag() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("formatFlag() = %q, want %q", got, tt.want)
			}
		})
	}

	if f, _ := inputFormat(nil, "doc.YML"); f != block.FormatYAML {
		t.Errorf("inputFormat(.YML) = %q", f)
	}
	if f, _ := inputFormat(nil, "doc.json"); f != block.FormatJSON {
		t.Errorf("inputFormat(.json) = %q", f)
	}
	if f, _ := inputFormat([]string{"--from", "yaml"}, ""); f != block.FormatYAML {
		t.Errorf("inputFormat(--from yaml) = %q", f)
	}
	if _, err := inputFormat([]string{"--from", "dump"}, ""); err == nil {
		t.Error("dump cannot be read back")
	}

	for path, want := range map[string]bool{"a.md": true, "a": true, "": true, "a.json": false, "a.yaml": false} {
		if got := isMarkdown(path); got != want {
			t.Errorf("isMarkdown(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestReadInput(t *testing.T) {
	got, err := readInput("-", strings.NewReader("# from stdin"))
	if err != nil || string(got) != "# from stdin" {
		t.Errorf("readInput(-) = %q, %v", got, err)
	}

	if _, err := readInput(filepath.Join(t.TempDir(), "missing.md"), nil); err == nil {
		t.Error("readInput() should fail for a missing file")
	}
}

func TestParseAndRenderDocument(t *testing.T) {
	c := convert.New(nil)
	markdown := "# Title\n\n- one\n- **two**\n\n| a |\n|---|\n| 1 |"

	out, report, err := parseMarkdown(c, markdown, block.FormatJSON, true)
	if err != nil {
		t.Fatalf("parseMarkdown() error = %v", err)
	}
	if len(report.Skipped) != 1 {
		t.Errorf("report = %v, want the table skipped", report.Skipped)
	}
	if !strings.Contains(string(out), `"id"`) {
		t.Errorf("--ids should assign block IDs:\n%s", out)
	}

	rendered, report, err := renderDocument(c, out, block.FormatJSON)
	if err != nil {
		t.Fatalf("renderDocument() error = %v", err)
	}
	if want := "# Title\n\n- one\n- **two**"; rendered != want {
		t.Errorf("renderDocument() = %q, want %q", rendered, want)
	}
	if !report.Clean() {
		t.Errorf("unexpected diagnostics: %v", report.Skipped)
	}

	yamlOut, _, err := parseMarkdown(c, "text", block.FormatYAML, false)
	if err != nil {
		t.Fatalf("parseMarkdown(yaml) error = %v", err)
	}
	rendered, _, err = renderDocument(c, yamlOut, block.FormatYAML)
	if err != nil || rendered != "text" {
		t.Errorf("yaml round trip = %q, %v", rendered, err)
	}

	if _, _, err := renderDocument(c, []byte("{oops"), block.FormatJSON); err == nil {
		t.Error("renderDocument() should fail on malformed input")
	}
}

func TestCheckMarkdown(t *testing.T) {
	c := convert.New(nil)

	tests := []struct {
		name     string
		markdown string
		lossless bool
		skipped  int
	}{
		{name: "lossless", markdown: "# Title\n\nSome *text*.\n", lossless: true},
		{name: "formatting only", markdown: "Title\n=====\n\n* a\n* b", skipped: 0},
		{name: "dropped table", markdown: "| a |\n|---|\n| 1 |\n\ntext", skipped: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := checkMarkdown(c, tt.markdown)
			if (result.Diff == "") != tt.lossless {
				t.Errorf("Diff = %q, lossless %v", result.Diff, tt.lossless)
			}
			if len(result.Report.Skipped) != tt.skipped {
				t.Errorf("skipped %d, want %d", len(result.Report.Skipped), tt.skipped)
			}
			if !result.Stable {
				t.Errorf("round trip of %q is not stable: %q", tt.markdown, result.Normalized)
			}
		})
	}
}

func TestServiceFor(t *testing.T) {
	tests := []struct {
		goos     string
		path     string
		contains string
	}{
		{goos: "linux", path: "/home/u/.config/systemd/user/blockdown.service", contains: "ExecStart=/bin/blockdown watch --background"},
		{goos: "darwin", path: "/home/u/Library/LaunchAgents/com.blockdown.plist", contains: "<string>--background</string>"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			svc, err := serviceFor(tt.goos, "/home/u", "/bin/blockdown")
			if err != nil {
				t.Fatalf("serviceFor() error = %v", err)
			}
			if svc.Path != tt.path {
				t.Errorf("Path = %q, want %q", svc.Path, tt.path)
			}
			if !strings.Contains(svc.Content, tt.contains) {
				t.Errorf("Content missing %q:\n%s", tt.contains, svc.Content)
			}
			if len(svc.Enable) == 0 || len(svc.Disable) == 0 {
				t.Error("enable and disable instructions should be set")
			}
		})
	}

	if _, err := serviceFor("plan9", "/home/u", "/bin/blockdown"); err == nil {
		t.Error("serviceFor() should reject unsupported platforms")
	}
}
