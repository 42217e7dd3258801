package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gerunddev/blockdown/internal/block"
	"github.com/gerunddev/blockdown/internal/config"
	"github.com/gerunddev/blockdown/internal/convert"
	"github.com/gerunddev/blockdown/internal/logger"
	"github.com/gerunddev/blockdown/internal/styles"
)

// ParseLogFile reads the last N lines from the log file and extracts the
// most recent save
func ParseLogFile(logPath string, maxLines int) ([]string, time.Time, int) {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return []string{"Unable to read log file"}, time.Time{}, 0
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	// Get last N lines
	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	var lastSave time.Time
	blocks := 0

	// Look for most recent "document saved" line
	for i := len(recentLines) - 1; i >= 0; i-- {
		line := recentLines[i]
		if !strings.Contains(line, "document saved") {
			continue
		}
		// Format: 2025-11-27 14:11:57 INFO document saved dest=... blocks=3
		if len(line) > 19 {
			if t, err := time.ParseInLocation(time.DateTime, line[:19], time.Local); err == nil {
				lastSave = t
			}
		}
		if idx := strings.Index(line, "blocks="); idx != -1 {
			_, _ = fmt.Sscanf(line[idx:], "blocks=%d", &blocks) //nolint:errcheck // best effort parsing
		}
		break
	}

	return recentLines, lastSave, blocks
}

// flagValue returns the value following --name in args
func flagValue(args []string, name string) (string, bool) {
	for i, arg := range args {
		if arg == name && i+1 < len(args) {
			return args[i+1], true
		}
		if v, ok := strings.CutPrefix(arg, name+"="); ok {
			return v, true
		}
	}
	return "", false
}

// hasFlag reports whether a boolean flag is present
func hasFlag(args []string, names ...string) bool {
	for _, arg := range args {
		for _, name := range names {
			if arg == name {
				return true
			}
		}
	}
	return false
}

// valueFlags take the next argument as their value
var valueFlags = map[string]bool{
	"--format":   true,
	"-f":         true,
	"--from":     true,
	"--interval": true,
	"--width":    true,
}

// positional returns the first argument that is not a flag or flag value
func positional(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if valueFlags[arg] {
			i++
			continue
		}
		if arg == "-" || !strings.HasPrefix(arg, "-") {
			return arg
		}
	}
	return ""
}

// readInput reads the named file, or stdin for "" and "-"
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// formatFlag reads --format/-f, falling back to def
func formatFlag(args []string, def block.Format) (block.Format, error) {
	v, ok := flagValue(args, "--format")
	if !ok {
		v, ok = flagValue(args, "-f")
	}
	if !ok {
		return def, nil
	}
	f := block.Format(v)
	if !f.Valid() {
		return "", fmt.Errorf("unknown format %q: must be one of: json, yaml, dump", v)
	}
	return f, nil
}

// inputFormat picks the document format of a file from --from or its
// extension
func inputFormat(args []string, path string) (block.Format, error) {
	if v, ok := flagValue(args, "--from"); ok {
		f := block.Format(v)
		if f != block.FormatJSON && f != block.FormatYAML {
			return "", fmt.Errorf("cannot read format %q: must be json or yaml", v)
		}
		return f, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return block.FormatYAML, nil
	}
	return block.FormatJSON, nil
}

// isMarkdown reports whether path names a Markdown file rather than a
// block document
func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return false
	}
	return true
}

// loadConfig loads the configuration or exits
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.Failure("Error loading config: %v", err))
		os.Exit(1)
	}
	return cfg
}

// stderrLogger logs errors to stderr, or everything with --verbose.
// Skipped constructs are printed by printReport instead.
func stderrLogger(args []string) *logger.Logger {
	level := log.ErrorLevel
	if hasFlag(args, "--verbose", "-v") {
		level = log.DebugLevel
	}
	return logger.NewWithLevel(os.Stderr, level)
}

// fileLogger opens the configured log file, discarding output if it cannot
func fileLogger(cfg *config.Config, extra ...io.Writer) (*logger.Logger, func()) {
	if len(extra) == 0 {
		l, cleanup, err := logger.NewFileLogger(cfg.LogFile)
		if err != nil {
			return logger.Discard(), func() {}
		}
		return l, cleanup
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return logger.NewMultiLogger(extra...), func() {}
	}
	return logger.NewMultiLogger(append([]io.Writer{f}, extra...)...), func() { f.Close() }
}

// printReport lists skipped constructs on stderr
func printReport(report convert.Report) {
	for _, d := range report.Skipped {
		fmt.Fprintln(os.Stderr, styles.Warning("%s", d.String()))
	}
}

// exitOnError prints err and exits
func exitOnError(err error, context string) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, styles.Failure("%s: %v", context, err))
	os.Exit(1)
}
