package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/gerunddev/blockdown/internal/config"
	"github.com/gerunddev/blockdown/internal/daemon"
	"github.com/gerunddev/blockdown/internal/diff"
	"github.com/gerunddev/blockdown/internal/host"
	"github.com/gerunddev/blockdown/internal/logger"
	"github.com/gerunddev/blockdown/internal/state"
	"github.com/gerunddev/blockdown/internal/styles"
	"github.com/gerunddev/blockdown/internal/tui"
)

// Init writes the configuration if there is none and loads the bootstrap
// document into a fresh snapshot
func Init(args []string) {
	cfg := loadConfig()

	if _, err := os.Stat(config.ConfigPath()); errors.Is(err, fs.ErrNotExist) {
		exitOnError(cfg.Save(), "Error writing config")
		fmt.Println(styles.Success("Config written to %s", config.ConfigPath()))
	}

	if _, err := os.Stat(cfg.SnapshotFile); err == nil && !hasFlag(args, "--force") {
		fmt.Println(styles.Failure("Snapshot already exists: %s", cfg.SnapshotFile))
		fmt.Println(styles.DimStyle.Render("  Use --force to replace it"))
		os.Exit(1)
	}

	bootstrap := host.DefaultBootstrap
	source := "built-in document"
	if path := positional(args); path != "" {
		cfg.BootstrapFile = path
	}
	if cfg.BootstrapFile != "" {
		data, err := os.ReadFile(cfg.BootstrapFile)
		exitOnError(err, "Error reading bootstrap file")
		bootstrap = string(data)
		source = cfg.BootstrapFile
	}

	st, err := state.Load(config.StateFilePath())
	exitOnError(err, "Error loading state")

	log, cleanup := fileLogger(cfg)
	defer cleanup()

	session := newSession(cfg, st, log)
	ctx := context.Background()

	doc, report, err := session.Bootstrap(ctx, bootstrap)
	exitOnError(err, "Error loading document")
	printReport(report)

	result, err := session.Save(ctx)
	exitOnError(err, "Error saving document")

	fmt.Println(styles.Success("Loaded %d blocks from %s", len(doc.Blocks), source))
	fmt.Println(styles.Success("Snapshot: %s", cfg.SnapshotFile))
	fmt.Println(styles.Success("%s", result.String()))
	fmt.Println(styles.DimStyle.Render("  Run 'blockdown watch' to keep the document in sync"))
}

func newSession(cfg *config.Config, st *state.State, log *logger.Logger) *host.Session {
	return host.NewSession(
		&host.SnapshotEditor{Path: cfg.SnapshotFile},
		&host.FileSink{Path: cfg.DocumentFile},
		log,
	).WithState(st, config.StateFilePath())
}

// Start starts the watcher in background mode
func Start(args []string) {
	running, pid, _ := daemon.IsRunning()
	if running {
		fmt.Println(styles.Failure("Watcher already running with PID %d", pid))
		os.Exit(1)
	}

	// Build args for the background process
	watchArgs := []string{"watch", "--background"}
	if interval, ok := flagValue(args, "--interval"); ok {
		watchArgs = append(watchArgs, "--interval", interval)
	}

	if err := daemon.Daemonize(watchArgs); err != nil {
		fmt.Println(styles.Failure("Failed to start watcher: %s", err.Error()))
		os.Exit(1)
	}

	// Give it a moment to start
	time.Sleep(500 * time.Millisecond)

	running, pid, _ = daemon.IsRunning()
	if running {
		fmt.Println(styles.Success("Watcher started with PID %d", pid))
		fmt.Println(styles.DimStyle.Render("  Run 'blockdown status' to check on it"))
	} else {
		fmt.Println(styles.Failure("Watcher failed to start"))
		os.Exit(1)
	}
}

// Stop stops the running watcher
func Stop() {
	running, pid, _ := daemon.IsRunning()
	if !running {
		fmt.Println(styles.DimStyle.Render("Watcher is not running"))
		return
	}

	fmt.Printf("Stopping watcher (PID %d)...\n", pid)

	if err := daemon.Stop(); err != nil {
		fmt.Println(styles.Failure("Failed to stop watcher: %s", err.Error()))
		os.Exit(1)
	}

	// Wait for it to stop
	for i := 0; i < 10; i++ {
		time.Sleep(500 * time.Millisecond)
		running, _, _ = daemon.IsRunning()
		if !running {
			break
		}
	}

	if running {
		fmt.Println(styles.Failure("Watcher did not stop gracefully"))
		os.Exit(1)
	}

	fmt.Println(styles.Success("Watcher stopped"))
}

// Watch keeps the document in sync with the snapshot. In the foreground it
// shows a live dashboard; --plain logs to stderr instead and --background
// only logs to the log file.
func Watch(args []string) {
	cfg := loadConfig()

	if v, ok := flagValue(args, "--interval"); ok {
		interval, err := time.ParseDuration(v)
		if err != nil || interval <= 0 {
			fmt.Fprintln(os.Stderr, styles.Failure("Invalid interval: %s", v))
			os.Exit(1)
		}
		cfg.Interval = interval
	}

	st, err := state.Load(config.StateFilePath())
	exitOnError(err, "Error loading state")

	if running, pid, _ := daemon.IsRunning(); running {
		fmt.Fprintln(os.Stderr, styles.Failure("Watcher already running with PID %d", pid))
		os.Exit(1)
	}
	exitOnError(daemon.WritePID(), "Error writing PID file")
	defer func() {
		if err := daemon.RemovePID(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove PID file on shutdown: %v\n", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	background := hasFlag(args, "--background")
	plain := hasFlag(args, "--plain")

	var log *logger.Logger
	var cleanup func()
	if plain {
		log, cleanup = fileLogger(cfg, os.Stderr)
	} else {
		log, cleanup = fileLogger(cfg)
	}
	defer cleanup()

	log.ConfigLoaded(cfg.DocumentFile, cfg.SnapshotFile, cfg.Interval)
	log.Info("watcher started", "pid", os.Getpid())

	session := newSession(cfg, st, log)

	if background || plain {
		session.Run(ctx, cfg.SnapshotFile, cfg.Interval)
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		session.Run(ctx, cfg.SnapshotFile, cfg.Interval)
	}()

	p := tea.NewProgram(tui.InitWatchModel(), tea.WithInput(os.Stdin))

	sendWatchData := func() {
		running, pid, startTime := daemon.IsRunning()
		data := &tui.WatchData{
			Running:   running,
			PID:       pid,
			StartTime: startTime,
			Snapshot:  cfg.SnapshotFile,
			Document:  cfg.DocumentFile,
		}
		data.LogLines, data.LastSave, data.Blocks = ParseLogFile(cfg.LogFile, 12)
		p.Send(tui.WatchMsg{Data: data})
	}

	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		sendWatchData()
		for {
			select {
			case <-ctx.Done():
				p.Quit()
				return
			case <-ticker.C:
				sendWatchData()
			}
		}
	}()

	_, err = p.Run()
	cancel()
	<-done // wait for the final save
	if err != nil {
		fmt.Println(styles.Failure("Error: %s", err.Error()))
		os.Exit(1)
	}
}

// Status prints the watcher and document state
func Status() {
	cfg := loadConfig()

	st, err := state.Load(config.StateFilePath())
	exitOnError(err, "Error loading state")

	fmt.Println(styles.TitleStyle.Render("blockdown status"))
	fmt.Println()

	fmt.Println(styles.HeaderStyle.Render("Watcher"))
	if running, pid, startTime := daemon.IsRunning(); running {
		fmt.Printf("  Status:   %s\n", styles.SuccessStyle.Render("● Running"))
		fmt.Printf("  PID:      %d\n", pid)
		fmt.Printf("  Started:  %s\n", humanize.Time(startTime))
	} else {
		fmt.Printf("  Status:   %s\n", styles.HelpStyle.Render("○ Not running"))
	}
	fmt.Printf("  Interval: %s\n", cfg.Interval)
	fmt.Println()

	fmt.Println(styles.HeaderStyle.Render("Snapshot"))
	fmt.Printf("  Path:     %s\n", cfg.SnapshotFile)
	if info, err := os.Stat(cfg.SnapshotFile); err == nil {
		fmt.Printf("  Modified: %s\n", humanize.Time(info.ModTime()))
		fmt.Printf("  Size:     %s\n", humanize.Bytes(uint64(info.Size())))
	} else {
		fmt.Printf("  %s\n", styles.WarningStyle.Render("missing, run 'blockdown init'"))
	}
	fmt.Println()

	fmt.Println(styles.HeaderStyle.Render("Document"))
	fmt.Printf("  Path:     %s\n", cfg.DocumentFile)
	if saved := st.LastSaved(cfg.DocumentFile); !saved.IsZero() {
		fmt.Printf("  Saved:    %s\n", humanize.Time(saved))
		fmt.Printf("  Blocks:   %s\n", humanize.Comma(int64(st.Files[cfg.DocumentFile].Blocks)))
	} else {
		fmt.Printf("  Saved:    %s\n", styles.DimStyle.Render("never"))
	}
	if info, err := os.Stat(cfg.DocumentFile); err == nil {
		fmt.Printf("  Size:     %s\n", humanize.Bytes(uint64(info.Size())))
	}

	if pending, _, err := diff.Pending(cfg.SnapshotFile, cfg.DocumentFile); err == nil {
		if pending == "" {
			fmt.Printf("  %s\n", styles.SuccessStyle.Render("up to date"))
		} else {
			fmt.Printf("  %s\n", styles.WarningStyle.Render("changes pending, see 'blockdown diff'"))
		}
	}
}
