package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/gerunddev/blockdown/internal/styles"
)

const serviceName = "blockdown"

// service is a user service definition for one platform
type service struct {
	Path    string
	Content string
	Enable  []string // commands that enable the service
	Disable []string // commands that disable the service
}

// serviceFor builds the service definition that runs the background watcher
func serviceFor(goos, home, executable string) (*service, error) {
	switch goos {
	case "darwin":
		path := filepath.Join(home, "Library", "LaunchAgents", "com."+serviceName+".plist")
		content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>com.%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
		<string>watch</string>
		<string>--background</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>/tmp/%s.out.log</string>
	<key>StandardErrorPath</key>
	<string>/tmp/%s.err.log</string>
</dict>
</plist>`, serviceName, executable, serviceName, serviceName)
		return &service{
			Path:    path,
			Content: content,
			Enable:  []string{"launchctl load " + path},
			Disable: []string{"launchctl unload " + path},
		}, nil

	case "linux":
		path := filepath.Join(home, ".config", "systemd", "user", serviceName+".service")
		content := fmt.Sprintf(`[Unit]
Description=blockdown - keep a Markdown document in sync with the block editor

[Service]
Type=simple
ExecStart=%s watch --background
Restart=always
RestartSec=10

[Install]
WantedBy=default.target`, executable)
		unit := serviceName + ".service"
		return &service{
			Path:    path,
			Content: content,
			Enable: []string{
				"systemctl --user daemon-reload",
				"systemctl --user enable " + unit,
				"systemctl --user start " + unit,
			},
			Disable: []string{
				"systemctl --user stop " + unit,
				"systemctl --user disable " + unit,
			},
		}, nil
	}

	return nil, fmt.Errorf("unsupported operating system: %s", goos)
}

// Install generates a user service file that starts the watcher at login
func Install() {
	fmt.Println(styles.TitleStyle.Render("blockdown install"))
	fmt.Println()

	home, err := os.UserHomeDir()
	exitOnError(err, "Failed to get home directory")

	execPath, err := os.Executable()
	exitOnError(err, "Failed to get executable path")

	svc, err := serviceFor(runtime.GOOS, home, execPath)
	if err != nil {
		fmt.Println(styles.Failure("%s", err.Error()))
		fmt.Println("Supported platforms: macOS (darwin), Linux")
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(svc.Path), 0755); err != nil {
		exitOnError(err, "Failed to create service directory")
	}
	if err := os.WriteFile(svc.Path, []byte(svc.Content), 0644); err != nil {
		exitOnError(err, "Failed to write service file")
	}

	fmt.Println(styles.Success("Service file created: %s", svc.Path))
	fmt.Println()
	fmt.Println("To enable the service:")
	for _, c := range svc.Enable {
		fmt.Println(styles.DimStyle.Render("  " + c))
	}
	fmt.Println()
	fmt.Println("To disable the service:")
	for _, c := range svc.Disable {
		fmt.Println(styles.DimStyle.Render("  " + c))
	}
}

// Uninstall stops and removes the user service file
func Uninstall() {
	fmt.Println(styles.TitleStyle.Render("blockdown uninstall"))
	fmt.Println()

	home, err := os.UserHomeDir()
	exitOnError(err, "Failed to get home directory")

	svc, err := serviceFor(runtime.GOOS, home, "")
	if err != nil {
		fmt.Println(styles.Failure("%s", err.Error()))
		os.Exit(1)
	}

	if _, err := os.Stat(svc.Path); os.IsNotExist(err) {
		fmt.Println(styles.Warning("Service file not found: %s", svc.Path))
		fmt.Println("Nothing to uninstall.")
		return
	}

	// Ignore errors if the service is not loaded or running
	fmt.Println("Attempting to stop the service...")
	switch runtime.GOOS {
	case "darwin":
		if err := exec.Command("launchctl", "unload", svc.Path).Run(); err != nil {
			fmt.Println(styles.Warning("Could not unload service (may not be loaded): %v", err))
		}
	case "linux":
		unit := serviceName + ".service"
		if err := exec.Command("systemctl", "--user", "stop", unit).Run(); err != nil {
			fmt.Println(styles.Warning("Could not stop service (may not be running): %v", err))
		}
		if err := exec.Command("systemctl", "--user", "disable", unit).Run(); err != nil {
			fmt.Println(styles.Warning("Could not disable service (may not be enabled): %v", err))
		}
	}

	if err := os.Remove(svc.Path); err != nil {
		exitOnError(err, "Failed to remove service file")
	}

	if runtime.GOOS == "linux" {
		if err := exec.Command("systemctl", "--user", "daemon-reload").Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload systemd daemon: %v\n", err)
		}
	}

	fmt.Println(styles.Success("Service file removed: %s", svc.Path))
}
