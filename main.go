package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/blockdown/internal/commands"
	"github.com/gerunddev/blockdown/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "parse":
		commands.Parse(args)
	case "render":
		commands.Render(args)
	case "check":
		commands.Check(args)
	case "preview":
		commands.Preview(args)
	case "inspect":
		commands.Inspect(args)
	case "diff":
		commands.Diff(args)
	case "init":
		commands.Init(args)
	case "watch":
		commands.Watch(args)
	case "start":
		commands.Start(args)
	case "stop":
		commands.Stop()
	case "status":
		commands.Status()
	case "install":
		commands.Install()
	case "uninstall":
		commands.Uninstall()
	case "version", "-v", "--version":
		fmt.Printf("blockdown v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`blockdown - Convert between block editor documents and Markdown

Usage:
  blockdown <command> [options]

Conversion:
  parse       Convert Markdown to a block document (--format json|yaml|dump, --ids)
  render      Convert a block document to Markdown (--from json|yaml)
  check       Show what Markdown loses in the editor (--plain)
  preview     Render Markdown or a block document in the terminal (--width N)
  inspect     Browse the blocks of a document

Editing:
  init        Load the bootstrap document into a fresh snapshot (--force)
  watch       Save the document whenever the snapshot changes (--plain, --interval)
  start       Start the watcher in background
  stop        Stop the background watcher
  status      Show watcher and document state
  diff        Show what the next save would change
  install     Generate a user service that runs the watcher
  uninstall   Remove the user service

  version     Show version information
  help        Show this help message

Input is read from the named file, or from stdin when none is given.

Examples:
  blockdown parse notes.md --format yaml
  blockdown render snapshot.json > notes.md
  cat notes.md | blockdown check
  blockdown init notes.md
  blockdown start --interval 1s

Configuration:
  Config file: %s
  State file:  %s
`, config.ConfigPath(), config.StateFilePath())
	fmt.Print(usage)
}
