// ABOUTME: CLI entrypoint for patchbay with tui, serve, snapshot, and check subcommands.
// ABOUTME: Loads YAML config, seeds graphs from blueprints, and maps failures to exit codes.
package main

import (
	"io"
	"os"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns an exit code: 0 for success, 1 for failure.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		Bad.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
