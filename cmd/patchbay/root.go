// ABOUTME: Root cobra command and the flags and loaders shared by every subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/2389-research/patchbay/config"
	"github.com/2389-research/patchbay/editor"
)

// options holds the persistent flags.
type options struct {
	configPath    string
	blueprintPath string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "patchbay",
		Short:         "patchbay: a node graph editor with live wire routing",
		Long:          Brand.Sprint("patchbay") + " edits node graphs whose wires follow the nodes you drag\n" + Subtle.Sprint("Open it in a terminal, serve it over HTTP, or render a snapshot"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("patchbay {{ .Version }}\n")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (default: built-in settings)")
	root.PersistentFlags().StringVar(&opts.blueprintPath, "blueprint", "", "YAML blueprint to seed the graph (default: bundled demo)")

	root.AddCommand(
		tuiCmd(opts),
		serveCmd(opts),
		snapshotCmd(opts),
		checkCmd(opts),
	)
	return root
}

func (o *options) config() (config.Config, error) {
	return config.Load(o.configPath)
}

// blueprint returns the blueprint named by --blueprint, or the bundled demo.
func (o *options) blueprint() (editor.Blueprint, error) {
	if o.blueprintPath == "" {
		return editor.LoadDemo()
	}
	f, err := os.Open(o.blueprintPath)
	if err != nil {
		return editor.Blueprint{}, err
	}
	defer f.Close()
	bp, err := editor.LoadBlueprint(f)
	if err != nil {
		return editor.Blueprint{}, fmt.Errorf("blueprint %s: %w", o.blueprintPath, err)
	}
	return bp, nil
}
