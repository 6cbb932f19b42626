// ABOUTME: Coloured status output for the CLI.
package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	Brand  = color.New(color.FgHiGreen, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// status prints one aligned "label  detail" line.
func status(w io.Writer, label, format string, args ...any) {
	fmt.Fprintf(w, "  %s  %s\n", Brand.Sprintf("%-12s", label), fmt.Sprintf(format, args...))
}
