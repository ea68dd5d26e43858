package main

import (
	"fmt"
	"io"

	"docsniff/internal/driver"
)

// printTimings writes the per-phase totals of the run, slowest phase first.
func printTimings(out io.Writer, sum driver.Summary) {
	if out == nil || sum.Timings == nil {
		return
	}
	fmt.Fprintf(out, "%d files timed\n", sum.Files)
	fmt.Fprint(out, sum.Timings.Summary())
}
