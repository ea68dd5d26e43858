package main

import (
	"encoding/json"
	"fmt"
	"io"

	"docsniff/internal/diagfmt"
	"docsniff/internal/driver"
	"docsniff/internal/version"
)

func render(w io.Writer, results []*driver.FileResult, format string, f runFlags, cmdPath string, args []string) error {
	pathMode := diagfmt.PathModeAuto
	if f.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "pretty":
		opts := diagfmt.PrettyOpts{
			Color:     state.useColor,
			Context:   1,
			PathMode:  pathMode,
			ShowNotes: f.withNotes,
		}
		if width := terminalWidth(); width > 0 && width < 256 {
			opts.Width = uint8(width)
		}
		first := true
		for _, r := range results {
			if r.FileSet == nil {
				printBare(w, r)
				continue
			}
			if !hasOutput(r) {
				continue
			}
			if !first {
				fmt.Fprintln(w)
			}
			first = false
			diagfmt.Pretty(w, r.Bag, r.FileSet, opts)
		}
	case "short":
		for _, r := range results {
			if r.FileSet == nil {
				printBare(w, r)
				continue
			}
			diagfmt.Short(w, r.Bag, r.FileSet, pathMode)
		}
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     f.withNotes,
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, r := range results {
			if r.FileSet == nil {
				output[r.Path] = bareOutput(r)
				continue
			}
			output[r.Path] = diagfmt.BuildDiagnosticsOutput(r.Bag, r.FileSet, jsonOpts)
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	case "sarif":
		inputs := make([]diagfmt.Input, 0, len(results))
		for _, r := range results {
			if r.FileSet != nil {
				inputs = append(inputs, diagfmt.Input{Bag: r.Bag, FileSet: r.FileSet})
			}
		}
		meta := diagfmt.SarifRunMeta{
			ToolName:       "docsniff",
			ToolVersion:    version.Version,
			InvocationArgs: append([]string{cmdPath}, args...),
		}
		if err := diagfmt.Sarif(w, inputs, meta); err != nil {
			return fmt.Errorf("failed to encode sarif: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

// printDiff shows what `fix --dry-run` would write. The first file version is the original.
func printDiff(w io.Writer, r *driver.FileResult) {
	orig := r.FileSet.Get(0)
	if orig == nil || r.File == nil {
		return
	}
	diagfmt.Diff(w, r.Path, orig.Content, r.File.Content, state.useColor)
}

// printBare renders diagnostics of a file that never loaded: there is no source to quote.
func printBare(w io.Writer, r *driver.FileResult) {
	for _, d := range r.Bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n", r.Path, d.Severity, d.Code.ID(), d.Message)
	}
}

func bareOutput(r *driver.FileResult) diagfmt.DiagnosticsOutput {
	out := diagfmt.DiagnosticsOutput{Diagnostics: make([]diagfmt.DiagnosticJSON, 0, r.Bag.Len())}
	for _, d := range r.Bag.Items() {
		out.Diagnostics = append(out.Diagnostics, diagfmt.DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Name:     d.Code.Name(),
			Message:  d.Message,
			Location: diagfmt.LocationJSON{File: r.Path},
		})
	}
	out.Count = len(out.Diagnostics)
	return out
}
