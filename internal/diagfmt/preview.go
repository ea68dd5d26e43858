package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Diff prints the changed region of a fixed file as a single hunk.
// Used by `fix --dry-run`; identical inputs print nothing.
func Diff(w io.Writer, path string, before, after []byte, useColor bool) {
	a, b := splitPreviewLines(before), splitPreviewLines(after)
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	if prefix == len(a) && prefix == len(b) {
		return
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	del, add := color.New(color.FgRed), color.New(color.FgGreen)
	setColor(del, useColor)
	setColor(add, useColor)

	oldLines, newLines := a[prefix:len(a)-suffix], b[prefix:len(b)-suffix]
	fmt.Fprintf(w, "--- %s\n+++ %s (fixed)\n", path, path)
	fmt.Fprintf(w, "@@ -%d,%d +%d,%d @@\n", prefix+1, len(oldLines), prefix+1, len(newLines))
	for _, l := range oldLines {
		fmt.Fprintln(w, del.Sprint("- "+l))
	}
	for _, l := range newLines {
		fmt.Fprintln(w, add.Sprint("+ "+l))
	}
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	// завершающий \n не даёт лишней пустой строки
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}
