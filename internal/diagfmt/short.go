package diagfmt

import (
	"fmt"
	"io"

	"docsniff/internal/diag"
	"docsniff/internal/source"
)

// Short prints one line per diagnostic, suitable for editors and grep:
// path:line:col: SEVERITY Name: message
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		if d.Code == diag.ObsTimings {
			continue
		}
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(fs.Get(d.Primary.File), fs, mode), start.Line, start.Col,
			d.Severity, d.Code.Name(), d.Message)
	}
}
