package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"docsniff/internal/diag"
	"docsniff/internal/source"
)

const tabWidth = 4

type palette struct {
	sev   map[diag.Severity]*color.Color
	code  *color.Color
	path  *color.Color
	gut   *color.Color
	caret *color.Color
	fixed *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan),
		},
		code:  color.New(color.FgMagenta),
		path:  color.New(color.Bold),
		gut:   color.New(color.FgBlue),
		caret: color.New(color.FgRed, color.Bold),
		fixed: color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.code, p.path, p.gut, p.caret, p.fixed} {
		setColor(c, enabled)
	}
	for _, c := range p.sev {
		setColor(c, enabled)
	}
	return p
}

func setColor(c *color.Color, enabled bool) {
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE> (<Name>): <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if d.Code == diag.ObsTimings {
			fmt.Fprintf(w, "%s %s\n", pal.sev[d.Severity].Sprint(d.Severity), d.Message)
			continue
		}
		file := fs.Get(d.Primary.File)
		start, end := fs.Resolve(d.Primary)

		fmt.Fprintf(w, "%s: %s %s: %s",
			pal.path.Sprintf("%s:%d:%d", formatPath(file, fs, opts.PathMode), start.Line, start.Col),
			pal.sev[d.Severity].Sprint(d.Severity),
			pal.code.Sprintf("%s (%s)", d.Code.ID(), d.Code.Name()),
			d.Message,
		)
		switch {
		case d.Fixed:
			fmt.Fprint(w, pal.fixed.Sprint(" [fixed]"))
		case d.Fixable:
			fmt.Fprint(w, " [fixable]")
		}
		fmt.Fprintln(w)

		if file != nil && start.Line > 0 {
			writeContext(w, file, start, end, opts, pal)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				nf := fs.Get(n.Span.File)
				ns, _ := fs.Resolve(n.Span)
				fmt.Fprintf(w, "  note: %s:%d:%d: %s\n", formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col, n.Msg)
			}
		}
	}
}

func writeContext(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts, pal palette) {
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	gutter := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := file.GetLine(ln)
		if ln > start.Line && text == "" && ln > uint32(len(file.LineIdx)) {
			break
		}
		shown := clip(expandTabs(text), opts.Width, gutter)
		fmt.Fprintf(w, "%s %s\n", pal.gut.Sprintf("%*d |", gutter, ln), shown)
		if ln != start.Line {
			continue
		}
		col := int(start.Col) - 1
		col = min(max(col, 0), len(text))
		pad := runewidth.StringWidth(expandTabs(text[:col]))
		stop := len(text)
		if end.Line == start.Line {
			stop = min(max(int(end.Col)-1, col), len(text))
		}
		width := max(runewidth.StringWidth(expandTabs(text[col:stop])), 1)
		underline := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", pal.gut.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), pal.caret.Sprint(underline))
	}
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}

// clip обрезает строку контекста по ширине терминала с учётом гаттера.
func clip(s string, width uint8, gutter int) string {
	if width == 0 {
		return s
	}
	room := int(width) - gutter - 3
	if room <= 3 || runewidth.StringWidth(s) <= room {
		return s
	}
	return runewidth.Truncate(s, room, "...")
}
