package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"docsniff/internal/diag"
	"docsniff/internal/source"
)

const sample = "<?php\n/**\n * does things.\n */\nfunction f() {}\n"

// summarySpan покрывает "does things." в sample
func sampleBag(t *testing.T, path string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(path, []byte(sample))
	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.DocSummaryUcFirst,
		source.Span{File: fileID, Start: 13, End: 25},
		"Doc comment short description must start with a capital letter")
	d.Fixable = true
	bag.Add(d)
	return bag, fs
}

func TestPrettyLayout(t *testing.T) {
	bag, fs := sampleBag(t, "a.php")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	want := "a.php:3:4: ERROR DOC2003 (DocSummary.SummaryUcFirst): Doc comment short description must start with a capital letter [fixable]\n" +
		"3 |  * does things.\n" +
		"  |    ^~~~~~~~~~~~\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrettyContextLines(t *testing.T) {
	bag, fs := sampleBag(t, "a.php")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1})

	lines := strings.Split(buf.String(), "\n")
	// заголовок, строки 2-4 и подчёркивание после строки 3
	want := []string{"2 | /**", "3 |  * does things.", "  |    ^~~~~~~~~~~~", "4 |  */"}
	if diff := cmp.Diff(want, lines[1:5]); diff != "" {
		t.Errorf("context mismatch (-want +got):\n%s", diff)
	}
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/a.php:3:4"},
		{"Relative path", PathModeRelative, "src/a.php:3:4"},
		{"Basename only", PathModeBasename, "a.php:3:4"},
		{"Auto keeps short", PathModeAuto, "/home/user/project/src/a.php"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag, fs := sampleBag(t, "/home/user/project/src/a.php")
			fs.SetBaseDir("/home/user/project")
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			if !strings.HasPrefix(buf.String(), tt.contains) && !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("expected %q in:\n%s", tt.contains, buf.String())
			}
		})
	}
}

func TestPrettyTabsAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("t.php", []byte("<?php\n\t/** @var mixed */\n"))
	bag := diag.NewBag(4)
	// "mixed" начинается после таба и "/** @var "
	d := diag.New(diag.SevWarning, diag.TagMixedType, source.Span{File: fileID, Start: 16, End: 21}, "Try to avoid the mixed type in @var")
	d = d.WithNote(source.Span{File: fileID, Start: 7, End: 10}, "in this block")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	out := buf.String()
	if !strings.Contains(out, "2 |     /** @var mixed */\n") {
		t.Errorf("tab should expand to 4 columns:\n%s", out)
	}
	if !strings.Contains(out, "  |              ^~~~~\n") {
		t.Errorf("caret misplaced:\n%s", out)
	}
	if !strings.Contains(out, "note: t.php:2:2: in this block") {
		t.Errorf("note missing:\n%s", out)
	}
}

func TestPrettyWidthClips(t *testing.T) {
	fs := source.NewFileSet()
	long := "<?php /** " + strings.Repeat("x", 80) + " */\n"
	fileID := fs.AddVirtual("w.php", []byte(long))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevInfo, diag.DocNoSummary, source.Span{File: fileID, Start: 6, End: 9}, "m"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Width: 40})
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasSuffix(lines[1], "...") || len(lines[1]) > 40 {
		t.Errorf("line not clipped: %q", lines[1])
	}
}

func TestShort(t *testing.T) {
	bag, fs := sampleBag(t, "a.php")
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings"))
	var buf bytes.Buffer
	Short(&buf, bag, fs, PathModeBasename)
	want := "a.php:3:4: ERROR DocSummary.SummaryUcFirst: Doc comment short description must start with a capital letter\n"
	if buf.String() != want {
		t.Errorf("Short = %q", buf.String())
	}
}

func TestDiff(t *testing.T) {
	before := []byte("a\nb\nc\nd\n")
	after := []byte("a\nB\nX\nc\nd\n")
	var buf bytes.Buffer
	Diff(&buf, "f.php", before, after, false)
	want := "--- f.php\n+++ f.php (fixed)\n@@ -2,1 +2,2 @@\n- b\n+ B\n+ X\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("diff mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	Diff(&buf, "f.php", before, before, false)
	if buf.Len() != 0 {
		t.Errorf("identical content printed %q", buf.String())
	}
}
