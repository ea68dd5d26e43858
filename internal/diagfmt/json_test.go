package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"docsniff/internal/diag"
	"docsniff/internal/source"
	"docsniff/internal/token"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	bag, fs := sampleBag(t, "a.php")
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "DOC2003",
			Name:     "DocSummary.SummaryUcFirst",
			Message:  "Doc comment short description must start with a capital letter",
			Fixable:  true,
			Location: LocationJSON{File: "a.php", StartByte: 13, EndByte: 25, StartLine: 3, StartCol: 4, EndLine: 3, EndCol: 16},
		}},
	}
	if diff := cmp.Diff(want, output); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

// TestJSONWithoutPositions: omitempty скрывает line/col
func TestJSONWithoutPositions(t *testing.T) {
	bag, fs := sampleBag(t, "a.php")
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(buf.Bytes(), []byte("start_line")) {
		t.Errorf("positions leaked:\n%s", buf.String())
	}
}

func TestJSONMaxAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.php", []byte("<?php\n"))
	bag := diag.NewBag(10)
	for range 3 {
		d := diag.New(diag.SevWarning, diag.TagMixedType, source.Span{File: fileID}, "m")
		bag.Add(d.WithNote(source.Span{File: fileID}, "n"))
	}
	timing := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{File: fileID}, "t").WithNote(source.Span{File: fileID}, "{}")

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || out.Diagnostics[0].Notes != nil {
		t.Errorf("Max/notes: count=%d notes=%v", out.Count, out.Diagnostics[0].Notes)
	}

	// тайминги сохраняют заметки даже без IncludeNotes
	only := diag.NewBag(1)
	only.Add(timing)
	out = BuildDiagnosticsOutput(only, fs, JSONOpts{})
	if len(out.Diagnostics[0].Notes) != 1 {
		t.Errorf("timing notes dropped: %+v", out.Diagnostics[0])
	}
}

func TestSarif(t *testing.T) {
	bag, fs := sampleBag(t, "/proj/src/a.php")
	fs.SetBaseDir("/proj")
	bag.Add(diag.New(diag.SevWarning, diag.TagMixedType, source.Span{File: 0, Start: 0, End: 5}, "mixed"))
	bag.Sort()

	var buf bytes.Buffer
	other, otherFS := sampleBag(t, "/proj/b.php")
	otherFS.SetBaseDir("/proj")
	inputs := []Input{{Bag: bag, FileSet: fs}, {Bag: other, FileSet: otherFS}}
	if err := Sarif(&buf, inputs, SarifRunMeta{ToolName: "docsniff", ToolVersion: "1.0.0", InvocationArgs: []string{"check", "src"}}); err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log = %+v", log)
	}
	run := log.Runs[0]
	var ruleIDs []string
	for _, r := range run.Tool.Driver.Rules {
		ruleIDs = append(ruleIDs, r.ID)
	}
	if diff := cmp.Diff([]string{"DOC2003", "TAG3002"}, ruleIDs); diff != "" {
		t.Errorf("rules (-want +got):\n%s", diff)
	}
	if len(run.Results) != 3 {
		t.Fatalf("results = %d", len(run.Results))
	}
	first := run.Results[0]
	if first.RuleID != "TAG3002" || first.RuleIndex != 1 || first.Level != "warning" {
		t.Errorf("first result = %+v", first)
	}
	if uri := first.Locations[0].PhysicalLocation.ArtifactLocation.URI; uri != "src/a.php" {
		t.Errorf("uri = %q", uri)
	}
	if uri := run.Results[2].Locations[0].PhysicalLocation.ArtifactLocation.URI; uri != "b.php" || run.Results[2].RuleIndex != 0 {
		t.Errorf("second file result = %+v", run.Results[2])
	}
	if run.Invocations[0].Arguments[0] != "check" {
		t.Errorf("invocations = %+v", run.Invocations)
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.php", []byte("<?php ("))
	toks := []token.Token{
		{Index: 0, Kind: token.OpenTag, Text: "<?php", Line: 1, Column: 1, Span: source.Span{File: fileID, End: 5}},
		{Index: 1, Kind: token.Whitespace, Text: " ", Line: 1, Column: 6, Span: source.Span{File: fileID, Start: 5, End: 6}},
		{Index: 2, Kind: token.LParen, Text: "(", Line: 1, Column: 7, Span: source.Span{File: fileID, Start: 6, End: 7}},
	}
	s := token.NewStream(toks)
	s.SetExtra(2, token.Extra{Pair: -1, Owner: 0})

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, s); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out[2].Pair != nil || out[2].Owner == nil || *out[2].Owner != 0 {
		t.Errorf("tokens = %+v", out)
	}

	buf.Reset()
	if err := FormatTokensPretty(&buf, s); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("LParen")) || !bytes.Contains(buf.Bytes(), []byte("owner=0")) {
		t.Errorf("pretty tokens:\n%s", buf.String())
	}
}
