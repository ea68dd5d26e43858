package diagfmt

import (
	"encoding/json"
	"io"
	"sort"

	"docsniff/internal/diag"
	"docsniff/internal/source"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

// Input pairs a bag with the file set its spans point into.
type Input struct {
	Bag     *diag.Bag
	FileSet *source.FileSet
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0): один run на все входы.
// Пути пишутся относительно BaseDir набора файлов.
func Sarif(w io.Writer, inputs []Input, meta SarifRunMeta) error {
	rules := map[diag.Code]int{}
	var codes []diag.Code
	total := 0
	for _, in := range inputs {
		total += in.Bag.Len()
		for _, d := range in.Bag.Items() {
			if d.Code == diag.ObsTimings {
				continue
			}
			if _, ok := rules[d.Code]; !ok {
				rules[d.Code] = 0
				codes = append(codes, d.Code)
			}
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	driver := sarifDriver{Name: meta.ToolName, Version: meta.ToolVersion, Rules: make([]sarifRule, 0, len(codes))}
	for i, c := range codes {
		rules[c] = i
		driver.Rules = append(driver.Rules, sarifRule{ID: c.ID(), Name: c.Name(), ShortDescription: sarifMessage{Text: c.Title()}})
	}

	results := make([]sarifResult, 0, total)
	for _, in := range inputs {
		fs := in.FileSet
		for _, d := range in.Bag.Items() {
			if d.Code == diag.ObsTimings {
				continue
			}
			start, end := fs.Resolve(d.Primary)
			results = append(results, sarifResult{
				RuleID:    d.Code.ID(),
				RuleIndex: rules[d.Code],
				Level:     sarifLevel(d.Severity),
				Message:   sarifMessage{Text: d.Message},
				Locations: []sarifLocation{{PhysicalLocation: sarifPhysical{
					ArtifactLocation: sarifArtifact{URI: formatPath(fs.Get(d.Primary.File), fs, PathModeRelative)},
					Region:           sarifRegion{StartLine: start.Line, StartColumn: start.Col, EndLine: end.Line, EndColumn: end.Col},
				}}},
			})
		}
	}

	run := sarifRun{Tool: sarifTool{Driver: driver}, Results: results}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}
