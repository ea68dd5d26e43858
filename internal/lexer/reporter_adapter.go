package lexer

import (
	"docsniff/internal/diag"
	"docsniff/internal/source"
)

// ReporterAdapter складывает ошибки лексера в diag.Bag
type ReporterAdapter struct {
	Bag *diag.Bag
}

func (r *ReporterAdapter) Report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if r == nil || r.Bag == nil {
		return
	}
	r.Bag.Add(diag.New(sev, code, sp, msg))
}
