package diag

import (
	"fmt"

	"docsniff/internal/token"
)

// Reporter принимает нарушения от проверок.
// Fixable-варианты возвращают true, если вызывающему следует применить исправление.
type Reporter interface {
	ReportError(code Code, pos int, msg string, args ...any)
	ReportWarning(code Code, pos int, msg string, args ...any)
	ReportFixableError(code Code, pos int, msg string, args ...any) bool
	ReportFixableWarning(code Code, pos int, msg string, args ...any) bool
}

// Dispatch routes v to the matching Reporter method.
func Dispatch(r Reporter, v Violation) bool {
	if r == nil {
		return false
	}
	switch {
	case v.Fixable && v.Severity >= SevError:
		return r.ReportFixableError(v.Code, v.Pos, v.Message, v.Args...)
	case v.Fixable:
		return r.ReportFixableWarning(v.Code, v.Pos, v.Message, v.Args...)
	case v.Severity >= SevError:
		r.ReportError(v.Code, v.Pos, v.Message, v.Args...)
	default:
		r.ReportWarning(v.Code, v.Pos, v.Message, v.Args...)
	}
	return false
}

// FixMarker is implemented by reporters that record which fixes were committed.
type FixMarker interface {
	MarkFixed()
}

// BagReporter - адаптер, который пишет в *Bag, переводя позиции токенов в Span.
// Fix решает, просить ли применение исправлений.
type BagReporter struct {
	Bag    *Bag
	Stream *token.Stream
	Fix    bool
}

func (r *BagReporter) add(sev Severity, code Code, pos int, fixable bool, msg string, args []any) bool {
	if r.Bag == nil {
		return false
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	d := New(sev, code, r.Stream.At(pos).Span, msg)
	d.Fixable = fixable
	if !r.Bag.Add(d) {
		return false
	}
	return fixable && r.Fix
}

func (r *BagReporter) ReportError(code Code, pos int, msg string, args ...any) {
	r.add(SevError, code, pos, false, msg, args)
}

func (r *BagReporter) ReportWarning(code Code, pos int, msg string, args ...any) {
	r.add(SevWarning, code, pos, false, msg, args)
}

func (r *BagReporter) ReportFixableError(code Code, pos int, msg string, args ...any) bool {
	return r.add(SevError, code, pos, true, msg, args)
}

func (r *BagReporter) ReportFixableWarning(code Code, pos int, msg string, args ...any) bool {
	return r.add(SevWarning, code, pos, true, msg, args)
}

// MarkFixed flags the most recent diagnostic as fixed.
func (r *BagReporter) MarkFixed() {
	if r.Bag == nil || len(r.Bag.items) == 0 {
		return
	}
	r.Bag.items[len(r.Bag.items)-1].Fixed = true
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) ReportError(Code, int, string, ...any)               {}
func (NopReporter) ReportWarning(Code, int, string, ...any)             {}
func (NopReporter) ReportFixableError(Code, int, string, ...any) bool   { return false }
func (NopReporter) ReportFixableWarning(Code, int, string, ...any) bool { return false }
