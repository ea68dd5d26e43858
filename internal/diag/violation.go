package diag

import (
	"fmt"

	"docsniff/internal/token"
)

// Editor is the subset of a fix changeset that violation fixes write to.
type Editor interface {
	Replace(pos int, text string)
	InsertBefore(pos int, text string)
	InsertAfter(pos int, text string)
	RemoveLines(startLine, endLine uint32)
}

// FixFunc records the edits correcting one violation.
type FixFunc func(ed Editor) error

// Violation is a token-anchored finding produced by a check.
// Message is a printf format applied to Args.
type Violation struct {
	Code     Code
	Severity Severity
	Pos      int
	Line     uint32
	Column   uint32
	Message  string
	Args     []any
	Fixable  bool

	fix FixFunc
}

// NewViolation anchors a finding at tok.
func NewViolation(sev Severity, code Code, tok token.Token, msg string, args ...any) Violation {
	return Violation{
		Code:     code,
		Severity: sev,
		Pos:      tok.Index,
		Line:     tok.Line,
		Column:   tok.Column,
		Message:  msg,
		Args:     args,
	}
}

// Errorf is NewViolation at SevError.
func Errorf(code Code, tok token.Token, msg string, args ...any) Violation {
	return NewViolation(SevError, code, tok, msg, args...)
}

// Warnf is NewViolation at SevWarning.
func Warnf(code Code, tok token.Token, msg string, args ...any) Violation {
	return NewViolation(SevWarning, code, tok, msg, args...)
}

// WithFix marks the violation fixable.
func (v Violation) WithFix(fn FixFunc) Violation {
	if fn == nil {
		return v
	}
	v.Fixable = true
	v.fix = fn
	return v
}

// Fix returns the recorded fix, nil for non-fixable violations.
func (v Violation) Fix() FixFunc {
	return v.fix
}

// Text renders Message with Args.
func (v Violation) Text() string {
	if len(v.Args) == 0 {
		return v.Message
	}
	return fmt.Sprintf(v.Message, v.Args...)
}

func (v Violation) String() string {
	return fmt.Sprintf("%d:%d %s %s: %s", v.Line, v.Column, v.Severity, v.Code.Name(), v.Text())
}
