package token

import (
	"docsniff/internal/source"
)

// Token is an immutable positional record produced by the lexer.
type Token struct {
	Index  int
	Kind   Kind
	Text   string
	Line   uint32 // 1-based
	Column uint32 // 1-based, in bytes
	Len    uint32
	Level  uint16 // brace nesting depth at the token
	Span   source.Span
}

// IsDoc reports whether the token belongs to a doc comment.
func (t Token) IsDoc() bool {
	switch t.Kind {
	case DocOpen, DocClose, DocStar, DocWhitespace, DocNewline, DocTag, DocString:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwNamespace && t.Kind <= KwImplements
}

// EndsLine reports whether the token terminates its source line.
func (t Token) EndsLine() bool {
	return t.Kind == Newline || t.Kind == DocNewline
}
