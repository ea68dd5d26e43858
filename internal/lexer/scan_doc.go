package lexer

import (
	"docsniff/internal/diag"
	"docsniff/internal/token"
)

// scanDoc splits a "/** ... */" comment into doc tokens.
//
// Правила:
//   - каждый '\n' - отдельный DocNewline;
//   - '*' после отступа в начале строки - DocStar;
//   - '@имя' в начале содержимого строки - DocTag (до пробела);
//   - остаток строки - DocString, хвостовые пробелы отдельным DocWhitespace.
func (lx *Lexer) scanDoc() {
	m := lx.cursor.Mark()
	lx.cursor.BumpN(3)
	open := lx.emit(token.DocOpen, m)

	var tags []int
	lineStart := false // только отступ с начала строки
	hasContent := false

	for {
		if lx.cursor.EOF() {
			lx.errorf(diag.LexUnterminatedDocBlock, lx.toks[open].Span, "unterminated doc comment")
			lx.setExtra(open, func(e *token.Extra) { e.Tags = tags })
			return
		}
		m = lx.cursor.Mark()
		ch := lx.cursor.Peek()

		switch {
		case lx.cursor.HasPrefix("*/"):
			lx.cursor.BumpN(2)
			closer := lx.emit(token.DocClose, m)
			lx.pair(open, closer)
			lx.setExtra(open, func(e *token.Extra) { e.Tags = tags })
			return

		case ch == '\n':
			lx.cursor.Bump()
			lx.emit(token.DocNewline, m)
			lineStart = true
			hasContent = false

		case isInlineSpace(ch):
			lx.cursor.EatWhile(isInlineSpace)
			lx.emit(token.DocWhitespace, m)

		case ch == '*' && lineStart:
			lx.cursor.Bump()
			lx.emit(token.DocStar, m)
			lineStart = false

		case ch == '@' && !hasContent && isTagByte(lx.cursor.PeekAt(1)):
			lx.cursor.Bump()
			for !lx.cursor.EOF() && !isSpace(lx.cursor.Peek()) && !lx.cursor.HasPrefix("*/") {
				lx.cursor.Bump()
			}
			tags = append(tags, lx.emit(token.DocTag, m))
			lineStart = false
			hasContent = true

		default:
			lx.scanDocString(m)
			lineStart = false
			hasContent = true
		}
	}
}

// scanDocString reads up to the end of line or the closer, splitting trailing blanks off.
func (lx *Lexer) scanDocString(m Mark) {
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' && !lx.cursor.HasPrefix("*/") {
		lx.cursor.Bump()
	}
	end := lx.cursor.Off
	trimmed := end
	for trimmed > uint32(m) && isInlineSpace(lx.file.Content[trimmed-1]) {
		trimmed--
	}
	lx.emitTo(token.DocString, m, trimmed)
	if trimmed < end {
		lx.emitTo(token.DocWhitespace, Mark(trimmed), end)
	}
}

func isTagByte(b byte) bool {
	return isIdentContinueByte(b) || b == '\\' || b == '-'
}
