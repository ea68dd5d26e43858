package lexer

import (
	"strings"

	"docsniff/internal/diag"
	"docsniff/internal/token"
)

// многосимвольные операторы, длинные раньше коротких
var multiOps = []string{
	"<=>", "**=", "...", "<<=", ">>=", "===", "!==", "??=", "?->",
	"::", "->", "=>", "==", "!=", "<>", "<=", ">=", "&&", "||", "??",
	"++", "--", "+=", "-=", "*=", "/=", ".=", "%=", "&=", "|=", "^=",
	"<<", ">>", "**",
}

var punct = map[byte]token.Kind{
	';': token.Semicolon,
	',': token.Comma,
	':': token.Colon,
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	'=': token.Assign,
	'?': token.Question,
	'&': token.Amp,
	'|': token.Pipe,
}

// scanCode lexes one token in php mode.
func (lx *Lexer) scanCode() {
	m := lx.cursor.Mark()
	ch := lx.cursor.Peek()

	switch {
	case ch == '\n':
		lx.cursor.Bump()
		lx.emit(token.Newline, m)

	case isInlineSpace(ch):
		lx.cursor.EatWhile(isInlineSpace)
		lx.emit(token.Whitespace, m)

	case lx.cursor.HasPrefix("?>"):
		lx.cursor.BumpN(2)
		lx.emit(token.CloseTag, m)
		lx.inPHP = false

	case lx.cursor.HasPrefix("/**") && isSpace(lx.cursor.PeekAt(3)):
		lx.scanDoc()

	case lx.cursor.HasPrefix("/*"):
		lx.scanBlockComment()

	case lx.cursor.HasPrefix("#["):
		lx.cursor.BumpN(2)
		lx.pushOpen(lx.emit(token.AttrOpen, m))

	case lx.cursor.HasPrefix("//") || ch == '#':
		lx.scanLineComment()

	case ch == '$' && isIdentStartByte(lx.cursor.PeekAt(1)):
		lx.cursor.Bump()
		lx.cursor.EatWhile(isIdentContinueByte)
		lx.emit(token.Variable, m)

	case isIdentStartByte(ch) || ch == '\\':
		lx.scanName()

	case isDec(ch) || (ch == '.' && isDec(lx.cursor.PeekAt(1))):
		lx.scanNumber()

	case ch == '\'' || ch == '"' || ch == '`':
		lx.scanString(ch)

	case lx.cursor.HasPrefix("<<<"):
		lx.scanHeredoc()

	default:
		lx.scanPunct()
	}
}

func (lx *Lexer) scanLineComment() {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '\n' || lx.cursor.HasPrefix("?>") {
			break
		}
		lx.cursor.Bump()
	}
	lx.emit(token.Comment, m)
}

func (lx *Lexer) scanBlockComment() {
	m := lx.cursor.Mark()
	lx.cursor.BumpN(2)
	for !lx.cursor.EOF() {
		if lx.cursor.HasPrefix("*/") {
			lx.cursor.BumpN(2)
			lx.emit(token.Comment, m)
			return
		}
		lx.cursor.Bump()
	}
	i := lx.emit(token.Comment, m)
	lx.errorf(diag.LexUnterminatedComment, lx.toks[i].Span, "unterminated block comment")
}

// scanName lexes identifiers, qualified names and keywords.
// После "::", "->", function и const ключевые слова считаются обычными именами (Foo::class).
func (lx *Lexer) scanName() {
	m := lx.cursor.Mark()
	lx.cursor.EatWhile(isNameByte)
	text := string(lx.file.Content[m:lx.cursor.Off])

	kind := token.Ident
	if !strings.Contains(text, "\\") && !lx.forcesName() {
		if kw, ok := token.LookupKeyword(strings.ToLower(text)); ok {
			kind = kw
		}
	}
	lx.emit(kind, m)
}

func (lx *Lexer) forcesName() bool {
	p := lx.prevSignificant(len(lx.toks))
	if p < 0 {
		return false
	}
	if lx.toks[p].Kind == token.Amp {
		p = lx.prevSignificant(p)
	}
	if p < 0 {
		return false
	}
	switch lx.toks[p].Kind {
	case token.KwFunction, token.KwConst:
		return true
	}
	switch lx.toks[p].Text {
	case "::", "->", "?->":
		return true
	}
	return false
}

func (lx *Lexer) scanNumber() {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isNumberByte(b) || (b == '.' && isDec(lx.cursor.PeekAt(1))) {
			lx.cursor.Bump()
			continue
		}
		break
	}
	lx.emit(token.NumberLit, m)
}

func (lx *Lexer) scanString(quote byte) {
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '\\' {
			lx.cursor.Bump()
			continue
		}
		if b == quote {
			lx.emit(token.StringLit, m)
			return
		}
	}
	i := lx.emit(token.StringLit, m)
	lx.errorf(diag.LexUnterminatedString, lx.toks[i].Span, "unterminated string literal")
}

// scanHeredoc lexes <<<LABEL ... LABEL (and nowdoc) as one string token.
func (lx *Lexer) scanHeredoc() {
	m := lx.cursor.Mark()
	lx.cursor.BumpN(3)
	lx.cursor.EatWhile(isInlineSpace)
	quoted := lx.cursor.Eat('\'') || lx.cursor.Eat('"')
	ls := lx.cursor.Off
	lx.cursor.EatWhile(isIdentContinueByte)
	label := string(lx.file.Content[ls:lx.cursor.Off])
	if quoted {
		lx.cursor.Eat('\'')
		lx.cursor.Eat('"')
	}
	if label == "" || lx.cursor.Peek() != '\n' {
		// не heredoc: "<<" и "<" как операторы
		lx.cursor.Reset(m)
		lx.scanPunct()
		return
	}
	for !lx.cursor.EOF() {
		lx.cursor.Bump() // '\n'
		lx.cursor.EatWhile(isInlineSpace)
		if lx.cursor.HasPrefix(label) && !isIdentContinueByte(lx.cursor.PeekAt(uint32(len(label)))) {
			lx.cursor.BumpN(uint32(len(label)))
			lx.emit(token.StringLit, m)
			return
		}
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
	}
	i := lx.emit(token.StringLit, m)
	lx.errorf(diag.LexUnterminatedString, lx.toks[i].Span, "unterminated heredoc "+label)
}

func (lx *Lexer) scanPunct() {
	m := lx.cursor.Mark()
	for _, op := range multiOps {
		if lx.cursor.HasPrefix(op) {
			lx.cursor.BumpN(uint32(len(op)))
			kind := token.Operator
			if op == "..." {
				kind = token.Ellipsis
			}
			lx.emit(kind, m)
			return
		}
	}

	ch := lx.cursor.Bump()
	kind, ok := punct[ch]
	if !ok {
		if strings.IndexByte("+-*/.%!<>^~@$", ch) >= 0 {
			lx.emit(token.Operator, m)
			return
		}
		i := lx.emit(token.Invalid, m)
		lx.errorf(diag.LexUnknownChar, lx.toks[i].Span, "unknown character")
		return
	}

	switch kind {
	case token.LParen, token.LBracket:
		i := lx.emit(kind, m)
		lx.pushOpen(i)
		if kind == token.LParen {
			if owner := lx.parenOwner(i); owner >= 0 {
				lx.setExtra(i, func(e *token.Extra) { e.Owner = owner })
			}
		}
	case token.LBrace:
		// уровень '{' - внешний
		i := lx.emit(kind, m)
		lx.pushOpen(i)
		if owner := lx.braceOwner(i); owner >= 0 {
			lx.setExtra(i, func(e *token.Extra) { e.Owner = owner })
		}
		lx.level++
	case token.RBrace:
		if lx.level > 0 {
			lx.level--
		}
		i := lx.emit(kind, m)
		lx.closeWithOwner(i, token.LBrace)
	case token.RParen:
		i := lx.emit(kind, m)
		lx.closeWithOwner(i, token.LParen)
	case token.RBracket:
		i := lx.emit(kind, m)
		lx.popOpen(i, token.LBracket, token.AttrOpen)
	default:
		lx.emit(kind, m)
	}
}

// closeWithOwner pairs a closer and copies the opener's owner onto it.
func (lx *Lexer) closeWithOwner(closer int, want token.Kind) {
	opener, ok := lx.popOpen(closer, want)
	if !ok {
		return
	}
	if e := lx.extra[opener]; e.Owner >= 0 {
		lx.setExtra(closer, func(c *token.Extra) { c.Owner = e.Owner })
	}
}
