package lexer

import (
	"docsniff/internal/diag"
	"docsniff/internal/source"
	"docsniff/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	toks  []token.Token
	extra map[int]token.Extra
	// открытые скобки: индексы токенов ( [ { #[
	open  []int
	level uint16
	inPHP bool

	// позиция начала текущей строки для подсчёта колонок
	line      uint32
	lineStart uint32
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		extra:  make(map[int]token.Extra),
		inPHP:  opts.InPHP,
		line:   1,
	}
}

// Tokenize лексит файл целиком.
func Tokenize(file *source.File, opts Options) *token.Stream {
	return New(file, opts).Run()
}

// Run scans the whole file and returns the token stream with pairs and owners attached.
// Concatenating the token texts reproduces the file content.
func (lx *Lexer) Run() *token.Stream {
	for !lx.cursor.EOF() {
		if lx.inPHP {
			lx.scanCode()
		} else {
			lx.scanHTML()
		}
	}
	// незакрытые скобки
	for _, i := range lx.open {
		lx.errorf(diag.LexUnbalancedDelimiter, lx.toks[i].Span, "unclosed '"+lx.toks[i].Text+"'")
	}
	s := token.NewStream(lx.toks)
	for i, e := range lx.extra {
		s.SetExtra(i, e)
	}
	return s
}

// emit creates a token for the bytes in [start, cursor).
func (lx *Lexer) emit(kind token.Kind, m Mark) int {
	sp := lx.cursor.SpanFrom(m)
	length := sp.End - sp.Start
	text := string(lx.file.Content[sp.Start:sp.End])
	idx := len(lx.toks)
	lx.toks = append(lx.toks, token.Token{
		Index:  idx,
		Kind:   kind,
		Text:   text,
		Line:   lx.line,
		Column: sp.Start - lx.lineStart + 1,
		Len:    length,
		Level:  lx.level,
		Span:   sp,
	})
	for i := sp.Start; i < sp.End; i++ {
		if lx.file.Content[i] == '\n' {
			lx.line++
			lx.lineStart = i + 1
		}
	}
	return idx
}

// emitTo moves the cursor to end and emits [m, end).
func (lx *Lexer) emitTo(kind token.Kind, m Mark, end uint32) int {
	lx.cursor.Off = end
	return lx.emit(kind, m)
}

func (lx *Lexer) setExtra(i int, fn func(*token.Extra)) {
	e, ok := lx.extra[i]
	if !ok {
		e = token.Extra{Pair: -1, Owner: -1}
	}
	fn(&e)
	lx.extra[i] = e
}

// pair связывает открывающий и закрывающий токены
func (lx *Lexer) pair(opener, closer int) {
	lx.setExtra(opener, func(e *token.Extra) { e.Pair = closer })
	lx.setExtra(closer, func(e *token.Extra) { e.Pair = opener })
}

func (lx *Lexer) pushOpen(i int) {
	lx.open = append(lx.open, i)
}

// popOpen закрывает верхнюю скобку, если она подходит к closer
func (lx *Lexer) popOpen(closer int, want ...token.Kind) (int, bool) {
	if len(lx.open) == 0 {
		lx.errorf(diag.LexUnbalancedDelimiter, lx.toks[closer].Span, "unexpected '"+lx.toks[closer].Text+"'")
		return -1, false
	}
	top := lx.open[len(lx.open)-1]
	for _, k := range want {
		if lx.toks[top].Kind == k {
			lx.open = lx.open[:len(lx.open)-1]
			lx.pair(top, closer)
			return top, true
		}
	}
	lx.errorf(diag.LexUnbalancedDelimiter, lx.toks[closer].Span, "mismatched '"+lx.toks[closer].Text+"'")
	return -1, false
}

// scanHTML emits inline text up to the next open tag, then the tag itself.
func (lx *Lexer) scanHTML() {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		if lx.cursor.HasPrefixFold("<?php") || lx.cursor.HasPrefix("<?=") {
			break
		}
		lx.cursor.Bump()
	}
	if lx.cursor.Off > uint32(m) {
		lx.emit(token.InlineHTML, m)
	}
	if lx.cursor.EOF() {
		return
	}
	m = lx.cursor.Mark()
	if lx.cursor.HasPrefix("<?=") {
		lx.cursor.BumpN(3)
	} else {
		lx.cursor.BumpN(5)
	}
	lx.emit(token.OpenTag, m)
	lx.inPHP = true
}

// prevSignificant returns the last emitted token that is not whitespace or comment.
func (lx *Lexer) prevSignificant(before int) int {
	for i := before - 1; i >= 0; i-- {
		switch lx.toks[i].Kind {
		case token.Whitespace, token.Newline, token.Comment:
			continue
		}
		if lx.toks[i].IsDoc() {
			continue
		}
		return i
	}
	return -1
}

// parenOwner находит ключевое слово function/fn для списка параметров.
func (lx *Lexer) parenOwner(paren int) int {
	p := lx.prevSignificant(paren)
	if p < 0 {
		return -1
	}
	switch lx.toks[p].Kind {
	case token.KwFunction, token.KwFn:
		return p
	case token.Ident:
		p = lx.prevSignificant(p)
		if p >= 0 && lx.toks[p].Kind == token.Amp {
			p = lx.prevSignificant(p)
		}
		if p >= 0 && (lx.toks[p].Kind == token.KwFunction || lx.toks[p].Kind == token.KwFn) {
			return p
		}
	case token.Amp:
		p = lx.prevSignificant(p)
		if p >= 0 && (lx.toks[p].Kind == token.KwFunction || lx.toks[p].Kind == token.KwFn) {
			return p
		}
	}
	return -1
}

// braceOwner ищет объявление class-like или function до начала инструкции.
func (lx *Lexer) braceOwner(brace int) int {
	owners := token.ClassLike.Union(token.Kinds(token.KwFunction, token.KwFn))
	for i := brace - 1; i >= 0; i-- {
		k := lx.toks[i].Kind
		if token.Terminators.Has(k) {
			return -1
		}
		if owners.Has(k) {
			return i
		}
		// пропускаем списки параметров целиком
		if k == token.RParen {
			if e, ok := lx.extra[i]; ok && e.Pair >= 0 {
				i = e.Pair
			}
		}
	}
	return -1
}
