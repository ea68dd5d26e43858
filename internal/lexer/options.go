package lexer

import (
	"docsniff/internal/diag"
	"docsniff/internal/source"
)

// Reporter - тонкий интерфейс для ошибок лексера.
// Лексер **только вызывает** его; хранение и форматирование - забота внешнего слоя.
type Reporter interface {
	Report(code diag.Code, sev diag.Severity, sp source.Span, msg string)
}

type Options struct {
	Reporter Reporter // может быть nil - тогда ошибки игнорируем (но продолжаем лексить)
	// InPHP: начинать сразу в режиме кода, как будто файл открыт "<?php"
	InPHP bool
}

func (lx *Lexer) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, sev, sp, msg)
	}
}

func (lx *Lexer) errorf(code diag.Code, sp source.Span, msg string) {
	lx.report(code, diag.SevError, sp, msg)
}
