package sniff

import (
	"strings"

	"docsniff/internal/diag"
	"docsniff/internal/tagcheck"
	"docsniff/internal/token"
)

// ParamTag matches @param tags against the function signature, position by position.
type ParamTag struct{}

func (ParamTag) Name() string           { return "ParamTag" }
func (ParamTag) Register() []token.Kind { return []token.Kind{token.KwFunction} }

func (ParamTag) Process(ctx *Context, anchor int) []diag.Violation {
	v, ok := ctx.Visit(anchor)
	if !ok || v.Target != TargetFunction || !v.HasBlock() {
		return nil
	}
	s := ctx.Stream
	args := Arguments(s, anchor)
	tags := v.Block.Named("param")

	var out []diag.Violation
	for i, tag := range tags {
		at := s.At(tag.Pos)
		if i >= len(args) {
			out = append(out, diag.Errorf(diag.TagNoArgumentFound, at,
				"No argument found for %s", tag.Name))
			continue
		}
		name, ok := paramName(tag.Value())
		if !ok {
			// неверный формат сообщает TagContent
			continue
		}
		if want := s.At(args[i]).Text; name != want {
			out = append(out, diag.Errorf(diag.TagMismatchingParam, at,
				"%s names %s but argument %d is %s", tag.Name, name, i+1, want))
		}
	}
	for _, arg := range args[min(len(tags), len(args)):] {
		out = append(out, diag.Errorf(diag.TagMissingParamTag, s.At(arg),
			"Argument %s has no @param tag", s.At(arg).Text))
	}
	return out
}

// Arguments returns the positions of the parameter variables of the function at anchor.
func Arguments(s *token.Stream, anchor int) []int {
	lparen, ok := s.FindNext(token.Kinds(token.LParen), anchor+1, token.LocalOnly())
	if !ok {
		return nil
	}
	rparen, ok := s.Pair(lparen)
	if !ok {
		return nil
	}
	var args []int
	for i := lparen + 1; i < rparen; i++ {
		switch tok := s.At(i); tok.Kind {
		case token.LParen, token.LBracket, token.LBrace, token.AttrOpen:
			// вложенные скобки (значения по умолчанию, атрибуты) пропускаем
			if closer, ok := s.Pair(i); ok && closer > i {
				i = closer
			}
		case token.Variable:
			args = append(args, i)
			// default value up to the next top-level comma
			for i+1 < rparen && s.At(i+1).Kind != token.Comma {
				i++
				if closer, ok := s.Pair(i); ok && closer > i {
					i = closer
				}
			}
		}
	}
	return args
}

func paramName(content string) (string, bool) {
	res := tagcheck.Param.Validate(content)
	name := strings.TrimLeft(res.Extracted["var"], "&.")
	if !strings.HasPrefix(name, "$") {
		return "", false
	}
	return name, true
}
