package occurs

import (
	"fmt"
	"strconv"

	"docsniff/internal/docblock"
	"docsniff/internal/tagcheck"
	"docsniff/internal/token"
)

// NoMax marks a rule without upper bound.
const NoMax = -1

// Context is what derived minimums may inspect. It lives for one anchor visit.
type Context struct {
	Stream *token.Stream
	Block  *docblock.Block
	Anchor int
}

// Min is either a fixed number or derived from the context.
type Min struct {
	fixed  int
	name   string
	derive func(Context) int
}

func Fixed(n int) Min {
	return Min{fixed: n}
}

// Derived builds a minimum computed per visit; name is used in messages and config.
func Derived(name string, fn func(Context) int) Min {
	return Min{name: name, derive: fn}
}

// Resolve evaluates the minimum for ctx.
func (m Min) Resolve(ctx Context) int {
	if m.derive != nil {
		return max(m.derive(ctx), 0)
	}
	return m.fixed
}

func (m Min) IsDerived() bool {
	return m.derive != nil
}

func (m Min) String() string {
	if m.derive != nil {
		return m.name
	}
	return strconv.Itoa(m.fixed)
}

// Rule bounds how often a tag may occur and how its content is checked.
type Rule struct {
	Name      string
	Min       Min
	Max       int
	Validator tagcheck.Validator
}

// Derivations are the named minimums available to configuration.
var Derivations = map[string]func(Context) int{
	"namespace":   DeriveNamespace,
	"return-type": DeriveReturnType,
}

// ParseMin reads "2" or a derivation name such as "namespace".
func ParseMin(s string) (Min, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return Min{}, fmt.Errorf("negative minimum %d", n)
		}
		return Fixed(n), nil
	}
	fn, ok := Derivations[s]
	if !ok {
		return Min{}, fmt.Errorf("unknown minimum %q", s)
	}
	return Derived(s, fn), nil
}

// DeriveNamespace is 1 when the file declares a namespace.
func DeriveNamespace(ctx Context) int {
	if _, ok := Namespace(ctx.Stream); ok {
		return 1
	}
	return 0
}

// Namespace returns the first declared namespace name of the file.
func Namespace(s *token.Stream) (string, bool) {
	for i := 0; i < s.Len(); i++ {
		if s.At(i).Kind != token.KwNamespace {
			continue
		}
		next, ok := s.FindNext(token.Blank, i+1, token.Exclude())
		if !ok {
			return "", false
		}
		switch s.At(next).Kind {
		case token.Ident:
			return s.At(next).Text, true
		case token.LBrace:
			// глобальное пространство имён
			return "", true
		}
	}
	return "", false
}

// DeriveReturnType is 1 when the anchored function declares a non-void return type.
func DeriveReturnType(ctx Context) int {
	typ, ok := ReturnType(ctx.Stream, ctx.Anchor)
	if !ok || typ == "void" || typ == "never" {
		return 0
	}
	return 1
}

// ReturnType returns the declared return type of the function at anchor.
func ReturnType(s *token.Stream, anchor int) (string, bool) {
	if s.At(anchor).Kind != token.KwFunction && s.At(anchor).Kind != token.KwFn {
		return "", false
	}
	lparen, ok := s.FindNext(token.Kinds(token.LParen), anchor+1, token.LocalOnly())
	if !ok {
		return "", false
	}
	rparen, ok := s.Pair(lparen)
	if !ok {
		return "", false
	}
	colon, ok := s.FindNext(token.Blank, rparen+1, token.Exclude())
	if !ok || s.At(colon).Kind != token.Colon {
		return "", false
	}
	from, ok := s.FindNext(token.Blank, colon+1, token.Exclude())
	if !ok {
		return "", false
	}
	// тип до тела или ';'
	end, ok := s.FindNext(token.Kinds(token.LBrace, token.Semicolon, token.Operator), from)
	if !ok {
		return "", false
	}
	typ := s.Slice(from, end)
	for len(typ) > 0 && (typ[len(typ)-1] == ' ' || typ[len(typ)-1] == '\n' || typ[len(typ)-1] == '\t') {
		typ = typ[:len(typ)-1]
	}
	return typ, typ != ""
}
