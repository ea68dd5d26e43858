package sniff

import (
	"docsniff/internal/token"
)

var (
	// skipped when looking for the neighbours of a declaration keyword
	filler = token.Blank.Union(token.Kinds(token.Comment))
	// tokens a typed property declaration may carry between modifiers and the variable
	propertyType = filler.Union(token.Kinds(token.Ident, token.Question, token.Pipe, token.Amp))
)

func classify(s *token.Stream, anchor int) (Target, int) {
	tok := s.At(anchor)
	switch tok.Kind {
	case token.OpenTag:
		if _, ok := s.FindPrevious(token.Kinds(token.OpenTag), anchor-1); ok {
			return TargetNone, -1
		}
		return TargetFile, anchor
	case token.KwClass, token.KwInterface, token.KwTrait, token.KwEnum:
		// new class(...) и подобное не документируется
		if prevKind(s, anchor) == token.KwNew || nextKind(s, anchor) != token.Ident {
			return TargetNone, -1
		}
		return TargetClass, anchor
	case token.KwFunction:
		if prevKind(s, anchor) == token.KwUse {
			return TargetNone, -1
		}
		next, ok := s.FindNext(filler.Union(token.Kinds(token.Amp)), anchor+1, token.Exclude())
		if !ok || s.At(next).Kind != token.Ident {
			return TargetNone, -1
		}
		return TargetFunction, anchor
	case token.KwConst:
		if prevKind(s, anchor) == token.KwUse {
			return TargetNone, -1
		}
		return TargetConstant, anchor
	case token.Variable:
		return classifyProperty(s, anchor)
	}
	return TargetNone, -1
}

// classifyProperty accepts "$x" declared directly in a class body after at least one modifier.
func classifyProperty(s *token.Stream, anchor int) (Target, int) {
	tok := s.At(anchor)
	if tok.Level == 0 {
		return TargetNone, -1
	}
	mod, ok := s.FindPrevious(propertyType, anchor-1, token.Exclude())
	if !ok || !token.Modifiers.Has(s.At(mod).Kind) {
		return TargetNone, -1
	}
	// promoted constructor parameters look the same but live inside "(...)"
	if before, ok := s.FindPrevious(propertyType.Union(token.Modifiers), mod-1, token.Exclude()); ok {
		if k := s.At(before).Kind; k == token.LParen || k == token.Comma {
			return TargetNone, -1
		}
	}
	brace := enclosingBrace(s, anchor)
	if brace < 0 {
		return TargetNone, -1
	}
	owner, ok := s.Owner(brace)
	if !ok || !token.ClassLike.Has(s.At(owner).Kind) {
		return TargetNone, -1
	}
	return TargetProperty, mod
}

func enclosingBrace(s *token.Stream, pos int) int {
	level := s.At(pos).Level
	for i := pos - 1; i >= 0; i-- {
		if tok := s.At(i); tok.Kind == token.LBrace && tok.Level < level {
			return i
		}
	}
	return -1
}

func prevKind(s *token.Stream, pos int) token.Kind {
	i, ok := s.FindPrevious(filler, pos-1, token.Exclude())
	if !ok {
		return token.Invalid
	}
	return s.At(i).Kind
}

func nextKind(s *token.Stream, pos int) token.Kind {
	i, ok := s.FindNext(filler, pos+1, token.Exclude())
	if !ok {
		return token.Invalid
	}
	return s.At(i).Kind
}
