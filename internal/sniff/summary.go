package sniff

import (
	"unicode"
	"unicode/utf8"

	"docsniff/internal/diag"
	"docsniff/internal/fix"
	"docsniff/internal/tagsort"
	"docsniff/internal/token"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DocSummary requires a summary line starting with an upper case letter.
type DocSummary struct{}

func (DocSummary) Name() string           { return "DocSummary" }
func (DocSummary) Register() []token.Kind { return AnchorKinds }

func (DocSummary) Process(ctx *Context, anchor int) []diag.Violation {
	v, ok := ctx.Visit(anchor)
	if !ok || !v.HasBlock() {
		return nil
	}
	s, b := ctx.Stream, v.Block
	if !b.HasSummary() {
		return []diag.Violation{diag.Errorf(diag.DocNoSummary, s.At(b.Start),
			"Doc comment for %s has no summary", v.Target)}
	}
	sum := s.At(b.Summary)
	first, size := utf8.DecodeRuneInString(sum.Text)
	if !unicode.IsLower(first) {
		return nil
	}
	fixed := cases.Upper(language.Und).String(string(first)) + sum.Text[size:]
	return []diag.Violation{diag.Errorf(diag.DocSummaryUcFirst, sum,
		"Summary must start with a capital letter").
		WithFix(fix.ReplaceToken(sum.Index, fixed))}
}

// DocSpacing wants exactly one blank line between the summary or description and the tags.
type DocSpacing struct{}

func (DocSpacing) Name() string           { return "DocSpacing" }
func (DocSpacing) Register() []token.Kind { return AnchorKinds }

func (DocSpacing) Process(ctx *Context, anchor int) []diag.Violation {
	v, ok := ctx.Visit(anchor)
	if !ok || !v.HasBlock() || !v.Block.HasSummary() || len(v.Block.Tags) == 0 {
		return nil
	}
	s, b := ctx.Stream, v.Block
	textEnd := b.Summary
	if b.HasDescription() {
		textEnd = b.DescEnd
	}
	textLine := s.At(textEnd).Line
	tag := b.Tags[0]
	if tag.Line <= textLine {
		return nil
	}

	switch blank := tag.Line - textLine - 1; {
	case blank == 0:
		vi := diag.Errorf(diag.DocNoLineAfterDescription, s.At(tag.Pos),
			"There must be one blank line after the description")
		if at, ok := s.FirstOnLine(tag.Line); ok {
			vi = vi.WithFix(fix.InsertBefore(at, tagsort.BlankLine(s, tag.Line)+"\n"))
		}
		return []diag.Violation{vi}
	case blank > 1:
		return []diag.Violation{diag.Errorf(diag.DocMuchLinesAfterDescription, s.At(tag.Pos),
			"There must be exactly one blank line after the description, found %d", blank).
			WithFix(fix.DeleteLines(textLine+1, tag.Line-2))}
	}
	return nil
}
