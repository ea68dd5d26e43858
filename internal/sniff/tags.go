package sniff

import (
	"strings"

	"docsniff/internal/diag"
	"docsniff/internal/fix"
	"docsniff/internal/occurs"
	"docsniff/internal/tagsort"
	"docsniff/internal/token"
)

// TagCount applies the occurrence rules of the visited target.
type TagCount struct{}

func (TagCount) Name() string           { return "TagCount" }
func (TagCount) Register() []token.Kind { return AnchorKinds }

func (TagCount) Process(ctx *Context, anchor int) []diag.Violation {
	v, ok := ctx.Visit(anchor)
	if !ok || !v.HasBlock() {
		return nil
	}
	rules := ctx.Settings.Rules[v.Target]
	if len(rules) == 0 {
		return nil
	}
	return occurs.Check(v.Block.Tags, rules, occurs.Context{
		Stream: ctx.Stream,
		Block:  v.Block,
		Anchor: anchor,
	})
}

// TagContent validates tag contents against their grammars.
type TagContent struct{}

func (TagContent) Name() string           { return "TagContent" }
func (TagContent) Register() []token.Kind { return AnchorKinds }

func (TagContent) Process(ctx *Context, anchor int) []diag.Violation {
	v, ok := ctx.Visit(anchor)
	if !ok || !v.HasBlock() {
		return nil
	}
	var out []diag.Violation
	for _, tag := range v.Block.Tags {
		val, ok := ctx.Settings.Validator(v.Target, tag)
		if !ok {
			continue
		}
		at := ctx.Stream.At(tag.Pos)
		res := val.Validate(tag.Value())
		if !res.OK {
			out = append(out, diag.Errorf(diag.TagFormatContentInvalid, at,
				"Invalid %s content (%s), expected format: %s", tag.Name, res.Message, res.Expected))
		}
		if res.Mixed {
			out = append(out, diag.Warnf(diag.TagMixedType, at,
				"Try to avoid the mixed type in %s", tag.Name))
		}
		if res.OK && tag.Is("throws") && res.Extracted["description"] == "" {
			out = append(out, diag.Warnf(diag.TagMissingDescription, at,
				"%s should describe when the exception is thrown", tag.Name))
		}
	}
	return out
}

// DisallowedTag removes tags listed in Settings.Disallowed.
type DisallowedTag struct{}

func (DisallowedTag) Name() string           { return "DisallowedTag" }
func (DisallowedTag) Register() []token.Kind { return AnchorKinds }

func (DisallowedTag) Process(ctx *Context, anchor int) []diag.Violation {
	if len(ctx.Settings.Disallowed) == 0 {
		return nil
	}
	v, ok := ctx.Visit(anchor)
	if !ok || !v.HasBlock() {
		return nil
	}
	s, b := ctx.Stream, v.Block
	var out []diag.Violation
	for _, tag := range b.Tags {
		if !ctx.Settings.IsDisallowed(tag) {
			continue
		}
		vi := diag.Errorf(diag.TagNotAllowed, s.At(tag.Pos), "Tag %s is not allowed", tag.Name)
		// строки тега удаляем целиком, только если они не делят строку с маркерами
		if tag.Line > s.At(b.Start).Line && tag.LastLine() < s.At(b.End).Line {
			vi = vi.WithFix(fix.DeleteLines(tag.Line, tag.LastLine()))
		}
		out = append(out, vi)
	}
	return out
}

// TagSorting enforces the canonical tag order and the blank lines between groups.
type TagSorting struct{}

func (TagSorting) Name() string           { return "TagSorting" }
func (TagSorting) Register() []token.Kind { return AnchorKinds }

func (TagSorting) Process(ctx *Context, anchor int) []diag.Violation {
	v, ok := ctx.Visit(anchor)
	if !ok || !v.HasBlock() || len(v.Block.Tags) == 0 {
		return nil
	}
	out := tagsort.CheckOrder(v.Block)
	return append(out, tagsort.CheckSpacing(v.Block)...)
}

// PackageTag compares @package with the namespace of the file.
type PackageTag struct{}

func (PackageTag) Name() string { return "PackageTag" }

func (PackageTag) Register() []token.Kind {
	return []token.Kind{token.OpenTag, token.KwClass, token.KwInterface, token.KwTrait, token.KwEnum}
}

func (PackageTag) Process(ctx *Context, anchor int) []diag.Violation {
	v, ok := ctx.Visit(anchor)
	if !ok || !v.HasBlock() {
		return nil
	}
	ns, ok := occurs.Namespace(ctx.Stream)
	if !ok || ns == "" {
		return nil
	}
	ns = strings.TrimPrefix(ns, "\\")

	var out []diag.Violation
	for _, tag := range v.Block.Named("package") {
		got := strings.TrimPrefix(strings.TrimSpace(tag.Value()), "\\")
		if got == ns {
			continue
		}
		vi := diag.Errorf(diag.TagWrongPackage, ctx.Stream.At(tag.Pos),
			"Package %q does not match namespace %q", got, ns)
		out = append(out, vi.WithFix(replaceContent(tag.Pos, tag.Content, ns)))
	}
	return out
}

func replaceContent(pos int, content []token.Token, text string) diag.FixFunc {
	if len(content) == 0 {
		return fix.InsertAfter(pos, " "+text)
	}
	fns := []diag.FixFunc{fix.ReplaceToken(content[0].Index, text)}
	for _, tok := range content[1:] {
		fns = append(fns, fix.ReplaceToken(tok.Index, ""))
	}
	return fix.Chain(fns...)
}

// RequiredDoc reports declarations without a doc comment for targets enabled in Settings.RequireDoc.
type RequiredDoc struct{}

func (RequiredDoc) Name() string           { return "RequiredDoc" }
func (RequiredDoc) Register() []token.Kind { return AnchorKinds }

func (RequiredDoc) Process(ctx *Context, anchor int) []diag.Violation {
	v, ok := ctx.Visit(anchor)
	if !ok || v.HasBlock() || !ctx.Settings.RequireDoc[v.Target] {
		return nil
	}
	return []diag.Violation{diag.Errorf(diag.DocNoDocBlock, ctx.Stream.At(anchor),
		"Missing doc comment for %s", v.Target)}
}
