package sniff

import (
	"docsniff/internal/diag"
	"docsniff/internal/docblock"
	"docsniff/internal/token"
)

// Sniff is one check bound to anchor token kinds.
type Sniff interface {
	Name() string
	Register() []token.Kind
	Process(ctx *Context, anchor int) []diag.Violation
}

// Target is the kind of declaration a doc comment documents.
type Target uint8

const (
	TargetNone Target = iota
	TargetFile
	TargetClass
	TargetFunction
	TargetProperty
	TargetConstant
)

var targetNames = [...]string{
	TargetNone:     "none",
	TargetFile:     "file",
	TargetClass:    "class",
	TargetFunction: "function",
	TargetProperty: "property",
	TargetConstant: "constant",
}

func (t Target) String() string {
	if int(t) < len(targetNames) {
		return targetNames[t]
	}
	return "none"
}

// ParseTarget resolves a configuration name such as "function".
func ParseTarget(name string) (Target, bool) {
	for t, n := range targetNames {
		if n == name && Target(t) != TargetNone {
			return Target(t), true
		}
	}
	return TargetNone, false
}

// Targets lists every documentable target in a stable order.
func Targets() []Target {
	return []Target{TargetFile, TargetClass, TargetFunction, TargetProperty, TargetConstant}
}

// AnchorKinds are the token kinds that may start a documented declaration.
var AnchorKinds = []token.Kind{
	token.OpenTag,
	token.KwClass, token.KwInterface, token.KwTrait, token.KwEnum,
	token.KwFunction,
	token.KwConst,
	token.Variable,
}

// Context is shared by every anchor visit of one stream.
type Context struct {
	Stream   *token.Stream
	Settings *Settings
}

// NewContext binds settings to a stream. nil settings mean DefaultSettings.
func NewContext(s *token.Stream, settings *Settings) *Context {
	if settings == nil {
		settings = DefaultSettings()
	}
	return &Context{Stream: s, Settings: settings}
}

// Visit is the per-anchor view: what is declared and which block documents it.
type Visit struct {
	Target Target
	Anchor int
	// Decl is where the backward block search starts.
	Decl  int
	Block *docblock.Block
}

// HasBlock reports whether a doc comment was found.
func (v Visit) HasBlock() bool {
	return v.Block != nil
}

// Visit classifies anchor and locates its doc comment. It returns false when
// the token does not start a documentable declaration.
func (c *Context) Visit(anchor int) (Visit, bool) {
	target, decl := classify(c.Stream, anchor)
	if target == TargetNone {
		return Visit{}, false
	}
	v := Visit{Target: target, Anchor: anchor, Decl: decl}
	if target == TargetFile {
		v.Block, _ = docblock.FileBlock(c.Stream, anchor)
	} else {
		v.Block, _ = docblock.Locate(c.Stream, decl)
	}
	return v, true
}
