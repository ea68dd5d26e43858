package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota

	// OpenTag is the "<?php" marker.
	OpenTag
	// CloseTag is the "?>" marker.
	CloseTag
	// InlineHTML is any text outside of php tags.
	InlineHTML
	// Whitespace is a run of spaces and tabs outside doc comments.
	Whitespace
	// Newline is a single "\n" outside doc comments.
	Newline
	// Comment is a line comment or a non-doc block comment.
	Comment

	// Ident is a bare or namespace-qualified name.
	Ident
	// Variable is a "$name" token.
	Variable
	// StringLit is a quoted string.
	StringLit
	// NumberLit is a numeric literal.
	NumberLit

	KwNamespace  // namespace
	KwUse        // use
	KwClass      // class
	KwInterface  // interface
	KwTrait      // trait
	KwEnum       // enum
	KwFunction   // function
	KwFn         // fn
	KwConst      // const
	KwPublic     // public
	KwProtected  // protected
	KwPrivate    // private
	KwStatic     // static
	KwAbstract   // abstract
	KwFinal      // final
	KwReadonly   // readonly
	KwVar        // var
	KwReturn     // return
	KwNew        // new
	KwExtends    // extends
	KwImplements // implements

	Semicolon // ;
	Comma     // ,
	Colon     // :
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	AttrOpen  // #[
	Assign    // =
	Question  // ?
	Amp       // &
	Pipe      // |
	Ellipsis  // ...
	Operator  // any other operator run

	// DocOpen is the "/**" opener of a doc comment.
	DocOpen
	// DocClose is the "*/" closer of a doc comment.
	DocClose
	// DocStar is a leading "*" on a doc comment line.
	DocStar
	// DocWhitespace is a run of spaces and tabs inside a doc comment.
	DocWhitespace
	// DocNewline is a single "\n" inside a doc comment.
	DocNewline
	// DocTag is an "@name" token, including any parameter suffix glued to it.
	DocTag
	// DocString is free text inside a doc comment, up to the end of its line.
	DocString

	kindCount
)

var kindNames = [...]string{
	Invalid:       "Invalid",
	OpenTag:       "OpenTag",
	CloseTag:      "CloseTag",
	InlineHTML:    "InlineHTML",
	Whitespace:    "Whitespace",
	Newline:       "Newline",
	Comment:       "Comment",
	Ident:         "Ident",
	Variable:      "Variable",
	StringLit:     "StringLit",
	NumberLit:     "NumberLit",
	KwNamespace:   "KwNamespace",
	KwUse:         "KwUse",
	KwClass:       "KwClass",
	KwInterface:   "KwInterface",
	KwTrait:       "KwTrait",
	KwEnum:        "KwEnum",
	KwFunction:    "KwFunction",
	KwFn:          "KwFn",
	KwConst:       "KwConst",
	KwPublic:      "KwPublic",
	KwProtected:   "KwProtected",
	KwPrivate:     "KwPrivate",
	KwStatic:      "KwStatic",
	KwAbstract:    "KwAbstract",
	KwFinal:       "KwFinal",
	KwReadonly:    "KwReadonly",
	KwVar:         "KwVar",
	KwReturn:      "KwReturn",
	KwNew:         "KwNew",
	KwExtends:     "KwExtends",
	KwImplements:  "KwImplements",
	Semicolon:     "Semicolon",
	Comma:         "Comma",
	Colon:         "Colon",
	LParen:        "LParen",
	RParen:        "RParen",
	LBrace:        "LBrace",
	RBrace:        "RBrace",
	LBracket:      "LBracket",
	RBracket:      "RBracket",
	AttrOpen:      "AttrOpen",
	Assign:        "Assign",
	Question:      "Question",
	Amp:           "Amp",
	Pipe:          "Pipe",
	Ellipsis:      "Ellipsis",
	Operator:      "Operator",
	DocOpen:       "DocOpen",
	DocClose:      "DocClose",
	DocStar:       "DocStar",
	DocWhitespace: "DocWhitespace",
	DocNewline:    "DocNewline",
	DocTag:        "DocTag",
	DocString:     "DocString",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// KindSet is a bit set of token kinds used by the stream search primitives.
type KindSet uint64

// Kinds builds a set from the listed kinds.
func Kinds(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	return k < kindCount && s&(1<<k) != 0
}

// Union returns a set holding the kinds of both sets.
func (s KindSet) Union(other KindSet) KindSet {
	return s | other
}

var (
	// Modifiers may sit between a doc comment and the declaration it documents.
	Modifiers = Kinds(KwPublic, KwProtected, KwPrivate, KwStatic, KwAbstract, KwFinal, KwReadonly, KwVar)
	// Blank covers code whitespace and newlines.
	Blank = Kinds(Whitespace, Newline)
	// DocBlank covers doc comment filler that never carries text.
	DocBlank = Kinds(DocStar, DocWhitespace, DocNewline)
	// ClassLike are the declarations that open a class scope.
	ClassLike = Kinds(KwClass, KwInterface, KwTrait, KwEnum)
	// Terminators end a statement for LocalOnly searches.
	Terminators = Kinds(Semicolon, LBrace, RBrace, OpenTag, CloseTag)
)

var keywords = map[string]Kind{
	"namespace":  KwNamespace,
	"use":        KwUse,
	"class":      KwClass,
	"interface":  KwInterface,
	"trait":      KwTrait,
	"enum":       KwEnum,
	"function":   KwFunction,
	"fn":         KwFn,
	"const":      KwConst,
	"public":     KwPublic,
	"protected":  KwProtected,
	"private":    KwPrivate,
	"static":     KwStatic,
	"abstract":   KwAbstract,
	"final":      KwFinal,
	"readonly":   KwReadonly,
	"var":        KwVar,
	"return":     KwReturn,
	"new":        KwNew,
	"extends":    KwExtends,
	"implements": KwImplements,
}

// LookupKeyword resolves a case-insensitive keyword; the caller passes the lowercased name.
func LookupKeyword(lower string) (Kind, bool) {
	k, ok := keywords[lower]
	return k, ok
}
