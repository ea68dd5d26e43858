package token

import (
	"sort"
	"strings"
)

// Extra is host data attached to a token after lexing.
type Extra struct {
	// Pair is the matching opener/closer (doc comment, braces, parens, brackets), or -1.
	Pair int
	// Owner is the declaration owning a parenthesis or brace pair, or -1.
	Owner int
	// Tags lists the DocTag positions of a doc comment; set on DocOpen only.
	Tags []int
}

// Stream is the addressable token sequence of one file.
// It owns no state besides the tokens and the side table.
type Stream struct {
	toks  []Token
	extra map[int]Extra
}

// NewStream wraps lexed tokens. Token.Index must match the slice position.
func NewStream(toks []Token) *Stream {
	return &Stream{
		toks:  toks,
		extra: make(map[int]Extra),
	}
}

// Len returns the number of tokens.
func (s *Stream) Len() int {
	if s == nil {
		return 0
	}
	return len(s.toks)
}

// Valid reports whether i addresses a token.
func (s *Stream) Valid(i int) bool {
	return s != nil && i >= 0 && i < len(s.toks)
}

// At returns the token at i. Out of range positions yield an Invalid token.
func (s *Stream) At(i int) Token {
	if !s.Valid(i) {
		return Token{Index: -1, Kind: Invalid}
	}
	return s.toks[i]
}

// Tokens returns the underlying slice. Callers must not modify it.
func (s *Stream) Tokens() []Token {
	if s == nil {
		return nil
	}
	return s.toks
}

// Extra returns the side-table record for i.
func (s *Stream) Extra(i int) (Extra, bool) {
	e, ok := s.extra[i]
	return e, ok
}

// SetExtra attaches host data to i.
func (s *Stream) SetExtra(i int, e Extra) {
	s.extra[i] = e
}

// Pair returns the matching opener/closer of i.
func (s *Stream) Pair(i int) (int, bool) {
	e, ok := s.extra[i]
	if !ok || e.Pair < 0 {
		return -1, false
	}
	return e.Pair, true
}

// Owner returns the declaration token owning the pair at i.
func (s *Stream) Owner(i int) (int, bool) {
	e, ok := s.extra[i]
	if !ok || e.Owner < 0 {
		return -1, false
	}
	return e.Owner, true
}

// Slice concatenates token texts in [from, to). Bounds are clamped.
func (s *Stream) Slice(from, to int) string {
	if s == nil {
		return ""
	}
	from = max(from, 0)
	to = min(to, len(s.toks))
	if from >= to {
		return ""
	}
	var b strings.Builder
	for i := from; i < to; i++ {
		b.WriteString(s.toks[i].Text)
	}
	return b.String()
}

// String renders the whole stream back into source text.
func (s *Stream) String() string {
	return s.Slice(0, s.Len())
}

// FirstOnLine returns the first token starting on line.
func (s *Stream) FirstOnLine(line uint32) (int, bool) {
	if s == nil {
		return -1, false
	}
	i := sort.Search(len(s.toks), func(i int) bool {
		return s.toks[i].Line >= line
	})
	if i >= len(s.toks) || s.toks[i].Line != line {
		return -1, false
	}
	return i, true
}

type searchOpts struct {
	to      int
	hasTo   bool
	exclude bool
	value   string
	byValue bool
	local   bool
}

// Option tunes FindNext and FindPrevious.
type Option func(*searchOpts)

// Until bounds the search. FindNext treats to as exclusive, FindPrevious as inclusive.
func Until(to int) Option {
	return func(o *searchOpts) {
		o.to = to
		o.hasTo = true
	}
}

// Exclude inverts the kind match: the search looks for the first token NOT in the set.
func Exclude() Option {
	return func(o *searchOpts) { o.exclude = true }
}

// WithValue additionally requires an exact text match.
func WithValue(v string) Option {
	return func(o *searchOpts) {
		o.value = v
		o.byValue = true
	}
}

// LocalOnly stops the search at the nearest statement terminator.
func LocalOnly() Option {
	return func(o *searchOpts) { o.local = true }
}

func collect(opts []Option) searchOpts {
	var o searchOpts
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (s *Stream) matches(i int, kinds KindSet, o *searchOpts) bool {
	tok := s.toks[i]
	found := kinds.Has(tok.Kind)
	if o.exclude {
		found = !found
	}
	if found && o.byValue {
		found = tok.Text == o.value
	}
	return found
}

// FindNext returns the first matching token at or after from.
// It never panics; (-1, false) means nothing matched.
func (s *Stream) FindNext(kinds KindSet, from int, opts ...Option) (int, bool) {
	if s == nil {
		return -1, false
	}
	o := collect(opts)
	end := len(s.toks)
	if o.hasTo && o.to < end {
		end = o.to
	}
	for i := max(from, 0); i < end; i++ {
		if s.matches(i, kinds, &o) {
			return i, true
		}
		if o.local && Terminators.Has(s.toks[i].Kind) {
			break
		}
	}
	return -1, false
}

// FindPrevious returns the first matching token at or before from, searching backward.
func (s *Stream) FindPrevious(kinds KindSet, from int, opts ...Option) (int, bool) {
	if s == nil {
		return -1, false
	}
	o := collect(opts)
	end := 0
	if o.hasTo && o.to > 0 {
		end = o.to
	}
	for i := min(from, len(s.toks)-1); i >= end; i-- {
		if s.matches(i, kinds, &o) {
			return i, true
		}
		if o.local && Terminators.Has(s.toks[i].Kind) {
			break
		}
	}
	return -1, false
}
