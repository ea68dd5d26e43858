package docblock

import (
	"strings"

	"docsniff/internal/token"
)

// Block is one doc comment. Positions are token indices; -1 marks absence.
type Block struct {
	Start     int
	End       int
	Summary   int
	DescStart int
	DescEnd   int
	Tags      []Tag

	s *token.Stream
}

// skipBack are tokens allowed between a doc comment and its declaration.
var skipBack = token.Blank.Union(token.Modifiers)

// Locate finds the doc comment documenting the declaration at anchor.
// It walks back over whitespace, modifiers and attribute groups only; anything else
// (another statement, a plain comment) means the declaration has no block.
func Locate(s *token.Stream, anchor int) (*Block, bool) {
	for i := anchor - 1; i >= 0; i-- {
		tok := s.At(i)
		switch {
		case skipBack.Has(tok.Kind):
			continue
		case tok.Kind == token.RBracket:
			open, ok := s.Pair(i)
			if !ok || s.At(open).Kind != token.AttrOpen {
				return nil, false
			}
			i = open
		case tok.Kind == token.DocClose:
			open, ok := s.Pair(i)
			if !ok {
				return nil, false
			}
			return Parse(s, open)
		default:
			return nil, false
		}
	}
	return nil, false
}

// Parse builds the block opened at the DocOpen token open.
func Parse(s *token.Stream, open int) (*Block, bool) {
	if s.At(open).Kind != token.DocOpen {
		return nil, false
	}
	end, ok := s.Pair(open)
	if !ok || end <= open {
		return nil, false
	}
	b := &Block{
		Start:     open,
		End:       end,
		Summary:   -1,
		DescStart: -1,
		DescEnd:   -1,
		s:         s,
	}
	b.extractTags()
	b.extractSummary()
	return b, true
}

// FileBlock returns the file-level doc comment following the open tag at openTag.
// A comment directly followed by a declaration documents that declaration instead.
func FileBlock(s *token.Stream, openTag int) (*Block, bool) {
	open, ok := s.FindNext(token.Blank, openTag+1, token.Exclude())
	if !ok || s.At(open).Kind != token.DocOpen {
		return nil, false
	}
	b, ok := Parse(s, open)
	if !ok {
		return nil, false
	}
	next, ok := s.FindNext(token.Blank, b.End+1, token.Exclude())
	if ok {
		decl := token.ClassLike.Union(token.Modifiers).Union(token.Kinds(token.KwFunction, token.KwConst, token.AttrOpen))
		if decl.Has(s.At(next).Kind) {
			return nil, false
		}
	}
	return b, true
}

// Stream returns the stream the block was built from.
func (b *Block) Stream() *token.Stream {
	return b.s
}

// FirstTagPos is the position of the first tag, or End when there are none.
func (b *Block) FirstTagPos() int {
	if len(b.Tags) == 0 {
		return b.End
	}
	return b.Tags[0].Pos
}

// extractTags реализует "сшивание" содержимого: токен принадлежит текущему тегу,
// пока не встретится тег с колонкой не больше колонки текущего.
func (b *Block) extractTags() {
	var positions []int
	if e, ok := b.s.Extra(b.Start); ok && e.Tags != nil {
		positions = e.Tags
	} else {
		for i := b.Start + 1; i < b.End; i++ {
			if b.s.At(i).Kind == token.DocTag {
				positions = append(positions, i)
			}
		}
	}

	for idx := 0; idx < len(positions); idx++ {
		pos := positions[idx]
		tok := b.s.At(pos)
		stop := b.End
		for j := pos + 1; j < b.End; j++ {
			next := b.s.At(j)
			if next.Kind == token.DocTag && next.Column <= tok.Column {
				stop = j
				break
			}
		}
		b.Tags = append(b.Tags, Tag{
			Name:    tok.Text,
			Pos:     pos,
			Line:    tok.Line,
			Column:  tok.Column,
			Content: trimBlank(b.s.Tokens()[pos+1 : stop]),
		})
		// вложенные теги принадлежат содержимому текущего, а не являются соседями
		for idx+1 < len(positions) && positions[idx+1] < stop {
			idx++
		}
	}
}

func trimBlank(toks []token.Token) []token.Token {
	lo, hi := 0, len(toks)
	for lo < hi && token.DocBlank.Has(toks[lo].Kind) {
		lo++
	}
	for hi > lo && token.DocBlank.Has(toks[hi-1].Kind) {
		hi--
	}
	if lo == hi {
		return nil
	}
	return toks[lo:hi]
}

func (b *Block) extractSummary() {
	limit := b.FirstTagPos()
	for i := b.Start + 1; i < limit; i++ {
		if b.s.At(i).Kind != token.DocString {
			continue
		}
		if b.Summary < 0 {
			b.Summary = i
			continue
		}
		if b.DescStart < 0 {
			b.DescStart = i
		}
		b.DescEnd = i
	}
}

// HasSummary reports whether the block has a summary line.
func (b *Block) HasSummary() bool {
	return b.Summary >= 0
}

// HasDescription reports whether free text follows the summary.
func (b *Block) HasDescription() bool {
	return b.DescStart >= 0
}

// SummaryText returns the summary line.
func (b *Block) SummaryText() string {
	if b.Summary < 0 {
		return ""
	}
	return b.s.At(b.Summary).Text
}

// Description returns the description lines joined with "\n".
func (b *Block) Description() string {
	if b.DescStart < 0 {
		return ""
	}
	var lines []string
	for i := b.DescStart; i <= b.DescEnd; i++ {
		if tok := b.s.At(i); tok.Kind == token.DocString {
			lines = append(lines, tok.Text)
		}
	}
	return strings.Join(lines, "\n")
}

// Count returns how many tags carry the normalised name.
func (b *Block) Count(name string) int {
	key := NormalizeName(name)
	n := 0
	for _, t := range b.Tags {
		if t.Key() == key {
			n++
		}
	}
	return n
}

// Counts returns occurrences per normalised name.
func (b *Block) Counts() map[string]int {
	return CountTags(b.Tags)
}

// Named returns the tags with the normalised name, in source order.
func (b *Block) Named(name string) []Tag {
	key := NormalizeName(name)
	var out []Tag
	for _, t := range b.Tags {
		if t.Key() == key {
			out = append(out, t)
		}
	}
	return out
}

// CountTags counts occurrences per normalised name.
func CountTags(tags []Tag) map[string]int {
	counts := make(map[string]int, len(tags))
	for _, t := range tags {
		counts[t.Key()]++
	}
	return counts
}
