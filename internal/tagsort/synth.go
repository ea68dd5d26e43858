package tagsort

import (
	"errors"
	"strings"

	"docsniff/internal/docblock"
	"docsniff/internal/token"
)

// ErrInline: теги делят строку с "/**" или "*/", переписать регион нельзя.
var ErrInline = errors.New("tags share a line with the comment markers")

// lineLayout describes the comment markers in front of a line's content.
type lineLayout struct {
	indent string
	star   bool
}

func layoutOf(s *token.Stream, line uint32) lineLayout {
	var lay lineLayout
	i, ok := s.FirstOnLine(line)
	if !ok {
		return lay
	}
	if tok := s.At(i); tok.Kind == token.DocWhitespace {
		lay.indent = tok.Text
		i++
	}
	lay.star = s.At(i).Kind == token.DocStar && s.At(i).Line == line
	return lay
}

func (l lineLayout) prefix() string {
	if l.star {
		return l.indent + "* "
	}
	return l.indent
}

func (l lineLayout) blank() string {
	if l.star {
		return l.indent + "*"
	}
	return ""
}

// BlankLine is an empty comment line laid out like line.
func BlankLine(s *token.Stream, line uint32) string {
	return layoutOf(s, line).blank()
}

// Region returns the line range covered by the tags and the token starting it.
func Region(b *docblock.Block) (first, last uint32, anchor int, err error) {
	if len(b.Tags) == 0 {
		return 0, 0, -1, errors.New("block has no tags")
	}
	s := b.Stream()
	first = b.Tags[0].Line
	for _, t := range b.Tags {
		last = max(last, t.LastLine())
	}
	if first == s.At(b.Start).Line || last == s.At(b.End).Line {
		return 0, 0, -1, ErrInline
	}
	anchor, ok := s.FirstOnLine(first)
	if !ok {
		return 0, 0, -1, ErrInline
	}
	return first, last, anchor, nil
}

// Synthesize renders tags, in the given order, as the replacement text of the tag
// region of b: one line per source line, separators between groups, continuation
// lines aligned under the tag's first content column.
func Synthesize(b *docblock.Block, tags []docblock.Tag) (string, error) {
	first, _, _, err := Region(b)
	if err != nil {
		return "", err
	}
	s := b.Stream()
	lay := layoutOf(s, first)
	counts := docblock.CountTags(tags)

	var out []string
	for i, t := range tags {
		if i > 0 && NeedsSeparator(tags[i-1], t, counts) {
			out = append(out, lay.blank())
		}
		out = append(out, renderTag(s, t, lay)...)
	}
	return strings.Join(out, "\n") + "\n", nil
}

// contentLine is the non-filler content of one source line of a tag.
type contentLine struct {
	line   uint32
	column uint32
	from   int
	to     int // inclusive
}

func splitLines(t docblock.Tag) []contentLine {
	var lines []contentLine
	for _, tok := range t.Content {
		if token.DocBlank.Has(tok.Kind) {
			continue
		}
		if n := len(lines); n > 0 && lines[n-1].line == tok.Line {
			lines[n-1].to = tok.Index
			continue
		}
		lines = append(lines, contentLine{line: tok.Line, column: tok.Column, from: tok.Index, to: tok.Index})
	}
	return lines
}

func renderTag(s *token.Stream, t docblock.Tag, lay lineLayout) []string {
	lines := splitLines(t)

	head := t.Name
	rest := lines
	if t.FirstLineContent() {
		head = s.Slice(t.Pos, lines[0].to+1)
		rest = lines[1:]
	}
	out := []string{lay.prefix() + head}
	if len(rest) == 0 {
		return out
	}

	// продолжения левее первой колонки содержимого сдвигаются к ней, правее остаются на месте
	minCol := rest[0].column
	for _, cl := range rest[1:] {
		minCol = min(minCol, cl.column)
	}
	var shift uint32
	if t.FirstLineContent() && t.Content[0].Column > minCol {
		shift = t.Content[0].Column - minCol
	}

	next := t.Line + 1
	for _, cl := range rest {
		for ; next < cl.line; next++ {
			out = append(out, lay.blank())
		}
		next = cl.line + 1

		pad := max(int(cl.column+shift)-int(t.Column), 0)
		out = append(out, lay.prefix()+strings.Repeat(" ", pad)+s.Slice(cl.from, cl.to+1))
	}
	return out
}
