package docblock

import (
	"strings"

	"docsniff/internal/token"

	"golang.org/x/text/cases"
)

// Tag is one "@name" occurrence with its content tokens.
// Content is contiguous, starts and ends with a non-filler token and may span lines.
type Tag struct {
	Name    string
	Pos     int
	Line    uint32
	Column  uint32
	Content []token.Token
}

// NormalizeName strips "@", cuts an "(...)" suffix and folds case.
// Используется только для сравнения; исходный текст тега не меняется.
func NormalizeName(name string) string {
	return cases.Fold().String(BareName(name))
}

// BareName strips "@" and any "(...)" suffix, keeping case.
func BareName(name string) string {
	name = strings.TrimPrefix(name, "@")
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	return name
}

// Key is the normalised name used for grouping and sorting.
func (t Tag) Key() string {
	return NormalizeName(t.Name)
}

// Is reports whether the tag has the given normalised name.
func (t Tag) Is(name string) bool {
	return t.Key() == NormalizeName(name)
}

// HasContent reports whether anything follows the tag name.
func (t Tag) HasContent() bool {
	return len(t.Content) > 0
}

// FirstLineContent reports whether content starts on the tag's own line.
func (t Tag) FirstLineContent() bool {
	return len(t.Content) > 0 && t.Content[0].Line == t.Line
}

// LastLine is the line of the tag's last token.
func (t Tag) LastLine() uint32 {
	if len(t.Content) == 0 {
		return t.Line
	}
	return t.Content[len(t.Content)-1].Line
}

// End is the position of the tag's last token.
func (t Tag) End() int {
	if len(t.Content) == 0 {
		return t.Pos
	}
	return t.Content[len(t.Content)-1].Index
}

// Lines returns the content per source line, without stars and indentation.
// Пустые строки внутри содержимого сохраняются как "".
func (t Tag) Lines() []string {
	if len(t.Content) == 0 {
		return nil
	}
	var (
		lines []string
		cur   strings.Builder
	)
	// в начале строки пропускаем отступ и одну "*"
	lead, star := true, false
	for _, tok := range t.Content {
		switch {
		case tok.Kind == token.DocNewline:
			lines = append(lines, strings.TrimSpace(cur.String()))
			cur.Reset()
			lead, star = true, false
		case lead && tok.Kind == token.DocWhitespace:
		case lead && tok.Kind == token.DocStar && !star:
			star = true
		default:
			lead = false
			cur.WriteString(tok.Text)
		}
	}
	lines = append(lines, strings.TrimSpace(cur.String()))
	return lines
}

// Value is the content joined line by line with "\n".
func (t Tag) Value() string {
	return strings.Join(t.Lines(), "\n")
}

// FirstValue is the content on the tag's own line.
func (t Tag) FirstValue() string {
	if !t.FirstLineContent() {
		return ""
	}
	return t.Lines()[0]
}
