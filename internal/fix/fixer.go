package fix

import (
	"errors"
	"sort"
	"strings"

	"docsniff/internal/diag"
	"docsniff/internal/token"
)

var (
	// ErrNoFixes is returned when no fixes were applied.
	ErrNoFixes = errors.New("no applicable fixes found")
	// ErrConflict: changeset touches a token already edited in this pass.
	ErrConflict = errors.New("fix conflict")
	// ErrClosed: changeset was already committed or discarded.
	ErrClosed = errors.New("changeset closed")
)

// Fixer accumulates token text edits for one pass over a stream.
// Tokens themselves are never modified; the fixer keeps its own text per position.
type Fixer struct {
	stream *token.Stream
	texts  []string
	// ledger: позиции, изменённые закоммиченными changeset'ами этого прохода
	ledger  map[int]int
	nextID  int
	applied int
}

func NewFixer(s *token.Stream) *Fixer {
	toks := s.Tokens()
	texts := make([]string, len(toks))
	for i := range toks {
		texts[i] = toks[i].Text
	}
	return &Fixer{
		stream: s,
		texts:  texts,
		ledger: make(map[int]int),
	}
}

// Stream returns the stream the fixer edits.
func (f *Fixer) Stream() *token.Stream {
	return f.stream
}

// Text returns the current (possibly edited) text of pos.
func (f *Fixer) Text(pos int) string {
	if pos < 0 || pos >= len(f.texts) {
		return ""
	}
	return f.texts[pos]
}

// Applied is the number of committed changesets.
func (f *Fixer) Applied() int {
	return f.applied
}

// Touched reports whether pos was edited in this pass.
func (f *Fixer) Touched(pos int) bool {
	_, ok := f.ledger[pos]
	return ok
}

// Contents renders the edited file.
func (f *Fixer) Contents() string {
	var b strings.Builder
	for _, t := range f.texts {
		b.WriteString(t)
	}
	return b.String()
}

// Begin opens a new changeset.
func (f *Fixer) Begin() *Changeset {
	f.nextID++
	return &Changeset{fixer: f, id: f.nextID}
}

// Apply records fn into a fresh changeset and commits it.
func (f *Fixer) Apply(fn diag.FixFunc) error {
	if fn == nil {
		return ErrNoFixes
	}
	cs := f.Begin()
	if err := fn(cs); err != nil {
		cs.Discard()
		return err
	}
	return cs.Commit()
}

// lineRange returns token positions whose line lies in [start, end].
// Сканирование останавливается на первом токене за end.
func (f *Fixer) lineRange(start, end uint32) []int {
	toks := f.stream.Tokens()
	i := sort.Search(len(toks), func(i int) bool {
		return toks[i].Line >= start
	})
	var out []int
	for ; i < len(toks); i++ {
		if toks[i].Line > end {
			break
		}
		out = append(out, i)
	}
	return out
}
