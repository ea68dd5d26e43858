package fix

import (
	"fmt"
)

// Op is the kind of a single edit.
type Op uint8

const (
	OpReplace Op = iota
	OpInsertBefore
	OpInsertAfter
	OpRemoveLines
)

func (o Op) String() string {
	switch o {
	case OpReplace:
		return "replace"
	case OpInsertBefore:
		return "insert-before"
	case OpInsertAfter:
		return "insert-after"
	case OpRemoveLines:
		return "remove-lines"
	}
	return "unknown"
}

// Edit is one recorded change. Line range is used by OpRemoveLines only.
type Edit struct {
	Op        Op
	Pos       int
	StartLine uint32
	EndLine   uint32
	Text      string
}

// Changeset collects edits that are applied together or not at all.
// Edits compose in order: an insert after a replace of the same token wraps the new text.
type Changeset struct {
	fixer  *Fixer
	id     int
	edits  []Edit
	closed bool
}

func (c *Changeset) Replace(pos int, text string) {
	c.edits = append(c.edits, Edit{Op: OpReplace, Pos: pos, Text: text})
}

func (c *Changeset) InsertBefore(pos int, text string) {
	c.edits = append(c.edits, Edit{Op: OpInsertBefore, Pos: pos, Text: text})
}

func (c *Changeset) InsertAfter(pos int, text string) {
	c.edits = append(c.edits, Edit{Op: OpInsertAfter, Pos: pos, Text: text})
}

// RemoveLines blanks every token whose line falls in [startLine, endLine].
func (c *Changeset) RemoveLines(startLine, endLine uint32) {
	c.edits = append(c.edits, Edit{Op: OpRemoveLines, StartLine: startLine, EndLine: endLine})
}

// Edits returns the recorded edits.
func (c *Changeset) Edits() []Edit {
	return c.edits
}

// Discard drops the changeset without applying anything.
func (c *Changeset) Discard() {
	c.closed = true
	c.edits = nil
}

// Commit applies all edits atomically. It fails with ErrConflict, applying nothing,
// when any target token was already edited by another changeset in this pass.
func (c *Changeset) Commit() error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	f := c.fixer

	// сначала всё считаем в staged, потом переносим
	staged := make(map[int]string)
	current := func(pos int) string {
		if t, ok := staged[pos]; ok {
			return t
		}
		return f.texts[pos]
	}
	for _, e := range c.edits {
		if e.Op == OpRemoveLines {
			for _, pos := range f.lineRange(e.StartLine, e.EndLine) {
				if err := c.checkLedger(pos); err != nil {
					return err
				}
				staged[pos] = ""
			}
			continue
		}
		if e.Pos < 0 || e.Pos >= len(f.texts) {
			return fmt.Errorf("fix: edit %s targets token %d out of range", e.Op, e.Pos)
		}
		if err := c.checkLedger(e.Pos); err != nil {
			return err
		}
		switch e.Op {
		case OpReplace:
			staged[e.Pos] = e.Text
		case OpInsertBefore:
			staged[e.Pos] = e.Text + current(e.Pos)
		case OpInsertAfter:
			staged[e.Pos] = current(e.Pos) + e.Text
		}
	}
	if len(staged) == 0 {
		return nil
	}

	for pos, text := range staged {
		f.texts[pos] = text
		f.ledger[pos] = c.id
	}
	f.applied++
	return nil
}

func (c *Changeset) checkLedger(pos int) error {
	if owner, ok := c.fixer.ledger[pos]; ok && owner != c.id {
		return fmt.Errorf("%w: token %d already edited", ErrConflict, pos)
	}
	return nil
}
