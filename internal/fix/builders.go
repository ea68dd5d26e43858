package fix

import (
	"docsniff/internal/diag"
)

// ReplaceToken builds a fix replacing one token's text.
func ReplaceToken(pos int, text string) diag.FixFunc {
	return func(ed diag.Editor) error {
		ed.Replace(pos, text)
		return nil
	}
}

// InsertBefore builds a fix inserting text before pos.
func InsertBefore(pos int, text string) diag.FixFunc {
	return func(ed diag.Editor) error {
		ed.InsertBefore(pos, text)
		return nil
	}
}

// InsertAfter builds a fix inserting text after pos.
func InsertAfter(pos int, text string) diag.FixFunc {
	return func(ed diag.Editor) error {
		ed.InsertAfter(pos, text)
		return nil
	}
}

// DeleteLines builds a fix removing whole lines.
func DeleteLines(start, end uint32) diag.FixFunc {
	return func(ed diag.Editor) error {
		ed.RemoveLines(start, end)
		return nil
	}
}

// ReplaceLines removes [start, end] and inserts text before anchor, in one changeset.
func ReplaceLines(start, end uint32, anchor int, text string) diag.FixFunc {
	return Chain(DeleteLines(start, end), InsertBefore(anchor, text))
}

// Chain runs fns in order into the same changeset; nil entries are skipped.
func Chain(fns ...diag.FixFunc) diag.FixFunc {
	return func(ed diag.Editor) error {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			if err := fn(ed); err != nil {
				return err
			}
		}
		return nil
	}
}
