package fix

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docsniff/internal/diag"
	"docsniff/internal/lexer"
	"docsniff/internal/source"
	"docsniff/internal/token"

	"go.uber.org/zap"
)

func tokenize(content []byte) *token.Stream {
	fs := source.NewFileSet()
	return lexer.Tokenize(fs.Get(fs.AddVirtual("test.php", content)), lexer.Options{})
}

func find(t *testing.T, s *token.Stream, text string) int {
	t.Helper()
	for _, tok := range s.Tokens() {
		if tok.Text == text {
			return tok.Index
		}
	}
	t.Fatalf("token %q not found", text)
	return -1
}

func TestChangesetComposes(t *testing.T) {
	s := tokenize([]byte("<?php foo();"))
	f := NewFixer(s)
	pos := find(t, s, "foo")

	cs := f.Begin()
	cs.Replace(pos, "bar")
	cs.InsertBefore(pos, "\\")
	cs.InsertAfter(pos, "Baz")
	if err := cs.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if got := f.Contents(); got != "<?php \\barBaz();" {
		t.Errorf("Contents = %q", got)
	}
	if f.Applied() != 1 || !f.Touched(pos) {
		t.Errorf("Applied = %d, Touched = %v", f.Applied(), f.Touched(pos))
	}
	if s.At(pos).Text != "foo" {
		t.Error("tokens must not be mutated by fixes")
	}
}

// два открытых changeset'а правят одну позицию: второй коммит отклоняется целиком
func TestCommitConflict(t *testing.T) {
	s := tokenize([]byte("<?php a(); b();"))
	f := NewFixer(s)
	a, b := find(t, s, "a"), find(t, s, "b")

	first := f.Begin()
	second := f.Begin()
	first.Replace(a, "x")
	second.Replace(b, "y")
	second.Replace(a, "z")

	if err := first.Commit(); err != nil {
		t.Fatalf("first Commit: %v", err)
	}
	err := second.Commit()
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("second Commit error = %v, want ErrConflict", err)
	}
	if got := f.Contents(); got != "<?php x(); b();" {
		t.Errorf("Contents = %q; the second changeset must be fully discarded", got)
	}
	if f.Applied() != 1 {
		t.Errorf("Applied = %d, want 1", f.Applied())
	}
}

func TestSameChangesetMayRetouch(t *testing.T) {
	s := tokenize([]byte("<?php a;"))
	f := NewFixer(s)
	a := find(t, s, "a")
	if err := f.Apply(ReplaceToken(a, "b")); err != nil {
		t.Fatal(err)
	}
	// новая правка той же позиции в этом проходе - конфликт
	if err := f.Apply(ReplaceToken(a, "c")); !errors.Is(err, ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
	if f.Text(a) != "b" {
		t.Errorf("Text = %q", f.Text(a))
	}
}

func TestDiscardAndClosed(t *testing.T) {
	s := tokenize([]byte("<?php a;"))
	f := NewFixer(s)
	cs := f.Begin()
	cs.Replace(find(t, s, "a"), "b")
	cs.Discard()
	if err := cs.Commit(); !errors.Is(err, ErrClosed) {
		t.Errorf("Commit after Discard = %v, want ErrClosed", err)
	}
	if f.Contents() != "<?php a;" || f.Applied() != 0 {
		t.Errorf("discarded changeset changed the file: %q", f.Contents())
	}
}

func TestCommitOutOfRange(t *testing.T) {
	s := tokenize([]byte("<?php a;"))
	f := NewFixer(s)
	cs := f.Begin()
	cs.Replace(1, "ok")
	cs.Replace(999, "x")
	if err := cs.Commit(); err == nil {
		t.Fatal("expected out of range error")
	}
	if f.Contents() != "<?php a;" {
		t.Errorf("failed commit must apply nothing, got %q", f.Contents())
	}
}

func TestRemoveLines(t *testing.T) {
	tests := []struct {
		name       string
		start, end uint32
		want       string
	}{
		{"middle", 2, 3, "<?php\nc;\n"},
		{"single end line", 4, 4, "<?php\na;\nb;\n"},
		{"beyond end", 3, 99, "<?php\na;\n"},
		{"empty range", 9, 9, "<?php\na;\nb;\nc;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFixer(tokenize([]byte("<?php\na;\nb;\nc;\n")))
			if err := f.Apply(DeleteLines(tt.start, tt.end)); err != nil {
				t.Fatal(err)
			}
			if got := f.Contents(); got != tt.want {
				t.Errorf("Contents = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplaceLines(t *testing.T) {
	s := tokenize([]byte("<?php\na;\nb;\nc;\n"))
	f := NewFixer(s)
	anchor, _ := s.FirstOnLine(2)
	if err := f.Apply(ReplaceLines(2, 3, anchor, "x;\n")); err != nil {
		t.Fatal(err)
	}
	if got := f.Contents(); got != "<?php\nx;\nc;\n" {
		t.Errorf("Contents = %q", got)
	}
}

func TestApplyErrorDiscards(t *testing.T) {
	s := tokenize([]byte("<?php a;"))
	f := NewFixer(s)
	boom := errors.New("boom")
	err := f.Apply(Chain(ReplaceToken(find(t, s, "a"), "b"), func(diag.Editor) error { return boom }))
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v", err)
	}
	if f.Contents() != "<?php a;" {
		t.Errorf("Contents = %q", f.Contents())
	}
	if err := f.Apply(nil); !errors.Is(err, ErrNoFixes) {
		t.Errorf("Apply(nil) = %v", err)
	}
}

func renamePass(from, to string) Pass {
	return func(s *token.Stream, f *Fixer) error {
		for _, tok := range s.Tokens() {
			if tok.Text == from {
				// ошибки конфликта тут не ожидаются
				if err := f.Apply(ReplaceToken(tok.Index, to)); err != nil {
					return err
				}
			}
		}
		return nil
	}
}

func TestLoopConverges(t *testing.T) {
	res, err := Loop([]byte("<?php old; old;"), tokenize, renamePass("old", "new"), LoopOptions{Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("Loop: %v", err)
	}
	if string(res.Content) != "<?php new; new;" {
		t.Errorf("Content = %q", res.Content)
	}
	if res.Passes != 2 || res.Applied != 2 || !res.Changed {
		t.Errorf("result = %+v", res)
	}
}

func TestLoopNoChanges(t *testing.T) {
	res, err := Loop([]byte("<?php a;"), tokenize, renamePass("zzz", "y"), LoopOptions{})
	if err != nil || res.Changed || res.Passes != 1 {
		t.Errorf("res = %+v, err = %v", res, err)
	}
}

func TestLoopOscillation(t *testing.T) {
	flip := func(s *token.Stream, f *Fixer) error {
		for _, tok := range s.Tokens() {
			switch tok.Text {
			case "a":
				return f.Apply(ReplaceToken(tok.Index, "b"))
			case "b":
				return f.Apply(ReplaceToken(tok.Index, "a"))
			}
		}
		return nil
	}
	_, err := Loop([]byte("<?php a;"), tokenize, flip, LoopOptions{})
	if !errors.Is(err, ErrOscillation) {
		t.Fatalf("error = %v, want ErrOscillation", err)
	}
}

func TestLoopPassLimit(t *testing.T) {
	grow := func(s *token.Stream, f *Fixer) error {
		return f.Apply(InsertAfter(s.Len()-1, "x"))
	}
	res, err := Loop([]byte("<?php a;"), tokenize, grow, LoopOptions{MaxPasses: 3})
	if !errors.Is(err, ErrPassLimit) {
		t.Fatalf("error = %v, want ErrPassLimit", err)
	}
	if res.Passes != 3 || !strings.HasSuffix(string(res.Content), "xxx") {
		t.Errorf("res = %d passes, %q", res.Passes, res.Content)
	}
}

func TestWriteFileKeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.php")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, []byte("new")); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v", info.Mode())
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("content = %q", data)
	}
}
