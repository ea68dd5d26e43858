package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"docsniff/internal/driver"
)

func feed(t *testing.T, m tea.Model, evs ...Event) *progressModel {
	t.Helper()
	for _, ev := range evs {
		m, _ = m.Update(eventMsg(ev))
	}
	return m.(*progressModel)
}

func TestProgressStatuses(t *testing.T) {
	files := []string{"/p/a.php", "/p/b.php", "/p/c.php", "/p/d.php"}
	m := feed(t, NewProgressModel("checking", "/p", files, nil),
		Event{Path: "/p/a.php", Phase: "lex"},
		Event{Path: "/p/a.php", Finished: true},
		Event{Path: "/p/b.php", Finished: true, Diagnostics: 3},
		Event{Path: "/p/c.php", Finished: true, Changed: true},
		Event{Path: "/p/d.php", Phase: "sniff"},
		Event{Path: "/p/unknown.php", Finished: true},
	)

	want := []string{"clean", "3 issues", "fixed", "sniffing"}
	for i, w := range want {
		if got := m.items[i].status; got != w {
			t.Errorf("item %d status = %q, want %q", i, got, w)
		}
	}
	if m.finished != 3 || m.issues != 1 {
		t.Errorf("finished=%d issues=%d", m.finished, m.issues)
	}
	if p := m.percent(); p != (3+0.8)/4 {
		t.Errorf("percent = %v", p)
	}

	view := m.View()
	for _, s := range []string{"checking 3/4, 1 with issues", "a.php", "3 issues"} {
		if !strings.Contains(view, s) {
			t.Errorf("view lacks %q:\n%s", s, view)
		}
	}
}

func TestProgressPhaseAfterFinishIgnored(t *testing.T) {
	m := feed(t, NewProgressModel("t", "", []string{"a"}, nil),
		Event{Path: "a", Finished: true, Err: errors.New("boom")},
		Event{Path: "a", Phase: "lex"},
	)
	if m.items[0].status != "error" || m.finished != 1 {
		t.Errorf("status = %q finished = %d", m.items[0].status, m.finished)
	}
}

func TestProgressWindow(t *testing.T) {
	var files []string
	for i := range visibleItems + 5 {
		files = append(files, string(rune('a'+i)))
	}
	var evs []Event
	for _, f := range files {
		evs = append(evs, Event{Path: f, Finished: true})
	}
	m := feed(t, NewProgressModel("t", "", files, nil), evs...)
	if len(m.recent) != visibleItems || m.recent[0] != 5 {
		t.Errorf("recent = %v", m.recent)
	}
}

func TestProgressQuitsOnClose(t *testing.T) {
	ch := make(chan Event)
	close(ch)
	m := NewProgressModel("t", "", []string{"a"}, ch).(*progressModel)
	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("msg = %T, want doneMsg", msg)
	}
	next, cmd := m.Update(msg)
	if !next.(*progressModel).done || cmd == nil {
		t.Error("model must finish and quit")
	}
	if !strings.Contains(next.View(), "done: t") {
		t.Errorf("view = %q", next.View())
	}
}

func TestConverters(t *testing.T) {
	if _, ok := FromPhase(driver.PhaseEvent{Path: "a", Name: "lex", Status: driver.PhaseEnd}); ok {
		t.Error("phase end must be dropped")
	}
	ev, ok := FromPhase(driver.PhaseEvent{Path: "a", Name: "lex", Status: driver.PhaseStart})
	if !ok || ev.Phase != "lex" || ev.Finished {
		t.Errorf("FromPhase = %+v", ev)
	}
	ev = FromProgress(driver.Progress{Path: "a", Diagnostics: 2, Changed: true})
	if !ev.Finished || ev.Diagnostics != 2 || !ev.Changed {
		t.Errorf("FromProgress = %+v", ev)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefgh", 6); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 6); got != "abc" {
		t.Errorf("truncate short = %q", got)
	}
	// ширина считается в ячейках вместе с "..."
	if got := truncate("日本語テキスト", 7); got != "日本..." {
		t.Errorf("truncate wide = %q", got)
	}
	if got := truncate("abcdefgh", 2); got != "ab" {
		t.Errorf("truncate narrow = %q", got)
	}
}
