package observ

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeClock advances by step on every call.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimerWithClock(fakeClock(time.Millisecond))
	lex := tm.Begin("lex")
	tm.End(lex, "12 tokens")
	done := tm.Track("sniff")
	done("")
	tm.End(99, "ignored")

	want := Report{
		TotalMS: 2,
		Phases: []PhaseReport{
			{Name: "lex", DurationMS: 1, Note: "12 tokens"},
			{Name: "sniff", DurationMS: 1},
		},
	}
	if diff := cmp.Diff(want, tm.Report()); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
	sum := tm.Report().Summary()
	if !strings.Contains(sum, "// 12 tokens") || !strings.Contains(sum, "total") {
		t.Errorf("summary = %q", sum)
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Errorf("empty report = %+v", r)
	}
}

func TestAggregate(t *testing.T) {
	agg := NewAggregate()
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.Add(Report{TotalMS: 3, Phases: []PhaseReport{{Name: "lex", DurationMS: 1}, {Name: "sniff", DurationMS: 2}}})
		}()
	}
	wg.Wait()

	r := agg.Report()
	if agg.Files() != 4 || r.TotalMS != 12 {
		t.Fatalf("files=%d total=%v", agg.Files(), r.TotalMS)
	}
	want := []PhaseReport{
		{Name: "sniff", DurationMS: 8, Note: "4 files"},
		{Name: "lex", DurationMS: 4, Note: "4 files"},
	}
	if diff := cmp.Diff(want, r.Phases); diff != "" {
		t.Errorf("phases (-want +got):\n%s", diff)
	}
}
