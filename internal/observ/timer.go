package observ

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Phase is one measured step of checking a file: cache lookup, fix loop, lexing, sniffing.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer measures the phases of a single file. It is not safe for concurrent use;
// each worker owns its own timer and merges the Report into an Aggregate.
type Timer struct {
	now    func() time.Time
	phases []Phase
}

// NewTimer creates an empty Timer on the wall clock.
func NewTimer() *Timer { return NewTimerWithClock(time.Now) }

// NewTimerWithClock is NewTimer with an injectable clock for tests.
func NewTimerWithClock(now func() time.Time) *Timer {
	return &Timer{now: now, phases: make([]Phase, 0, 4)}
}

// Begin starts a phase and returns its index for End.
func (t *Timer) Begin(name string) int {
	t.phases = append(t.phases, Phase{Name: name, Start: t.now()})
	return len(t.phases) - 1
}

// End finishes the phase idx. Unknown indexes are ignored.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = t.now().Sub(p.Start)
	p.Note = note
}

// Track is Begin with a deferred End: `defer t.Track("lex")("")`.
func (t *Timer) Track(name string) func(note string) {
	idx := t.Begin(name)
	return func(note string) { t.End(idx, note) }
}

// PhaseReport is the serialisable form of a phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report holds the phases of one file and their sum.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report снимает текущие фазы. Незавершённые фазы дают 0 ms.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(t.phases))}
	var total time.Duration
	for i, p := range t.phases {
		total += p.Dur
		report.Phases[i] = PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note}
	}
	report.TotalMS = millis(total)
	return report
}

// Summary renders the report as an aligned table.
func (r Report) Summary() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "  %-12s %8.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			b.WriteString("  // " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-12s %8.2f ms\n", "total", r.TotalMS)
	return b.String()
}

// Aggregate sums per-phase durations over many files. Safe for concurrent use.
type Aggregate struct {
	mu     sync.Mutex
	files  int
	totals map[string]float64
	counts map[string]int
}

func NewAggregate() *Aggregate {
	return &Aggregate{totals: make(map[string]float64), counts: make(map[string]int)}
}

// Add merges one file report.
func (a *Aggregate) Add(r Report) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files++
	for _, p := range r.Phases {
		a.totals[p.Name] += p.DurationMS
		a.counts[p.Name]++
	}
}

// Report returns phases sorted by total time, slowest first; Note carries the file count.
func (a *Aggregate) Report() Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := Report{Phases: make([]PhaseReport, 0, len(a.totals))}
	for name, ms := range a.totals {
		out.TotalMS += ms
		out.Phases = append(out.Phases, PhaseReport{
			Name:       name,
			DurationMS: ms,
			Note:       fmt.Sprintf("%d files", a.counts[name]),
		})
	}
	sort.Slice(out.Phases, func(i, j int) bool {
		if out.Phases[i].DurationMS != out.Phases[j].DurationMS {
			return out.Phases[i].DurationMS > out.Phases[j].DurationMS
		}
		return out.Phases[i].Name < out.Phases[j].Name
	})
	return out
}

// Files returns the number of merged reports.
func (a *Aggregate) Files() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.files
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
