package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"docsniff/internal/driver"
)

// visibleItems bounds the file list; big trees only show the latest activity.
const visibleItems = 12

// Event is one update of a file in the run: a phase started, or the file finished.
type Event struct {
	Path        string
	Phase       string
	Finished    bool
	Diagnostics int
	Changed     bool
	Err         error
}

// FromPhase converts a driver phase boundary; only starts move the status forward.
func FromPhase(ev driver.PhaseEvent) (Event, bool) {
	if ev.Status != driver.PhaseStart {
		return Event{}, false
	}
	return Event{Path: ev.Path, Phase: ev.Name}, true
}

// FromProgress converts the per-file completion callback.
func FromProgress(p driver.Progress) Event {
	return Event{Path: p.Path, Finished: true, Diagnostics: p.Diagnostics, Changed: p.Changed, Err: p.Err}
}

type progressModel struct {
	title    string
	base     string
	events   <-chan Event
	spinner  spinner.Model
	prog     progress.Model
	items    []fileItem
	index    map[string]int
	recent   []int
	finished int
	issues   int
	width    int
	done     bool
}

type fileItem struct {
	path   string
	status string
	phase  string
}

type eventMsg Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders check progress.
// The model quits when events is closed.
func NewProgressModel(title, base string, files []string, events <-chan Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file, status: "queued"})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		base:    base,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s %d/%d", m.title, m.finished, len(m.items))
	if m.issues > 0 {
		header = fmt.Sprintf("%s, %d with issues", header, m.issues)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, idx := range m.recent {
		item := m.items[idx]
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyled, truncate(m.display(item.path), nameWidth)))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) display(path string) string {
	if m.base == "" {
		return path
	}
	if rel, err := filepath.Rel(m.base, path); err == nil {
		return rel
	}
	return path
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev Event) tea.Cmd {
	idx, ok := m.index[ev.Path]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if item.status == "queued" || ev.Finished {
		m.touch(idx)
	}
	if ev.Finished {
		if !isFinal(item.status) {
			m.finished++
		}
		item.status = finalLabel(ev)
		if ev.Err != nil || ev.Diagnostics > 0 {
			m.issues++
		}
	} else if !isFinal(item.status) {
		item.phase = ev.Phase
		item.status = phaseLabel(ev.Phase)
	}
	return m.prog.SetPercent(m.percent())
}

// touch moves idx to the end of the visible window.
func (m *progressModel) touch(idx int) {
	for i, v := range m.recent {
		if v == idx {
			m.recent = append(m.recent[:i], m.recent[i+1:]...)
			break
		}
	}
	m.recent = append(m.recent, idx)
	if len(m.recent) > visibleItems {
		m.recent = m.recent[len(m.recent)-visibleItems:]
	}
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		if isFinal(item.status) {
			total += 1.0
		} else {
			total += progressFromPhase(item.phase)
		}
	}
	return total / float64(len(m.items))
}

func progressFromPhase(phase string) float64 {
	switch phase {
	case "cache":
		return 0.1
	case "fix":
		return 0.3
	case "lex":
		return 0.6
	case "sniff":
		return 0.8
	default:
		return 0.0
	}
}

func phaseLabel(phase string) string {
	switch phase {
	case "cache":
		return "cache"
	case "fix":
		return "fixing"
	case "lex":
		return "lexing"
	case "sniff":
		return "sniffing"
	default:
		return "working"
	}
}

func finalLabel(ev Event) string {
	switch {
	case ev.Err != nil:
		return "error"
	case ev.Changed:
		return "fixed"
	case ev.Diagnostics > 0:
		return fmt.Sprintf("%d issues", ev.Diagnostics)
	default:
		return "clean"
	}
}

func isFinal(status string) bool {
	return status == "error" || status == "fixed" || status == "clean" || strings.HasSuffix(status, " issues")
}

func styleStatus(status string) lipgloss.Style {
	switch {
	case status == "clean" || status == "fixed":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case status == "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case strings.HasSuffix(status, " issues"):
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case status == "queued":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
