// Package teaui is the live terminal dashboard: a week strip of the
// calendar, the to-do sections, and the notes list, refreshed from store
// subscriptions as records change.
package teaui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/planner/pkg/app"
	"tableflip.dev/planner/pkg/draft"
	"tableflip.dev/planner/pkg/record"
	"tableflip.dev/planner/pkg/store"
	"tableflip.dev/planner/pkg/viewmodel"
)

type pane int

const (
	paneCalendar pane = iota
	paneTasks
	paneNotes
)

type eventsMsg []record.Event
type tasksMsg []record.Task
type notesMsg []record.Note
type errMsg struct{ err error }

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	activeTab   = lipgloss.NewStyle().Bold(true).Underline(true)
	inactiveTab = lipgloss.NewStyle().Faint(true)
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	todayStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true).Italic(true)
)

// Model is the dashboard state. All mutation happens on the Bubble Tea
// update loop; the subscription goroutines only feed channels.
type Model struct {
	svc *app.Service
	ctx context.Context

	events []record.Event
	tasks  []record.Task
	notes  []record.Note

	eventCh <-chan []record.Event
	taskCh  <-chan []record.Task
	noteCh  <-chan []record.Note
	cancels []store.CancelFunc

	pane      pane
	loading   bool
	spin      spinner.Model
	input     textinput.Model
	typing    bool
	taskDraft *draft.Slot
	cursor    int
	status    string

	width  int
	height int
}

func New(svc *app.Service) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "new task"
	ti.CharLimit = 256
	ti.Prompt = "> "

	return Model{
		svc:       svc,
		ctx:       context.Background(),
		pane:      paneCalendar,
		loading:   true,
		spin:      sp,
		input:     ti,
		taskDraft: draft.NewSlot(),
		status:    "tab switch pane, j/k move, a add task, x toggle, d delete, q quit",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, subscribe(m.svc, m.ctx))
}

type subscribedMsg struct {
	events  <-chan []record.Event
	tasks   <-chan []record.Task
	notes   <-chan []record.Note
	errs    []<-chan error
	cancels []store.CancelFunc
}

func subscribe(svc *app.Service, ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		ev, evErrs, cancelEv, err := svc.WatchEvents(ctx)
		if err != nil {
			return errMsg{err}
		}
		ta, taErrs, cancelTa, err := svc.WatchTasks(ctx)
		if err != nil {
			cancelEv()
			return errMsg{err}
		}
		no, noErrs, cancelNo, err := svc.WatchNotes(ctx)
		if err != nil {
			cancelEv()
			cancelTa()
			return errMsg{err}
		}
		return subscribedMsg{
			events:  ev,
			tasks:   ta,
			notes:   no,
			errs:    []<-chan error{evErrs, taErrs, noErrs},
			cancels: []store.CancelFunc{cancelEv, cancelTa, cancelNo},
		}
	}
}

func waitEvents(ch <-chan []record.Event) tea.Cmd {
	return func() tea.Msg {
		if all, ok := <-ch; ok {
			return eventsMsg(all)
		}
		return nil
	}
}

func waitTasks(ch <-chan []record.Task) tea.Cmd {
	return func() tea.Msg {
		if all, ok := <-ch; ok {
			return tasksMsg(all)
		}
		return nil
	}
}

func waitNotes(ch <-chan []record.Note) tea.Cmd {
	return func() tea.Msg {
		if all, ok := <-ch; ok {
			return notesMsg(all)
		}
		return nil
	}
}

// refreshErrMsg reports a failed snapshot refresh. The channel rides along
// so the wait can be re-armed for the next failure.
type refreshErrMsg struct {
	err error
	ch  <-chan error
}

func waitRefreshErr(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		if err, ok := <-ch; ok {
			return refreshErrMsg{err: err, ch: ch}
		}
		return nil
	}
}

// submitTask pushes the task draft through its slot: at most one write in
// flight, a failure keeps the draft for retry. The visible list catches up
// through the next subscription snapshot, not by a local insert.
func submitTask(slot *draft.Slot, svc *app.Service, ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		err := slot.Submit(ctx, func(v any) error {
			text, ok := v.(string)
			if !ok || strings.TrimSpace(text) == "" {
				return errors.New("task text is empty")
			}
			return nil
		}, func(ctx context.Context, v any) error {
			_, err := svc.AddTask(ctx, v.(string), record.TaskImportant)
			return err
		})
		if err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case subscribedMsg:
		m.eventCh = msg.events
		m.taskCh = msg.tasks
		m.noteCh = msg.notes
		m.cancels = msg.cancels
		cmds := []tea.Cmd{waitEvents(m.eventCh), waitTasks(m.taskCh), waitNotes(m.noteCh)}
		for _, ch := range msg.errs {
			cmds = append(cmds, waitRefreshErr(ch))
		}
		return m, tea.Batch(cmds...)

	case eventsMsg:
		m.events = msg
		m.loading = false
		return m, waitEvents(m.eventCh)

	case tasksMsg:
		m.tasks = msg
		m.clampCursor()
		return m, waitTasks(m.taskCh)

	case notesMsg:
		m.notes = msg
		m.clampCursor()
		return m, waitNotes(m.noteCh)

	case errMsg:
		m.status = msg.err.Error()
		m.loading = false
		return m, nil

	case refreshErrMsg:
		m.status = "refresh failed: " + msg.err.Error()
		m.loading = false
		return m, waitRefreshErr(msg.ch)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.typing {
		switch msg.Type {
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				m.typing = false
				m.input.Reset()
				m.input.Blur()
				return m, nil
			}
			if err := m.taskDraft.Set(text); err != nil {
				// One write in flight per slot; the entry stays put so
				// nothing typed is lost.
				m.status = "still saving the previous task"
				return m, nil
			}
			m.typing = false
			m.input.Reset()
			m.input.Blur()
			return m, submitTask(m.taskDraft, m.svc, m.ctx)
		case tea.KeyEsc:
			m.typing = false
			m.input.Reset()
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		for _, cancel := range m.cancels {
			cancel()
		}
		return m, tea.Quit
	case "tab", "l":
		m.pane = (m.pane + 1) % 3
		m.cursor = 0
		return m, nil
	case "shift+tab", "h":
		m.pane = (m.pane + 2) % 3
		m.cursor = 0
		return m, nil
	case "j", "down":
		m.cursor++
		m.clampCursor()
		return m, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "a":
		if m.pane == paneTasks {
			m.typing = true
			if v, ok := m.taskDraft.Value(); ok {
				// A failed submit keeps its draft; offer it back for retry.
				if text, isString := v.(string); isString {
					m.input.SetValue(text)
				}
			}
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, nil
	case "x", "enter":
		if m.pane != paneTasks {
			return m, nil
		}
		if t, ok := m.selectedTask(); ok {
			svc := m.svc
			ctx := m.ctx
			return m, func() tea.Msg {
				if _, err := svc.ToggleTask(ctx, t.ID); err != nil {
					return errMsg{err}
				}
				return nil
			}
		}
		return m, nil
	case "d":
		return m.deleteSelected()
	}
	return m, nil
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	svc := m.svc
	ctx := m.ctx
	switch m.pane {
	case paneTasks:
		if t, ok := m.selectedTask(); ok {
			return m, func() tea.Msg {
				if err := svc.DeleteTask(ctx, t.ID); err != nil {
					return errMsg{err}
				}
				return nil
			}
		}
	case paneNotes:
		if m.cursor < len(m.notes) {
			id := m.notes[m.cursor].ID
			return m, func() tea.Msg {
				if err := svc.DeleteNote(ctx, id); err != nil {
					return errMsg{err}
				}
				return nil
			}
		}
	}
	return m, nil
}

// orderedTasks flattens the sections the way the tasks pane renders them,
// so the cursor and the display agree.
func (m Model) orderedTasks() []record.Task {
	flat := make([]record.Task, 0, len(m.tasks))
	for _, sec := range viewmodel.GroupByCategory(m.tasks) {
		flat = append(flat, sec.Tasks...)
	}
	return flat
}

func (m Model) selectedTask() (record.Task, bool) {
	flat := m.orderedTasks()
	if m.cursor < len(flat) {
		return flat[m.cursor], true
	}
	return record.Task{}, false
}

func (m *Model) clampCursor() {
	max := 0
	switch m.pane {
	case paneTasks:
		max = len(m.tasks) - 1
	case paneNotes:
		max = len(m.notes) - 1
	}
	if max < 0 {
		max = 0
	}
	if m.cursor > max {
		m.cursor = max
	}
}

func (m Model) View() string {
	var b strings.Builder

	tabs := []string{"Calendar", "Tasks", "Notes"}
	rendered := make([]string, len(tabs))
	for i, name := range tabs {
		if pane(i) == m.pane {
			rendered[i] = activeTab.Render(name)
		} else {
			rendered[i] = inactiveTab.Render(name)
		}
	}
	b.WriteString(strings.Join(rendered, "  "))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spin.View() + " loading\n")
		return b.String()
	}

	switch m.pane {
	case paneCalendar:
		b.WriteString(m.viewCalendar())
	case paneTasks:
		b.WriteString(m.viewTasks())
	case paneNotes:
		b.WriteString(m.viewNotes())
	}

	b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	return b.String()
}

func (m Model) viewCalendar() string {
	var b strings.Builder
	now := time.Now()
	buckets := viewmodel.GroupByLocalDay(m.events)
	today := viewmodel.KeyFor(now)

	b.WriteString(titleStyle.Render(viewmodel.MonthLabel(m.events, now)))
	b.WriteString("\n\n")

	for _, day := range viewmodel.WeekWindow(now, buckets) {
		label := day.Date.Format("Mon 2")
		if day.Key == today {
			b.WriteString(todayStyle.Render(label))
		} else {
			b.WriteString(label)
		}
		b.WriteString("\n")
		if len(day.Events) == 0 {
			b.WriteString(faintStyle.Render("  none") + "\n")
			continue
		}
		for i, e := range day.Events {
			pill := lipgloss.NewStyle().Foreground(viewmodel.ColorForCategory(e.Category, i))
			when := "all day"
			if !e.AllDay {
				when = e.StartDate.Local().Format("15:04")
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", faintStyle.Render(when), pill.Render(e.Title)))
		}
	}
	return b.String()
}

func (m Model) viewTasks() string {
	var b strings.Builder
	i := 0
	for _, sec := range viewmodel.GroupByCategory(m.tasks) {
		if len(sec.Tasks) == 0 {
			continue
		}
		b.WriteString(titleStyle.Render(record.DisplayTaskCategory(sec.Category)) + "\n")
		for _, t := range sec.Tasks {
			cursor := "  "
			if i == m.cursor {
				cursor = "> "
			}
			line := "[ ] " + t.Text
			if t.Completed {
				line = doneStyle.Render("[x] " + t.Text)
			}
			b.WriteString(cursor + line + "\n")
			i++
		}
		b.WriteString("\n")
	}
	if i == 0 {
		b.WriteString(faintStyle.Render("no tasks") + "\n")
	}
	if m.typing {
		b.WriteString(m.input.View() + "\n")
	}
	return b.String()
}

func (m Model) viewNotes() string {
	var b strings.Builder
	if len(m.notes) == 0 {
		b.WriteString(faintStyle.Render("no notes") + "\n")
		return b.String()
	}
	for i, n := range m.notes {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		title := n.Title
		if n.Voice() {
			title = "(voice) " + n.FileName
		}
		b.WriteString(cursor + titleStyle.Render(title) + "  " +
			faintStyle.Render(n.CreatedAt.Local().Format("Jan 2 15:04")) + "\n")
		if n.Text != "" {
			b.WriteString("    " + n.Text + "\n")
		}
	}
	return b.String()
}

// Run launches the dashboard and blocks until the user quits.
func Run(svc *app.Service) error {
	p := tea.NewProgram(New(svc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
