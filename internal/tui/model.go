// Package tui is the interactive terminal view of the task list.
package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/tasklist"
)

// Options configures the view.
type Options struct {
	Slot         string
	RepeatWindow time.Duration
	Logger       *log.Logger
}

// Model draws the rows and the counters, turns keys into list events and
// unloads the list when the program quits.
type Model struct {
	tasks *tasklist.Controller
	input textinput.Model
	keys  keyMap
	help  help.Model

	repeat repeatGuard
	now    func() time.Time
	log    *log.Logger

	// counter slots written by the controller
	done, total int

	bound    *tasklist.Row
	width    int
	height   int
	unloaded bool
	saveErr  error
}

// New builds the view and its controller. Call Start before running it.
func New(backend store.Backend, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Model{
		keys:   defaultKeyMap(),
		help:   help.New(),
		repeat: repeatGuard{window: opts.RepeatWindow},
		now:    time.Now,
		log:    logger,
		width:  80,
		height: 24,
	}
	m.input = textinput.New()
	m.input.Prompt = ""
	m.input.Placeholder = "What needs to be done?"
	m.input.CharLimit = 0
	m.input.Width = m.width - 12

	m.tasks = tasklist.New(backend, m,
		tasklist.WithSlot(opts.Slot),
		tasklist.WithLogger(logger),
	)
	return m
}

// Run loads the list, runs the program and unloads the list on exit.
func Run(backend store.Backend, opts Options) error {
	m := New(backend, opts)
	if err := m.Start(); err != nil {
		return err
	}

	_, runErr := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if !m.unloaded {
		m.unload()
	}
	if runErr != nil {
		return runErr
	}
	return m.saveErr
}

// Start loads the persisted list into the controller.
func (m *Model) Start() error {
	if err := m.tasks.Start(); err != nil {
		return err
	}
	m.syncInput()
	return nil
}

// Tasks exposes the controller behind the view.
func (m *Model) Tasks() *tasklist.Controller { return m.tasks }

func (m *Model) SetDoneCount(n int)  { m.done = n }
func (m *Model) SetTotalCount(n int) { m.total = n }

func (m *Model) Init() tea.Cmd { return textinput.Blink }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-12, 10)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	repeat := m.repeat.observe(msg.String(), m.now())
	row := m.tasks.Focused()
	title := tasklist.Target{Row: row, Role: tasklist.RoleTitle}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.unload()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.tasks.Dispatch(tasklist.Event{Type: tasklist.KeyDown, Key: tasklist.KeyArrowUp, Repeat: repeat, Target: title})
		return m, m.syncInput()

	case key.Matches(msg, m.keys.Down):
		m.tasks.Dispatch(tasklist.Event{Type: tasklist.KeyDown, Key: tasklist.KeyArrowDown, Repeat: repeat, Target: title})
		return m, m.syncInput()

	case key.Matches(msg, m.keys.Enter):
		if row == nil {
			// no title field to type into; behave like the add control
			if !repeat {
				m.tasks.AddItem()
			}
			return m, m.syncInput()
		}
		m.tasks.Dispatch(tasklist.Event{Type: tasklist.KeyDown, Key: tasklist.KeyEnter, Repeat: repeat, Target: title})
		return m, m.syncInput()

	case key.Matches(msg, m.keys.Add):
		m.tasks.AddItem()
		return m, m.syncInput()

	case key.Matches(msg, m.keys.Toggle):
		if row != nil {
			m.tasks.Toggle(row)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		m.tasks.Dispatch(tasklist.Event{Type: tasklist.Click, Target: tasklist.Target{Row: row, Role: tasklist.RoleDelete}})
		return m, m.syncInput()

	case key.Matches(msg, m.keys.Clear):
		m.tasks.ClearCompleted()
		return m, m.syncInput()

	case key.Matches(msg, m.keys.Erase):
		ev := tasklist.Event{Type: tasklist.KeyDown, Key: tasklist.KeyBackspace, Repeat: repeat, Target: title}
		if m.tasks.Dispatch(ev) {
			return m, m.syncInput()
		}
	}

	if row == nil {
		return m, nil
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	row.Title = spliceEdit(row.Title, before, m.input.Value())
	return m, cmd
}

// syncInput rebinds the text field to the focused row after focus moved.
func (m *Model) syncInput() tea.Cmd {
	focused := m.tasks.Focused()
	if focused == m.bound {
		return nil
	}
	m.bound = focused
	if focused == nil {
		m.input.Blur()
		m.input.SetValue("")
		return nil
	}
	m.input.SetValue(displayTitle(focused.Title))
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) unload() {
	m.unloaded = true
	if err := m.tasks.Unload(); err != nil {
		// nothing to recover once the view is gone
		m.saveErr = err
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(header(m.done, m.total))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s %d/%d", progressBar(m.done, m.total, 28), m.done, m.total)))
	b.WriteString("\n\n")

	rows := m.tasks.Rows()
	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("no tasks, press enter to add one"))
		b.WriteString("\n")
	}
	focused := m.tasks.Focused()
	for _, row := range rows {
		b.WriteString(m.renderRow(row, row == focused))
		b.WriteString("\n")
	}

	if m.saveErr != nil {
		b.WriteString("\n" + errorStyle.Render("save failed: "+m.saveErr.Error()) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return panelStyle.Render(b.String())
}

func (m *Model) renderRow(row *tasklist.Row, focused bool) string {
	box := mutedStyle.Render(boxUnchecked)
	if row.Done {
		box = successStyle.Render(boxChecked)
	}

	prefix := "  "
	text := displayTitle(row.Title)
	switch {
	case focused:
		prefix = selectedStyle.Render(">") + " "
		text = m.input.View()
	case row.Done:
		text = doneStyle.Render(text)
	case text == "":
		text = mutedStyle.Render("(empty)")
	}
	return fmt.Sprintf("%s%s %s  %s", prefix, box, text, deleteStyle.Render(deleteGlyph))
}
