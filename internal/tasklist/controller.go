// Package tasklist owns the ordered rows of the todo list, keeps the done and
// total counters current, and routes view events to list operations.
//
// Rows carry no identifiers. A row is identified by its pointer while the
// session lasts and by its position in the persisted snapshot.
package tasklist

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

// Row is the view element of one task.
type Row struct {
	Title string
	Done  bool
}

// Display receives the two counter slots.
type Display interface {
	SetDoneCount(n int)
	SetTotalCount(n int)
}

// Counts is the last value written to the Display.
type Counts struct {
	Done  int
	Total int
}

// Option configures a Controller.
type Option func(*Controller)

// WithSlot sets the storage key the snapshot is read from and written to.
func WithSlot(slot string) Option {
	return func(c *Controller) {
		if slot != "" {
			c.slot = slot
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithoutSeed leaves the list empty when nothing was stored yet, instead of
// starting with one empty task.
func WithoutSeed() Option {
	return func(c *Controller) { c.noSeed = true }
}

// Controller is the task list. It is not safe for concurrent use; the view's
// event loop is expected to be its only caller.
type Controller struct {
	rows    []*Row
	focused *Row
	counts  Counts

	backend store.Backend
	display Display
	slot    string
	noSeed  bool
	log     *log.Logger
}

// New builds an empty controller. Call Start to load the persisted list.
// display may be nil when nothing shows the counters.
func New(backend store.Backend, display Display, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		display: display,
		slot:    store.DefaultSlot,
		log:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start loads the snapshot and adds one row per stored task. An absent slot
// seeds a single empty task.
func (c *Controller) Start() error {
	tasks, ok, err := store.LoadTasks(c.backend, c.slot)
	if err != nil {
		return err
	}
	if !ok {
		if !c.noSeed {
			c.log.Debug("no snapshot, seeding empty task", "slot", c.slot)
			c.AddItem()
		}
		return nil
	}
	for _, t := range tasks {
		c.AddItem(t)
	}
	c.log.Info("loaded tasks", "slot", c.slot, "count", len(tasks))
	return nil
}

// Unload writes the whole list to storage. There is no retry.
func (c *Controller) Unload() error {
	data := c.Data()
	if err := store.SaveTasks(c.backend, c.slot, data); err != nil {
		c.log.Error("save tasks", "slot", c.slot, "err", err)
		return err
	}
	c.log.Info("saved tasks", "slot", c.slot, "count", len(data))
	return nil
}

// AddItem appends a row bound to task (an empty, not done task when none is
// given), refreshes the counters and focuses the new row.
func (c *Controller) AddItem(task ...model.Task) *Row {
	var t model.Task
	if len(task) > 0 {
		t = task[0]
	}
	row := &Row{Title: t.Title, Done: t.Done}
	c.rows = append(c.rows, row)
	c.updateCounts()
	c.FocusTask(row)
	return row
}

// ClearCompleted removes every done row in list order. Focus moves the way a
// delete click would move it; counters are refreshed once at the end.
func (c *Controller) ClearCompleted() {
	var completed []*Row
	for _, row := range c.rows {
		if row.Done {
			completed = append(completed, row)
		}
	}
	if len(completed) == 0 {
		return
	}
	for _, row := range completed {
		c.FocusTask(c.remove(row))
	}
	c.updateCounts()
	c.log.Debug("cleared completed", "removed", len(completed))
}

// FocusTask moves input focus to row's title field. nil, or a row that is
// not part of the list, leaves focus alone.
func (c *Controller) FocusTask(row *Row) {
	if row == nil || c.Index(row) < 0 {
		return
	}
	c.focused = row
}

// Data is the ordered list of tasks as currently shown.
func (c *Controller) Data() []model.Task {
	out := make([]model.Task, 0, len(c.rows))
	for _, row := range c.rows {
		out = append(out, model.Task{Title: row.Title, Done: row.Done})
	}
	return out
}

// Toggle flips row's done checkbox and fires the change event for it.
func (c *Controller) Toggle(row *Row) {
	if c.Index(row) < 0 {
		return
	}
	row.Done = !row.Done
	c.Dispatch(Event{Type: Change, Target: Target{Row: row, Role: RoleDone}})
}

// Rows returns the live rows. Callers may edit Title; structural changes go
// through the controller.
func (c *Controller) Rows() []*Row { return c.rows }

// Row returns the row at i, or nil when i is out of range.
func (c *Controller) Row(i int) *Row {
	if i < 0 || i >= len(c.rows) {
		return nil
	}
	return c.rows[i]
}

func (c *Controller) Len() int { return len(c.rows) }

// Focused is the row whose title field has focus, or nil.
func (c *Controller) Focused() *Row { return c.focused }

func (c *Controller) Counts() Counts { return c.counts }

// Index is the position of row, or -1.
func (c *Controller) Index(row *Row) int {
	for i, r := range c.rows {
		if r == row {
			return i
		}
	}
	return -1
}

// remove detaches row and returns the row focus should move to: the previous
// sibling, else the next one, else nil.
func (c *Controller) remove(row *Row) *Row {
	i := c.Index(row)
	if i < 0 {
		return nil
	}
	var next *Row
	switch {
	case i > 0:
		next = c.rows[i-1]
	case i+1 < len(c.rows):
		next = c.rows[i+1]
	}
	c.rows = append(c.rows[:i], c.rows[i+1:]...)
	if c.focused == row {
		c.focused = nil
	}
	return next
}

func (c *Controller) updateCounts() {
	done := 0
	for _, row := range c.rows {
		if row.Done {
			done++
		}
	}
	c.counts = Counts{Done: done, Total: len(c.rows)}
	if c.display != nil {
		c.display.SetDoneCount(c.counts.Done)
		c.display.SetTotalCount(c.counts.Total)
	}
}
