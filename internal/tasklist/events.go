package tasklist

// EventType is the kind of view event.
type EventType int

const (
	KeyDown EventType = iota
	Change
	Click
)

func (t EventType) String() string {
	switch t {
	case KeyDown:
		return "keydown"
	case Change:
		return "change"
	case Click:
		return "click"
	}
	return "unknown"
}

// Role is what part of a row an event originated from.
type Role int

const (
	RoleNone Role = iota
	RoleTitle
	RoleDone
	RoleDelete
)

// Key names, matching what a keyboard reports.
const (
	KeyArrowUp   = "ArrowUp"
	KeyArrowDown = "ArrowDown"
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
)

// Target is the originating element of an event.
type Target struct {
	Row  *Row
	Role Role
}

// Event is a view event delivered to the list container.
type Event struct {
	Type   EventType
	Key    string
	Repeat bool
	Target Target
}

// Dispatch routes ev by its target's role. It reports whether the view
// should skip its default handling of the event.
func (c *Controller) Dispatch(ev Event) (preventDefault bool) {
	row := ev.Target.Row
	if row == nil || c.Index(row) < 0 {
		return false
	}

	switch ev.Type {
	case KeyDown:
		if ev.Target.Role != RoleTitle {
			return false
		}
		return c.keyDown(ev, row)
	case Change:
		if ev.Target.Role == RoleDone {
			c.updateCounts()
		}
	case Click:
		if ev.Target.Role == RoleDelete {
			c.deleteRow(row)
		}
	}
	return false
}

func (c *Controller) keyDown(ev Event, row *Row) bool {
	i := c.Index(row)

	switch ev.Key {
	case KeyArrowUp:
		c.FocusTask(c.Row(i - 1))
	case KeyArrowDown:
		c.FocusTask(c.Row(i + 1))
	}

	switch {
	case ev.Key == KeyEnter && !ev.Repeat:
		c.AddItem()
	case ev.Key == KeyBackspace && row.Title == "" && !ev.Repeat:
		previous := c.Row(i - 1)
		c.Dispatch(Event{Type: Click, Target: Target{Row: row, Role: RoleDelete}})
		if previous == nil {
			previous = c.Row(0)
		}
		c.FocusTask(previous)
		return true
	}
	return false
}

// deleteRow is the delete control's click behavior.
func (c *Controller) deleteRow(row *Row) {
	focus := c.remove(row)
	c.updateCounts()
	c.FocusTask(focus)
	c.log.Debug("deleted task", "remaining", len(c.rows))
}
