package tasklist

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

// fakeDisplay records what the controller writes into the counter slots.
type fakeDisplay struct {
	done, total int
	writes      int
}

func (d *fakeDisplay) SetDoneCount(n int)  { d.done = n; d.writes++ }
func (d *fakeDisplay) SetTotalCount(n int) { d.total = n }

// failingBackend fails every write.
type failingBackend struct{ *store.MemoryBackend }

func (failingBackend) Set(string, string) error { return errors.New("disk full") }

func newController(t *testing.T, tasks ...model.Task) (*Controller, *fakeDisplay) {
	t.Helper()
	d := &fakeDisplay{}
	c := New(store.NewMemoryBackend(), d)
	for _, task := range tasks {
		c.AddItem(task)
	}
	return c, d
}

func titleKey(row *Row, key string) Event {
	return Event{Type: KeyDown, Key: key, Target: Target{Row: row, Role: RoleTitle}}
}

func TestAddItem(t *testing.T) {
	t.Run("appends in insertion order", func(t *testing.T) {
		c, d := newController(t)
		for _, title := range []string{"a", "b", "c", "d"} {
			c.AddItem(model.Task{Title: title})
		}
		got := c.Data()
		if len(got) != 4 {
			t.Fatalf("expected 4 tasks, got %d", len(got))
		}
		for i, title := range []string{"a", "b", "c", "d"} {
			if got[i].Title != title {
				t.Errorf("task %d: got %q, want %q", i, got[i].Title, title)
			}
		}
		if d.total != 4 || d.done != 0 {
			t.Errorf("counters = %d/%d, want 0/4", d.done, d.total)
		}
	})

	t.Run("default task is empty and not done", func(t *testing.T) {
		c, _ := newController(t)
		row := c.AddItem()
		if row.Title != "" || row.Done {
			t.Errorf("got %+v, want empty row", row)
		}
	})

	t.Run("focuses the new row", func(t *testing.T) {
		c, _ := newController(t, model.Task{Title: "a"})
		row := c.AddItem(model.Task{Title: "b", Done: true})
		if c.Focused() != row {
			t.Error("expected new row to be focused")
		}
		if c.Counts() != (Counts{Done: 1, Total: 2}) {
			t.Errorf("Counts() = %+v", c.Counts())
		}
	})
}

func TestToggleChangesDoneCountOnly(t *testing.T) {
	c, d := newController(t, model.Task{Title: "a"}, model.Task{Title: "b"})
	row := c.Row(1)

	c.Toggle(row)
	if d.done != 1 || d.total != 2 {
		t.Fatalf("after check: %d/%d, want 1/2", d.done, d.total)
	}
	c.Toggle(row)
	if d.done != 0 || d.total != 2 {
		t.Fatalf("after uncheck: %d/%d, want 0/2", d.done, d.total)
	}
}

func TestChangeEventRefreshesCounts(t *testing.T) {
	c, d := newController(t, model.Task{Title: "a"})
	row := c.Row(0)
	row.Done = true

	if d.done != 0 {
		t.Fatal("counters must not change before the change event")
	}
	if c.Dispatch(Event{Type: Change, Target: Target{Row: row, Role: RoleDone}}) {
		t.Error("change event should not prevent default")
	}
	if d.done != 1 {
		t.Errorf("done = %d, want 1", d.done)
	}
}

func TestDeleteClick(t *testing.T) {
	tests := []struct {
		name      string
		tasks     []model.Task
		delete    int
		wantFocus string // "" means nil
		wantDone  int
		wantTotal int
	}{
		{
			name:      "focus previous sibling",
			tasks:     []model.Task{{Title: "a"}, {Title: "b", Done: true}, {Title: "c"}},
			delete:    1,
			wantFocus: "a",
			wantDone:  0,
			wantTotal: 2,
		},
		{
			name:      "first row focuses next sibling",
			tasks:     []model.Task{{Title: "a"}, {Title: "b"}},
			delete:    0,
			wantFocus: "b",
			wantTotal: 1,
		},
		{
			name:      "not done row keeps done count",
			tasks:     []model.Task{{Title: "a", Done: true}, {Title: "b"}},
			delete:    1,
			wantFocus: "a",
			wantDone:  1,
			wantTotal: 1,
		},
		{
			name:   "last remaining row leaves no focus",
			tasks:  []model.Task{{Title: "a"}},
			delete: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, d := newController(t, tt.tasks...)
			row := c.Row(tt.delete)
			c.Dispatch(Event{Type: Click, Target: Target{Row: row, Role: RoleDelete}})

			if c.Index(row) != -1 {
				t.Fatal("row still in list")
			}
			if d.total != tt.wantTotal || d.done != tt.wantDone {
				t.Errorf("counters = %d/%d, want %d/%d", d.done, d.total, tt.wantDone, tt.wantTotal)
			}
			focused := c.Focused()
			switch {
			case tt.wantFocus == "" && focused != nil:
				t.Errorf("expected no focus, got %q", focused.Title)
			case tt.wantFocus != "" && (focused == nil || focused.Title != tt.wantFocus):
				t.Errorf("expected focus on %q, got %+v", tt.wantFocus, focused)
			}
		})
	}
}

func TestClearCompleted(t *testing.T) {
	t.Run("keeps only pending tasks", func(t *testing.T) {
		c, d := newController(t,
			model.Task{Title: "one", Done: true},
			model.Task{Title: "two"},
			model.Task{Title: "three", Done: true},
		)
		c.ClearCompleted()

		want := []model.Task{{Title: "two"}}
		if got := c.Data(); !reflect.DeepEqual(got, want) {
			t.Errorf("Data() = %+v, want %+v", got, want)
		}
		if d.done != 0 || d.total != 1 {
			t.Errorf("counters = %d/%d, want 0/1", d.done, d.total)
		}
		if f := c.Focused(); f == nil || f.Title != "two" {
			t.Errorf("expected focus on remaining row, got %+v", f)
		}
	})

	t.Run("counters written once", func(t *testing.T) {
		c, d := newController(t,
			model.Task{Done: true}, model.Task{Done: true}, model.Task{Done: true},
		)
		before := d.writes
		c.ClearCompleted()
		if d.writes-before != 1 {
			t.Errorf("expected one counter refresh, got %d", d.writes-before)
		}
		if c.Len() != 0 || c.Focused() != nil {
			t.Errorf("expected empty list without focus, len=%d", c.Len())
		}
	})

	t.Run("nothing done is a no-op", func(t *testing.T) {
		c, _ := newController(t, model.Task{Title: "a"}, model.Task{Title: "b"})
		focused := c.Focused()
		c.ClearCompleted()
		if c.Len() != 2 || c.Focused() != focused {
			t.Error("list or focus changed")
		}
	})
}

func TestFocusTask(t *testing.T) {
	c, _ := newController(t, model.Task{Title: "a"}, model.Task{Title: "b"})
	first := c.Row(0)

	c.FocusTask(first)
	if c.Focused() != first {
		t.Fatal("expected first row focused")
	}
	c.FocusTask(nil)
	if c.Focused() != first {
		t.Error("nil must not move focus")
	}
	c.FocusTask(&Row{Title: "stranger"})
	if c.Focused() != first {
		t.Error("a row outside the list must not take focus")
	}
}

func TestArrowKeys(t *testing.T) {
	c, _ := newController(t, model.Task{Title: "a"}, model.Task{Title: "b"}, model.Task{Title: "c"})
	a, b, cc := c.Row(0), c.Row(1), c.Row(2)

	c.FocusTask(b)
	c.Dispatch(titleKey(b, KeyArrowUp))
	if c.Focused() != a {
		t.Fatal("ArrowUp should focus previous row")
	}
	c.Dispatch(titleKey(a, KeyArrowUp))
	if c.Focused() != a {
		t.Error("ArrowUp on first row should not wrap")
	}
	c.Dispatch(titleKey(a, KeyArrowDown))
	c.Dispatch(titleKey(b, KeyArrowDown))
	if c.Focused() != cc {
		t.Fatal("ArrowDown should focus next row")
	}
	c.Dispatch(titleKey(cc, KeyArrowDown))
	if c.Focused() != cc {
		t.Error("ArrowDown on last row should not wrap")
	}
	if c.Len() != 3 {
		t.Error("arrow keys must not change the list")
	}
}

func TestEnterKey(t *testing.T) {
	c, d := newController(t, model.Task{Title: "a", Done: true})
	a := c.Row(0)

	if c.Dispatch(titleKey(a, KeyEnter)) {
		t.Error("Enter should not prevent default")
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", c.Len())
	}
	added := c.Row(1)
	if added.Title != "" || added.Done {
		t.Errorf("expected empty task, got %+v", added)
	}
	if c.Focused() != added {
		t.Error("expected focus on the new row")
	}
	if d.total != 2 || d.done != 1 {
		t.Errorf("counters = %d/%d, want 1/2", d.done, d.total)
	}

	repeat := titleKey(added, KeyEnter)
	repeat.Repeat = true
	for i := 0; i < 5; i++ {
		c.Dispatch(repeat)
	}
	if c.Len() != 2 {
		t.Errorf("repeated Enter added rows: len=%d", c.Len())
	}
}

func TestBackspaceKey(t *testing.T) {
	t.Run("empty title removes row and focuses previous", func(t *testing.T) {
		c, d := newController(t, model.Task{Title: "a"}, model.Task{Title: ""}, model.Task{Title: "c"})
		a, empty := c.Row(0), c.Row(1)

		if !c.Dispatch(titleKey(empty, KeyBackspace)) {
			t.Error("expected preventDefault")
		}
		if c.Index(empty) != -1 || c.Len() != 2 {
			t.Fatal("row not removed")
		}
		if c.Focused() != a {
			t.Error("expected focus on previous row")
		}
		if d.total != 2 {
			t.Errorf("total = %d, want 2", d.total)
		}
	})

	t.Run("first row focuses new first row", func(t *testing.T) {
		c, _ := newController(t, model.Task{}, model.Task{Title: "b"})
		b := c.Row(1)
		c.Dispatch(titleKey(c.Row(0), KeyBackspace))
		if c.Focused() != b {
			t.Error("expected focus on the new first row")
		}
	})

	t.Run("only row leaves empty list", func(t *testing.T) {
		c, _ := newController(t, model.Task{})
		c.Dispatch(titleKey(c.Row(0), KeyBackspace))
		if c.Len() != 0 || c.Focused() != nil {
			t.Errorf("len=%d focused=%v", c.Len(), c.Focused())
		}
	})

	t.Run("non-empty title is plain editing", func(t *testing.T) {
		c, _ := newController(t, model.Task{Title: "x"})
		if c.Dispatch(titleKey(c.Row(0), KeyBackspace)) {
			t.Error("expected default handling")
		}
		if c.Len() != 1 {
			t.Error("row removed")
		}
	})

	t.Run("repeat is ignored", func(t *testing.T) {
		c, _ := newController(t, model.Task{Title: "a"}, model.Task{})
		ev := titleKey(c.Row(1), KeyBackspace)
		ev.Repeat = true
		if c.Dispatch(ev) || c.Len() != 2 {
			t.Error("repeated Backspace removed a row")
		}
	})
}

func TestDispatchIgnoresForeignTargets(t *testing.T) {
	c, d := newController(t, model.Task{Title: "a"})
	stranger := &Row{}

	c.Dispatch(Event{Type: Click, Target: Target{Row: stranger, Role: RoleDelete}})
	c.Dispatch(Event{Type: KeyDown, Key: KeyEnter, Target: Target{Row: nil, Role: RoleTitle}})
	c.Dispatch(Event{Type: KeyDown, Key: KeyEnter, Target: Target{Row: c.Row(0), Role: RoleDone}})
	c.Dispatch(Event{Type: Click, Target: Target{Row: c.Row(0), Role: RoleTitle}})

	if c.Len() != 1 || d.total != 1 {
		t.Errorf("unexpected change: len=%d total=%d", c.Len(), d.total)
	}
}

func TestStartAndUnload(t *testing.T) {
	t.Run("absent slot seeds one empty task", func(t *testing.T) {
		c, d := newController(t)
		if err := c.Start(); err != nil {
			t.Fatal(err)
		}
		want := []model.Task{{}}
		if got := c.Data(); !reflect.DeepEqual(got, want) {
			t.Errorf("Data() = %+v, want %+v", got, want)
		}
		if d.total != 1 || c.Focused() != c.Row(0) {
			t.Error("seeded row should be counted and focused")
		}
	})

	t.Run("round trip preserves order and fields", func(t *testing.T) {
		backend := store.NewMemoryBackend()
		snapshot := []model.Task{
			{Title: "first", Done: true},
			{Title: "second"},
			{Title: "third", Done: true},
		}
		if err := store.SaveTasks(backend, "todo", snapshot); err != nil {
			t.Fatal(err)
		}

		c := New(backend, nil, WithSlot("todo"))
		if err := c.Start(); err != nil {
			t.Fatal(err)
		}
		if got := c.Data(); !reflect.DeepEqual(got, snapshot) {
			t.Fatalf("Data() = %+v, want %+v", got, snapshot)
		}
		if c.Counts() != (Counts{Done: 2, Total: 3}) {
			t.Errorf("Counts() = %+v", c.Counts())
		}

		c.Row(1).Title = "second, edited"
		c.Toggle(c.Row(0))
		if err := c.Unload(); err != nil {
			t.Fatal(err)
		}
		got, _, err := store.LoadTasks(backend, "todo")
		if err != nil {
			t.Fatal(err)
		}
		want := []model.Task{
			{Title: "first"},
			{Title: "second, edited"},
			{Title: "third", Done: true},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("stored %+v, want %+v", got, want)
		}
	})

	t.Run("stored empty list stays empty", func(t *testing.T) {
		backend := store.NewMemoryBackend()
		_ = backend.Set(store.DefaultSlot, "[]")
		c := New(backend, nil)
		if err := c.Start(); err != nil {
			t.Fatal(err)
		}
		if c.Len() != 0 {
			t.Errorf("expected no rows, got %d", c.Len())
		}
	})

	t.Run("malformed snapshot fails start", func(t *testing.T) {
		backend := store.NewMemoryBackend()
		_ = backend.Set(store.DefaultSlot, `{"title":"x"}`)
		if err := New(backend, nil).Start(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("unload failure is logged and returned", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
		c := New(failingBackend{store.NewMemoryBackend()}, nil, WithLogger(logger))
		c.AddItem(model.Task{Title: "a"})

		if err := c.Unload(); err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(buf.String(), "disk full") {
			t.Errorf("expected failure in log, got %q", buf.String())
		}
	})
}

func TestStartWithoutSeed(t *testing.T) {
	c := New(store.NewMemoryBackend(), nil, WithoutSeed())
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 0 || c.Focused() != nil {
		t.Errorf("expected empty list, got %d rows", c.Len())
	}
}
