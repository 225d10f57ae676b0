package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/tasklist"
	"github.com/idilsaglam/tasks/internal/tui"
	"github.com/idilsaglam/tasks/internal/ui"
)

// Options tune behavior from root flags and config.
type Options struct {
	Group        bool // ls grouped by pending/done
	Backend      store.Backend
	Slot         string
	RepeatWindow time.Duration
	Logger       *log.Logger

	// Interactive runs the terminal view. Defaults to tui.Run.
	Interactive func(store.Backend, tui.Options) error
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if opt.Logger == nil {
		opt.Logger = log.New(io.Discard)
	}
	if opt.Interactive == nil {
		opt.Interactive = tui.Run
	}
	if len(args) == 0 {
		return doInteractive(opt)
	}
	cmd, a := args[0], args[1:]
	opt.Logger.Debug("command", "name", cmd, "args", a)

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ui":
		return doInteractive(opt)

	case "ls":
		return doList(opt)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: tasks add <title...>")
			return 2
		}
		return doAdd(opt, strings.Join(a, " "))

	case "done":
		n, code := indexArg("done", a)
		if code != 0 {
			return code
		}
		return doToggle(opt, n)

	case "rm":
		n, code := indexArg("rm", a)
		if code != 0 {
			return code
		}
		return doRemove(opt, n)

	case "clear":
		return doClear(opt)
	}

	ui.Fail("unknown subcommand: " + cmd)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`tasks - a terminal todo list

Usage:
  tasks [flags] [subcommand] [args]

Subcommands:
  ui                 Interactive list (default)
  ls                 Print the list
  add <title...>     Add a task (title can be multiple words)
  done <index>       Toggle done for the task at 1-based index
  rm <index>         Remove the task at 1-based index
  clear              Remove every done task

Examples:
  tasks add "Buy milk"
  tasks -group ls
  tasks done 2
  tasks clear
`)
}

func indexArg(cmd string, a []string) (int, int) {
	if len(a) != 1 {
		ui.Fail(fmt.Sprintf("usage: tasks %s <index>", cmd))
		return 0, 2
	}
	n, err := strconv.Atoi(a[0])
	if err != nil {
		ui.Fail(cmd + ": not a number: " + a[0])
		return 0, 2
	}
	return n, 0
}

// -------------- subcommand impls ----------------

func doInteractive(opt Options) int {
	err := opt.Interactive(opt.Backend, tui.Options{
		Slot:         opt.Slot,
		RepeatWindow: opt.RepeatWindow,
		Logger:       opt.Logger,
	})
	if err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	return 0
}

// load starts a controller over the stored list. Non-interactive commands
// never seed the empty starter task.
func load(opt Options) (*tasklist.Controller, int) {
	c := tasklist.New(opt.Backend, nil,
		tasklist.WithSlot(opt.Slot),
		tasklist.WithLogger(opt.Logger),
		tasklist.WithoutSeed(),
	)
	if err := c.Start(); err != nil {
		ui.Fail("load: " + err.Error())
		return nil, 1
	}
	return c, 0
}

func unload(c *tasklist.Controller, msg string) int {
	if err := c.Unload(); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	ui.OK(msg)
	return 0
}

// rowAt resolves a 1-based index, printing the usual hint when it is off.
func rowAt(c *tasklist.Controller, userIndex int) (*tasklist.Row, int) {
	row := c.Row(userIndex - 1)
	if row == nil {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", c.Len(), userIndex))
		ui.Hint("Hint: run `tasks ls` to see valid indexes")
		return nil, 2
	}
	return row, 0
}

func doList(opt Options) int {
	c, code := load(opt)
	if code != 0 {
		return code
	}
	items := c.Data()
	counts := c.Counts()
	t := ui.Current()

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), counts.Done,
		t.Pending.Render(t.SymPending), counts.Total-counts.Done,
		t.Accent.Render("Total"), counts.Total,
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(counts.Done, counts.Total, 28)))
	lines = append(lines, "")

	if opt.Group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items, nil)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `tasks add \"Buy milk\"`"))
	ui.Panel(lines)
	return 0
}

func doAdd(opt Options, title string) int {
	title = strings.TrimSpace(title)
	if title == "" {
		ui.Fail("add: empty title")
		return 2
	}
	c, code := load(opt)
	if code != 0 {
		return code
	}
	c.AddItem(model.Task{Title: title})
	return unload(c, "added")
}

func doToggle(opt Options, userIndex int) int {
	c, code := load(opt)
	if code != 0 {
		return code
	}
	row, code := rowAt(c, userIndex)
	if code != 0 {
		return code
	}
	c.Toggle(row)
	return unload(c, "toggled")
}

func doRemove(opt Options, userIndex int) int {
	c, code := load(opt)
	if code != 0 {
		return code
	}
	row, code := rowAt(c, userIndex)
	if code != 0 {
		return code
	}
	c.Dispatch(tasklist.Event{Type: tasklist.Click, Target: tasklist.Target{Row: row, Role: tasklist.RoleDelete}})
	return unload(c, "removed")
}

func doClear(opt Options) int {
	c, code := load(opt)
	if code != 0 {
		return code
	}
	before := c.Len()
	c.ClearCompleted()
	return unload(c, fmt.Sprintf("cleared %d", before-c.Len()))
}

// -------------- rendering helpers --------------

// maxTitleWidth is the cell width a title may take in ls output.
const maxTitleWidth = 80

// flatLines renders items numbered by their list position. positions maps an
// item to its 1-based index when items is a subset of the list.
func flatLines(items []model.Task, positions []int) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		n := i + 1
		if positions != nil {
			n = positions[i]
		}
		box, style := t.BoxUnchecked, t.Muted
		if it.Done {
			box, style = t.BoxChecked, t.Success
		}
		title := ansi.Truncate(it.Title, maxTitleWidth, "...")
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("%2d.", n)), style.Render(box), title))
	}
	return out
}

func groupLines(items []model.Task) []string {
	var pend, done []model.Task
	var pendAt, doneAt []int
	for i, it := range items {
		if it.Done {
			done = append(done, it)
			doneAt = append(doneAt, i+1)
		} else {
			pend = append(pend, it)
			pendAt = append(pendAt, i+1)
		}
	}
	t := ui.Current()
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend, pendAt)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done, doneAt)...)
	}
	return lines
}
