package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette, symbols and the panel border.
// All helpers pull from current.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	BoxUnchecked, BoxChecked                      string
	SymDone, SymPending, SymFail                  string
	Border                                        lipgloss.Border
	BorderColor                                   lipgloss.TerminalColor
}

var asciiBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
}

var themes = map[string]Theme{
	"classic": {
		Title:   lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),

		BoxUnchecked: "☐", BoxChecked: "☑",
		SymDone: "✔", SymPending: "•", SymFail: "✖",
		Border: lipgloss.NormalBorder(), BorderColor: lipgloss.Color("8"),
	},
	"neon": {
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),

		BoxUnchecked: "◻", BoxChecked: "◼",
		SymDone: "✔", SymPending: "•", SymFail: "✖",
		Border: lipgloss.RoundedBorder(), BorderColor: lipgloss.Color("5"),
	},
	"mono": {
		Title:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Accent:  lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Pending: lipgloss.NewStyle(),

		BoxUnchecked: "[ ]", BoxChecked: "[x]",
		SymDone: "x", SymPending: "-", SymFail: "!",
		Border: asciiBorder, BorderColor: lipgloss.NoColor{},
	},
}

var current = themes["classic"]

// SetTheme switches the output theme by name.
func SetTheme(name string) error {
	t, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown theme %q (have %s)", name, strings.Join(ThemeNames(), ", "))
	}
	current = t
	return nil
}

func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func Current() Theme { return current }
