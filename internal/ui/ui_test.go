package ui

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr, prevTheme := stdout, stderr, current
	SetOutput(&out, &errOut)
	t.Cleanup(func() {
		current = prevTheme
		SetOutput(prevOut, prevErr)
	})
	return &out, &errOut
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total, width int
		want               string
	}{
		{0, 0, 10, "░░░░░░░░░░   0%"},
		{1, 2, 10, "█████░░░░░  50%"},
		{3, 3, 5, "█████ 100%"},
		{1, 4, 2, "█░░░░  25%"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.done, tt.total, tt.width); got != tt.want {
			t.Errorf("ProgressBar(%d, %d, %d) = %q, want %q", tt.done, tt.total, tt.width, got, tt.want)
		}
	}
}

func TestSetTheme(t *testing.T) {
	capture(t)
	if err := SetTheme(" Mono "); err != nil {
		t.Fatal(err)
	}
	if Current().BoxChecked != "[x]" {
		t.Errorf("BoxChecked = %q", Current().BoxChecked)
	}
	err := SetTheme("sepia")
	if err == nil || !strings.Contains(err.Error(), "classic, mono, neon") {
		t.Errorf("expected unknown theme error listing themes, got %v", err)
	}
}

func TestStatusLines(t *testing.T) {
	out, errOut := capture(t)
	if err := SetTheme("mono"); err != nil {
		t.Fatal(err)
	}
	OK("saved")
	Fail("broken")
	Hint("try again")

	if got := out.String(); got != "x saved\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := errOut.String(); got != "! broken\ntry again\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestPanel(t *testing.T) {
	out, _ := capture(t)
	if err := SetTheme("mono"); err != nil {
		t.Fatal(err)
	}
	Panel([]string{"Todos", "a longer line"})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "+-") || !strings.HasSuffix(lines[0], "-+") {
		t.Errorf("top border = %q", lines[0])
	}
	if !strings.Contains(lines[2], "| a longer line |") {
		t.Errorf("body line = %q", lines[2])
	}
}
