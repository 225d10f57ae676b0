package tui

import (
	"unicode"
	"unicode/utf8"
)

// The text field drops or rewrites control characters, so titles go in
// through displayTitle and edits come back through spliceEdit. Runes outside
// the edited span are always taken from the stored title.

// displayTitle maps every rune the text field would not keep as is to a
// visible stand-in, one rune for one rune.
func displayTitle(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r < 0x20:
			r = 0x2400 + r // control pictures block
		case r == 0x7f:
			r = 0x2421
		case r == utf8.RuneError || unicode.IsControl(r):
			r = '?'
		}
		out = append(out, r)
	}
	return string(out)
}

// spliceEdit applies the difference between before and after, the field
// value around one edit, to title.
func spliceEdit(title, before, after string) string {
	if before == after {
		return title
	}
	t, b, a := []rune(title), []rune(before), []rune(after)
	if len(t) != len(b) {
		return after
	}
	p := 0
	for p < len(b) && p < len(a) && b[p] == a[p] {
		p++
	}
	s := 0
	for s < len(b)-p && s < len(a)-p && b[len(b)-1-s] == a[len(a)-1-s] {
		s++
	}
	out := make([]rune, 0, len(t)+len(a)-len(b))
	out = append(out, t[:p]...)
	out = append(out, a[p:len(a)-s]...)
	out = append(out, t[len(t)-s:]...)
	return string(out)
}
