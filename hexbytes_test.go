package semreg

import (
	"io"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The default renderer sniffs terminal capabilities, so diff tests pin the
// color profile instead.
func profileRenderer(p termenv.Profile) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(p)
	return r
}

func TestHexString(t *testing.T) {
	deepEqual(t, Hex(x("43 42 01 00")).String(), "43 42 01 00")
	deepEqual(t, Hex(x("0a")).String(), "0a")
	deepEqual(t, Hex(nil).String(), "")
}

func TestHexDiffAgainst(t *testing.T) {
	ren := profileRenderer(termenv.Ascii)

	o := func(name, old, new, want string) {
		t.Run(name, func(t *testing.T) {
			got := Hex(x(new)).WithRenderer(ren).DiffAgainst(x(old))
			deepEqual(t, got, want)
		})
	}

	o("equal", "01 02 03", "01 02 03", "01 02 03")
	// the old byte precedes its replacement
	o("replace", "01 02 03", "01 04 03", "01 02 04 03")
	o("insert", "01 03", "01 02 03", "01 02 03")
	o("delete", "01 02 03", "01 03", "01 02 03")
	o("disjoint", "01 02", "03 04", "01 02 03 04")
	o("empty old", "", "01", "01")
}

func TestHexDiffColors(t *testing.T) {
	ren := profileRenderer(termenv.ANSI)

	// bright red for dropped bytes, bright green for introduced ones
	got := Hex(x("01 04 03")).WithRenderer(ren).DiffAgainst(x("01 02 03"))
	deepEqual(t, got, "01 \x1b[91m02\x1b[0m \x1b[92m04\x1b[0m 03")

	got = Hex(x("01 03")).WithRenderer(ren).DiffAgainst(x("01 02 03"))
	deepEqual(t, got, "01 \x1b[91m02\x1b[0m 03")

	got = Hex(x("01 02 03")).WithRenderer(ren).DiffAgainst(x("01 03"))
	deepEqual(t, got, "01 \x1b[92m02\x1b[0m 03")
}
