package semreg

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
)

// HexBytes renders byte strings as space-separated lowercase hex, either
// plain or as a colored diff against an earlier revision.
type HexBytes struct {
	data []byte
	ren  *lipgloss.Renderer
}

func Hex(data []byte) HexBytes {
	return HexBytes{data: data}
}

// WithRenderer overrides the output renderer. The default renderer detects
// terminal capabilities on its own, which tests want pinned down instead.
func (h HexBytes) WithRenderer(r *lipgloss.Renderer) HexBytes {
	h.ren = r
	return h
}

func (h HexBytes) String() string {
	return strings.Join(hexWords(h.data), " ")
}

// DiffAgainst renders h against an older revision of the same value: bytes
// only in old in bright red, bytes only in h in bright green, common bytes
// unstyled. Replaced ranges show the old bytes before the new ones.
func (h HexBytes) DiffAgainst(old []byte) string {
	ren := h.ren
	if ren == nil {
		ren = lipgloss.DefaultRenderer()
	}
	removed := ren.NewStyle().Foreground(lipgloss.Color("9"))
	added := ren.NewStyle().Foreground(lipgloss.Color("10"))

	oldWords, newWords := hexWords(old), hexWords(h.data)
	var runs []string
	for _, op := range difflib.NewMatcher(oldWords, newWords).GetOpCodes() {
		oldRun := strings.Join(oldWords[op.I1:op.I2], " ")
		newRun := strings.Join(newWords[op.J1:op.J2], " ")
		switch op.Tag {
		case 'e':
			runs = append(runs, newRun)
		case 'r':
			runs = append(runs, removed.Render(oldRun), added.Render(newRun))
		case 'd':
			runs = append(runs, removed.Render(oldRun))
		case 'i':
			runs = append(runs, added.Render(newRun))
		}
	}
	return strings.Join(runs, " ")
}

func hexWords(b []byte) []string {
	words := make([]string, len(b))
	for i, v := range b {
		words[i] = fmt.Sprintf("%02x", v)
	}
	return words
}
