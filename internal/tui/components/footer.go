package components

import (
	"github.com/charmbracelet/lipgloss"

	"nathanbeddoewebdev/dnsweeper/internal/tui/styles"
)

// KeyBinding is one hint in the footer.
type KeyBinding struct {
	Key  string
	Desc string
}

const footerPadding = 2

// Footer renders key binding hints along the bottom of the screen. Hints
// that do not fit in width are dropped from the end.
func Footer(width int, bindings []KeyBinding) string {
	if width < 10 || len(bindings) == 0 {
		return ""
	}

	sep := styles.KeySepStyle.Render("  ")
	avail := width - 2*footerPadding

	var line string
	for _, b := range bindings {
		part := styles.FormatKeyBinding(b.Key, b.Desc)
		next := part
		if line != "" {
			next = line + sep + part
		}
		if lipgloss.Width(next) > avail {
			break
		}
		line = next
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, footerPadding).
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderTop(true).
		BorderForeground(styles.DimGray).
		Render(line)
}
