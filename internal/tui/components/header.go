// Package components holds render-only helpers the TUI models compose
// their views from.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nathanbeddoewebdev/dnsweeper/internal/tui/styles"
)

// Header renders the application header bar.
//
//	dnsweeper > scan > example.com            Cloudflare
//	──────────────────────────────────────────────────
func Header(width int, breadcrumb string, provider string) string {
	if width < 10 {
		return ""
	}

	left := styles.Title.Foreground(styles.Blue).Render("dnsweeper")
	if breadcrumb != "" {
		left += styles.MutedText.Render(" > ") + styles.Title.Render(breadcrumb)
	}

	right := ""
	if provider != "" {
		right = styles.Subtitle.Render(provider)
	}

	innerWidth := width - 4
	gap := max(innerWidth-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderBottom(true).
		BorderForeground(styles.DimGray).
		Render(left + strings.Repeat(" ", gap) + right)
}
