// Package styles provides the color palette and style definitions for the
// dnsweeper terminal UI.
package styles

import "github.com/charmbracelet/lipgloss"

// Colors adapt to light and dark terminal backgrounds.
var (
	White   = lipgloss.AdaptiveColor{Light: "#1C1C1C", Dark: "#E2E2E2"}
	Gray    = lipgloss.AdaptiveColor{Light: "#5F5F5F", Dark: "#888888"}
	Muted   = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#555555"}
	DimGray = lipgloss.AdaptiveColor{Light: "#BCBCBC", Dark: "#444444"}

	Blue     = lipgloss.AdaptiveColor{Light: "#005FAF", Dark: "#5FAFFF"}
	DimBlue  = lipgloss.AdaptiveColor{Light: "#5F87AF", Dark: "#3A6FA0"}
	DarkBlue = lipgloss.AdaptiveColor{Light: "#D7E7F7", Dark: "#1A2F40"}

	Green  = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5FD787"}
	Yellow = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD787"}
	Red    = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF8787"}
)

// Verdict colours, one per recommendation.
var (
	DeleteColor = Red
	ReviewColor = Yellow
	KeepColor   = Green
)
