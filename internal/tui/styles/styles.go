package styles

import (
	"github.com/charmbracelet/lipgloss"

	adomain "nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
)

// --- Typography ---

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	Subtitle = lipgloss.NewStyle().
			Foreground(Gray)

	// Label is used for field names in detail views.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	Value = lipgloss.NewStyle().
		Foreground(White)

	// MutedText is for help text, hints, and less important info.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	AccentText = lipgloss.NewStyle().
			Foreground(Blue)

	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	SuccessText = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// RecommendationStyle colours a recommendation: red for records that can
// go, yellow for ones a human should look at.
func RecommendationStyle(r adomain.Recommendation) lipgloss.Style {
	switch r {
	case adomain.RecommendationSafeToDelete:
		return lipgloss.NewStyle().Foreground(DeleteColor).Bold(true)
	case adomain.RecommendationReviewNeeded:
		return lipgloss.NewStyle().Foreground(ReviewColor).Bold(true)
	case adomain.RecommendationKeep:
		return lipgloss.NewStyle().Foreground(KeepColor)
	default:
		return lipgloss.NewStyle().Foreground(Gray)
	}
}

// RecommendationIndicator returns a dot plus the recommendation text.
func RecommendationIndicator(r adomain.Recommendation) string {
	style := RecommendationStyle(r)
	return style.Render("●") + " " + style.Render(string(r))
}

// TypeStyle colours a DNS record type.
func TypeStyle(recordType string) lipgloss.Style {
	switch recordType {
	case "A", "AAAA":
		return lipgloss.NewStyle().Foreground(Green)
	case "CNAME":
		return lipgloss.NewStyle().Foreground(Yellow)
	case "MX":
		return lipgloss.NewStyle().Foreground(Blue)
	case "TXT":
		return MutedText
	default:
		return Value
	}
}

// --- Layout components ---

var (
	Border = lipgloss.RoundedBorder()

	// Card is a rounded-border panel for content sections.
	Card = lipgloss.NewStyle().
		Border(Border).
		BorderForeground(DimGray).
		Padding(0, 2)
)

// --- Key binding hint styles ---

var (
	KeyStyle = lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true)

	KeyDescStyle = lipgloss.NewStyle().
			Foreground(Muted)

	KeySepStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// FormatKeyBinding formats a single key binding for the footer.
func FormatKeyBinding(key, desc string) string {
	return KeyStyle.Render(key) + " " + KeyDescStyle.Render(desc)
}

// --- Table styles ---

var (
	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Gray).
			Padding(0, 1)

	TableCell = lipgloss.NewStyle().
			Foreground(White).
			Padding(0, 1)

	TableSelectedRow = lipgloss.NewStyle().
				Foreground(White).
				Background(DarkBlue).
				Bold(true).
				Padding(0, 1)
)
