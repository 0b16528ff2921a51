package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	adomain "nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	"nathanbeddoewebdev/dnsweeper/internal/tui/components"
	"nathanbeddoewebdev/dnsweeper/internal/tui/styles"
)

// SortEvaluations orders evaluations for display: safe to delete first,
// then by confidence, then by name.
func SortEvaluations(evs []adomain.RecordEvaluation) []adomain.RecordEvaluation {
	out := slices.Clone(evs)
	slices.SortStableFunc(out, func(a, b adomain.RecordEvaluation) int {
		return cmp.Or(
			cmp.Compare(rank(a.Recommendation), rank(b.Recommendation)),
			cmp.Compare(b.Confidence, a.Confidence),
			strings.Compare(a.Record.Name, b.Record.Name),
		)
	})
	return out
}

func rank(r adomain.Recommendation) int {
	switch r {
	case adomain.RecommendationSafeToDelete:
		return 0
	case adomain.RecommendationReviewNeeded:
		return 1
	default:
		return 2
	}
}

// RenderSummary renders the headline numbers of a scan as a card.
func RenderSummary(res *adomain.Result) string {
	s := res.Summary
	rows := [][2]string{
		{"Domain", res.Domain},
		{"Scanned", res.ScanDate.UTC().Format("2006-01-02 15:04:05 UTC")},
		{"Records", fmt.Sprintf("%d", s.TotalRecords)},
		{"Garbage", fmt.Sprintf("%d", s.GarbageCount)},
		{"Safe to delete", styles.RecommendationStyle(adomain.RecommendationSafeToDelete).Render(fmt.Sprintf("%d", s.SafeToDeleteCount))},
		{"Review needed", styles.RecommendationStyle(adomain.RecommendationReviewNeeded).Render(fmt.Sprintf("%d", s.ReviewNeededCount))},
		{"Est. savings", fmt.Sprintf("$%.2f/month", res.EstimatedMonthlySavings)},
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = styles.Label.Width(16).Render(r[0]) + styles.Value.Render(r[1])
	}
	return styles.Card.Render(strings.Join(lines, "\n"))
}

// RenderFindings renders the garbage records of a scan as a table that
// fits in width cells.
func RenderFindings(res *adomain.Result, width int) string {
	if len(res.Results) == 0 {
		return styles.SuccessText.Render("No garbage records found.")
	}

	nameW, typeW, recW, confW := 32, 6, 16, 6
	reasonW := max(width-nameW-typeW-recW-confW-8, 20)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.TableHeader.Width(nameW).Render("NAME"),
		styles.TableHeader.Width(typeW).Render("TYPE"),
		styles.TableHeader.Width(recW).Render("RECOMMENDATION"),
		styles.TableHeader.Width(confW).Render("CONF"),
		styles.TableHeader.Width(reasonW).Render("REASON"),
	)

	rows := []string{header}
	for _, ev := range SortEvaluations(res.Results) {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			styles.TableCell.Width(nameW).Render(components.Truncate(ev.Record.Name, nameW-2)),
			styles.TableCell.Width(typeW).Render(styles.TypeStyle(string(ev.Record.Type)).Render(string(ev.Record.Type))),
			styles.TableCell.Width(recW).Render(styles.RecommendationStyle(ev.Recommendation).Render(string(ev.Recommendation))),
			styles.TableCell.Width(confW).Render(fmt.Sprintf("%.2f", ev.Confidence)),
			styles.TableCell.Width(reasonW).Render(components.Truncate(ev.Reason, reasonW-2)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
