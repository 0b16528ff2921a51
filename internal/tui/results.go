package tui

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	adomain "nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	"nathanbeddoewebdev/dnsweeper/internal/tui/components"
	"nathanbeddoewebdev/dnsweeper/internal/tui/styles"
)

// resultsModel browses the garbage records of one scan.
type resultsModel struct {
	result   *adomain.Result
	provider string

	evaluations []adomain.RecordEvaluation
	filtered    []adomain.RecordEvaluation
	cursor      int
	listStart   int

	recFilter  adomain.Recommendation
	recFilters []adomain.Recommendation
	typeFilter string
	types      []string

	showDetail bool

	width  int
	height int
}

func newResultsModel(res *adomain.Result, provider string) resultsModel {
	evs := SortEvaluations(res.Results)

	types := []string{""}
	for _, ev := range evs {
		if t := string(ev.Record.Type); !slices.Contains(types, t) {
			types = append(types, t)
		}
	}
	slices.Sort(types[1:])

	m := resultsModel{
		result:      res,
		provider:    provider,
		evaluations: evs,
		recFilters: []adomain.Recommendation{
			"",
			adomain.RecommendationSafeToDelete,
			adomain.RecommendationReviewNeeded,
		},
		types: types,
	}
	m.applyFilter()
	return m
}

func (m resultsModel) Init() tea.Cmd {
	return nil
}

func (m *resultsModel) applyFilter() {
	m.filtered = make([]adomain.RecordEvaluation, 0, len(m.evaluations))
	for _, ev := range m.evaluations {
		if m.recFilter != "" && ev.Recommendation != m.recFilter {
			continue
		}
		if m.typeFilter != "" && string(ev.Record.Type) != m.typeFilter {
			continue
		}
		m.filtered = append(m.filtered, ev)
	}
	m.cursor = max(min(m.cursor, len(m.filtered)-1), 0)
	m.updateScroll()
}

func (m resultsModel) visibleRows() int {
	// header 2, footer 2, status 1, summary line 1, filter bar 2, table header 2
	return max(m.height-10, 1)
}

func (m *resultsModel) updateScroll() {
	visible := m.visibleRows()
	if m.cursor < m.listStart {
		m.listStart = m.cursor
	} else if m.cursor >= m.listStart+visible {
		m.listStart = m.cursor - visible + 1
	}
}

func (m resultsModel) selected() (adomain.RecordEvaluation, bool) {
	if len(m.filtered) == 0 {
		return adomain.RecordEvaluation{}, false
	}
	return m.filtered[m.cursor], true
}

func (m resultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScroll()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc", "backspace":
			if m.showDetail {
				m.showDetail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			m.updateScroll()
		case "down", "j":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			m.updateScroll()
		case "g":
			m.cursor = 0
			m.updateScroll()
		case "G":
			m.cursor = max(len(m.filtered)-1, 0)
			m.updateScroll()
		case "f":
			m.recFilter = next(m.recFilters, m.recFilter)
			m.applyFilter()
		case "t":
			m.typeFilter = next(m.types, m.typeFilter)
			m.applyFilter()
		case "enter":
			if _, ok := m.selected(); ok {
				m.showDetail = !m.showDetail
			}
		}
	}

	return m, nil
}

func next[T comparable](options []T, current T) T {
	idx := slices.Index(options, current)
	return options[(idx+1)%len(options)]
}

func (m resultsModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "results > "+m.result.Domain, m.provider)
	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "j/k", Desc: "nav"},
		{Key: "enter", Desc: "details"},
		{Key: "f", Desc: "recommendation"},
		{Key: "t", Desc: "type"},
		{Key: "q", Desc: "quit"},
	})

	s := m.result.Summary
	status := components.StatusBar(m.width, fmt.Sprintf(
		"%d of %d record(s) flagged | %d safe to delete | %d to review | est. $%.2f/month",
		s.GarbageCount, s.TotalRecords, s.SafeToDeleteCount, s.ReviewNeededCount, m.result.EstimatedMonthlySavings,
	), false)

	contentH := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer)-lipgloss.Height(status), 1)

	var content string
	if m.showDetail {
		content = m.renderDetail(contentH)
	} else {
		content = m.renderList(contentH)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, status, footer)
}

func (m resultsModel) renderList(height int) string {
	if len(m.evaluations) == 0 {
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center,
			styles.SuccessText.Render("No garbage records found."))
	}

	filterBar := m.renderFilterBar()
	table := m.renderTable()
	content := lipgloss.JoinVertical(lipgloss.Left, filterBar, "", table)

	if lines := strings.Count(content, "\n") + 1; lines < height {
		content += strings.Repeat("\n", height-lines)
	}
	return content
}

func (m resultsModel) renderFilterBar() string {
	var parts []string
	parts = append(parts, "  Show: ")
	for _, r := range m.recFilters {
		label := string(r)
		if r == "" {
			label = "all"
		}
		parts = append(parts, filterLabel(label, r == m.recFilter))
	}
	parts = append(parts, "   Type: ")
	for _, t := range m.types {
		label := t
		if t == "" {
			label = "all"
		}
		parts = append(parts, filterLabel(label, t == m.typeFilter))
	}
	return strings.Join(parts, "")
}

func filterLabel(label string, active bool) string {
	if active {
		return "[" + styles.AccentText.Render(label) + "]"
	}
	return " " + styles.MutedText.Render(label) + " "
}

func (m resultsModel) renderTable() string {
	if len(m.filtered) == 0 {
		return styles.MutedText.Render("  No records match the current filter.")
	}

	available := m.width - 4
	nameW, typeW, confW := 30, 7, 6
	reasonW := max(available-nameW-typeW-confW-2, 16)

	headerRow := "  " + lipgloss.JoinHorizontal(lipgloss.Top,
		styles.TableHeader.Width(nameW).Render("NAME"),
		styles.TableHeader.Width(typeW).Render("TYPE"),
		styles.TableHeader.Width(confW).Render("CONF"),
		styles.TableHeader.Width(reasonW).Render("REASON"),
	)
	rows := []string{headerRow, styles.MutedText.Render(strings.Repeat("─", max(available, 1)))}

	end := min(m.listStart+m.visibleRows(), len(m.filtered))
	for i := m.listStart; i < end; i++ {
		ev := m.filtered[i]
		recStyle := styles.RecommendationStyle(ev.Recommendation)

		cells := lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(nameW).Render(components.Truncate(ev.Record.Name, nameW-1)),
			lipgloss.NewStyle().Width(typeW).Render(styles.TypeStyle(string(ev.Record.Type)).Render(string(ev.Record.Type))),
			lipgloss.NewStyle().Width(confW).Render(recStyle.Render(fmt.Sprintf("%.2f", ev.Confidence))),
			lipgloss.NewStyle().Width(reasonW).Render(components.Truncate(ev.Reason, reasonW-1)),
		)

		cursor := "  "
		rowStyle := styles.TableCell
		if i == m.cursor {
			cursor = styles.AccentText.Render("> ")
			rowStyle = styles.TableSelectedRow
		}
		rows = append(rows, cursor+rowStyle.Render(cells))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m resultsModel) renderDetail(height int) string {
	ev, ok := m.selected()
	if !ok {
		return ""
	}

	field := func(label, value string) string {
		return styles.Label.Width(16).Render(label) + styles.Value.Render(value)
	}

	lines := []string{
		field("Name", ev.Record.Name),
		field("Type", string(ev.Record.Type)),
		field("Content", ev.Record.Content),
		field("Recommendation", styles.RecommendationIndicator(ev.Recommendation)),
		field("Reason", ev.Reason),
		field("Confidence", fmt.Sprintf("%.2f", ev.Confidence)),
		"",
		styles.Subtitle.Render("Checks"),
	}
	for _, c := range ev.CheckResults {
		lines = append(lines, "  "+formatCheck(c))
	}

	content := styles.Card.Width(max(m.width-4, 20)).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, height, lipgloss.Left, lipgloss.Top, content)
}

func formatCheck(c adomain.CheckVerdict) string {
	if !c.IsGarbage {
		return styles.MutedText.Render("clean")
	}
	s := fmt.Sprintf("%s (%.2f)", c.Reason, c.Confidence)
	if c.Suggestion != "" {
		s += " " + styles.MutedText.Render("- "+c.Suggestion)
	}
	if len(c.Details) > 0 {
		if b, err := json.Marshal(c.Details); err == nil {
			s += " " + styles.MutedText.Render(string(b))
		}
	}
	return s
}

// RunResultsBrowser opens a full-screen browser over the findings of res.
func RunResultsBrowser(res *adomain.Result, provider string) error {
	p := tea.NewProgram(newResultsModel(res, provider), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
