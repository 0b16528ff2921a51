package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	adomain "nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	"nathanbeddoewebdev/dnsweeper/internal/tui/styles"
)

// ErrScanAborted is returned when the user interrupts a running scan.
var ErrScanAborted = errors.New("scan aborted by user")

// ScanFunc runs an analysis, reporting the completed fraction to progress.
type ScanFunc func(ctx context.Context, progress func(float64)) (*adomain.Result, error)

type scanProgressMsg float64

type scanDoneMsg struct {
	result *adomain.Result
	err    error
}

type scanProgressModel struct {
	domain   string
	provider string

	bar     progress.Model
	spinner spinner.Model
	percent float64

	result  *adomain.Result
	err     error
	done    bool
	aborted bool

	width int
}

func newScanProgressModel(domainName, provider string) scanProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	return scanProgressModel{
		domain:   domainName,
		provider: provider,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner:  s,
	}
}

func (m scanProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m scanProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(min(msg.Width-20, 60), 10)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.aborted = true
			return m, tea.Quit
		}

	case scanProgressMsg:
		if p := float64(msg); p > m.percent {
			m.percent = min(p, 1)
		}
		return m, m.bar.SetPercent(m.percent)

	case scanDoneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m scanProgressModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	title := styles.Title.Render("Scanning " + m.domain)
	if m.provider != "" {
		title += styles.MutedText.Render(" via " + m.provider)
	}
	fmt.Fprintf(&b, "%s %s\n\n", m.spinner.View(), title)
	fmt.Fprintf(&b, "  %s %s\n\n", m.bar.View(), styles.Subtitle.Render(fmt.Sprintf("%3.0f%%", m.percent*100)))
	b.WriteString(styles.MutedText.Render("  ctrl+c to abort"))
	b.WriteString("\n")
	return b.String()
}

// RunScanProgress runs scan while showing a progress bar on out. Pressing
// ctrl+c cancels the scan and returns ErrScanAborted.
func RunScanProgress(ctx context.Context, out io.Writer, domainName, provider string, scan ScanFunc) (*adomain.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		newScanProgressModel(domainName, provider),
		tea.WithContext(ctx),
		tea.WithOutput(out),
	)

	finished := make(chan scanDoneMsg, 1)
	go func() {
		res, err := scan(ctx, func(f float64) {
			p.Send(scanProgressMsg(f))
		})
		done := scanDoneMsg{result: res, err: err}
		finished <- done
		p.Send(done)
	}()

	final, runErr := p.Run()
	if m, ok := final.(scanProgressModel); ok && m.aborted {
		cancel()
		<-finished
		return nil, ErrScanAborted
	}

	// The scan keeps running if the UI failed, so its result still counts.
	done := <-finished
	if done.err != nil {
		return nil, done.err
	}
	if done.result == nil && runErr != nil {
		return nil, runErr
	}
	return done.result, nil
}
