package statusbar

import (
	"fmt"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/quibble/internal/render"
	"github.com/fragmede/quibble/internal/ui/messages"
)

var (
	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF"))

	appStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#00BFFF")).
			Foreground(lipgloss.Color("#000000")).
			Bold(true).
			Padding(0, 1)

	hostStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#555555")).
			Foreground(lipgloss.Color("#CCCCCC")).
			Padding(0, 1)

	statusTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)

	errorTextStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FF5555")).
			Padding(0, 1)

	countStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#00FF00")).
			Padding(0, 1)

	cachedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#8B6914")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

// Model is the status bar at the bottom of the screen.
type Model struct {
	width      int
	host       string
	count      int
	haveCount  bool
	updatedAt  time.Time
	cached     bool
	statusText string
	statusErr  bool
}

// New creates a status bar labelled with the indexer endpoint's host.
func New(endpoint string) Model {
	host := endpoint
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		host = u.Host
	}
	return Model{host: host}
}

// SetSize sets the width.
func (m *Model) SetSize(w int) {
	m.width = w
}

// SetSnapshot records the currently displayed comment set.
func (m *Model) SetSnapshot(count int, updatedAt time.Time, cached bool) {
	m.count = count
	m.haveCount = true
	m.updatedAt = updatedAt
	m.cached = cached
}

// SetStatus sets the transient status text.
func (m *Model) SetStatus(text string, isErr bool) {
	m.statusText = text
	m.statusErr = isErr
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if s, ok := msg.(messages.StatusMsg); ok {
		m.SetStatus(s.Text, s.IsError)
	}
	return m, nil
}

// View renders the bar.
func (m Model) View() string {
	left := appStyle.Render("quibble") + hostStyle.Render(m.host)

	status := m.statusText
	style := statusTextStyle
	if m.statusErr {
		style = errorTextStyle
	}
	if status != "" {
		left += style.Render(render.Truncate(status, m.width/2))
	}

	var right string
	if m.cached {
		right += cachedStyle.Render("CACHED")
	}
	if m.haveCount {
		info := fmt.Sprintf("%d comments", m.count)
		if !m.updatedAt.IsZero() {
			info += " · " + render.TimeAgo(m.updatedAt)
		}
		right += countStyle.Render(info)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return barStyle.Width(m.width).Render(
		left + barStyle.Render(fmt.Sprintf("%*s", gap, "")) + right,
	)
}
