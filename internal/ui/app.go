package ui

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/quibble/internal/api"
	"github.com/fragmede/quibble/internal/cache"
	"github.com/fragmede/quibble/internal/config"
	"github.com/fragmede/quibble/internal/tree"
	"github.com/fragmede/quibble/internal/ui/commentview"
	"github.com/fragmede/quibble/internal/ui/messages"
	"github.com/fragmede/quibble/internal/ui/statusbar"
)

// displayState is one of the three mutually exclusive top-level states.
type displayState int

const (
	stateLoading displayState = iota
	stateError
	stateReady
)

// App is the root Bubble Tea model.
type App struct {
	state  displayState
	errMsg string

	// networkLoaded flips once the first live fetch result lands; after
	// that a late cache snapshot must not overwrite the view.
	networkLoaded bool

	commentView commentview.Model
	statusBar   statusbar.Model
	spin        spinner.Model

	cfg    config.Config
	client *api.Client
	cache  *cache.DB

	width  int
	height int
}

// NewApp creates the root application model.
func NewApp(cfg config.Config, client *api.Client, db *cache.DB) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	return &App{
		state:       stateLoading,
		commentView: commentview.New(cfg.ExplorerURL),
		statusBar:   statusbar.New(cfg.IndexerURL),
		spin:        sp,
		cfg:         cfg,
		client:      client,
		cache:       db,
	}
}

// Init paints the cached snapshot if there is one and starts the first
// fetch.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, a.loadSnapshot(), a.fetch())
}

// fetch runs one fetch flow: a single POST, no retries. On success the
// snapshot cache is refreshed before the result is delivered. Concurrent
// flows are allowed; whichever result arrives last wins.
func (a *App) fetch() tea.Cmd {
	client := a.client
	db := a.cache
	timeout := a.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		records, err := client.FetchComments(ctx)
		if err != nil {
			return messages.CommentsLoadedMsg{Err: err}
		}
		if db != nil {
			// Snapshot write is best-effort; the view does not depend on it.
			_ = db.ReplaceComments(records)
		}
		return messages.CommentsLoadedMsg{Records: records, FetchedAt: time.Now()}
	}
}

func (a *App) loadSnapshot() tea.Cmd {
	db := a.cache
	return func() tea.Msg {
		if db == nil {
			return nil
		}
		records, fetchedAt, err := db.Comments()
		if err != nil || len(records) == 0 {
			return nil
		}
		return messages.CommentsLoadedMsg{Records: records, FetchedAt: fetchedAt, FromCache: true}
	}
}

// Update handles all messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentHeight := msg.Height - 1 // Reserve 1 line for status bar.
		a.commentView.SetSize(msg.Width, contentHeight)
		a.statusBar.SetSize(msg.Width)
		return a, nil

	case spinner.TickMsg:
		if a.state != stateLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case messages.CommentsLoadedMsg:
		return a.applyLoaded(msg)

	case messages.StatusMsg:
		var cmd tea.Cmd
		a.statusBar, cmd = a.statusBar.Update(msg)
		if strings.HasPrefix(msg.Text, "Opening: ") {
			go openBrowser(strings.TrimPrefix(msg.Text, "Opening: "))
		}
		return a, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, Keys.Refresh):
			a.state = stateLoading
			a.statusBar.SetStatus("Refreshing...", false)
			return a, tea.Batch(a.spin.Tick, a.fetch())
		}
	}

	// Route to the comment view when it is on screen.
	var cmds []tea.Cmd
	if a.state == stateReady {
		var cmd tea.Cmd
		a.commentView, cmd = a.commentView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// applyLoaded folds one fetch (or cache) result into the display state.
func (a *App) applyLoaded(msg messages.CommentsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.FromCache {
		// The snapshot only pre-empts the blank loading screen.
		if a.networkLoaded || a.state != stateLoading {
			return a, nil
		}
		a.showForest(msg)
		return a, nil
	}

	a.networkLoaded = true
	if msg.Err != nil {
		a.state = stateError
		a.errMsg = msg.Err.Error()
		a.statusBar.SetStatus("Fetch failed", true)
		return a, nil
	}

	a.showForest(msg)
	a.statusBar.SetStatus("", false)
	return a, nil
}

func (a *App) showForest(msg messages.CommentsLoadedMsg) {
	roots := tree.Build(msg.Records)
	a.commentView.SetForest(msg.Records, roots)
	a.statusBar.SetSnapshot(len(msg.Records), msg.FetchedAt, msg.FromCache)
	a.state = stateReady
}

// View renders the application.
func (a *App) View() string {
	var content string
	switch a.state {
	case stateLoading:
		content = "\n  " + a.spin.View() + TitleStyle.Render("Loading comments...") +
			"\n\n  " + DimStyle.Render("fetching from "+a.cfg.IndexerURL)
	case stateError:
		content = "\n  " + ErrorStyle.Render("Failed to load comments") +
			"\n\n  " + MetaStyle.Render(a.errMsg) +
			"\n\n  " + DimStyle.Render("r: retry  q: quit")
	case stateReady:
		content = a.commentView.View()
	}

	content = lipgloss.NewStyle().Height(a.height - 1).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, content, a.statusBar.View())
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	default:
		return
	}
	cmd.Run()
}
