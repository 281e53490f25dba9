package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/netops/internal/core"
	"github.com/vovakirdan/netops/internal/engine"
	"github.com/vovakirdan/netops/internal/storage"
)

// AppConfig wires the app to an engine and its stores.
type AppConfig struct {
	Engine    *engine.Engine
	Notifier  *Notifier      // Must be the engine's Host and Feedback
	Store     *storage.Store // Optional, enables the history board
	Namespace string
	Runtime   core.RuntimeConfig
	Logger    *log.Logger
}

type screen int

const (
	screenMenu screen = iota
	screenDashboard
	screenHistory
)

// App manages the full session flow: menu -> dashboard/history -> menu.
// It is the top-level model for both local and SSH sessions.
type App struct {
	cfg       AppConfig
	screen    screen
	menu      MenuModel
	dashboard *Model
	history   *HistoryModel
	loops     int // Dashboard tick loops started so far
	quitting  bool
}

// NewApp creates a new app starting at the menu.
func NewApp(cfg AppConfig) App {
	if cfg.Notifier == nil {
		cfg.Notifier = NewNotifier()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	a := App{cfg: cfg}
	a.menu = a.newMenu("")
	return a
}

func (a App) newMenu(status string) MenuModel {
	var stats map[int]*storage.LevelStats
	if a.cfg.Store != nil {
		var err error
		stats, err = a.cfg.Store.GetLevelStats(a.cfg.Namespace)
		if err != nil {
			a.cfg.Logger.Warn("cannot load level stats", "err", err)
		}
	}
	return NewMenuModel(MenuOptions{
		Levels:     a.cfg.Engine.Levels(),
		Stats:      stats,
		InCampaign: a.cfg.Engine.InCampaign(),
		Status:     status,
		Width:      a.cfg.Runtime.ScreenW,
		Height:     a.cfg.Runtime.ScreenH,
	})
}

// Init initializes the app.
func (a App) Init() tea.Cmd {
	return a.menu.Init()
}

// Update handles messages for the app.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		a.cfg.Runtime.ScreenW = wsm.Width
		a.cfg.Runtime.ScreenH = wsm.Height
	}

	switch a.screen {
	case screenDashboard:
		return a.updateDashboard(msg)
	case screenHistory:
		return a.updateHistory(msg)
	}
	return a.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (a App) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := a.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		a.menu = menuModel
	}

	if a.menu.IsQuitting() {
		a.quitting = true
		return a, tea.Quit
	}

	selected := a.menu.Selected()
	if selected == nil {
		return a, cmd
	}

	eng := a.cfg.Engine
	switch selected.Choice {
	case ChoiceContinue:
		return a.openDashboard()

	case ChoiceResume:
		ok, err := eng.ResumeLevel()
		switch {
		case err != nil:
			a.menu = a.newMenu(fmt.Sprintf("cannot resume: %v", err))
			return a, nil
		case !ok:
			a.menu = a.newMenu("no level in progress")
			return a, nil
		}
		return a.openDashboard()

	case ChoiceLevel:
		if err := eng.StartLevel(selected.LevelID, a.menu.Mode()); err != nil {
			a.menu = a.newMenu(err.Error())
			return a, nil
		}
		return a.openDashboard()

	case ChoiceAbandon:
		eng.AbandonLevel()
		a.menu = a.newMenu("level abandoned")
		return a, nil

	case ChoiceHistory:
		h := NewHistoryModel(a.cfg.Store, a.cfg.Namespace, eng.Levels(), a.cfg.Runtime.ScreenW, a.cfg.Runtime.ScreenH)
		a.history = &h
		a.screen = screenHistory
		return a, h.Init()
	}

	return a, cmd
}

func (a App) openDashboard() (tea.Model, tea.Cmd) {
	a.loops++
	d := NewModel(a.cfg.Engine, a.cfg.Notifier, a.cfg.Runtime, a.cfg.Namespace, a.loops)
	a.dashboard = &d
	a.screen = screenDashboard
	return a, d.Init()
}

// updateDashboard handles updates when the dashboard is shown.
func (a App) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := a.dashboard.Update(msg)
	if d, ok := newModel.(Model); ok {
		a.dashboard = &d
	}

	if a.dashboard.BackToMenu() {
		a.dashboard = nil
		a.screen = screenMenu
		a.menu = a.newMenu("")
		return a, a.menu.Init()
	}

	if a.dashboard.IsQuitting() {
		a.quitting = true
		return a, tea.Quit
	}

	return a, cmd
}

// updateHistory handles updates when the history board is shown.
func (a App) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := a.history.Update(msg)
	if h, ok := newModel.(HistoryModel); ok {
		a.history = &h
	}

	if a.history.IsGoingBack() {
		a.history = nil
		a.screen = screenMenu
		a.menu = a.newMenu("")
		return a, a.menu.Init()
	}

	if a.history.IsQuitting() {
		a.quitting = true
		return a, tea.Quit
	}

	return a, cmd
}

// View renders the current screen.
func (a App) View() string {
	if a.quitting {
		return ""
	}

	switch a.screen {
	case screenDashboard:
		return a.dashboard.View()
	case screenHistory:
		return a.history.View()
	}
	return a.menu.View()
}

// Run starts the app in the local terminal and saves the game on exit.
func Run(cfg AppConfig) error {
	p := tea.NewProgram(
		NewApp(cfg),
		tea.WithAltScreen(),
	)

	_, runErr := p.Run()
	if err := saveOnExit(cfg.Engine); err != nil {
		if runErr != nil {
			return runErr
		}
		return fmt.Errorf("tui: cannot save on exit: %w", err)
	}
	return runErr
}
