package tui

import (
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/netops/internal/core"
	"github.com/vovakirdan/netops/internal/defense"
	"github.com/vovakirdan/netops/internal/engine"
	"github.com/vovakirdan/netops/internal/events"
)

const (
	alertTicks  = 3  // How long a denial or attack flashes the status line
	bannerTicks = 10 // How long a level result stays on screen
)

// Notifier receives engine callbacks for the dashboard. It implements
// engine.Host and engine.Feedback.
type Notifier struct {
	mu     sync.Mutex
	status string
	alert  int
	banner string
	shown  int
}

var (
	_ engine.Host     = (*Notifier)(nil)
	_ engine.Feedback = (*Notifier)(nil)
)

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) LevelComplete(s engine.LevelStats) {
	n.setBanner(fmt.Sprintf("LEVEL %d COMPLETE  %s in %d ticks, %s earned",
		s.LevelID, s.Name, s.Ticks, formatCredits(s.Earned)))
}

func (n *Notifier) LevelFailed(reason string) {
	n.setBanner("LEVEL FAILED: " + reason)
}

func (n *Notifier) UnitUnlocked(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status = "unit online: " + id
}

func (n *Notifier) GameEvent(ev events.Event) {
	switch ev.(type) {
	case events.AttackStarted, events.FirewallDestroyed:
		n.mu.Lock()
		n.status = events.Describe(ev)
		n.mu.Unlock()
	}
}

// Play flashes the status line for cues that need attention.
func (n *Notifier) Play(c engine.Cue) {
	switch c {
	case engine.CueDenied, engine.CueAttack, engine.CueLevelFailed:
		n.mu.Lock()
		n.alert = alertTicks
		n.mu.Unlock()
	}
}

func (n *Notifier) setBanner(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.banner = msg
	n.shown = bannerTicks
}

// setStatus replaces the status line.
func (n *Notifier) setStatus(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.status = msg
}

// advance ages the alert and banner by one tick.
func (n *Notifier) advance() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.alert > 0 {
		n.alert--
	}
	if n.shown > 0 {
		n.shown--
		if n.shown == 0 {
			n.banner = ""
		}
	}
}

func (n *Notifier) state() (status string, alert bool, banner string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.status, n.alert > 0, n.banner
}

// Model is the Bubble Tea model for the network dashboard. Every TickMsg
// advances the engine by one tick.
type Model struct {
	eng        *engine.Engine
	notes      *Notifier
	keyMapper  *KeyMapper
	config     core.RuntimeConfig
	namespace  string
	gen        int
	lane       int
	defense    int
	showHelp   bool
	quitting   bool
	backToMenu bool
}

// NewModel creates a dashboard over eng. notes must be the Host and
// Feedback the engine was built with. gen tags the dashboard's tick loop.
func NewModel(eng *engine.Engine, notes *Notifier, cfg core.RuntimeConfig, namespace string, gen int) Model {
	if notes == nil {
		notes = NewNotifier()
	}
	return Model{
		eng:       eng,
		notes:     notes,
		keyMapper: NewKeyMapper(),
		config:    cfg,
		namespace: namespace,
		gen:       gen,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickInterval, m.gen)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "?" {
		m.showHelp = !m.showHelp
		return m, nil
	}
	if m.keyMapper.IsLaneSwitch(msg) {
		m.lane = (m.lane + 1) % len(lanes)
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionNone, core.ActionConfirm:
		return m, nil
	case core.ActionBack:
		m.backToMenu = true
		return m, nil
	case core.ActionUp:
		if m.defense > 0 {
			m.defense--
		}
		return m, nil
	case core.ActionDown:
		if m.defense < len(defense.Categories)-1 {
			m.defense++
		}
		return m, nil
	}

	if !m.apply(action) {
		m.notes.setStatus("denied: " + action.String())
		return m, nil
	}
	switch action {
	case core.ActionSave:
		m.notes.setStatus("saved")
	case core.ActionPause:
		if m.eng.Paused() {
			m.notes.setStatus("paused")
		} else {
			m.notes.setStatus("resumed")
		}
	default:
		m.notes.setStatus("ok: " + action.String())
	}
	return m, nil
}

// apply routes actions that need the current selection; the rest go
// straight to the engine.
func (m Model) apply(a core.Action) bool {
	switch a {
	case core.ActionUnlockUnit:
		return m.eng.UnlockUnit(lanes[m.lane])
	case core.ActionDefense:
		return m.eng.AdvanceDefense(defense.Categories[m.defense])
	}
	return m.eng.Apply(a)
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}
	m.eng.Tick()
	m.notes.advance()
	return m, tickCmd(m.config.TickInterval, m.gen)
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	status, alert, banner := m.notes.state()
	return renderDashboard(m.eng.Snapshot(), view{
		width:     m.config.ScreenW,
		lane:      m.lane,
		defense:   m.defense,
		status:    status,
		alert:     alert,
		banner:    banner,
		showHelp:  m.showHelp,
		namespace: m.namespace,
	})
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// saveOnExit saves the current game once the program has stopped.
func saveOnExit(eng *engine.Engine) error {
	if err := eng.Save(); err != nil && !errors.Is(err, engine.ErrNoSaveManager) {
		return err
	}
	return nil
}
