package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/netops/internal/config"
	"github.com/vovakirdan/netops/internal/storage"
)

// Choice is what the player picked in the menu.
type Choice int

const (
	ChoiceNone Choice = iota
	ChoiceContinue
	ChoiceResume
	ChoiceLevel
	ChoiceAbandon
	ChoiceHistory
)

// MenuItem represents a selectable menu entry.
type MenuItem struct {
	Choice  Choice
	Title   string
	LevelID int
}

// MenuModel is the Bubble Tea model for the main menu and level picker.
type MenuModel struct {
	items     []MenuItem
	cursor    int
	width     int
	height    int
	mode      config.Mode
	status    string
	keyMapper *KeyMapper
	quitting  bool
	selected  *MenuItem // Set when user selects an entry
}

// MenuOptions describes what the menu should offer.
type MenuOptions struct {
	Levels     []config.LevelConfig
	Stats      map[int]*storage.LevelStats // Optional per-level history
	InCampaign bool
	Status     string
	Width      int
	Height     int
}

// NewMenuModel creates a new menu model.
func NewMenuModel(opts MenuOptions) MenuModel {
	items := []MenuItem{{Choice: ChoiceContinue, Title: "Continue network"}}
	if opts.InCampaign {
		items[0].Title = "Continue level"
		items = append(items, MenuItem{Choice: ChoiceAbandon, Title: "Abandon level"})
	} else {
		items = append(items, MenuItem{Choice: ChoiceResume, Title: "Resume saved level"})
		for _, l := range opts.Levels {
			title := fmt.Sprintf("Level %d: %s", l.ID, l.Name)
			if st, ok := opts.Stats[l.ID]; ok && st.Completions > 0 {
				title += fmt.Sprintf("  [done, best %dt]", st.BestTicks)
			}
			items = append(items, MenuItem{Choice: ChoiceLevel, Title: title, LevelID: l.ID})
		}
	}
	items = append(items, MenuItem{Choice: ChoiceHistory, Title: "Run history"})

	return MenuModel{
		items:     items,
		width:     opts.Width,
		height:    opts.Height,
		mode:      config.ModeNormal,
		status:    opts.Status,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionToggleMode:
		if m.mode == config.ModeInsane {
			m.mode = config.ModeNormal
		} else {
			m.mode = config.ModeInsane
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionBack:
		selected := m.items[0]
		m.selected = &selected

	case MenuActionHistory:
		m.selected = &MenuItem{Choice: ChoiceHistory}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  N E T O P S  "), m.width))
	b.WriteString("\n\n")

	mode := "normal"
	if m.mode == config.ModeInsane {
		mode = badStyle.Render("INSANE")
	}
	b.WriteString(centerText("Campaign mode: "+mode, m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		line := item.Title
		if i == m.cursor {
			cursor = "> "
			line = selectedStyle.Render(line)
		}
		b.WriteString(centerText(cursor+line, m.width))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(centerText(warnStyle.Render(m.status), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  I: Insane  |  Tab: History  |  Q: Quit"
	b.WriteString(centerText(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Mode returns the campaign mode the player picked.
func (m MenuModel) Mode() config.Mode {
	return m.mode
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}
