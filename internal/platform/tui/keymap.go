package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/netops/internal/core"
)

// KeyMapper translates Bubble Tea key messages to semantic actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a dashboard key press to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case "up", "k":
		return core.ActionUp, false
	case "down", "j":
		return core.ActionDown, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p", " ":
		return core.ActionPause, false
	case "1":
		return core.ActionUpgradeGenerator, false
	case "2":
		return core.ActionUpgradeLink, false
	case "3":
		return core.ActionUpgradeConverter, false
	case "f":
		return core.ActionUpgradeFirewall, false
	case "r":
		return core.ActionSendReport, false
	case "a":
		return core.ActionSendAll, false
	case "x":
		return core.ActionCancelBatch, false
	case "u":
		return core.ActionUnlockUnit, false
	case "d":
		return core.ActionDefense, false
	case "s":
		return core.ActionSave, false
	}

	return core.ActionNone, false
}

// IsLaneSwitch reports whether the key cycles the selected production lane.
func (km *KeyMapper) IsLaneSwitch(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "tab", "right", "l":
		return true
	}
	return false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionToggleMode
	MenuActionHistory
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "i":
		return MenuActionToggleMode
	case "tab", "h":
		return MenuActionHistory
	}

	return MenuActionNone
}
