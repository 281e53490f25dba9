package core

// Action represents a semantic player command, abstracted from physical key
// presses. Hosts translate keys into actions and the engine applies them.
type Action int

const (
	ActionNone             Action = iota
	ActionUp                      // K, Up arrow - move selection up
	ActionDown                    // J, Down arrow - move selection down
	ActionConfirm                 // Enter - confirm selection in menu
	ActionBack                    // B, Escape - go back to menu
	ActionQuit                    // Q, Ctrl+C - exit session
	ActionPause                   // P - pause/resume the simulation
	ActionUpgradeGenerator        // 1 - upgrade source node
	ActionUpgradeLink             // 2 - upgrade transport link
	ActionUpgradeConverter        // 3 - upgrade converter
	ActionUpgradeFirewall         // F - buy or upgrade firewall
	ActionSendReport              // R - send one intelligence report
	ActionSendAll                 // A - send all pending reports
	ActionCancelBatch             // X - cancel batch upload
	ActionUnlockUnit              // U - unlock next unit in the selected lane
	ActionDefense                 // D - unlock/deploy/upgrade selected defense
	ActionSave                    // S - save now
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	case ActionUpgradeGenerator:
		return "UpgradeGenerator"
	case ActionUpgradeLink:
		return "UpgradeLink"
	case ActionUpgradeConverter:
		return "UpgradeConverter"
	case ActionUpgradeFirewall:
		return "UpgradeFirewall"
	case ActionSendReport:
		return "SendReport"
	case ActionSendAll:
		return "SendAll"
	case ActionCancelBatch:
		return "CancelBatch"
	case ActionUnlockUnit:
		return "UnlockUnit"
	case ActionDefense:
		return "Defense"
	case ActionSave:
		return "Save"
	default:
		return "Unknown"
	}
}
