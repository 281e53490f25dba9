// Package events defines the tagged game events the engine reports to hosts.
package events

import "fmt"

// Event is a sealed set of game events.
type Event interface {
	gameEvent()
}

// AttackStarted is sent when an attack begins.
type AttackStarted struct {
	ID       string
	Type     string
	Name     string
	Severity float64
	Duration int
}

func (AttackStarted) gameEvent() {}

// AttackResolved is sent when an attack expires.
type AttackResolved struct {
	ID        string
	Type      string
	Damage    float64
	Blocked   float64
	Footprint float64
}

func (AttackResolved) gameEvent() {}

// AttackBlocked is sent when a spawned attack is stopped outright.
type AttackBlocked struct {
	Type string
}

func (AttackBlocked) gameEvent() {}

// EarlyWarning is sent when detection predicts an incoming attack.
type EarlyWarning struct {
	Type      string
	Countdown int
	Accuracy  float64
}

func (EarlyWarning) gameEvent() {}

// FalseAlarm is sent when a predicted attack does not manifest.
type FalseAlarm struct {
	Type string
}

func (FalseAlarm) gameEvent() {}

// ThreatEscalated is sent when the threat level rises.
type ThreatEscalated struct {
	Level int
}

func (ThreatEscalated) gameEvent() {}

// FirewallDestroyed is sent when the firewall's health is exhausted.
type FirewallDestroyed struct{}

func (FirewallDestroyed) gameEvent() {}

// MilestoneClaimed is sent when a report milestone is reached.
type MilestoneClaimed struct {
	ID     string
	Reward float64
}

func (MilestoneClaimed) gameEvent() {}

// PatternIdentified is sent when pattern progress completes a pattern.
type PatternIdentified struct {
	Total int
}

func (PatternIdentified) gameEvent() {}

// SignatureLearned is sent the first time an attack type resolves.
type SignatureLearned struct {
	Type string
}

func (SignatureLearned) gameEvent() {}

// LoreUnlocked is sent when cumulative earnings unlock a lore entry.
type LoreUnlocked struct {
	ID string
}

func (LoreUnlocked) gameEvent() {}

// BatchStarted is sent when a batch upload begins.
type BatchStarted struct {
	Total        int
	LatencyTicks int
}

func (BatchStarted) gameEvent() {}

// BatchCompleted is sent when a batch upload finishes.
type BatchCompleted struct {
	Sent  int
	Total int
	Early bool // Footprint ran out
}

func (BatchCompleted) gameEvent() {}

// BatchCancelled is sent when a batch upload is interrupted.
type BatchCancelled struct {
	Sent   int
	Total  int
	Reason string
}

func (BatchCancelled) gameEvent() {}

// RandomEventStarted is sent when a random event begins.
type RandomEventStarted struct {
	Kind  string
	Ticks int
	Value float64
}

func (RandomEventStarted) gameEvent() {}

// RandomEventEnded is sent when a timed random event expires.
type RandomEventEnded struct {
	Kind string
}

func (RandomEventEnded) gameEvent() {}

// OfflineEarnings is sent after away-time credits are granted.
type OfflineEarnings struct {
	Credits float64
	Ticks   int64
}

func (OfflineEarnings) gameEvent() {}

// Describe returns a one-line human readable summary of an event.
func Describe(e Event) string {
	switch ev := e.(type) {
	case AttackStarted:
		return fmt.Sprintf("ATTACK: %s (severity %.2f)", ev.Name, ev.Severity)
	case AttackResolved:
		return fmt.Sprintf("Survived %s: lost %.0f, blocked %.0f, +%.0f intel", ev.Type, ev.Damage, ev.Blocked, ev.Footprint)
	case AttackBlocked:
		return fmt.Sprintf("Blocked %s before it landed", ev.Type)
	case EarlyWarning:
		return fmt.Sprintf("Warning: %s predicted in %d ticks (%.0f%%)", ev.Type, ev.Countdown, ev.Accuracy*100)
	case FalseAlarm:
		return fmt.Sprintf("False alarm: %s never came", ev.Type)
	case ThreatEscalated:
		return fmt.Sprintf("Threat level rose to %d", ev.Level)
	case FirewallDestroyed:
		return "Firewall destroyed"
	case MilestoneClaimed:
		return fmt.Sprintf("Milestone %s (+%.0f)", ev.ID, ev.Reward)
	case PatternIdentified:
		return fmt.Sprintf("Pattern identified (%d total)", ev.Total)
	case SignatureLearned:
		return fmt.Sprintf("New signature: %s", ev.Type)
	case LoreUnlocked:
		return fmt.Sprintf("Lore unlocked: %s", ev.ID)
	case BatchStarted:
		return fmt.Sprintf("Uploading %d reports over %d ticks", ev.Total, ev.LatencyTicks)
	case BatchCompleted:
		return fmt.Sprintf("Upload finished: %d/%d reports", ev.Sent, ev.Total)
	case BatchCancelled:
		return fmt.Sprintf("Upload cancelled (%s): %d/%d sent", ev.Reason, ev.Sent, ev.Total)
	case RandomEventStarted:
		return fmt.Sprintf("Event: %s", ev.Kind)
	case RandomEventEnded:
		return fmt.Sprintf("Event over: %s", ev.Kind)
	case OfflineEarnings:
		return fmt.Sprintf("Welcome back: +%.0f credits over %d ticks", ev.Credits, ev.Ticks)
	default:
		return "unknown event"
	}
}
