package engine

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/netops/internal/config"
	"github.com/vovakirdan/netops/internal/events"
)

// Host receives engine notifications. Calls are fire-and-forget and made on
// the tick goroutine; a panicking host is recovered and logged.
type Host interface {
	LevelComplete(stats LevelStats)
	LevelFailed(reason string)
	UnitUnlocked(id string)
	GameEvent(ev events.Event)
}

// NopHost ignores every notification.
type NopHost struct{}

func (NopHost) LevelComplete(LevelStats) {}
func (NopHost) LevelFailed(string)       {}
func (NopHost) UnitUnlocked(string)      {}
func (NopHost) GameEvent(events.Event)   {}

// Cue is an audio or haptic hint for the host.
type Cue int

const (
	CueUpgrade Cue = iota
	CueDenied
	CueAttack
	CueAttackOver
	CueMilestone
	CueLevelComplete
	CueLevelFailed
)

// Feedback plays cues. The terminal host rings the bell or flashes the
// status line; tests record them.
type Feedback interface {
	Play(c Cue)
}

type nopFeedback struct{}

func (nopFeedback) Play(Cue) {}

// LevelStats summarizes a finished campaign level.
type LevelStats struct {
	LevelID         int
	Name            string
	Mode            config.Mode
	Ticks           int
	Earned          float64
	Credits         float64
	AttacksSurvived int
	DamageTaken     float64
	ReportsSent     int
}

// RunResult is the record of one campaign attempt handed to a RunSaver.
type RunResult struct {
	RunID           string
	LevelID         int
	Insane          bool
	Outcome         string // "complete", "failed", "abandoned"
	Reason          string
	Credits         float64
	Earned          float64
	Ticks           int
	AttacksSurvived int
	ReportsSent     int
}

// Run outcomes.
const (
	OutcomeComplete  = "complete"
	OutcomeFailed    = "failed"
	OutcomeAbandoned = "abandoned"
)

// RunSaver persists run results. Implemented by the storage layer.
type RunSaver interface {
	SaveRunResult(r RunResult) error
}

// safeHost wraps a Host so a misbehaving callback cannot stop the tick.
type safeHost struct {
	host   Host
	logger *log.Logger
}

func (h safeHost) call(name string, fn func(Host)) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("host callback panicked", "callback", name, "panic", r)
		}
	}()
	fn(h.host)
}

func (h safeHost) levelComplete(s LevelStats) {
	h.call("LevelComplete", func(x Host) { x.LevelComplete(s) })
}

func (h safeHost) levelFailed(reason string) {
	h.call("LevelFailed", func(x Host) { x.LevelFailed(reason) })
}

func (h safeHost) unitUnlocked(id string) {
	h.call("UnitUnlocked", func(x Host) { x.UnitUnlocked(id) })
}

func (h safeHost) gameEvent(ev events.Event) {
	h.call("GameEvent", func(x Host) { x.GameEvent(ev) })
}
