package engine

import (
	"github.com/vovakirdan/netops/internal/core"
	"github.com/vovakirdan/netops/internal/events"
	"github.com/vovakirdan/netops/internal/pipeline"
)

// Random event kinds.
const (
	EventSurge  = "traffic_surge"
	EventFault  = "hardware_fault"
	EventBounty = "bug_bounty"
	EventLeak   = "intel_leak"
)

const (
	surgeProduction = 2.0
	faultBandwidth  = 0.7
)

var randomKinds = []string{EventSurge, EventFault, EventBounty, EventLeak}

// randomEvent is a timed modifier. Instant events never become active.
type randomEvent struct {
	kind  string
	ticks int
}

// advanceRandomEvent expires the active event or rolls for a new one.
func (e *Engine) advanceRandomEvent() {
	if e.random != nil {
		e.random.ticks--
		if e.random.ticks <= 0 {
			kind := e.random.kind
			e.random = nil
			e.emit(events.RandomEventEnded{Kind: kind})
		}
		return
	}
	if !core.Chance(e.rng, e.balance.Events.Chance) {
		return
	}

	cfg := e.balance.Events
	switch kind := randomKinds[e.rng.Intn(len(randomKinds))]; kind {
	case EventSurge:
		e.startRandom(kind, cfg.SurgeTicks, surgeProduction)
	case EventFault:
		e.startRandom(kind, cfg.FaultTicks, faultBandwidth)
	case EventBounty:
		payout := e.pipe.Throughput(pipeline.Neutral()) * float64(cfg.BountyTicks)
		e.earn(payout)
		e.emit(events.RandomEventStarted{Kind: kind, Value: payout})
	case EventLeak:
		gained := e.intel.AddFootprint(cfg.LeakFootprint, e.totals.Detection)
		e.emit(events.RandomEventStarted{Kind: kind, Value: gained})
	}
}

func (e *Engine) startRandom(kind string, ticks int, value float64) {
	if ticks <= 0 {
		return
	}
	e.random = &randomEvent{kind: kind, ticks: ticks}
	e.emit(events.RandomEventStarted{Kind: kind, Ticks: ticks, Value: value})
}

// eventModifiers returns the production and bandwidth factors of the
// active random event.
func (e *Engine) eventModifiers() (production, bandwidth float64) {
	production, bandwidth = 1, 1
	if e.random == nil {
		return
	}
	switch e.random.kind {
	case EventSurge:
		production = surgeProduction
	case EventFault:
		bandwidth = faultBandwidth
	}
	return
}
