// Package save implements the versioned game state format, its migration
// chain and the campaign checkpoint.
package save

import (
	"math"
	"slices"

	"github.com/vovakirdan/netops/internal/defense"
	"github.com/vovakirdan/netops/internal/pipeline"
)

// CurrentVersion is the schema version written by Save.
const CurrentVersion = 5

// UnitState is a pipeline node's catalog id and level.
type UnitState struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
}

// UnitsState holds the three production nodes.
type UnitsState struct {
	Generator UnitState `json:"generator"`
	Link      UnitState `json:"link"`
	Converter UnitState `json:"converter"`
}

// FirewallState is a persisted firewall. Nil means none installed.
type FirewallState struct {
	Level  int     `json:"level"`
	Health float64 `json:"health"`
}

// ThreatState holds the persisted threat counters.
type ThreatState struct {
	Level           int           `json:"level"`
	AttacksSurvived int           `json:"attacks_survived"`
	AttacksBlocked  int           `json:"attacks_blocked"`
	DamageReceived  float64       `json:"damage_received"`
	Active          *AttackState  `json:"active,omitempty"`
	Warning         *WarningState `json:"warning,omitempty"`
}

// AttackState is an attack in progress at save time.
type AttackState struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Severity       float64 `json:"severity"`
	Duration       int     `json:"duration"`
	TicksRemaining int     `json:"ticks_remaining"`
	DamageDealt    float64 `json:"damage_dealt"`
	Blocked        float64 `json:"blocked"`
}

// WarningState is a pending early warning at save time.
type WarningState struct {
	Predicted string  `json:"predicted"`
	Severity  float64 `json:"severity"`
	Countdown int     `json:"countdown"`
	Accuracy  float64 `json:"accuracy"`
}

func (t ThreatState) clone() ThreatState {
	if t.Active != nil {
		a := *t.Active
		t.Active = &a
	}
	if t.Warning != nil {
		w := *t.Warning
		t.Warning = &w
	}
	return t
}

// sanitize clamps counters and drops an attack or warning that has
// already run out.
func (t *ThreatState) sanitize() {
	t.Level = max(1, t.Level)
	t.AttacksSurvived = max(0, t.AttacksSurvived)
	t.AttacksBlocked = max(0, t.AttacksBlocked)
	t.DamageReceived = nonNeg(t.DamageReceived)
	if a := t.Active; a != nil {
		a.Severity = nonNeg(a.Severity)
		a.Duration = max(1, a.Duration)
		a.TicksRemaining = min(max(0, a.TicksRemaining), a.Duration)
		a.DamageDealt = nonNeg(a.DamageDealt)
		a.Blocked = nonNeg(a.Blocked)
		if a.TicksRemaining == 0 {
			t.Active = nil
		}
	}
	if w := t.Warning; w != nil {
		w.Severity = nonNeg(w.Severity)
		w.Accuracy = min(nonNeg(w.Accuracy), 1)
		if w.Countdown < 0 {
			t.Warning = nil
		}
	}
}

// IntelState is the persisted intelligence state.
type IntelState struct {
	Footprint          float64  `json:"footprint"`
	ReportsSent        int      `json:"reports_sent"`
	Claimed            []string `json:"claimed"`
	Signatures         []string `json:"signatures"`
	PatternsIdentified int      `json:"patterns_identified"`
	PatternProgress    float64  `json:"pattern_progress"`
}

// Stats are cumulative flow counters.
type Stats struct {
	Generated   float64 `json:"generated"`
	Transferred float64 `json:"transferred"`
	Dropped     float64 `json:"dropped"`
	Lost        float64 `json:"lost"`
	Processed   float64 `json:"processed"`
	ReportsCash float64 `json:"reports_cash"`
	DamageTaken float64 `json:"damage_taken"`
}

// GameState is the current (v5) persisted aggregate.
type GameState struct {
	Version       int            `json:"version"`
	Credits       float64        `json:"credits"`
	TotalEarned   float64        `json:"total_earned"`
	TickCount     int64          `json:"tick_count"`
	PlaySeconds   float64        `json:"play_seconds"`
	LastSaveUnix  int64          `json:"last_save_unix"`
	Units         UnitsState     `json:"units"`
	Buffer        float64        `json:"buffer"`
	Firewall      *FirewallState `json:"firewall,omitempty"`
	UnlockedUnits []string       `json:"unlocked_units"`
	Defense       defense.State  `json:"defense"`
	Threat        ThreatState    `json:"threat"`
	Intel         IntelState     `json:"intel"`
	Lore          []string       `json:"lore"`
	Stats         Stats          `json:"stats"`
}

// StarterUnits returns tier 1 units at level 1.
func StarterUnits() UnitsState {
	return UnitsState{
		Generator: UnitState{ID: pipeline.StarterUnit(pipeline.KindGenerator), Level: 1},
		Link:      UnitState{ID: pipeline.StarterUnit(pipeline.KindLink), Level: 1},
		Converter: UnitState{ID: pipeline.StarterUnit(pipeline.KindConverter), Level: 1},
	}
}

// StarterUnlocked returns the unit ids unlocked in a new game.
func StarterUnlocked() []string {
	u := StarterUnits()
	return []string{u.Generator.ID, u.Link.ID, u.Converter.ID}
}

// NewGameState returns a fresh v5 state.
func NewGameState(startingCredits float64) *GameState {
	return &GameState{
		Version:       CurrentVersion,
		Credits:       startingCredits,
		Units:         StarterUnits(),
		UnlockedUnits: StarterUnlocked(),
		Threat:        ThreatState{Level: 1},
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (g *GameState) Clone() *GameState {
	out := *g
	if g.Firewall != nil {
		fw := *g.Firewall
		out.Firewall = &fw
	}
	out.UnlockedUnits = slices.Clone(g.UnlockedUnits)
	out.Defense = defense.State{
		Unlocked: slices.Clone(g.Defense.Unlocked),
		Deployed: slices.Clone(g.Defense.Deployed),
	}
	out.Intel.Claimed = slices.Clone(g.Intel.Claimed)
	out.Intel.Signatures = slices.Clone(g.Intel.Signatures)
	out.Lore = slices.Clone(g.Lore)
	out.Threat = g.Threat.clone()
	return &out
}

// Sanitize clamps every value a previous build or corrupt data could leave
// out of range. It is idempotent.
func (g *GameState) Sanitize() {
	g.Version = CurrentVersion
	g.Credits = nonNeg(g.Credits)
	g.TotalEarned = nonNeg(g.TotalEarned)
	g.PlaySeconds = nonNeg(g.PlaySeconds)
	g.Buffer = nonNeg(g.Buffer)
	g.TickCount = max(0, g.TickCount)

	starters := StarterUnits()
	g.Units.Generator = sanitizeUnit(g.Units.Generator, pipeline.KindGenerator, starters.Generator)
	g.Units.Link = sanitizeUnit(g.Units.Link, pipeline.KindLink, starters.Link)
	g.Units.Converter = sanitizeUnit(g.Units.Converter, pipeline.KindConverter, starters.Converter)
	for _, id := range []string{g.Units.Generator.ID, g.Units.Link.ID, g.Units.Converter.ID} {
		if !slices.Contains(g.UnlockedUnits, id) {
			g.UnlockedUnits = append(g.UnlockedUnits, id)
		}
	}

	if g.Firewall != nil {
		g.Firewall.Level = max(1, g.Firewall.Level)
		g.Firewall.Health = nonNeg(g.Firewall.Health)
	}

	g.Threat.sanitize()

	g.Intel.Footprint = nonNeg(g.Intel.Footprint)
	g.Intel.ReportsSent = max(0, g.Intel.ReportsSent)
	g.Intel.PatternsIdentified = max(0, g.Intel.PatternsIdentified)
	g.Intel.PatternProgress = nonNeg(g.Intel.PatternProgress)

	g.Stats.Generated = nonNeg(g.Stats.Generated)
	g.Stats.Transferred = nonNeg(g.Stats.Transferred)
	g.Stats.Dropped = nonNeg(g.Stats.Dropped)
	g.Stats.Lost = nonNeg(g.Stats.Lost)
	g.Stats.Processed = nonNeg(g.Stats.Processed)
	g.Stats.ReportsCash = nonNeg(g.Stats.ReportsCash)
	g.Stats.DamageTaken = nonNeg(g.Stats.DamageTaken)
}

func sanitizeUnit(u UnitState, kind pipeline.Kind, fallback UnitState) UnitState {
	spec, ok := pipeline.Unit(u.ID)
	if !ok || spec.Kind != kind {
		return fallback
	}
	u.Level = max(1, u.Level)
	return u
}

func nonNeg(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
