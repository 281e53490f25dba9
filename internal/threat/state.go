package threat

import (
	"math"

	"github.com/vovakirdan/netops/internal/pipeline"
)

// NetDefense is the defensive posture derived each tick from the firewall
// and the stack's defense points.
type NetDefense struct {
	Points          float64
	Level           int
	RiskReduction   int
	DamageReduction float64
}

// ComputeNetDefense derives NetDefense. A nil firewall contributes nothing.
func ComputeNetDefense(fw *pipeline.Firewall, stackPoints float64) NetDefense {
	points := math.Max(0, stackPoints)
	if fw != nil {
		points += 25 * float64(fw.Level()) * fw.HealthFraction()
	}
	level := int(math.Log2(1 + points/25))
	return NetDefense{
		Points:          points,
		Level:           level,
		RiskReduction:   level / 2,
		DamageReduction: math.Min(0.5, points/(points+400)),
	}
}

// State is the persistent threat state.
type State struct {
	CurrentLevel    int
	NetDefense      NetDefense
	AttacksSurvived int
	AttacksBlocked  int
	DamageReceived  float64

	Active  *Attack
	Warning *EarlyWarning
}

// NewState returns a threat state at level 1.
func NewState() *State {
	return &State{CurrentLevel: 1}
}

// EffectiveRisk returns max(1, CurrentLevel − RiskReduction).
func (s *State) EffectiveRisk() int {
	return max(1, s.CurrentLevel-s.NetDefense.RiskReduction)
}

// UpdateLevel raises CurrentLevel to match cumulative earnings. It never
// lowers the level and reports whether the level rose.
func (s *State) UpdateLevel(earned float64, thresholds []float64) bool {
	level := 0
	for _, t := range thresholds {
		if earned >= t {
			level++
		}
	}
	level = max(1, level)
	if level <= s.CurrentLevel {
		return false
	}
	s.CurrentLevel = level
	return true
}

// Clear drops any active attack and warning.
func (s *State) Clear() {
	s.Active = nil
	s.Warning = nil
}
