package threat

import (
	"math"

	"github.com/google/uuid"

	"github.com/vovakirdan/netops/internal/config"
	"github.com/vovakirdan/netops/internal/core"
	"github.com/vovakirdan/netops/internal/defense"
	"github.com/vovakirdan/netops/internal/pipeline"
)

const (
	maxFrequencyReduction = 0.95
	maxBlockChance        = 0.75
)

// Params is the per-tick context the resolver reads.
type Params struct {
	Totals   defense.Totals
	Firewall *pipeline.Firewall
	Exposure float64 // Pipeline credits per tick

	FrequencyMultiplier float64
	FrequencyReduction  float64 // Campaign and milestone reductions
	MinimumChance       float64
	ThreatScale         float64
	DamageMultiplier    float64
	GraceActive         bool

	WarningBonus     float64 // Milestone early-warning chance
	CreditProtection float64
}

// Outcome reports what happened in one resolver tick. At most one of the
// lifecycle fields is set per branch.
type Outcome struct {
	Started           *Attack
	Resolved          *Attack
	Warning           *EarlyWarning
	FalseAlarm        *EarlyWarning
	Blocked           *AttackType
	Damage            *DamageResult
	Footprint         float64
	FirewallDestroyed bool
	DoubleTick        bool
}

// Resolver advances the attack state machine.
type Resolver struct {
	cfg   config.ThreatConfig
	rng   core.Rand
	newID func() string
}

// NewResolver creates a resolver drawing from rng.
func NewResolver(cfg config.ThreatConfig, rng core.Rand) *Resolver {
	return &Resolver{cfg: cfg, rng: rng, newID: uuid.NewString}
}

// SetIDSource overrides attack id generation.
func (r *Resolver) SetIDSource(fn func() string) {
	if fn != nil {
		r.newID = fn
	}
}

// Tick runs exactly one branch: active attack, pending warning, or spawn.
func (r *Resolver) Tick(s *State, p Params) Outcome {
	switch {
	case s.Active != nil:
		return r.tickAttack(s, p)
	case s.Warning != nil:
		return r.tickWarning(s)
	default:
		return r.trySpawn(s, p)
	}
}

func (r *Resolver) tickAttack(s *State, p Params) Outcome {
	var out Outcome
	a := s.Active

	dmg := ApplyDamage(DamageInput{
		Raw:              a.Raw(p.Exposure),
		DamageMultiplier: p.DamageMultiplier,
		NetReduction:     s.NetDefense.DamageReduction,
		StackReduction:   p.Totals.DamageReduction,
		Firewall:         p.Firewall,
		CreditProtection: p.CreditProtection,
	})
	a.DamageDealt += dmg.Drained
	a.Blocked += dmg.Blocked
	s.DamageReceived += dmg.Drained
	out.Damage = &dmg
	out.FirewallDestroyed = p.Firewall != nil && p.Firewall.Destroyed()

	step := 1
	if core.Chance(r.rng, math.Min(1, p.Totals.Automation)) {
		step = 2
		out.DoubleTick = true
	}
	a.Advance(step)

	if a.Done() {
		s.AttacksSurvived++
		s.Active = nil
		out.Resolved = a
		out.Footprint = a.Footprint()
	}
	return out
}

func (r *Resolver) tickWarning(s *State) Outcome {
	var out Outcome
	w := s.Warning
	w.Countdown--
	if w.Countdown > 0 {
		return out
	}

	s.Warning = nil
	if core.Chance(r.rng, w.Accuracy) {
		a := NewAttack(r.newID(), w.Predicted, w.Severity)
		s.Active = a
		out.Started = a
		return out
	}
	out.FalseAlarm = w
	return out
}

func (r *Resolver) trySpawn(s *State, p Params) Outcome {
	var out Outcome
	if p.GraceActive {
		return out
	}
	if !core.Chance(r.rng, r.SpawnChance(s, p)) {
		return out
	}

	risk := s.EffectiveRisk()
	t := r.pick(risk)
	severity := r.Severity(risk, p.ThreatScale)

	detection := p.Totals.Detection + p.WarningBonus
	if detection >= r.cfg.DetectionThreshold && r.cfg.DetectionThreshold > 0 {
		w := &EarlyWarning{
			Predicted: t,
			Severity:  severity,
			Countdown: max(1, r.cfg.WarningTicks),
			Accuracy:  math.Min(r.cfg.MaxWarningAccuracy, r.cfg.WarningAccuracy+detection*0.5),
		}
		s.Warning = w
		out.Warning = w
		return out
	}

	block := math.Min(maxBlockChance, p.WarningBonus+p.Totals.Detection*0.5)
	if core.Chance(r.rng, block) {
		s.AttacksBlocked++
		out.Blocked = &t
		return out
	}

	a := NewAttack(r.newID(), t, severity)
	s.Active = a
	out.Started = a
	return out
}

// BaseChance returns the unmodified spawn chance at risk.
func (r *Resolver) BaseChance(risk int) float64 {
	return math.Min(r.cfg.MaxBaseChance, r.cfg.BaseChance+r.cfg.ChancePerRisk*float64(risk-1))
}

// SpawnChance returns the per-tick chance that an attack is generated.
// It never falls below the minimum chance.
func (r *Resolver) SpawnChance(s *State, p Params) float64 {
	mult := p.FrequencyMultiplier
	if mult <= 0 {
		mult = 1
	}
	red := math.Min(maxFrequencyReduction, math.Max(0, p.Totals.FrequencyReduction+p.FrequencyReduction))
	floor := p.MinimumChance
	if floor <= 0 {
		floor = r.cfg.MinimumChance
	}
	chance := math.Max(floor, r.BaseChance(s.EffectiveRisk())*mult*(1-red))
	return math.Min(1, chance)
}

// Severity rolls a severity for risk, scaled by the campaign threat scale.
func (r *Resolver) Severity(risk int, threatScale float64) float64 {
	if threatScale <= 0 {
		threatScale = 1
	}
	base := 1 + r.cfg.SeverityPerRisk*float64(risk-1)
	return base * core.Uniform(r.rng, 0.8, 1.2) * threatScale
}

// pick selects a weighted random type among those eligible at risk.
func (r *Resolver) pick(risk int) AttackType {
	eligible := Eligible(risk)
	var total float64
	for _, t := range eligible {
		total += t.Weight
	}
	roll := r.rng.Float64() * total
	for _, t := range eligible {
		roll -= t.Weight
		if roll < 0 {
			return t
		}
	}
	return eligible[len(eligible)-1]
}
