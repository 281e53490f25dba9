package threat

import "math"

// starterThroughput is the credits per tick of a fresh pipeline. Credit
// drain grows with exposure relative to it.
const starterThroughput = 8.0

// DamageVector is one tick of attack damage.
type DamageVector struct {
	Credits    float64
	Bandwidth  float64
	Processing float64
}

// Attack is an active attack. TicksRemaining only decreases.
type Attack struct {
	ID             string
	Type           AttackType
	Severity       float64
	Duration       int
	TicksRemaining int
	DamageDealt    float64
	Blocked        float64
}

// NewAttack creates an attack of type t at severity.
func NewAttack(id string, t AttackType, severity float64) *Attack {
	return &Attack{
		ID:             id,
		Type:           t,
		Severity:       math.Max(0, severity),
		Duration:       t.Duration,
		TicksRemaining: t.Duration,
	}
}

// Raw returns the unmitigated damage for one tick given the pipeline's
// exposure in credits per tick.
func (a *Attack) Raw(exposure float64) DamageVector {
	scale := math.Max(1, exposure/starterThroughput)
	return DamageVector{
		Credits:    a.Type.CreditDrain * a.Severity * scale,
		Bandwidth:  a.Type.Bandwidth * a.Severity,
		Processing: a.Type.Processing * a.Severity,
	}
}

// Advance moves the attack forward by n ticks, stopping at zero.
func (a *Attack) Advance(n int) {
	a.TicksRemaining = max(0, a.TicksRemaining-n)
}

// Done reports whether the attack has expired.
func (a *Attack) Done() bool {
	return a.TicksRemaining <= 0
}

// Footprint returns the intel collected when the attack resolves.
func (a *Attack) Footprint() float64 {
	return (a.Blocked*0.1 + float64(a.Duration)) * a.Severity
}

// EarlyWarning is a predicted attack counting down to manifest or fizzle.
type EarlyWarning struct {
	Predicted AttackType
	Severity  float64
	Countdown int
	Accuracy  float64
}
