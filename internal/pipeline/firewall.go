package pipeline

import "math"

const (
	firewallBaseHealth = 100.0
	firewallBaseCost   = 250.0
	firewallCostGrowth = 1.25
	firewallRegenShare = 0.02
	firewallMaxReduce  = 0.5
)

// Firewall is the optional damage sponge in front of the pipeline.
// A nil *Firewall means no firewall is installed.
type Firewall struct {
	level  int
	health float64
}

// NewFirewall creates a level-1 firewall at full health.
func NewFirewall() *Firewall {
	f := &Firewall{level: 1}
	f.health = f.MaxHealth()
	return f
}

func (f *Firewall) Kind() Kind        { return KindFirewall }
func (f *Firewall) ID() string        { return "fw" }
func (f *Firewall) Level() int        { return f.level }
func (f *Firewall) Health() float64   { return f.health }
func (f *Firewall) Capacity() float64 { return f.MaxHealth() }

// UpgradeCost returns the cost to move to the next level.
func (f *Firewall) UpgradeCost() float64 {
	return math.Floor(firewallBaseCost * math.Pow(firewallCostGrowth, float64(f.level)))
}

// MaxHealth returns the health pool at the current level.
func (f *Firewall) MaxHealth() float64 {
	return scaled(firewallBaseHealth, f.level)
}

// RegenRate returns health restored per tick.
func (f *Firewall) RegenRate() float64 {
	return f.MaxHealth() * firewallRegenShare
}

// Reduction is the share of incoming damage the firewall negates before
// absorbing the rest.
func (f *Firewall) Reduction() float64 {
	return math.Min(firewallMaxReduce, 0.1+0.02*float64(f.level-1))
}

// HealthFraction returns health / maxHealth in [0, 1].
func (f *Firewall) HealthFraction() float64 {
	m := f.MaxHealth()
	if m <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, f.health/m))
}

// Regenerate restores one tick of health up to the maximum.
func (f *Firewall) Regenerate() {
	f.health = math.Min(f.MaxHealth(), f.health+f.RegenRate())
}

// Absorb takes up to damage from the health pool and returns the amount
// absorbed. Health never drops below zero.
func (f *Firewall) Absorb(damage float64) float64 {
	if damage <= 0 {
		return 0
	}
	absorbed := math.Min(f.health, damage)
	f.health = math.Max(0, f.health-absorbed)
	return absorbed
}

// Destroyed reports whether the health pool is exhausted.
func (f *Firewall) Destroyed() bool {
	return f.health <= 0
}

// Upgrade increments the level and grants the added health.
func (f *Firewall) Upgrade() {
	before := f.MaxHealth()
	f.level++
	f.health += f.MaxHealth() - before
}

// Restore sets persisted level and health, clamping both.
func (f *Firewall) Restore(level int, health float64) {
	f.level = max(1, level)
	if math.IsNaN(health) {
		health = 0
	}
	f.health = math.Max(0, math.Min(health, f.MaxHealth()))
}
