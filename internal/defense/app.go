package defense

import "math"

// App is a deployed defense application. Tier is fixed; Level changes on
// upgrade. Every bonus is a pure function of Tier and Level.
type App struct {
	Tier  Tier
	Level int
}

func (a App) p() profile { return profiles[a.Tier.Category] }

func (a App) lv() float64 { return float64(a.Level) }

// DefensePoints returns base × level × 2^(rank−1).
func (a App) DefensePoints() float64 {
	return a.p().points * a.lv() * math.Pow(2, float64(a.Tier.Rank-1))
}

// DamageReduction returns this app's reduction capped by its rank cap.
func (a App) DamageReduction() float64 {
	r := a.p().reduction * a.lv() * a.Tier.rankMult()
	return math.Min(r, a.Tier.ReductionCap())
}

// Detection returns the detection bonus.
func (a App) Detection() float64 {
	return a.p().detection * a.lv() * a.Tier.rankMult()
}

// Automation returns the automation bonus.
func (a App) Automation() float64 {
	return a.p().automation * a.lv() * a.Tier.rankMult()
}

// IntelBonus returns the additive intel multiplier bonus.
func (a App) IntelBonus() float64 {
	return a.p().intel * a.lv() * a.Tier.rankMult()
}

// FrequencyReduction returns the attack frequency reduction.
func (a App) FrequencyReduction() float64 {
	return a.p().freqReduce * a.lv() * a.Tier.rankMult()
}

// AtMax reports whether the app is at its tier's max level.
func (a App) AtMax() bool {
	return a.Level >= a.Tier.MaxLevel
}

// UpgradeCost returns the cost of the next level.
func (a App) UpgradeCost() float64 {
	return math.Floor(100 * math.Pow(4, float64(a.Tier.Rank-1)) * math.Pow(1.2, float64(a.Level-1)))
}
