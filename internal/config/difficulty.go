package config

import "math"

// LevelParams is a level's resolved difficulty after the mode overlay.
type LevelParams struct {
	LevelID             int
	Mode                Mode
	GoalCredits         float64
	TimeLimitTicks      int
	GraceTicks          int
	FrequencyMultiplier float64
	FrequencyReduction  float64
	MinimumChance       float64
	ThreatScale         float64 // Applied to attack severity
	DamageMultiplier    float64 // Applied to the raw damage vector
	RankCap             int
}

// EffectiveDamageScale is the combined severity and damage scaling an
// attack carries once both multipliers have been applied.
func (p LevelParams) EffectiveDamageScale() float64 {
	return p.ThreatScale * p.DamageMultiplier
}

// DifficultyManager resolves campaign levels and modes into LevelParams.
type DifficultyManager struct {
	campaign Campaign
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(c Campaign) *DifficultyManager {
	return &DifficultyManager{campaign: c}
}

// Params returns the resolved parameters for a level and mode.
// The second result is false when the level does not exist.
func (d *DifficultyManager) Params(levelID int, mode Mode) (LevelParams, bool) {
	lvl, ok := d.campaign.Level(levelID)
	if !ok {
		return LevelParams{}, false
	}

	p := LevelParams{
		LevelID:             lvl.ID,
		Mode:                mode,
		GoalCredits:         lvl.GoalCredits,
		TimeLimitTicks:      lvl.TimeLimitTicks,
		GraceTicks:          lvl.GraceTicks,
		FrequencyMultiplier: orOne(lvl.FrequencyMultiplier),
		FrequencyReduction:  clampF(lvl.FrequencyReduction, 0, 1),
		MinimumChance:       clampF(lvl.MinimumChance, 0, 1),
		ThreatScale:         orOne(lvl.ThreatScale),
		DamageMultiplier:    orOne(lvl.DamageMultiplier),
		RankCap:             clampRank(lvl.RankCap),
	}

	if mode != ModeInsane {
		return p, true
	}

	ins := d.campaign.Insane
	// Insane scales both severity and the damage vector; the two compound.
	p.ThreatScale *= orOne(ins.ThreatScale)
	p.DamageMultiplier *= orOne(ins.DamageMultiplier)
	if ins.GraceFactor > 0 {
		p.GraceTicks = int(math.Floor(float64(p.GraceTicks) * ins.GraceFactor))
	}
	p.MinimumChance = math.Max(p.MinimumChance, clampF(ins.MinimumChance, 0, 1))
	p.RankCap = clampRank(p.RankCap + ins.RankCapBonus)
	if ins.TimeFactor > 0 && p.TimeLimitTicks > 0 {
		p.TimeLimitTicks = int(math.Ceil(float64(p.TimeLimitTicks) * ins.TimeFactor))
	}
	return p, true
}

// Levels returns the campaign level table.
func (d *DifficultyManager) Levels() []LevelConfig {
	return d.campaign.Levels
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

func clampRank(r int) int {
	if r <= 0 || r > 6 {
		return 6
	}
	return r
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
