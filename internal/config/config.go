// Package config provides YAML-based balance and campaign configuration
// loading plus difficulty management for the simulation.
package config

import "time"

// Balance contains the global tuning of the simulation.
type Balance struct {
	Tick      TickConfig      `yaml:"tick"`
	Economy   EconomyConfig   `yaml:"economy"`
	Offline   OfflineConfig   `yaml:"offline"`
	Threat    ThreatConfig    `yaml:"threat"`
	Events    EventsConfig    `yaml:"events"`
	Lore      []LoreEntry     `yaml:"lore"`
	CloudSync CloudSyncConfig `yaml:"cloud_sync"`
}

// TickConfig defines tick pacing and periodic work cadence.
type TickConfig struct {
	IntervalMS    int `yaml:"interval_ms"`
	PeriodicEvery int `yaml:"periodic_every"` // Milestone/lore/victory checks
	PersistEvery  int `yaml:"persist_every"`  // Save, stat sync and cloud push
}

// Interval returns the tick interval as a duration.
func (t TickConfig) Interval() time.Duration {
	if t.IntervalMS <= 0 {
		return time.Second
	}
	return time.Duration(t.IntervalMS) * time.Millisecond
}

// EconomyConfig defines starting resources and purchase costs.
type EconomyConfig struct {
	StartingCredits     float64   `yaml:"starting_credits"`
	FirewallCost        float64   `yaml:"firewall_cost"`
	ThreatLevelEarnings []float64 `yaml:"threat_level_earnings"` // Cumulative earned credits per threat level
}

// OfflineConfig bounds the away-time earnings projection.
type OfflineConfig struct {
	MinAwaySeconds     int     `yaml:"min_away_seconds"`
	NormalCapHours     float64 `yaml:"normal_cap_hours"`
	CampaignCapHours   float64 `yaml:"campaign_cap_hours"`
	NormalEfficiency   float64 `yaml:"normal_efficiency"`
	CampaignEfficiency float64 `yaml:"campaign_efficiency"`
}

// ThreatConfig defines attack frequency and prediction tuning.
type ThreatConfig struct {
	BaseChance         float64 `yaml:"base_chance"`         // Spawn chance at risk 1
	ChancePerRisk      float64 `yaml:"chance_per_risk"`     // Added per risk level above 1
	MaxBaseChance      float64 `yaml:"max_base_chance"`
	MinimumChance      float64 `yaml:"minimum_chance"`      // Floor outside the campaign
	DetectionThreshold float64 `yaml:"detection_threshold"` // Detection bonus enabling prediction mode
	WarningTicks       int     `yaml:"warning_ticks"`
	WarningAccuracy    float64 `yaml:"warning_accuracy"`    // Base accuracy before detection bonus
	MaxWarningAccuracy float64 `yaml:"max_warning_accuracy"`
	SeverityPerRisk    float64 `yaml:"severity_per_risk"`
}

// EventsConfig defines random event frequency.
type EventsConfig struct {
	Chance        float64 `yaml:"chance"` // Per-tick roll while no event is active
	SurgeTicks    int     `yaml:"surge_ticks"`
	FaultTicks    int     `yaml:"fault_ticks"`
	BountyTicks   int     `yaml:"bounty_ticks"` // Credit payout, in ticks of current throughput
	LeakFootprint float64 `yaml:"leak_footprint"`
}

// LoreEntry unlocks a lore id once cumulative earnings reach Threshold.
type LoreEntry struct {
	ID        string  `yaml:"id"`
	Threshold float64 `yaml:"threshold"`
}

// CloudSyncConfig defines remote snapshot sync behavior.
type CloudSyncConfig struct {
	Endpoints     []string `yaml:"endpoints"`
	Prefix        string   `yaml:"prefix"`
	DialTimeoutMS int      `yaml:"dial_timeout_ms"`
	UploadsPerMin float64  `yaml:"uploads_per_min"`
}

// Campaign contains the ordered level table.
type Campaign struct {
	Levels []LevelConfig `yaml:"levels"`
	Insane InsaneConfig  `yaml:"insane"`
}

// LevelConfig defines a single campaign level.
type LevelConfig struct {
	ID                  int     `yaml:"id"`
	Name                string  `yaml:"name"`
	StartingCredits     float64 `yaml:"starting_credits"`
	GoalCredits         float64 `yaml:"goal_credits"`     // Credits earned during the level
	TimeLimitTicks      int     `yaml:"time_limit_ticks"` // 0 disables the limit
	GraceTicks          int     `yaml:"grace_ticks"`
	FrequencyMultiplier float64 `yaml:"frequency_multiplier"`
	FrequencyReduction  float64 `yaml:"frequency_reduction"`
	MinimumChance       float64 `yaml:"minimum_chance"`
	ThreatScale         float64 `yaml:"threat_scale"`
	DamageMultiplier    float64 `yaml:"damage_multiplier"`
	RankCap             int     `yaml:"rank_cap"` // Highest defense rank available
}

// InsaneConfig defines the insane-mode overlay applied to every level.
type InsaneConfig struct {
	ThreatScale      float64 `yaml:"threat_scale"`
	DamageMultiplier float64 `yaml:"damage_multiplier"`
	GraceFactor      float64 `yaml:"grace_factor"`
	MinimumChance    float64 `yaml:"minimum_chance"`
	RankCapBonus     int     `yaml:"rank_cap_bonus"`
	TimeFactor       float64 `yaml:"time_factor"`
}

// Mode represents the campaign play mode.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeInsane Mode = "insane"
)

// ParseMode maps a flag value to a Mode, defaulting to normal.
func ParseMode(s string) Mode {
	if s == string(ModeInsane) {
		return ModeInsane
	}
	return ModeNormal
}
