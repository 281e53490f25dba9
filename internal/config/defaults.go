package config

import (
	_ "embed"
)

//go:embed defaults/balance.yaml
var defaultBalanceYAML []byte

//go:embed defaults/campaign.yaml
var defaultCampaignYAML []byte

// DefaultBalance returns the default balance configuration.
func DefaultBalance() Balance {
	return Balance{
		Tick: TickConfig{
			IntervalMS:    1000,
			PeriodicEvery: 10,
			PersistEvery:  30,
		},
		Economy: EconomyConfig{
			StartingCredits:     500,
			FirewallCost:        500,
			ThreatLevelEarnings: []float64{0, 500, 2000, 1e4, 5e4, 2.5e5, 1e6, 5e6, 2.5e7, 1e8},
		},
		Offline: OfflineConfig{
			MinAwaySeconds:     60,
			NormalCapHours:     8,
			CampaignCapHours:   4,
			NormalEfficiency:   0.5,
			CampaignEfficiency: 0.3,
		},
		Threat: ThreatConfig{
			BaseChance:         0.02,
			ChancePerRisk:      0.005,
			MaxBaseChance:      0.1,
			MinimumChance:      0.005,
			DetectionThreshold: 0.3,
			WarningTicks:       5,
			WarningAccuracy:    0.6,
			MaxWarningAccuracy: 0.95,
			SeverityPerRisk:    0.25,
		},
		Events: EventsConfig{
			Chance:        0.002,
			SurgeTicks:    30,
			FaultTicks:    20,
			BountyTicks:   60,
			LeakFootprint: 150,
		},
		Lore: []LoreEntry{
			{ID: "lore.first_packet", Threshold: 100},
			{ID: "lore.the_watchers", Threshold: 5000},
			{ID: "lore.malus", Threshold: 50000},
			{ID: "lore.deep_net", Threshold: 1e6},
			{ID: "lore.origin", Threshold: 1e8},
		},
		CloudSync: CloudSyncConfig{
			Prefix:        "/netops/saves/",
			DialTimeoutMS: 3000,
			UploadsPerMin: 6,
		},
	}
}

// DefaultCampaign returns the default campaign table.
func DefaultCampaign() Campaign {
	return Campaign{
		Levels: []LevelConfig{
			{ID: 1, Name: "Home Lab", StartingCredits: 500, GoalCredits: 5000, TimeLimitTicks: 1800, GraceTicks: 120,
				FrequencyMultiplier: 0.6, FrequencyReduction: 0, MinimumChance: 0.002, ThreatScale: 0.8, DamageMultiplier: 0.8, RankCap: 2},
			{ID: 2, Name: "Startup Office", StartingCredits: 750, GoalCredits: 25000, TimeLimitTicks: 2700, GraceTicks: 90,
				FrequencyMultiplier: 0.8, FrequencyReduction: 0, MinimumChance: 0.004, ThreatScale: 1.0, DamageMultiplier: 1.0, RankCap: 3},
			{ID: 3, Name: "Regional ISP", StartingCredits: 1000, GoalCredits: 1e5, TimeLimitTicks: 3600, GraceTicks: 60,
				FrequencyMultiplier: 1.0, FrequencyReduction: 0, MinimumChance: 0.006, ThreatScale: 1.2, DamageMultiplier: 1.1, RankCap: 4},
			{ID: 4, Name: "Data Center", StartingCredits: 1500, GoalCredits: 5e5, TimeLimitTicks: 5400, GraceTicks: 45,
				FrequencyMultiplier: 1.2, FrequencyReduction: 0, MinimumChance: 0.008, ThreatScale: 1.5, DamageMultiplier: 1.25, RankCap: 5},
			{ID: 5, Name: "Backbone", StartingCredits: 2500, GoalCredits: 2.5e6, TimeLimitTicks: 7200, GraceTicks: 30,
				FrequencyMultiplier: 1.5, FrequencyReduction: 0, MinimumChance: 0.01, ThreatScale: 2.0, DamageMultiplier: 1.5, RankCap: 6},
		},
		Insane: InsaneConfig{
			ThreatScale:      1.5,
			DamageMultiplier: 1.5,
			GraceFactor:      0.5,
			MinimumChance:    0.01,
			RankCapBonus:     1,
			TimeFactor:       0.75,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a config name.
func GetDefaultYAML(name string) []byte {
	switch name {
	case "balance":
		return defaultBalanceYAML
	case "campaign":
		return defaultCampaignYAML
	default:
		return nil
	}
}
