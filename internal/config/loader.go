package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBalance loads the balance configuration.
// Search order: customPath -> ~/.netops/configs/balance.yaml -> ./configs/balance.yaml -> embedded default
func LoadBalance(customPath string) (Balance, error) {
	cfg, err := load(customPath, "balance", DefaultBalance)
	if err != nil {
		return cfg, err
	}
	return cfg.normalize(), nil
}

// LoadCampaign loads the campaign level table.
// Search order: customPath -> ~/.netops/configs/campaign.yaml -> ./configs/campaign.yaml -> embedded default
func LoadCampaign(customPath string) (Campaign, error) {
	cfg, err := load(customPath, "campaign", DefaultCampaign)
	if err != nil {
		return cfg, err
	}
	if len(cfg.Levels) == 0 {
		cfg.Levels = DefaultCampaign().Levels
	}
	return cfg, nil
}

func load[T any](customPath, name string, fallback func() T) (T, error) {
	var cfg T
	filename := name + ".yaml"

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(filename); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", filename)); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(GetDefaultYAML(name), &cfg); err != nil {
		return fallback(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netops", "configs", filename)
}

// normalize fills zero cadence fields so partial user files stay playable.
func (b Balance) normalize() Balance {
	def := DefaultBalance()
	if b.Tick.IntervalMS <= 0 {
		b.Tick.IntervalMS = def.Tick.IntervalMS
	}
	if b.Tick.PeriodicEvery <= 0 {
		b.Tick.PeriodicEvery = def.Tick.PeriodicEvery
	}
	if b.Tick.PersistEvery <= 0 {
		b.Tick.PersistEvery = def.Tick.PersistEvery
	}
	if len(b.Economy.ThreatLevelEarnings) == 0 {
		b.Economy.ThreatLevelEarnings = def.Economy.ThreatLevelEarnings
	}
	if b.Offline.MinAwaySeconds <= 0 {
		b.Offline = def.Offline
	}
	if b.Threat.WarningTicks <= 0 {
		b.Threat.WarningTicks = def.Threat.WarningTicks
	}
	return b
}

// Level returns the level with the given id.
func (c Campaign) Level(id int) (LevelConfig, bool) {
	for _, l := range c.Levels {
		if l.ID == id {
			return l, true
		}
	}
	return LevelConfig{}, false
}

// LevelCount returns the number of campaign levels.
func (c Campaign) LevelCount() int {
	return len(c.Levels)
}
