package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := load("", "balance", DefaultBalance)
	if err != nil {
		t.Fatalf("load balance: %v", err)
	}
	def := DefaultBalance()
	if cfg.Economy.StartingCredits != def.Economy.StartingCredits {
		t.Errorf("starting credits %v, want %v", cfg.Economy.StartingCredits, def.Economy.StartingCredits)
	}
	if cfg.Tick.PersistEvery != def.Tick.PersistEvery {
		t.Errorf("persist cadence %d, want %d", cfg.Tick.PersistEvery, def.Tick.PersistEvery)
	}
	if len(cfg.Lore) != len(def.Lore) {
		t.Errorf("lore entries %d, want %d", len(cfg.Lore), len(def.Lore))
	}

	camp, err := load("", "campaign", DefaultCampaign)
	if err != nil {
		t.Fatalf("load campaign: %v", err)
	}
	if camp.LevelCount() != DefaultCampaign().LevelCount() {
		t.Errorf("levels %d, want %d", camp.LevelCount(), DefaultCampaign().LevelCount())
	}
}

func TestLoadBalanceCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	data := []byte("economy:\n  starting_credits: 1234\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBalance(path)
	if err != nil {
		t.Fatalf("LoadBalance: %v", err)
	}
	if cfg.Economy.StartingCredits != 1234 {
		t.Errorf("starting credits = %v, want 1234", cfg.Economy.StartingCredits)
	}
	// Missing cadence fields fall back to defaults.
	if cfg.Tick.PeriodicEvery != 10 || cfg.Tick.PersistEvery != 30 {
		t.Errorf("cadence not normalized: %+v", cfg.Tick)
	}
}

func TestLoadBalanceMissingCustomPath(t *testing.T) {
	if _, err := LoadBalance(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing custom config")
	}
}

func TestDifficultyNormalMode(t *testing.T) {
	dm := NewDifficultyManager(DefaultCampaign())
	p, ok := dm.Params(1, ModeNormal)
	if !ok {
		t.Fatal("level 1 should exist")
	}
	if p.GraceTicks != 120 || p.RankCap != 2 {
		t.Errorf("unexpected params %+v", p)
	}
	if _, ok := dm.Params(99, ModeNormal); ok {
		t.Error("level 99 should not exist")
	}
}

func TestDifficultyInsaneCompoundsMultipliers(t *testing.T) {
	c := DefaultCampaign()
	c.Levels[1].ThreatScale = 1
	c.Levels[1].DamageMultiplier = 1
	dm := NewDifficultyManager(c)

	p, _ := dm.Params(2, ModeInsane)
	if p.ThreatScale != 1.5 || p.DamageMultiplier != 1.5 {
		t.Fatalf("insane multipliers = %v/%v, want 1.5/1.5", p.ThreatScale, p.DamageMultiplier)
	}
	if got := p.EffectiveDamageScale(); got != 2.25 {
		t.Errorf("effective damage scale = %v, want 2.25", got)
	}
	if p.GraceTicks != 45 {
		t.Errorf("grace = %d, want 45", p.GraceTicks)
	}
	if p.RankCap != 4 {
		t.Errorf("rank cap = %d, want 4", p.RankCap)
	}
	if p.MinimumChance < 0.01 {
		t.Errorf("minimum chance = %v, want >= 0.01", p.MinimumChance)
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("insane") != ModeInsane {
		t.Error("insane should parse")
	}
	if ParseMode("whatever") != ModeNormal {
		t.Error("unknown should default to normal")
	}
}
