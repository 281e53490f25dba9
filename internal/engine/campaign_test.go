package engine

import (
	"testing"
	"time"

	"github.com/vovakirdan/netops/internal/config"
	"github.com/vovakirdan/netops/internal/core"
	"github.com/vovakirdan/netops/internal/defense"
	"github.com/vovakirdan/netops/internal/pipeline"
	"github.com/vovakirdan/netops/internal/save"
)

func TestLevelComplete(t *testing.T) {
	host := &recordingHost{}
	runs := &recordingRuns{}
	mgr := save.NewManager(save.NewMemoryStore(), nil)
	e := newQuietEngine(Options{Saves: mgr, Host: host, Runs: runs})
	e.credits = 1234

	if err := e.StartLevel(1, config.ModeNormal); err != nil {
		t.Fatalf("StartLevel() failed: %v", err)
	}
	if !e.InCampaign() || e.Credits() != 500 {
		t.Fatalf("Expected level 1 with 500 credits, got %v", e.Credits())
	}
	if err := e.StartLevel(2, config.ModeNormal); err == nil {
		t.Error("Starting a second level should fail")
	}

	e.SetDebugMultipliers(1, 100)
	NewManualScheduler(e).Advance(10)
	e.Flush()

	if len(host.completed) != 1 {
		t.Fatalf("Expected LevelComplete, got %d", len(host.completed))
	}
	if got := host.completed[0]; got.LevelID != 1 || got.Earned < 5000 || got.Ticks != 10 {
		t.Errorf("Unexpected level stats: %+v", got)
	}
	if e.InCampaign() {
		t.Error("Campaign should be over")
	}
	if e.Credits() != 1234 {
		t.Errorf("Regular game should be restored, got %v credits", e.Credits())
	}
	rs := runs.all()
	if len(rs) != 1 || rs[0].Outcome != OutcomeComplete || rs[0].RunID == "" {
		t.Errorf("Unexpected recorded runs: %+v", rs)
	}
	if cp, _ := mgr.LoadCheckpoint(); cp != nil {
		t.Error("Checkpoint should be cleared on completion")
	}
}

func TestLevelFailsOnTimeLimit(t *testing.T) {
	campaign := config.DefaultCampaign()
	campaign.Levels = []config.LevelConfig{{
		ID:              1,
		Name:            "Short Fuse",
		StartingCredits: 100,
		GoalCredits:     1e12,
		TimeLimitTicks:  20,
		GraceTicks:      1000,
		RankCap:         2,
	}}
	host := &recordingHost{}
	runs := &recordingRuns{}
	e := newQuietEngine(Options{Campaign: &campaign, Host: host, Runs: runs})

	if err := e.StartLevel(1, config.ModeNormal); err != nil {
		t.Fatalf("StartLevel() failed: %v", err)
	}
	NewManualScheduler(e).Advance(19)
	if len(host.failed) != 0 {
		t.Fatal("Level failed before its time limit")
	}
	NewManualScheduler(e).Advance(1)
	e.Flush()

	if len(host.failed) != 1 || host.failed[0] != "time limit reached" {
		t.Errorf("Expected time limit failure, got %v", host.failed)
	}
	if rs := runs.all(); len(rs) != 1 || rs[0].Outcome != OutcomeFailed {
		t.Errorf("Unexpected recorded runs: %+v", rs)
	}
}

func TestUnknownLevel(t *testing.T) {
	e := newQuietEngine(Options{})
	if err := e.StartLevel(99, config.ModeNormal); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestCheckpointResume(t *testing.T) {
	store := save.NewMemoryStore()
	clock := core.NewFakeClock(time.Unix(1_700_000_000, 0))
	first := newQuietEngine(Options{Saves: save.NewManager(store, nil), Clock: clock})

	if err := first.StartLevel(2, config.ModeInsane); err != nil {
		t.Fatalf("StartLevel() failed: %v", err)
	}
	NewManualScheduler(first).Advance(30)
	first.Flush()

	second := newQuietEngine(Options{Saves: save.NewManager(store, nil), Clock: clock})
	ok, err := second.ResumeLevel()
	if err != nil || !ok {
		t.Fatalf("ResumeLevel() = %v, %v", ok, err)
	}
	c := second.Snapshot().Campaign
	if c == nil || c.LevelID != 2 || c.Mode != config.ModeInsane || c.Ticks != 30 {
		t.Fatalf("Unexpected resumed campaign: %+v", c)
	}
	if second.Credits() != first.Credits() {
		t.Errorf("Resumed credits %v, want %v", second.Credits(), first.Credits())
	}

	if !second.AbandonLevel() {
		t.Fatal("AbandonLevel() should end the level")
	}
	second.Flush()
	if cp, _ := save.NewManager(store, nil).LoadCheckpoint(); cp != nil {
		t.Error("Checkpoint should be cleared on abandon")
	}
	if second.AbandonLevel() {
		t.Error("Nothing left to abandon")
	}
}

func TestResumeWithoutCheckpoint(t *testing.T) {
	e := newQuietEngine(Options{Saves: save.NewManager(save.NewMemoryStore(), nil)})
	ok, err := e.ResumeLevel()
	if ok || err != nil {
		t.Errorf("ResumeLevel() = %v, %v; want false, nil", ok, err)
	}
}

func TestInsaneCompoundsMultipliers(t *testing.T) {
	dm := config.NewDifficultyManager(config.DefaultCampaign())
	normal, _ := dm.Params(1, config.ModeNormal)
	insane, _ := dm.Params(1, config.ModeInsane)

	e := newQuietEngine(Options{})
	if err := e.StartLevel(1, config.ModeInsane); err != nil {
		t.Fatalf("StartLevel() failed: %v", err)
	}
	p := e.threatParams()

	got := p.ThreatScale * p.DamageMultiplier
	if got != insane.EffectiveDamageScale() {
		t.Errorf("Expected combined scale %v, got %v", insane.EffectiveDamageScale(), got)
	}
	// Both multipliers are scaled, so the ratio is 1.5 × 1.5.
	ratio := got / normal.EffectiveDamageScale()
	if ratio < 2.249 || ratio > 2.251 {
		t.Errorf("Expected 2.25x over normal, got %v", ratio)
	}
	if !p.GraceActive {
		t.Error("Grace period should be active at level start")
	}
}

func TestCampaignRankCap(t *testing.T) {
	e := newQuietEngine(Options{})
	if err := e.StartLevel(1, config.ModeNormal); err != nil {
		t.Fatalf("StartLevel() failed: %v", err)
	}
	e.credits = 1e9

	if !e.AdvanceDefense(defense.Antivirus) {
		t.Fatal("Rank 1 defense should be available")
	}
	if e.CanUnlockDefense(defense.TierID(defense.Antivirus, 3)) {
		t.Error("Rank 3 exceeds the level 1 rank cap")
	}
	if _, ok := e.NextUnit("gen"); !ok {
		t.Error("Tier 2 units fit under the rank cap")
	}
}

func TestOfflineTimeCountsAgainstTimeLimit(t *testing.T) {
	campaign := config.DefaultCampaign()
	campaign.Levels = []config.LevelConfig{{
		ID:              1,
		Name:            "Overnight",
		StartingCredits: 100,
		GoalCredits:     1e12,
		TimeLimitTicks:  600,
		GraceTicks:      1000,
		RankCap:         2,
	}}
	store := save.NewMemoryStore()
	clock := core.NewFakeClock(time.Unix(1_700_000_000, 0))
	first := newQuietEngine(Options{Campaign: &campaign, Saves: save.NewManager(store, nil), Clock: clock})

	if err := first.StartLevel(1, config.ModeNormal); err != nil {
		t.Fatalf("StartLevel() failed: %v", err)
	}
	NewManualScheduler(first).Advance(100)
	if err := first.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	earnedBefore := first.Snapshot().Campaign.Earned

	clock.Advance(time.Hour)
	host := &recordingHost{}
	runs := &recordingRuns{}
	second := newQuietEngine(Options{
		Campaign: &campaign,
		Saves:    save.NewManager(store, nil),
		Clock:    clock,
		Host:     host,
		Runs:     runs,
	})
	if ok, err := second.ResumeLevel(); err != nil || !ok {
		t.Fatalf("ResumeLevel() = %v, %v", ok, err)
	}
	second.Flush()

	if len(host.failed) != 1 || host.failed[0] != "time limit reached" {
		t.Fatalf("Expected time limit failure after an hour away, got %v", host.failed)
	}
	if second.InCampaign() {
		t.Error("Level should be over")
	}
	rs := runs.all()
	if len(rs) != 1 || rs[0].Ticks != 600 {
		t.Fatalf("Expected one run ending at tick 600, got %+v", rs)
	}
	// Only the 500 ticks left on the clock are credited.
	throughput := first.pipe.Throughput(pipeline.Neutral())
	maxEarned := earnedBefore + throughput*500
	if rs[0].Earned > maxEarned+1e-6 {
		t.Errorf("Earned %v exceeds what 500 offline ticks can produce (%v)", rs[0].Earned, maxEarned)
	}
}

func TestCheckpointKeepsTickCount(t *testing.T) {
	store := save.NewMemoryStore()
	clock := core.NewFakeClock(time.Unix(1_700_000_000, 0))
	first := newQuietEngine(Options{Saves: save.NewManager(store, nil), Clock: clock})

	if err := first.StartLevel(1, config.ModeNormal); err != nil {
		t.Fatalf("StartLevel() failed: %v", err)
	}
	NewManualScheduler(first).Advance(40)
	if err := first.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	second := newQuietEngine(Options{Saves: save.NewManager(store, nil), Clock: clock})
	if ok, err := second.ResumeLevel(); err != nil || !ok {
		t.Fatalf("ResumeLevel() = %v, %v", ok, err)
	}
	if second.TickCount() != first.TickCount() {
		t.Errorf("Resumed tick count %d, want %d", second.TickCount(), first.TickCount())
	}
}
