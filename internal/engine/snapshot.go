package engine

import (
	"slices"

	"github.com/vovakirdan/netops/internal/config"
	"github.com/vovakirdan/netops/internal/defense"
	"github.com/vovakirdan/netops/internal/pipeline"
	"github.com/vovakirdan/netops/internal/save"
	"github.com/vovakirdan/netops/internal/threat"
)

// NodeView describes one production node.
type NodeView struct {
	ID           string
	Name         string
	Tier         int
	Level        int
	Capacity     float64
	UpgradeCost  float64
	NextUnit     string // Empty when the lane is maxed or capped
	NextUnitCost float64
}

// FirewallView describes the installed firewall.
type FirewallView struct {
	Level       int
	Health      float64
	MaxHealth   float64
	Reduction   float64
	UpgradeCost float64
}

// DefenseView describes one defense category.
type DefenseView struct {
	Category    defense.Category
	Deployed    bool
	TierID      string
	Name        string
	Rank        int
	Level       int
	MaxLevel    int
	UpgradeCost float64
	NextTier    string // Tier AdvanceDefense would unlock, if any
	NextCost    float64
}

// AttackView describes the active attack.
type AttackView struct {
	ID             string
	Name           string
	Severity       float64
	TicksRemaining int
	Duration       int
	DamageDealt    float64
	Blocked        float64
}

// WarningView describes a pending early warning.
type WarningView struct {
	Name      string
	Countdown int
	Accuracy  float64
}

// BatchView describes a running batch upload.
type BatchView struct {
	Sent     int
	Total    int
	Progress float64
}

// CampaignView describes the level being played.
type CampaignView struct {
	LevelID   int
	Name      string
	Mode      config.Mode
	Earned    float64
	Goal      float64
	Ticks     int
	TimeLimit int
	GraceLeft int
}

// Snapshot is an immutable view of the engine for hosts. It shares no
// memory with the engine.
type Snapshot struct {
	Tick          int64
	Paused        bool
	Credits       float64
	TotalEarned   float64
	IncomePerTick float64 // Steady-state throughput at current rates

	Generator NodeView
	Link      NodeView
	Converter NodeView
	Buffer    float64
	BufferCap float64
	Backlog   float64
	LastStep  pipeline.StepResult

	Firewall     *FirewallView
	FirewallCost float64 // Purchase or upgrade cost

	Defense []DefenseView
	Totals  defense.Totals

	ThreatLevel     int
	EffectiveRisk   int
	NetDefense      threat.NetDefense
	Attack          *AttackView
	Warning         *WarningView
	AttacksSurvived int
	AttacksBlocked  int

	Footprint       float64
	ReportCost      float64
	ReportsSent     int
	PendingReports  int
	Patterns        int
	PatternProgress float64
	Milestones      []string
	Signatures      []string
	Batch           *BatchView

	RandomEvent     string
	RandomTicksLeft int
	DebugProduction float64
	DebugCredits    float64
	Campaign        *CampaignView
	Lore            []string
	Recent          []string
	Stats           save.Stats
}

// Snapshot returns the current view.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{
		Tick:          e.tick,
		Paused:        e.paused,
		Credits:       e.credits,
		TotalEarned:   e.totalEarned,
		IncomePerTick: e.pipe.Throughput(pipeline.Neutral()),

		Generator: e.nodeView(pipeline.KindGenerator),
		Link:      e.nodeView(pipeline.KindLink),
		Converter: e.nodeView(pipeline.KindConverter),
		Buffer:    e.pipe.Converter.Buffer(),
		BufferCap: e.pipe.Converter.Capacity(),
		Backlog:   e.pipe.Backlog(),
		LastStep:  e.lastStep,

		FirewallCost: e.balance.Economy.FirewallCost,
		Totals:       e.totals,

		ThreatLevel:     e.threat.CurrentLevel,
		EffectiveRisk:   e.threat.EffectiveRisk(),
		NetDefense:      e.threat.NetDefense,
		AttacksSurvived: e.threat.AttacksSurvived,
		AttacksBlocked:  e.threat.AttacksBlocked,

		Footprint:       e.intel.Footprint,
		ReportCost:      e.intel.ReportCost(),
		ReportsSent:     e.intel.ReportsSent,
		PendingReports:  e.intel.PendingReports(),
		Patterns:        e.intel.PatternsIdentified,
		PatternProgress: e.intel.PatternProgress,
		Milestones:      e.intel.Claimed(),
		Signatures:      e.intel.Signatures(),

		DebugProduction: e.debugProduction,
		DebugCredits:    e.debugCredits,
		Lore:            e.loreIDs(),
		Recent:          slices.Clone(e.recent),
		Stats:           e.stats,
	}

	if fw := e.firewall; fw != nil {
		s.Firewall = &FirewallView{
			Level:       fw.Level(),
			Health:      fw.Health(),
			MaxHealth:   fw.MaxHealth(),
			Reduction:   fw.Reduction(),
			UpgradeCost: fw.UpgradeCost(),
		}
		s.FirewallCost = fw.UpgradeCost()
	}

	for _, c := range defense.Categories {
		s.Defense = append(s.Defense, e.defenseView(c))
	}

	if a := e.threat.Active; a != nil {
		s.Attack = &AttackView{
			ID:             a.ID,
			Name:           a.Type.Name,
			Severity:       a.Severity,
			TicksRemaining: a.TicksRemaining,
			Duration:       a.Duration,
			DamageDealt:    a.DamageDealt,
			Blocked:        a.Blocked,
		}
	}
	if w := e.threat.Warning; w != nil {
		s.Warning = &WarningView{Name: w.Predicted.Name, Countdown: w.Countdown, Accuracy: w.Accuracy}
	}
	if b := e.batch; b != nil {
		s.Batch = &BatchView{Sent: b.Sent, Total: b.Total, Progress: b.Progress()}
	}
	if r := e.random; r != nil {
		s.RandomEvent = r.kind
		s.RandomTicksLeft = r.ticks
	}
	if c := e.campaign; c != nil {
		s.Campaign = &CampaignView{
			LevelID:   c.params.LevelID,
			Name:      c.name,
			Mode:      c.params.Mode,
			Earned:    c.earned,
			Goal:      c.params.GoalCredits,
			Ticks:     c.ticks,
			TimeLimit: c.params.TimeLimitTicks,
			GraceLeft: max(0, c.params.GraceTicks-c.ticks),
		}
	}
	return s
}

func (e *Engine) nodeView(k pipeline.Kind) NodeView {
	n := e.pipe.Node(k)
	spec, _ := pipeline.Unit(n.ID())
	v := NodeView{
		ID:          n.ID(),
		Name:        spec.Name,
		Tier:        spec.Tier,
		Level:       n.Level(),
		Capacity:    n.Capacity(),
		UpgradeCost: n.UpgradeCost(),
	}
	if next, ok := e.NextUnit(k); ok {
		v.NextUnit = next.ID
		v.NextUnitCost = next.UnlockCost
	}
	return v
}

func (e *Engine) defenseView(c defense.Category) DefenseView {
	v := DefenseView{Category: c}
	nextRank := 1
	if app, ok := e.stack.Deployed(c); ok {
		v.Deployed = true
		v.TierID = app.Tier.ID
		v.Name = app.Tier.Name
		v.Rank = app.Tier.Rank
		v.Level = app.Level
		v.MaxLevel = app.Tier.MaxLevel
		if !app.AtMax() {
			v.UpgradeCost = app.UpgradeCost()
			return v
		}
		nextRank = app.Tier.Rank + 1
	}
	if nextRank <= min(defense.MaxRank, e.rankCap()) {
		id := defense.TierID(c, nextRank)
		if t, ok := defense.GetTier(id); ok {
			v.NextTier = id
			if !e.stack.IsUnlocked(id) {
				v.NextCost = t.UnlockCost
			}
		}
	}
	return v
}
