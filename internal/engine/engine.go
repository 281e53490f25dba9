// Package engine orchestrates the tick-driven simulation: production,
// threats, intelligence, campaign levels and persistence. An Engine has a
// single writer; only the persistence and cloud sync goroutines run
// concurrently, and they work on deep copies.
package engine

import (
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/netops/internal/cloudsync"
	"github.com/vovakirdan/netops/internal/config"
	"github.com/vovakirdan/netops/internal/core"
	"github.com/vovakirdan/netops/internal/defense"
	"github.com/vovakirdan/netops/internal/events"
	"github.com/vovakirdan/netops/internal/intel"
	"github.com/vovakirdan/netops/internal/offline"
	"github.com/vovakirdan/netops/internal/pipeline"
	"github.com/vovakirdan/netops/internal/save"
	"github.com/vovakirdan/netops/internal/threat"
)

const recentEvents = 8

// Options configures an Engine. Zero values select defaults; every
// collaborator is optional.
type Options struct {
	Balance  *config.Balance
	Campaign *config.Campaign
	Seed     int64

	Logger   *log.Logger
	Rand     core.Rand
	Clock    core.Clock
	Host     Host
	Feedback Feedback
	IDSource func() string // Attack and run ids; defaults to uuid

	Saves *save.Manager
	Cloud *cloudsync.Syncer
	Runs  RunSaver
}

// Engine is the game state plus the services that act on it.
type Engine struct {
	balance    config.Balance
	difficulty *config.DifficultyManager
	logger     *log.Logger
	rng        core.Rand
	clock      core.Clock
	host       safeHost
	feedback   Feedback
	newID      func() string
	estimator  *offline.Estimator

	saves *save.Manager
	cloud *cloudsync.Syncer
	runs  RunSaver

	credits     float64
	totalEarned float64
	tick        int64
	playSeconds float64
	lastSave    time.Time

	pipe     *pipeline.Pipeline
	firewall *pipeline.Firewall
	unlocked map[string]bool
	stack    *defense.Stack
	threat   *threat.State
	resolver *threat.Resolver
	intel    *intel.Intelligence
	batch    *intel.BatchUpload
	lore     map[string]bool
	stats    save.Stats

	// Per-tick transient state.
	totals   defense.Totals
	debuff   threat.DamageResult
	random   *randomEvent
	lastStep pipeline.StepResult
	recent   []string

	debugProduction float64
	debugCredits    float64

	campaign *campaignRun
	paused   bool

	persistWG   sync.WaitGroup
	persistMu   sync.Mutex
	persistSeq  uint64
	persistLast map[saveSlot]uint64 // Guarded by persistMu
}

// New creates an engine holding a fresh game.
func New(opts Options) *Engine {
	balance := config.DefaultBalance()
	if opts.Balance != nil {
		balance = *opts.Balance
	}
	campaign := config.DefaultCampaign()
	if opts.Campaign != nil {
		campaign = *opts.Campaign
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Rand == nil {
		opts.Rand = core.NewRand(opts.Seed)
	}
	if opts.Clock == nil {
		opts.Clock = core.RealClock{}
	}
	if opts.Host == nil {
		opts.Host = NopHost{}
	}
	if opts.Feedback == nil {
		opts.Feedback = nopFeedback{}
	}
	if opts.IDSource == nil {
		opts.IDSource = uuid.NewString
	}

	e := &Engine{
		balance:         balance,
		difficulty:      config.NewDifficultyManager(campaign),
		logger:          opts.Logger,
		rng:             opts.Rand,
		clock:           opts.Clock,
		host:            safeHost{host: opts.Host, logger: opts.Logger},
		feedback:        opts.Feedback,
		newID:           opts.IDSource,
		estimator:       offline.NewEstimator(balance.Offline),
		saves:           opts.Saves,
		cloud:           opts.Cloud,
		runs:            opts.Runs,
		debugProduction: 1,
		debugCredits:    1,
		persistLast:     make(map[saveSlot]uint64),
	}
	e.resolver = threat.NewResolver(balance.Threat, e.rng)
	e.resolver.SetIDSource(e.newID)
	e.restore(save.NewGameState(balance.Economy.StartingCredits))
	return e
}

// Balance returns the active balance configuration.
func (e *Engine) Balance() config.Balance {
	return e.balance
}

// Levels returns the campaign level table.
func (e *Engine) Levels() []config.LevelConfig {
	return e.difficulty.Levels()
}

// Credits returns the current balance.
func (e *Engine) Credits() float64 {
	return e.credits
}

// TickCount returns the number of ticks simulated.
func (e *Engine) TickCount() int64 {
	return e.tick
}

// SetDebugMultipliers scales production and credit income. Values ≤ 0
// reset the multiplier to 1.
func (e *Engine) SetDebugMultipliers(production, credits float64) {
	if production <= 0 {
		production = 1
	}
	if credits <= 0 {
		credits = 1
	}
	e.debugProduction = production
	e.debugCredits = credits
}

// Export returns the persisted form of the current game. Transient state
// (latency buffer, cached totals, random event, batch upload) is omitted.
func (e *Engine) Export() *save.GameState {
	st := &save.GameState{
		Version:       save.CurrentVersion,
		Credits:       e.credits,
		TotalEarned:   e.totalEarned,
		TickCount:     e.tick,
		PlaySeconds:   e.playSeconds,
		Units:         e.exportUnits(),
		Buffer:        e.pipe.Converter.Buffer(),
		Firewall:      e.exportFirewall(),
		UnlockedUnits: e.unlockedUnits(),
		Defense:       e.stack.Export(),
		Threat: save.ThreatState{
			Level:           e.threat.CurrentLevel,
			AttacksSurvived: e.threat.AttacksSurvived,
			AttacksBlocked:  e.threat.AttacksBlocked,
			DamageReceived:  e.threat.DamageReceived,
			Active:          exportAttack(e.threat.Active),
			Warning:         exportWarning(e.threat.Warning),
		},
		Intel: exportIntel(e.intel),
		Lore:  e.loreIDs(),
		Stats: e.stats,
	}
	if !e.lastSave.IsZero() {
		st.LastSaveUnix = e.lastSave.Unix()
	}
	return st
}

func exportAttack(a *threat.Attack) *save.AttackState {
	if a == nil {
		return nil
	}
	return &save.AttackState{
		ID:             a.ID,
		Type:           a.Type.ID,
		Severity:       a.Severity,
		Duration:       a.Duration,
		TicksRemaining: a.TicksRemaining,
		DamageDealt:    a.DamageDealt,
		Blocked:        a.Blocked,
	}
}

func exportWarning(w *threat.EarlyWarning) *save.WarningState {
	if w == nil {
		return nil
	}
	return &save.WarningState{
		Predicted: w.Predicted.ID,
		Severity:  w.Severity,
		Countdown: w.Countdown,
		Accuracy:  w.Accuracy,
	}
}

// importThreat rebuilds an in-flight attack and warning. Unknown attack
// types are dropped.
func importThreat(s *threat.State, st save.ThreatState) {
	if a := st.Active; a != nil {
		if t, ok := threat.GetAttackType(a.Type); ok {
			s.Active = &threat.Attack{
				ID:             a.ID,
				Type:           t,
				Severity:       a.Severity,
				Duration:       a.Duration,
				TicksRemaining: a.TicksRemaining,
				DamageDealt:    a.DamageDealt,
				Blocked:        a.Blocked,
			}
		}
	}
	if w := st.Warning; w != nil {
		if t, ok := threat.GetAttackType(w.Predicted); ok {
			s.Warning = &threat.EarlyWarning{
				Predicted: t,
				Severity:  w.Severity,
				Countdown: w.Countdown,
				Accuracy:  w.Accuracy,
			}
		}
	}
}

func (e *Engine) exportUnits() save.UnitsState {
	return save.UnitsState{
		Generator: save.UnitState{ID: e.pipe.Generator.ID(), Level: e.pipe.Generator.Level()},
		Link:      save.UnitState{ID: e.pipe.Link.ID(), Level: e.pipe.Link.Level()},
		Converter: save.UnitState{ID: e.pipe.Converter.ID(), Level: e.pipe.Converter.Level()},
	}
}

func (e *Engine) exportFirewall() *save.FirewallState {
	if e.firewall == nil {
		return nil
	}
	return &save.FirewallState{Level: e.firewall.Level(), Health: e.firewall.Health()}
}

func (e *Engine) unlockedUnits() []string {
	out := make([]string, 0, len(e.unlocked))
	for id := range e.unlocked {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (e *Engine) loreIDs() []string {
	out := make([]string, 0, len(e.lore))
	for _, l := range e.balance.Lore {
		if e.lore[l.ID] {
			out = append(out, l.ID)
		}
	}
	return out
}

func exportIntel(in *intel.Intelligence) save.IntelState {
	return save.IntelState{
		Footprint:          in.Footprint,
		ReportsSent:        in.ReportsSent,
		Claimed:            in.Claimed(),
		Signatures:         in.Signatures(),
		PatternsIdentified: in.PatternsIdentified,
		PatternProgress:    in.PatternProgress,
	}
}

func importIntel(st save.IntelState) *intel.Intelligence {
	in := intel.New()
	in.Footprint = st.Footprint
	in.ReportsSent = st.ReportsSent
	in.PatternsIdentified = st.PatternsIdentified
	in.PatternProgress = st.PatternProgress
	for _, id := range st.Claimed {
		if _, ok := intel.GetMilestone(id); ok {
			in.ClaimedMilestones[id] = true
		}
	}
	for _, s := range st.Signatures {
		in.KnownSignatures[s] = true
	}
	in.Sanitize()
	return in
}

// restore replaces the whole game with st. The state is sanitized first.
func (e *Engine) restore(st *save.GameState) {
	st = st.Clone()
	st.Sanitize()

	e.credits = st.Credits
	e.totalEarned = st.TotalEarned
	e.tick = st.TickCount
	e.playSeconds = st.PlaySeconds
	e.lastSave = time.Time{}
	if st.LastSaveUnix > 0 {
		e.lastSave = time.Unix(st.LastSaveUnix, 0)
	}

	e.pipe = buildPipeline(st.Units, st.Buffer)
	e.firewall = buildFirewall(st.Firewall)
	e.unlocked = make(map[string]bool, len(st.UnlockedUnits))
	for _, id := range st.UnlockedUnits {
		if _, ok := pipeline.Unit(id); ok {
			e.unlocked[id] = true
		}
	}
	e.stack = defense.Restore(st.Defense)

	e.threat = threat.NewState()
	e.threat.CurrentLevel = st.Threat.Level
	e.threat.AttacksSurvived = st.Threat.AttacksSurvived
	e.threat.AttacksBlocked = st.Threat.AttacksBlocked
	e.threat.DamageReceived = st.Threat.DamageReceived
	importThreat(e.threat, st.Threat)

	e.intel = importIntel(st.Intel)
	e.batch = nil
	e.lore = make(map[string]bool, len(st.Lore))
	for _, id := range st.Lore {
		e.lore[id] = true
	}
	e.stats = st.Stats

	e.resetTransient()
}

func (e *Engine) resetTransient() {
	e.pipe.ResetTransient()
	e.totals = e.stack.Totals()
	e.threat.NetDefense = threat.ComputeNetDefense(e.firewall, e.totals.DefensePoints)
	e.debuff = threat.DamageResult{}
	e.random = nil
	e.lastStep = pipeline.StepResult{}
}

func buildPipeline(u save.UnitsState, buffer float64) *pipeline.Pipeline {
	p, err := pipeline.New(u.Generator.ID, u.Link.ID, u.Converter.ID)
	if err != nil {
		p = pipeline.NewStarter()
		return p
	}
	p.Generator.SetLevel(u.Generator.Level)
	p.Link.SetLevel(u.Link.Level)
	p.Converter.SetLevel(u.Converter.Level)
	p.Converter.SetBuffer(buffer)
	return p
}

func buildFirewall(st *save.FirewallState) *pipeline.Firewall {
	if st == nil {
		return nil
	}
	fw := pipeline.NewFirewall()
	fw.Restore(st.Level, st.Health)
	if fw.Destroyed() {
		return nil
	}
	return fw
}

// emit logs an event, keeps it for the snapshot and forwards it to the host.
func (e *Engine) emit(ev events.Event) {
	msg := events.Describe(ev)
	e.logger.Debug("event", "tick", e.tick, "msg", msg)
	e.recent = append(e.recent, msg)
	if len(e.recent) > recentEvents {
		e.recent = e.recent[len(e.recent)-recentEvents:]
	}
	e.host.gameEvent(ev)
}

func (e *Engine) cue(c Cue) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("feedback panicked", "panic", r)
		}
	}()
	e.feedback.Play(c)
}

// spend removes cost from the balance if affordable.
func (e *Engine) spend(cost float64) bool {
	if cost < 0 || e.credits < cost {
		e.cue(CueDenied)
		return false
	}
	e.credits -= cost
	return true
}
