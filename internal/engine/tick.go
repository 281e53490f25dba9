package engine

import (
	"math"

	"github.com/vovakirdan/netops/internal/events"
	"github.com/vovakirdan/netops/internal/pipeline"
	"github.com/vovakirdan/netops/internal/threat"
)

// Tick advances the simulation by one step. Phases run in a fixed order:
// firewall regeneration, defense totals, threats, random events, batch
// upload, latency drain, production, cumulative stats, net defense,
// periodic checks and periodic persistence.
func (e *Engine) Tick() {
	e.applyCloudResults()
	if e.paused {
		return
	}

	if e.firewall != nil {
		e.firewall.Regenerate()
	}
	e.totals = e.stack.Totals()

	e.resolveThreats()
	e.advanceRandomEvent()
	e.advanceBatch()

	e.pipe.Drain()
	e.produce()

	e.tick++
	e.playSeconds += e.balance.Tick.Interval().Seconds()
	if e.campaign != nil {
		e.campaign.ticks++
	}
	if e.threat.UpdateLevel(e.totalEarned, e.balance.Economy.ThreatLevelEarnings) {
		e.logger.Info("threat escalated", "level", e.threat.CurrentLevel)
		e.emit(events.ThreatEscalated{Level: e.threat.CurrentLevel})
	}
	e.threat.NetDefense = threat.ComputeNetDefense(e.firewall, e.totals.DefensePoints)

	if every(e.tick, e.balance.Tick.PeriodicEvery) {
		e.periodic()
	}
	if every(e.tick, e.balance.Tick.PersistEvery) {
		e.persist()
	}
}

func every(tick int64, n int) bool {
	return n > 0 && tick%int64(n) == 0
}

// threatParams assembles the resolver inputs from the current state.
func (e *Engine) threatParams() threat.Params {
	bonuses := e.intel.Bonuses()
	p := threat.Params{
		Totals:              e.totals,
		Firewall:            e.firewall,
		Exposure:            e.pipe.Throughput(pipeline.Neutral()),
		FrequencyMultiplier: 1,
		FrequencyReduction:  e.totals.FrequencyReduction + bonuses.FrequencyReduction,
		MinimumChance:       e.balance.Threat.MinimumChance,
		ThreatScale:         1,
		DamageMultiplier:    1,
		WarningBonus:        bonuses.EarlyWarning,
		CreditProtection:    bonuses.DamageReduction,
	}
	if c := e.campaign; c != nil {
		p.FrequencyMultiplier = c.params.FrequencyMultiplier
		p.FrequencyReduction += c.params.FrequencyReduction
		p.MinimumChance = c.params.MinimumChance
		p.ThreatScale = c.params.ThreatScale
		p.DamageMultiplier = c.params.DamageMultiplier
		p.GraceActive = c.ticks < c.params.GraceTicks
	}
	return p
}

func (e *Engine) resolveThreats() {
	out := e.resolver.Tick(e.threat, e.threatParams())

	e.debuff = threat.DamageResult{}
	if d := out.Damage; d != nil {
		e.debuff = *d
		drained := math.Min(e.credits, d.Drained)
		e.credits -= drained
		e.stats.DamageTaken += drained
	}
	if out.FirewallDestroyed {
		e.firewall = nil
		e.logger.Warn("firewall destroyed", "tick", e.tick)
		e.emit(events.FirewallDestroyed{})
	}

	switch {
	case out.Started != nil:
		a := out.Started
		e.logger.Info("attack started", "type", a.Type.ID, "severity", a.Severity, "id", a.ID)
		e.emit(events.AttackStarted{
			ID:       a.ID,
			Type:     a.Type.ID,
			Name:     a.Type.Name,
			Severity: a.Severity,
			Duration: a.Duration,
		})
		e.cue(CueAttack)
		e.cancelBatch("attack")
	case out.Warning != nil:
		w := out.Warning
		e.emit(events.EarlyWarning{Type: w.Predicted.ID, Countdown: w.Countdown, Accuracy: w.Accuracy})
	case out.FalseAlarm != nil:
		e.emit(events.FalseAlarm{Type: out.FalseAlarm.Predicted.ID})
	case out.Blocked != nil:
		e.emit(events.AttackBlocked{Type: out.Blocked.ID})
	}

	if a := out.Resolved; a != nil {
		gained := e.intel.AddFootprint(out.Footprint, e.totals.Detection)
		e.logger.Info("attack resolved", "type", a.Type.ID, "damage", a.DamageDealt, "blocked", a.Blocked)
		e.emit(events.AttackResolved{
			ID:        a.ID,
			Type:      a.Type.ID,
			Damage:    a.DamageDealt,
			Blocked:   a.Blocked,
			Footprint: gained,
		})
		if e.intel.RecordSignature(a.Type.ID) {
			e.emit(events.SignatureLearned{Type: a.Type.ID})
		}
		if n := e.intel.AddPatternProgress(1); n > 0 {
			e.emit(events.PatternIdentified{Total: e.intel.PatternsIdentified})
		}
		e.cue(CueAttackOver)
	}
}

func (e *Engine) intelMultiplier() float64 {
	return 1 + e.totals.IntelBonus
}

func (e *Engine) advanceBatch() {
	if e.batch == nil {
		return
	}
	step := e.intel.AdvanceBatch(e.batch, e.intelMultiplier())
	for _, r := range step.Results {
		e.applyReport(r)
	}
	if step.Done {
		b := e.batch
		e.batch = nil
		e.emit(events.BatchCompleted{Sent: b.Sent, Total: b.Total, Early: step.Early})
	}
}

// produce runs one pipeline step under the current modifiers.
func (e *Engine) produce() {
	surge, fault := e.eventModifiers()
	mods := pipeline.Modifiers{
		Production: surge * e.debugProduction,
		Bandwidth:  fault * (1 - e.debuff.Bandwidth),
		Processing: 1 - e.debuff.Processing,
		Credits:    e.debugCredits,
	}
	r := e.pipe.Step(mods)
	e.lastStep = r
	e.earn(r.Credits)

	e.stats.Generated += r.Generated
	e.stats.Transferred += r.Transferred
	e.stats.Dropped += r.Dropped
	e.stats.Lost += r.Lost
	e.stats.Processed += r.Processed
}

// earn adds income to the balance and the cumulative counters.
func (e *Engine) earn(amount float64) {
	if amount <= 0 || math.IsNaN(amount) {
		return
	}
	e.credits += amount
	e.totalEarned += amount
	if e.campaign != nil {
		e.campaign.earned += amount
	}
}

// periodic runs the lore and campaign checks.
func (e *Engine) periodic() {
	for _, l := range e.balance.Lore {
		if e.lore[l.ID] || e.totalEarned < l.Threshold {
			continue
		}
		e.lore[l.ID] = true
		e.emit(events.LoreUnlocked{ID: l.ID})
	}
	e.checkLevel()
}
