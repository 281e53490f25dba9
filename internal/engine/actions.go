package engine

import (
	"github.com/vovakirdan/netops/internal/core"
	"github.com/vovakirdan/netops/internal/defense"
	"github.com/vovakirdan/netops/internal/events"
	"github.com/vovakirdan/netops/internal/intel"
	"github.com/vovakirdan/netops/internal/pipeline"
)

// UpgradeNode raises the level of a production node if affordable.
func (e *Engine) UpgradeNode(k pipeline.Kind) bool {
	n := e.pipe.Node(k)
	if n == nil || !e.spend(n.UpgradeCost()) {
		return false
	}
	e.pipe.Upgrade(k)
	e.cue(CueUpgrade)
	return true
}

// UpgradeGenerator upgrades the source node.
func (e *Engine) UpgradeGenerator() bool { return e.UpgradeNode(pipeline.KindGenerator) }

// UpgradeLink upgrades the transport link.
func (e *Engine) UpgradeLink() bool { return e.UpgradeNode(pipeline.KindLink) }

// UpgradeConverter upgrades the converter.
func (e *Engine) UpgradeConverter() bool { return e.UpgradeNode(pipeline.KindConverter) }

// NextUnit returns the unit that UnlockUnit would install for a lane.
func (e *Engine) NextUnit(k pipeline.Kind) (pipeline.UnitSpec, bool) {
	n := e.pipe.Node(k)
	if n == nil {
		return pipeline.UnitSpec{}, false
	}
	next, ok := pipeline.NextUnit(n.ID())
	if !ok || next.Tier > e.rankCap() {
		return pipeline.UnitSpec{}, false
	}
	return next, true
}

// UnlockUnit buys the next tier of a lane and swaps it in at level 1.
func (e *Engine) UnlockUnit(k pipeline.Kind) bool {
	next, ok := e.NextUnit(k)
	if !ok || !e.spend(next.UnlockCost) {
		return false
	}
	e.pipe.Swap(next)
	e.unlocked[next.ID] = true
	e.logger.Info("unit unlocked", "unit", next.ID)
	e.host.unitUnlocked(next.ID)
	e.cue(CueUpgrade)
	return true
}

// PurchaseFirewall installs a firewall, or upgrades the installed one.
func (e *Engine) PurchaseFirewall() bool {
	if e.firewall == nil {
		if !e.spend(e.balance.Economy.FirewallCost) {
			return false
		}
		e.firewall = pipeline.NewFirewall()
		e.cue(CueUpgrade)
		return true
	}
	if !e.spend(e.firewall.UpgradeCost()) {
		return false
	}
	e.firewall.Upgrade()
	e.cue(CueUpgrade)
	return true
}

// rankCap is the highest defense rank and unit tier available. Outside
// the campaign everything is available.
func (e *Engine) rankCap() int {
	if e.campaign != nil {
		return e.campaign.params.RankCap
	}
	return defense.MaxRank
}

// CanUnlockDefense reports whether a tier can be bought right now.
func (e *Engine) CanUnlockDefense(tierID string) bool {
	t, ok := defense.GetTier(tierID)
	if !ok || t.Rank > e.rankCap() {
		return false
	}
	return e.stack.CanUnlock(tierID) && e.credits >= t.UnlockCost
}

// UnlockDefense buys a defense tier.
func (e *Engine) UnlockDefense(tierID string) bool {
	t, ok := defense.GetTier(tierID)
	if !ok || t.Rank > e.rankCap() || !e.stack.CanUnlock(tierID) {
		e.cue(CueDenied)
		return false
	}
	if !e.spend(t.UnlockCost) {
		return false
	}
	e.stack.Unlock(tierID)
	e.totals = e.stack.Totals()
	e.cue(CueUpgrade)
	return true
}

// DeployDefense deploys an unlocked tier, replacing the category's app.
func (e *Engine) DeployDefense(tierID string) bool {
	if !e.stack.Deploy(tierID) {
		e.cue(CueDenied)
		return false
	}
	e.totals = e.stack.Totals()
	return true
}

// UpgradeDefense levels up the deployed app of a category.
func (e *Engine) UpgradeDefense(c defense.Category) bool {
	app, ok := e.stack.Deployed(c)
	if !ok || app.AtMax() {
		e.cue(CueDenied)
		return false
	}
	if !e.spend(app.UpgradeCost()) {
		return false
	}
	e.stack.Upgrade(c)
	e.totals = e.stack.Totals()
	e.cue(CueUpgrade)
	return true
}

// AdvanceDefense performs the next sensible step for a category: upgrade
// the deployed app, or unlock and deploy the next rank once it is maxed.
func (e *Engine) AdvanceDefense(c defense.Category) bool {
	app, ok := e.stack.Deployed(c)
	if ok && !app.AtMax() {
		return e.UpgradeDefense(c)
	}
	rank := 1
	if ok {
		rank = app.Tier.Rank + 1
	}
	id := defense.TierID(c, rank)
	if !e.stack.IsUnlocked(id) && !e.UnlockDefense(id) {
		return false
	}
	return e.DeployDefense(id)
}

// SendReport spends footprint on one report. Denied while a batch upload
// is running.
func (e *Engine) SendReport() bool {
	if e.batch != nil {
		e.cue(CueDenied)
		return false
	}
	r := e.intel.SendReport(e.intelMultiplier())
	if r == nil {
		e.cue(CueDenied)
		return false
	}
	e.applyReport(r)
	return true
}

// SendAll sends every affordable report, starting a batch upload for
// large sends. Returns false when nothing could be sent.
func (e *Engine) SendAll() bool {
	if e.batch != nil {
		return false
	}
	results, batch := e.intel.SendAll(e.intelMultiplier())
	if batch != nil {
		e.batch = batch
		e.emit(events.BatchStarted{Total: batch.Total, LatencyTicks: batch.LatencyTicks})
		return true
	}
	for _, r := range results {
		e.applyReport(r)
	}
	if len(results) == 0 {
		e.cue(CueDenied)
	}
	return len(results) > 0
}

// CancelBatchUpload stops the running batch. Reports already sent stay sent.
func (e *Engine) CancelBatchUpload() bool {
	return e.cancelBatch("cancelled")
}

func (e *Engine) cancelBatch(reason string) bool {
	if e.batch == nil {
		return false
	}
	b := e.batch
	e.batch = nil
	e.emit(events.BatchCancelled{Sent: b.Sent, Total: b.Total, Reason: reason})
	return true
}

func (e *Engine) applyReport(r *intel.ReportResult) {
	e.earn(r.Reward)
	e.stats.ReportsCash += r.Reward
	for _, m := range r.Milestones {
		e.logger.Info("milestone claimed", "milestone", m.ID, "reward", m.Reward)
		e.emit(events.MilestoneClaimed{ID: m.ID, Reward: m.Reward})
		e.cue(CueMilestone)
	}
}

// Apply maps a semantic action to an engine operation. Actions that need
// a selection (unit lane, defense category) are handled by the host.
func (e *Engine) Apply(a core.Action) bool {
	switch a {
	case core.ActionUpgradeGenerator:
		return e.UpgradeGenerator()
	case core.ActionUpgradeLink:
		return e.UpgradeLink()
	case core.ActionUpgradeConverter:
		return e.UpgradeConverter()
	case core.ActionUpgradeFirewall:
		return e.PurchaseFirewall()
	case core.ActionSendReport:
		return e.SendReport()
	case core.ActionSendAll:
		return e.SendAll()
	case core.ActionCancelBatch:
		return e.CancelBatchUpload()
	case core.ActionPause:
		if e.paused {
			e.Resume()
		} else {
			e.Pause()
		}
		return true
	case core.ActionSave:
		return e.Save() == nil
	}
	return false
}
