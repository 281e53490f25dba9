package bots

import (
	"github.com/vovakirdan/netops/internal/engine"
	"github.com/vovakirdan/netops/internal/pipeline"
	"github.com/vovakirdan/netops/internal/registry"
)

func init() {
	registry.Register("greedy", func() registry.Strategy { return &Greedy{} })
}

// maxActionsPerTick bounds how much a strategy buys in one tick.
const maxActionsPerTick = 16

// Greedy always buys the cheapest affordable node upgrade or unit and
// cashes in reports as soon as they are ready. It ignores defense.
type Greedy struct{}

func (*Greedy) ID() string    { return "greedy" }
func (*Greedy) Title() string { return "Greedy" }

func (g *Greedy) Act(p registry.Player) {
	for range maxActionsPerTick {
		if !buyCheapest(p) {
			break
		}
	}
	if p.Snapshot().PendingReports > 0 {
		p.SendAll()
	}
}

// purchase is one candidate buy.
type purchase struct {
	cost float64
	do   func() bool
}

// buyCheapest performs the cheapest affordable node purchase.
func buyCheapest(p registry.Player) bool {
	s := p.Snapshot()
	var best *purchase
	consider := func(cost float64, do func() bool) {
		if cost <= 0 || cost > s.Credits {
			return
		}
		if best == nil || cost < best.cost {
			best = &purchase{cost: cost, do: do}
		}
	}

	for i, n := range nodes(s) {
		kind := lanes[i]
		consider(n.UpgradeCost, func() bool { return p.UpgradeNode(kind) })
		if n.NextUnit != "" {
			consider(n.NextUnitCost, func() bool { return p.UnlockUnit(kind) })
		}
	}
	if best == nil {
		return false
	}
	return best.do()
}

var lanes = []pipeline.Kind{pipeline.KindGenerator, pipeline.KindLink, pipeline.KindConverter}

func nodes(s engine.Snapshot) []engine.NodeView {
	return []engine.NodeView{s.Generator, s.Link, s.Converter}
}
