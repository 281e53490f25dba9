package bots

import "github.com/vovakirdan/netops/internal/registry"

func init() {
	registry.Register("balanced", func() registry.Strategy { return &Balanced{} })
}

// Balanced widens the pipeline bottleneck, keeps a firewall, rotates
// through the defense lanes once threat rises and holds reports while
// under attack.
type Balanced struct {
	nextDefense int
}

func (*Balanced) ID() string    { return "balanced" }
func (*Balanced) Title() string { return "Balanced" }

func (b *Balanced) Act(p registry.Player) {
	for range maxActionsPerTick {
		if !b.step(p) {
			break
		}
	}
	s := p.Snapshot()
	if s.Attack == nil && s.Batch == nil && s.PendingReports > 0 {
		p.SendReport()
	}
}

// step performs at most one purchase, in priority order.
func (b *Balanced) step(p registry.Player) bool {
	s := p.Snapshot()

	// Firewall first once threats are active.
	if s.ThreatLevel > 1 && s.Firewall == nil && s.FirewallCost <= s.Credits {
		return p.PurchaseFirewall()
	}

	// Widen the narrowest stage of the pipeline.
	ns := nodes(s)
	low := 0
	for i, n := range ns {
		if n.Capacity < ns[low].Capacity {
			low = i
		}
	}
	n := ns[low]
	if n.NextUnit != "" && n.NextUnitCost <= s.Credits && n.NextUnitCost < n.UpgradeCost*4 {
		return p.UnlockUnit(lanes[low])
	}
	if n.UpgradeCost <= s.Credits {
		return p.UpgradeNode(lanes[low])
	}

	// Spend surplus on defense, keeping a reserve for the bottleneck.
	if s.ThreatLevel > 1 && len(s.Defense) > 0 {
		d := s.Defense[b.nextDefense%len(s.Defense)]
		cost := d.UpgradeCost
		if cost == 0 {
			cost = d.NextCost
		}
		if (d.UpgradeCost > 0 || d.NextTier != "") && cost+n.UpgradeCost <= s.Credits {
			b.nextDefense++
			return p.AdvanceDefense(d.Category)
		}
	}
	return false
}
