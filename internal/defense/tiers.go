// Package defense implements the six-category security application stack
// and its aggregate mitigation and economy bonuses.
package defense

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Category is one of the six independent defense lanes.
type Category string

const (
	Antivirus   Category = "antivirus"
	IDS         Category = "ids"
	Encryption  Category = "encryption"
	Honeypot    Category = "honeypot"
	SOAR        Category = "soar"
	ThreatIntel Category = "threatintel"
)

// Categories lists all categories in display order.
var Categories = []Category{Antivirus, IDS, Encryption, Honeypot, SOAR, ThreatIntel}

// MaxRank is the number of tiers per category.
const MaxRank = 6

// Tier is the static definition of one defense application tier.
type Tier struct {
	ID         string
	Category   Category
	Rank       int
	Name       string
	MaxLevel   int
	UnlockCost float64
}

// profile holds per-category, per-level base bonuses at rank 1.
type profile struct {
	points     float64
	reduction  float64
	detection  float64
	automation float64
	intel      float64
	freqReduce float64
	names      [MaxRank]string
}

var profiles = map[Category]profile{
	Antivirus: {points: 10, reduction: 0.02,
		names: [MaxRank]string{"Signature Scanner", "Heuristic AV", "Sandbox AV", "EDR Agent", "XDR Suite", "Autonomous EDR"}},
	IDS: {points: 8, detection: 0.02,
		names: [MaxRank]string{"Port Watcher", "Snort Sensor", "Network IDS", "Behavioral IDS", "AI Anomaly Engine", "Predictive IDS"}},
	Encryption: {points: 8, reduction: 0.015,
		names: [MaxRank]string{"TLS Wrapper", "VPN Gateway", "Disk Crypto", "HSM Cluster", "Zero Trust Mesh", "Post-Quantum Vault"}},
	Honeypot: {points: 6, detection: 0.01, intel: 0.05,
		names: [MaxRank]string{"Fake Share", "Decoy Server", "Honeynet", "Deception Grid", "Adaptive Lure", "Mirror Maze"}},
	SOAR: {points: 6, automation: 0.015,
		names: [MaxRank]string{"Cron Scripts", "Playbook Runner", "SOAR Lite", "Orchestrator", "Auto Responder", "Self-Healing Net"}},
	ThreatIntel: {points: 6, intel: 0.03, freqReduce: 0.01,
		names: [MaxRank]string{"RSS Feeds", "OSINT Collector", "Intel Platform", "ISAC Membership", "Dark Web Monitor", "Global Sensor Grid"}},
}

// TierID formats a tier identifier, e.g. "ids.t3".
func TierID(c Category, rank int) string {
	return fmt.Sprintf("%s.t%d", c, rank)
}

// ParseTierID splits a tier identifier into category and rank.
func ParseTierID(id string) (Category, int, bool) {
	cat, r, ok := strings.Cut(id, ".t")
	if !ok {
		return "", 0, false
	}
	rank, err := strconv.Atoi(r)
	if err != nil || rank < 1 || rank > MaxRank {
		return "", 0, false
	}
	if _, known := profiles[Category(cat)]; !known {
		return "", 0, false
	}
	return Category(cat), rank, true
}

// GetTier returns the tier for id.
func GetTier(id string) (Tier, bool) {
	cat, rank, ok := ParseTierID(id)
	if !ok {
		return Tier{}, false
	}
	return Tier{
		ID:         id,
		Category:   cat,
		Rank:       rank,
		Name:       profiles[cat].names[rank-1],
		MaxLevel:   5 + 3*(rank-1),
		UnlockCost: math.Floor(500 * math.Pow(8, float64(rank-1))),
	}, true
}

// AllTiers returns all 36 tiers ordered by category then rank.
func AllTiers() []Tier {
	out := make([]Tier, 0, len(Categories)*MaxRank)
	for _, c := range Categories {
		for r := 1; r <= MaxRank; r++ {
			t, _ := GetTier(TierID(c, r))
			out = append(out, t)
		}
	}
	return out
}

// Prerequisite returns the tier id that must be unlocked first.
// Rank 1 tiers have none.
func (t Tier) Prerequisite() (string, bool) {
	if t.Rank <= 1 {
		return "", false
	}
	return TierID(t.Category, t.Rank-1), true
}

// ReductionCap is the per-app damage reduction ceiling for this rank.
func (t Tier) ReductionCap() float64 {
	return 0.10 + 0.05*float64(t.Rank-1)
}

// rankMult compounds bonuses with tier rank.
func (t Tier) rankMult() float64 {
	return 1 + 0.25*float64(t.Rank-1)
}

// GlobalReductionCap returns the stack-wide damage reduction ceiling for
// the highest deployed rank.
func GlobalReductionCap(highestRank int) float64 {
	switch {
	case highestRank >= 5:
		return 0.80
	case highestRank >= 3:
		return 0.70
	default:
		return 0.60
	}
}
