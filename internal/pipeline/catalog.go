package pipeline

import (
	"fmt"
	"math"
)

// Kind identifies a pipeline stage.
type Kind string

const (
	KindGenerator Kind = "gen"
	KindLink      Kind = "link"
	KindConverter Kind = "conv"
	KindFirewall  Kind = "fw"
)

// MaxTier is the highest unit tier per kind.
const MaxTier = 6

// UnitSpec is the static definition of a pipeline unit.
type UnitSpec struct {
	ID             string
	Kind           Kind
	Tier           int
	Name           string
	BaseRate       float64 // Generator output, link bandwidth or converter processing per tick
	BaseCapacity   float64 // Converter buffer size at level 1
	Latency        int     // Link delay in ticks
	ConversionRate float64 // Credits per processed unit
	BaseCost       float64 // Upgrade cost at level 1
	UnlockCost     float64
}

// unitID formats the catalog id for a kind and tier, e.g. "gen.t1".
func unitID(k Kind, tier int) string {
	return fmt.Sprintf("%s.t%d", k, tier)
}

var (
	tierNames = map[Kind][MaxTier]string{
		KindGenerator: {"Packet Sniffer", "Traffic Mirror", "Honeynet Tap", "Darknet Crawler", "Backbone Probe", "Quantum Listener"},
		KindLink:      {"Copper Line", "DSL Trunk", "Fiber Pair", "Dark Fiber", "Satellite Mesh", "Entangled Link"},
		KindConverter: {"Log Parser", "Packet Analyzer", "SIEM Node", "ML Classifier", "Threat Lab", "Neural Core"},
	}
	// Per-kind level-1 figures for tier 1; each tier multiplies by tierGrowth.
	baseRates    = map[Kind]float64{KindGenerator: 8, KindLink: 10, KindConverter: 10}
	baseCosts    = map[Kind]float64{KindGenerator: 25, KindLink: 30, KindConverter: 35}
	linkLatency  = [MaxTier]int{2, 2, 1, 1, 0, 0}
	convRates    = [MaxTier]float64{1.0, 1.2, 1.5, 2.0, 2.5, 3.0}
	unlockCosts  = [MaxTier]float64{0, 2000, 20000, 200000, 2000000, 20000000}
	tierGrowth   = 5.0
	costGrowth   = 8.0
	bufferFactor = 5.0 // Converter buffer holds this many ticks of processing
)

var catalog = buildCatalog()

func buildCatalog() map[string]UnitSpec {
	out := make(map[string]UnitSpec)
	for _, k := range []Kind{KindGenerator, KindLink, KindConverter} {
		for tier := 1; tier <= MaxTier; tier++ {
			scale := math.Pow(tierGrowth, float64(tier-1))
			spec := UnitSpec{
				ID:         unitID(k, tier),
				Kind:       k,
				Tier:       tier,
				Name:       tierNames[k][tier-1],
				BaseRate:   baseRates[k] * scale,
				BaseCost:   baseCosts[k] * math.Pow(costGrowth, float64(tier-1)),
				UnlockCost: unlockCosts[tier-1],
			}
			switch k {
			case KindLink:
				spec.Latency = linkLatency[tier-1]
			case KindConverter:
				spec.BaseCapacity = spec.BaseRate * bufferFactor
				spec.ConversionRate = convRates[tier-1]
			}
			out[spec.ID] = spec
		}
	}
	return out
}

// Unit returns the catalog entry for id.
func Unit(id string) (UnitSpec, bool) {
	s, ok := catalog[id]
	return s, ok
}

// Units returns all specs of a kind ordered by tier.
func Units(k Kind) []UnitSpec {
	out := make([]UnitSpec, 0, MaxTier)
	for tier := 1; tier <= MaxTier; tier++ {
		if s, ok := catalog[unitID(k, tier)]; ok {
			out = append(out, s)
		}
	}
	return out
}

// NextUnit returns the unit one tier above id, if any.
func NextUnit(id string) (UnitSpec, bool) {
	s, ok := catalog[id]
	if !ok || s.Tier >= MaxTier {
		return UnitSpec{}, false
	}
	return Unit(unitID(s.Kind, s.Tier+1))
}

// StarterUnit returns the tier 1 unit id for a kind.
func StarterUnit(k Kind) string {
	return unitID(k, 1)
}
