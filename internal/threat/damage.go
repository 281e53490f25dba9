package threat

import (
	"math"

	"github.com/vovakirdan/netops/internal/pipeline"
)

const (
	// MaxReduction bounds the combined reduction against a single attack.
	MaxReduction     = 0.90
	maxStackShare    = 0.65
	maxCreditProtect = 0.90
	maxDebuff        = 0.90
)

// DamageInput is the context for one tick of layered damage.
type DamageInput struct {
	Raw              DamageVector
	DamageMultiplier float64
	NetReduction     float64
	StackReduction   float64
	Firewall         *pipeline.Firewall
	CreditProtection float64
}

// DamageResult describes how one tick of damage was mitigated.
type DamageResult struct {
	RawCredits       float64 // After the damage multiplier
	BlendReduction   float64
	FirewallReduced  float64
	FirewallAbsorbed float64
	Protected        float64
	Drained          float64 // Credits to remove from the balance
	Blocked          float64 // RawCredits − Drained
	Reduction        float64 // Combined multiplicative reduction
	Bandwidth        float64 // Debuff fractions for this tick
	Processing       float64
}

// BlendReduction combines net defense and stack reduction with
// diminishing returns.
func BlendReduction(net, stack float64) float64 {
	net = clamp01(net)
	stack = math.Min(maxStackShare, clamp01(stack))
	return math.Min(MaxReduction, net+(1-net)*stack)
}

// ApplyDamage runs one tick of damage through the mitigation layers:
// blend, firewall reduction, firewall absorption, then credit protection.
// Each layer only takes what is left under MaxReduction.
func ApplyDamage(in DamageInput) DamageResult {
	mult := in.DamageMultiplier
	if mult <= 0 {
		mult = 1
	}
	var r DamageResult
	r.RawCredits = math.Max(0, in.Raw.Credits*mult)
	r.BlendReduction = BlendReduction(in.NetReduction, in.StackReduction)

	pass := 1 - r.BlendReduction
	fwRed := 0.0
	if in.Firewall != nil {
		fwRed = headroom(in.Firewall.Reduction(), pass)
	}
	pass *= 1 - fwRed
	protect := headroom(math.Min(maxCreditProtect, clamp01(in.CreditProtection)), pass)
	r.Reduction = 1 - pass*(1-protect)

	afterBlend := r.RawCredits * (1 - r.BlendReduction)
	afterFw := afterBlend * (1 - fwRed)
	r.FirewallReduced = afterBlend - afterFw
	if in.Firewall != nil {
		r.FirewallAbsorbed = in.Firewall.Absorb(afterFw)
	}
	remaining := afterFw - r.FirewallAbsorbed
	r.Drained = remaining * (1 - protect)
	r.Protected = remaining - r.Drained
	r.Blocked = r.RawCredits - r.Drained

	r.Bandwidth = math.Min(maxDebuff, math.Max(0, in.Raw.Bandwidth*mult)*(1-r.BlendReduction))
	r.Processing = math.Min(maxDebuff, math.Max(0, in.Raw.Processing*mult)*(1-r.BlendReduction))
	return r
}

// headroom limits a reduction so the pass-through share stays at or above
// 1 − MaxReduction.
func headroom(reduction, pass float64) float64 {
	reduction = clamp01(reduction)
	if pass <= 0 {
		return 0
	}
	limit := 1 - (1-MaxReduction)/pass
	if limit <= 0 {
		return 0
	}
	return math.Min(reduction, limit)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
