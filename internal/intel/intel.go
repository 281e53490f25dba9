// Package intel implements the intelligence sub-economy: footprint
// collection, pattern identification, reports, milestones and batch upload.
package intel

import (
	"math"
	"sort"
)

const (
	baseReportCost    = 200.0
	reportCostGrowth  = 1.05
	baseReportReward  = 50.0
	patternRewardStep = 0.1
	patternThreshold  = 5.0
	maxPending        = 1000
)

// Intelligence is the persistent intel state. ReportsSent and
// ClaimedMilestones only grow; Footprint is never negative.
type Intelligence struct {
	Footprint          float64         `json:"footprint"`
	ReportsSent        int             `json:"reports_sent"`
	ClaimedMilestones  map[string]bool `json:"claimed_milestones"`
	KnownSignatures    map[string]bool `json:"known_signatures"`
	PatternsIdentified int             `json:"patterns_identified"`
	PatternProgress    float64         `json:"pattern_progress"`
}

// New returns empty intelligence.
func New() *Intelligence {
	return &Intelligence{
		ClaimedMilestones: make(map[string]bool),
		KnownSignatures:   make(map[string]bool),
	}
}

// Clone returns a deep copy.
func (in *Intelligence) Clone() *Intelligence {
	out := *in
	out.ClaimedMilestones = make(map[string]bool, len(in.ClaimedMilestones))
	for k, v := range in.ClaimedMilestones {
		out.ClaimedMilestones[k] = v
	}
	out.KnownSignatures = make(map[string]bool, len(in.KnownSignatures))
	for k, v := range in.KnownSignatures {
		out.KnownSignatures[k] = v
	}
	return &out
}

// Sanitize clamps values that may come from older or corrupt saves.
func (in *Intelligence) Sanitize() {
	if math.IsNaN(in.Footprint) || in.Footprint < 0 {
		in.Footprint = 0
	}
	if math.IsNaN(in.PatternProgress) || in.PatternProgress < 0 {
		in.PatternProgress = 0
	}
	in.ReportsSent = max(0, in.ReportsSent)
	in.PatternsIdentified = max(0, in.PatternsIdentified)
	if in.ClaimedMilestones == nil {
		in.ClaimedMilestones = make(map[string]bool)
	}
	if in.KnownSignatures == nil {
		in.KnownSignatures = make(map[string]bool)
	}
}

// Bonuses sums the passive bonuses of claimed milestones.
func (in *Intelligence) Bonuses() Bonuses {
	var b Bonuses
	for _, m := range Milestones {
		if in.ClaimedMilestones[m.ID] {
			b.add(m)
		}
	}
	return b
}

// Claimed returns claimed milestone ids in threshold order.
func (in *Intelligence) Claimed() []string {
	var out []string
	for _, m := range Milestones {
		if in.ClaimedMilestones[m.ID] {
			out = append(out, m.ID)
		}
	}
	return out
}

// Signatures returns known signatures, sorted.
func (in *Intelligence) Signatures() []string {
	out := make([]string, 0, len(in.KnownSignatures))
	for s := range in.KnownSignatures {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// AddFootprint stores amount × (1 + detectionMultiplier + collection bonus)
// and returns the stored amount.
func (in *Intelligence) AddFootprint(amount, detectionMultiplier float64) float64 {
	if amount <= 0 || math.IsNaN(amount) {
		return 0
	}
	gained := amount * (1 + math.Max(0, detectionMultiplier) + in.Bonuses().IntelRate)
	in.Footprint += gained
	return gained
}

// RecordSignature adds an attack signature and reports whether it was new.
func (in *Intelligence) RecordSignature(id string) bool {
	if in.KnownSignatures == nil {
		in.KnownSignatures = make(map[string]bool)
	}
	if in.KnownSignatures[id] {
		return false
	}
	in.KnownSignatures[id] = true
	return true
}

// AddPatternProgress advances pattern identification for one resolved
// attack and returns the number of new patterns identified.
func (in *Intelligence) AddPatternProgress(amount float64) int {
	if amount <= 0 {
		return 0
	}
	in.PatternProgress += amount * (1 + in.Bonuses().PatternSpeed)
	found := 0
	for in.PatternProgress >= patternThreshold {
		in.PatternProgress -= patternThreshold
		in.PatternsIdentified++
		found++
	}
	return found
}

// ReportCost returns the footprint needed for the next report.
func (in *Intelligence) ReportCost() float64 {
	return reportCostAt(in.ReportsSent)
}

func reportCostAt(sent int) float64 {
	return math.Floor(baseReportCost * math.Pow(reportCostGrowth, float64(sent)))
}

// ReportResult is the outcome of one successful report.
type ReportResult struct {
	Cost       float64
	Reward     float64 // Credits, including milestone rewards
	Milestones []Milestone
}

// SendReport spends footprint on one report. It returns nil and changes
// nothing when footprint is insufficient.
func (in *Intelligence) SendReport(intelMultiplier float64) *ReportResult {
	cost := in.ReportCost()
	if in.Footprint < cost {
		return nil
	}
	if intelMultiplier <= 0 {
		intelMultiplier = 1
	}
	if in.ClaimedMilestones == nil {
		in.ClaimedMilestones = make(map[string]bool)
	}

	in.Footprint = math.Max(0, in.Footprint-cost)
	in.ReportsSent++
	res := &ReportResult{
		Cost:   cost,
		Reward: baseReportReward * (1 + patternRewardStep*float64(in.PatternsIdentified)) * intelMultiplier,
	}
	for _, m := range Milestones {
		if m.Reports <= in.ReportsSent && !in.ClaimedMilestones[m.ID] {
			in.ClaimedMilestones[m.ID] = true
			res.Reward += m.Reward
			res.Milestones = append(res.Milestones, m)
		}
	}
	return res
}

// PendingReports counts how many reports the current footprint affords.
func (in *Intelligence) PendingReports() int {
	budget := in.Footprint
	n := 0
	for n < maxPending {
		cost := reportCostAt(in.ReportsSent + n)
		if budget < cost {
			break
		}
		budget -= cost
		n++
	}
	return n
}
