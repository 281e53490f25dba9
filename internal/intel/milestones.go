package intel

// BonusKind is the passive bonus a milestone unlocks.
type BonusKind string

const (
	BonusIntelRate          BonusKind = "intel_rate"
	BonusPatternSpeed       BonusKind = "pattern_speed"
	BonusEarlyWarning       BonusKind = "early_warning"
	BonusDamageReduction    BonusKind = "damage_reduction"
	BonusFrequencyReduction BonusKind = "frequency_reduction"
)

// Milestone is a one-time report-count threshold.
type Milestone struct {
	ID      string
	Reports int
	Reward  float64 // One-time credits
	Kind    BonusKind
	Value   float64
}

// Milestones are ordered by Reports.
var Milestones = []Milestone{
	{ID: "first_report", Reports: 1, Reward: 100, Kind: BonusIntelRate, Value: 0.05},
	{ID: "informant", Reports: 5, Reward: 500, Kind: BonusPatternSpeed, Value: 0.25},
	{ID: "analyst", Reports: 10, Reward: 1500, Kind: BonusEarlyWarning, Value: 0.05},
	{ID: "trusted_source", Reports: 25, Reward: 5000, Kind: BonusDamageReduction, Value: 0.05},
	{ID: "field_agent", Reports: 50, Reward: 15000, Kind: BonusFrequencyReduction, Value: 0.05},
	{ID: "station_chief", Reports: 100, Reward: 50000, Kind: BonusIntelRate, Value: 0.10},
	{ID: "spymaster", Reports: 250, Reward: 200000, Kind: BonusDamageReduction, Value: 0.10},
}

// GetMilestone returns the milestone with id.
func GetMilestone(id string) (Milestone, bool) {
	for _, m := range Milestones {
		if m.ID == id {
			return m, true
		}
	}
	return Milestone{}, false
}

// Bonuses are the summed passive bonuses of all claimed milestones.
type Bonuses struct {
	IntelRate          float64
	PatternSpeed       float64
	EarlyWarning       float64
	DamageReduction    float64
	FrequencyReduction float64
}

func (b *Bonuses) add(m Milestone) {
	switch m.Kind {
	case BonusIntelRate:
		b.IntelRate += m.Value
	case BonusPatternSpeed:
		b.PatternSpeed += m.Value
	case BonusEarlyWarning:
		b.EarlyWarning += m.Value
	case BonusDamageReduction:
		b.DamageReduction += m.Value
	case BonusFrequencyReduction:
		b.FrequencyReduction += m.Value
	}
}
