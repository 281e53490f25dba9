package save

import (
	"slices"

	"github.com/vovakirdan/netops/internal/defense"
)

// LevelCheckpoint is a mid-level campaign snapshot. It stores unit ids and
// levels rather than node objects.
type LevelCheckpoint struct {
	LevelID         int            `json:"level_id"`
	Insane          bool           `json:"insane"`
	SavedUnix       int64          `json:"saved_unix"`
	Credits         float64        `json:"credits"`
	EarnedThisLevel float64        `json:"earned_this_level"`
	TicksElapsed    int            `json:"ticks_elapsed"`
	TickCount       int64          `json:"tick_count"`
	Units           UnitsState     `json:"units"`
	Buffer          float64        `json:"buffer"`
	Firewall        *FirewallState `json:"firewall,omitempty"`
	UnlockedUnits   []string       `json:"unlocked_units"`
	Defense         defense.State  `json:"defense"`
	Threat          ThreatState    `json:"threat"`
	Intel           IntelState     `json:"intel"`
}

// Clone returns a deep copy.
func (c *LevelCheckpoint) Clone() *LevelCheckpoint {
	out := *c
	if c.Firewall != nil {
		fw := *c.Firewall
		out.Firewall = &fw
	}
	out.UnlockedUnits = slices.Clone(c.UnlockedUnits)
	out.Defense = defense.State{
		Unlocked: slices.Clone(c.Defense.Unlocked),
		Deployed: slices.Clone(c.Defense.Deployed),
	}
	out.Intel.Claimed = slices.Clone(c.Intel.Claimed)
	out.Intel.Signatures = slices.Clone(c.Intel.Signatures)
	out.Threat = c.Threat.clone()
	return &out
}

// Sanitize clamps values the same way GameState does.
func (c *LevelCheckpoint) Sanitize() {
	g := GameState{
		Credits:       c.Credits,
		Units:         c.Units,
		Buffer:        c.Buffer,
		Firewall:      c.Firewall,
		UnlockedUnits: c.UnlockedUnits,
		Threat:        c.Threat,
		Intel:         c.Intel,
	}
	g.Sanitize()
	c.Credits = g.Credits
	c.Units = g.Units
	c.Buffer = g.Buffer
	c.Firewall = g.Firewall
	c.UnlockedUnits = g.UnlockedUnits
	c.Threat = g.Threat
	c.Intel = g.Intel
	c.EarnedThisLevel = nonNeg(c.EarnedThisLevel)
	c.TicksElapsed = max(0, c.TicksElapsed)
	c.TickCount = max(0, c.TickCount)
}
