package save

import (
	"github.com/vovakirdan/netops/internal/defense"
)

// Keys for each schema version.
const (
	KeyV1         = "save.v1"
	KeyV2         = "save.v2"
	KeyV3         = "save.v3"
	KeyV4         = "save.v4"
	KeyV5         = "save.v5"
	KeyCheckpoint = "checkpoint"
)

// VersionKey returns the storage key for a schema version.
func VersionKey(v int) string {
	switch v {
	case 1:
		return KeyV1
	case 2:
		return KeyV2
	case 3:
		return KeyV3
	case 4:
		return KeyV4
	default:
		return KeyV5
	}
}

// StateV1 is the original format: fixed tier 1 units and credits only.
type StateV1 struct {
	Credits        float64 `json:"credits"`
	TotalEarned    float64 `json:"total_earned"`
	GeneratorLevel int     `json:"generator_level"`
	LinkLevel      int     `json:"link_level"`
	ConverterLevel int     `json:"converter_level"`
	TickCount      int64   `json:"tick_count"`
	LastSaveUnix   int64   `json:"last_save_unix"`
}

// StateV2 adds unit tiers, the converter buffer and the firewall.
type StateV2 struct {
	Credits       float64        `json:"credits"`
	TotalEarned   float64        `json:"total_earned"`
	TickCount     int64          `json:"tick_count"`
	LastSaveUnix  int64          `json:"last_save_unix"`
	Units         UnitsState     `json:"units"`
	Buffer        float64        `json:"buffer"`
	Firewall      *FirewallState `json:"firewall,omitempty"`
	UnlockedUnits []string       `json:"unlocked_units"`
}

// StateV3 adds the defense stack and threat counters.
type StateV3 struct {
	Credits       float64        `json:"credits"`
	TotalEarned   float64        `json:"total_earned"`
	TickCount     int64          `json:"tick_count"`
	LastSaveUnix  int64          `json:"last_save_unix"`
	Units         UnitsState     `json:"units"`
	Buffer        float64        `json:"buffer"`
	Firewall      *FirewallState `json:"firewall,omitempty"`
	UnlockedUnits []string       `json:"unlocked_units"`
	Defense       defense.State  `json:"defense"`
	Threat        ThreatState    `json:"threat"`
}

// IntelV4 is the intelligence state before pattern identification.
type IntelV4 struct {
	Footprint   float64  `json:"footprint"`
	ReportsSent int      `json:"reports_sent"`
	Claimed     []string `json:"claimed"`
	Signatures  []string `json:"signatures"`
}

// StateV4 adds intelligence.
type StateV4 struct {
	Credits       float64        `json:"credits"`
	TotalEarned   float64        `json:"total_earned"`
	TickCount     int64          `json:"tick_count"`
	LastSaveUnix  int64          `json:"last_save_unix"`
	Units         UnitsState     `json:"units"`
	Buffer        float64        `json:"buffer"`
	Firewall      *FirewallState `json:"firewall,omitempty"`
	UnlockedUnits []string       `json:"unlocked_units"`
	Defense       defense.State  `json:"defense"`
	Threat        ThreatState    `json:"threat"`
	Intel         IntelV4        `json:"intel"`
}

// MigrateV1 upgrades a v1 state. Units become tier 1 ids at their levels.
func MigrateV1(s StateV1) StateV2 {
	units := StarterUnits()
	units.Generator.Level = max(1, s.GeneratorLevel)
	units.Link.Level = max(1, s.LinkLevel)
	units.Converter.Level = max(1, s.ConverterLevel)
	return StateV2{
		Credits:       s.Credits,
		TotalEarned:   s.TotalEarned,
		TickCount:     s.TickCount,
		LastSaveUnix:  s.LastSaveUnix,
		Units:         units,
		UnlockedUnits: StarterUnlocked(),
	}
}

// MigrateV2 upgrades a v2 state with an empty stack and level 1 threat.
func MigrateV2(s StateV2) StateV3 {
	return StateV3{
		Credits:       s.Credits,
		TotalEarned:   s.TotalEarned,
		TickCount:     s.TickCount,
		LastSaveUnix:  s.LastSaveUnix,
		Units:         s.Units,
		Buffer:        s.Buffer,
		Firewall:      s.Firewall,
		UnlockedUnits: s.UnlockedUnits,
		Defense:       defense.State{Unlocked: []string{}, Deployed: []defense.DeployedApp{}},
		Threat:        ThreatState{Level: 1},
	}
}

// MigrateV3 upgrades a v3 state with empty intelligence.
func MigrateV3(s StateV3) StateV4 {
	return StateV4{
		Credits:       s.Credits,
		TotalEarned:   s.TotalEarned,
		TickCount:     s.TickCount,
		LastSaveUnix:  s.LastSaveUnix,
		Units:         s.Units,
		Buffer:        s.Buffer,
		Firewall:      s.Firewall,
		UnlockedUnits: s.UnlockedUnits,
		Defense:       s.Defense,
		Threat:        s.Threat,
		Intel:         IntelV4{Claimed: []string{}, Signatures: []string{}},
	}
}

// MigrateV4 upgrades a v4 state to the current format.
func MigrateV4(s StateV4) GameState {
	return GameState{
		Version:       CurrentVersion,
		Credits:       s.Credits,
		TotalEarned:   s.TotalEarned,
		TickCount:     s.TickCount,
		LastSaveUnix:  s.LastSaveUnix,
		Units:         s.Units,
		Buffer:        s.Buffer,
		Firewall:      s.Firewall,
		UnlockedUnits: s.UnlockedUnits,
		Defense:       s.Defense,
		Threat:        s.Threat,
		Intel: IntelState{
			Footprint:   s.Intel.Footprint,
			ReportsSent: s.Intel.ReportsSent,
			Claimed:     s.Intel.Claimed,
			Signatures:  s.Intel.Signatures,
		},
		Lore: []string{},
	}
}
