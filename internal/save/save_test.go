package save

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/netops/internal/defense"
)

func mustEncode(t *testing.T, v any) []byte {
	t.Helper()
	data, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return data
}

func TestCodecRejectsTampering(t *testing.T) {
	data := mustEncode(t, NewGameState(500))

	var st GameState
	if err := Decode(data, &st); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if st.Credits != 500 {
		t.Errorf("credits = %v, want 500", st.Credits)
	}

	data[len(data)-1] ^= 0xFF
	if err := Decode(data, &st); !errors.Is(err, ErrCorrupt) {
		t.Errorf("tampered payload: err = %v, want ErrCorrupt", err)
	}
	if err := Decode([]byte("nope"), &st); !errors.Is(err, ErrCorrupt) {
		t.Errorf("short payload: err = %v, want ErrCorrupt", err)
	}
}

func TestLoadNoSave(t *testing.T) {
	m := NewManager(NewMemoryStore(), nil)
	st, info, err := m.Load()
	if err != nil || st != nil || info.Found {
		t.Errorf("Load() = %v, %+v, %v; want nothing", st, info, err)
	}
}

func TestMigrateV2ToCurrent(t *testing.T) {
	store := NewMemoryStore()
	v2 := StateV2{
		Credits:       1234,
		TotalEarned:   5000,
		TickCount:     900,
		LastSaveUnix:  1700000000,
		Units:         UnitsState{Generator: UnitState{ID: "gen.t2", Level: 4}, Link: UnitState{ID: "link.t1", Level: 3}, Converter: UnitState{ID: "conv.t1", Level: 2}},
		Buffer:        12,
		Firewall:      &FirewallState{Level: 2, Health: 80},
		UnlockedUnits: []string{"gen.t1", "gen.t2", "link.t1", "conv.t1"},
	}
	if err := store.Put(KeyV2, mustEncode(t, v2)); err != nil {
		t.Fatal(err)
	}

	m := NewManager(store, nil)
	st, info, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !info.Found || info.FromVersion != 2 || info.Steps != 3 {
		t.Fatalf("info = %+v, want from 2 in 3 steps", info)
	}
	if st.Credits != 1234 || st.Units.Generator.ID != "gen.t2" || st.Units.Generator.Level != 4 {
		t.Errorf("migrated state lost data: %+v", st)
	}
	if st.Threat.Level != 1 || st.Intel.ReportsSent != 0 || st.Version != CurrentVersion {
		t.Errorf("new fields not defaulted: %+v", st)
	}

	if _, ok, _ := store.Get(KeyV2); ok {
		t.Error("old v2 key should be removed")
	}
	if _, ok, _ := store.Get(KeyV5); !ok {
		t.Error("v5 key should be written")
	}
}

func TestMigrateV1Chain(t *testing.T) {
	store := NewMemoryStore()
	v1 := StateV1{Credits: 50, GeneratorLevel: 3, LinkLevel: 0, ConverterLevel: 2, TickCount: 10}
	store.Put(KeyV1, mustEncode(t, v1))

	st, info, err := NewManager(store, nil).Load()
	if err != nil {
		t.Fatal(err)
	}
	if info.Steps != 4 {
		t.Errorf("steps = %d, want 4", info.Steps)
	}
	if st.Units.Generator.ID != "gen.t1" || st.Units.Generator.Level != 3 || st.Units.Link.Level != 1 {
		t.Errorf("units = %+v", st.Units)
	}
	if len(st.UnlockedUnits) != 3 {
		t.Errorf("unlocked = %v", st.UnlockedUnits)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	v3 := StateV3{
		Credits: 10,
		Units:   StarterUnits(),
		Defense: defense.State{Unlocked: []string{"ids.t1"}, Deployed: []defense.DeployedApp{{Tier: "ids.t1", Level: 2}}},
		Threat:  ThreatState{Level: 3, AttacksSurvived: 7},
	}
	payload := mustEncode(t, v3)

	a, _, err := migrateFrom(3, payload)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := migrateFrom(3, payload)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(mustEncode(t, a), mustEncode(t, b)) {
		t.Error("migrating the same payload twice differs")
	}

	store := NewMemoryStore()
	store.Put(KeyV3, payload)
	m := NewManager(store, nil)
	first, _, _ := m.Load()
	second, info, _ := m.Load()
	if info.FromVersion != CurrentVersion || info.Steps != 0 {
		t.Errorf("second load info = %+v", info)
	}
	if !bytes.Equal(mustEncode(t, first), mustEncode(t, second)) {
		t.Error("reloading a migrated save changed it")
	}
}

func TestCorruptCurrentFallsBackToOlder(t *testing.T) {
	store := NewMemoryStore()
	store.Put(KeyV5, []byte("garbage"))
	store.Put(KeyV3, []byte("also garbage"))
	store.Put(KeyV2, mustEncode(t, StateV2{Credits: 77, Units: StarterUnits()}))

	st, info, err := NewManager(store, nil).Load()
	if err != nil {
		t.Fatal(err)
	}
	if info.FromVersion != 2 || st.Credits != 77 {
		t.Errorf("loaded from v%d credits %v, want v2/77", info.FromVersion, st.Credits)
	}
}

func TestAllCorruptIsNoSave(t *testing.T) {
	store := NewMemoryStore()
	store.Put(KeyV5, []byte("garbage"))
	store.Put(KeyV1, []byte("garbage"))
	st, info, err := NewManager(store, nil).Load()
	if err != nil || st != nil || info.Found {
		t.Errorf("corrupt saves should read as no save: %v %+v %v", st, info, err)
	}
}

func TestSanitizeClamps(t *testing.T) {
	st := &GameState{
		Credits:  -5,
		Buffer:   math.NaN(),
		Units:    UnitsState{Generator: UnitState{ID: "bogus", Level: 9}, Link: UnitState{ID: "link.t2", Level: 0}, Converter: UnitState{ID: "gen.t1", Level: 2}},
		Firewall: &FirewallState{Level: 0, Health: -1},
		Intel:    IntelState{Footprint: -3},
	}
	st.Sanitize()
	if st.Credits != 0 || st.Buffer != 0 || st.Intel.Footprint != 0 {
		t.Errorf("negatives not clamped: %+v", st)
	}
	if st.Units.Generator.ID != "gen.t1" || st.Units.Link.Level != 1 || st.Units.Converter.ID != "conv.t1" {
		t.Errorf("units not sanitized: %+v", st.Units)
	}
	if st.Firewall.Level != 1 || st.Firewall.Health != 0 {
		t.Errorf("firewall not sanitized: %+v", st.Firewall)
	}
	if st.Threat.Level != 1 {
		t.Errorf("threat level = %d, want 1", st.Threat.Level)
	}

	before := mustEncode(t, st)
	st.Sanitize()
	if !bytes.Equal(before, mustEncode(t, st)) {
		t.Error("Sanitize is not idempotent")
	}
}

func TestCloneIsDeep(t *testing.T) {
	st := NewGameState(10)
	st.Firewall = &FirewallState{Level: 1, Health: 5}
	st.Lore = []string{"lore.first_packet"}
	c := st.Clone()
	c.Firewall.Health = 99
	c.Lore[0] = "changed"
	c.UnlockedUnits[0] = "changed"
	if st.Firewall.Health != 5 || st.Lore[0] != "lore.first_packet" || st.UnlockedUnits[0] == "changed" {
		t.Error("clone shares memory with original")
	}
}

func TestCheckpointLifecycle(t *testing.T) {
	m := NewManager(NewMemoryStore(), nil)
	if cp, err := m.LoadCheckpoint(); cp != nil || err != nil {
		t.Fatalf("empty checkpoint = %v, %v", cp, err)
	}

	cp := &LevelCheckpoint{LevelID: 2, Insane: true, Credits: 300, TicksElapsed: 40, Units: StarterUnits()}
	if err := m.SaveCheckpoint(cp); err != nil {
		t.Fatal(err)
	}
	got, err := m.LoadCheckpoint()
	if err != nil || got == nil {
		t.Fatalf("LoadCheckpoint = %v, %v", got, err)
	}
	if got.LevelID != 2 || !got.Insane || got.Credits != 300 {
		t.Errorf("checkpoint = %+v", got)
	}

	if err := m.ClearCheckpoint(); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.LoadCheckpoint(); got != nil {
		t.Error("checkpoint should be cleared")
	}
}

func TestResetAndInspect(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, nil)
	m.Save(NewGameState(1))
	store.Put(KeyV1, []byte("junk"))

	slots, err := m.Inspect()
	if err != nil {
		t.Fatal(err)
	}
	byKey := make(map[string]SlotInfo)
	for _, s := range slots {
		byKey[s.Key] = s
	}
	if !byKey[KeyV5].Present || !byKey[KeyV5].Valid {
		t.Errorf("v5 slot = %+v", byKey[KeyV5])
	}
	if !byKey[KeyV1].Present || byKey[KeyV1].Valid {
		t.Errorf("v1 slot = %+v", byKey[KeyV1])
	}

	if err := m.Reset(); err != nil {
		t.Fatal(err)
	}
	if len(store.Keys()) != 0 {
		t.Errorf("keys after reset: %v", store.Keys())
	}
}

func TestThreatStateSanitizeAndClone(t *testing.T) {
	st := NewGameState(10)
	st.Threat.Active = &AttackState{ID: "a", Type: "ddos", Duration: 8, TicksRemaining: 20, Severity: -1}
	st.Threat.Warning = &WarningState{Predicted: "ddos", Countdown: 2, Accuracy: 3}

	c := st.Clone()
	c.Threat.Active.ID = "changed"
	if st.Threat.Active.ID != "a" {
		t.Fatal("clone shares the active attack")
	}

	st.Sanitize()
	if a := st.Threat.Active; a.TicksRemaining != 8 || a.Severity != 0 {
		t.Errorf("attack not clamped: %+v", a)
	}
	if st.Threat.Warning.Accuracy != 1 {
		t.Errorf("accuracy = %v, want 1", st.Threat.Warning.Accuracy)
	}

	st.Threat.Active.TicksRemaining = 0
	st.Sanitize()
	if st.Threat.Active != nil {
		t.Error("an expired attack should be dropped")
	}
}
