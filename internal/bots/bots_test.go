package bots

import (
	"testing"

	"github.com/vovakirdan/netops/internal/core"
	"github.com/vovakirdan/netops/internal/engine"
	"github.com/vovakirdan/netops/internal/registry"
)

func runStrategy(t *testing.T, id string, ticks int) engine.Snapshot {
	t.Helper()
	s, err := registry.Create(id)
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", id, err)
	}
	e := engine.New(engine.Options{Rand: core.NewFixedRand(0.99)})
	for range ticks {
		e.Tick()
		s.Act(e)
	}
	return e.Snapshot()
}

func capacity(s engine.Snapshot) float64 {
	return s.Generator.Capacity + s.Link.Capacity + s.Converter.Capacity
}

func TestStrategiesRegistered(t *testing.T) {
	for _, id := range []string{"idle", "greedy", "balanced"} {
		if !registry.Exists(id) {
			t.Errorf("strategy %q not registered", id)
		}
	}
	list := registry.List()
	if len(list) < 3 {
		t.Fatalf("List() returned %d strategies", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Error("List() not sorted by ID")
		}
	}
}

func TestIdleNeverBuys(t *testing.T) {
	s := runStrategy(t, "idle", 50)
	if n := s.Generator.Level + s.Link.Level + s.Converter.Level; n != 3 {
		t.Errorf("idle upgraded nodes: levels = %d", n)
	}
}

func TestGreedyUpgrades(t *testing.T) {
	idle := runStrategy(t, "idle", 200)
	s := runStrategy(t, "greedy", 200)
	if capacity(s) <= capacity(idle) {
		t.Errorf("greedy capacity %.1f not above idle %.1f", capacity(s), capacity(idle))
	}
	if s.Credits < 0 {
		t.Errorf("credits negative: %f", s.Credits)
	}
}

func TestBalancedWidensBottleneck(t *testing.T) {
	idle := runStrategy(t, "idle", 200)
	s := runStrategy(t, "balanced", 200)
	if capacity(s) <= capacity(idle) {
		t.Errorf("balanced capacity %.1f not above idle %.1f", capacity(s), capacity(idle))
	}
}

func TestUnknownStrategy(t *testing.T) {
	if _, err := registry.Create("nope"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
