// Package registry provides a global registry for autopilot strategies.
// Strategies register themselves in init() functions, allowing the simulate
// command to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/netops/internal/defense"
	"github.com/vovakirdan/netops/internal/engine"
	"github.com/vovakirdan/netops/internal/pipeline"
)

// Player is the part of the engine a strategy may drive. *engine.Engine
// satisfies it.
type Player interface {
	Snapshot() engine.Snapshot
	UpgradeNode(k pipeline.Kind) bool
	UnlockUnit(k pipeline.Kind) bool
	PurchaseFirewall() bool
	AdvanceDefense(c defense.Category) bool
	SendReport() bool
	SendAll() bool
}

var _ Player = (*engine.Engine)(nil)

// Strategy decides what to buy. Act is called once per tick, after the
// tick ran, and may perform any number of actions.
type Strategy interface {
	// ID returns a unique identifier (e.g., "greedy"), used by the CLI.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Act inspects the game and performs actions on it.
	Act(p Player)
}

// StrategyInfo contains metadata about a registered strategy.
type StrategyInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a strategy.
type Factory func() Strategy

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a strategy factory to the registry.
// Typically called from a strategy's init() function.
// Panics if a strategy with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: strategy %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered strategies, sorted by ID.
func List() []StrategyInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]StrategyInfo, 0, len(factories))
	for id := range factories {
		result = append(result, StrategyInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new strategy by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Strategy, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown strategy %q", id)
	}

	return f(), nil
}

// Exists checks if a strategy with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
