// Package bots contains autopilot strategies for the simulate command.
// Each strategy registers itself with the registry in init().
package bots

import "github.com/vovakirdan/netops/internal/registry"

func init() {
	registry.Register("idle", func() registry.Strategy { return Idle{} })
}

// Idle never acts. It measures what the starting network earns alone.
type Idle struct{}

func (Idle) ID() string          { return "idle" }
func (Idle) Title() string       { return "Idle" }
func (Idle) Act(registry.Player) {}
