// Package pipeline implements the generator → link → converter production
// chain and the optional firewall node.
package pipeline

import (
	"fmt"
	"math"
)

// Modifiers are the external multipliers applied to one pipeline step.
// Zero values are treated as 1.
type Modifiers struct {
	Production float64
	Bandwidth  float64
	Processing float64
	Credits    float64
}

// Neutral returns modifiers with every factor at 1.
func Neutral() Modifiers {
	return Modifiers{Production: 1, Bandwidth: 1, Processing: 1, Credits: 1}
}

func (m Modifiers) orNeutral() Modifiers {
	if m.Production == 0 {
		m.Production = 1
	}
	if m.Bandwidth == 0 {
		m.Bandwidth = 1
	}
	if m.Processing == 0 {
		m.Processing = 1
	}
	if m.Credits == 0 {
		m.Credits = 1
	}
	return m
}

// StepResult reports the flow through one step.
type StepResult struct {
	Generated   float64
	Incoming    float64 // Data that reached the link this tick
	Transferred float64
	Dropped     float64
	Lost        float64
	Processed   float64
	Credits     float64
	Backlog     float64
}

// Totals are cumulative flow counters for the conservation check.
type Totals struct {
	Generated   float64
	Transferred float64
	Dropped     float64
	Lost        float64
	Processed   float64
	Credits     float64
}

// Pipeline owns the three production nodes and the latency buffer.
type Pipeline struct {
	Generator *Generator
	Link      *Link
	Converter *Converter

	latency LatencyBuffer
	matured float64
	totals  Totals
}

// New creates a pipeline from catalog unit ids.
func New(genID, linkID, convID string) (*Pipeline, error) {
	gs, ok := Unit(genID)
	if !ok || gs.Kind != KindGenerator {
		return nil, fmt.Errorf("pipeline: unknown generator %q", genID)
	}
	ls, ok := Unit(linkID)
	if !ok || ls.Kind != KindLink {
		return nil, fmt.Errorf("pipeline: unknown link %q", linkID)
	}
	cs, ok := Unit(convID)
	if !ok || cs.Kind != KindConverter {
		return nil, fmt.Errorf("pipeline: unknown converter %q", convID)
	}
	return &Pipeline{
		Generator: NewGenerator(gs),
		Link:      NewLink(ls),
		Converter: NewConverter(cs),
	}, nil
}

// NewStarter creates a pipeline of tier 1 units.
func NewStarter() *Pipeline {
	p, _ := New(StarterUnit(KindGenerator), StarterUnit(KindLink), StarterUnit(KindConverter))
	return p
}

// Drain matures the latency buffer. It must run before Step in a tick.
func (p *Pipeline) Drain() {
	p.matured += p.latency.Drain()
}

// Step produces, transfers and converts one tick of data.
func (p *Pipeline) Step(mods Modifiers) StepResult {
	mods = mods.orNeutral()
	var r StepResult

	r.Generated = p.Generator.Emit(mods.Production)
	p.totals.Generated += r.Generated

	if lat := p.Link.Latency(); lat > 0 {
		p.latency.Push(r.Generated, lat)
	} else {
		p.matured += r.Generated
	}
	r.Incoming = p.matured
	p.matured = 0

	t := p.Link.Transfer(r.Incoming, p.Converter.Remaining(), mods.Bandwidth)
	r.Transferred = p.Converter.Accept(t.Transferred)
	// Anything the sink refused after the link computed the transfer is
	// dropped here so it is counted exactly once.
	r.Dropped = t.Dropped + (t.Transferred - r.Transferred)
	r.Lost = t.Lost

	r.Processed, r.Credits = p.Converter.Process(mods.Processing)
	r.Credits *= mods.Credits
	r.Backlog = p.latency.Backlog()

	p.totals.Transferred += r.Transferred
	p.totals.Dropped += r.Dropped
	p.totals.Lost += r.Lost
	p.totals.Processed += r.Processed
	p.totals.Credits += r.Credits
	return r
}

// Backlog returns data still in the latency buffer.
func (p *Pipeline) Backlog() float64 {
	return p.latency.Backlog() + p.matured
}

// Totals returns the cumulative flow counters.
func (p *Pipeline) Totals() Totals {
	return p.totals
}

// Throughput returns the steady-state credits per tick at current rates.
func (p *Pipeline) Throughput(mods Modifiers) float64 {
	mods = mods.orNeutral()
	flow := math.Min(p.Generator.Emit(mods.Production),
		math.Min(p.Link.Bandwidth()*mods.Bandwidth, p.Converter.ProcessingRate()*mods.Processing))
	return math.Max(0, flow) * p.Converter.ConversionRate() * mods.Credits
}

// Swap replaces the node of the unit's kind with a fresh level-1 unit.
// A swapped converter keeps as much of its buffer as the new one holds.
func (p *Pipeline) Swap(spec UnitSpec) bool {
	switch spec.Kind {
	case KindGenerator:
		p.Generator = NewGenerator(spec)
	case KindLink:
		p.Link = NewLink(spec)
	case KindConverter:
		buf := p.Converter.Buffer()
		p.Converter = NewConverter(spec)
		p.Converter.SetBuffer(buf)
	default:
		return false
	}
	return true
}

// Node returns the node for a kind, or nil.
func (p *Pipeline) Node(k Kind) Node {
	switch k {
	case KindGenerator:
		return p.Generator
	case KindLink:
		return p.Link
	case KindConverter:
		return p.Converter
	}
	return nil
}

// Upgrade raises the level of the node for kind.
func (p *Pipeline) Upgrade(k Kind) bool {
	switch k {
	case KindGenerator:
		p.Generator.Upgrade()
	case KindLink:
		p.Link.Upgrade()
	case KindConverter:
		p.Converter.Upgrade()
	default:
		return false
	}
	return true
}

// ResetTransient clears in-flight data that is not persisted.
func (p *Pipeline) ResetTransient() {
	p.latency.Reset()
	p.matured = 0
}
