package pipeline

import "math"

// Node is the read-only capability shared by all pipeline nodes.
type Node interface {
	Kind() Kind
	ID() string
	Level() int
	Capacity() float64
	UpgradeCost() float64
}

const (
	upgradeCostGrowth = 1.15
	maxLossRate       = 0.95
)

// LevelScalar is the per-level bonus applied on top of linear level scaling.
func LevelScalar(level int) float64 {
	if level < 1 {
		level = 1
	}
	return 1 + 0.1*float64(level-1)
}

// scaled returns base × level × LevelScalar(level).
func scaled(base float64, level int) float64 {
	if level < 1 {
		level = 1
	}
	return base * float64(level) * LevelScalar(level)
}

// upgradeCost returns the cost to move from level to level+1.
func upgradeCost(base float64, level int) float64 {
	if level < 1 {
		level = 1
	}
	return math.Floor(base * math.Pow(upgradeCostGrowth, float64(level-1)))
}

// LossRate is the share of over-bandwidth flow a link loses at level.
func LossRate(level int) float64 {
	if level < 1 {
		level = 1
	}
	return math.Min(maxLossRate, 1-0.5/float64(level))
}

// Generator produces raw data each tick.
type Generator struct {
	spec  UnitSpec
	level int
}

// NewGenerator creates a level-1 generator from a catalog spec.
func NewGenerator(spec UnitSpec) *Generator {
	return &Generator{spec: spec, level: 1}
}

func (g *Generator) Kind() Kind           { return KindGenerator }
func (g *Generator) ID() string           { return g.spec.ID }
func (g *Generator) Level() int           { return g.level }
func (g *Generator) Tier() int            { return g.spec.Tier }
func (g *Generator) Capacity() float64    { return g.Rate() }
func (g *Generator) UpgradeCost() float64 { return upgradeCost(g.spec.BaseCost, g.level) }

// Rate is the unmodified output per tick.
func (g *Generator) Rate() float64 {
	return scaled(g.spec.BaseRate, g.level)
}

// Emit returns this tick's output after external multipliers.
func (g *Generator) Emit(mult float64) float64 {
	if mult < 0 {
		mult = 0
	}
	return g.Rate() * mult
}

// Upgrade increments the level.
func (g *Generator) Upgrade() { g.level++ }

// SetLevel restores a persisted level, clamped to at least 1.
func (g *Generator) SetLevel(level int) { g.level = max(1, level) }

// Link transports data from the generator to the converter.
type Link struct {
	spec  UnitSpec
	level int
}

// NewLink creates a level-1 link from a catalog spec.
func NewLink(spec UnitSpec) *Link {
	return &Link{spec: spec, level: 1}
}

func (l *Link) Kind() Kind           { return KindLink }
func (l *Link) ID() string           { return l.spec.ID }
func (l *Link) Level() int           { return l.level }
func (l *Link) Tier() int            { return l.spec.Tier }
func (l *Link) Capacity() float64    { return l.Bandwidth() }
func (l *Link) UpgradeCost() float64 { return upgradeCost(l.spec.BaseCost, l.level) }
func (l *Link) Latency() int         { return l.spec.Latency }
func (l *Link) LossRate() float64    { return LossRate(l.level) }

// Bandwidth is the maximum flow per tick.
func (l *Link) Bandwidth() float64 {
	return scaled(l.spec.BaseRate, l.level)
}

// Upgrade increments the level.
func (l *Link) Upgrade() { l.level++ }

// SetLevel restores a persisted level, clamped to at least 1.
func (l *Link) SetLevel(level int) { l.level = max(1, level) }

// Transfer is the outcome of moving data across a link.
type Transfer struct {
	Transferred float64
	Dropped     float64 // Everything not transferred, including Lost
	Lost        float64 // Portion of over-bandwidth flow destroyed by link loss
}

// Transfer moves incoming data toward a sink with sinkRemaining free space.
// Nothing is retried: whatever does not fit is dropped.
func (l *Link) Transfer(incoming, sinkRemaining, bandwidthMult float64) Transfer {
	if incoming <= 0 {
		return Transfer{}
	}
	bw := l.Bandwidth() * math.Max(0, bandwidthMult)
	sinkRemaining = math.Max(0, sinkRemaining)

	moved := math.Min(incoming, math.Min(bw, sinkRemaining))
	excess := math.Max(0, incoming-bw)
	return Transfer{
		Transferred: moved,
		Dropped:     incoming - moved,
		Lost:        excess * l.LossRate(),
	}
}

// Converter buffers transferred data and turns it into credits.
type Converter struct {
	spec   UnitSpec
	level  int
	buffer float64
}

// NewConverter creates a level-1 converter from a catalog spec.
func NewConverter(spec UnitSpec) *Converter {
	return &Converter{spec: spec, level: 1}
}

func (c *Converter) Kind() Kind              { return KindConverter }
func (c *Converter) ID() string              { return c.spec.ID }
func (c *Converter) Level() int              { return c.level }
func (c *Converter) Tier() int               { return c.spec.Tier }
func (c *Converter) UpgradeCost() float64    { return upgradeCost(c.spec.BaseCost, c.level) }
func (c *Converter) Buffer() float64         { return c.buffer }
func (c *Converter) ConversionRate() float64 { return c.spec.ConversionRate }
func (c *Converter) Remaining() float64      { return math.Max(0, c.Capacity()-c.buffer) }

// Capacity is the buffer size at the current level.
func (c *Converter) Capacity() float64 {
	return scaled(c.spec.BaseCapacity, c.level)
}

// ProcessingRate is the amount processed per tick.
func (c *Converter) ProcessingRate() float64 {
	return scaled(c.spec.BaseRate, c.level)
}

// Accept adds up to the remaining capacity and returns the accepted amount.
func (c *Converter) Accept(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	accepted := math.Min(amount, c.Remaining())
	c.buffer += accepted
	return accepted
}

// Process converts min(buffer, rate) and returns the processed amount and
// the credits produced.
func (c *Converter) Process(rateMult float64) (processed, credits float64) {
	rate := c.ProcessingRate() * math.Max(0, rateMult)
	processed = math.Min(c.buffer, rate)
	c.buffer = math.Max(0, c.buffer-processed)
	return processed, processed * c.spec.ConversionRate
}

// Upgrade increments the level.
func (c *Converter) Upgrade() { c.level++ }

// SetLevel restores a persisted level, clamped to at least 1.
func (c *Converter) SetLevel(level int) { c.level = max(1, level) }

// SetBuffer restores a persisted buffer, clamped to [0, capacity].
func (c *Converter) SetBuffer(v float64) {
	c.buffer = math.Max(0, math.Min(v, c.Capacity()))
	if math.IsNaN(c.buffer) {
		c.buffer = 0
	}
}
