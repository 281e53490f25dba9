package pipeline

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6*math.Max(1, math.Abs(b))
}

func TestCatalogCoversAllTiers(t *testing.T) {
	for _, k := range []Kind{KindGenerator, KindLink, KindConverter} {
		units := Units(k)
		if len(units) != MaxTier {
			t.Fatalf("%s: %d units, want %d", k, len(units), MaxTier)
		}
		for i, u := range units {
			if u.Tier != i+1 {
				t.Errorf("%s: unit %d has tier %d", k, i, u.Tier)
			}
		}
	}
	if _, ok := NextUnit("gen.t6"); ok {
		t.Error("gen.t6 should have no successor")
	}
	if n, ok := NextUnit("link.t1"); !ok || n.ID != "link.t2" {
		t.Errorf("NextUnit(link.t1) = %v, %v", n.ID, ok)
	}
}

func TestLevelScaling(t *testing.T) {
	g := NewGenerator(catalog["gen.t1"])
	if g.Rate() != 8 {
		t.Errorf("level 1 rate = %v, want 8", g.Rate())
	}
	g.Upgrade()
	// 8 × 2 × 1.1
	if !near(g.Rate(), 17.6) {
		t.Errorf("level 2 rate = %v, want 17.6", g.Rate())
	}
}

func TestUpgradeCostGrowth(t *testing.T) {
	g := NewGenerator(catalog["gen.t1"])
	if g.UpgradeCost() != 25 {
		t.Fatalf("level 1 cost = %v, want 25", g.UpgradeCost())
	}
	g.Upgrade()
	if g.UpgradeCost() != 28 {
		t.Errorf("level 2 cost = %v, want 28", g.UpgradeCost())
	}
	prev := g.UpgradeCost()
	for i := 0; i < 20; i++ {
		g.Upgrade()
		if g.UpgradeCost() < prev {
			t.Fatalf("cost decreased at level %d", g.Level())
		}
		prev = g.UpgradeCost()
	}
}

func TestLossRate(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{1, 0.5},
		{2, 0.75},
		{10, 0.95},
		{100, 0.95},
	}
	for _, tt := range tests {
		if got := LossRate(tt.level); !near(got, tt.want) {
			t.Errorf("LossRate(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestLinkTransferOverBandwidth(t *testing.T) {
	l := NewLink(catalog["link.t1"]) // bandwidth 10
	got := l.Transfer(16, 100, 1)
	if got.Transferred != 10 {
		t.Errorf("transferred = %v, want 10", got.Transferred)
	}
	if got.Dropped != 6 {
		t.Errorf("dropped = %v, want 6", got.Dropped)
	}
	if got.Lost != 3 {
		t.Errorf("lost = %v, want 3", got.Lost)
	}
}

func TestLinkTransferFullSink(t *testing.T) {
	l := NewLink(catalog["link.t1"])
	got := l.Transfer(8, 0, 1)
	if got.Transferred != 0 || got.Dropped != 8 {
		t.Errorf("full sink: %+v", got)
	}
	if got.Lost != 0 {
		t.Errorf("under-bandwidth flow should not be lost, got %v", got.Lost)
	}
}

func TestLatencyBufferMaturesInOrder(t *testing.T) {
	var b LatencyBuffer
	b.Push(5, 2)
	b.Push(3, 1)
	if got := b.Drain(); got != 3 {
		t.Errorf("first drain = %v, want 3", got)
	}
	if got := b.Drain(); got != 5 {
		t.Errorf("second drain = %v, want 5", got)
	}
	if b.Len() != 0 || b.Backlog() != 0 {
		t.Errorf("buffer not empty: len=%d backlog=%v", b.Len(), b.Backlog())
	}
}

func TestConverterBoundedBuffer(t *testing.T) {
	c := NewConverter(catalog["conv.t1"]) // capacity 50, rate 10
	if got := c.Accept(80); got != 50 {
		t.Errorf("accepted = %v, want 50", got)
	}
	processed, credits := c.Process(1)
	if processed != 10 || credits != 10 {
		t.Errorf("process = %v/%v, want 10/10", processed, credits)
	}
	if c.Buffer() != 40 {
		t.Errorf("buffer = %v, want 40", c.Buffer())
	}
	c.SetBuffer(-5)
	if c.Buffer() != 0 {
		t.Errorf("negative buffer not clamped: %v", c.Buffer())
	}
	c.SetBuffer(math.NaN())
	if c.Buffer() != 0 {
		t.Errorf("NaN buffer not clamped: %v", c.Buffer())
	}
}

func TestPipelineConservation(t *testing.T) {
	p := NewStarter()
	for i := 0; i < 3; i++ {
		p.Generator.Upgrade()
	}
	mods := []Modifiers{Neutral(), {Production: 2}, {Bandwidth: 0.7}, {Processing: 0.5}}
	for tick := 0; tick < 200; tick++ {
		p.Drain()
		r := p.Step(mods[tick%len(mods)])
		if r.Dropped < -eps || r.Transferred < -eps || p.Converter.Buffer() < -eps {
			t.Fatalf("negative flow at tick %d: %+v", tick, r)
		}
		tot := p.Totals()
		if !near(tot.Generated, tot.Transferred+tot.Dropped+p.Backlog()) {
			t.Fatalf("tick %d: generated %v != transferred %v + dropped %v + backlog %v",
				tick, tot.Generated, tot.Transferred, tot.Dropped, p.Backlog())
		}
		if tot.Lost > tot.Dropped+eps {
			t.Fatalf("lost %v exceeds dropped %v", tot.Lost, tot.Dropped)
		}
	}
}

func TestPipelineLatencyDelaysDelivery(t *testing.T) {
	p := NewStarter() // link.t1 latency 2
	p.Drain()
	r := p.Step(Neutral())
	if r.Incoming != 0 {
		t.Fatalf("tick 1 incoming = %v, want 0", r.Incoming)
	}
	p.Drain()
	r = p.Step(Neutral())
	if r.Incoming != 0 {
		t.Fatalf("tick 2 incoming = %v, want 0", r.Incoming)
	}
	p.Drain()
	r = p.Step(Neutral())
	if r.Incoming != 8 {
		t.Fatalf("tick 3 incoming = %v, want 8", r.Incoming)
	}
}

func TestPipelineZeroLatencyIsImmediate(t *testing.T) {
	p, err := New("gen.t1", "link.t5", "conv.t1")
	if err != nil {
		t.Fatal(err)
	}
	p.Drain()
	r := p.Step(Neutral())
	if r.Incoming != 8 || r.Transferred != 8 {
		t.Errorf("immediate transfer: %+v", r)
	}
}

func TestNewRejectsUnknownUnits(t *testing.T) {
	if _, err := New("link.t1", "link.t1", "conv.t1"); err == nil {
		t.Error("expected error for wrong kind")
	}
	if _, err := New("gen.t1", "link.t9", "conv.t1"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestSwapResetsLevel(t *testing.T) {
	p := NewStarter()
	p.Upgrade(KindConverter)
	p.Converter.Accept(40)
	next, _ := NextUnit(p.Converter.ID())
	if !p.Swap(next) {
		t.Fatal("swap failed")
	}
	if p.Converter.Level() != 1 || p.Converter.ID() != "conv.t2" {
		t.Errorf("swapped converter = %s level %d", p.Converter.ID(), p.Converter.Level())
	}
	if p.Converter.Buffer() != 40 {
		t.Errorf("buffer carried = %v, want 40", p.Converter.Buffer())
	}
}

func TestThroughput(t *testing.T) {
	p := NewStarter()
	// min(8, 10, 10) × 1.0
	if got := p.Throughput(Neutral()); got != 8 {
		t.Errorf("throughput = %v, want 8", got)
	}
}

func TestFirewallAbsorbAndRegen(t *testing.T) {
	f := NewFirewall()
	if f.Health() != 100 {
		t.Fatalf("health = %v, want 100", f.Health())
	}
	if got := f.Absorb(30); got != 30 {
		t.Errorf("absorbed = %v, want 30", got)
	}
	f.Regenerate()
	if f.Health() != 72 {
		t.Errorf("health after regen = %v, want 72", f.Health())
	}
	if got := f.Absorb(500); got != 72 {
		t.Errorf("absorbed = %v, want 72", got)
	}
	if !f.Destroyed() || f.Health() != 0 {
		t.Errorf("firewall should be destroyed at 0, health=%v", f.Health())
	}
	f.Restore(2, -10)
	if f.Health() != 0 || f.Level() != 2 {
		t.Errorf("restore clamp failed: %v/%d", f.Health(), f.Level())
	}
}

func TestFirewallReductionCapped(t *testing.T) {
	f := NewFirewall()
	for i := 0; i < 100; i++ {
		f.Upgrade()
	}
	if f.Reduction() > 0.5 {
		t.Errorf("reduction %v exceeds cap", f.Reduction())
	}
}

func TestNodeInterface(t *testing.T) {
	p := NewStarter()
	nodes := []Node{p.Generator, p.Link, p.Converter, NewFirewall()}
	for _, n := range nodes {
		if n.Level() != 1 || n.Capacity() <= 0 || n.UpgradeCost() <= 0 {
			t.Errorf("%s: level=%d capacity=%v cost=%v", n.Kind(), n.Level(), n.Capacity(), n.UpgradeCost())
		}
	}
}
