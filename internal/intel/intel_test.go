package intel

import (
	"math"
	"testing"
)

func TestSendReportScenario(t *testing.T) {
	in := New()
	in.Footprint = 190
	if in.ReportCost() != 200 {
		t.Fatalf("cost = %v, want 200", in.ReportCost())
	}
	if res := in.SendReport(1); res != nil {
		t.Fatal("report should be denied with 190 footprint")
	}
	if in.Footprint != 190 || in.ReportsSent != 0 || len(in.Claimed()) != 0 {
		t.Fatal("denied report changed state")
	}

	in.Footprint += 50
	res := in.SendReport(1)
	if res == nil {
		t.Fatal("report should succeed with 240 footprint")
	}
	if in.Footprint != 40 || in.ReportsSent != 1 {
		t.Errorf("footprint=%v sent=%d, want 40/1", in.Footprint, in.ReportsSent)
	}
	if len(res.Milestones) != 1 || res.Milestones[0].ID != "first_report" {
		t.Fatalf("milestones = %+v, want first_report", res.Milestones)
	}
	if res.Reward != 150 {
		t.Errorf("reward = %v, want 50 + 100 milestone", res.Reward)
	}

	in.Footprint = 1000
	res = in.SendReport(1)
	if len(res.Milestones) != 0 {
		t.Error("first_report claimed twice")
	}
}

func TestReportCostCompounds(t *testing.T) {
	in := New()
	in.ReportsSent = 1
	if in.ReportCost() != 210 {
		t.Errorf("cost = %v, want 210", in.ReportCost())
	}
	in.ReportsSent = 10
	if want := math.Floor(200 * math.Pow(1.05, 10)); in.ReportCost() != want {
		t.Errorf("cost = %v, want %v", in.ReportCost(), want)
	}
}

func TestRewardScalesWithPatternsAndMultiplier(t *testing.T) {
	in := New()
	in.ClaimedMilestones["first_report"] = true
	in.PatternsIdentified = 5
	in.Footprint = 200
	res := in.SendReport(2)
	if res.Reward != 150 {
		t.Errorf("reward = %v, want 50 × 1.5 × 2", res.Reward)
	}
}

func TestAddFootprintUsesCollectionBonus(t *testing.T) {
	in := New()
	if got := in.AddFootprint(100, 0.2); got != 120 {
		t.Errorf("gained = %v, want 120", got)
	}
	in.ClaimedMilestones["first_report"] = true
	if got := in.AddFootprint(100, 0.2); math.Abs(got-125) > 1e-9 {
		t.Errorf("gained = %v, want 125", got)
	}
	if got := in.AddFootprint(-5, 0); got != 0 || in.Footprint < 0 {
		t.Error("negative footprint must be ignored")
	}
}

func TestMilestonesMonotonic(t *testing.T) {
	// 260 compounding reports cost about 1.2e9 footprint.
	in := New()
	in.Footprint = 1e12
	prevClaimed, prevSent := 0, 0
	for i := 0; i < 260; i++ {
		if in.SendReport(1) == nil {
			t.Fatalf("report %d denied", i)
		}
		if in.ReportsSent <= prevSent || len(in.Claimed()) < prevClaimed {
			t.Fatal("reports or milestones decreased")
		}
		prevSent, prevClaimed = in.ReportsSent, len(in.Claimed())
	}
	if len(in.Claimed()) != len(Milestones) {
		t.Errorf("claimed %d, want %d", len(in.Claimed()), len(Milestones))
	}
	b := in.Bonuses()
	if math.Abs(b.IntelRate-0.15) > 1e-9 || math.Abs(b.DamageReduction-0.15) > 1e-9 {
		t.Errorf("bonuses = %+v", b)
	}
}

func TestPatternIdentification(t *testing.T) {
	in := New()
	found := 0
	for i := 0; i < 10; i++ {
		found += in.AddPatternProgress(1)
	}
	if found != 2 || in.PatternsIdentified != 2 {
		t.Errorf("patterns = %d, want 2", in.PatternsIdentified)
	}
	if !in.RecordSignature("ddos") || in.RecordSignature("ddos") {
		t.Error("signature should be new exactly once")
	}
}

func TestPendingReports(t *testing.T) {
	in := New()
	in.Footprint = 200 + 210 + 220
	if got := in.PendingReports(); got != 3 {
		t.Errorf("pending = %d, want 3", got)
	}
}

func TestBatchRequiresEleven(t *testing.T) {
	if NewBatchUpload(10) != nil {
		t.Error("batch of 10 should not start")
	}
	b := NewBatchUpload(11)
	if b == nil || b.LatencyTicks != 6 {
		t.Fatalf("batch = %+v, want latency 6", b)
	}
	if math.Abs(b.PerTick()-11.0/6.0) > 1e-9 {
		t.Errorf("per tick = %v", b.PerTick())
	}
}

func TestSendAllSmallSendsImmediately(t *testing.T) {
	in := New()
	in.Footprint = 200 + 210 + 220
	results, batch := in.SendAll(1)
	if batch != nil || len(results) != 3 || in.ReportsSent != 3 {
		t.Errorf("results=%d batch=%v sent=%d", len(results), batch, in.ReportsSent)
	}
}

func TestBatchCompletesOverLatency(t *testing.T) {
	in := New()
	in.Footprint = 1e6
	_, b := in.SendAll(1)
	if b == nil {
		t.Fatal("expected batch")
	}
	total := b.Total
	ticks := 0
	for {
		ticks++
		step := in.AdvanceBatch(b, 1)
		if step.Done {
			if step.Early {
				t.Fatal("batch should not end early with ample footprint")
			}
			break
		}
	}
	if ticks != b.LatencyTicks {
		t.Errorf("completed in %d ticks, want %d", ticks, b.LatencyTicks)
	}
	if in.ReportsSent != total {
		t.Errorf("sent %d, want %d", in.ReportsSent, total)
	}
}

func TestBatchEndsEarlyWhenFootprintRunsOut(t *testing.T) {
	in := New()
	in.Footprint = 5000
	b := NewBatchUpload(20)
	var step BatchStep
	for i := 0; i < b.LatencyTicks && !step.Done; i++ {
		step = in.AdvanceBatch(b, 1)
	}
	if !step.Done || !step.Early {
		t.Fatalf("expected early completion, got %+v", step)
	}
	if in.Footprint < 0 {
		t.Error("footprint went negative")
	}
	if b.Sent >= 20 {
		t.Errorf("sent %d, should be short of 20", b.Sent)
	}
}

func TestCloneIsDeep(t *testing.T) {
	in := New()
	in.ClaimedMilestones["first_report"] = true
	c := in.Clone()
	c.ClaimedMilestones["informant"] = true
	if in.ClaimedMilestones["informant"] {
		t.Error("clone shares milestone map")
	}
}

func TestSanitize(t *testing.T) {
	in := &Intelligence{Footprint: -10, ReportsSent: -1, PatternProgress: math.NaN()}
	in.Sanitize()
	if in.Footprint != 0 || in.ReportsSent != 0 || in.PatternProgress != 0 {
		t.Errorf("sanitize = %+v", in)
	}
	if in.ClaimedMilestones == nil || in.KnownSignatures == nil {
		t.Error("maps should be initialized")
	}
}
