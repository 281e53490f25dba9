package defense

import (
	"math"
	"testing"
)

func TestAllTiers(t *testing.T) {
	tiers := AllTiers()
	if len(tiers) != 36 {
		t.Fatalf("got %d tiers, want 36", len(tiers))
	}
	seen := make(map[string]bool)
	for _, tier := range tiers {
		if seen[tier.ID] {
			t.Errorf("duplicate tier %s", tier.ID)
		}
		seen[tier.ID] = true
	}
}

func TestParseTierID(t *testing.T) {
	tests := []struct {
		id   string
		ok   bool
		cat  Category
		rank int
	}{
		{"ids.t3", true, IDS, 3},
		{"threatintel.t6", true, ThreatIntel, 6},
		{"ids.t7", false, "", 0},
		{"laser.t1", false, "", 0},
		{"ids", false, "", 0},
	}
	for _, tt := range tests {
		cat, rank, ok := ParseTierID(tt.id)
		if ok != tt.ok || cat != tt.cat || rank != tt.rank {
			t.Errorf("ParseTierID(%q) = %q, %d, %v", tt.id, cat, rank, ok)
		}
	}
}

func TestTierGateSoundness(t *testing.T) {
	s := NewStack()
	if !s.Unlock("antivirus.t1") || !s.Deploy("antivirus.t1") {
		t.Fatal("rank 1 unlock/deploy should succeed")
	}
	if s.CanUnlock("antivirus.t1") {
		t.Error("already unlocked tier must not be unlockable")
	}
	if s.CanUnlock("antivirus.t3") {
		t.Error("t3 without t2 must be locked")
	}

	app, _ := s.Deployed(Antivirus)
	for app.Level < app.Tier.MaxLevel {
		if s.CanUnlock("antivirus.t2") {
			t.Fatalf("t2 unlockable while t1 at level %d/%d", app.Level, app.Tier.MaxLevel)
		}
		s.Upgrade(Antivirus)
		app, _ = s.Deployed(Antivirus)
	}
	if !s.CanUnlock("antivirus.t2") {
		t.Fatal("t2 should unlock once t1 is at max level")
	}
	if s.Upgrade(Antivirus) {
		t.Error("upgrade past max level should fail")
	}
}

func TestCanUnlockWithNothingDeployed(t *testing.T) {
	s := NewStack()
	s.Unlock("ids.t1")
	if !s.CanUnlock("ids.t2") {
		t.Error("t2 should unlock when prerequisite is unlocked and nothing is deployed")
	}
}

func TestDeployReplacesAndResetsLevel(t *testing.T) {
	s := NewStack()
	s.Unlock("soar.t1")
	s.Deploy("soar.t1")
	s.Upgrade(SOAR)
	s.Upgrade(SOAR)
	s.Unlock("soar.t2") // nothing at max, but s.t1 deployed at level 3
	if s.IsUnlocked("soar.t2") {
		t.Fatal("soar.t2 should still be gated")
	}

	for s.Upgrade(SOAR) {
	}
	if !s.Unlock("soar.t2") || !s.Deploy("soar.t2") {
		t.Fatal("unlock/deploy soar.t2 failed")
	}
	app, _ := s.Deployed(SOAR)
	if app.Tier.ID != "soar.t2" || app.Level != 1 {
		t.Errorf("deployed %s level %d, want soar.t2 level 1", app.Tier.ID, app.Level)
	}
	if s.Len() != 1 {
		t.Errorf("stack size = %d, want 1", s.Len())
	}
}

func TestDeployRequiresUnlock(t *testing.T) {
	s := NewStack()
	if s.Deploy("ids.t1") {
		t.Error("deploy of locked tier should fail")
	}
	if s.Upgrade(IDS) {
		t.Error("upgrade with nothing deployed should fail")
	}
}

func TestDefensePointsCompound(t *testing.T) {
	t1, _ := GetTier("antivirus.t1")
	t3, _ := GetTier("antivirus.t3")
	a := App{Tier: t1, Level: 2}
	b := App{Tier: t3, Level: 2}
	if a.DefensePoints() != 20 {
		t.Errorf("t1 points = %v, want 20", a.DefensePoints())
	}
	if b.DefensePoints() != 80 {
		t.Errorf("t3 points = %v, want 80", b.DefensePoints())
	}
}

func TestPerAppReductionCap(t *testing.T) {
	tier, _ := GetTier("antivirus.t1")
	a := App{Tier: tier, Level: tier.MaxLevel}
	if a.DamageReduction() > tier.ReductionCap()+1e-12 {
		t.Errorf("reduction %v exceeds cap %v", a.DamageReduction(), tier.ReductionCap())
	}
}

func TestGlobalReductionCap(t *testing.T) {
	tests := []struct {
		rank int
		want float64
	}{
		{1, 0.60}, {2, 0.60}, {3, 0.70}, {4, 0.70}, {5, 0.80}, {6, 0.80},
	}
	for _, tt := range tests {
		if got := GlobalReductionCap(tt.rank); got != tt.want {
			t.Errorf("GlobalReductionCap(%d) = %v, want %v", tt.rank, got, tt.want)
		}
	}

	all := State{}
	for _, c := range Categories {
		tier, _ := GetTier(TierID(c, 2))
		all.Deployed = append(all.Deployed, DeployedApp{Tier: tier.ID, Level: tier.MaxLevel})
	}
	s := Restore(all)
	tot := s.Totals()
	if tot.DamageReduction > 0.60+1e-12 {
		t.Errorf("damage reduction %v exceeds rank-2 cap", tot.DamageReduction)
	}
	if tot.HighestRank != 2 {
		t.Errorf("highest rank = %d, want 2", tot.HighestRank)
	}
}

func TestTotalsSumUncappedBonuses(t *testing.T) {
	s := NewStack()
	for _, id := range []string{"ids.t1", "honeypot.t1", "soar.t1", "threatintel.t1"} {
		s.Unlock(id)
		s.Deploy(id)
	}
	tot := s.Totals()
	if math.Abs(tot.Detection-0.03) > 1e-12 {
		t.Errorf("detection = %v, want 0.03", tot.Detection)
	}
	if math.Abs(tot.IntelBonus-0.08) > 1e-12 {
		t.Errorf("intel bonus = %v, want 0.08", tot.IntelBonus)
	}
	if math.Abs(tot.Automation-0.015) > 1e-12 {
		t.Errorf("automation = %v, want 0.015", tot.Automation)
	}
}

func TestExportRestoreClampsLevels(t *testing.T) {
	st := State{
		Unlocked: []string{"ids.t1", "bogus.t1"},
		Deployed: []DeployedApp{{Tier: "ids.t1", Level: 999}, {Tier: "encryption.t1", Level: -3}},
	}
	s := Restore(st)
	ids, _ := s.Deployed(IDS)
	if ids.Level != ids.Tier.MaxLevel {
		t.Errorf("ids level = %d, want %d", ids.Level, ids.Tier.MaxLevel)
	}
	enc, _ := s.Deployed(Encryption)
	if enc.Level != 1 {
		t.Errorf("encryption level = %d, want 1", enc.Level)
	}
	if !s.IsUnlocked("encryption.t1") {
		t.Error("deployed tier should be marked unlocked")
	}
	if s.IsUnlocked("bogus.t1") {
		t.Error("unknown tier should be skipped")
	}

	out := s.Export()
	if len(out.Deployed) != 2 || out.Deployed[0].Tier != "ids.t1" {
		t.Errorf("export order = %+v", out.Deployed)
	}
}
