package defense

import (
	"math"
	"sort"
)

// Totals are the stack aggregates consumed by the threat engine.
// Only DamageReduction is capped here.
type Totals struct {
	DefensePoints      float64
	DamageReduction    float64
	Detection          float64
	Automation         float64
	IntelBonus         float64
	FrequencyReduction float64
	HighestRank        int
}

// Stack holds at most one deployed app per category and the set of
// unlocked tiers.
type Stack struct {
	deployed map[Category]*App
	unlocked map[string]bool
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{
		deployed: make(map[Category]*App),
		unlocked: make(map[string]bool),
	}
}

// IsUnlocked reports whether a tier has been unlocked.
func (s *Stack) IsUnlocked(id string) bool {
	return s.unlocked[id]
}

// CanUnlock reports whether id may be unlocked now.
func (s *Stack) CanUnlock(id string) bool {
	t, ok := GetTier(id)
	if !ok || s.unlocked[id] {
		return false
	}
	prereq, has := t.Prerequisite()
	if !has {
		return true
	}
	if !s.unlocked[prereq] {
		return false
	}
	app, deployed := s.deployed[t.Category]
	return !deployed || app.AtMax()
}

// Unlock records id as unlocked when CanUnlock holds.
func (s *Stack) Unlock(id string) bool {
	if !s.CanUnlock(id) {
		return false
	}
	s.unlocked[id] = true
	return true
}

// Deploy replaces the category's app with a fresh level-1 instance of id.
func (s *Stack) Deploy(id string) bool {
	t, ok := GetTier(id)
	if !ok || !s.unlocked[id] {
		return false
	}
	s.deployed[t.Category] = &App{Tier: t, Level: 1}
	return true
}

// Upgrade raises the deployed app's level in a category.
func (s *Stack) Upgrade(c Category) bool {
	app, ok := s.deployed[c]
	if !ok || app.AtMax() {
		return false
	}
	app.Level++
	return true
}

// Deployed returns a copy of the app deployed in a category.
func (s *Stack) Deployed(c Category) (App, bool) {
	app, ok := s.deployed[c]
	if !ok {
		return App{}, false
	}
	return *app, true
}

// Len returns the number of deployed apps.
func (s *Stack) Len() int {
	return len(s.deployed)
}

// Unlocked returns the unlocked tier ids, sorted.
func (s *Stack) Unlocked() []string {
	out := make([]string, 0, len(s.unlocked))
	for id := range s.unlocked {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Totals recomputes the stack aggregates.
func (s *Stack) Totals() Totals {
	var t Totals
	for _, app := range s.deployed {
		t.DefensePoints += app.DefensePoints()
		t.DamageReduction += app.DamageReduction()
		t.Detection += app.Detection()
		t.Automation += app.Automation()
		t.IntelBonus += app.IntelBonus()
		t.FrequencyReduction += app.FrequencyReduction()
		t.HighestRank = max(t.HighestRank, app.Tier.Rank)
	}
	t.DamageReduction = math.Min(t.DamageReduction, GlobalReductionCap(t.HighestRank))
	return t
}

// DeployedApp is the persisted form of a deployed app.
type DeployedApp struct {
	Tier  string `json:"tier"`
	Level int    `json:"level"`
}

// State is the persisted form of a stack.
type State struct {
	Unlocked []string      `json:"unlocked"`
	Deployed []DeployedApp `json:"deployed"`
}

// Export returns the persisted form, ordered by category.
func (s *Stack) Export() State {
	st := State{Unlocked: s.Unlocked()}
	for _, c := range Categories {
		if app, ok := s.deployed[c]; ok {
			st.Deployed = append(st.Deployed, DeployedApp{Tier: app.Tier.ID, Level: app.Level})
		}
	}
	return st
}

// Restore rebuilds a stack from persisted state. Unknown tiers are skipped
// and levels are clamped into 1..MaxLevel.
func Restore(st State) *Stack {
	s := NewStack()
	for _, id := range st.Unlocked {
		if _, ok := GetTier(id); ok {
			s.unlocked[id] = true
		}
	}
	for _, d := range st.Deployed {
		t, ok := GetTier(d.Tier)
		if !ok {
			continue
		}
		s.unlocked[t.ID] = true
		s.deployed[t.Category] = &App{Tier: t, Level: max(1, min(d.Level, t.MaxLevel))}
	}
	return s
}
