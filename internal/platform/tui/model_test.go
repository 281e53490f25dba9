package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/netops/internal/config"
	"github.com/vovakirdan/netops/internal/core"
	"github.com/vovakirdan/netops/internal/engine"
)

func newTestEngine(notes *Notifier) *engine.Engine {
	return engine.New(engine.Options{
		Rand:     core.NewFixedRand(0.99),
		Host:     notes,
		Feedback: notes,
	})
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{TickInterval: time.Second, ScreenW: 120, ScreenH: 40}
}

func TestDashboardUpgradeKey(t *testing.T) {
	notes := NewNotifier()
	eng := newTestEngine(notes)
	m := NewModel(eng, notes, testRuntime(), "local", 1)

	before := eng.Snapshot().Generator.Level
	m.Update(runeKey("1"))

	if got := eng.Snapshot().Generator.Level; got != before+1 {
		t.Errorf("generator level = %d, want %d", got, before+1)
	}
	if status, _, _ := notes.state(); !strings.HasPrefix(status, "ok:") {
		t.Errorf("status = %q, want ok", status)
	}
}

func TestDashboardDeniedFlashes(t *testing.T) {
	notes := NewNotifier()
	eng := newTestEngine(notes)
	m := NewModel(eng, notes, testRuntime(), "local", 1)

	// Sending a report with no footprint is always denied.
	m.Update(runeKey("r"))

	status, alert, _ := notes.state()
	if !strings.HasPrefix(status, "denied") || !alert {
		t.Errorf("status = %q alert = %v, want a flashing denial", status, alert)
	}
	for range alertTicks {
		notes.advance()
	}
	if _, alert, _ := notes.state(); alert {
		t.Error("alert should clear after a few ticks")
	}
}

func TestDashboardTickGeneration(t *testing.T) {
	notes := NewNotifier()
	eng := newTestEngine(notes)
	m := NewModel(eng, notes, testRuntime(), "local", 2)

	m.Update(TickMsg{At: time.Now(), Gen: 1})
	if eng.TickCount() != 0 {
		t.Fatalf("stale tick advanced the engine to %d", eng.TickCount())
	}
	_, cmd := m.Update(TickMsg{At: time.Now(), Gen: 2})
	if eng.TickCount() != 1 {
		t.Errorf("TickCount() = %d, want 1", eng.TickCount())
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
}

func TestDashboardLaneAndDefenseSelection(t *testing.T) {
	notes := NewNotifier()
	eng := newTestEngine(notes)
	m := NewModel(eng, notes, testRuntime(), "local", 1)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.lane != 1 {
		t.Errorf("lane = %d, want 1", m.lane)
	}
	next, _ = m.Update(runeKey("j"))
	m = next.(Model)
	if m.defense != 1 {
		t.Errorf("defense cursor = %d, want 1", m.defense)
	}
	if !strings.Contains(m.View(), "Pipeline") {
		t.Error("view should render the pipeline panel")
	}
}

func TestNotifierBanner(t *testing.T) {
	n := NewNotifier()
	n.LevelComplete(engine.LevelStats{LevelID: 2, Name: "Branch Office", Ticks: 90, Mode: config.ModeNormal})
	if _, _, banner := n.state(); !strings.Contains(banner, "LEVEL 2 COMPLETE") {
		t.Errorf("banner = %q", banner)
	}
	for range bannerTicks {
		n.advance()
	}
	if _, _, banner := n.state(); banner != "" {
		t.Errorf("banner should expire, got %q", banner)
	}
}

func TestAppStartsLevelFromMenu(t *testing.T) {
	notes := NewNotifier()
	eng := newTestEngine(notes)
	app := NewApp(AppConfig{Engine: eng, Notifier: notes, Runtime: testRuntime()})

	// Continue, Resume, then the first level.
	var model tea.Model = app
	model, _ = model.Update(runeKey("j"))
	model, _ = model.Update(runeKey("j"))
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	a := model.(App)
	if a.screen != screenDashboard {
		t.Fatalf("screen = %v, want dashboard", a.screen)
	}
	if !eng.InCampaign() {
		t.Error("selecting a level should start it")
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.(App).screen != screenMenu {
		t.Error("esc should return to the menu")
	}
}

func TestFormatCredits(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{12, "12"},
		{9999, "9999"},
		{12500, "12.5K"},
		{3_400_000, "3.40M"},
		{2e9, "2.00B"},
	}
	for _, tt := range tests {
		if got := formatCredits(tt.v); got != tt.want {
			t.Errorf("formatCredits(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
