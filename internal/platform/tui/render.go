package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/netops/internal/config"
	"github.com/vovakirdan/netops/internal/engine"
	"github.com/vovakirdan/netops/internal/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	goodStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	badStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))
)

// Dashboard layout constants
const (
	minWidthForColumns = 100 // Below this the panels stack vertically
	barWidth           = 20
)

var lanes = []pipeline.Kind{pipeline.KindGenerator, pipeline.KindLink, pipeline.KindConverter}

// view is the per-frame UI state the renderer needs besides the snapshot.
type view struct {
	width     int
	lane      int
	defense   int
	status    string
	alert     bool
	banner    string
	showHelp  bool
	namespace string
}

// formatCredits renders large values compactly (1.2K, 3.4M).
func formatCredits(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case v >= 1e4:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// bar draws a fixed-width progress bar for frac in [0, 1].
func bar(frac float64, width int) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac*float64(width) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// renderDashboard lays out the full network view.
func renderDashboard(s engine.Snapshot, v view) string {
	var b strings.Builder

	b.WriteString(renderHeader(s, v))
	b.WriteString("\n")
	if v.banner != "" {
		b.WriteString(centerText(selectedStyle.Padding(0, 2).Render(v.banner), v.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	left := lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(renderPipeline(s, v)),
		panelStyle.Render(renderIntel(s)),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(renderThreat(s)),
		panelStyle.Render(renderDefense(s, v)),
	)
	if v.width >= minWidthForColumns {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	} else {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, left, right))
	}
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(renderLog(s)))
	b.WriteString("\n")

	status := v.status
	if v.alert {
		status = badStyle.Render(status)
	}
	b.WriteString(status)
	b.WriteString("\n")
	if v.showHelp {
		b.WriteString(dimStyle.Render(dashboardHelpFull))
	} else {
		b.WriteString(dimStyle.Render(dashboardHelp))
	}
	return b.String()
}

const (
	dashboardHelp     = "1/2/3 upgrade  tab lane  u unlock  f firewall  j/k d defense  r/a report  p pause  ? help  esc menu  q quit"
	dashboardHelpFull = "1 generator  2 link  3 converter  tab/l select lane  u unlock next unit\n" +
		"f buy/upgrade firewall  j/k select defense  d advance defense\n" +
		"r send report  a send all  x cancel upload  s save  p/space pause\n" +
		"? toggle help  esc/b menu  q quit"
)

func renderHeader(s engine.Snapshot, v view) string {
	title := "NETOPS"
	if v.namespace != "" {
		title += " @" + v.namespace
	}
	parts := []string{
		titleStyle.Render(title),
		fmt.Sprintf("credits %s", goodStyle.Render(formatCredits(s.Credits))),
		fmt.Sprintf("+%s/t", formatCredits(s.IncomePerTick)),
		fmt.Sprintf("tick %d", s.Tick),
	}
	if s.Paused {
		parts = append(parts, warnStyle.Render("PAUSED"))
	}
	if s.RandomEvent != "" {
		parts = append(parts, accentStyle.Render(fmt.Sprintf("%s (%d)", s.RandomEvent, s.RandomTicksLeft)))
	}
	if s.DebugProduction != 1 || s.DebugCredits != 1 {
		parts = append(parts, warnStyle.Render(fmt.Sprintf("debug x%.1f/x%.1f", s.DebugProduction, s.DebugCredits)))
	}
	line := strings.Join(parts, "  ")

	if c := s.Campaign; c != nil {
		mode := ""
		if c.Mode == config.ModeInsane {
			mode = badStyle.Render(" INSANE")
		}
		limit := "no limit"
		if c.TimeLimit > 0 {
			limit = fmt.Sprintf("%d/%d ticks", c.Ticks, c.TimeLimit)
		}
		goal := 0.0
		if c.Goal > 0 {
			goal = c.Earned / c.Goal
		}
		line += fmt.Sprintf("\nLevel %d: %s%s  %s %s/%s  %s",
			c.LevelID, c.Name, mode, bar(goal, barWidth),
			formatCredits(c.Earned), formatCredits(c.Goal), limit)
		if c.GraceLeft > 0 {
			line += dimStyle.Render(fmt.Sprintf("  grace %d", c.GraceLeft))
		}
	}
	return line
}

func renderPipeline(s engine.Snapshot, v view) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Pipeline"))
	b.WriteString("\n")

	nodes := []engine.NodeView{s.Generator, s.Link, s.Converter}
	for i, n := range nodes {
		cursor := "  "
		if i == v.lane {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%d %-16s Lv%-3d cap %-7s up %s",
			cursor, i+1, n.Name, n.Level, formatCredits(n.Capacity), formatCredits(n.UpgradeCost))
		if i == v.lane {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
		if i == v.lane {
			next := dimStyle.Render("    no further unit")
			if n.NextUnit != "" {
				next = dimStyle.Render(fmt.Sprintf("    u: unlock %s for %s", n.NextUnit, formatCredits(n.NextUnitCost)))
			}
			b.WriteString(next)
			b.WriteString("\n")
		}
	}

	fill := 0.0
	if s.BufferCap > 0 {
		fill = s.Buffer / s.BufferCap
	}
	fmt.Fprintf(&b, "buffer  %s %s/%s\n", bar(fill, barWidth), formatCredits(s.Buffer), formatCredits(s.BufferCap))
	st := s.LastStep
	fmt.Fprintf(&b, "gen %.1f  xfer %.1f  drop %.1f  proc %.1f\n", st.Generated, st.Transferred, st.Dropped, st.Processed)
	if s.Backlog > 0 {
		fmt.Fprintf(&b, "backlog %.1f\n", s.Backlog)
	}

	if fw := s.Firewall; fw != nil {
		health := 0.0
		if fw.MaxHealth > 0 {
			health = fw.Health / fw.MaxHealth
		}
		style := goodStyle
		if health < 0.3 {
			style = badStyle
		}
		fmt.Fprintf(&b, "firewall Lv%d %s -%.0f%%  f: %s",
			fw.Level, style.Render(bar(health, barWidth/2)), fw.Reduction*100, formatCredits(fw.UpgradeCost))
	} else {
		b.WriteString(dimStyle.Render(fmt.Sprintf("no firewall  f: buy for %s", formatCredits(s.FirewallCost))))
	}
	return b.String()
}

func renderThreat(s engine.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Threat"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "level %d  risk %d  defense Lv%d (%.0f pts)\n",
		s.ThreatLevel, s.EffectiveRisk, s.NetDefense.Level, s.NetDefense.Points)
	fmt.Fprintf(&b, "survived %d  blocked %d  damage taken %s\n",
		s.AttacksSurvived, s.AttacksBlocked, formatCredits(s.Stats.DamageTaken))

	switch {
	case s.Attack != nil:
		a := s.Attack
		done := 0.0
		if a.Duration > 0 {
			done = 1 - float64(a.TicksRemaining)/float64(a.Duration)
		}
		b.WriteString(badStyle.Render(fmt.Sprintf("UNDER ATTACK: %s sev %.2f", a.Name, a.Severity)))
		fmt.Fprintf(&b, "\n%s dealt %.0f blocked %.0f", bar(done, barWidth), a.DamageDealt, a.Blocked)
	case s.Warning != nil:
		w := s.Warning
		b.WriteString(warnStyle.Render(fmt.Sprintf("incoming %s in %d (%.0f%%)", w.Name, w.Countdown, w.Accuracy*100)))
	default:
		b.WriteString(dimStyle.Render("all quiet"))
	}
	return b.String()
}

func renderDefense(s engine.Snapshot, v view) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Defense"))
	fmt.Fprintf(&b, "  %s\n", dimStyle.Render(fmt.Sprintf("dmg -%.0f%% det %.0f%%", s.Totals.DamageReduction*100, s.Totals.Detection*100)))

	for i, d := range s.Defense {
		cursor := "  "
		if i == v.defense {
			cursor = "> "
		}
		var line string
		switch {
		case d.Deployed && d.UpgradeCost > 0:
			line = fmt.Sprintf("%s%-12s %-18s %d/%d  d: %s", cursor, d.Category, d.Name, d.Level, d.MaxLevel, formatCredits(d.UpgradeCost))
		case d.NextTier != "":
			name := d.Name
			if name == "" {
				name = "-"
			}
			line = fmt.Sprintf("%s%-12s %-18s next %s %s", cursor, d.Category, name, d.NextTier, formatCredits(d.NextCost))
		case d.Deployed:
			line = fmt.Sprintf("%s%-12s %-18s max", cursor, d.Category, d.Name)
		default:
			line = fmt.Sprintf("%s%-12s %s", cursor, d.Category, dimStyle.Render("locked"))
		}
		if i == v.defense {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		if i < len(s.Defense)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderIntel(s engine.Snapshot) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Intelligence"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "footprint %.0f  report %.0f  ready %d  sent %d\n",
		s.Footprint, s.ReportCost, s.PendingReports, s.ReportsSent)
	fmt.Fprintf(&b, "patterns %d %s  signatures %d\n",
		s.Patterns, bar(s.PatternProgress, barWidth/2), len(s.Signatures))
	if bt := s.Batch; bt != nil {
		fmt.Fprintf(&b, "upload %s %d/%d  x: cancel\n", bar(bt.Progress, barWidth), bt.Sent, bt.Total)
	}
	milestones := "none"
	if len(s.Milestones) > 0 {
		milestones = strings.Join(s.Milestones, ", ")
	}
	fmt.Fprintf(&b, "milestones: %s", milestones)
	if len(s.Lore) > 0 {
		fmt.Fprintf(&b, "\nlore: %s", strings.Join(s.Lore, ", "))
	}
	return b.String()
}

func renderLog(s engine.Snapshot) string {
	if len(s.Recent) == 0 {
		return dimStyle.Render("no events yet")
	}
	return strings.Join(s.Recent, "\n")
}
