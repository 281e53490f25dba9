package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/netops/internal/config"
	"github.com/vovakirdan/netops/internal/engine"
	"github.com/vovakirdan/netops/internal/registry"
	"github.com/vovakirdan/netops/internal/save"
	"github.com/vovakirdan/netops/internal/storage"
)

var (
	flagStrategy    string
	flagTicks       int
	flagLevel       int
	flagSimMode     string
	flagRealtime    bool
	flagReportEvery int
	flagRecord      bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run an autopilot strategy headless",
	Long: `Run the simulation without a UI, letting a strategy play.

The game state lives in memory; your saves are never touched. With
--level the strategy plays a campaign level until it completes, fails or
runs out of ticks. --record stores the finished run in the history.

Strategies:
  idle      - Never buys anything
  greedy    - Cheapest upgrade first, reports as soon as ready
  balanced  - Widens the bottleneck, keeps firewall and defenses

Examples:
  netops simulate
  netops simulate --strategy greedy --ticks 7200 --seed 42
  netops simulate --level 3 --mode insane --strategy balanced
  netops simulate --realtime --tick 100`,
	Run: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagStrategy, "strategy", "balanced", "Autopilot strategy")
	simulateCmd.Flags().IntVar(&flagTicks, "ticks", 3600, "Number of ticks to simulate")
	simulateCmd.Flags().IntVar(&flagLevel, "level", 0, "Campaign level to play (0 = sandbox)")
	simulateCmd.Flags().StringVar(&flagSimMode, "mode", "normal", "Campaign mode: normal or insane")
	simulateCmd.Flags().BoolVar(&flagRealtime, "realtime", false, "Tick on the wall clock instead of as fast as possible")
	simulateCmd.Flags().IntVar(&flagReportEvery, "report-every", 600, "Ticks between progress rows")
	simulateCmd.Flags().BoolVar(&flagRecord, "record", false, "Record campaign runs in the history database")
}

// simHost stops the simulation when a level ends.
type simHost struct {
	engine.NopHost
	ended    bool
	complete bool
	result   string
}

func (h *simHost) LevelComplete(s engine.LevelStats) {
	h.ended = true
	h.complete = true
	h.result = fmt.Sprintf("level %d complete in %d ticks (%.0f earned)", s.LevelID, s.Ticks, s.Earned)
}

func (h *simHost) LevelFailed(reason string) {
	h.ended = true
	h.result = "level failed: " + reason
}

// simRunner drives one engine with a strategy and collects report rows.
type simRunner struct {
	eng      *engine.Engine
	strategy registry.Strategy
	host     *simHost
	rows     [][]string
	every    int
	ticks    int
	stop     func()
}

// Tick runs one engine tick and lets the strategy act on the result.
func (r *simRunner) Tick() {
	r.eng.Tick()
	r.strategy.Act(r.eng)
	r.ticks++
	if r.every > 0 && r.ticks%r.every == 0 {
		r.rows = append(r.rows, progressRow(r.eng.Snapshot()))
	}
	if r.host.ended || r.ticks >= flagTicks {
		r.stop()
	}
}

func progressRow(s engine.Snapshot) []string {
	return []string{
		fmt.Sprintf("%d", s.Tick),
		fmt.Sprintf("%.0f", s.Credits),
		fmt.Sprintf("%.0f", s.TotalEarned),
		fmt.Sprintf("%.1f", s.IncomePerTick),
		fmt.Sprintf("%d", s.ThreatLevel),
		fmt.Sprintf("%d/%d", s.AttacksSurvived, s.AttacksBlocked),
		fmt.Sprintf("%d", s.ReportsSent),
		fmt.Sprintf("%d/%d/%d", s.Generator.Level, s.Link.Level, s.Converter.Level),
	}
}

func runSimulate(_ *cobra.Command, _ []string) {
	strategy, err := registry.Create(flagStrategy)
	if err != nil {
		color.Red("Error: %v", err)
		fmt.Fprintln(os.Stderr, "Available strategies:")
		for _, s := range registry.List() {
			fmt.Fprintf(os.Stderr, "  %-10s %s\n", s.ID, s.Title)
		}
		os.Exit(1)
	}

	balance, campaign, err := loadConfigs()
	if err != nil {
		color.Red("Error loading config: %v", err)
		os.Exit(1)
	}
	logger := newLogger(os.Stderr)
	if !flagVerbose {
		logger.SetLevel(log.WarnLevel)
	}

	host := &simHost{}
	opts := engine.Options{
		Balance:  &balance,
		Campaign: &campaign,
		Seed:     seed(),
		Logger:   logger,
		Host:     host,
		Saves:    save.NewManager(save.NewMemoryStore(), logger),
	}
	if flagRecord {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			color.Red("Error opening database: %v", err)
			os.Exit(1)
		}
		defer store.Close()
		opts.Runs = store.Slots(flagNamespace)
	}
	eng := engine.New(opts)

	if flagLevel > 0 {
		if err := eng.StartLevel(flagLevel, config.ParseMode(flagSimMode)); err != nil {
			color.Red("Error: %v", err)
			os.Exit(1)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	runner := &simRunner{eng: eng, strategy: strategy, host: host, every: flagReportEvery}
	if flagRealtime {
		runner.stop = cancel
		sched := engine.NewTickerScheduler(runner, balance.Tick.Interval(), nil)
		_ = sched.Run(ctx)
	} else {
		stopped := false
		runner.stop = func() { stopped = true }
		sched := engine.NewManualScheduler(runner)
		for !stopped && ctx.Err() == nil {
			sched.Advance(1)
		}
	}
	final := eng.Snapshot()
	if eng.InCampaign() {
		eng.AbandonLevel()
	}
	eng.Flush()

	titleColor := color.New(color.FgCyan, color.Bold)
	titleColor.Printf("Simulation: %s, %d ticks\n\n", strategy.Title(), runner.ticks)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Tick", "Credits", "Earned", "Income/t", "Threat", "Survived/Blocked", "Reports", "Levels G/L/C"}),
	)
	for _, row := range runner.rows {
		_ = table.Append(row)
	}
	_ = table.Append(progressRow(final))
	_ = table.Render()

	fmt.Println()
	switch {
	case host.complete:
		color.New(color.FgGreen, color.Bold).Println(host.result)
	case host.ended:
		color.New(color.FgRed, color.Bold).Println(host.result)
	case flagLevel > 0:
		color.Yellow("level unfinished after %d ticks", runner.ticks)
	}
}
