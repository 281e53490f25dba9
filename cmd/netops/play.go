package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/netops/internal/core"
	"github.com/vovakirdan/netops/internal/engine"
	"github.com/vovakirdan/netops/internal/platform/tui"
	"github.com/vovakirdan/netops/internal/storage"
)

var (
	flagDebugProduction float64
	flagDebugCredits    float64
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal dashboard",
	Long: `Open the menu and run your network in the terminal dashboard.

The game saves every few ticks and on exit. While you are away the
network keeps earning at reduced efficiency, up to a cap.

Controls:
  1/2/3      - Upgrade generator / link / converter
  Tab        - Select lane, U unlocks its next unit
  F          - Buy or upgrade firewall
  J/K, D     - Select and advance a defense
  R/A/X      - Send report / send all / cancel upload
  P/Space    - Pause
  S          - Save now
  Esc        - Back to menu
  Q/Ctrl+C   - Quit

Examples:
  netops play
  netops play --tick 250
  netops play --namespace alt --db ./netops.db`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().Float64Var(&flagDebugProduction, "debug-production", 1, "Debug production multiplier")
	playCmd.Flags().Float64Var(&flagDebugCredits, "debug-credits", 1, "Debug credit multiplier")
}

func runPlay(_ *cobra.Command, _ []string) {
	balance, campaign, err := loadConfigs()
	if err != nil {
		color.Red("Error loading config: %v", err)
		os.Exit(1)
	}

	logger, closeLog := fileLogger("play")
	defer closeLog()

	// Open save storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		color.Yellow("Warning: could not open save database: %v", err)
		// Continue without storage - the game still works, it just won't persist
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cloud, closeCloud, err := newCloud(balance.CloudSync, flagNamespace, logger)
	if err != nil {
		color.Yellow("Warning: cloud sync disabled: %v", err)
	}
	defer closeCloud()

	notes := tui.NewNotifier()
	opts := engineOptions(&balance, &campaign, store, flagNamespace, logger)
	opts.Host = notes
	opts.Feedback = notes
	opts.Cloud = cloud
	eng := engine.New(opts)
	eng.SetDebugMultipliers(flagDebugProduction, flagDebugCredits)

	if store != nil {
		if _, err := eng.Load(); err != nil {
			color.Yellow("Warning: could not load save: %v", err)
		}
	}

	runtime := core.DefaultConfig()
	runtime.TickInterval = balance.Tick.Interval()
	runtime.Seed = opts.Seed
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		runtime.ScreenW = w
		runtime.ScreenH = h
	}

	runErr := tui.Run(tui.AppConfig{
		Engine:    eng,
		Notifier:  notes,
		Store:     store,
		Namespace: flagNamespace,
		Runtime:   runtime,
		Logger:    logger,
	})
	eng.Flush()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
