// netops is an idle network-operations simulation played in the terminal.
//
// Usage:
//
//	netops play              - Run your network in the terminal dashboard
//	netops levels            - List campaign levels
//	netops simulate          - Run a headless autopilot simulation
//	netops saves             - Inspect, reset or sync stored saves
//	netops history           - Show campaign run history
//	netops serve             - Start SSH server for remote play
//
// Global flags:
//
//	--seed <value>    - Set RNG seed for reproducible runs
//	--db <path>       - Set database path (default: ~/.netops/netops.db)
//	--config <path>   - Custom balance YAML
//	--campaign <path> - Custom campaign YAML
//	--namespace <ns>  - Save namespace (default: local)
//	--tick <ms>       - Override the tick interval
//	--verbose         - Debug logging
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/netops/internal/cloudsync"
	"github.com/vovakirdan/netops/internal/config"
	"github.com/vovakirdan/netops/internal/engine"
	"github.com/vovakirdan/netops/internal/save"
	"github.com/vovakirdan/netops/internal/storage"

	// Import strategies to register them
	_ "github.com/vovakirdan/netops/internal/bots"
)

var (
	// Global flags
	flagSeed      int64
	flagDBPath    string
	flagConfig    string
	flagCampaign  string
	flagTickMS    int
	flagVerbose   bool
	flagNamespace string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "netops",
	Short: "NetOps - run a data network under attack, in your terminal",
	Long: `NetOps is an idle simulation: data flows from generators over links
into converters that turn it into credits, while attacks grow with your
earnings. Spend credits on upgrades, defenses and intelligence reports.

Available commands:
  play      - Play in the terminal dashboard
  levels    - Show the campaign level table
  simulate  - Run an autopilot strategy headless
  saves     - Inspect or reset stored saves
  history   - Show campaign run history
  serve     - Start SSH server for remote play

Examples:
  netops play
  netops levels --mode insane
  netops simulate --strategy balanced --ticks 3600
  netops history --level 2
  netops serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.netops/netops.db", "Path to save database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom balance config YAML")
	rootCmd.PersistentFlags().StringVar(&flagCampaign, "campaign", "", "Path to custom campaign config YAML")
	rootCmd.PersistentFlags().IntVar(&flagTickMS, "tick", 0, "Tick interval in milliseconds (0 = from config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagNamespace, "namespace", "local", "Save namespace")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the CLI logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "netops",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// fileLogger logs to ~/.netops/<name>.log so the terminal UI stays clean.
// Without --verbose it discards everything.
func fileLogger(name string) (*log.Logger, func()) {
	if !flagVerbose {
		return log.New(io.Discard), func() {}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	dir := filepath.Join(home, ".netops")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, name+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	return newLogger(f), func() { f.Close() }
}

// loadConfigs loads balance and campaign, applying the --tick override.
func loadConfigs() (config.Balance, config.Campaign, error) {
	balance, err := config.LoadBalance(flagConfig)
	if err != nil {
		return balance, config.Campaign{}, err
	}
	campaign, err := config.LoadCampaign(flagCampaign)
	if err != nil {
		return balance, campaign, err
	}
	if flagTickMS > 0 {
		balance.Tick.IntervalMS = flagTickMS
	}
	return balance, campaign, nil
}

// seed returns the --seed value, or a time-based one.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// newCloud connects the optional cloud sync. Returns a nil syncer when no
// endpoints are configured.
func newCloud(cfg config.CloudSyncConfig, namespace string, logger *log.Logger) (*cloudsync.Syncer, func(), error) {
	if len(cfg.Endpoints) == 0 {
		return nil, func() {}, nil
	}
	transport, err := cloudsync.NewEtcdTransport(cfg)
	if err != nil {
		return nil, func() {}, err
	}
	syncer := cloudsync.NewSyncer(transport, cloudsync.Options{
		Namespace:     namespace,
		UploadsPerMin: cfg.UploadsPerMin,
		Logger:        logger,
	})
	return syncer, func() {
		syncer.Close()
		transport.Close()
	}, nil
}

// engineOptions wires an engine to the store's namespace. store may be nil.
func engineOptions(balance *config.Balance, campaign *config.Campaign, store *storage.Store, namespace string, logger *log.Logger) engine.Options {
	opts := engine.Options{
		Balance:  balance,
		Campaign: campaign,
		Seed:     seed(),
		Logger:   logger,
	}
	if store != nil {
		slots := store.Slots(namespace)
		opts.Saves = save.NewManager(slots, logger)
		opts.Runs = slots
	}
	return opts
}
