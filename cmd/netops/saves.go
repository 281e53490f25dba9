package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/netops/internal/cloudsync"
	"github.com/vovakirdan/netops/internal/engine"
	"github.com/vovakirdan/netops/internal/save"
	"github.com/vovakirdan/netops/internal/storage"
)

var flagResetYes bool

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Inspect or reset stored saves",
	Long: `Inspect the save slots of a namespace, list namespaces, or reset a save.

Examples:
  netops saves inspect
  netops saves inspect --namespace alice
  netops saves namespaces
  netops saves remote
  netops saves reset --yes`,
}

var savesInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show save slots and the current game summary",
	Run:   runSavesInspect,
}

var savesNamespacesCmd = &cobra.Command{
	Use:   "namespaces",
	Short: "List namespaces with saves in the local database",
	Run:   runSavesNamespaces,
}

var savesRemoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "List snapshots stored in the cloud sync cluster",
	Run:   runSavesRemote,
}

var savesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every save slot and the run history of a namespace",
	Run:   runSavesReset,
}

func init() {
	savesResetCmd.Flags().BoolVar(&flagResetYes, "yes", false, "Confirm the reset")

	savesCmd.AddCommand(savesInspectCmd)
	savesCmd.AddCommand(savesNamespacesCmd)
	savesCmd.AddCommand(savesRemoteCmd)
	savesCmd.AddCommand(savesResetCmd)
}

func mustOpenStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		color.Red("Error opening save database: %v", err)
		os.Exit(1)
	}
	return store
}

func runSavesInspect(_ *cobra.Command, _ []string) {
	store := mustOpenStore()
	defer store.Close()

	logger := newLogger(os.Stderr)
	mgr := save.NewManager(store.Slots(flagNamespace), logger)
	slots, err := mgr.Inspect()
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	titleColor := color.New(color.FgCyan, color.Bold)
	titleColor.Printf("Save slots - %s\n\n", flagNamespace)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Key", "Present", "Size", "Valid"}),
	)
	for _, s := range slots {
		present, valid := "-", "-"
		size := "-"
		if s.Present {
			present = "yes"
			size = fmt.Sprintf("%d", s.Size)
			valid = "no"
			if s.Valid {
				valid = "yes"
			}
		}
		_ = table.Append([]string{s.Key, present, size, valid})
	}
	_ = table.Render()

	st, info, err := mgr.Load()
	if err != nil {
		color.Red("Error loading save: %v", err)
		os.Exit(1)
	}
	fmt.Println()
	if st == nil {
		fmt.Println("No game saved yet.")
		return
	}
	if info.Steps > 0 {
		color.Yellow("Save is version %d; %d migration steps will run on next load.", info.FromVersion, info.Steps)
	}
	fmt.Printf("Credits:      %.0f\n", st.Credits)
	fmt.Printf("Total earned: %.0f\n", st.TotalEarned)
	fmt.Printf("Ticks:        %d\n", st.TickCount)
	fmt.Printf("Units:        %s / %s / %s\n", st.Units.Generator.ID, st.Units.Link.ID, st.Units.Converter.ID)
	fmt.Printf("Threat level: %d\n", st.Threat.Level)
	if st.LastSaveUnix > 0 {
		fmt.Printf("Saved:        %s\n", time.Unix(st.LastSaveUnix, 0).Format("2006-01-02 15:04:05"))
	}

	if cp, err := mgr.LoadCheckpoint(); err == nil && cp != nil {
		mode := "normal"
		if cp.Insane {
			mode = "insane"
		}
		fmt.Printf("Checkpoint:   level %d (%s), %d ticks, %.0f earned\n", cp.LevelID, mode, cp.TicksElapsed, cp.EarnedThisLevel)
	}
}

func runSavesNamespaces(_ *cobra.Command, _ []string) {
	store := mustOpenStore()
	defer store.Close()

	namespaces, err := store.Namespaces()
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
	if len(namespaces) == 0 {
		fmt.Println("No saves stored yet.")
		return
	}
	for _, ns := range namespaces {
		fmt.Printf("  %s\n", ns)
	}
}

func runSavesRemote(_ *cobra.Command, _ []string) {
	balance, _, err := loadConfigs()
	if err != nil {
		color.Red("Error loading config: %v", err)
		os.Exit(1)
	}
	transport, err := cloudsync.NewEtcdTransport(balance.CloudSync)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
	defer transport.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	namespaces, err := transport.Namespaces(ctx)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Namespace", "Earned", "Ticks", "Saved", "Revision"}),
	)
	for _, ns := range namespaces {
		snap, err := transport.Pull(ctx, ns)
		if err != nil || snap == nil {
			_ = table.Append([]string{ns, "?", "?", "?", "?"})
			continue
		}
		_ = table.Append([]string{
			ns,
			fmt.Sprintf("%.0f", snap.Progress.TotalEarned),
			fmt.Sprintf("%d", snap.Progress.TickCount),
			time.Unix(snap.SavedAt, 0).Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", snap.Revision),
		})
	}
	_ = table.Render()
}

func runSavesReset(_ *cobra.Command, _ []string) {
	if !flagResetYes {
		color.Yellow("This deletes the save and run history of namespace %q. Re-run with --yes to confirm.", flagNamespace)
		os.Exit(1)
	}

	balance, campaign, err := loadConfigs()
	if err != nil {
		color.Red("Error loading config: %v", err)
		os.Exit(1)
	}

	store := mustOpenStore()
	defer store.Close()

	logger := newLogger(os.Stderr)
	eng := engine.New(engineOptions(&balance, &campaign, store, flagNamespace, logger))
	if err := eng.Reset(); err != nil {
		color.Red("Error resetting save: %v", err)
		os.Exit(1)
	}
	if err := store.ClearRuns(flagNamespace); err != nil {
		color.Red("Error clearing history: %v", err)
		os.Exit(1)
	}
	color.Green("Namespace %q reset.", flagNamespace)
}
