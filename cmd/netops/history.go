package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/netops/internal/storage"
)

var (
	flagHistoryLevel int
	flagHistoryLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show campaign run history",
	Long: `Display recent campaign runs of a namespace, or the fastest
completions of one level across every namespace.

Examples:
  netops history
  netops history --namespace alice
  netops history --level 2 --limit 5`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLevel, "level", 0, "Show the best completions of this level")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Maximum rows")
}

func runHistory(_ *cobra.Command, _ []string) {
	store := mustOpenStore()
	defer store.Close()

	titleColor := color.New(color.FgCyan, color.Bold)

	var runs []storage.RunRecord
	var err error
	if flagHistoryLevel > 0 {
		titleColor.Printf("Best runs - level %d\n\n", flagHistoryLevel)
		runs, err = store.BestRuns(flagHistoryLevel, flagHistoryLimit)
	} else {
		titleColor.Printf("Recent runs - %s\n\n", flagNamespace)
		runs, err = store.RecentRuns(flagNamespace, flagHistoryLimit)
	}
	if err != nil {
		color.Red("Error retrieving runs: %v", err)
		os.Exit(1)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Start a level from 'netops play' to record your first run!")
		return
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Player", "Level", "Mode", "Outcome", "Ticks", "Earned", "Attacks", "Reports", "Date"}),
	)
	for i, r := range runs {
		mode := "normal"
		if r.Insane {
			mode = "insane"
		}
		outcome := r.Outcome
		if r.Reason != "" && r.Reason != r.Outcome {
			outcome += " (" + r.Reason + ")"
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", i+1),
			r.Namespace,
			fmt.Sprintf("%d", r.LevelID),
			mode,
			outcome,
			fmt.Sprintf("%d", r.Ticks),
			fmt.Sprintf("%.0f", r.Earned),
			fmt.Sprintf("%d", r.AttacksSurvived),
			fmt.Sprintf("%d", r.ReportsSent),
			r.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	_ = table.Render()

	stats, err := store.GetLevelStats(flagNamespace)
	if err != nil || len(stats) == 0 {
		return
	}
	ids := make([]int, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fmt.Println()
	successColor := color.New(color.FgGreen, color.Bold)
	for _, id := range ids {
		st := stats[id]
		line := fmt.Sprintf("Level %d: %d/%d completed", id, st.Completions, st.Attempts)
		if st.Completions > 0 {
			successColor.Printf("%s, best %d ticks\n", line, st.BestTicks)
		} else {
			fmt.Println(line)
		}
	}
}
