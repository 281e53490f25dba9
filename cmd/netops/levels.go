package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/netops/internal/config"
)

var flagMode string

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the campaign level table",
	Long: `Shows every campaign level with its difficulty after the mode overlay.

Examples:
  netops levels
  netops levels --mode insane`,
	Run: runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&flagMode, "mode", "normal", "Campaign mode: normal or insane")
}

func runLevels(_ *cobra.Command, _ []string) {
	_, campaign, err := loadConfigs()
	if err != nil {
		color.Red("Error loading config: %v", err)
		os.Exit(1)
	}
	mode := config.ParseMode(flagMode)
	dm := config.NewDifficultyManager(campaign)

	titleColor := color.New(color.FgCyan, color.Bold)
	titleColor.Printf("Campaign levels (%s)\n\n", mode)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"ID", "Name", "Start", "Goal", "Time Limit", "Grace", "Threat", "Damage", "Rank Cap"}),
	)
	for _, l := range dm.Levels() {
		p, ok := dm.Params(l.ID, mode)
		if !ok {
			continue
		}
		limit := "-"
		if p.TimeLimitTicks > 0 {
			limit = fmt.Sprintf("%d", p.TimeLimitTicks)
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", l.ID),
			l.Name,
			fmt.Sprintf("%.0f", l.StartingCredits),
			fmt.Sprintf("%.0f", p.GoalCredits),
			limit,
			fmt.Sprintf("%d", p.GraceTicks),
			fmt.Sprintf("x%.2f", p.ThreatScale),
			fmt.Sprintf("x%.2f", p.DamageMultiplier),
			fmt.Sprintf("%d", p.RankCap),
		})
	}
	_ = table.Render()

	fmt.Println()
	fmt.Println("Run 'netops play' and pick a level from the menu.")
}
