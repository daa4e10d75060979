package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/daily"
	"github.com/vovakirdan/tui-blockblast/internal/platform/tui"
)

var (
	flagDailyDate  string
	flagDailyReset bool
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show today's challenge, streak and week",
	Long: `Display the daily challenge and your results for the last seven days.

Every player gets the same challenge on the same date.

Examples:
  blockblast daily
  blockblast daily --date 2024-04-13
  blockblast daily --reset`,
	Args: cobra.NoArgs,
	RunE: runDaily,
}

func init() {
	dailyCmd.Flags().StringVar(&flagDailyDate, "date", "", "Preview the challenge of a date (YYYY-MM-DD)")
	dailyCmd.Flags().BoolVar(&flagDailyReset, "reset", false, "Erase all daily results")
}

func printChallenge(c daily.Challenge) {
	fmt.Println(headerStyle.Render("Daily challenge " + c.Date))
	fmt.Printf("  %s\n", c.Description)
	fmt.Printf("  Kind: %s   Target: %d", c.Kind, c.TargetScore)
	if c.TimeLimit > 0 {
		fmt.Printf("   Time: %d:%02d", c.TimeLimit/60, c.TimeLimit%60)
	}
	fmt.Println()
}

func runDaily(_ *cobra.Command, _ []string) error {
	if flagDailyDate != "" {
		c, err := daily.Generate(flagDailyDate)
		if err != nil {
			return err
		}
		printChallenge(c)
		return nil
	}

	store := openStore()
	defer closeStore(store)

	env := tui.PlayerEnv(store, tui.LocalPlayer, nil, logger)
	dm := daily.NewManager(daily.WithStore(env.Store), daily.WithLogger(logger))

	if flagDailyReset {
		dm.Reset()
		fmt.Println("Daily results erased.")
		return nil
	}

	if c, ok := dm.CurrentChallenge(); ok {
		printChallenge(c)
	}
	if r, ok := dm.TodayResult(); ok {
		fmt.Printf("  Today's best: %d in %d attempt(s), rank #%d\n", r.Score, r.Attempts, dm.SimulatedRank(r.Score))
	} else {
		fmt.Println("  Not played yet today. Run 'blockblast play daily'.")
	}
	fmt.Println()

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Score", "Tries", "Done").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, r := range dm.WeeklyResults() {
		done := ""
		if r.Completed {
			done = "yes"
		}
		t.Row(r.Date, fmt.Sprint(r.Score), fmt.Sprint(r.Attempts), done)
	}
	fmt.Println(t.Render())
	fmt.Printf("Streak: %d   Completed: %d\n", dm.Streak(), dm.TotalCompleted())
	return nil
}
