package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/levels"
	"github.com/vovakirdan/tui-blockblast/internal/platform/tui"
)

var (
	flagLevelsAll   bool
	flagLevelsReset bool
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show level progress",
	Long: `Display stars, best score and attempts for every unlocked level.

Examples:
  blockblast levels
  blockblast levels --all
  blockblast levels --reset`,
	Args: cobra.NoArgs,
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().BoolVar(&flagLevelsAll, "all", false, "Include locked levels")
	levelsCmd.Flags().BoolVar(&flagLevelsReset, "reset", false, "Erase all level progress")
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

func runLevels(_ *cobra.Command, _ []string) error {
	store := openStore()
	defer closeStore(store)

	env := tui.PlayerEnv(store, tui.LocalPlayer, nil, logger)
	lm := levels.NewManager(levels.WithStore(env.Store), levels.WithLogger(logger))

	if flagLevelsReset {
		lm.Reset()
		fmt.Println("Level progress erased.")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Level", "Target", "Stars", "Best", "Tries", "Notes").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for lvl := 1; lvl <= lm.LevelCount(); lvl++ {
		unlocked := lm.IsUnlocked(lvl)
		if !unlocked && !flagLevelsAll {
			continue
		}
		c, ok := lm.Config(lvl)
		if !ok {
			continue
		}

		stars, best, tries := "locked", "-", "-"
		if p, ok := lm.Progress(lvl); ok {
			stars = strings.Repeat("*", p.Stars) + strings.Repeat(".", 3-p.Stars)
			best = strconv.Itoa(p.BestScore)
			tries = strconv.Itoa(p.Attempts)
		}

		notes := strings.Join(c.Mechanics, ", ")
		if c.HasTimeLimit {
			notes = strings.TrimPrefix(notes+fmt.Sprintf(", %ds", c.TimeLimitSeconds), ", ")
		}
		t.Row(strconv.Itoa(lvl), strconv.Itoa(c.TargetScore), stars, best, tries, notes)
	}

	fmt.Println(t.Render())
	fmt.Printf("Current level: %d   Stars: %d / %d\n", lm.CurrentLevel(), lm.TotalStars(), lm.MaxStars())
	return nil
}
