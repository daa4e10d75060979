package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blockblast/internal/registry"
	"github.com/vovakirdan/tui-blockblast/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresPlayer string
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the top scores of a mode, or a summary of every mode.

Examples:
  blockblast scores
  blockblast scores classic
  blockblast scores --player alice
  blockblast scores timed --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Show one player's scores across modes")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the scores of the mode")
}

func runScores(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer closeStore(store)

	switch {
	case flagScoresPlayer != "":
		printPlayerScores(store, flagScoresPlayer)
	case len(args) == 0:
		printSummary(store)
	default:
		printModeScores(store, args[0])
	}
}

func printModeScores(store *storage.Store, mode string) {
	game, err := registry.Create(mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		fmt.Fprintln(os.Stderr, "Run 'blockblast modes' to see available modes.")
		return
	}

	if flagScoresClear {
		if err := store.ClearScores(mode); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			return
		}
		fmt.Printf("Scores for %s cleared.\n", mode)
		return
	}

	scores, err := store.TopScores(mode, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", game.Title())
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'blockblast play %s' to set the first high score!\n", mode)
		return
	}

	fmt.Printf("  %-4s  %-12s  %-8s  %-5s  %-9s  %s\n", "Rank", "Player", "Score", "Level", "Diff", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-5s  %-9s  %s\n", "----", "------", "-----", "-----", "----", "----")
	for i, e := range scores {
		fmt.Printf("  %-4d  %-12s  %-8d  %-5d  %-9s  %s\n",
			i+1, e.Player, e.Score, e.Level, e.Difficulty, e.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printPlayerScores(store *storage.Store, player string) {
	scores, err := store.PlayerScores(player, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("Scores - %s\n", player)
	fmt.Println()
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}

	fmt.Printf("  %-8s  %-8s  %-5s  %s\n", "Mode", "Score", "Level", "Date")
	fmt.Printf("  %-8s  %-8s  %-5s  %s\n", "----", "-----", "-----", "----")
	for _, e := range scores {
		fmt.Printf("  %-8s  %-8d  %-5d  %s\n", e.Mode, e.Score, e.Level, e.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printSummary(store *storage.Store) {
	stats, err := store.AllModeStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}
	if len(stats) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}

	modes := make([]string, 0, len(stats))
	for m := range stats {
		modes = append(modes, m)
	}
	sort.Strings(modes)

	fmt.Printf("  %-8s  %-6s  %-8s  %-8s  %-5s  %s\n", "Mode", "Games", "Best", "Average", "Level", "Last played")
	fmt.Printf("  %-8s  %-6s  %-8s  %-8s  %-5s  %s\n", "----", "-----", "----", "-------", "-----", "-----------")
	for _, m := range modes {
		s := stats[m]
		fmt.Printf("  %-8s  %-6d  %-8d  %-8.0f  %-5d  %s\n",
			m, s.GamesCount, s.HighScore, s.AvgScore, s.BestLevel, s.LastPlayed.Format("2006-01-02 15:04"))
	}
}
