package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/engine"
	"github.com/vovakirdan/tui-blockblast/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode.

Pick a mode, adjust difficulty and mode options, then play.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate
  Left/Right   - Change an option
  Enter/Space  - Select
  Tab          - High scores
  Q            - Quit

Examples:
  blockblast menu
  blockblast menu --db ./blockblast.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store := openStore()
	defer closeStore(store)

	cfg := terminalConfig()
	difficulty := flagDifficulty

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		cfg = menuResult.Config

		if menuResult.Quit {
			return
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, tui.LocalPlayer, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			return // User quit from scoreboard
		}

		mode := menuResult.GameID
		if mode == "" {
			return
		}

		env := tui.PlayerEnv(store, tui.LocalPlayer, nil, logger)
		settings, err := tui.RunOptions(engine.Mode(mode), env.Store, difficulty, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if settings == nil {
			continue // Back or quit from options
		}
		if d, ok := settings[blockblast.SettingDifficulty]; ok {
			difficulty = d
		}

		env.Settings = settings
		game, err := tui.NewGame(mode, env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Fresh seed for each game unless one was given
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, store, tui.LocalPlayer, cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}

		// Loop back to menu
	}
}
