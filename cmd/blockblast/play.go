package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blockblast/internal/core"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast"
	"github.com/vovakirdan/tui-blockblast/internal/platform/tui"
	"github.com/vovakirdan/tui-blockblast/internal/registry"
)

var (
	flagTimeLimit  int
	flagStartLevel int
)

var playCmd = &cobra.Command{
	Use:   "play <mode>",
	Short: "Play a mode",
	Long: `Start playing the given mode: classic, level, timed or daily.

Controls:
  Arrows/WASD  - Move the piece
  1-3/Tab      - Pick a piece
  X            - Rotate (when the rules allow it)
  Enter/Space  - Place
  N            - Next level (after a level is complete)
  P            - Pause
  R            - Restart
  B/Esc        - Leave
  Q/Ctrl+C     - Quit

Examples:
  blockblast play classic
  blockblast play timed --time 180
  blockblast play level --level 5
  blockblast play daily --difficulty easy`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagTimeLimit, "time", blockblast.DefaultTimeLimit, "Timed mode limit in seconds: 180, 300 or 600")
	playCmd.Flags().IntVar(&flagStartLevel, "level", 0, "Level mode: start at this unlocked level")
}

// terminalConfig returns a runtime config sized to the terminal.
func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

func runPlay(cmd *cobra.Command, args []string) {
	mode := args[0]

	if !registry.Exists(mode) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		fmt.Fprintln(os.Stderr, "Run 'blockblast modes' to see available modes.")
		os.Exit(1)
	}

	settings := map[string]string{
		blockblast.SettingDifficulty: flagDifficulty,
		blockblast.SettingTimeLimit:  strconv.Itoa(flagTimeLimit),
	}
	if flagStartLevel > 0 {
		settings[blockblast.SettingLevel] = strconv.Itoa(flagStartLevel)
	}

	store := openStore()
	env := tui.PlayerEnv(store, tui.LocalPlayer, settings, logger)

	game, err := tui.NewGame(mode, env)
	if err != nil {
		closeStore(store)
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.Run(game, store, tui.LocalPlayer, terminalConfig(), logger)

	// Close store before potential exit
	closeStore(store)

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
