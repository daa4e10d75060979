// blockblast is a block placement puzzle for the terminal.
//
// Usage:
//
//	blockblast modes            - List the game modes
//	blockblast play <mode>      - Play a mode
//	blockblast menu             - Start menu to pick modes interactively
//	blockblast levels           - Show level progress
//	blockblast daily            - Show today's challenge, streak and week
//	blockblast scores [mode]    - Show high scores
//	blockblast serve            - Start SSH server for remote play
//	blockblast config           - Print the effective rules as YAML
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 20)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.blockblast/blockblast.db)
//	--config <path>       - Rules file (default: search path, then built-in rules)
//	--difficulty <name>   - easy, normal, hard, expert or nightmare
//	--log <path>          - Write a log file
//	--debug               - Log at debug level
//
// Flag defaults can be set with BLOCKBLAST_* environment variables or a
// .env file in the working directory.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blockblast/internal/config"
	"github.com/vovakirdan/tui-blockblast/internal/core"
	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast"
	"github.com/vovakirdan/tui-blockblast/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogPath    string
	flagDebug      bool
)

// logger is configured by the root command before any subcommand runs.
var logger = log.New(io.Discard)

func main() {
	// A missing .env file is not an error
	_ = godotenv.Load()

	initFlags()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockblast",
	Short: "Block Blast - a block placement puzzle in your terminal",
	Long: `Block Blast is a terminal block puzzle: place the offered pieces on a
10x10 board and clear full rows and columns.

Modes:
  classic  - Endless play until no piece fits
  level    - 100 levels with targets and stars
  timed    - Score as much as you can against the clock
  daily    - One seeded challenge per day

Examples:
  blockblast play classic
  blockblast play timed --time 180
  blockblast play level --level 12 --difficulty hard
  blockblast menu
  blockblast serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := setupLogger(); err != nil {
			return err
		}
		return loadRules()
	},
}

func initFlags() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", getEnvInt("BLOCKBLAST_FPS", core.DefaultConfig().TickRate), "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", getEnv("BLOCKBLAST_DB", storage.DefaultPath), "Path to the scores and progress database")
	pf.StringVar(&flagConfig, "config", getEnv("BLOCKBLAST_CONFIG", ""), "Path to a rules YAML file")
	pf.StringVar(&flagDifficulty, "difficulty", getEnv("BLOCKBLAST_DIFFICULTY", config.DifficultyNormal), "Difficulty: easy, normal, hard, expert, nightmare")
	pf.StringVar(&flagLogPath, "log", getEnv("BLOCKBLAST_LOG", ""), "Write logs to this file")
	pf.BoolVar(&flagDebug, "debug", getEnvBool("BLOCKBLAST_DEBUG", false), "Log at debug level")

	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// setupLogger points the logger at --log. The TUI owns the terminal, so
// without a log file nothing is logged.
func setupLogger() error {
	level := log.InfoLevel
	if flagDebug {
		level = log.DebugLevel
	}
	if flagLogPath == "" {
		logger = log.New(io.Discard)
		return nil
	}

	f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "blockblast",
	})
	return nil
}

// loadRules loads the rules file and checks the difficulty flag.
func loadRules() error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if !config.IsDifficulty(flagDifficulty) {
		return fmt.Errorf("unknown difficulty %q", flagDifficulty)
	}
	blockblast.SetRules(cfg)
	logger.Debug("rules loaded", "config", flagConfig, "candidates", cfg.Candidates, "rotation", cfg.Rotation)
	return nil
}

// openStore opens the database, or returns nil with a warning so the game
// still runs without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		logger.Warn("could not open database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

func closeStore(store *storage.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logger.Warn("could not close database", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}
