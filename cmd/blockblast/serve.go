package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blockblast/internal/games/blockblast/daily"
	"github.com/vovakirdan/tui-blockblast/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a mode picker menu.
Level progress and daily results are kept per SSH user; all users share
the same leaderboard.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.blockblast/host_key

Examples:
  blockblast serve                           # Listen on :23234 with auto-generated key
  blockblast serve --ssh :2222               # Listen on port 2222
  blockblast serve --host-key ./my_host_key  # Use specific host key
  blockblast serve --db ./blockblast.db      # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", getEnv("BLOCKBLAST_SSH_ADDR", ":23234"), "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	// The server logs to stderr unless a log file was requested
	srvLogger := logger
	if flagLogPath == "" {
		srvLogger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "blockblast-ssh",
		})
		if flagDebug {
			srvLogger.SetLevel(log.DebugLevel)
		}
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		Difficulty:  flagDifficulty,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
	}

	server, err := tui.NewSSHServer(cfg, srvLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	// Announce each new daily challenge while serving
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dm := daily.NewManager(daily.WithLogger(srvLogger))
	go dm.Watch(ctx, func(c daily.Challenge) {
		srvLogger.Info("new daily challenge", "date", c.Date, "kind", c.Kind, "target", c.TargetScore)
	})

	fmt.Printf("Starting Block Blast SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
