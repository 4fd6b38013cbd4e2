package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mars-lander/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagServeMap    string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH viewing server",
	Long: `Start an SSH server that flies the autopilot for every connection.

Each SSH connection gets its own descent. The map can be chosen with the
session command; otherwise --map is flown. Finished runs are recorded in
the shared runs database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.lander/host_key

Examples:
  lander serve                           # Listen on :23234 with auto-generated key
  lander serve --ssh :2222               # Listen on port 2222
  lander serve --map deep-canyon         # Default map for sessions

Users can connect with:
  ssh localhost -p 23234
  ssh localhost -p 23234 wrong-side`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagServeMap, "map", "descent", "Map flown when the session names none")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	planner, err := loadPlanner()
	if err != nil {
		fatal("%v", err)
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.MapID = flagServeMap
	cfg.MapsDir = flagMapsDir
	cfg.Planner = planner
	cfg.Preset = flagPreset

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fatal("creating server: %v", err)
	}

	fmt.Printf("Starting lander SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh localhost -p 23234 [map]")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
