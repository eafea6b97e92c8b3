package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/partscan/internal/camera"
	"github.com/example/partscan/internal/config"
	"github.com/example/partscan/internal/engine"
	"github.com/example/partscan/internal/history"
	"github.com/example/partscan/internal/lookup"
	"github.com/example/partscan/internal/mcp"
	"github.com/example/partscan/internal/session"
	"github.com/example/partscan/internal/store"
	"github.com/example/partscan/internal/web"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"parse": true, "scan": true, "history": true, "latest": true,
	"clear": true, "query": true, "devices": true, "web": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
                 _
   ___  __ _ _ _| |_ ___ __ __ _ _ _
  | . \/ _' | '_|  _(_-</ _/ _' | ' \
  |  _/\__,_|_|  \__/__/\__\__,_|_||_|
  |_|

  Scan resolution and session engine

  Usage: partscan <command> [options]
         partscan --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before any setup (no store needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".partscan")

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	st, err := store.NewByEngine(cfg.StoreEngine, baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()
	if sq, ok := st.(*store.SQLiteStore); ok {
		sq.ConfigurePool(cfg)
	}

	deps, err := buildDeps(cfg, st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(deps)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'partscan --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(deps.engine, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// deps bundles the wired application for CLI commands.
type deps struct {
	cfg    *config.Config
	cam    camera.Camera
	engine *engine.Engine
	ui     *web.UIState
}

// buildDeps wires the ledger, capture session and orchestrator. The
// camera is a simulator; decode feeds come from files or stdin rather
// than real video hardware.
func buildDeps(cfg *config.Config, st history.Store) (*deps, error) {
	ledger, err := history.NewLedger(st, cfg.HistoryCap, cfg.RawTextMaxRunes)
	if err != nil {
		return nil, fmt.Errorf("failed to load scan history: %w", err)
	}

	interval := time.Second / time.Duration(cfg.DecodeFPS)
	cam := camera.NewSimulator(simulatedDevices(), os.Stdin, interval)
	sess := session.New(cam, camera.OpenParams{
		FPS:         cfg.DecodeFPS,
		BoxWidth:    cfg.DetectBoxWidth,
		BoxHeight:   cfg.DetectBoxHeight,
		AspectRatio: cfg.DetectAspectRatio,
	})

	var lookupFn lookup.Func
	if cfg.LookupURL != "" {
		lookupFn = lookup.NewClient(cfg.LookupURL).Query
	} else {
		lookupFn = lookup.Mock(300 * time.Millisecond)
	}

	ui := web.NewUIState()
	eng := engine.New(cfg, ledger, sess, ui, lookupFn)
	return &deps{cfg: cfg, cam: cam, engine: eng, ui: ui}, nil
}

// simulatedDevices parses PARTSCAN_DEVICES ("id=label,id=label") into
// the simulator's device list. Empty means no capture device.
func simulatedDevices() []camera.Device {
	raw := strings.TrimSpace(os.Getenv("PARTSCAN_DEVICES"))
	if raw == "" {
		return nil
	}
	var devices []camera.Device
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, label, found := strings.Cut(part, "=")
		if !found {
			label = id
		}
		devices = append(devices, camera.Device{ID: id, Label: label})
	}
	return devices
}
