package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/profilegrid/profilegrid/internal/automation"
	"github.com/profilegrid/profilegrid/internal/config"
	"github.com/profilegrid/profilegrid/internal/hotkeys"
	"github.com/profilegrid/profilegrid/internal/ipc"
	"github.com/profilegrid/profilegrid/internal/platform"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: profilegrid daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: profilegrid daemon")
			os.Exit(2)
		}
		runDaemon()
	case "position":
		os.Exit(runPosition(os.Args[2:]))
	case "resize":
		os.Exit(runResize(os.Args[2:]))
	case "zoom":
		os.Exit(runZoom(os.Args[2:]))
	case "navigate":
		os.Exit(runNavigate(os.Args[2:]))
	case "profiles":
		os.Exit(runProfiles(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: profilegrid <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the profilegrid daemon (foreground)")
	fmt.Fprintln(w, "  position            Arrange profile windows in a grid")
	fmt.Fprintln(w, "  resize              Resize profile windows in place")
	fmt.Fprintln(w, "  zoom                Set browser zoom in all profile windows")
	fmt.Fprintln(w, "  navigate            Open a URL in every profile window")
	fmt.Fprintln(w, "  profiles            List detected profile windows")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Reload daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'profilegrid <command> --help' for command-specific options.")
}

// humanOutput reports whether stdout is an interactive terminal. Piped
// invocations get JSON instead.
func humanOutput() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func printJSON(v interface{}) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}

func printActionData(verb string, data *ipc.ActionData) int {
	if !humanOutput() {
		return printJSON(data)
	}
	fmt.Printf("%s %d windows (%d failed)\n", verb, data.Count, data.Failed)
	for _, r := range data.Results {
		if r.Error != "" {
			fmt.Printf("- 0x%08x %q: %s\n", r.WindowID, r.Title, r.Error)
		}
	}
	for _, r := range data.ZoomResults {
		if r.Error != "" {
			fmt.Printf("- zoom 0x%08x %q: %s\n", r.WindowID, r.Title, r.Error)
		}
	}
	return 0
}

func runPosition(args []string) int {
	fs := flag.NewFlagSet("position", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: profilegrid position [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Arrange all profile windows in a grid on the primary monitor.")
		fmt.Fprintln(os.Stderr, "Unset flags fall back to the daemon's configured values.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	cols := fs.Int("cols", 0, "Grid columns (0 = auto)")
	rows := fs.Int("rows", 0, "Grid rows (0 = auto)")
	hgap := fs.Int("h-gap", -1, "Horizontal gap in pixels (-1 = configured)")
	vgap := fs.Int("v-gap", -1, "Vertical gap in pixels (-1 = configured)")
	width := fs.Int("width", 0, "Window width in pixels (0 = configured)")
	height := fs.Int("height", 0, "Window height in pixels (0 = configured)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "position takes no arguments")
		fs.Usage()
		return 2
	}

	payload := ipc.PositionPayload{}
	if *cols > 0 {
		payload.Cols = cols
	}
	if *rows > 0 {
		payload.Rows = rows
	}
	if *hgap >= 0 {
		payload.HGap = hgap
	}
	if *vgap >= 0 {
		payload.VGap = vgap
	}
	if *width > 0 {
		payload.Width = width
	}
	if *height > 0 {
		payload.Height = height
	}

	client := ipc.NewClient()
	data, err := client.Position(payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printActionData("Positioned", data)
}

func runResize(args []string) int {
	fs := flag.NewFlagSet("resize", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: profilegrid resize [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Resize every profile window without moving it.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	width := fs.Int("width", 0, "Target width in pixels (0 = configured)")
	height := fs.Int("height", 0, "Target height in pixels (0 = configured)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "resize takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.Resize(*width, *height)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printActionData("Resized", data)
}

func runZoom(args []string) int {
	fs := flag.NewFlagSet("zoom", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: profilegrid zoom [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Apply a browser zoom level in every profile window. The value is")
		fmt.Fprintln(os.Stderr, "snapped to the nearest browser zoom stop.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	percent := fs.Int("percent", 0, "Zoom percentage (0 = configured)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "zoom takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.Zoom(*percent)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printActionData("Zoomed", data)
}

func runNavigate(args []string) int {
	fs := flag.NewFlagSet("navigate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: profilegrid navigate [flags] <url>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the URL in a new tab in every profile window.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	zoom := fs.Bool("zoom", false, "Apply zoom after the pages load")
	noZoom := fs.Bool("no-zoom", false, "Skip the post-navigation zoom pass")
	zoomPercent := fs.Int("zoom-percent", 0, "Zoom percentage for the post-navigation pass (0 = configured)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "navigate requires exactly one URL")
		fs.Usage()
		return 2
	}
	if *zoom && *noZoom {
		fmt.Fprintln(os.Stderr, "--zoom and --no-zoom are mutually exclusive")
		return 2
	}

	url, err := automation.NormalizeURL(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	var zoomAfter *bool
	if *zoom {
		t := true
		zoomAfter = &t
	}
	if *noZoom {
		f := false
		zoomAfter = &f
	}

	client := ipc.NewClient()
	data, err := client.Navigate(url, zoomAfter, *zoomPercent)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return printActionData("Navigated", data)
}

func runProfiles(args []string) int {
	fs := flag.NewFlagSet("profiles", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: profilegrid profiles")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List detected profile windows in processing order.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "profiles takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.ListProfiles()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !humanOutput() {
		return printJSON(data)
	}
	fmt.Printf("%d profile windows\n", len(data.Profiles))
	for i, p := range data.Profiles {
		fmt.Printf("%2d. 0x%08x  %s\n", i+1, p.WindowID, p.Title)
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: profilegrid status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !humanOutput() {
		return printJSON(status)
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("profile_count:  %d\n", status.ProfileCount)
	fmt.Printf("hotkey:         %s\n", status.Hotkey)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: profilegrid reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the daemon to reload its configuration file.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if err := client.Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config reload requested")
	return 0
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  profilegrid config validate [--path FILE]")
	fmt.Fprintln(w, "  profilegrid config print [--defaults] [--path FILE]")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/profilegrid/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var err error
		if *path == "" {
			_, err = config.Load()
		} else {
			_, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/profilegrid/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var cfg *config.Settings
		if *printDefaults {
			cfg = config.DefaultSettings()
		} else {
			var err error
			if *path == "" {
				cfg, err = config.Load()
			} else {
				cfg, err = config.LoadFromPath(*path)
			}
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return 2
	}
}

func slogLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runDaemon() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (hotkey: %s, window: %dx%d, zoom: %d%%)",
		cfg.Hotkey, cfg.WindowWidth, cfg.WindowHeight, cfg.ZoomLevel)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))

	// Connect to display server
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	log.Println("profilegrid daemon started successfully")

	// Create dispatcher
	dispatcher := automation.New(backend, cfg)

	// Setup hotkey handler
	hotkeyHandler := hotkeys.NewHandler(backend, dispatcher)
	if err := hotkeyHandler.Register(cfg.Hotkey); err != nil {
		log.Fatalf("Failed to register hotkey: %v", err)
	}
	logger.Info("hotkey registered", "sequence", cfg.Hotkey)

	// Create config reload channel
	reloadChan := make(chan struct{}, 1)

	// Start IPC server
	ipcServer, err := ipc.NewServer(cfg, dispatcher, reloadChan)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	reload := func() {
		newCfg, err := config.Load()
		if err != nil {
			logger.Error("config reload failed", "error", err)
			return
		}
		dispatcher.SetConfig(newCfg)
		ipcServer.UpdateConfig(newCfg)
		logger.Info("config reloaded",
			"hotkey", newCfg.Hotkey,
			"zoom_level", newCfg.ZoomLevel)
	}

	// Handle signals and config reloads
	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					reload()
				case os.Interrupt, syscall.SIGTERM:
					log.Println("Shutting down profilegrid daemon...")
					ipcServer.Stop()
					os.Exit(0)
				}
			case <-reloadChan:
				reload()
			}
		}
	}()

	// Start event loop (blocking)
	log.Println("Entering event loop...")
	backend.EventLoop()
}
