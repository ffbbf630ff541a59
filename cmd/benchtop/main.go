package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/benchtop-sh/benchtop/internal/config"
	"github.com/benchtop-sh/benchtop/internal/desk"
	"github.com/benchtop-sh/benchtop/internal/ipc"
	"github.com/benchtop-sh/benchtop/internal/workspace"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "desk":
		os.Exit(runDesk(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "widget":
		os.Exit(runWidget(os.Args[2:]))
	case "workspace":
		os.Exit(runWorkspace(os.Args[2:]))
	case "catalog":
		os.Exit(runCatalog(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "serve":
		os.Exit(runServe(os.Args[2:]))
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
	fmt.Fprintln(w, "Usage: benchtop <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  desk                Open the bench shell (foreground)")
	fmt.Fprintln(w, "  status              Show running desk status")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  widget list         List placed widgets")
	fmt.Fprintln(w, "  widget add          Place a widget from the catalog")
	fmt.Fprintln(w, "  widget move         Move a widget to another cell")
	fmt.Fprintln(w, "  widget remove       Remove a placed widget")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  workspace new       Create a new workspace")
	fmt.Fprintln(w, "  workspace list      List saved workspaces")
	fmt.Fprintln(w, "  workspace show      Show a workspace's layout")
	fmt.Fprintln(w, "  workspace switch    Switch the running desk to a workspace")
	fmt.Fprintln(w, "  workspace delete    Delete a workspace")
	fmt.Fprintln(w, "  workspace rename    Rename a workspace")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  catalog list        List placeable widget types")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config reload       Reload a running desk's configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  serve               Start the lab data HTTP API (foreground)")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'benchtop <command> --help' for command-specific options.")
}

func runDesk(args []string) int {
	fs := flag.NewFlagSet("desk", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: benchtop desk [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the interactive bench shell. Runs until quit with 'q'.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Config file path (default: ~/.config/benchtop/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "desk takes no arguments")
		fs.Usage()
		return 2
	}

	path := *configPath
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		if path, err = config.DefaultConfigPath(); err != nil {
			path = ""
		}
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFromPath(path)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	store, err := workspace.DefaultStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	d, err := desk.New(cfg, path, store, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()
	if err := d.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: benchtop status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the running desk's status via IPC.")
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
	fmt.Printf("desk_running:     %v\n", status.DeskRunning)
	fmt.Printf("active_workspace: %s\n", status.ActiveWorkspace)
	fmt.Printf("mode:             %s\n", status.Mode)
	fmt.Printf("widget_count:     %d\n", status.WidgetCount)
	fmt.Printf("grid:             %dx%d\n", status.GridColumns, status.GridRows)
	fmt.Printf("uptime_seconds:   %d\n", status.UptimeSeconds)
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  benchtop config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  benchtop config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  benchtop config reload")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/benchtop/config.yaml)")
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
		path := fs.String("path", "", "Config file path (default: ~/.config/benchtop/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var cfg *config.Config
		var err error
		switch {
		case *printDefaults:
			cfg = config.DefaultConfig()
		case *path == "":
			cfg, err = config.Load()
		default:
			cfg, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "reload":
		client := ipc.NewClient()
		if err := client.Reload(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, "config reload requires a running desk.")
			return 1
		}
		fmt.Println("configuration reloaded")
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}

func logLevel(name string) slog.Level {
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

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx, cancel
}
