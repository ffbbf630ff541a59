package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/benchtop-sh/benchtop/internal/config"
)

func runCatalog(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage: benchtop catalog list [--path PATH]")
		return 2
	}
	if args[0] != "list" {
		fmt.Fprintf(os.Stderr, "Unknown catalog command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: benchtop catalog list [--path PATH]")
		return 2
	}

	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: benchtop catalog list [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List placeable widget types, including config-defined ones.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/benchtop/config.yaml)")
	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	var (
		cfg *config.Config
		err error
	)
	if *path == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFromPath(*path)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cat, err := cfg.Catalog()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, d := range cat.Definitions() {
		launch := ""
		if d.LaunchOnHold {
			launch = fmt.Sprintf("  launches %s on hold", d.App)
		}
		fmt.Printf("%-20s %-22s %dx%d%s\n", d.ID, d.Title, d.Cols, d.Rows, launch)
	}
	return 0
}
