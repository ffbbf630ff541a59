package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/benchtop-sh/benchtop/internal/ipc"
)

func printWidgetUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  benchtop widget list")
	fmt.Fprintln(w, "  benchtop widget add --type ID --cell N")
	fmt.Fprintln(w, "  benchtop widget move --id ID --cell N")
	fmt.Fprintln(w, "  benchtop widget remove --id ID")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "All widget commands require a running desk.")
}

func runWidget(args []string) int {
	if len(args) == 0 {
		printWidgetUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printWidgetUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: benchtop widget list")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		data, err := client.ListWidgets()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if len(data.Widgets) == 0 {
			fmt.Println("no widgets placed")
			return 0
		}
		for _, w := range data.Widgets {
			fmt.Printf("%s  %-20s cell %-3d %dx%d  %s\n",
				w.ID, w.Title, w.AnchorCell, w.Cols, w.Rows, w.DefinitionID)
		}
		return 0

	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: benchtop widget add --type ID --cell N")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Place a widget from the catalog. The anchor shifts left/up when")
			fmt.Fprintln(os.Stderr, "the footprint would overflow the grid.")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		defID := fs.String("type", "", "Catalog definition ID")
		cell := fs.Int("cell", 0, "Target cell (1-based, row-major)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if *defID == "" || *cell == 0 {
			fmt.Fprintln(os.Stderr, "widget add requires --type and --cell")
			fs.Usage()
			return 2
		}

		info, err := client.PlaceWidget(*defID, *cell)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("placed %s (%s) at cell %d\n", info.ID, info.Title, info.AnchorCell)
		return 0

	case "move":
		fs := flag.NewFlagSet("move", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: benchtop widget move --id ID --cell N")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		id := fs.String("id", "", "Widget ID (see 'benchtop widget list')")
		cell := fs.Int("cell", 0, "New anchor cell (1-based, row-major)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if *id == "" || *cell == 0 {
			fmt.Fprintln(os.Stderr, "widget move requires --id and --cell")
			fs.Usage()
			return 2
		}

		if err := client.MoveWidget(*id, *cell); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "remove":
		fs := flag.NewFlagSet("remove", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: benchtop widget remove --id ID")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		id := fs.String("id", "", "Widget ID (see 'benchtop widget list')")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if *id == "" {
			fmt.Fprintln(os.Stderr, "widget remove requires --id")
			fs.Usage()
			return 2
		}

		if err := client.RemoveWidget(*id); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown widget command: %s\n\n", args[0])
		printWidgetUsage(os.Stderr)
		return 2
	}
}
