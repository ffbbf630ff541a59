package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/benchtop-sh/benchtop/internal/ipc"
	"github.com/benchtop-sh/benchtop/internal/workspace"
)

func printWorkspaceUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  benchtop workspace new <name>")
	fmt.Fprintln(w, "  benchtop workspace list")
	fmt.Fprintln(w, "  benchtop workspace show <name>")
	fmt.Fprintln(w, "  benchtop workspace switch <name>")
	fmt.Fprintln(w, "  benchtop workspace delete <name>")
	fmt.Fprintln(w, "  benchtop workspace rename <old> <new>")
}

func runWorkspace(args []string) int {
	if len(args) == 0 {
		printWorkspaceUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printWorkspaceUsage(os.Stdout)
		return 0
	}

	store, err := workspace.DefaultStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch args[0] {
	case "new":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: benchtop workspace new <name>")
			return 2
		}
		name := args[1]
		if store.Exists(name) {
			fmt.Fprintf(os.Stderr, "workspace %q already exists\n", name)
			return 1
		}
		if err := store.Write(&workspace.WorkspaceConfig{Name: name}); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("created workspace %q\n", name)
		return 0

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: benchtop workspace list")
		}
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		names, err := store.List()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		active := store.Active()
		for _, name := range names {
			marker := "  "
			if name == active {
				marker = "* "
			}
			fmt.Printf("%s%s\n", marker, name)
		}
		return 0

	case "show":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: benchtop workspace show <name>")
			return 2
		}
		ws, err := store.Read(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if len(ws.Widgets) == 0 {
			fmt.Printf("workspace %q is empty\n", ws.Name)
			return 0
		}
		for _, w := range ws.Widgets {
			fmt.Printf("%s  %-20s cell %d\n", w.ID, w.DefinitionID, w.AnchorCell)
		}
		return 0

	case "switch":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: benchtop workspace switch <name>")
			return 2
		}
		name := args[1]
		client := ipc.NewClient()
		if err := client.SwitchWorkspace(name); err != nil {
			// No running desk: record the choice for the next start.
			if !store.Exists(name) {
				fmt.Fprintf(os.Stderr, "workspace %q does not exist\n", name)
				return 1
			}
			if err := store.SetActive(name); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		fmt.Printf("switched to workspace %q\n", name)
		return 0

	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: benchtop workspace delete <name>")
			return 2
		}
		if err := store.Delete(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("deleted workspace %q\n", args[1])
		return 0

	case "rename":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, "Usage: benchtop workspace rename <old> <new>")
			return 2
		}
		if err := store.Rename(args[1], args[2]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("renamed workspace %q to %q\n", args[1], args[2])
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown workspace command: %s\n\n", args[0])
		printWorkspaceUsage(os.Stderr)
		return 2
	}
}
