// Package mcp exposes bench layout management as MCP tools over stdio.
// Tools operate directly on the persisted workspace files: each call
// loads the target workspace into a headless surface, applies the
// change through the same placement rules the desk enforces, and
// writes the result back.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/benchtop-sh/benchtop/internal/catalog"
	"github.com/benchtop-sh/benchtop/internal/config"
	"github.com/benchtop-sh/benchtop/internal/drag"
	"github.com/benchtop-sh/benchtop/internal/occupancy"
	"github.com/benchtop-sh/benchtop/internal/surface"
	"github.com/benchtop-sh/benchtop/internal/workspace"
)

const (
	ServerName    = "benchtop"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for benchtop layout management.
type Server struct {
	mcpServer  *mcpsdk.Server
	config     *config.Config
	catalog    *catalog.Catalog
	workspaces *workspace.Store
	logger     *slog.Logger
}

// NewServer creates an MCP server operating on the given workspace store.
func NewServer(cfg *config.Config, workspaces *workspace.Store) (*Server, error) {
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("building widget catalog: %w", err)
	}

	s := &Server{
		config:     cfg,
		catalog:    cat,
		workspaces: workspaces,
		// Stdout carries the MCP stream, so diagnostics go to stderr.
		logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_widgets",
		Description: "List the widgets placed on a workspace's bench grid with their anchor cells and footprints. Uses the active workspace by default.",
	}, s.handleListWidgets)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "place_widget",
		Description: "Place a new widget from the catalog onto a workspace's bench grid. The anchor is clamped left/up so the footprint stays inside the grid; placement fails if any covered cell is occupied.",
	}, s.handlePlaceWidget)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_widget",
		Description: "Move a placed widget to a new anchor cell. The move is atomic: it fails without changes when the destination overlaps another widget or leaves the grid.",
	}, s.handleMoveWidget)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_widget",
		Description: "Remove a placed widget from a workspace's bench grid. Removing an unknown widget is not an error; the output reports whether anything was removed.",
	}, s.handleRemoveWidget)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_workspaces",
		Description: "List the saved bench workspaces and which one is active.",
	}, s.handleListWorkspaces)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_catalog",
		Description: "List the widget catalog: every widget type that can be placed, with its footprint in cells.",
	}, s.handleListCatalog)
}

// resolveWorkspace picks the workspace a tool call targets: an explicit
// name wins, then the active workspace, then the configured default.
func (s *Server) resolveWorkspace(name string) (string, error) {
	if name != "" {
		if err := workspace.ValidateWorkspaceName(name); err != nil {
			return "", err
		}
		return name, nil
	}
	if active := s.workspaces.Active(); active != "" {
		return active, nil
	}
	return s.config.DefaultWorkspace, nil
}

// loadSurface seeds a headless surface from a workspace file. A missing
// file yields an empty bench rather than an error so tools can populate
// fresh workspaces.
func (s *Server) loadSurface(name string) (*surface.Surface, error) {
	surf := surface.New(surface.Options{
		Grid:    s.config.GridGeometry(),
		Gesture: s.config.GestureConfig(),
		Catalog: s.catalog,
		Ghost:   drag.NopGhost{},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	ws, err := s.workspaces.Read(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return surf, nil
		}
		return nil, fmt.Errorf("reading workspace %q: %w", name, err)
	}

	seeds := make([]surface.SeedWidget, 0, len(ws.Widgets))
	for _, w := range ws.Widgets {
		seeds = append(seeds, surface.SeedWidget{
			ID:           w.ID,
			DefinitionID: w.DefinitionID,
			AnchorCell:   w.AnchorCell,
			Config:       w.Config,
		})
	}
	surf.Seed(seeds)
	return surf, nil
}

// saveSurface persists a surface's widget list back to the workspace file.
func (s *Server) saveSurface(name string, surf *surface.Surface) error {
	widgets := surf.Widgets()
	entries := make([]workspace.WidgetEntry, 0, len(widgets))
	for _, w := range widgets {
		entries = append(entries, workspace.WidgetEntry{
			ID:           w.ID,
			DefinitionID: w.DefinitionID,
			AnchorCell:   w.Footprint.AnchorCell,
			Config:       w.Config,
		})
	}
	return s.workspaces.Write(&workspace.WorkspaceConfig{
		Name:    name,
		Widgets: entries,
	})
}

func (s *Server) summarize(surf *surface.Surface, w occupancy.Widget) WidgetSummary {
	title := w.DefinitionID
	if def, ok := s.catalog.Definition(w.DefinitionID); ok {
		title = def.Title
	}
	return WidgetSummary{
		ID:           w.ID,
		DefinitionID: w.DefinitionID,
		Title:        title,
		AnchorCell:   w.Footprint.AnchorCell,
		Cols:         w.Footprint.Cols,
		Rows:         w.Footprint.Rows,
		Cells:        w.Footprint.Cells(surf.Grid()),
	}
}
