package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleListWidgets(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWidgetsInput) (*mcpsdk.CallToolResult, ListWidgetsOutput, error) {
	name, err := s.resolveWorkspace(args.Workspace)
	if err != nil {
		return nil, ListWidgetsOutput{}, err
	}
	surf, err := s.loadSurface(name)
	if err != nil {
		return nil, ListWidgetsOutput{}, err
	}

	placed := surf.Widgets()
	widgets := make([]WidgetSummary, 0, len(placed))
	for _, w := range placed {
		widgets = append(widgets, s.summarize(surf, w))
	}

	g := surf.Grid()
	return nil, ListWidgetsOutput{
		Workspace:   name,
		GridColumns: g.Columns,
		GridRows:    g.Rows,
		Widgets:     widgets,
	}, nil
}

func (s *Server) handlePlaceWidget(_ context.Context, _ *mcpsdk.CallToolRequest, args PlaceWidgetInput) (*mcpsdk.CallToolResult, PlaceWidgetOutput, error) {
	name, err := s.resolveWorkspace(args.Workspace)
	if err != nil {
		return nil, PlaceWidgetOutput{}, err
	}
	surf, err := s.loadSurface(name)
	if err != nil {
		return nil, PlaceWidgetOutput{}, err
	}

	w, err := surf.AddWidget(args.DefinitionID, args.Cell, args.Config)
	if err != nil {
		return nil, PlaceWidgetOutput{}, fmt.Errorf("placing %q at cell %d: %w", args.DefinitionID, args.Cell, err)
	}
	if err := s.saveSurface(name, surf); err != nil {
		return nil, PlaceWidgetOutput{}, err
	}

	s.logger.Info("widget placed", "workspace", name, "widget", w.ID,
		"definition", w.DefinitionID, "anchor", w.Footprint.AnchorCell)
	return nil, PlaceWidgetOutput{
		Workspace: name,
		Widget:    s.summarize(surf, w),
	}, nil
}

func (s *Server) handleMoveWidget(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWidgetInput) (*mcpsdk.CallToolResult, MoveWidgetOutput, error) {
	name, err := s.resolveWorkspace(args.Workspace)
	if err != nil {
		return nil, MoveWidgetOutput{}, err
	}
	surf, err := s.loadSurface(name)
	if err != nil {
		return nil, MoveWidgetOutput{}, err
	}

	if err := surf.MoveWidget(args.WidgetID, args.AnchorCell); err != nil {
		return nil, MoveWidgetOutput{}, fmt.Errorf("moving widget %q to cell %d: %w", args.WidgetID, args.AnchorCell, err)
	}
	if err := s.saveSurface(name, surf); err != nil {
		return nil, MoveWidgetOutput{}, err
	}

	w, _ := surf.Widget(args.WidgetID)
	s.logger.Info("widget moved", "workspace", name, "widget", w.ID,
		"anchor", w.Footprint.AnchorCell)
	return nil, MoveWidgetOutput{
		Workspace: name,
		Widget:    s.summarize(surf, w),
	}, nil
}

func (s *Server) handleRemoveWidget(_ context.Context, _ *mcpsdk.CallToolRequest, args RemoveWidgetInput) (*mcpsdk.CallToolResult, RemoveWidgetOutput, error) {
	name, err := s.resolveWorkspace(args.Workspace)
	if err != nil {
		return nil, RemoveWidgetOutput{}, err
	}
	surf, err := s.loadSurface(name)
	if err != nil {
		return nil, RemoveWidgetOutput{}, err
	}

	_, existed := surf.Widget(args.WidgetID)
	surf.RemoveWidget(args.WidgetID)
	if existed {
		if err := s.saveSurface(name, surf); err != nil {
			return nil, RemoveWidgetOutput{}, err
		}
		s.logger.Info("widget removed", "workspace", name, "widget", args.WidgetID)
	}

	return nil, RemoveWidgetOutput{
		Workspace: name,
		Removed:   existed,
	}, nil
}

func (s *Server) handleListWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWorkspacesInput) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	names, err := s.workspaces.List()
	if err != nil {
		return nil, ListWorkspacesOutput{}, fmt.Errorf("listing workspaces: %w", err)
	}

	active := s.workspaces.Active()
	if active == "" {
		active = s.config.DefaultWorkspace
	}
	return nil, ListWorkspacesOutput{
		Workspaces: names,
		Active:     active,
	}, nil
}

func (s *Server) handleListCatalog(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListCatalogInput) (*mcpsdk.CallToolResult, ListCatalogOutput, error) {
	return nil, ListCatalogOutput{
		Definitions: s.catalog.Definitions(),
	}, nil
}
