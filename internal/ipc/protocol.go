package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandListWidgets     CommandType = "LIST_WIDGETS"
	CommandPlaceWidget     CommandType = "PLACE_WIDGET"
	CommandMoveWidget      CommandType = "MOVE_WIDGET"
	CommandRemoveWidget    CommandType = "REMOVE_WIDGET"
	CommandSetMode         CommandType = "SET_MODE"
	CommandListWorkspaces  CommandType = "LIST_WORKSPACES"
	CommandSwitchWorkspace CommandType = "SWITCH_WORKSPACE"
	CommandReload          CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	ActiveWorkspace string `json:"active_workspace"`
	Mode            string `json:"mode"`
	WidgetCount     int    `json:"widget_count"`
	GridColumns     int    `json:"grid_columns"`
	GridRows        int    `json:"grid_rows"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	DeskRunning     bool   `json:"desk_running"`
}

// WidgetInfo describes one placed widget.
type WidgetInfo struct {
	ID           string `json:"id"`
	DefinitionID string `json:"definition_id"`
	Title        string `json:"title"`
	AnchorCell   int    `json:"anchor_cell"`
	Cols         int    `json:"cols"`
	Rows         int    `json:"rows"`
	Cells        []int  `json:"cells"`
}

// WidgetsData represents the data returned by LIST_WIDGETS
type WidgetsData struct {
	Widgets []WidgetInfo `json:"widgets"`
}

// PlaceWidgetPayload represents the payload for PLACE_WIDGET
type PlaceWidgetPayload struct {
	DefinitionID string `json:"definition_id"`
	Cell         int    `json:"cell"`
}

// MoveWidgetPayload represents the payload for MOVE_WIDGET
type MoveWidgetPayload struct {
	WidgetID   string `json:"widget_id"`
	AnchorCell int    `json:"anchor_cell"`
}

// RemoveWidgetPayload represents the payload for REMOVE_WIDGET
type RemoveWidgetPayload struct {
	WidgetID string `json:"widget_id"`
}

// SetModePayload represents the payload for SET_MODE
type SetModePayload struct {
	Mode string `json:"mode"` // "normal" or "edit"
}

// WorkspacesData represents the data returned by LIST_WORKSPACES
type WorkspacesData struct {
	Workspaces []string `json:"workspaces"`
	Active     string   `json:"active"`
}

// SwitchWorkspacePayload represents the payload for SWITCH_WORKSPACE
type SwitchWorkspacePayload struct {
	Name string `json:"name"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
