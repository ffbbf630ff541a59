package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/benchtop-sh/benchtop/internal/runtimepath"
)

// Client handles IPC communication with the running desk
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to desk: %w (is benchtop desk running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("desk error: %s", resp.Error)
	}

	return &resp, nil
}

func payloadRequest(cmd CommandType, payload interface{}) (*Request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return &Request{Command: cmd, Payload: data}, nil
}

// GetStatus retrieves desk status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// ListWidgets retrieves the placed widgets
func (c *Client) ListWidgets() (*WidgetsData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListWidgets})
	if err != nil {
		return nil, err
	}

	var data WidgetsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse widget data: %w", err)
	}

	return &data, nil
}

// PlaceWidget places a new widget near the given cell
func (c *Client) PlaceWidget(definitionID string, cell int) (*WidgetInfo, error) {
	req, err := payloadRequest(CommandPlaceWidget, PlaceWidgetPayload{
		DefinitionID: definitionID,
		Cell:         cell,
	})
	if err != nil {
		return nil, err
	}
	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var w WidgetInfo
	if err := json.Unmarshal(resp.Data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse widget data: %w", err)
	}
	return &w, nil
}

// MoveWidget re-anchors a placed widget
func (c *Client) MoveWidget(widgetID string, anchorCell int) error {
	req, err := payloadRequest(CommandMoveWidget, MoveWidgetPayload{
		WidgetID:   widgetID,
		AnchorCell: anchorCell,
	})
	if err != nil {
		return err
	}
	_, err = c.sendRequest(req)
	return err
}

// RemoveWidget removes a placed widget
func (c *Client) RemoveWidget(widgetID string) error {
	req, err := payloadRequest(CommandRemoveWidget, RemoveWidgetPayload{WidgetID: widgetID})
	if err != nil {
		return err
	}
	_, err = c.sendRequest(req)
	return err
}

// SetMode switches the desk between normal and edit mode
func (c *Client) SetMode(mode string) error {
	req, err := payloadRequest(CommandSetMode, SetModePayload{Mode: mode})
	if err != nil {
		return err
	}
	_, err = c.sendRequest(req)
	return err
}

// ListWorkspaces retrieves the saved workspaces
func (c *Client) ListWorkspaces() (*WorkspacesData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListWorkspaces})
	if err != nil {
		return nil, err
	}

	var data WorkspacesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse workspace data: %w", err)
	}
	return &data, nil
}

// SwitchWorkspace activates a saved workspace
func (c *Client) SwitchWorkspace(name string) error {
	req, err := payloadRequest(CommandSwitchWorkspace, SwitchWorkspacePayload{Name: name})
	if err != nil {
		return err
	}
	_, err = c.sendRequest(req)
	return err
}

// Reload sends a RELOAD command to the desk
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}
