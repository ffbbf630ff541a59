package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"
)

// Desk is the running bench surface the IPC server drives. The desk
// implementation routes these calls onto its own event loop.
type Desk interface {
	Status() StatusData
	ListWidgets() []WidgetInfo
	PlaceWidget(definitionID string, cell int) (WidgetInfo, error)
	MoveWidget(widgetID string, anchorCell int) error
	RemoveWidget(widgetID string) error
	SetMode(mode string) error
	ListWorkspaces() (WorkspacesData, error)
	SwitchWorkspace(name string) error
	Reload() error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	desk         Desk
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server on socketPath.
func NewServer(socketPath string, desk Desk) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		desk:       desk,
		startTime:  time.Now(),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// Stop shuts the server down and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWidgets:
		return s.handleListWidgets()
	case CommandPlaceWidget:
		return s.handlePlaceWidget(req.Payload)
	case CommandMoveWidget:
		return s.handleMoveWidget(req.Payload)
	case CommandRemoveWidget:
		return s.handleRemoveWidget(req.Payload)
	case CommandSetMode:
		return s.handleSetMode(req.Payload)
	case CommandListWorkspaces:
		return s.handleListWorkspaces()
	case CommandSwitchWorkspace:
		return s.handleSwitchWorkspace(req.Payload)
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	status := s.desk.Status()
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	status.DeskRunning = true

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListWidgets() *Response {
	data := WidgetsData{Widgets: s.desk.ListWidgets()}
	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handlePlaceWidget(payload json.RawMessage) *Response {
	var p PlaceWidgetPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid PLACE_WIDGET payload: %v", err))
	}
	if p.DefinitionID == "" {
		return NewErrorResponse("definition_id is required")
	}
	w, err := s.desk.PlaceWidget(p.DefinitionID, p.Cell)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to place widget: %v", err))
	}
	resp, _ := NewOKResponse(w)
	return resp
}

func (s *Server) handleMoveWidget(payload json.RawMessage) *Response {
	var p MoveWidgetPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid MOVE_WIDGET payload: %v", err))
	}
	if p.WidgetID == "" {
		return NewErrorResponse("widget_id is required")
	}
	if err := s.desk.MoveWidget(p.WidgetID, p.AnchorCell); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to move widget: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleRemoveWidget(payload json.RawMessage) *Response {
	var p RemoveWidgetPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid REMOVE_WIDGET payload: %v", err))
	}
	if p.WidgetID == "" {
		return NewErrorResponse("widget_id is required")
	}
	if err := s.desk.RemoveWidget(p.WidgetID); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to remove widget: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetMode(payload json.RawMessage) *Response {
	var p SetModePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid SET_MODE payload: %v", err))
	}
	if err := s.desk.SetMode(p.Mode); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to set mode: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleListWorkspaces() *Response {
	data, err := s.desk.ListWorkspaces()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list workspaces: %v", err))
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleSwitchWorkspace(payload json.RawMessage) *Response {
	var p SwitchWorkspacePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid SWITCH_WORKSPACE payload: %v", err))
	}
	if p.Name == "" {
		return NewErrorResponse("name is required")
	}
	if err := s.desk.SwitchWorkspace(p.Name); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to switch workspace: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleReload() *Response {
	log.Println("IPC: Received RELOAD command")

	if err := s.desk.Reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, err := resp.Marshal()
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}
