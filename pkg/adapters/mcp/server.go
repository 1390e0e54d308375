package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/layout"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const viewURI = "lattice://view"

// ViewResponse is the structured result of the view-returning tools.
type ViewResponse struct {
	View  *domain.View            `json:"view" jsonschema_description:"The rendered cell tree"`
	State domain.InteractionState `json:"state" jsonschema_description:"Mode, focused cell and language"`
}

// ClickResponse is the structured result of click_cell.
type ClickResponse struct {
	Decision domain.FocusDecision `json:"decision" jsonschema_description:"Whether the click focused the cell and why not"`
	View     *domain.View         `json:"view" jsonschema_description:"The view after the click"`
}

// Page defines what the MCP server needs from a lattice page.
type Page interface {
	Render(ctx context.Context) (*domain.View, error)
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	Interact(ctx context.Context, in domain.Interaction) (domain.FocusDecision, error)
	Place(ctx context.Context, rects map[string]domain.Rect) error
	SetMode(ctx context.Context, mode domain.Mode) (*domain.View, error)
	Remount(ctx context.Context, nodeID string) (*domain.View, error)
}

// Server wraps a page and exposes it as an MCP Server.
type Server struct {
	page      Page
	stack     layout.Stack
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance. Clicks are placed with the
// default stacked layout since agents have no screen geometry.
func NewServer(page Page, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		page:      page,
		stack:     layout.DefaultStack,
		logger:    logger,
		mcpServer: server.NewMCPServer("lattice-mcp", strings.TrimSpace(lattice.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: render_page
	renderTool := mcp.NewTool("render_page",
		mcp.WithDescription("Render the page and return its cell tree with the interaction state."),
		mcp.WithOutputSchema[ViewResponse](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRenderPage))

	// TOOL: click_cell
	clickTool := mcp.NewTool("click_cell",
		mcp.WithDescription("Click a cell as a user would. Without coordinates the click lands on the cell's own surface."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("The cell receiving the click")),
		mcp.WithNumber("x", mcp.Description("Horizontal click position (optional)")),
		mcp.WithNumber("y", mcp.Description("Vertical click position (optional)")),
		mcp.WithOutputSchema[ClickResponse](),
	)
	s.mcpServer.AddTool(clickTool, mcp.NewStructuredToolHandler(s.handleClickCell))

	// TOOL: set_mode
	modeTool := mcp.NewTool("set_mode",
		mcp.WithDescription("Switch the editor mode: preview, edit, resize or layout."),
		mcp.WithString("mode", mcp.Required(), mcp.Description("Target mode")),
		mcp.WithOutputSchema[ViewResponse](),
	)
	s.mcpServer.AddTool(modeTool, mcp.NewStructuredToolHandler(s.handleSetMode))

	// TOOL: remount_cell
	remountTool := mcp.NewTool("remount_cell",
		mcp.WithDescription("Mount a cell and its subtree afresh, clearing a captured render fault."),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("The cell to remount")),
		mcp.WithOutputSchema[ViewResponse](),
	)
	s.mcpServer.AddTool(remountTool, mcp.NewStructuredToolHandler(s.handleRemount))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get a Mermaid flowchart of the rendered page."),
	), s.handleGetGraph)
}

func (s *Server) viewResponse(ctx context.Context, view *domain.View) (ViewResponse, error) {
	snap, err := s.page.Snapshot(ctx)
	if err != nil {
		return ViewResponse{}, fmt.Errorf("snapshot failed: %w", err)
	}
	return ViewResponse{View: view, State: snap.State}, nil
}

func (s *Server) handleRenderPage(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ViewResponse, error) {
	view, err := s.page.Render(ctx)
	if err != nil {
		return ViewResponse{}, fmt.Errorf("render failed: %w", err)
	}
	return s.viewResponse(ctx, view)
}

func (s *Server) handleClickCell(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ClickResponse, error) {
	nodeID, _ := args["node_id"].(string)
	if nodeID == "" {
		return ClickResponse{}, fmt.Errorf("node_id is required")
	}

	view, err := s.page.Render(ctx)
	if err != nil {
		return ClickResponse{}, fmt.Errorf("render failed: %w", err)
	}
	placed := s.stack.Place(view)
	if err := s.page.Place(ctx, placed.Rects); err != nil {
		return ClickResponse{}, fmt.Errorf("place failed: %w", err)
	}

	origin, ok := placed.OwnPoint(nodeID)
	if x, okX := args["x"].(float64); okX {
		origin.X = x
		ok = true
	}
	if y, okY := args["y"].(float64); okY {
		origin.Y = y
	}
	if !ok {
		s.logger.Debug("MCP click on a cell that is not on screen", "node_id", nodeID)
	}

	decision, err := s.page.Interact(ctx, domain.Interaction{
		NodeID: nodeID,
		Origin: origin,
		Source: domain.SourcePointer,
	})
	if err != nil {
		return ClickResponse{}, fmt.Errorf("click failed: %w", err)
	}

	after, err := s.page.Render(ctx)
	if err != nil {
		return ClickResponse{}, fmt.Errorf("render failed: %w", err)
	}
	return ClickResponse{Decision: decision, View: after}, nil
}

func (s *Server) handleSetMode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ViewResponse, error) {
	raw, _ := args["mode"].(string)
	mode, err := domain.ParseMode(raw)
	if err != nil {
		return ViewResponse{}, err
	}
	view, err := s.page.SetMode(ctx, mode)
	if err != nil {
		return ViewResponse{}, fmt.Errorf("set mode failed: %w", err)
	}
	return s.viewResponse(ctx, view)
}

func (s *Server) handleRemount(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ViewResponse, error) {
	nodeID, _ := args["node_id"].(string)
	view, err := s.page.Remount(ctx, nodeID)
	if err != nil {
		return ViewResponse{}, fmt.Errorf("remount failed: %w", err)
	}
	return s.viewResponse(ctx, view)
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view, err := s.page.Render(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("render failed: %v", err)), nil
	}
	snap, err := s.page.Snapshot(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot failed: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(view, &graph.GraphOverlay{FocusedNode: snap.State.FocusedNodeID})), nil
}

func (s *Server) registerResources() {
	// EXPOSE: lattice://view
	s.mcpServer.AddResource(mcp.NewResource(viewURI, "Rendered Page",
		mcp.WithMIMEType("application/json"),
	), s.readView)
}

func (s *Server) readView(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	view, err := s.page.Render(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	jsonBytes, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      viewURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
