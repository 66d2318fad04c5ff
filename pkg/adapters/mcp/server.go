package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	hawtio "github.com/woq-blended/hawtio-integration"
	"github.com/woq-blended/hawtio-integration/internal/expressions"
	"github.com/woq-blended/hawtio-integration/internal/presentation/graph"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// RoutesResponse is the structured output of the list_routes tool.
type RoutesResponse struct {
	Routes []hawtio.RouteInfo `json:"routes" jsonschema_description:"Routes of the loaded document in document order"`
}

// Workspace defines the route model operations exposed as MCP tools.
type Workspace interface {
	Routes() ([]hawtio.RouteInfo, error)
	Outline(routeID string) ([]*domain.RouteStepNode, error)
	Diagram(ctx context.Context, routeID string) (*domain.Diagram, error)
	Highlight(ctx context.Context, routeID, target string) (*domain.Diagram, []int, error)
	Query(ctx context.Context, routeID, where string) ([]*domain.DiagramNode, error)
	Decode(key string) (*domain.Record, error)
	Update(ctx context.Context, key string, rec *domain.Record) (string, error)
	XML() (string, error)
	Messages(xml string) ([]domain.Message, error)
}

// Server wraps a Workspace and exposes it as an MCP Server.
type Server struct {
	ws        Workspace
	jq        *expressions.JQ
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(ws Workspace) *Server {
	s := &Server{
		ws:        ws,
		jq:        expressions.NewJQ(),
		mcpServer: server.NewMCPServer("hawtio-mcp", strings.TrimSpace(hawtio.Version)),
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
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS Middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_routes",
		mcp.WithDescription("List the routes of the loaded Camel document with their keys and consumer endpoints."),
		mcp.WithOutputSchema[RoutesResponse](),
	), mcp.NewStructuredToolHandler(s.handleListRoutes))

	s.mcpServer.AddTool(mcp.NewTool("get_outline",
		mcp.WithDescription("Get the outline tree of one route, or of the whole document when route_id is omitted."),
		mcp.WithString("route_id", mcp.Description("Route id (optional)")),
	), s.handleOutline)

	s.mcpServer.AddTool(mcp.NewTool("get_diagram",
		mcp.WithDescription("Build the flow diagram of a route. Nodes matching highlight (a route id or step key) are selected."),
		mcp.WithString("route_id", mcp.Description("Route id (optional, all routes when omitted)")),
		mcp.WithString("highlight", mcp.Description("Route id or step key to select")),
		mcp.WithString("format", mcp.Description("json (default) or mermaid")),
	), s.handleDiagram)

	s.mcpServer.AddTool(mcp.NewTool("find_nodes",
		mcp.WithDescription(`Filter diagram nodes with an expression, e.g. step == "to" && uri startsWith "jms:".`),
		mcp.WithString("where", mcp.Required(), mcp.Description("Boolean node expression")),
		mcp.WithString("route_id", mcp.Description("Route id (optional)")),
	), s.handleFindNodes)

	s.mcpServer.AddTool(mcp.NewTool("decode_step",
		mcp.WithDescription("Decode the step with the given outline key into its property record."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Outline key of the step")),
		mcp.WithString("jq", mcp.Description("jq program applied to the record (optional)")),
	), s.handleDecode)

	s.mcpServer.AddTool(mcp.NewTool("update_step",
		mcp.WithDescription("Write an edited property record back into the step and return its XML."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Outline key of the step")),
		mcp.WithString("record", mcp.Required(), mcp.Description("JSON object with the step properties")),
	), s.handleUpdate)

	s.mcpServer.AddTool(mcp.NewTool("parse_messages",
		mcp.WithDescription("Parse a trace or debug message dump into messages."),
		mcp.WithString("xml", mcp.Required(), mcp.Description("The <messages> XML document")),
	), s.handleMessages)
}

func (s *Server) handleListRoutes(ctx context.Context, req mcp.CallToolRequest, args map[string]interface{}) (RoutesResponse, error) {
	routes, err := s.ws.Routes()
	if err != nil {
		return RoutesResponse{}, fmt.Errorf("list routes failed: %w", err)
	}
	return RoutesResponse{Routes: routes}, nil
}

func (s *Server) handleOutline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodes, err := s.ws.Outline(req.GetString("route_id", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("outline failed: %v", err)), nil
	}
	return jsonResult(nodes)
}

func (s *Server) handleDiagram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routeID := req.GetString("route_id", "")

	var (
		d   *domain.Diagram
		err error
	)
	if target := req.GetString("highlight", ""); target != "" {
		d, _, err = s.ws.Highlight(ctx, routeID, target)
	} else {
		d, err = s.ws.Diagram(ctx, routeID)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("diagram failed: %v", err)), nil
	}

	switch format := req.GetString("format", "json"); format {
	case "json", "":
		return jsonResult(d)
	case "mermaid":
		return mcp.NewToolResultText(graph.GenerateMermaid(d, nil)), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}
}

func (s *Server) handleFindNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	where, err := req.RequireString("where")
	if err != nil {
		return mcp.NewToolResultError("where is required"), nil
	}
	nodes, err := s.ws.Query(ctx, req.GetString("route_id", ""), where)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(nodes)
}

func (s *Server) handleDecode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil
	}
	rec, err := s.ws.Decode(key)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if program := req.GetString("jq", ""); program != "" {
		out, err := s.jq.Evaluate(ctx, program, rec.AsMap())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(out)
	}
	return jsonResult(rec)
}

func (s *Server) handleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil
	}
	raw, err := req.RequireString("record")
	if err != nil {
		return mcp.NewToolResultError("record is required"), nil
	}

	rec := domain.NewRecord()
	if err := json.Unmarshal([]byte(raw), rec); err != nil {
		slog.Warn("MCP update_step: invalid record", "error", err, "size", len(raw))
		return mcp.NewToolResultError(fmt.Sprintf("invalid record: %v", err)), nil
	}

	xml, err := s.ws.Update(ctx, key, rec)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(xml), nil
}

func (s *Server) handleMessages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	xml, err := req.RequireString("xml")
	if err != nil {
		return mcp.NewToolResultError("xml is required"), nil
	}
	msgs, err := s.ws.Messages(xml)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(msgs)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: hawtio://routes
	s.mcpServer.AddResource(mcp.NewResource("hawtio://routes", "Loaded Routes",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		routes, err := s.ws.Routes()
		if err != nil {
			return nil, fmt.Errorf("failed to list routes: %w", err)
		}
		jsonBytes, _ := json.Marshal(routes)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "hawtio://routes",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	// EXPOSE: hawtio://xml
	s.mcpServer.AddResource(mcp.NewResource("hawtio://xml", "Route Document",
		mcp.WithMIMEType("application/xml"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		xml, err := s.ws.XML()
		if err != nil {
			return nil, fmt.Errorf("failed to serialize document: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "hawtio://xml",
				MIMEType: "application/xml",
				Text:     xml,
			},
		}, nil
	})
}
