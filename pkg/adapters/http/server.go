package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	hawtio "github.com/woq-blended/hawtio-integration"
	"github.com/woq-blended/hawtio-integration/internal/expressions"
	"github.com/woq-blended/hawtio-integration/internal/logging"
	"github.com/woq-blended/hawtio-integration/internal/presentation/graph"
	"github.com/woq-blended/hawtio-integration/pkg/diagram"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

// maxBodyBytes bounds request bodies (records and trace dumps).
const maxBodyBytes = 4 << 20

// Workspace defines the route model operations served over HTTP.
type Workspace interface {
	Routes() ([]hawtio.RouteInfo, error)
	Outline(routeID string) ([]*domain.RouteStepNode, error)
	Diagram(ctx context.Context, routeID string) (*domain.Diagram, error)
	Highlight(ctx context.Context, routeID, target string) (*domain.Diagram, []int, error)
	Query(ctx context.Context, routeID, where string) ([]*domain.DiagramNode, error)
	Decode(key string) (*domain.Record, error)
	Update(ctx context.Context, key string, rec *domain.Record) (string, error)
	ElementXML(key string) (string, error)
	XML() (string, error)
	Messages(xml string) ([]domain.Message, error)
	Watch(ctx context.Context) (<-chan string, error)
}

// Server serves a Workspace.
type Server struct {
	Workspace Workspace
	jq        *expressions.JQ
	metrics   http.Handler
	logger    *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetricsHandler mounts h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the workspace.
func NewHandler(ws Workspace, opts ...Option) http.Handler {
	server := &Server{
		Workspace: ws,
		jq:        expressions.NewJQ(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/routes", server.ListRoutes)
	r.Get("/outline", server.GetOutline)
	r.Get("/routes/{routeID}/outline", server.GetOutline)
	r.Get("/diagram", server.GetDiagram)
	r.Get("/routes/{routeID}/diagram", server.GetDiagram)
	r.Get("/steps/{key}", server.GetStep)
	r.Put("/steps/{key}", server.PutStep)
	r.Get("/steps/{key}/xml", server.GetStepXML)
	r.Get("/xml", server.GetXML)
	r.Post("/messages", server.PostMessages)
	r.Get("/events", server.SubscribeEvents)
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "hawtio-integration",
		"version": strings.TrimSpace(hawtio.Version),
	})
}

// ListRoutes handles the GET /routes request.
func (s *Server) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := s.Workspace.Routes()
	if err != nil {
		s.fail(w, r, "ListRoutes", err)
		return
	}
	writeJSON(w, s.logger, routes)
}

// GetOutline handles GET /outline and GET /routes/{routeID}/outline.
func (s *Server) GetOutline(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.Workspace.Outline(chi.URLParam(r, "routeID"))
	if err != nil {
		s.fail(w, r, "GetOutline", err)
		return
	}
	writeJSON(w, s.logger, nodes)
}

// GetDiagram handles GET /diagram and GET /routes/{routeID}/diagram.
//
// Query parameters: highlight selects nodes, where filters nodes with an
// expression and returns them as a list, format picks json (default),
// mermaid, svg or png.
func (s *Server) GetDiagram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	routeID := chi.URLParam(r, "routeID")
	if routeID == "" {
		routeID = r.URL.Query().Get("route")
	}

	if where := r.URL.Query().Get("where"); where != "" {
		nodes, err := s.Workspace.Query(ctx, routeID, where)
		if err != nil {
			s.fail(w, r, "GetDiagram", err)
			return
		}
		writeJSON(w, s.logger, nodes)
		return
	}

	var (
		d   *domain.Diagram
		err error
	)
	if target := r.URL.Query().Get("highlight"); target != "" {
		d, _, err = s.Workspace.Highlight(ctx, routeID, target)
	} else {
		d, err = s.Workspace.Diagram(ctx, routeID)
	}
	if err != nil {
		s.fail(w, r, "GetDiagram", err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, s.logger, d)
	case "mermaid":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, graph.GenerateMermaid(d, nil))
	case string(graph.FormatSVG), string(graph.FormatPNG):
		img, err := graph.RenderImage(ctx, d, graph.Format(format))
		if err != nil {
			s.fail(w, r, "GetDiagram", err)
			return
		}
		if format == string(graph.FormatSVG) {
			w.Header().Set("Content-Type", "image/svg+xml")
		} else {
			w.Header().Set("Content-Type", "image/png")
		}
		w.Write(img)
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
	}
}

// GetStep handles the GET /steps/{key} request. An optional jq parameter
// projects the decoded record.
func (s *Server) GetStep(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Workspace.Decode(chi.URLParam(r, "key"))
	if err != nil {
		s.fail(w, r, "GetStep", err)
		return
	}

	if program := r.URL.Query().Get("jq"); program != "" {
		out, err := s.jq.Evaluate(r.Context(), program, rec.AsMap())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, s.logger, out)
		return
	}
	writeJSON(w, s.logger, rec)
}

// PutStep handles the PUT /steps/{key} request. The body is the edited
// record; the response carries the resulting XML of the step.
func (s *Server) PutStep(w http.ResponseWriter, r *http.Request) {
	rec := domain.NewRecord()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(rec); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutStep: Invalid request body", "err", err)
		return
	}

	xml, err := s.Workspace.Update(r.Context(), chi.URLParam(r, "key"), rec)
	if err != nil {
		s.fail(w, r, "PutStep", err)
		return
	}
	writeJSON(w, s.logger, map[string]string{"xml": xml})
}

// GetStepXML handles the GET /steps/{key}/xml request.
func (s *Server) GetStepXML(w http.ResponseWriter, r *http.Request) {
	xml, err := s.Workspace.ElementXML(chi.URLParam(r, "key"))
	if err != nil {
		s.fail(w, r, "GetStepXML", err)
		return
	}
	writeXML(w, xml)
}

// GetXML handles the GET /xml request.
func (s *Server) GetXML(w http.ResponseWriter, r *http.Request) {
	xml, err := s.Workspace.XML()
	if err != nil {
		s.fail(w, r, "GetXML", err)
		return
	}
	writeXML(w, xml)
}

// PostMessages handles the POST /messages request: the body is a trace or
// debug dump, the response the parsed messages.
func (s *Server) PostMessages(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	msgs, err := s.Workspace.Messages(string(body))
	if err != nil {
		s.fail(w, r, "PostMessages", err)
		return
	}
	writeJSON(w, s.logger, msgs)
}

// SubscribeEvents handles the GET /events request (SSE). A "reload" event
// is sent every time the workspace reloads its routes.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	events, err := s.Workspace.Watch(r.Context())
	if err != nil {
		if errors.Is(err, hawtio.ErrNotWatchable) {
			http.Error(w, err.Error(), http.StatusNotImplemented)
			return
		}
		s.fail(w, r, "SubscribeEvents", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", event)
			flusher.Flush()
		}
	}
}

// fail maps workspace errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrRouteNotFound), errors.Is(err, domain.ErrStepNotFound), errors.Is(err, domain.ErrNoRoutes):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidXML):
		status = http.StatusBadRequest
	case errors.Is(err, hawtio.ErrNotLoaded):
		status = http.StatusServiceUnavailable
	case errors.Is(err, diagram.ErrInvalidQuery):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err, "path", r.URL.Path)
	} else {
		s.logger.Debug(op+" rejected", "err", err, "status", status)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}

func writeXML(w http.ResponseWriter, xml string) {
	w.Header().Set("Content-Type", "application/xml")
	io.WriteString(w, xml)
}
