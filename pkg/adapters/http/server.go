package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// Page defines what the HTTP surface needs from a lattice page.
type Page interface {
	Render(ctx context.Context) (*domain.View, error)
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	Interact(ctx context.Context, in domain.Interaction) (domain.FocusDecision, error)
	Place(ctx context.Context, rects map[string]domain.Rect) error
	SetMode(ctx context.Context, mode domain.Mode) (*domain.View, error)
	RequestScroll(ctx context.Context, nodeID string) error
	Remount(ctx context.Context, nodeID string) (*domain.View, error)
	Watch(ctx context.Context) (<-chan string, error)
}

// Server serves a page over HTTP.
type Server struct {
	Page    Page
	Streams *StreamManager

	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts a metrics handler at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the page.
func NewHandler(page Page, opts ...Option) http.Handler {
	server := &Server{
		Page:    page,
		Streams: NewStreamManager(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/view", server.GetView)
	r.Get("/graph", server.GetGraph)
	r.Get("/state", server.GetState)
	r.Get("/events", server.SubscribeEvents)
	r.Post("/interact", server.Interact)
	r.Post("/place", server.Place)
	r.Post("/mode", server.SetMode)
	r.Post("/scroll", server.Scroll)
	r.Post("/cells/{nodeID}/remount", server.Remount)
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
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
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetView handles the GET /view request.
func (s *Server) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := s.Page.Render(r.Context())
	if err != nil {
		s.fail(w, "Render", err)
		return
	}
	s.writeJSON(w, view)
}

// GetGraph handles the GET /graph request with a Mermaid flowchart of the view.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	view, err := s.Page.Render(r.Context())
	if err != nil {
		s.fail(w, "Render", err)
		return
	}
	snap, err := s.Page.Snapshot(r.Context())
	if err != nil {
		s.fail(w, "Snapshot", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(view, &graph.GraphOverlay{FocusedNode: snap.State.FocusedNodeID}))
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Page.Snapshot(r.Context())
	if err != nil {
		s.fail(w, "Snapshot", err)
		return
	}
	s.writeJSON(w, snap.State)
}

// Interact handles the POST /interact request.
func (s *Server) Interact(w http.ResponseWriter, r *http.Request) {
	var in domain.Interaction
	if !s.decode(w, r, "Interact", &in) {
		return
	}
	if in.Source == "" {
		in.Source = domain.SourcePointer
	}

	decision, err := s.Page.Interact(r.Context(), in)
	if err != nil {
		s.fail(w, "Interact", err)
		return
	}
	if decision.Accepted {
		s.broadcastView(r.Context())
	}
	s.writeJSON(w, decision)
}

// Place handles the POST /place request. The body maps node ids to rectangles.
func (s *Server) Place(w http.ResponseWriter, r *http.Request) {
	var rects map[string]domain.Rect
	if !s.decode(w, r, "Place", &rects) {
		return
	}
	if err := s.Page.Place(r.Context(), rects); err != nil {
		s.fail(w, "Place", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// SetMode handles the POST /mode request.
func (s *Server) SetMode(w http.ResponseWriter, r *http.Request) {
	var body modeRequest
	if !s.decode(w, r, "SetMode", &body) {
		return
	}
	mode, err := domain.ParseMode(body.Mode)
	if err != nil {
		s.fail(w, "SetMode", err)
		return
	}
	view, err := s.Page.SetMode(r.Context(), mode)
	if err != nil {
		s.fail(w, "SetMode", err)
		return
	}
	s.broadcast(view)
	s.writeJSON(w, view)
}

type scrollRequest struct {
	NodeID string `json:"nodeId"`
}

// Scroll handles the POST /scroll request.
func (s *Server) Scroll(w http.ResponseWriter, r *http.Request) {
	var body scrollRequest
	if !s.decode(w, r, "Scroll", &body) {
		return
	}
	if body.NodeID == "" {
		http.Error(w, "nodeId is required", http.StatusBadRequest)
		return
	}
	if err := s.Page.RequestScroll(r.Context(), body.NodeID); err != nil {
		s.fail(w, "Scroll", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Remount handles the POST /cells/{nodeID}/remount request.
func (s *Server) Remount(w http.ResponseWriter, r *http.Request) {
	view, err := s.Page.Remount(r.Context(), chi.URLParam(r, "nodeID"))
	if err != nil {
		s.fail(w, "Remount", err)
		return
	}
	s.broadcast(view)
	s.writeJSON(w, view)
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast sends msg to every subscriber. Slow clients lose messages.
func (sm *StreamManager) Broadcast(msg string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sent := 0
	for ch := range sm.subscribers {
		select {
		case ch <- msg:
			sent++
		default:
		}
	}
	return sent
}

// Len returns the number of subscribers.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// SubscribeEvents handles the GET /events request (SSE).
//
// With ?source=tree the stream reports tree source changes (hot reload).
// Otherwise it carries the view JSON after every accepted interaction or
// mode change.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	var events <-chan string
	if r.URL.Query().Get("source") == "tree" {
		var err error
		events, err = s.Page.Watch(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusInternalServerError)
			return
		}
	} else {
		ch, cancel := s.Streams.Subscribe()
		defer cancel()
		events = ch
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
		case msg, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func (s *Server) broadcastView(ctx context.Context) {
	view, err := s.Page.Render(ctx)
	if err != nil {
		s.logger.Warn("failed to render view for subscribers", "err", err)
		return
	}
	s.broadcast(view)
}

func (s *Server) broadcast(view *domain.View) {
	if s.Streams.Len() == 0 {
		return
	}
	data, err := json.Marshal(view)
	if err != nil {
		s.logger.Error("view encode failed", "err", err)
		return
	}
	s.Streams.Broadcast(string(data))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn(op+": Invalid request body", "err", err)
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNodeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidMode):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		status = http.StatusRequestTimeout
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
