// Package http exposes the stateless engine as a JSON API. Every request
// carries the conversation snapshot and every response returns the new one;
// the server keeps no per-conversation state, so it scales horizontally
// behind any balancer.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sellwise/funnel/pkg/domain"
	"github.com/sellwise/funnel/pkg/ports"
)

// Server wires the engine into HTTP handlers.
type Server struct {
	engine ports.StatelessEngine
	logger *slog.Logger
}

// snapshotRequest is the common request shape: the caller-held snapshot
// plus the action payload.
type snapshotRequest struct {
	Conversation *domain.Conversation `json:"conversation"`
	Option       *domain.Option       `json:"option,omitempty"`
	Index        int                  `json:"index,omitempty"`
	Input        string               `json:"input,omitempty"`
	BlockID      string               `json:"blockId,omitempty"`
	Outcome      string               `json:"outcome,omitempty"`
	OfferID      string               `json:"offerId,omitempty"`
}

// snapshotResponse returns the advanced snapshot plus everything a UI
// needs to render the next turn.
type snapshotResponse struct {
	Conversation   *domain.Conversation `json:"conversation"`
	Options        []domain.Option      `json:"options"`
	LeadingToOffer []int                `json:"leadingToOffer,omitempty"`
	Terminal       bool                 `json:"terminal"`
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine ports.StatelessEngine, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Post("/start", s.Start)
	r.Post("/select", s.Select)
	r.Post("/submit", s.Submit)
	r.Post("/timer/activate", s.ActivateTimer)
	r.Post("/timer/resolve", s.ResolveTimer)
	r.Get("/flow", s.GetFlow)
	r.Get("/health", s.GetHealth)

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

// Start handles POST /start.
func (s *Server) Start(w http.ResponseWriter, r *http.Request) {
	var body snapshotRequest
	// An empty body is fine for start.
	_ = json.NewDecoder(r.Body).Decode(&body)

	conv := s.engine.Start(r.Context())
	s.respond(w, conv, body.OfferID)
}

// Select handles POST /select.
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decode(w, r)
	if !ok {
		return
	}
	if body.Option == nil {
		http.Error(w, "missing option", http.StatusBadRequest)
		return
	}

	conv := s.engine.Resume(r.Context(), body.Conversation)
	conv = s.engine.SelectOption(r.Context(), conv, *body.Option, body.Index)
	s.respond(w, conv, body.OfferID)
}

// Submit handles POST /submit.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decode(w, r)
	if !ok {
		return
	}

	conv := s.engine.Resume(r.Context(), body.Conversation)
	conv = s.engine.SubmitText(r.Context(), conv, body.Input)
	s.respond(w, conv, body.OfferID)
}

// ActivateTimer handles POST /timer/activate.
func (s *Server) ActivateTimer(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decode(w, r)
	if !ok {
		return
	}

	conv, err := s.engine.ActivateTimer(body.Conversation, body.BlockID)
	if err != nil {
		http.Error(w, fmt.Sprintf("activate timer: %v", err), http.StatusUnprocessableEntity)
		return
	}
	s.respond(w, conv, body.OfferID)
}

// ResolveTimer handles POST /timer/resolve.
func (s *Server) ResolveTimer(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decode(w, r)
	if !ok {
		return
	}

	conv, err := s.engine.ResolveTimer(r.Context(), body.Conversation, domain.TimerOutcome(body.Outcome))
	if err != nil {
		http.Error(w, fmt.Sprintf("resolve timer: %v", err), http.StatusUnprocessableEntity)
		return
	}
	s.respond(w, conv, body.OfferID)
}

// GetFlow handles GET /flow.
func (s *Server) GetFlow(w http.ResponseWriter, r *http.Request) {
	flow, err := s.engine.Inspect()
	if err != nil {
		http.Error(w, fmt.Sprintf("inspect: %v", err), http.StatusInternalServerError)
		s.logger.Error("inspect failed", "err", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(flow); err != nil {
		s.logger.Error("flow response encode failed", "err", err)
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (snapshotRequest, bool) {
	var body snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		s.logger.Warn("invalid request body", "err", err)
		return body, false
	}
	if body.Conversation == nil {
		http.Error(w, "missing conversation snapshot", http.StatusBadRequest)
		return body, false
	}
	return body, true
}

func (s *Server) respond(w http.ResponseWriter, conv *domain.Conversation, offerID string) {
	resp := snapshotResponse{
		Conversation: conv,
		Options:      s.engine.Options(conv),
		Terminal:     conv.Terminal(),
	}
	if offerID != "" {
		resp.LeadingToOffer = s.engine.OptionsLeadingToOffer(conv, offerID)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
