package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"crednova/polaris/pkg/decision"
	"crednova/polaris/pkg/storage"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Error     string   `json:"error"`
	Fields    []string `json:"fields,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

type decisionResponse struct {
	ID             string             `json:"id"`
	Decision       *decision.Decision `json:"decision"`
	CreatedAt      time.Time          `json:"created_at"`
	ProcessingTime string             `json:"processing_time"`
}

type listResponse struct {
	Decisions []decisionResponse `json:"decisions"`
	Count     int                `json:"count"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string, fields []string) {
	s.writeJSON(w, status, errorResponse{
		Error:     msg,
		Fields:    fields,
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// handleCreateDecision accepts a loan application, runs it through the
// decision pipeline, persists the outcome, and returns it.
func (s *Server) handleCreateDecision(w http.ResponseWriter, r *http.Request) {
	var app decision.Application
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&app); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error(), nil)
		return
	}

	if err := app.Validate(); err != nil {
		var verr *decision.ValidationError
		if errors.As(err, &verr) {
			s.writeError(w, r, http.StatusUnprocessableEntity, "application failed validation", verr.Fields)
			return
		}
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	start := time.Now()
	d, err := s.engine().Decide(r.Context(), app)
	if err != nil {
		s.logger.Error("decision pipeline failed", "error", err,
			slog.String("request_id", RequestIDFromContext(r.Context())))
		s.writeError(w, r, http.StatusServiceUnavailable, "decision could not be completed", nil)
		return
	}

	record := &storage.Record{
		ID:             uuid.New(),
		Application:    app,
		Decision:       *d,
		CreatedAt:      time.Now().UTC(),
		ProcessingTime: time.Since(start),
	}
	if err := s.store.Save(r.Context(), record); err != nil {
		s.logger.Error("failed to persist decision", "error", err, "id", record.ID)
		s.writeError(w, r, http.StatusInternalServerError, "decision could not be stored", nil)
		return
	}

	s.writeJSON(w, http.StatusCreated, toDecisionResponse(record))
}

// handleGetDecision returns a stored decision by ID.
func (s *Server) handleGetDecision(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid decision id", nil)
		return
	}

	record, err := s.store.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, r, http.StatusNotFound, "decision not found", nil)
		return
	}
	if err != nil {
		s.logger.Error("failed to load decision", "error", err, "id", id)
		s.writeError(w, r, http.StatusInternalServerError, "decision could not be loaded", nil)
		return
	}

	s.writeJSON(w, http.StatusOK, toDecisionResponse(record))
}

// handleListDecisions returns stored decisions, newest first. Supports
// ?status=, ?since= (RFC 3339), and ?limit= query parameters.
func (s *Server) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	filter := storage.ListFilter{Limit: 100}

	if v := r.URL.Query().Get("status"); v != "" {
		status := decision.DecisionStatus(v)
		switch status {
		case decision.StatusApproved, decision.StatusRejected, decision.StatusManualReview:
			filter.Status = status
		default:
			s.writeError(w, r, http.StatusBadRequest, "unknown status filter", nil)
			return
		}
	}
	if v := r.URL.Query().Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "since must be RFC 3339", nil)
			return
		}
		filter.Since = since
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 1000 {
			s.writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 1000", nil)
			return
		}
		filter.Limit = limit
	}

	records, err := s.store.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list decisions", "error", err)
		s.writeError(w, r, http.StatusInternalServerError, "decisions could not be listed", nil)
		return
	}

	resp := listResponse{Decisions: make([]decisionResponse, 0, len(records))}
	for _, record := range records {
		resp.Decisions = append(resp.Decisions, toDecisionResponse(record))
	}
	resp.Count = len(resp.Decisions)
	s.writeJSON(w, http.StatusOK, resp)
}

// handleLiveness reports process liveness.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.health.CheckLiveness(r.Context()))
}

// handleReadiness reports dependency readiness.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	status := s.health.CheckReadiness(r.Context())
	code := http.StatusOK
	if status.Status != "ready" {
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, status)
}

func toDecisionResponse(record *storage.Record) decisionResponse {
	d := record.Decision
	return decisionResponse{
		ID:             record.ID.String(),
		Decision:       &d,
		CreatedAt:      record.CreatedAt,
		ProcessingTime: record.ProcessingTime.String(),
	}
}
