// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/gandula/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit registers and enqueues a conversion job for the three
	// provider documents. Returns the job id.
	Submit(ctx context.Context, eventData, metaData, rosterData []byte, coordinateSystem string) (string, error)

	// Conversion returns the stored outcome for a job id.
	Conversion(ctx context.Context, jobID string) (model.Conversion, error)
}

// StatsProvider exposes service statistics for monitoring.
type StatsProvider interface {
	Stats() map[string]interface{}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	conversionsHandler *ConversionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		conversionsHandler: NewConversionsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/conversions", MetricsMiddleware(s.conversionsHandler.HandlePostConversion, "conversions"))
	mux.HandleFunc("/v1/conversions/", MetricsMiddleware(s.conversionsHandler.HandleGetConversion, "conversion"))
}

// conversionRequest is the POST /v1/conversions body: the three provider
// documents embedded verbatim, plus the target coordinate system.
type conversionRequest struct {
	EventData   json.RawMessage `json:"event_data"`
	MetaData    json.RawMessage `json:"meta_data"`
	RosterData  json.RawMessage `json:"roster_data"`
	Coordinates string          `json:"coordinates"`
}

func (r conversionRequest) validate() error {
	switch {
	case len(r.EventData) == 0:
		return errors.New("missing event_data")
	case len(r.MetaData) == 0:
		return errors.New("missing meta_data")
	case len(r.RosterData) == 0:
		return errors.New("missing roster_data")
	}
	return nil
}

type ackResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type statusResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
