package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/gandula/internal/adapters/repository"
	service "github.com/okian/gandula/internal/app"
	"github.com/okian/gandula/internal/domain/model"
	"github.com/okian/gandula/internal/domain/types"
)

// ConversionsHandler handles conversion submission and retrieval.
type ConversionsHandler struct {
	deps Dependencies
}

// NewConversionsHandler creates a new conversions handler.
func NewConversionsHandler(deps Dependencies) *ConversionsHandler {
	return &ConversionsHandler{deps: deps}
}

// HandlePostConversion handles POST /v1/conversions requests.
func (h *ConversionsHandler) HandlePostConversion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req conversionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	jobID, err := h.deps.Submit(r.Context(), req.EventData, req.MetaData, req.RosterData, req.Coordinates)
	if err != nil {
		if errors.Is(err, service.ErrBackpressure) {
			writeError(w, http.StatusTooManyRequests, "backpressure", err)
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	writeJSON(w, http.StatusAccepted, ackResponse{JobID: jobID, Status: string(model.ConversionPending)})
}

// HandleGetConversion handles GET /v1/conversions/{id} requests. A done
// conversion returns the dataset; pending and failed conversions return
// their status.
func (h *ConversionsHandler) HandleGetConversion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	jobID := strings.TrimPrefix(r.URL.Path, "/v1/conversions/")
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing job id"))
		return
	}

	conv, err := h.deps.Conversion(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}

	if conv.Status != model.ConversionDone {
		writeJSON(w, http.StatusOK, statusResponse{
			JobID:  conv.JobID,
			Status: string(conv.Status),
			Error:  conv.Err,
		})
		return
	}

	writeJSON(w, http.StatusOK, types.DatasetFromModel(conv.Dataset))
}
