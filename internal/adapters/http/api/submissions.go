// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/estimathon/internal/adapters/repository"
	"github.com/okian/estimathon/internal/app"
)

// submitRequest mirrors the POST /submit_interval contract.
type submitRequest struct {
	TeamID    string  `json:"team_id"`
	ProblemID int     `json:"problem_id"`
	MinValue  float64 `json:"min_value"`
	MaxValue  float64 `json:"max_value"`
}

// SubmissionHandler handles interval submissions.
type SubmissionHandler struct {
	deps Dependencies
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(deps Dependencies) *SubmissionHandler {
	return &SubmissionHandler{deps: deps}
}

// HandleSubmitInterval handles POST /submit_interval requests. A failed
// validation returns success:false with a message and leaves the state
// untouched; no broadcast is triggered.
func (h *SubmissionHandler) HandleSubmitInterval(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRejection(w, "invalid request body")
		return
	}

	err := h.deps.SubmitInterval(r.Context(), req.TeamID, req.ProblemID, req.MinValue, req.MaxValue)
	if err != nil {
		writeRejection(w, rejectionMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, mutationResponse{Success: true})
}

// rejectionMessage translates gateway errors into the human-readable
// messages surfaced to the submitting caller.
func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrInvalidInterval):
		return "invalid interval"
	case errors.Is(err, repository.ErrTeamNotFound):
		return "unknown team"
	case errors.Is(err, repository.ErrProblemNotFound):
		return "unknown problem"
	case errors.Is(err, repository.ErrBudgetExhausted):
		return "submission limit reached"
	default:
		return "submission failed"
	}
}
