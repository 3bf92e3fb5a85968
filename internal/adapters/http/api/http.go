// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/estimathon/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// AddTeam creates a team and triggers a snapshot broadcast.
	AddTeam(ctx context.Context, name string) (model.Team, error)

	// SubmitInterval validates and records one guess, triggering a
	// snapshot broadcast on success.
	SubmitInterval(ctx context.Context, teamID string, problemID int, min, max float64) error

	// ListTeams returns the team directory, current at call time.
	ListTeams(ctx context.Context) []model.TeamRef
}

// Server wires HTTP routes for the gateway API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	teamsHandler      *TeamsHandler
	submissionHandler *SubmissionHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		teamsHandler:      NewTeamsHandler(deps),
		submissionHandler: NewSubmissionHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/add_team", MetricsMiddleware(s.teamsHandler.HandleAddTeam, "add_team"))
	mux.HandleFunc("/get_teams", MetricsMiddleware(s.teamsHandler.HandleGetTeams, "get_teams"))
	mux.HandleFunc("/submit_interval", MetricsMiddleware(s.submissionHandler.HandleSubmitInterval, "submit_interval"))
}

// mutationResponse is the shared response shape of both mutation routes.
type mutationResponse struct {
	Success bool   `json:"success"`
	TeamID  string `json:"team_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// teamsResponse mirrors the GET /get_teams contract.
type teamsResponse struct {
	Teams []model.TeamRef `json:"teams"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeRejection reports a failed mutation. Every rejection uses the
// same wire shape so callers can branch on success alone.
func writeRejection(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, mutationResponse{Success: false, Message: message})
}
