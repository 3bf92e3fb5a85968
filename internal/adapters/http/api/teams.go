// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/okian/estimathon/internal/adapters/repository"
)

// TeamsHandler handles team creation and the team directory query.
type TeamsHandler struct {
	deps Dependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps Dependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleAddTeam handles POST /add_team requests. The body is
// form-encoded with a single team_name field.
func (h *TeamsHandler) HandleAddTeam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeRejection(w, "invalid form body")
		return
	}

	team, err := h.deps.AddTeam(r.Context(), r.PostFormValue("team_name"))
	if err != nil {
		if errors.Is(err, repository.ErrEmptyTeamName) {
			writeRejection(w, "team name must not be empty")
			return
		}
		writeJSON(w, http.StatusInternalServerError, mutationResponse{Success: false, Message: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, mutationResponse{Success: true, TeamID: team.ID})
}

// HandleGetTeams handles GET /get_teams requests.
func (h *TeamsHandler) HandleGetTeams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, teamsResponse{Teams: h.deps.ListTeams(r.Context())})
}
