package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/okian/estimathon/internal/adapters/http/api"
	repository "github.com/okian/estimathon/internal/adapters/repository"
	"github.com/okian/estimathon/internal/app"
	"github.com/okian/estimathon/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	addTeamErr  error
	submitErr   error
	teams       []model.TeamRef
	addedNames  []string
	submissions []submitted
}

type submitted struct {
	teamID    string
	problemID int
	min, max  float64
}

func (m *mockDependencies) AddTeam(ctx context.Context, name string) (model.Team, error) {
	if m.addTeamErr != nil {
		return model.Team{}, m.addTeamErr
	}
	m.addedNames = append(m.addedNames, name)
	return model.Team{ID: "team-1", Name: name}, nil
}

func (m *mockDependencies) SubmitInterval(ctx context.Context, teamID string, problemID int, min, max float64) error {
	if m.submitErr != nil {
		return m.submitErr
	}
	m.submissions = append(m.submissions, submitted{teamID, problemID, min, max})
	return nil
}

func (m *mockDependencies) ListTeams(ctx context.Context) []model.TeamRef {
	return m.teams
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestMux(deps *mockDependencies) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("undecodable response: %v", err)
	}
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newTestMux(&mockDependencies{})

		Convey("Then the health endpoint should be accessible", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("And the stats endpoint should be accessible", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestTeamsHandler_AddTeam(t *testing.T) {
	Convey("Given the gateway routes", t, func() {
		deps := &mockDependencies{}
		mux := newTestMux(deps)

		Convey("When posting a form-encoded team name", func() {
			form := url.Values{"team_name": {"Alpha"}}
			req := httptest.NewRequest("POST", "/add_team", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the response carries success and the new id", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeBody(t, w)
				So(body["success"], ShouldEqual, true)
				So(body["team_id"], ShouldEqual, "team-1")
				So(deps.addedNames, ShouldResemble, []string{"Alpha"})
			})
		})

		Convey("When the name is rejected as empty", func() {
			deps.addTeamErr = repository.ErrEmptyTeamName
			form := url.Values{"team_name": {""}}
			req := httptest.NewRequest("POST", "/add_team", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the response is a 400 with a message", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decodeBody(t, w)
				So(body["success"], ShouldEqual, false)
				So(body["message"], ShouldEqual, "team name must not be empty")
			})
		})

		Convey("When using the wrong method", func() {
			req := httptest.NewRequest("GET", "/add_team", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestTeamsHandler_GetTeams(t *testing.T) {
	Convey("Given a directory with two teams", t, func() {
		deps := &mockDependencies{teams: []model.TeamRef{
			{ID: "t1", Name: "Alpha"},
			{ID: "t2", Name: "Beta"},
		}}
		mux := newTestMux(deps)

		Convey("When fetching the directory", func() {
			req := httptest.NewRequest("GET", "/get_teams", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then all teams come back in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Teams []model.TeamRef `json:"teams"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(len(body.Teams), ShouldEqual, 2)
				So(body.Teams[0].Name, ShouldEqual, "Alpha")
				So(body.Teams[1].Name, ShouldEqual, "Beta")
			})
		})
	})
}

func TestSubmissionHandler_SubmitInterval(t *testing.T) {
	Convey("Given the gateway routes", t, func() {
		deps := &mockDependencies{}
		mux := newTestMux(deps)

		post := func(body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest("POST", "/submit_interval", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("When posting a valid submission", func() {
			w := post(`{"team_id":"t1","problem_id":3,"min_value":10,"max_value":20}`)

			Convey("Then it is accepted and forwarded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decodeBody(t, w)["success"], ShouldEqual, true)
				So(len(deps.submissions), ShouldEqual, 1)
				So(deps.submissions[0], ShouldResemble, submitted{"t1", 3, 10, 20})
			})
		})

		Convey("When posting a malformed body", func() {
			w := post(`{"team_id":`)

			Convey("Then it is rejected without reaching the service", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decodeBody(t, w)
				So(body["success"], ShouldEqual, false)
				So(body["message"], ShouldEqual, "invalid request body")
				So(len(deps.submissions), ShouldEqual, 0)
			})
		})

		Convey("When the interval is invalid", func() {
			deps.submitErr = app.ErrInvalidInterval
			w := post(`{"team_id":"t1","problem_id":3,"min_value":10,"max_value":5}`)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(t, w)["message"], ShouldEqual, "invalid interval")
		})

		Convey("When the team is unknown", func() {
			deps.submitErr = repository.ErrTeamNotFound
			w := post(`{"team_id":"ghost","problem_id":3,"min_value":1,"max_value":2}`)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(t, w)["message"], ShouldEqual, "unknown team")
		})

		Convey("When the problem is unknown", func() {
			deps.submitErr = repository.ErrProblemNotFound
			w := post(`{"team_id":"t1","problem_id":99,"min_value":1,"max_value":2}`)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(t, w)["message"], ShouldEqual, "unknown problem")
		})

		Convey("When the budget is exhausted", func() {
			deps.submitErr = repository.ErrBudgetExhausted
			w := post(`{"team_id":"t1","problem_id":3,"min_value":1,"max_value":2}`)

			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeBody(t, w)["message"], ShouldEqual, "submission limit reached")
		})
	})
}
