package dashboard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/estimathon/internal/domain/model"
	"github.com/okian/estimathon/internal/viewer"
	"github.com/okian/estimathon/internal/viewer/dashboard"
	"github.com/okian/estimathon/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleSnapshot() model.Snapshot {
	return model.Snapshot{
		Seq: 3,
		Teams: []model.TeamStats{
			{
				TeamID: "t2", TeamName: "TeamB",
				QuestionsAnswered: 1, CorrectAnswers: 0, SubmissionsUsed: 1,
				SubmissionDetails: []model.SubmissionDetail{
					{TeamID: "t2", ProblemID: 2, MinValue: 5, MaxValue: 8, IsGood: false},
				},
			},
			{
				TeamID: "t1", TeamName: "TeamA",
				QuestionsAnswered: 1, CorrectAnswers: 1, SubmissionsUsed: 2,
				SubmissionDetails: []model.SubmissionDetail{
					{TeamID: "t1", ProblemID: 1, MinValue: 10, MaxValue: 20, IsGood: true},
				},
			},
		},
	}
}

func TestDashboard_Apply(t *testing.T) {
	logger.Init()

	Convey("Given a dashboard viewer", t, func() {
		v := dashboard.New(viewer.NewClient("http://unused"))

		Convey("When a snapshot is applied", func() {
			v.Apply(sampleSnapshot())

			Convey("Then the raw log follows snapshot order", func() {
				rows := v.Submissions()
				So(len(rows), ShouldEqual, 2)
				So(rows[0].TeamName, ShouldEqual, "TeamB")
				So(rows[0].Verdict, ShouldEqual, "Not Good")
				So(rows[1].TeamName, ShouldEqual, "TeamA")
				So(rows[1].Verdict, ShouldEqual, "Good")
			})

			Convey("And summaries carry the capped counters", func() {
				sums := v.Summaries()
				So(len(sums), ShouldEqual, 2)
				So(sums[0].Answered, ShouldEqual, "1/13")
				So(sums[0].Used, ShouldEqual, "1/18")
				So(sums[1].Correct, ShouldEqual, "1/13")
				So(sums[1].Used, ShouldEqual, "2/18")
			})

			Convey("And applying the same snapshot again renders identically", func() {
				first := v.Render()
				v.Apply(sampleSnapshot())
				So(v.Render(), ShouldEqual, first)
			})
		})
	})
}

func TestDashboard_SortBy(t *testing.T) {
	logger.Init()

	Convey("Given a dashboard with applied rows", t, func() {
		v := dashboard.New(viewer.NewClient("http://unused"))
		v.Apply(sampleSnapshot())

		Convey("When sorting by team", func() {
			v.SortBy("team")

			Convey("Then rows reorder lexicographically by team name", func() {
				rows := v.Submissions()
				So(rows[0].TeamName, ShouldEqual, "TeamA")
				So(rows[1].TeamName, ShouldEqual, "TeamB")
			})

			Convey("And the next snapshot discards the ordering", func() {
				v.Apply(sampleSnapshot())
				rows := v.Submissions()
				So(rows[0].TeamName, ShouldEqual, "TeamB")
			})
		})

		Convey("When sorting by problem", func() {
			v.SortBy("problem")
			rows := v.Submissions()
			So(rows[0].ProblemID, ShouldEqual, 1)
			So(rows[1].ProblemID, ShouldEqual, 2)
		})

		Convey("When sorting by an unknown column", func() {
			before := v.Submissions()
			v.SortBy("score")
			So(v.Submissions(), ShouldResemble, before)
		})
	})
}

func TestDashboard_Forms(t *testing.T) {
	logger.Init()

	Convey("Given a gateway behind the dashboard", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/add_team", func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			if r.PostFormValue("team_name") == "" {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "team name must not be empty"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "team_id": "t-new"})
		})
		mux.HandleFunc("/get_teams", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"teams": []map[string]string{
				{"id": "t-new", "name": "Fresh"},
			}})
		})
		mux.HandleFunc("/submit_interval", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				MinValue float64 `json:"min_value"`
				MaxValue float64 `json:"max_value"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.MinValue > req.MaxValue {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "invalid interval"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		v := dashboard.New(viewer.NewClient(srv.URL))
		ctx := context.Background()

		Convey("When creating a team", func() {
			id, err := v.AddTeam(ctx, "Fresh")
			So(err, ShouldBeNil)
			So(id, ShouldEqual, "t-new")

			Convey("Then the selector is refreshed from the directory", func() {
				teams := v.Teams()
				So(len(teams), ShouldEqual, 1)
				So(teams[0].Name, ShouldEqual, "Fresh")
			})
		})

		Convey("When the gateway rejects the team name", func() {
			_, err := v.AddTeam(ctx, "")
			So(err, ShouldNotBeNil)
			var gw *viewer.GatewayError
			So(err, ShouldHaveSameTypeAs, gw)
			So(len(v.Teams()), ShouldEqual, 0)
		})

		Convey("When submitting a valid form", func() {
			v.SetForm("t-new", 2, "10", "20")
			So(v.SubmitForm(ctx), ShouldBeNil)

			Convey("Then the interval fields clear but the selections stay", func() {
				teamID, problemID, min, max := v.Form()
				So(teamID, ShouldEqual, "t-new")
				So(problemID, ShouldEqual, 2)
				So(min, ShouldEqual, "")
				So(max, ShouldEqual, "")
			})
		})

		Convey("When the gateway rejects the interval", func() {
			v.SetForm("t-new", 2, "20", "10")
			err := v.SubmitForm(ctx)
			So(err, ShouldNotBeNil)

			Convey("Then the form keeps its values for correction", func() {
				_, _, min, max := v.Form()
				So(min, ShouldEqual, "20")
				So(max, ShouldEqual, "10")
			})
		})

		Convey("When the interval fields are not numbers", func() {
			v.SetForm("t-new", 2, "ten", "20")
			err := v.SubmitForm(ctx)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid request body")
		})
	})
}
