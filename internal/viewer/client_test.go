package viewer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/estimathon/internal/viewer"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	Convey("Given a gateway", t, func() {
		var lastForm string
		var lastJSON map[string]any

		mux := http.NewServeMux()
		mux.HandleFunc("/add_team", func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			lastForm = r.PostFormValue("team_name")
			if lastForm == "" {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "team name must not be empty"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "team_id": "id-1"})
		})
		mux.HandleFunc("/submit_interval", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&lastJSON)
			if lastJSON["team_id"] == "ghost" {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "unknown team"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
		})
		mux.HandleFunc("/get_teams", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"teams": []map[string]string{
				{"id": "id-1", "name": "Alpha"},
			}})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := viewer.NewClient(srv.URL)
		ctx := context.Background()

		Convey("When adding a team, the name travels form-encoded", func() {
			id, err := client.AddTeam(ctx, "Alpha")
			So(err, ShouldBeNil)
			So(id, ShouldEqual, "id-1")
			So(lastForm, ShouldEqual, "Alpha")
		})

		Convey("When the gateway rejects, the message is surfaced", func() {
			_, err := client.AddTeam(ctx, "")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "team name must not be empty")
		})

		Convey("When submitting, the interval travels as JSON", func() {
			So(client.SubmitInterval(ctx, "id-1", 4, 2.5, 7.5), ShouldBeNil)
			So(lastJSON["team_id"], ShouldEqual, "id-1")
			So(lastJSON["problem_id"], ShouldEqual, 4.0)
			So(lastJSON["min_value"], ShouldEqual, 2.5)
			So(lastJSON["max_value"], ShouldEqual, 7.5)
		})

		Convey("When the submission is rejected", func() {
			err := client.SubmitInterval(ctx, "ghost", 1, 1, 2)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "unknown team")
		})

		Convey("When listing teams", func() {
			teams, err := client.ListTeams(ctx)
			So(err, ShouldBeNil)
			So(len(teams), ShouldEqual, 1)
			So(teams[0].Name, ShouldEqual, "Alpha")
		})

		Convey("When the gateway is unreachable", func() {
			bad := viewer.NewClient("http://127.0.0.1:1")
			_, err := bad.ListTeams(ctx)
			So(err, ShouldNotBeNil)
		})
	})
}
