package scoreboard_test

import (
	"testing"

	"github.com/okian/estimathon/internal/domain/model"
	"github.com/okian/estimathon/internal/viewer/scoreboard"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScoreboard_Apply(t *testing.T) {
	Convey("Given a snapshot with four ranked teams", t, func() {
		v := scoreboard.New()
		snap := model.Snapshot{
			Seq: 5,
			Teams: []model.TeamStats{
				{TeamID: "t1", TeamName: "Alpha", Score: 10},
				{TeamID: "t2", TeamName: "Beta", Score: 7},
				{TeamID: "t3", TeamName: "Gamma", Score: 7},
				{TeamID: "t4", TeamName: "Delta", Score: 3},
			},
		}

		Convey("When applied", func() {
			v.Apply(snap)
			rows := v.Rows()

			Convey("Then rank labels follow snapshot order", func() {
				So(len(rows), ShouldEqual, 4)
				for i, row := range rows {
					So(row.Rank, ShouldEqual, i+1)
				}
			})

			Convey("And tied scores still get distinct positional ranks", func() {
				So(rows[1].Score, ShouldEqual, rows[2].Score)
				So(rows[1].Rank, ShouldEqual, 2)
				So(rows[2].Rank, ShouldEqual, 3)
			})

			Convey("And only the first row is the leader", func() {
				So(rows[0].Leader, ShouldBeTrue)
				for _, row := range rows[1:] {
					So(row.Leader, ShouldBeFalse)
				}
			})

			Convey("And scores render with two decimals", func() {
				So(rows[0].Score, ShouldEqual, "10.00")
				So(rows[3].Score, ShouldEqual, "3.00")
			})
		})

		Convey("When applied twice", func() {
			v.Apply(snap)
			first := v.Render()
			v.Apply(snap)

			Convey("Then rendering is identical", func() {
				So(v.Render(), ShouldEqual, first)
			})
		})

		Convey("When a later snapshot reorders the teams", func() {
			v.Apply(snap)
			next := model.Snapshot{
				Seq: 6,
				Teams: []model.TeamStats{
					{TeamID: "t4", TeamName: "Delta", Score: 99},
					{TeamID: "t1", TeamName: "Alpha", Score: 10},
				},
			}
			v.Apply(next)

			Convey("Then the table is replaced wholesale", func() {
				rows := v.Rows()
				So(len(rows), ShouldEqual, 2)
				So(rows[0].TeamName, ShouldEqual, "Delta")
				So(rows[0].Leader, ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty snapshot", t, func() {
		v := scoreboard.New()
		v.Apply(model.Snapshot{})

		Convey("Then the table has no rows and renders a header only", func() {
			So(len(v.Rows()), ShouldEqual, 0)
			So(v.Render(), ShouldEqual, "RANK\tTEAM\tSCORE\n")
		})
	})
}
