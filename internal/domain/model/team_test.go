package model_test

import (
	"testing"

	"github.com/okian/gandula/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPlayerByID(t *testing.T) {
	convey.Convey("Given a team with a roster", t, func() {
		team := &model.Team{ID: "100", Name: "Harbor FC", Ground: model.GroundHome}
		team.Players = []*model.Player{
			{ID: "10001", Team: team, Name: "One", JerseyNo: 1},
			{ID: "10002", Team: team, Name: "Two", JerseyNo: 7},
		}

		convey.Convey("When a rostered id is looked up", func() {
			p := team.PlayerByID("10002")

			convey.Convey("Then the player is returned", func() {
				convey.So(p, convey.ShouldNotBeNil)
				convey.So(p.JerseyNo, convey.ShouldEqual, 7)
			})
		})

		convey.Convey("When the id is not rostered", func() {
			p := team.PlayerByID("10009")

			convey.Convey("Then the lookup returns nil without error", func() {
				convey.So(p, convey.ShouldBeNil)
			})
		})
	})
}
