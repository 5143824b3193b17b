package fixtures_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/okian/gandula/internal/fixtures"
	pff "github.com/okian/gandula/internal/serializer/pff"
	"github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	convey.Convey("Given the synthetic match generator", t, func() {
		convey.Convey("When a match is generated", func() {
			match, err := fixtures.Generate(fixtures.WithEventCount(20), fixtures.WithSeed(1))

			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the event document decodes through the raw event index", func() {
				index, err := pff.DecodeRawEvents(bytes.NewReader(match.EventData))
				convey.So(err, convey.ShouldBeNil)
				convey.So(index.Len(), convey.ShouldEqual, 20)
			})

			convey.Convey("Then the metadata document holds one match record", func() {
				var meta []map[string]any
				convey.So(json.Unmarshal(match.MetaData, &meta), convey.ShouldBeNil)
				convey.So(meta, convey.ShouldHaveLength, 1)
				convey.So(meta[0]["homeTeamStartLeft"], convey.ShouldEqual, true)
			})

			convey.Convey("Then the roster covers both teams fully", func() {
				var roster []map[string]any
				convey.So(json.Unmarshal(match.RosterData, &roster), convey.ShouldBeNil)
				convey.So(roster, convey.ShouldHaveLength, 22)
			})
		})

		convey.Convey("When the same seed is used twice", func() {
			a, err := fixtures.Generate(fixtures.WithSeed(9))
			convey.So(err, convey.ShouldBeNil)
			b, err := fixtures.Generate(fixtures.WithSeed(9))
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then the documents are identical", func() {
				convey.So(bytes.Equal(a.EventData, b.EventData), convey.ShouldBeTrue)
				convey.So(bytes.Equal(a.MetaData, b.MetaData), convey.ShouldBeTrue)
				convey.So(bytes.Equal(a.RosterData, b.RosterData), convey.ShouldBeTrue)
			})
		})
	})
}
