package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/agegrade/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResult(t *testing.T) {
	Convey("Given an empty Result", t, func() {
		res := types.Result{State: types.StateNoStandard, PercentText: "—", Standard: "—"}

		Convey("When notes are added", func() {
			res.AddNote("first")
			res.AddNote("second")

			Convey("Then they should keep their order", func() {
				So(res.Notes, ShouldResemble, []string{"first", "second"})
			})
		})

		Convey("When encoded as JSON", func() {
			data, err := json.Marshal(res)
			So(err, ShouldBeNil)

			var m map[string]any
			So(json.Unmarshal(data, &m), ShouldBeNil)

			Convey("Then placeholders should be present and empty numbers omitted", func() {
				So(m["state"], ShouldEqual, "no_standard")
				So(m["percent_text"], ShouldEqual, "—")
				So(m["standard"], ShouldEqual, "—")
				_, hasPercent := m["percent"]
				So(hasPercent, ShouldBeFalse)
				_, hasProjections := m["projections"]
				So(hasProjections, ShouldBeFalse)
			})
		})
	})
}

func TestQuery(t *testing.T) {
	Convey("Given a JSON query body", t, func() {
		body := `{"sex":"f","age":42,"event":"10 km","time":"41:10","targets":["peak","age_table"],"ages":[30,50]}`

		Convey("When decoded", func() {
			var q types.Query
			err := json.Unmarshal([]byte(body), &q)

			Convey("Then every field should be populated", func() {
				So(err, ShouldBeNil)
				So(q.Sex, ShouldEqual, "f")
				So(q.Age, ShouldEqual, 42)
				So(q.Event, ShouldEqual, "10 km")
				So(q.Time, ShouldEqual, "41:10")
				So(q.Targets, ShouldResemble, []string{"peak", "age_table"})
				So(q.Ages, ShouldResemble, []int{30, 50})
				So(q.Edition, ShouldBeEmpty)
			})
		})
	})
}
