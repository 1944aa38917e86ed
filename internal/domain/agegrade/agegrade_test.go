package agegrade_test

import (
	"math"
	"testing"

	"github.com/okian/agegrade/internal/domain/agegrade"
	"github.com/okian/agegrade/internal/domain/standards"
	. "github.com/smartystreets/goconvey/convey"
)

const epsilon = 1e-9

func maleTable() *standards.Table {
	return standards.NewTable("2023", standards.Male, []string{"5 km", "10 km", "Mile"}, map[string]map[int]float64{
		"5 km":  {30: 900, 40: 930, 25: 880, 26: 880, 70: 1200},
		"10 km": {30: 1850, 45: 2000},
		"Mile":  {},
	})
}

func femaleTable() *standards.Table {
	return standards.NewTable("2023", standards.Female, []string{"5 km", "10 km", "Mile"}, map[string]map[int]float64{
		"5 km":  {30: 990, 28: 980},
		"10 km": {45: 2250},
	})
}

func TestComputeAgeGrade(t *testing.T) {
	Convey("Given a male standards table", t, func() {
		table := maleTable()

		Convey("When grading 16:40 over 5 km at age 30", func() {
			g, ok := agegrade.ComputeAgeGrade(table, "5 km", 30, 1000)

			Convey("Then factor and percent should follow the standard ratio", func() {
				So(ok, ShouldBeTrue)
				So(g.Standard, ShouldEqual, 900)
				So(g.Factor, ShouldAlmostEqual, 0.9, epsilon)
				So(g.Percent, ShouldAlmostEqual, 90.0, epsilon)
			})
		})

		Convey("When grading arbitrary times", func() {
			for _, actual := range []float64{850, 901, 1234.5, 3000} {
				g, ok := agegrade.ComputeAgeGrade(table, "5 km", 40, actual)
				So(ok, ShouldBeTrue)
				So(g.Percent, ShouldEqual, 930/actual*100)
			}
		})

		Convey("When no standard exists for the age", func() {
			_, ok := agegrade.ComputeAgeGrade(table, "5 km", 31, 1000)

			Convey("Then it should report not found", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the event is unknown or the time is not positive", func() {
			_, ok := agegrade.ComputeAgeGrade(table, "Marathon", 30, 1000)
			So(ok, ShouldBeFalse)
			_, ok = agegrade.ComputeAgeGrade(table, "5 km", 30, 0)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDeriveEquivalentTime(t *testing.T) {
	Convey("Given a performance factor of 0.9", t, func() {
		Convey("When projecting onto a female standard of 990s", func() {
			secs, ok := agegrade.DeriveEquivalentTime(990, true, 0.9)

			Convey("Then the equivalent should be 18:20", func() {
				So(ok, ShouldBeTrue)
				So(secs, ShouldAlmostEqual, 1100, epsilon)
				So(standards.FormatClock(secs), ShouldEqual, "18:20")
			})
		})

		Convey("When the target standard is absent", func() {
			_, ok := agegrade.DeriveEquivalentTime(0, false, 0.9)
			So(ok, ShouldBeFalse)
		})

		Convey("When the factor is not positive", func() {
			_, ok := agegrade.DeriveEquivalentTime(990, true, 0)
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a graded performance", t, func() {
		own, other := maleTable(), femaleTable()
		g, ok := agegrade.ComputeAgeGrade(own, "5 km", 30, 1043)
		So(ok, ShouldBeTrue)

		Convey("Then regrading the equivalent time reproduces the grade", func() {
			target, found := other.Standard("5 km", 30)
			eq, ok := agegrade.DeriveEquivalentTime(target, found, g.Factor)
			So(ok, ShouldBeTrue)

			back, ok := agegrade.ComputeAgeGrade(other, "5 km", 30, eq)
			So(ok, ShouldBeTrue)
			So(math.Abs(back.Percent-g.Percent), ShouldBeLessThan, 1e-9)
		})
	})
}

func TestComputePeakTable(t *testing.T) {
	Convey("Given a standards table", t, func() {
		table := maleTable()
		peaks := agegrade.ComputePeakTable(table)

		Convey("Then each peak should be the minimum of the defined standards", func() {
			for _, event := range table.Events() {
				peak, ok := peaks.Lookup(event)
				if len(table.Ages(event)) == 0 {
					So(ok, ShouldBeFalse)
					continue
				}
				So(ok, ShouldBeTrue)
				for _, age := range table.Ages(event) {
					secs, _ := table.Standard(event, age)
					So(peak.Seconds, ShouldBeLessThanOrEqualTo, secs)
				}
			}
			So(peaks["5 km"], ShouldResemble, agegrade.Peak{Seconds: 880, Age: 25})
			So(peaks["10 km"], ShouldResemble, agegrade.Peak{Seconds: 1850, Age: 30})
		})

		Convey("And an event with no standards should have no peak", func() {
			_, ok := peaks.Lookup("Mile")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestClampAge(t *testing.T) {
	Convey("Given an age range of 5 to 110", t, func() {
		So(agegrade.ClampAge(3, 5, 110), ShouldEqual, 5)
		So(agegrade.ClampAge(42, 5, 110), ShouldEqual, 42)
		So(agegrade.ClampAge(130, 5, 110), ShouldEqual, 110)
	})
}

func TestProjector(t *testing.T) {
	Convey("Given a projector for a 5 km performance at factor 0.9", t, func() {
		male, female := maleTable(), femaleTable()
		p := agegrade.Projector{
			Tables: map[standards.Sex]*standards.Table{standards.Male: male, standards.Female: female},
			Peaks: map[standards.Sex]agegrade.PeakTable{
				standards.Male:   agegrade.ComputePeakTable(male),
				standards.Female: agegrade.ComputePeakTable(female),
			},
			Event:  "5 km",
			Factor: 0.9,
		}

		Convey("When projecting every target", func() {
			out := p.Project(agegrade.Request{
				Targets:   agegrade.AllTargets,
				Sex:       standards.Male,
				Age:       30,
				Ages:      []int{40, 50},
				CustomSex: standards.Female,
				CustomAge: 28,
			})

			Convey("Then projections should follow target order", func() {
				So(len(out), ShouldEqual, 6)

				So(out[0].Target, ShouldEqual, agegrade.TargetOtherSex)
				So(out[0].Sex, ShouldEqual, standards.Female)
				So(out[0].Seconds, ShouldAlmostEqual, 1100, epsilon)

				So(out[1].Target, ShouldEqual, agegrade.TargetPeak)
				So(out[1].Age, ShouldEqual, 25)
				So(out[1].Seconds, ShouldAlmostEqual, 880/0.9, epsilon)

				So(out[2].Target, ShouldEqual, agegrade.TargetPeakOtherSex)
				So(out[2].Age, ShouldEqual, 28)
				So(out[2].Seconds, ShouldAlmostEqual, 980/0.9, epsilon)

				So(out[3].Age, ShouldEqual, 40)
				So(out[3].Found, ShouldBeTrue)
				So(out[4].Age, ShouldEqual, 50)
				So(out[4].Found, ShouldBeFalse)

				So(out[5].Target, ShouldEqual, agegrade.TargetCustom)
				So(out[5].Seconds, ShouldAlmostEqual, 980/0.9, epsilon)
			})
		})

		Convey("When the event has no standards at all", func() {
			p.Event = "Mile"
			out := p.Project(agegrade.Request{
				Targets: []agegrade.Target{agegrade.TargetPeak, agegrade.TargetOtherSex},
				Sex:     standards.Male,
				Age:     30,
			})

			Convey("Then every projection should be not found", func() {
				So(len(out), ShouldEqual, 2)
				So(out[0].Found, ShouldBeFalse)
				So(out[1].Found, ShouldBeFalse)
			})
		})
	})
}

func TestParseTargets(t *testing.T) {
	Convey("Given target names", t, func() {
		targets, unknown := agegrade.ParseTargets([]string{"peak, other_sex", "PEAK", "", "bogus"})
		So(targets, ShouldResemble, []agegrade.Target{agegrade.TargetPeak, agegrade.TargetOtherSex})
		So(unknown, ShouldResemble, []string{"bogus"})
	})
}
