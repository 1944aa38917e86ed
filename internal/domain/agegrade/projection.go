package agegrade

import (
	"strings"

	"github.com/okian/agegrade/internal/domain/standards"
)

// Target names a context a performance can be projected onto.
type Target string

// Supported targets.
const (
	TargetOtherSex     Target = "other_sex"
	TargetPeak         Target = "peak"
	TargetPeakOtherSex Target = "peak_other_sex"
	TargetAgeTable     Target = "age_table"
	TargetCustom       Target = "custom"
)

// AllTargets lists every target in presentation order.
var AllTargets = []Target{TargetOtherSex, TargetPeak, TargetPeakOtherSex, TargetAgeTable, TargetCustom}

// ParseTargets reads target names, skipping blanks and duplicates. Unknown
// names are returned separately.
func ParseTargets(names []string) ([]Target, []string) {
	var (
		targets []Target
		unknown []string
		seen    = make(map[Target]bool)
	)
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			t := Target(name)
			if !t.valid() {
				unknown = append(unknown, name)
				continue
			}
			if !seen[t] {
				seen[t] = true
				targets = append(targets, t)
			}
		}
	}
	return targets, unknown
}

func (t Target) valid() bool {
	for _, known := range AllTargets {
		if t == known {
			return true
		}
	}
	return false
}

// Projection is one equivalent time. Found is false when the target has no
// standard; Seconds is then zero.
type Projection struct {
	Target  Target
	Sex     standards.Sex
	Age     int
	Seconds float64
	Found   bool
}

// Projector derives equivalent times for one event and performance factor.
type Projector struct {
	Tables map[standards.Sex]*standards.Table
	Peaks  map[standards.Sex]PeakTable
	Event  string
	Factor float64
}

// AtAge projects onto (sex, age).
func (p Projector) AtAge(target Target, sex standards.Sex, age int) Projection {
	std, found := p.Tables[sex].Standard(p.Event, age)
	secs, ok := DeriveEquivalentTime(std, found, p.Factor)
	return Projection{Target: target, Sex: sex, Age: age, Seconds: secs, Found: ok}
}

// AtPeak projects onto the peak age of sex.
func (p Projector) AtPeak(target Target, sex standards.Sex) Projection {
	peak, found := p.Peaks[sex].Lookup(p.Event)
	secs, ok := DeriveEquivalentTime(peak.Seconds, found, p.Factor)
	return Projection{Target: target, Sex: sex, Age: peak.Age, Seconds: secs, Found: ok}
}

// Request describes which projections a query wants.
type Request struct {
	Targets   []Target
	Sex       standards.Sex
	Age       int
	Ages      []int
	CustomSex standards.Sex
	CustomAge int
}

// Project evaluates every requested target in order. The age table yields
// one projection per age; a custom target without a valid sex is skipped.
func (p Projector) Project(req Request) []Projection {
	var out []Projection
	for _, t := range req.Targets {
		switch t {
		case TargetOtherSex:
			out = append(out, p.AtAge(t, req.Sex.Other(), req.Age))
		case TargetPeak:
			out = append(out, p.AtPeak(t, req.Sex))
		case TargetPeakOtherSex:
			out = append(out, p.AtPeak(t, req.Sex.Other()))
		case TargetAgeTable:
			for _, age := range req.Ages {
				out = append(out, p.AtAge(t, req.Sex, age))
			}
		case TargetCustom:
			if req.CustomSex.Valid() {
				out = append(out, p.AtAge(t, req.CustomSex, req.CustomAge))
			}
		}
	}
	return out
}
