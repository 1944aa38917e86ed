// Package agegrade computes age-grade percentages and equivalent times from
// standards tables. Every function is pure over its inputs.
package agegrade

import (
	"github.com/okian/agegrade/internal/domain/standards"
)

const percentScale = 100

// Grade is the outcome of comparing an actual time against a standard.
type Grade struct {
	// Percent is Factor*100, unrounded.
	Percent float64
	// Factor is standard/actual and scales every equivalence projection.
	Factor float64
	// Standard is the standard time in seconds the grade was computed from.
	Standard float64
}

// Peak is the fastest standard of an event and the youngest age holding it.
type Peak struct {
	Seconds float64
	Age     int
}

// PeakTable maps event to its peak. Events without any standard are absent.
type PeakTable map[string]Peak

// Lookup returns the peak for event.
func (p PeakTable) Lookup(event string) (Peak, bool) {
	pk, ok := p[event]
	return pk, ok
}

// ComputeAgeGrade grades actualSeconds for (event, age). ok is false when
// no standard exists or the actual time is not positive.
func ComputeAgeGrade(table *standards.Table, event string, age int, actualSeconds float64) (Grade, bool) {
	if actualSeconds <= 0 {
		return Grade{}, false
	}
	standard, ok := table.Standard(event, age)
	if !ok {
		return Grade{}, false
	}
	factor := standard / actualSeconds
	return Grade{
		Percent:  factor * percentScale,
		Factor:   factor,
		Standard: standard,
	}, true
}

// DeriveEquivalentTime projects a performance onto another context by
// dividing the target's standard by the performance factor.
func DeriveEquivalentTime(targetStandard float64, found bool, factor float64) (float64, bool) {
	if !found || targetStandard <= 0 || factor <= 0 {
		return 0, false
	}
	return targetStandard / factor, true
}

// ComputePeakTable takes, per event, the minimum defined standard.
func ComputePeakTable(table *standards.Table) PeakTable {
	peaks := make(PeakTable)
	for _, event := range table.Events() {
		for _, age := range table.Ages(event) {
			secs, _ := table.Standard(event, age)
			if cur, ok := peaks[event]; !ok || secs < cur.Seconds {
				peaks[event] = Peak{Seconds: secs, Age: age}
			}
		}
	}
	return peaks
}

// ClampAge bounds age to [minAge, maxAge].
func ClampAge(age, minAge, maxAge int) int {
	if age < minAge {
		return minAge
	}
	if age > maxAge {
		return maxAge
	}
	return age
}
