// Package standards contains the reference data model: sexes, editions and
// the per-sex tables mapping (event, age) to a standard time in seconds.
package standards

import (
	"math"
	"sort"
	"strings"
)

// Sex selects which of an edition's two tables applies.
type Sex string

// Supported sexes.
const (
	Male   Sex = "male"
	Female Sex = "female"
)

// ParseSex accepts m/male/f/female in any case.
func ParseSex(s string) (Sex, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male":
		return Male, true
	case "f", "female":
		return Female, true
	default:
		return "", false
	}
}

// Other returns the opposite sex.
func (s Sex) Other() Sex {
	if s == Male {
		return Female
	}
	return Male
}

// Valid reports whether s is one of the supported values.
func (s Sex) Valid() bool { return s == Male || s == Female }

// Table holds the standards of one edition for one sex. A Table is
// immutable after construction and safe for concurrent readers.
type Table struct {
	Edition string
	Sex     Sex

	events    []string
	standards map[string]map[int]float64
}

// NewTable builds a Table. Non-positive or non-finite standards are dropped
// so that a missing entry always means "no standard". Events present in
// standards but not listed in events are appended in sorted order.
func NewTable(edition string, sex Sex, events []string, standards map[string]map[int]float64) *Table {
	t := &Table{
		Edition:   edition,
		Sex:       sex,
		standards: make(map[string]map[int]float64, len(standards)),
	}

	seen := make(map[string]bool, len(events))
	for _, e := range events {
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		t.events = append(t.events, e)
	}

	var extra []string
	for event, ages := range standards {
		clean := make(map[int]float64, len(ages))
		for age, secs := range ages {
			if secs > 0 && !math.IsInf(secs, 0) && !math.IsNaN(secs) {
				clean[age] = secs
			}
		}
		t.standards[event] = clean
		if !seen[event] {
			seen[event] = true
			extra = append(extra, event)
		}
	}
	sort.Strings(extra)
	t.events = append(t.events, extra...)

	return t
}

// Events returns the ordered event names.
func (t *Table) Events() []string {
	out := make([]string, len(t.events))
	copy(out, t.events)
	return out
}

// HasEvent reports whether event is listed in the table.
func (t *Table) HasEvent(event string) bool {
	for _, e := range t.events {
		if e == event {
			return true
		}
	}
	return false
}

// Standard returns the standard time for event at age.
func (t *Table) Standard(event string, age int) (float64, bool) {
	if t == nil {
		return 0, false
	}
	secs, ok := t.standards[event][age]
	return secs, ok
}

// Ages returns the ages with a defined standard for event, ascending.
func (t *Table) Ages(event string) []int {
	ages := make([]int, 0, len(t.standards[event]))
	for age := range t.standards[event] {
		ages = append(ages, age)
	}
	sort.Ints(ages)
	return ages
}

// Len returns the number of defined (event, age) standards.
func (t *Table) Len() int {
	n := 0
	for _, ages := range t.standards {
		n += len(ages)
	}
	return n
}
