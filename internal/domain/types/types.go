// Package types contains the query and result shapes shared by the service,
// the HTTP API and the CLI.
package types

import (
	"github.com/okian/agegrade/internal/domain/agegrade"
	"github.com/okian/agegrade/internal/domain/standards"
)

// State is the outcome class of a query.
type State string

// Query states, in the order the stages can produce them.
const (
	StateInvalidInput    State = "invalid_input"
	StateDataUnavailable State = "data_unavailable"
	StateNoStandard      State = "no_standard"
	StateOK              State = "ok"
)

// Query is one age-grade request. Empty Edition and Event fall back to the
// defaults; Age <= 0 counts as missing.
type Query struct {
	Edition   string   `json:"edition"`
	Sex       string   `json:"sex"`
	Age       int      `json:"age"`
	Event     string   `json:"event"`
	Time      string   `json:"time"`
	Targets   []string `json:"targets"`
	CustomSex string   `json:"custom_sex"`
	CustomAge int      `json:"custom_age"`
	Ages      []int    `json:"ages"`
}

// Projection is an equivalent time rendered for display.
type Projection struct {
	Target  agegrade.Target `json:"target"`
	Sex     standards.Sex   `json:"sex"`
	Age     int             `json:"age"`
	Seconds float64         `json:"seconds,omitempty"`
	Time    string          `json:"time"`
	Found   bool            `json:"found"`
}

// Result is the structured answer to a Query.
type Result struct {
	State           State         `json:"state"`
	Edition         string        `json:"edition,omitempty"`
	Sex             standards.Sex `json:"sex,omitempty"`
	Age             int           `json:"age,omitempty"`
	Event           string        `json:"event,omitempty"`
	TimeSeconds     float64       `json:"time_seconds,omitempty"`
	Time            string        `json:"time,omitempty"`
	Percent         float64       `json:"percent,omitempty"`
	PercentText     string        `json:"percent_text"`
	Factor          float64       `json:"factor,omitempty"`
	StandardSeconds float64       `json:"standard_seconds,omitempty"`
	Standard        string        `json:"standard"`
	Projections     []Projection  `json:"projections,omitempty"`
	UnknownTargets  []string      `json:"unknown_targets,omitempty"`
	Notes           []string      `json:"notes,omitempty"`
}

// AddNote appends a user-facing note.
func (r *Result) AddNote(msg string) {
	r.Notes = append(r.Notes, msg)
}

// EventPeak is one row of a peak listing.
type EventPeak struct {
	Event   string  `json:"event"`
	Seconds float64 `json:"seconds"`
	Time    string  `json:"time"`
	Age     int     `json:"age"`
}
