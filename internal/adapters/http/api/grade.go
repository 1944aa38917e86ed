package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20

// GradeDependencies defines the interface for grade computation.
type GradeDependencies interface {
	Compute(ctx context.Context, q Query) Result
}

// GradeHandler handles grade requests.
type GradeHandler struct {
	deps GradeDependencies
}

// NewGradeHandler creates a new grade handler.
func NewGradeHandler(deps GradeDependencies) *GradeHandler {
	return &GradeHandler{deps: deps}
}

// HandleGrade handles GET /grade (query string) and POST /grade (JSON body).
// Domain outcomes, including invalid input, are 200 responses whose state
// field tells them apart.
func (h *GradeHandler) HandleGrade(w http.ResponseWriter, r *http.Request) {
	const op = "api.grade"

	var q Query
	switch r.Method {
	case http.MethodGet:
		q = queryFromValues(r.URL.Query())
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			writeError(w, r, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	default:
		http.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, h.deps.Compute(r.Context(), q))
}

// queryFromValues reads a query from URL parameters. Unparseable numbers
// count as missing.
func queryFromValues(v url.Values) Query {
	return Query{
		Edition:   strings.TrimSpace(v.Get("edition")),
		Sex:       v.Get("sex"),
		Age:       atoi(v.Get("age")),
		Event:     strings.TrimSpace(v.Get("event")),
		Time:      strings.TrimSpace(v.Get("time")),
		Targets:   v["targets"],
		CustomSex: v.Get("custom_sex"),
		CustomAge: atoi(v.Get("custom_age")),
		Ages:      parseAges(v["ages"]),
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// parseAges accepts repeated and comma-separated values, skipping junk.
func parseAges(raw []string) []int {
	var ages []int
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if n := atoi(part); n > 0 {
				ages = append(ages, n)
			}
		}
	}
	return ages
}
