package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/agegrade/internal/domain/standards"
	"github.com/okian/agegrade/internal/domain/types"
)

// EditionDependencies defines the interface for browsing the standards.
type EditionDependencies interface {
	Editions(ctx context.Context) ([]standards.Edition, string, error)
	Events(ctx context.Context, edition string, sex standards.Sex) ([]string, error)
	Peaks(ctx context.Context, edition string, sex standards.Sex) ([]types.EventPeak, error)
}

// EditionsHandler handles edition listing requests.
type EditionsHandler struct {
	deps EditionDependencies
}

// NewEditionsHandler creates a new editions handler.
func NewEditionsHandler(deps EditionDependencies) *EditionsHandler {
	return &EditionsHandler{deps: deps}
}

type editionsResponse struct {
	DefaultEdition string              `json:"default_edition"`
	Editions       []standards.Edition `json:"editions"`
}

type eventsResponse struct {
	Edition string        `json:"edition"`
	Sex     standards.Sex `json:"sex"`
	Events  []string      `json:"events"`
}

type peaksResponse struct {
	Edition string            `json:"edition"`
	Sex     standards.Sex     `json:"sex"`
	Peaks   []types.EventPeak `json:"peaks"`
}

// HandleList handles GET /editions requests.
func (h *EditionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_editions"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	editions, def, err := h.deps.Editions(r.Context())
	if err != nil {
		writeLoadError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, editionsResponse{DefaultEdition: def, Editions: editions})
}

// HandleEdition handles GET /editions/{id}/events and GET /editions/{id}/peaks.
func (h *EditionsHandler) HandleEdition(w http.ResponseWriter, r *http.Request) {
	const op = "api.edition"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/editions/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	edition, view := parts[0], parts[1]

	sex, ok := parseSex(r.URL.Query().Get("sex"))
	if !ok {
		writeError(w, r, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch view {
	case "events":
		events, err := h.deps.Events(r.Context(), edition, sex)
		if err != nil {
			writeLoadError(w, r, op, err)
			return
		}
		writeJSON(w, http.StatusOK, eventsResponse{Edition: edition, Sex: sex, Events: events})
	case "peaks":
		peaks, err := h.deps.Peaks(r.Context(), edition, sex)
		if err != nil {
			writeLoadError(w, r, op, err)
			return
		}
		writeJSON(w, http.StatusOK, peaksResponse{Edition: edition, Sex: sex, Peaks: peaks})
	default:
		http.NotFound(w, r)
	}
}
