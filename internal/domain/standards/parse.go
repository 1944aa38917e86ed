package standards

import (
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Wrapper keys accepted at the top level of a standards file.
const (
	KeySeconds = "standards_seconds"
	KeyHMS     = "standards_hms"
	keyEvents  = "events"
)

// ParseTable normalizes either file variant into a Table. Without an
// "events" list the event order follows the wrapper object's key order.
func ParseTable(edition string, sex Sex, data []byte) (*Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed json", ErrInvalidTable)
	}
	root := gjson.ParseBytes(data)

	hms := false
	wrapper := root.Get(KeySeconds)
	if !wrapper.Exists() {
		wrapper = root.Get(KeyHMS)
		hms = true
	}
	if !wrapper.Exists() {
		return nil, fmt.Errorf("%w: neither %q nor %q present", ErrInvalidTable, KeySeconds, KeyHMS)
	}
	if !wrapper.IsObject() {
		return nil, fmt.Errorf("%w: wrapper is not an object", ErrInvalidTable)
	}

	var order []string
	table := make(map[string]map[int]float64)
	wrapper.ForEach(func(key, value gjson.Result) bool {
		event := key.String()
		order = append(order, event)
		ages := make(map[int]float64)
		if value.IsObject() {
			value.ForEach(func(k, v gjson.Result) bool {
				age, err := strconv.Atoi(strings.TrimSpace(k.String()))
				if err != nil {
					return true
				}
				if secs, ok := standardValue(v, hms); ok {
					ages[age] = secs
				}
				return true
			})
		}
		table[event] = ages
		return true
	})

	events := order
	if list := root.Get(keyEvents); list.IsArray() {
		events = nil
		for _, e := range list.Array() {
			events = append(events, e.String())
		}
	}

	return NewTable(edition, sex, events, table), nil
}

// standardValue reads one cell. Null or unreadable cells are absent.
func standardValue(v gjson.Result, hms bool) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Num, v.Num > 0
	case gjson.String:
		if hms {
			secs, err := parseClock(v.Str, true)
			return secs, err == nil
		}
		secs, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		return secs, err == nil && secs > 0
	default:
		return 0, false
	}
}

// Edition describes one published release of the standards.
type Edition struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Year     int    `json:"year"`
	BasePath string `json:"base_path"`
	Male     string `json:"male"`
	Female   string `json:"female"`
}

// File returns the path of the table file for sex.
func (e Edition) File(sex Sex) string {
	name := e.Male
	if sex == Female {
		name = e.Female
	}
	return path.Join(e.BasePath, name)
}

// Manifest lists the available editions.
type Manifest struct {
	DefaultEdition string    `json:"default_edition"`
	Editions       []Edition `json:"editions"`
}

// ParseManifest decodes and validates a manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if len(m.Editions) == 0 {
		return nil, fmt.Errorf("%w: no editions", ErrInvalidManifest)
	}

	ids := make(map[string]bool, len(m.Editions))
	for i := range m.Editions {
		e := &m.Editions[i]
		if e.ID == "" && e.Year > 0 {
			e.ID = strconv.Itoa(e.Year)
		}
		if e.ID == "" {
			return nil, fmt.Errorf("%w: edition %d has no id or year", ErrInvalidManifest, i)
		}
		if ids[e.ID] {
			return nil, fmt.Errorf("%w: duplicate edition %q", ErrInvalidManifest, e.ID)
		}
		ids[e.ID] = true
		if e.Male == "" || e.Female == "" {
			return nil, fmt.Errorf("%w: edition %q lacks a table file", ErrInvalidManifest, e.ID)
		}
		if e.Label == "" {
			e.Label = e.ID
		}
	}
	return &m, nil
}

// Edition returns the edition with id.
func (m *Manifest) Edition(id string) (Edition, bool) {
	for _, e := range m.Editions {
		if e.ID == id {
			return e, true
		}
	}
	return Edition{}, false
}

// Default returns the declared default edition, or the first one.
func (m *Manifest) Default() Edition {
	if e, ok := m.Edition(m.DefaultEdition); ok {
		return e
	}
	return m.Editions[0]
}
