// Package gradecli implements the age-grade command line: one-shot queries
// from flags and an interactive mode that reads queries from stdin.
package gradecli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/agegrade/internal/domain/types"
)

// ErrBadLine reports an interactive line that is not "sex age event time".
var ErrBadLine = errors.New("expected: sex age event time")

// ParseLine reads an interactive query line. The event may contain spaces:
// everything between the age and the time is the event.
func ParseLine(line string) (types.Query, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return types.Query{}, ErrBadLine
	}
	age, err := strconv.Atoi(fields[1])
	if err != nil {
		return types.Query{}, fmt.Errorf("%w: age %q", ErrBadLine, fields[1])
	}
	return types.Query{
		Sex:   fields[0],
		Age:   age,
		Event: strings.Join(fields[2:len(fields)-1], " "),
		Time:  fields[len(fields)-1],
	}, nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseAges(s string) ([]int, error) {
	var ages []int
	for _, part := range splitList(s) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid age %q in -ages", part)
		}
		ages = append(ages, n)
	}
	return ages, nil
}

// Render writes res to w as JSON or as a short text report.
func Render(w io.Writer, res types.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	var b strings.Builder
	switch res.State {
	case types.StateOK, types.StateNoStandard:
		fmt.Fprintf(&b, "%s %d, %s in %s (edition %s)\n", res.Sex, res.Age, res.Event, res.Time, res.Edition)
		fmt.Fprintf(&b, "Age grade: %s  (standard %s)\n", res.PercentText, res.Standard)
		for _, p := range res.Projections {
			fmt.Fprintf(&b, "  %-15s %-6s %3d  %s\n", p.Target, p.Sex, p.Age, p.Time)
		}
	default:
		fmt.Fprintf(&b, "Age grade: %s  [%s]\n", res.PercentText, res.State)
	}
	for _, n := range res.Notes {
		fmt.Fprintf(&b, "Note: %s\n", n)
	}
	if len(res.UnknownTargets) > 0 {
		fmt.Fprintf(&b, "Ignored targets: %s\n", strings.Join(res.UnknownTargets, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// ShowHelp prints usage information.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `agegrade - age-graded running performance
========================================

Usage:
  agegrade -sex m -age 42 -event "10 km" -time 41:30 [options]
  agegrade -interactive [options] < queries.txt

Options:
  -edition string     Standards edition (default: manifest default)
  -sex string         m, male, f or female
  -age int            Runner age (clamped to the supported range)
  -event string       Event name (default: preferred event, else first)
  -time string        Finish time, mm:ss or h:mm:ss
  -targets string     Comma-separated: other_sex, peak, peak_other_sex, age_table, custom
  -custom-sex string  Sex for the custom target (default: runner's sex)
  -custom-age int     Age for the custom target (default: runner's age)
  -ages string        Comma-separated ages for the age_table target
  -data-dir string    Read standards from a directory instead of the bundled set
  -data-url string    Read standards from a base URL instead of the bundled set
  -locale string      Locale used to format percentages (default "en")
  -json               Print JSON instead of text
  -interactive        Read "sex age event time" lines from stdin; only the
                      latest result of a burst is printed
  -help               Show this help message

Configuration is also read from AGEGRADE_CONFIG and AGEGRADE_* variables;
flags win.
`)
}
