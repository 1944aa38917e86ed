package standards

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Placeholder is rendered wherever a time or grade has no value.
const Placeholder = "—"

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600

	// maxClockSeconds bounds parsed times, about 68 years.
	maxClockSeconds = math.MaxInt32
)

// ParseClock parses "mm:ss" or "h:mm:ss" into seconds. Only digits are
// accepted, seconds must be below 60 (minutes too when hours are given)
// and the total must be positive.
func ParseClock(s string) (float64, error) {
	return parseClock(s, false)
}

// parseClock is ParseClock with optional fractional seconds, which
// published tables use but user input does not.
func parseClock(s string, allowFraction bool) (float64, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	var values []float64
	for i, p := range parts {
		last := i == len(parts)-1
		if !validClockPart(p, i > 0, last && allowFraction) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		values = append(values, v)
	}

	var total float64
	if len(values) == 3 {
		if values[1] >= secondsPerMinute {
			return 0, fmt.Errorf("%w: minutes out of range in %q", ErrInvalidClock, s)
		}
		total = values[0]*secondsPerHour + values[1]*secondsPerMinute + values[2]
	} else {
		total = values[0]*secondsPerMinute + values[1]
	}
	if values[len(values)-1] >= secondsPerMinute {
		return 0, fmt.Errorf("%w: seconds out of range in %q", ErrInvalidClock, s)
	}
	if total <= 0 {
		return 0, fmt.Errorf("%w: %q is not positive", ErrInvalidClock, s)
	}
	if total > maxClockSeconds {
		return 0, fmt.Errorf("%w: %q is too long", ErrInvalidClock, s)
	}
	return total, nil
}

// validClockPart checks digits only; non-leading parts take exactly two
// integer digits and the last part may carry a fraction when allowed.
func validClockPart(p string, bounded, fraction bool) bool {
	whole, frac, hasFrac := strings.Cut(p, ".")
	if hasFrac && (!fraction || frac == "" || !allDigits(frac)) {
		return false
	}
	if whole == "" || !allDigits(whole) {
		return false
	}
	return !bounded || len(whole) == 2
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatClock renders seconds rounded to the whole second as m:ss below an
// hour and h:mm:ss otherwise.
func FormatClock(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 || seconds >= math.MaxInt64 {
		return Placeholder
	}
	total := int64(math.Round(seconds))
	h := total / secondsPerHour
	m := (total % secondsPerHour) / secondsPerMinute
	sec := total % secondsPerMinute
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

// FormatOptional renders seconds, or Placeholder when ok is false.
func FormatOptional(seconds float64, ok bool) string {
	if !ok {
		return Placeholder
	}
	return FormatClock(seconds)
}
