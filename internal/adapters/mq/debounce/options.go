package debounce

import (
	"time"

	"github.com/okian/agegrade/pkg/logger"
)

// Option applies a configuration option to a Debouncer.
type Option func(*settings)

type settings struct {
	delay  time.Duration
	name   string
	logger logger.Logger
}

// WithDelay sets the quiet period before a submitted request runs. Zero
// runs every request on the next timer tick.
func WithDelay(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithName sets the debouncer name for identification and logging.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger sets a custom logger for the debouncer.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
