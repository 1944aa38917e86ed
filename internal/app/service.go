// Package service answers age-grade queries over the standards cache. It
// implements the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/agegrade/internal/adapters/repository"
	"github.com/okian/agegrade/internal/domain/agegrade"
	"github.com/okian/agegrade/internal/domain/standards"
	"github.com/okian/agegrade/internal/domain/types"
	"github.com/okian/agegrade/pkg/logger"
	"github.com/okian/agegrade/pkg/metrics"
)

// User-facing notes.
const (
	noteMissingSex      = "Choose a sex (male or female)."
	noteMissingAge      = "Enter an age."
	noteInvalidTime     = "Enter a finish time as mm:ss or h:mm:ss."
	noteDataUnavailable = "Couldn't load the standards data. Refresh to try again."
	noteNoStandard      = "No standard is published for this event at this age."
	noteAgeClamped      = "Age was adjusted to the supported range."
	noteMissingTarget   = "Some comparisons have no published standard and are shown as —."
)

// Default service configuration.
const (
	defaultMinAge = 5
	defaultMaxAge = 110
	defaultEvent  = "5 km"
	defaultLocale = "en"
)

var defaultAgeTable = []int{20, 30, 40, 50, 60, 70, 80}

// Service implements the query interface over a standards store.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	// Configuration
	minAge         int
	maxAge         int
	defaultEvent   string
	defaultEdition string
	ageTable       []int
	locale         string
	printer        *message.Printer
	warm           bool

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAgeRange sets the range ages are clamped to.
func WithAgeRange(minAge, maxAge int) Option {
	return func(s *Service) {
		if minAge > 0 && maxAge >= minAge {
			s.minAge = minAge
			s.maxAge = maxAge
		}
	}
}

// WithDefaultEvent sets the event preferred when a query names none.
func WithDefaultEvent(event string) Option {
	return func(s *Service) {
		s.defaultEvent = event
	}
}

// WithDefaultEdition overrides the manifest's default edition.
func WithDefaultEdition(edition string) Option {
	return func(s *Service) {
		s.defaultEdition = edition
	}
}

// WithAgeTable sets the ages listed by the age_table target when a query
// names none.
func WithAgeTable(ages []int) Option {
	return func(s *Service) {
		if len(ages) > 0 {
			s.ageTable = slices.Clone(ages)
		}
	}
}

// WithLocale sets the language used to format percentages.
func WithLocale(locale string) Option {
	return func(s *Service) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithWarmup makes Start preload every table.
func WithWarmup(warm bool) Option {
	return func(s *Service) {
		s.warm = warm
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:        store,
		minAge:       defaultMinAge,
		maxAge:       defaultMaxAge,
		defaultEvent: defaultEvent,
		ageTable:     slices.Clone(defaultAgeTable),
		locale:       defaultLocale,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}

	tag, err := language.Parse(s.locale)
	if err != nil {
		tag = language.English
	}
	s.printer = message.NewPrinter(tag)

	return s
}

// Start marks the service as running, preloading the cache when configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.warm {
		if w, ok := s.store.(interface{ Warm(context.Context) error }); ok {
			if err := w.Warm(ctx); err != nil {
				return fmt.Errorf("warm standards cache: %w", err)
			}
		}
	}

	s.started = true
	s.logger.Info(ctx, "age-grade service started",
		logger.Int("minAge", s.minAge),
		logger.Int("maxAge", s.maxAge),
		logger.String("locale", s.locale),
		logger.Bool("warm", s.warm),
	)
	return nil
}

// Stop marks the service as stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "age-grade service stopped")
}

// Compute runs one query through its stages. Failures never surface as
// errors: they are reported through the result state.
func (s *Service) Compute(ctx context.Context, q types.Query) types.Result {
	start := time.Now()
	res := s.compute(ctx, q)

	metrics.RecordQuery(string(res.State))
	metrics.RecordComputeLatency(float64(time.Since(start).Microseconds()) / 1000)
	return res
}

func (s *Service) compute(ctx context.Context, q types.Query) types.Result {
	res := types.Result{
		State:       types.StateInvalidInput,
		PercentText: standards.Placeholder,
		Standard:    standards.Placeholder,
	}

	// Stage 1: inputs.
	sex, ok := standards.ParseSex(q.Sex)
	if !ok {
		res.AddNote(noteMissingSex)
	}
	if q.Age <= 0 {
		res.AddNote(noteMissingAge)
	}
	secs, err := standards.ParseClock(q.Time)
	if err != nil {
		res.AddNote(noteInvalidTime)
	}
	if len(res.Notes) > 0 {
		return res
	}

	age := agegrade.ClampAge(q.Age, s.minAge, s.maxAge)
	if age != q.Age {
		res.AddNote(noteAgeClamped)
	}
	targets, unknown := agegrade.ParseTargets(q.Targets)
	res.Sex = sex
	res.Age = age
	res.TimeSeconds = secs
	res.Time = standards.FormatClock(secs)
	res.UnknownTargets = unknown

	// Stage 2: edition and table.
	edition, table, err := s.resolve(ctx, q.Edition, sex)
	if err != nil {
		return s.unavailable(ctx, res, err)
	}
	res.Edition = edition
	res.Event = s.pickEvent(table, q.Event)

	// Stage 3 and 4: own standard and performance factor.
	grade, ok := agegrade.ComputeAgeGrade(table, res.Event, age, secs)
	if !ok {
		res.State = types.StateNoStandard
		res.AddNote(noteNoStandard)
		return res
	}
	res.Percent = grade.Percent
	res.PercentText = s.printer.Sprintf("%.2f%%", grade.Percent)
	res.Factor = grade.Factor
	res.StandardSeconds = grade.Standard
	res.Standard = standards.FormatClock(grade.Standard)

	// Stage 5: projections.
	req := agegrade.Request{
		Targets:   targets,
		Sex:       sex,
		Age:       age,
		Ages:      s.ages(q.Ages),
		CustomSex: sex,
		CustomAge: age,
	}
	if cs, ok := standards.ParseSex(q.CustomSex); ok {
		req.CustomSex = cs
	}
	if q.CustomAge > 0 {
		req.CustomAge = agegrade.ClampAge(q.CustomAge, s.minAge, s.maxAge)
	}

	projector, err := s.projector(ctx, edition, table, req, res.Event, grade.Factor)
	if err != nil {
		return s.unavailable(ctx, res, err)
	}

	missing := false
	for _, p := range projector.Project(req) {
		res.Projections = append(res.Projections, types.Projection{
			Target:  p.Target,
			Sex:     p.Sex,
			Age:     p.Age,
			Seconds: p.Seconds,
			Time:    standards.FormatOptional(p.Seconds, p.Found),
			Found:   p.Found,
		})
		missing = missing || !p.Found
	}
	if missing {
		res.AddNote(noteMissingTarget)
	}

	res.State = types.StateOK
	return res
}

func (s *Service) unavailable(ctx context.Context, res types.Result, err error) types.Result {
	s.logger.Warn(ctx, "standards data unavailable", logger.Error(err))
	metrics.RecordErrorByComponent("service", "data_unavailable")

	out := types.Result{
		State:          types.StateDataUnavailable,
		Sex:            res.Sex,
		Age:            res.Age,
		TimeSeconds:    res.TimeSeconds,
		Time:           res.Time,
		PercentText:    standards.Placeholder,
		Standard:       standards.Placeholder,
		UnknownTargets: res.UnknownTargets,
	}
	out.AddNote(noteDataUnavailable)
	return out
}

// resolve picks the edition and loads the runner's table.
func (s *Service) resolve(ctx context.Context, editionID string, sex standards.Sex) (string, *standards.Table, error) {
	id, err := s.editionID(ctx, editionID)
	if err != nil {
		return "", nil, err
	}
	table, err := s.store.Table(ctx, id, sex)
	if err != nil {
		return "", nil, err
	}
	return id, table, nil
}

// editionID returns id when non-empty, otherwise the configured default if
// the manifest lists it, otherwise the manifest's default.
func (s *Service) editionID(ctx context.Context, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	m, err := s.store.Manifest(ctx)
	if err != nil {
		return "", err
	}
	if e, ok := m.Edition(s.defaultEdition); ok {
		return e.ID, nil
	}
	return m.Default().ID, nil
}

func (s *Service) pickEvent(table *standards.Table, event string) string {
	if event != "" {
		return event
	}
	if table.HasEvent(s.defaultEvent) {
		return s.defaultEvent
	}
	if events := table.Events(); len(events) > 0 {
		return events[0]
	}
	return ""
}

func (s *Service) ages(requested []int) []int {
	if len(requested) == 0 {
		return s.ageTable
	}
	out := make([]int, 0, len(requested))
	for _, a := range requested {
		if a <= 0 {
			continue
		}
		out = append(out, agegrade.ClampAge(a, s.minAge, s.maxAge))
	}
	return out
}

// projector loads only the tables and peak tables the request needs.
func (s *Service) projector(ctx context.Context, edition string, own *standards.Table, req agegrade.Request, event string, factor float64) (agegrade.Projector, error) {
	p := agegrade.Projector{
		Tables: map[standards.Sex]*standards.Table{req.Sex: own},
		Peaks:  make(map[standards.Sex]agegrade.PeakTable),
		Event:  event,
		Factor: factor,
	}

	needTable := func(sex standards.Sex) error {
		if _, ok := p.Tables[sex]; ok {
			return nil
		}
		t, err := s.store.Table(ctx, edition, sex)
		if err != nil {
			return err
		}
		p.Tables[sex] = t
		return nil
	}
	needPeaks := func(sex standards.Sex) error {
		if _, ok := p.Peaks[sex]; ok {
			return nil
		}
		pt, err := s.store.Peaks(ctx, edition, sex)
		if err != nil {
			return err
		}
		p.Peaks[sex] = pt
		return nil
	}

	for _, t := range req.Targets {
		var err error
		switch t {
		case agegrade.TargetOtherSex:
			err = needTable(req.Sex.Other())
		case agegrade.TargetPeak:
			err = needPeaks(req.Sex)
		case agegrade.TargetPeakOtherSex:
			err = needPeaks(req.Sex.Other())
		case agegrade.TargetCustom:
			err = needTable(req.CustomSex)
		}
		if err != nil {
			return agegrade.Projector{}, err
		}
	}
	return p, nil
}

// Editions lists the manifest editions.
func (s *Service) Editions(ctx context.Context) ([]standards.Edition, string, error) {
	m, err := s.store.Manifest(ctx)
	if err != nil {
		return nil, "", err
	}
	def, err := s.editionID(ctx, "")
	if err != nil {
		return nil, "", err
	}
	return m.Editions, def, nil
}

// Events lists the events of an edition for sex in table order.
func (s *Service) Events(ctx context.Context, editionID string, sex standards.Sex) ([]string, error) {
	id, err := s.editionID(ctx, editionID)
	if err != nil {
		return nil, err
	}
	t, err := s.store.Table(ctx, id, sex)
	if err != nil {
		return nil, err
	}
	return t.Events(), nil
}

// Peaks lists the peak standard of every event that has one, in table order.
func (s *Service) Peaks(ctx context.Context, editionID string, sex standards.Sex) ([]types.EventPeak, error) {
	id, err := s.editionID(ctx, editionID)
	if err != nil {
		return nil, err
	}
	t, err := s.store.Table(ctx, id, sex)
	if err != nil {
		return nil, err
	}
	peaks, err := s.store.Peaks(ctx, id, sex)
	if err != nil {
		return nil, err
	}

	out := make([]types.EventPeak, 0, len(peaks))
	for _, event := range t.Events() {
		pk, ok := peaks.Lookup(event)
		if !ok {
			continue
		}
		out = append(out, types.EventPeak{
			Event:   event,
			Seconds: pk.Seconds,
			Time:    standards.FormatClock(pk.Seconds),
			Age:     pk.Age,
		})
	}
	return out, nil
}

// IsNotFound reports whether err means the requested edition does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrUnknownEdition)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started": s.started,
		"minAge":  s.minAge,
		"maxAge":  s.maxAge,
		"locale":  s.locale,
	}
	if c, ok := s.store.(interface{ Stats() repository.Stats }); ok {
		stats["cache"] = c.Stats()
	}
	return stats
}
