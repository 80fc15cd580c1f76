package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	apperrors "github.com/yanqian/ziwei-api/pkg/errors"
	"github.com/yanqian/ziwei-api/pkg/metrics"
)

// Service exposes birth chart computation.
type Service interface {
	Compute(ctx context.Context, req Request) (Response, error)
}

// Engine is the external chart-computation sidecar. It is treated as a pure
// function: same input, same chart, no side effects.
type Engine interface {
	Compute(ctx context.Context, in NormalizedInput, locale string) (json.RawMessage, error)
}

type service struct {
	cfg    Config
	engine Engine
	store  Store
	stats  *metrics.Counters
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the chart domain.
func NewService(cfg Config, engine Engine, store Store, stats *metrics.Counters, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		engine: engine,
		store:  store,
		stats:  stats,
		logger: logger.With("component", "chart.service"),
		now:    time.Now,
	}
}

func (s *service) Compute(ctx context.Context, req Request) (Response, error) {
	v, err := validateRequest(req, s.cfg.TimeForm)
	if err != nil {
		return Response{}, err
	}

	nt, err := normalizeTime(req, s.cfg.TimeForm, s.cfg.LateSlotPolicy)
	if err != nil {
		return Response{}, err
	}

	in := NormalizedInput{
		Date:        v.Date,
		HourOfDay:   nt.HourOfDay,
		Gender:      v.Gender,
		Calendar:    v.Calendar,
		IsLeapMonth: v.IsLeapMonth,
		FixLeap:     v.FixLeap,
	}
	if v.Calendar == CalendarSolar {
		// Gregorian day math only holds for solar dates. Lunar months run 29
		// or 30 days, so for lunar requests the raw date is kept and the
		// engine applies the rollover in lunar space.
		date, err := applyDayOffset(v.Date, nt.DayOffset)
		if err != nil {
			return Response{}, err
		}
		in.Date = date
	} else {
		in.DayOffset = nt.DayOffset
	}

	// Keyed on the raw request date, not the rolled-over one, so identical
	// raw requests always share a key.
	key := cacheKey(v, nt)

	if rec, ok := s.lookup(ctx, key); ok {
		s.stats.Hit()
		s.logger.Debug("chart cache hit", "key", key)
		return successResponse(rec), nil
	}
	s.stats.Miss()

	s.stats.EngineCall()
	raw, err := s.engine.Compute(ctx, in, s.cfg.Locale)
	if err != nil {
		return Response{}, s.classifyEngineError(err, in)
	}

	rec := Record{
		Chart:      normalizeChart(raw),
		ViewerURL:  buildViewerURL(s.cfg.ViewerBaseURL, v.Date, nt.HourOfDay, v.Gender),
		ComputedAt: s.now(),
	}

	if err := s.store.Save(ctx, key, rec, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("chart cache save failed", "key", key, "error", err)
	}

	return successResponse(rec), nil
}

// lookup degrades store failures to cache misses so a broken cache backend
// never blocks computation.
func (s *service) lookup(ctx context.Context, key string) (Record, bool) {
	rec, ok, err := s.store.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn("chart cache lookup failed", "key", key, "error", err)
		return Record{}, false
	}
	return rec, ok
}

func successResponse(rec Record) Response {
	return Response{
		Status:    "success",
		Data:      rec.Chart,
		ViewerURL: rec.ViewerURL,
	}
}

func cacheKey(v validated, nt normalizedTime) string {
	return fmt.Sprintf("%s|%s|h%02d+%d|%s|leap=%t|fix=%t",
		v.Calendar, v.Date, nt.HourOfDay, nt.DayOffset, v.Gender, v.IsLeapMonth, v.FixLeap)
}

var (
	wrongHourPattern = regexp.MustCompile(`(?i)^\s*wrong hour`)
	wrongDatePattern = regexp.MustCompile(`(?i)date|month|day|year|invalid`)
)

// classifyEngineError folds the engine's free-form error text into the error
// taxonomy. The raw text stays attached as the wrapped cause, never as the
// primary message.
func (s *service) classifyEngineError(err error, in NormalizedInput) error {
	msg := err.Error()
	switch {
	case wrongHourPattern.MatchString(msg):
		return apperrors.Wrap(CodeHourInvalid,
			fmt.Sprintf("engine rejected hour %d, expected 0-23", in.HourOfDay), err)
	case wrongDatePattern.MatchString(msg):
		return apperrors.Wrap(CodeDateInvalid,
			fmt.Sprintf("engine rejected birth date %s", in.Date), err)
	default:
		s.logger.Error("chart computation failed", "date", in.Date, "hour", in.HourOfDay, "error", err)
		return apperrors.Wrap(CodeInternal, "chart computation failed", err)
	}
}
