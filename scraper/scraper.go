package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ligawatch/go-scrape-standings/config"
	"github.com/ligawatch/go-scrape-standings/crawler"
	"github.com/ligawatch/go-scrape-standings/leagues"
	"github.com/ligawatch/go-scrape-standings/models"
	"github.com/ligawatch/go-scrape-standings/schema"
)

// Extractor turns distilled page text into a raw standings payload.
type Extractor interface {
	Extract(ctx context.Context, league, content string) (map[string]any, error)
}

// ArtifactStore persists extracted tables and raw debug payloads.
type ArtifactStore interface {
	WriteTable(data *models.LeagueTableData, leagueName string) (string, error)
	WriteDebug(payload map[string]any) (string, error)
}

// Scraper runs the fetch, extract, validate, persist cycle for one league at
// a time under a fixed attempt budget.
type Scraper struct {
	cfg     *config.Config
	fetcher crawler.Fetcher
	llm     Extractor
	store   ArtifactStore
	metrics *Metrics

	// sleep pauses between failed attempts. Tests substitute a recorder.
	sleep func(ctx context.Context, d time.Duration) error
}

// Result reports what a league scrape produced. Attempts is set even when
// the scrape failed.
type Result struct {
	Data         *models.LeagueTableData
	ArtifactPath string
	Attempts     int
}

// NewScraper wires a scraper from its collaborators. metrics may be nil.
func NewScraper(cfg *config.Config, fetcher crawler.Fetcher, extractor Extractor, store ArtifactStore, metrics *Metrics) *Scraper {
	return &Scraper{
		cfg:     cfg,
		fetcher: fetcher,
		llm:     extractor,
		store:   store,
		metrics: metrics,
		sleep:   ctxSleep,
	}
}

// ScrapeLeague fetches and extracts the standings for one league. Every
// failed attempt except the last is followed by an exponential backoff wait.
// When the budget runs out the last attempt's error is wrapped in an
// ExhaustedError.
func (s *Scraper) ScrapeLeague(ctx context.Context, def leagues.Definition, url string) (*Result, error) {
	res := &Result{}
	if s.cfg.MaxRetries <= 0 {
		return res, ExhaustedError{League: def.Name, Attempts: 0}
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Attempts = attempt

		slog.Debug("starting attempt",
			slog.String("league", def.Name),
			slog.Int("attempt", attempt),
			slog.Int("budget", s.cfg.MaxRetries),
		)

		start := time.Now()
		s.metrics.IncAttempt()
		data, path, err := s.attempt(ctx, def, url)
		s.metrics.ObserveAttempt(time.Since(start))

		if err == nil {
			res.Data = data
			res.ArtifactPath = path
			s.metrics.AddTeams(data.TeamCount())
			slog.Info("extracted league table",
				slog.String("league", data.League),
				slog.Int("teams", data.TeamCount()),
				slog.Int("attempt", attempt),
				slog.String("path", path),
			)
			if top := data.TopTeam(); top != nil {
				slog.Info("league leader",
					slog.String("league", data.League),
					slog.String("team", top.TeamName),
					slog.Int("points", top.Points),
				)
			}
			return res, nil
		}

		lastErr = err
		s.metrics.IncError(ErrorTypeLabel(err))
		slog.Warn("attempt failed",
			slog.String("league", def.Name),
			slog.Int("attempt", attempt),
			slog.Int("budget", s.cfg.MaxRetries),
			slog.Any("error", err),
		)

		if attempt < s.cfg.MaxRetries {
			delay := s.backoff(attempt)
			slog.Debug("waiting before retry",
				slog.String("league", def.Name),
				slog.Duration("delay", delay),
			)
			s.metrics.IncRetries()
			if err := s.sleep(ctx, delay); err != nil {
				return res, err
			}
		}
	}

	return res, ExhaustedError{League: def.Name, Attempts: s.cfg.MaxRetries, LastErr: lastErr}
}

// attempt runs one full fetch, extract, validate, persist cycle.
func (s *Scraper) attempt(ctx context.Context, def leagues.Definition, url string) (*models.LeagueTableData, string, error) {
	if s.cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.AttemptTimeout)
		defer cancel()
	}

	content, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, "", FetchError{URL: url, Err: err}
	}
	text := content.Combined()
	if strings.TrimSpace(text) == "" {
		return nil, "", fmt.Errorf("no text content at %s: %w", url, ErrNoData)
	}

	payload, err := s.llm.Extract(ctx, def.Name, text)
	if err != nil {
		return nil, "", err
	}
	if len(payload) == 0 {
		return nil, "", ErrNoData
	}

	data, err := schema.Decode(payload)
	if err != nil {
		var invalid *schema.ValidationError
		if errors.As(err, &invalid) {
			s.dumpRejectedPayload(payload, def)
		}
		return nil, "", err
	}

	path, err := s.store.WriteTable(data, def.Name)
	if err != nil {
		return nil, "", fmt.Errorf("persist table: %w", err)
	}
	return data, path, nil
}

// dumpRejectedPayload saves the raw payload that failed validation so the
// schema drift can be inspected later.
func (s *Scraper) dumpRejectedPayload(payload map[string]any, def leagues.Definition) {
	path, err := s.store.WriteDebug(payload)
	if err != nil {
		slog.Warn("failed to save rejected payload",
			slog.String("league", def.Name),
			slog.Any("error", err),
		)
		return
	}
	slog.Warn("payload failed validation, raw copy saved",
		slog.String("league", def.Name),
		slog.String("path", path),
	)
}

func (s *Scraper) backoff(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}

	base := s.cfg.RetryBackoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	delay := base * time.Duration(1<<(attempt-1))
	if max := s.cfg.RetryBackoffMax; max > 0 && delay > max {
		delay = max
	}
	return delay
}

// ctxSleep waits for d or until ctx is cancelled.
func ctxSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
