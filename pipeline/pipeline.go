package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ligawatch/go-scrape-standings/config"
	"github.com/ligawatch/go-scrape-standings/leagues"
	"github.com/ligawatch/go-scrape-standings/models"
	"github.com/ligawatch/go-scrape-standings/scraper"
)

// LeagueScraper runs the full fetch, extract, validate, persist cycle for a
// single league.
type LeagueScraper interface {
	ScrapeLeague(ctx context.Context, def leagues.Definition, url string) (*scraper.Result, error)
}

// Runner drives the scraper across the league catalog. Leagues run one at a
// time in catalog order, with a fixed delay pacing consecutive scrapes.
type Runner struct {
	cfg      *config.Config
	catalog  []leagues.Definition
	resolver *leagues.Resolver
	scraper  LeagueScraper
	metrics  *scraper.Metrics

	// sleep waits between leagues. Tests substitute a recorder.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner wires a batch runner. metrics may be nil.
func NewRunner(cfg *config.Config, catalog []leagues.Definition, resolver *leagues.Resolver, s LeagueScraper, m *scraper.Metrics) *Runner {
	return &Runner{
		cfg:      cfg,
		catalog:  catalog,
		resolver: resolver,
		scraper:  s,
		metrics:  m,
		sleep:    ctxSleep,
	}
}

// Run processes every league selected by the tier filter and allow-list and
// returns a summary of the batch. A missing credential aborts before any
// network activity. Cancellation stops the batch between leagues and returns
// the partial summary alongside the context error; artifacts already written
// stay on disk.
func (r *Runner) Run(ctx context.Context) (*models.RunSummary, error) {
	if strings.TrimSpace(r.cfg.APIToken) == "" {
		return nil, scraper.ErrMissingCredential
	}

	defs := leagues.FilterNames(leagues.FilterTier(r.catalog, r.cfg.Tier), r.cfg.SelectedLeagues)
	summary := &models.RunSummary{
		StartTime:    time.Now(),
		ErrorsByType: make(map[string]int),
	}

	slog.Info("starting batch run",
		"leagues", len(defs),
		"tier", r.cfg.Tier,
		"engine", r.cfg.Engine,
		"provider", r.cfg.Provider)

	for i, def := range defs {
		if err := ctx.Err(); err != nil {
			summary.EndTime = time.Now()
			return summary, err
		}

		r.record(summary, r.runLeague(ctx, def))

		if err := ctx.Err(); err != nil {
			summary.EndTime = time.Now()
			return summary, err
		}
		if i < len(defs)-1 && r.cfg.LeagueDelay > 0 {
			slog.Debug("pacing before next league", "delay", r.cfg.LeagueDelay)
			if err := r.sleep(ctx, r.cfg.LeagueDelay); err != nil {
				summary.EndTime = time.Now()
				return summary, err
			}
		}
	}

	summary.EndTime = time.Now()
	slog.Info("batch run finished",
		"total", summary.Total(),
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"unconfigured", summary.Unconfigured,
		"duration", summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond))
	return summary, nil
}

func (r *Runner) runLeague(ctx context.Context, def leagues.Definition) models.LeagueOutcome {
	outcome := models.LeagueOutcome{
		Key:     def.Key,
		Name:    def.Name,
		Country: def.Country,
		Tier:    def.Tier,
	}

	url, err := r.resolver.Resolve(def)
	if err != nil {
		var unresolved *leagues.UnresolvedError
		if errors.As(err, &unresolved) {
			slog.Warn("league has no url, skipping", "league", def.Name, "env_var", unresolved.EnvVar)
			outcome.Status = models.StatusUnconfigured
			outcome.Err = err
			return outcome
		}
		outcome.Status = models.StatusFailed
		outcome.Err = err
		return outcome
	}
	outcome.URL = url

	slog.Info("scraping league", "league", def.Name, "country", def.Country, "tier", def.Tier, "url", url)

	res, err := r.scraper.ScrapeLeague(ctx, def, url)
	if res != nil {
		outcome.Attempts = res.Attempts
		outcome.ArtifactPath = res.ArtifactPath
		if res.Data != nil {
			outcome.Teams = res.Data.TeamCount()
		}
	}
	if err != nil {
		outcome.Status = models.StatusFailed
		outcome.Err = err
		slog.Error("league failed", "league", def.Name, "attempts", outcome.Attempts, "error", err)
		return outcome
	}

	outcome.Status = models.StatusSucceeded
	return outcome
}

func (r *Runner) record(summary *models.RunSummary, outcome models.LeagueOutcome) {
	summary.Outcomes = append(summary.Outcomes, outcome)
	summary.AttemptCount += outcome.Attempts
	if outcome.Attempts > 1 {
		summary.RetryCount += outcome.Attempts - 1
	}

	switch outcome.Status {
	case models.StatusSucceeded:
		summary.Succeeded++
	case models.StatusUnconfigured:
		summary.Unconfigured++
	default:
		summary.Failed++
		summary.ErrorsByType[scraper.ErrorTypeLabel(outcome.Err)]++
	}
	r.metrics.IncLeague(string(outcome.Status))
}

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
