package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ligawatch/go-scrape-standings/config"
	"github.com/ligawatch/go-scrape-standings/crawler"
	"github.com/ligawatch/go-scrape-standings/leagues"
	"github.com/ligawatch/go-scrape-standings/llm"
	"github.com/ligawatch/go-scrape-standings/models"
	"github.com/ligawatch/go-scrape-standings/pipeline"
	"github.com/ligawatch/go-scrape-standings/scraper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Environment values seed the flag defaults, so explicit flags win.
	cfg := config.DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	maxDepth := flag.Int("depth", cfg.MaxDepth, "Link-following depth (0 = start page only)")
	maxPages := flag.Int("pages", cfg.MaxPages, "Maximum pages to crawl per league")
	engine := flag.String("engine", cfg.Engine, "Fetch engine: static or browser")
	headless := flag.Bool("headless", cfg.Headless, "Run the browser engine headless")
	useProxy := flag.Bool("use-proxy", cfg.UseProxy, "Route fetches through the configured proxy")
	proxyURL := flag.String("proxy", cfg.ProxyURL, "Proxy URL (also PROXY_URL)")
	userAgent := flag.String("user-agent", cfg.UserAgent, "User-Agent header for static fetches")
	provider := flag.String("provider", cfg.Provider, `Model provider as "vendor/model" (also LLM_PROVIDER)`)
	baseURL := flag.String("base-url", cfg.BaseURL, "Base URL pattern for league pages (also SPORTS_BASE_URL)")
	tier := flag.Int("tier", cfg.Tier, "League tier filter, 0 = all tiers (also LEAGUE_TIER)")
	leagueList := flag.String("leagues", strings.Join(cfg.SelectedLeagues, ","), "Comma-separated league allow-list (also SELECTED_LEAGUES)")
	maxRetries := flag.Int("retries", cfg.MaxRetries, "Total attempts per league")
	retryBackoff := flag.Duration("retry-backoff", cfg.RetryBackoff, "Initial retry backoff")
	retryBackoffMax := flag.Duration("retry-backoff-max", cfg.RetryBackoffMax, "Maximum retry backoff (0 = uncapped)")
	requestTimeout := flag.Duration("request-timeout", cfg.RequestTimeout, "Per-request fetch timeout")
	attemptTimeout := flag.Duration("attempt-timeout", cfg.AttemptTimeout, "Per-attempt budget including the model call (0 = none)")
	leagueDelay := flag.Duration("league-delay", cfg.LeagueDelay, "Pause between consecutive leagues")
	outputDir := flag.String("output-dir", cfg.OutputDir, "Directory for table and debug artifacts")
	providersFile := flag.String("providers", cfg.ProvidersFile, "YAML file overriding the built-in provider registry")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", cfg.Verbose, "Enable verbose logging")
	checkConfig := flag.Bool("check-config", false, "Report the resolved configuration and exit")
	envTemplate := flag.Bool("env-template", false, "Print a .env template to stdout and exit")

	flag.Parse()

	cfg.MaxDepth = *maxDepth
	cfg.MaxPages = *maxPages
	cfg.Engine = strings.ToLower(*engine)
	cfg.Headless = *headless
	cfg.UseProxy = *useProxy
	cfg.ProxyURL = *proxyURL
	cfg.UserAgent = *userAgent
	cfg.Provider = *provider
	cfg.BaseURL = *baseURL
	cfg.Tier = *tier
	cfg.SelectedLeagues = config.SplitCSV(*leagueList)
	cfg.MaxRetries = *maxRetries
	cfg.RetryBackoff = *retryBackoff
	cfg.RetryBackoffMax = *retryBackoffMax
	cfg.RequestTimeout = *requestTimeout
	cfg.AttemptTimeout = *attemptTimeout
	cfg.LeagueDelay = *leagueDelay
	cfg.OutputDir = *outputDir
	cfg.ProvidersFile = *providersFile
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose

	if *envTemplate {
		printEnvTemplate(os.Stdout)
		return
	}

	logger, level := newLogger(cfg.Verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	registry, err := config.LoadProviders(cfg.ProvidersFile)
	if err != nil {
		slog.Error("loading provider registry", slog.Any("error", err))
		os.Exit(1)
	}
	prov, model, err := registry.Resolve(cfg.Provider)
	if err != nil {
		slog.Error("resolving model provider", slog.Any("error", err))
		os.Exit(1)
	}

	if *checkConfig {
		if !printDoctor(os.Stdout, cfg, prov, model) {
			os.Exit(1)
		}
		return
	}

	store, err := pipeline.NewArtifacts(cfg.OutputDir)
	if err != nil {
		slog.Error("preparing output directory", slog.Any("error", err))
		os.Exit(1)
	}
	fetcher, err := crawler.NewFetcher(cfg)
	if err != nil {
		slog.Error("initialising fetcher", slog.Any("error", err))
		os.Exit(1)
	}
	resolver, err := leagues.NewResolver(cfg.BaseURL, nil)
	if err != nil {
		slog.Error("initialising url resolver", slog.Any("error", err))
		os.Exit(1)
	}

	extractor := llm.NewClient(prov.BaseURL, cfg.APIToken, model, cfg.AttemptTimeout)
	metrics := scraper.NewMetrics()
	s := scraper.NewScraper(cfg, fetcher, extractor, store, metrics)
	runner := pipeline.NewRunner(cfg, leagues.Catalog(), resolver, s, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, finishing current league")
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	summary, err := runner.Run(ctx)

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	if err != nil {
		if errors.Is(err, scraper.ErrMissingCredential) {
			slog.Error("OPENAI_API_KEY is not set, no extraction can run (use -env-template to bootstrap a .env file)")
			os.Exit(1)
		}
		if summary != nil {
			printSummary(summary)
		}
		slog.Error("batch aborted", slog.Any("error", err))
		os.Exit(1)
	}

	printSummary(summary)

	if summary.Succeeded == 0 && summary.Failed > 0 {
		os.Exit(1)
	}
}

func printSummary(summary *models.RunSummary) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Batch run complete")
	fmt.Println(separator)

	for _, group := range summary.TierGroups() {
		fmt.Printf("Tier %d:\n", group.Tier)
		for _, o := range group.Outcomes {
			switch o.Status {
			case models.StatusSucceeded:
				fmt.Printf("  ok    %-32s %2d teams  %s\n", o.Name, o.Teams, o.ArtifactPath)
			case models.StatusUnconfigured:
				fmt.Printf("  skip  %-32s unconfigured\n", o.Name)
			default:
				fmt.Printf("  FAIL  %-32s after %d attempts: %v\n", o.Name, o.Attempts, o.Err)
			}
		}
	}

	fmt.Println(separator)
	fmt.Printf("  Leagues:       %d\n", summary.Total())
	fmt.Printf("  Succeeded:     %d\n", summary.Succeeded)
	fmt.Printf("  Failed:        %d\n", summary.Failed)
	fmt.Printf("  Unconfigured:  %d\n", summary.Unconfigured)
	fmt.Printf("  Success rate:  %.2f%%\n", summary.SuccessRate())
	fmt.Printf("  Attempts:      %d\n", summary.AttemptCount)
	fmt.Printf("  Retries:       %d\n", summary.RetryCount)
	if len(summary.ErrorsByType) > 0 {
		fmt.Printf("  Error types:   %v\n", summary.ErrorsByType)
	}
	fmt.Printf("  Duration:      %v\n", summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond))
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
