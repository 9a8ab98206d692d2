package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Fetch engines. The static engine deep-crawls over plain HTTP; the browser
// engine renders pages in headless Chromium first.
const (
	EngineStatic  = "static"
	EngineBrowser = "browser"
)

// Config holds all run parameters. One instance is shared read-only across
// every extraction call; it is never mutated after startup.
type Config struct {
	MaxDepth        int    // link-following depth, 0 = start page only
	MaxPages        int    // page budget per crawl
	Engine          string // static or browser
	Headless        bool
	UseProxy        bool
	ProxyURL        string
	UserAgent       string
	Provider        string // model provider, "vendor/model"
	APIToken        string
	BaseURL         string // base-URL pattern for constructing league URLs
	Tier            int    // tier filter, 0 = all tiers
	SelectedLeagues []string
	OutputDir       string
	MaxRetries      int // total attempts per league
	RetryBackoff    time.Duration
	RetryBackoffMax time.Duration // 0 = uncapped
	RequestTimeout  time.Duration
	AttemptTimeout  time.Duration
	LeagueDelay     time.Duration
	ProvidersFile   string
	MetricsAddr     string
	Verbose         bool
}

// DefaultConfig returns the defaults the batch run uses: shallow focused
// crawls, three attempts per league, and a respectful pause between leagues.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:        1,
		MaxPages:        5,
		Engine:          EngineStatic,
		Headless:        true,
		UseProxy:        true,
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Provider:        "openai/gpt-4o",
		Tier:            1,
		OutputDir:       "output",
		MaxRetries:      3,
		RetryBackoff:    1 * time.Second,
		RetryBackoffMax: 30 * time.Second,
		RequestTimeout:  15 * time.Second,
		AttemptTimeout:  2 * time.Minute,
		LeagueDelay:     3 * time.Second,
		Verbose:         false,
	}
}

// ApplyEnv layers the environment configuration surface onto the config.
// Unset variables leave the current values untouched.
func (c *Config) ApplyEnv() error {
	if v, ok := EnvString("OPENAI_API_KEY"); ok {
		c.APIToken = v
	}
	if v, ok := EnvString("LLM_PROVIDER"); ok {
		c.Provider = v
	}
	if v, ok := EnvString("PROXY_URL"); ok {
		c.ProxyURL = v
	}
	if v, ok := EnvString("SPORTS_BASE_URL"); ok {
		c.BaseURL = v
	}
	if v, ok, err := EnvInt("LEAGUE_TIER"); err != nil {
		return fmt.Errorf("invalid LEAGUE_TIER: %w", err)
	} else if ok {
		c.Tier = v
	}
	if v, ok := EnvString("SELECTED_LEAGUES"); ok {
		c.SelectedLeagues = SplitCSV(v)
	}
	if v, ok := EnvString("LLM_PROVIDERS_FILE"); ok {
		c.ProvidersFile = v
	}
	if v, ok := EnvString("STANDINGS_METRICS_ADDR"); ok {
		c.MetricsAddr = v
	}
	return nil
}

// Validate ensures all configuration values are coherent. The API credential
// is not checked here: a missing credential is a run-time precondition
// reported by the batch, not a malformed configuration.
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth cannot be negative")
	}
	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
	}
	if c.Engine != EngineStatic && c.Engine != EngineBrowser {
		return fmt.Errorf("engine must be %s or %s", EngineStatic, EngineBrowser)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	if strings.TrimSpace(c.Provider) == "" {
		return fmt.Errorf("provider cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if c.Tier < 0 {
		return fmt.Errorf("tier cannot be negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax < 0 {
		return fmt.Errorf("retry backoff max cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry backoff (%s) cannot exceed retry backoff max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.AttemptTimeout < 0 {
		return fmt.Errorf("attempt timeout cannot be negative")
	}
	if c.LeagueDelay < 0 {
		return fmt.Errorf("league delay cannot be negative")
	}
	if c.BaseURL != "" {
		parsed, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		if parsed.Host == "" {
			return fmt.Errorf("base URL must include a host")
		}
	}
	if c.ProxyURL != "" {
		if _, err := url.Parse(c.ProxyURL); err != nil {
			return fmt.Errorf("invalid proxy URL: %w", err)
		}
	}
	return nil
}
