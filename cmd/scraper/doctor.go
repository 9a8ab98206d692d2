package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/ligawatch/go-scrape-standings/config"
	"github.com/ligawatch/go-scrape-standings/leagues"
)

// printDoctor reports the resolved configuration with credentials masked and
// returns whether a batch run could proceed with it.
func printDoctor(w io.Writer, cfg *config.Config, prov config.Provider, model string) bool {
	separator := strings.Repeat("=", 60)
	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "Configuration check")
	fmt.Fprintln(w, separator)

	ok := true

	if cfg.APIToken != "" {
		fmt.Fprintf(w, "credential:       %s\n", maskToken(cfg.APIToken))
	} else {
		fmt.Fprintln(w, "credential:       MISSING (set OPENAI_API_KEY)")
		ok = false
	}

	fmt.Fprintf(w, "provider:         %s -> %s at %s\n", cfg.Provider, model, prov.BaseURL)
	fmt.Fprintf(w, "engine:           %s (depth %d, pages %d)\n", cfg.Engine, cfg.MaxDepth, cfg.MaxPages)

	switch {
	case !cfg.UseProxy:
		fmt.Fprintln(w, "proxy:            disabled")
	case cfg.ProxyURL == "":
		fmt.Fprintln(w, "proxy:            from environment")
	default:
		fmt.Fprintf(w, "proxy:            %s\n", maskProxy(cfg.ProxyURL))
	}

	catalog := leagues.Catalog()
	overrides := overrideCount(catalog)

	switch {
	case cfg.BaseURL != "":
		fmt.Fprintf(w, "base url:         %s\n", cfg.BaseURL)
	case overrides > 0:
		fmt.Fprintf(w, "base url:         unset, relying on per-league overrides\n")
	default:
		fmt.Fprintln(w, "base url:         MISSING (set SPORTS_BASE_URL or per-league overrides)")
		ok = false
	}
	fmt.Fprintf(w, "league overrides: %d set\n", overrides)

	if cfg.Tier > 0 {
		fmt.Fprintf(w, "tier filter:      %d\n", cfg.Tier)
	} else {
		fmt.Fprintln(w, "tier filter:      all tiers")
	}
	if len(cfg.SelectedLeagues) > 0 {
		fmt.Fprintf(w, "league filter:    %s\n", strings.Join(cfg.SelectedLeagues, ", "))
	}

	selected := leagues.FilterNames(leagues.FilterTier(catalog, cfg.Tier), cfg.SelectedLeagues)
	fmt.Fprintf(w, "catalog:          %s\n", catalogLine(catalog))
	fmt.Fprintf(w, "selected:         %d of %d leagues\n", len(selected), len(catalog))
	fmt.Fprintf(w, "retries:          %d attempts, backoff %v (cap %v)\n", cfg.MaxRetries, cfg.RetryBackoff, cfg.RetryBackoffMax)
	fmt.Fprintf(w, "timeouts:         request %v, attempt %v\n", cfg.RequestTimeout, cfg.AttemptTimeout)
	fmt.Fprintf(w, "pacing:           %v between leagues\n", cfg.LeagueDelay)
	fmt.Fprintf(w, "output:           %s\n", cfg.OutputDir)

	fmt.Fprintln(w, separator)
	if ok {
		fmt.Fprintln(w, "Configuration looks good.")
	} else {
		fmt.Fprintln(w, "Configuration is incomplete, see the lines marked MISSING.")
	}
	return ok
}

// maskToken keeps only a short identifying prefix.
func maskToken(token string) string {
	if len(token) > 20 {
		return token[:20] + "..."
	}
	return token
}

// maskProxy hides the credentials embedded in a proxy URL.
func maskProxy(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.User == nil {
		return raw
	}
	masked := *parsed
	masked.User = url.UserPassword("****", "****")
	return masked.String()
}

func overrideCount(catalog []leagues.Definition) int {
	count := 0
	for _, def := range catalog {
		if v, ok := os.LookupEnv(leagues.EnvVarName(def.Key)); ok && strings.TrimSpace(v) != "" {
			count++
		}
	}
	return count
}

func catalogLine(catalog []leagues.Definition) string {
	counts := make(map[int]int)
	for _, def := range catalog {
		counts[def.Tier]++
	}
	tiers := make([]int, 0, len(counts))
	for tier := range counts {
		tiers = append(tiers, tier)
	}
	sort.Ints(tiers)

	parts := make([]string, 0, len(tiers))
	for _, tier := range tiers {
		parts = append(parts, fmt.Sprintf("tier %d: %d", tier, counts[tier]))
	}
	return fmt.Sprintf("%d leagues (%s)", len(catalog), strings.Join(parts, ", "))
}
