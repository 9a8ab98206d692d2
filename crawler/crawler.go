// Package crawler fetches league pages and reduces them to plain text for
// model extraction. Two engines are available: a static HTTP crawler for
// server-rendered sites and a headless browser for client-rendered ones.
package crawler

import (
	"context"
	"fmt"

	"github.com/ligawatch/go-scrape-standings/config"
)

// Fetcher retrieves the textual content behind a league URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Content, error)
}

// NewFetcher selects the fetch engine configured in cfg.
func NewFetcher(cfg *config.Config) (Fetcher, error) {
	switch cfg.Engine {
	case config.EngineStatic:
		return NewStaticFetcher(cfg), nil
	case config.EngineBrowser:
		return NewBrowserFetcher(cfg), nil
	default:
		return nil, fmt.Errorf("unknown fetch engine %q", cfg.Engine)
	}
}
