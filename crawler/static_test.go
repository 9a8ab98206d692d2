package crawler

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/ligawatch/go-scrape-standings/config"
)

func staticTestConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.MaxDepth = 1
	cfg.MaxPages = 3
	cfg.UseProxy = false
	return cfg
}

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "text/html")
	return httpmock.ResponderFromResponse(resp)
}

func buildStandingsPage(league string, teams int, nextPath string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<html><head><title>%s Table</title><script>track();</script></head><body>", league)
	fmt.Fprintf(&b, "<h1>%s</h1><table><tr><th>Pos</th><th>Team</th><th>P</th><th>Pts</th></tr>", league)
	for i := 1; i <= teams; i++ {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>Team %d</td><td>10</td><td>%d</td></tr>", i, i, 3*(teams-i))
	}
	b.WriteString("</table>")
	if nextPath != "" {
		fmt.Fprintf(&b, "<a href=\"%s\">Form guide</a>", nextPath)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func TestStaticFetcherFollowsLinks(t *testing.T) {
	startURL := "http://league.test/premier-league"

	transport := httpmock.NewMockTransport()
	main := buildStandingsPage("Premier League", 4, "/premier-league/form")
	transport.RegisterResponder("GET", startURL, htmlResponder(main))
	transport.RegisterResponder("GET", startURL+"/", htmlResponder(main))
	transport.RegisterResponder("GET", startURL+"/form", htmlResponder(buildStandingsPage("Form Guide", 2, "")))

	f := NewStaticFetcher(staticTestConfig())
	f.transport = transport

	content, err := f.Fetch(context.Background(), startURL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(content.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(content.Pages))
	}
	if content.Pages[0].Title != "Premier League Table" {
		t.Errorf("title = %q", content.Pages[0].Title)
	}

	combined := content.Combined()
	if !strings.Contains(combined, "1 | Team 1 | 10 | 9") {
		t.Errorf("standings row missing from %q", combined)
	}
	if !strings.Contains(combined, "Form Guide") {
		t.Errorf("linked page missing from %q", combined)
	}
}

func TestStaticFetcherPageBudget(t *testing.T) {
	startURL := "http://league.test/premier-league"

	transport := httpmock.NewMockTransport()
	main := buildStandingsPage("Premier League", 4, "/premier-league/form")
	transport.RegisterResponder("GET", startURL, htmlResponder(main))
	transport.RegisterResponder("GET", startURL+"/form", htmlResponder(buildStandingsPage("Form Guide", 2, "")))

	cfg := staticTestConfig()
	cfg.MaxPages = 1
	f := NewStaticFetcher(cfg)
	f.transport = transport

	content, err := f.Fetch(context.Background(), startURL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(content.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(content.Pages))
	}
}

func TestStaticFetcherDepthLimit(t *testing.T) {
	startURL := "http://league.test/premier-league"

	// Only the start page is registered. With depth 0 the link must not be
	// followed, so the missing responder is never hit.
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", startURL, htmlResponder(buildStandingsPage("Premier League", 4, "/premier-league/form")))

	cfg := staticTestConfig()
	cfg.MaxDepth = 0
	f := NewStaticFetcher(cfg)
	f.transport = transport

	content, err := f.Fetch(context.Background(), startURL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(content.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(content.Pages))
	}
}

func TestStaticFetcherStartPageError(t *testing.T) {
	startURL := "http://league.test/eredivisie"

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", startURL, httpmock.NewStringResponder(404, "gone"))

	f := NewStaticFetcher(staticTestConfig())
	f.transport = transport

	if _, err := f.Fetch(context.Background(), startURL); err == nil {
		t.Fatal("expected error for failing start page")
	}
}

func TestStaticFetcherLinkedPageErrorIsSkipped(t *testing.T) {
	startURL := "http://league.test/premier-league"

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", startURL, htmlResponder(buildStandingsPage("Premier League", 4, "/premier-league/form")))
	transport.RegisterResponder("GET", startURL+"/form", httpmock.NewStringResponder(500, "boom"))

	f := NewStaticFetcher(staticTestConfig())
	f.transport = transport

	content, err := f.Fetch(context.Background(), startURL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(content.Pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(content.Pages))
	}
}

func TestStaticFetcherContextCancelled(t *testing.T) {
	startURL := "http://league.test/premier-league"

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", startURL, htmlResponder(buildStandingsPage("Premier League", 4, "")))

	f := NewStaticFetcher(staticTestConfig())
	f.transport = transport

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.Fetch(ctx, startURL); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestStaticFetcherRejectsHostlessURL(t *testing.T) {
	f := NewStaticFetcher(staticTestConfig())
	if _, err := f.Fetch(context.Background(), "/no-host"); err == nil {
		t.Fatal("expected error for URL without host")
	}
}

func TestNewFetcherEngineSelection(t *testing.T) {
	cfg := staticTestConfig()

	cfg.Engine = config.EngineStatic
	f, err := NewFetcher(cfg)
	if err != nil {
		t.Fatalf("static engine: %v", err)
	}
	if _, ok := f.(*StaticFetcher); !ok {
		t.Fatalf("fetcher = %T, want *StaticFetcher", f)
	}

	cfg.Engine = config.EngineBrowser
	f, err = NewFetcher(cfg)
	if err != nil {
		t.Fatalf("browser engine: %v", err)
	}
	if _, ok := f.(*BrowserFetcher); !ok {
		t.Fatalf("fetcher = %T, want *BrowserFetcher", f)
	}

	cfg.Engine = "carrier-pigeon"
	if _, err := NewFetcher(cfg); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}
