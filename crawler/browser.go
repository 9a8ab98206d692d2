package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"

	"github.com/ligawatch/go-scrape-standings/config"
)

// BrowserFetcher renders pages in headless Chromium for sites that build
// their standings client side.
type BrowserFetcher struct {
	cfg *config.Config
}

// NewBrowserFetcher builds a fetcher configured from cfg.
func NewBrowserFetcher(cfg *config.Config) *BrowserFetcher {
	return &BrowserFetcher{cfg: cfg}
}

type crawlTarget struct {
	url   string
	depth int
}

// Fetch renders startURL and same-host links breadth first, within the
// configured depth and page budget. Failures on linked pages are skipped;
// a failure on the start page aborts the fetch.
func (f *BrowserFetcher) Fetch(ctx context.Context, startURL string) (*Content, error) {
	start, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if start.Host == "" {
		return nil, fmt.Errorf("url must include a host: %s", startURL)
	}

	opts := launcher.New().Headless(f.cfg.Headless)
	if f.cfg.UseProxy && f.cfg.ProxyURL != "" {
		opts = opts.Proxy(f.cfg.ProxyURL)
	}
	controlURL, err := opts.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer browser.Close()

	queue := []crawlTarget{{url: startURL}}
	visited := make(map[string]bool)
	var pages []Page

	for len(queue) > 0 && len(pages) < f.cfg.MaxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := queue[0]
		queue = queue[1:]
		if visited[next.url] {
			continue
		}
		visited[next.url] = true

		html, err := f.render(browser, next.url)
		if err != nil {
			if next.depth == 0 {
				return nil, fmt.Errorf("render %s: %w", next.url, err)
			}
			slog.Debug("skipping linked page",
				slog.String("url", next.url),
				slog.Any("error", err),
			)
			continue
		}

		title, text, err := Distill([]byte(html))
		if err != nil {
			if next.depth == 0 {
				return nil, fmt.Errorf("distill %s: %w", next.url, err)
			}
			continue
		}
		pages = append(pages, Page{URL: next.url, Title: title, Text: text})

		if next.depth >= f.cfg.MaxDepth {
			continue
		}
		for _, link := range sameHostLinks(html, next.url, start.Host) {
			if !visited[link] {
				queue = append(queue, crawlTarget{url: link, depth: next.depth + 1})
			}
		}
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages rendered from %s", startURL)
	}
	return &Content{StartURL: startURL, Pages: pages}, nil
}

func (f *BrowserFetcher) render(browser *rod.Browser, pageURL string) (string, error) {
	page, err := stealth.Page(browser)
	if err != nil {
		return "", err
	}
	defer page.Close()

	timed := page.Timeout(f.cfg.RequestTimeout)
	if err := timed.Navigate(pageURL); err != nil {
		return "", err
	}
	if err := timed.WaitLoad(); err != nil {
		return "", err
	}
	return timed.HTML()
}

// sameHostLinks extracts absolute same-host anchors from rendered HTML,
// resolved against the page they appeared on.
func sameHostLinks(html, pageURL, host string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		resolved, err := base.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if resolved.Host != host {
			return
		}
		resolved.Fragment = ""
		link := resolved.String()
		if !seen[link] {
			seen[link] = true
			links = append(links, link)
		}
	})
	return links
}
