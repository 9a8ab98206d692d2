package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/ligawatch/go-scrape-standings/config"
)

// StaticFetcher crawls server-rendered pages with a plain HTTP client.
type StaticFetcher struct {
	cfg *config.Config

	// transport overrides the HTTP transport when set. Tests use it to
	// serve canned responses.
	transport http.RoundTripper
}

// NewStaticFetcher builds a fetcher configured from cfg.
func NewStaticFetcher(cfg *config.Config) *StaticFetcher {
	return &StaticFetcher{cfg: cfg}
}

// Fetch visits startURL and follows same-host links within the configured
// depth and page budget. Pages are distilled as they arrive.
func (f *StaticFetcher) Fetch(ctx context.Context, startURL string) (*Content, error) {
	parsed, err := url.Parse(startURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("url must include a host: %s", startURL)
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(f.cfg.UserAgent),
		// colly counts the start page as depth 1.
		colly.MaxDepth(f.cfg.MaxDepth+1),
	)
	collector.IgnoreRobotsTxt = true
	collector.SetRequestTimeout(f.cfg.RequestTimeout)
	collector.WithTransport(f.httpTransport())

	var (
		pages    []Page
		fetchErr error
	)

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		if len(pages) >= f.cfg.MaxPages {
			return
		}
		title, text, err := Distill(r.Body)
		if err != nil {
			slog.Debug("distill failed",
				slog.String("url", r.Request.URL.String()),
				slog.Any("error", err),
			)
			return
		}
		pages = append(pages, Page{URL: r.Request.URL.String(), Title: title, Text: text})
	})

	collector.OnError(func(r *colly.Response, err error) {
		target := startURL
		if r != nil && r.Request != nil && r.Request.URL != nil {
			target = r.Request.URL.String()
		}
		if fetchErr != nil {
			return
		}
		if r != nil && r.StatusCode != 0 {
			fetchErr = fmt.Errorf("fetch %s: http status %d", target, r.StatusCode)
			return
		}
		fetchErr = fmt.Errorf("fetch %s: %w", target, err)
	})

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if ctx.Err() != nil || len(pages) >= f.cfg.MaxPages {
			return
		}
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" {
			return
		}
		e.Request.Visit(link)
	})

	if err := collector.Visit(startURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", startURL, err)
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		if fetchErr != nil {
			return nil, fetchErr
		}
		return nil, fmt.Errorf("no pages fetched from %s", startURL)
	}
	return &Content{StartURL: startURL, Pages: pages}, nil
}

func (f *StaticFetcher) httpTransport() http.RoundTripper {
	if f.transport != nil {
		return f.transport
	}
	proxy := http.ProxyFromEnvironment
	if f.cfg.UseProxy && f.cfg.ProxyURL != "" {
		if proxyURL, err := url.Parse(f.cfg.ProxyURL); err == nil {
			proxy = http.ProxyURL(proxyURL)
		}
	}
	return &http.Transport{
		Proxy: proxy,
		DialContext: (&net.Dialer{
			Timeout:   f.cfg.RequestTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}
