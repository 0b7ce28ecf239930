package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// Metadata is what a link preview needs to prefill the submit form.
type Metadata struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	SiteName     string `json:"site_name,omitempty"`
	Type         string `json:"type,omitempty"`
}

// MetadataFetcher reads OpenGraph and HTML head tags from a page.
type MetadataFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Metadata, error)
}

type WebScraper struct {
	collector *colly.Collector
}

func NewWebScraper(timeout time.Duration) *WebScraper {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (compatible; SkillNestBot/1.0; +https://skillnest.dev)"),
		colly.MaxBodySize(2<<20),
		colly.AllowURLRevisit(),
	)
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}

	return &WebScraper{collector: c}
}

func (s *WebScraper) Fetch(ctx context.Context, rawURL string) (*Metadata, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid url %q", rawURL)
	}

	// Clone per request so concurrent fetches don't share callbacks.
	c := s.collector.Clone()
	c.Context = ctx

	meta := &Metadata{URL: u.String()}
	var htmlTitle, htmlDescription string

	c.OnHTML("head", func(e *colly.HTMLElement) {
		htmlTitle = strings.TrimSpace(e.ChildText("title"))
		e.ForEach("meta", func(_ int, el *colly.HTMLElement) {
			content := strings.TrimSpace(el.Attr("content"))
			if content == "" {
				return
			}
			key := strings.ToLower(el.Attr("property"))
			if key == "" {
				key = strings.ToLower(el.Attr("name"))
			}
			switch key {
			case "og:title", "twitter:title":
				if meta.Title == "" {
					meta.Title = content
				}
			case "og:description", "twitter:description":
				if meta.Description == "" {
					meta.Description = content
				}
			case "description":
				htmlDescription = content
			case "og:image", "twitter:image":
				if meta.ThumbnailURL == "" {
					meta.ThumbnailURL = e.Request.AbsoluteURL(content)
				}
			case "og:site_name":
				meta.SiteName = content
			case "og:type":
				meta.Type = content
			}
		})
	})

	if err := c.Visit(u.String()); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u.Host, err)
	}
	c.Wait()

	if meta.Title == "" {
		meta.Title = htmlTitle
	}
	if meta.Description == "" {
		meta.Description = htmlDescription
	}

	return meta, nil
}
