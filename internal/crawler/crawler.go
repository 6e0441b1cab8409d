// Package crawler enriches discovered companies by walking their websites
// and harvesting recruiter contacts, hiring roles, and careers links.
package crawler

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ikihsan/location-companyemails/internal/fetch"
	"github.com/ikihsan/location-companyemails/internal/model"
	"github.com/ikihsan/location-companyemails/internal/normalize"
	"github.com/ikihsan/location-companyemails/internal/parse"
	"github.com/ikihsan/location-companyemails/internal/scorer"
)

const (
	DefaultMaxDepth    = 2
	DefaultMaxPages    = 12
	DefaultConcurrency = 4
)

// Config bounds a per-company crawl.
type Config struct {
	// MaxDepth is the furthest link distance from the start page that
	// will be enqueued. Depth 0 is the start page itself.
	MaxDepth int
	// MaxPages caps the number of pages fetched for one company.
	MaxPages int
	// Concurrency is the EnrichAll worker pool size.
	Concurrency int
}

func DefaultConfig() Config {
	return Config{
		MaxDepth:    DefaultMaxDepth,
		MaxPages:    DefaultMaxPages,
		Concurrency: DefaultConcurrency,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	return c
}

// Crawler walks company sites breadth-first, collecting email candidates
// and hiring roles as it goes.
type Crawler struct {
	fetcher fetch.Fetcher
	cfg     Config
}

func New(fetcher fetch.Fetcher, cfg Config) *Crawler {
	return &Crawler{fetcher: fetcher, cfg: cfg.withDefaults()}
}

// Enrich crawls one company's website in place. Companies without a website
// get a best-effort search-based resolution first; if that fails the company
// is left untouched and skipped. Individual page failures are logged and the
// crawl moves on. The only returned error is context cancellation.
func (cr *Crawler) Enrich(ctx context.Context, c *model.CompanyRecord) error {
	website := c.Website
	if website == "" {
		resolved := cr.resolveWebsite(ctx, c.Name)
		if resolved == "" {
			zap.L().Debug("crawler: no website found, skipping",
				zap.String("company", c.Name))
			return ctx.Err()
		}
		c.Website = resolved
		website = resolved
	}

	extractor := scorer.NewExtractor(normalize.Host(website))

	type frontierEntry struct {
		url   string
		depth int
	}
	frontier := []frontierEntry{{url: website, depth: 0}}
	if c.CareersURL != "" {
		frontier = append(frontier, frontierEntry{url: c.CareersURL, depth: 0})
	}
	visited := make(map[string]bool)
	pages := 0

	for len(frontier) > 0 && pages < cr.cfg.MaxPages {
		if err := ctx.Err(); err != nil {
			break
		}
		entry := frontier[0]
		frontier = frontier[1:]

		key := visitKey(entry.url)
		if visited[key] {
			continue
		}
		visited[key] = true
		pages++

		res, err := cr.fetcher.Fetch(ctx, entry.url)
		if err != nil {
			zap.L().Debug("crawler: page fetch failed",
				zap.String("company", c.Name),
				zap.String("url", entry.url),
				zap.Error(err))
			continue
		}
		if !res.OK() || !res.IsHTML() {
			continue
		}

		pageURL := res.FinalURL
		if pageURL == "" {
			pageURL = entry.url
		}
		page, err := parse.Parse(pageURL, res.Body)
		if err != nil {
			zap.L().Debug("crawler: page parse failed",
				zap.String("url", pageURL), zap.Error(err))
			continue
		}

		for _, candidate := range extractor.Extract(res.Body, pageURL) {
			c.AddEmail(candidate)
		}
		for _, posting := range page.JobPostings {
			c.AddRole(posting.Title)
		}
		if c.CareersURL == "" && len(page.CareersLinks) > 0 {
			c.CareersURL = page.CareersLinks[0]
		}
		if c.LinkedInURL == "" && page.LinkedInURL != "" {
			c.LinkedInURL = page.LinkedInURL
		}

		if entry.depth >= cr.cfg.MaxDepth {
			continue
		}
		for _, link := range page.Links {
			if visited[visitKey(link)] || !relevantLink(link) {
				continue
			}
			frontier = append(frontier, frontierEntry{url: link, depth: entry.depth + 1})
		}
	}

	c.CrawlDepth = pages
	zap.L().Debug("crawler: company crawl finished",
		zap.String("company", c.Name),
		zap.Int("pages", pages),
		zap.Int("emails", len(c.Emails)))
	return ctx.Err()
}

// EnrichAll crawls every company through a bounded worker pool. The slice is
// mutated in place; each worker owns exactly one record at a time.
func (cr *Crawler) EnrichAll(ctx context.Context, companies []*model.CompanyRecord) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cr.cfg.Concurrency)
	for _, company := range companies {
		company := company
		g.Go(func() error {
			return cr.Enrich(ctx, company)
		})
	}
	return g.Wait()
}

func visitKey(rawURL string) string {
	return strings.TrimSuffix(strings.ToLower(rawURL), "/")
}

// priorityPaths are path fragments worth following regardless of length:
// careers, contact, about, legal, and HR sections.
var priorityPaths = []string{
	"/careers", "/career", "/jobs", "/job", "/openings", "/open-positions",
	"/positions", "/vacancy", "/vacancies", "/recruitment", "/recruiting",
	"/hiring", "/apply", "/opportunities", "/join", "/join-us",
	"/work-with-us", "/talent", "/talent-acquisition", "/people",
	"/people-team",
	"/contact", "/contact-us", "/kontakt", "/get-in-touch", "/enquiry",
	"/about", "/about-us", "/team", "/our-team", "/company", "/leadership",
	"/impressum", "/imprint", "/legal", "/privacy", "/terms",
	"/hr", "/human-resources",
}

var skipMarkers = []string{
	"/cdn-cgi/", "/wp-content/", "/wp-includes/",
	"/tag/", "/category/", "/author/",
	"/blog/", "/news/", "/press/",
	"/login", "/signin", "/signup", "/register",
	"/cart", "/checkout", "/account",
	"/search", "/sitemap",
}

var skipExtensions = []string{
	".pdf", ".jpg", ".jpeg", ".png", ".gif", ".css", ".js",
	".svg", ".ico", ".woff", ".woff2", ".ttf", ".eot",
}

// relevantLink decides whether a same-site link is worth fetching. Priority
// sections are always followed; otherwise only short top-level paths, which
// tend to carry contact details, make the cut.
func relevantLink(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}
	lower := strings.ToLower(rawURL)
	for _, marker := range skipMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	for _, p := range priorityPaths {
		if strings.Contains(path, p) {
			return true
		}
	}
	return strings.Count(path, "/") <= 2 && len(path) < 30
}
