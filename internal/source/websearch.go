package source

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ikihsan/location-companyemails/internal/fetch"
	"github.com/ikihsan/location-companyemails/internal/model"
	"github.com/ikihsan/location-companyemails/internal/normalize"
	"github.com/ikihsan/location-companyemails/internal/parse"
)

// searchEndpoint is the HTML (non-JS) results page, the only search
// surface that tolerates plain HTTP clients.
const searchEndpoint = "https://html.duckduckgo.com/html/?q="

// skipDomains never identify a hiring company: search engines, boards,
// social networks, reference sites.
var skipDomains = []string{
	"duckduckgo.com", "google.com", "bing.com",
	"indeed.com", "linkedin.com", "glassdoor.com", "naukri.com",
	"monster.com", "ziprecruiter.com", "shine.com", "timesjobs.com",
	"facebook.com", "twitter.com", "youtube.com", "instagram.com",
	"wikipedia.org", "reddit.com", "quora.com", "medium.com",
}

// titleNameRes extract a company name from a search result title, e.g.
// "Jobs at Acme", "Acme - Careers", "Acme is hiring".
var titleNameRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)jobs?\s+at\s+([^|\x{2013}\-]+)`),
	regexp.MustCompile(`(?i)^([^|\x{2013}\-]+?)\s*[-\x{2013}|]\s*careers`),
	regexp.MustCompile(`(?i)^([^|\x{2013}\-]+?)\s+is\s+hiring`),
	regexp.MustCompile(`^([^|\x{2013}\-]+?)\s*[-\x{2013}|]`),
}

// WebSearchSource discovers companies through search engine results for
// hiring-related queries.
type WebSearchSource struct {
	fetcher fetch.Fetcher
}

// NewWebSearchSource creates the search engine adapter.
func NewWebSearchSource(fetcher fetch.Fetcher) *WebSearchSource {
	return &WebSearchSource{fetcher: fetcher}
}

func (s *WebSearchSource) Name() string { return "websearch" }

func (s *WebSearchSource) Info() model.DiscoverySource {
	return model.DiscoverySource{
		Name:    s.Name(),
		BaseURL: "https://html.duckduckgo.com",
		Type:    model.SourceTypeSearchEngine,
		Enabled: true,
	}
}

func (s *WebSearchSource) Search(ctx context.Context, location string, roles []string, maxResults int) (<-chan model.CompanyRecord, error) {
	out := make(chan model.CompanyRecord)

	go func() {
		defer close(out)
		seenDomains := make(map[string]bool)
		count := 0

		for _, role := range roles {
			if ctx.Err() != nil || count >= maxResults {
				return
			}
			queries := []string{
				`"` + role + `" hiring ` + location,
				`"` + role + `" jobs ` + location + " careers",
			}
			for _, q := range queries {
				if ctx.Err() != nil || count >= maxResults {
					return
				}
				count += s.searchOnce(ctx, q, role, location, maxResults-count, seenDomains, out)
			}
		}
	}()

	return out, nil
}

// Details fetches the company homepage and fills the careers and LinkedIn
// links if the landing page advertises them. Best effort.
func (s *WebSearchSource) Details(ctx context.Context, c *model.CompanyRecord) error {
	if c.Website == "" {
		return nil
	}
	res, err := s.fetcher.Fetch(ctx, c.Website)
	if err != nil || !res.OK() {
		return nil
	}
	page, err := parse.Parse(c.Website, res.Body)
	if err != nil {
		return nil
	}
	if c.CareersURL == "" && len(page.CareersLinks) > 0 {
		c.CareersURL = page.CareersLinks[0]
	}
	if c.LinkedInURL == "" {
		c.LinkedInURL = page.LinkedInURL
	}
	return nil
}

func (s *WebSearchSource) searchOnce(ctx context.Context, query, role, location string, budget int, seenDomains map[string]bool, out chan<- model.CompanyRecord) int {
	res, err := s.fetcher.Fetch(ctx, searchEndpoint+url.QueryEscape(query))
	if err != nil || !res.OK() {
		zap.L().Debug("search query failed", zap.String("query", query), zap.Error(err))
		return 0
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
	if err != nil {
		return 0
	}

	sent := 0
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if ctx.Err() != nil || sent >= budget {
			return false
		}

		title := strings.TrimSpace(sel.Find("a.result__a").Text())
		link, _ := sel.Find("a.result__a").Attr("href")
		link = resolveRedirect(strings.TrimSpace(link))
		if link == "" {
			return true
		}

		domain := normalize.Host(link)
		if domain == "" || seenDomains[domain] || isSkippedDomain(domain) {
			return true
		}
		seenDomains[domain] = true

		name := companyNameFromTitle(title)
		if name == "" {
			name = companyNameFromDomain(domain)
		}
		if !isValidCompanyName(name) {
			return true
		}

		rec := model.NewCompanyRecord(name, location, link)
		rec.SourceName = s.Name()
		rec.Website = "https://" + domain
		rec.AddRole(role)
		if send(ctx, out, *rec) {
			sent++
		}
		return true
	})
	return sent
}

// resolveRedirect unwraps the search engine's /l/?uddg= indirection.
func resolveRedirect(link string) string {
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return "https://" + strings.TrimPrefix(link, "//")
	}
	return link
}

func isSkippedDomain(domain string) bool {
	for _, skip := range skipDomains {
		if domain == skip || strings.HasSuffix(domain, "."+skip) {
			return true
		}
	}
	return false
}

func companyNameFromTitle(title string) string {
	if title == "" {
		return ""
	}
	for _, re := range titleNameRes {
		if m := re.FindStringSubmatch(title); m != nil {
			name := cleanCompanyName(m[1])
			if len(name) >= 3 && len(name) < 50 {
				return name
			}
		}
	}
	return ""
}

// companyNameFromDomain falls back to the registrable label: "acme" from
// "acme.co.in".
func companyNameFromDomain(domain string) string {
	label := domain
	if i := strings.IndexByte(label, '.'); i > 0 {
		label = label[:i]
	}
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
