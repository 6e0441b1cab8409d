package source

import (
	"context"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ikihsan/location-companyemails/internal/fetch"
	"github.com/ikihsan/location-companyemails/internal/model"
	"github.com/ikihsan/location-companyemails/internal/parse"
)

// portalConfig describes how to search one job portal and pull company
// names out of its result markup. Patterns are ordered by reliability;
// capture group 1 is always the company name.
type portalConfig struct {
	name            string
	searchURL       string // template: {query} {location} {page} {offset}
	hyphenated      bool   // path-style portals want "go-developer", not "go+developer"
	resultsPerPage  int
	companyPatterns []*regexp.Regexp
}

var globalPortals = []portalConfig{
	{
		name:           "indeed",
		searchURL:      "https://www.indeed.com/jobs?q={query}&l={location}&start={offset}",
		resultsPerPage: 15,
		companyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`data-testid="company-name"[^>]*>([^<]+)<`),
			regexp.MustCompile(`"companyName"\s*:\s*"([^"]+)"`),
			regexp.MustCompile(`class="[^"]*companyName[^"]*"[^>]*>([^<]+)<`),
		},
	},
	{
		name:           "simplyhired",
		searchURL:      "https://www.simplyhired.com/search?q={query}&l={location}&pn={page}",
		resultsPerPage: 20,
		companyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`data-testid="companyName"[^>]*>([^<]+)<`),
			regexp.MustCompile(`<span[^>]*class="[^"]*jobposting-company[^"]*"[^>]*>([^<]+)</span>`),
		},
	},
	{
		name:           "monster",
		searchURL:      "https://www.monster.com/jobs/search/?q={query}&where={location}&page={page}",
		resultsPerPage: 25,
		companyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`data-testid="company"[^>]*>([^<]+)<`),
			regexp.MustCompile(`"companyName"\s*:\s*"([^"]+)"`),
			regexp.MustCompile(`<span[^>]*class="[^"]*company[^"]*"[^>]*>([^<]+)</span>`),
		},
	},
}

var indiaPortals = []portalConfig{
	{
		name:           "naukri",
		searchURL:      "https://www.naukri.com/{query}-jobs-in-{location}?pg={page}",
		hyphenated:     true,
		resultsPerPage: 20,
		companyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`"companyName"\s*:\s*"([^"]+)"`),
			regexp.MustCompile(`class="[^"]*comp-name[^"]*"[^>]*>([^<]+)<`),
			regexp.MustCompile(`<a[^>]*class="[^"]*subTitle[^"]*"[^>]*title="([^"]+)"`),
		},
	},
	{
		name:           "shine",
		searchURL:      "https://www.shine.com/job-search/{query}-jobs-in-{location}",
		hyphenated:     true,
		resultsPerPage: 20,
		companyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`class="[^"]*company_name[^"]*"[^>]*>([^<]+)<`),
			regexp.MustCompile(`"hiringOrganization"[^}]*"name"\s*:\s*"([^"]+)"`),
		},
	},
	{
		name:           "timesjobs",
		searchURL:      "https://www.timesjobs.com/candidate/job-search.html?searchType=personalizedSearch&from=submit&txtKeywords={query}&txtLocation={location}",
		resultsPerPage: 25,
		companyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`<h3[^>]*class="[^"]*joblist-comp-name[^"]*"[^>]*>([^<]+)</h3>`),
			regexp.MustCompile(`"hiringOrganization"[^}]*"name"\s*:\s*"([^"]+)"`),
		},
	},
	{
		name:           "indeed-india",
		searchURL:      "https://www.indeed.co.in/jobs?q={query}&l={location}&start={offset}",
		resultsPerPage: 10,
		companyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`data-testid="company-name"[^>]*>([^<]+)<`),
			regexp.MustCompile(`"companyName"\s*:\s*"([^"]+)"`),
		},
	},
}

// minPageBytes below which a portal response is treated as empty (error
// interstitials and redirect stubs are all smaller than real result pages).
const minPageBytes = 500

// maxPortalPages bounds pagination per portal per role.
const maxPortalPages = 3

// JobBoardSource scrapes HTML job portals for hiring companies.
type JobBoardSource struct {
	fetcher fetch.Fetcher
}

// NewJobBoardSource creates the portal adapter.
func NewJobBoardSource(fetcher fetch.Fetcher) *JobBoardSource {
	return &JobBoardSource{fetcher: fetcher}
}

func (s *JobBoardSource) Name() string { return "job_portals" }

func (s *JobBoardSource) Info() model.DiscoverySource {
	return model.DiscoverySource{
		Name:    s.Name(),
		BaseURL: "https://www.indeed.com",
		Type:    model.SourceTypeJobBoard,
		Enabled: true,
	}
}

func (s *JobBoardSource) Search(ctx context.Context, location string, roles []string, maxResults int) (<-chan model.CompanyRecord, error) {
	out := make(chan model.CompanyRecord)

	portals := globalPortals
	if isIndianLocation(location) {
		portals = append(indiaPortals[:len(indiaPortals):len(indiaPortals)], globalPortals[0])
	}

	go func() {
		defer close(out)
		seen := make(map[string]bool)
		count := 0

		for _, role := range roles {
			for _, portal := range portals {
				if ctx.Err() != nil || count >= maxResults {
					return
				}
				count += s.scrapePortal(ctx, portal, role, location, maxResults-count, seen, out)
			}
		}
	}()

	return out, nil
}

// Details is a no-op for portals: listing pages rarely carry more than the
// name, and enrichment happens in the crawl stage.
func (s *JobBoardSource) Details(ctx context.Context, c *model.CompanyRecord) error {
	return nil
}

func (s *JobBoardSource) scrapePortal(ctx context.Context, portal portalConfig, role, location string, budget int, seen map[string]bool, out chan<- model.CompanyRecord) int {
	sent := 0
	empty := 0

	for page := 0; page < maxPortalPages; page++ {
		if ctx.Err() != nil || sent >= budget {
			break
		}

		pageURL := buildPortalURL(portal, role, location, page)
		res, err := s.fetcher.Fetch(ctx, pageURL)
		if err != nil || !res.OK() || len(res.Body) < minPageBytes {
			zap.L().Debug("portal page unusable",
				zap.String("portal", portal.name),
				zap.Int("page", page),
				zap.Error(err))
			break
		}

		records := extractPortalCompanies(res.Body, portal, role, location, pageURL)
		fresh := 0
		for i := range records {
			key := strings.ToLower(records[i].Name)
			if seen[key] {
				continue
			}
			seen[key] = true
			if !send(ctx, out, records[i]) {
				return sent
			}
			fresh++
			sent++
			if sent >= budget {
				break
			}
		}

		if fresh == 0 {
			empty++
			if empty >= consecutiveEmptyLimit {
				break
			}
			continue
		}
		empty = 0
	}

	zap.L().Debug("portal scraped",
		zap.String("portal", portal.name),
		zap.String("role", role),
		zap.Int("companies", sent))
	return sent
}

func buildPortalURL(portal portalConfig, role, location string, page int) string {
	query := url.QueryEscape(role)
	loc := url.QueryEscape(location)
	if portal.hyphenated {
		query = strings.ToLower(strings.ReplaceAll(role, " ", "-"))
		loc = strings.ToLower(strings.ReplaceAll(location, " ", "-"))
	}

	u := portal.searchURL
	u = strings.ReplaceAll(u, "{query}", query)
	u = strings.ReplaceAll(u, "{location}", loc)
	u = strings.ReplaceAll(u, "{page}", strconv.Itoa(page+1))
	u = strings.ReplaceAll(u, "{offset}", strconv.Itoa(page*portal.resultsPerPage))
	return u
}

// extractPortalCompanies pulls companies from one result page: structured
// JSON-LD job postings first, then the portal's markup patterns.
func extractPortalCompanies(body string, portal portalConfig, role, location, pageURL string) []model.CompanyRecord {
	var records []model.CompanyRecord
	seenInPage := make(map[string]bool)

	add := func(name string) {
		name = cleanCompanyName(name)
		if !isValidCompanyName(name) {
			return
		}
		key := strings.ToLower(name)
		if seenInPage[key] {
			return
		}
		seenInPage[key] = true

		rec := model.NewCompanyRecord(name, location, pageURL)
		rec.SourceName = portal.name
		rec.AddRole(role)
		records = append(records, *rec)
	}

	if page, err := parse.Parse(pageURL, body); err == nil {
		for _, posting := range page.JobPostings {
			if posting.OrgName != "" {
				add(posting.OrgName)
			}
		}
	}

	for _, re := range portal.companyPatterns {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			add(m[1])
		}
	}

	return records
}
