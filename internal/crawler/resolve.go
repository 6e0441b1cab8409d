package crawler

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ikihsan/location-companyemails/internal/normalize"
)

const resolveEndpoint = "https://www.bing.com/search?q="

// placeholderNames mark discovery records that never named a real employer.
// Resolving a website for these would only surface random search results.
var placeholderNames = []string{
	"for a client", "client of", "confidential", "various", "multiple",
	"to be disclosed", "tbd", "n/a", "na", "undisclosed",
}

// resolveBlocklist holds hosts that rank well for company-name queries but
// are never the company's own site.
var resolveBlocklist = []string{
	"bing.com", "google.com", "yahoo.com", "facebook.com", "twitter.com",
	"linkedin.com", "instagram.com", "youtube.com", "wikipedia.org",
	"indeed.com", "glassdoor.com", "naukri.com", "monster.com",
	"freshersworld.com", "shine.com", "timesjobs.com", "simplyhired.com",
	"ziprecruiter.com", "careerbuilder.com", "microsoft.com", "msn.com",
	"yelp.com", "yellowpages.com", "crunchbase.com", "zoominfo.com",
	"ambitionbox.com", "fundoodata.com", "justdial.com", "sulekha.com",
}

var (
	hrefRe     = regexp.MustCompile(`href="(https?://[^"]+)"`)
	nameWordRe = regexp.MustCompile(`[a-zA-Z]+`)
)

// resolveWebsite finds a company's official site by running a web search and
// picking the first result whose domain shares a significant token with the
// company name. Returns "" when nothing credible turns up.
func (cr *Crawler) resolveWebsite(ctx context.Context, companyName string) string {
	nameLower := strings.ToLower(companyName)
	for _, marker := range placeholderNames {
		if strings.Contains(nameLower, marker) {
			return ""
		}
	}

	query := companyName + " official website careers contact"
	res, err := cr.fetcher.Fetch(ctx, resolveEndpoint+url.QueryEscape(query))
	if err != nil || !res.OK() {
		zap.L().Debug("crawler: website search failed",
			zap.String("company", companyName), zap.Error(err))
		return ""
	}

	nameWords := significantWords(companyName)
	if len(nameWords) == 0 {
		return ""
	}

	for _, match := range hrefRe.FindAllStringSubmatch(res.Body, -1) {
		candidate, err := url.Parse(match[1])
		if err != nil {
			continue
		}
		domain := normalize.Host(match[1])
		if domain == "" || len(domain) > 40 {
			continue
		}
		if blockedDomain(domain) {
			continue
		}
		if domainMatchesName(domain, nameWords) {
			return "https://" + candidate.Host
		}
	}
	return ""
}

func significantWords(name string) []string {
	var words []string
	for _, w := range nameWordRe.FindAllString(name, -1) {
		if len(w) > 3 {
			words = append(words, strings.ToLower(w))
		}
	}
	return words
}

func blockedDomain(domain string) bool {
	for _, blocked := range resolveBlocklist {
		if domain == blocked || strings.HasSuffix(domain, "."+blocked) {
			return true
		}
	}
	return false
}

func domainMatchesName(domain string, nameWords []string) bool {
	cleaned := domain
	for _, suffix := range []string{".com", ".in", ".co", ".io", ".org", ".net"} {
		cleaned = strings.ReplaceAll(cleaned, suffix, "")
	}
	for _, word := range nameWords {
		if strings.Contains(cleaned, word) {
			return true
		}
	}
	return false
}
