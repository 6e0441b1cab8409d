// Package parse turns raw HTML into the structured page view the crawler
// works with: visible text, same-site links, published contact channels,
// and any structured hiring data the page embeds.
package parse

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// JobPosting is a structured job advert embedded in a page as JSON-LD.
type JobPosting struct {
	Title    string
	OrgName  string
	Location string
}

// Organization is structured publisher data embedded in a page as JSON-LD.
type Organization struct {
	Name  string
	Email string
	URL   string
}

// Page is the parsed view of one fetched document.
type Page struct {
	URL   *url.URL
	Title string

	// Text is the visible text content with scripts and styles removed.
	Text string

	// Links are absolute same-host links in document order, deduplicated.
	Links []string

	// CareersLinks are the subset of anchors whose text or target reads
	// as a hiring page. May include off-host links (hosted ATS pages).
	CareersLinks []string

	// MailtoTargets are the raw mailto hrefs, query stripped.
	MailtoTargets []string

	// PhoneNumbers are tel: link targets.
	PhoneNumbers []string

	// LinkedInURL is the first linkedin.com/company link found.
	LinkedInURL string

	JobPostings   []JobPosting
	Organizations []Organization
}

var careersLinkHints = []string{
	"career", "job", "vacanc", "hiring", "join-us", "joinus",
	"join us", "work-with-us", "opportunit", "recruit",
}

// Parse builds a Page from html fetched at rawURL.
func Parse(rawURL, html string) (*Page, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, eris.Wrapf(err, "parse: bad page url %s", rawURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrapf(err, "parse: read document %s", rawURL)
	}

	p := &Page{URL: base}
	p.Title = strings.TrimSpace(doc.Find("title").First().Text())

	// Structured data lives in script tags, so it must be read before
	// the visible-text pass strips them.
	p.collectStructuredData(doc)

	doc.Find("script, style, noscript").Remove()
	p.Text = collapseSpace(doc.Find("body").Text())
	if p.Text == "" {
		p.Text = collapseSpace(doc.Text())
	}

	p.collectLinks(doc, base)
	return p, nil
}

func (p *Page) collectLinks(doc *goquery.Document, base *url.URL) {
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		switch {
		case strings.HasPrefix(href, "mailto:"):
			addr := strings.TrimPrefix(href, "mailto:")
			if i := strings.IndexByte(addr, '?'); i >= 0 {
				addr = addr[:i]
			}
			if addr != "" {
				p.MailtoTargets = append(p.MailtoTargets, strings.ToLower(addr))
			}
			return
		case strings.HasPrefix(href, "tel:"):
			if num := strings.TrimPrefix(href, "tel:"); num != "" {
				p.PhoneNumbers = append(p.PhoneNumbers, num)
			}
			return
		case strings.HasPrefix(href, "javascript:"), strings.HasPrefix(href, "#"):
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		abs.Fragment = ""
		absStr := abs.String()

		host := strings.ToLower(abs.Hostname())
		if p.LinkedInURL == "" && strings.Contains(host, "linkedin.com") &&
			strings.Contains(abs.Path, "/company/") {
			p.LinkedInURL = absStr
		}

		text := strings.ToLower(collapseSpace(sel.Text()))
		target := strings.ToLower(absStr)
		if isCareersLink(text, target) && !seen["careers:"+absStr] {
			seen["careers:"+absStr] = true
			p.CareersLinks = append(p.CareersLinks, absStr)
		}

		if !sameHost(abs, base) || seen[absStr] {
			return
		}
		seen[absStr] = true
		p.Links = append(p.Links, absStr)
	})
}

func isCareersLink(text, target string) bool {
	for _, hint := range careersLinkHints {
		if strings.Contains(text, hint) || strings.Contains(target, hint) {
			return true
		}
	}
	return false
}

func sameHost(u, base *url.URL) bool {
	uh := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	bh := strings.TrimPrefix(strings.ToLower(base.Hostname()), "www.")
	return uh == bh
}

// collectStructuredData pulls JobPosting and Organization records out of
// JSON-LD blocks. Malformed blocks are skipped, not fatal: structured data
// in the wild is frequently broken.
func (p *Page) collectStructuredData(doc *goquery.Document) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var raw any
		if err := json.Unmarshal([]byte(sel.Text()), &raw); err != nil {
			return
		}
		p.walkJSONLD(raw)
	})
}

func (p *Page) walkJSONLD(node any) {
	switch v := node.(type) {
	case []any:
		for _, item := range v {
			p.walkJSONLD(item)
		}
	case map[string]any:
		switch jsonString(v["@type"]) {
		case "JobPosting":
			posting := JobPosting{
				Title:    jsonString(v["title"]),
				Location: jobLocation(v["jobLocation"]),
			}
			if org, ok := v["hiringOrganization"].(map[string]any); ok {
				posting.OrgName = jsonString(org["name"])
			}
			if posting.Title != "" {
				p.JobPostings = append(p.JobPostings, posting)
			}
		case "Organization", "Corporation", "LocalBusiness":
			org := Organization{
				Name:  jsonString(v["name"]),
				Email: strings.ToLower(jsonString(v["email"])),
				URL:   jsonString(v["url"]),
			}
			if org.Name != "" || org.Email != "" {
				p.Organizations = append(p.Organizations, org)
			}
		}
		if graph, ok := v["@graph"]; ok {
			p.walkJSONLD(graph)
		}
	}
}

func jobLocation(node any) string {
	loc, ok := node.(map[string]any)
	if !ok {
		if list, ok := node.([]any); ok && len(list) > 0 {
			return jobLocation(list[0])
		}
		return ""
	}
	if addr, ok := loc["address"].(map[string]any); ok {
		city := jsonString(addr["addressLocality"])
		region := jsonString(addr["addressRegion"])
		switch {
		case city != "" && region != "":
			return city + ", " + region
		case city != "":
			return city
		default:
			return region
		}
	}
	return jsonString(loc["name"])
}

func jsonString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
