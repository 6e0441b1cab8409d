package model

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// ExtractionMethod tags how an email address was pulled out of a page.
type ExtractionMethod string

const (
	MethodMailtoLink   ExtractionMethod = "mailto_link"
	MethodPlainRegex   ExtractionMethod = "plain_regex"
	MethodObfuscated   ExtractionMethod = "obfuscated_pattern"
	MethodEmbeddedJSON ExtractionMethod = "embedded_json"
)

// Confidence is an ordered tier for extracted emails.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank converts a confidence tier to a comparable integer (higher is better).
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// EmailCandidate is one extracted email address with provenance.
type EmailCandidate struct {
	Address       string           `json:"address"`
	SourceURL     string           `json:"source_url"`
	Method        ExtractionMethod `json:"extraction_method"`
	Confidence    Confidence       `json:"confidence"`
	Score         int              `json:"score"`
	IsHRContact   bool             `json:"is_hr_contact"`
	DomainMatches bool             `json:"domain_matches_company"`
	DiscoveredAt  time.Time        `json:"discovered_at"`

	// Context is the surrounding-text snippet used for placeholder
	// detection during extraction. Not persisted.
	Context string `json:"-"`
}

// Key returns the dedup key: uniqueness is (address, source page), not
// address alone. The same address on two pages is two candidates.
func (e EmailCandidate) Key() string {
	sum := sha256.Sum256([]byte(strings.ToLower(e.Address) + ":" + e.SourceURL))
	return hex.EncodeToString(sum[:])[:16]
}

// CompanyRecord is a discovered company. Created by a source adapter from a
// single scraped page, merged on duplicate discovery, mutated by enrichment,
// then frozen once handed to the output writers.
type CompanyRecord struct {
	Name          string           `json:"name"`
	Location      string           `json:"location"`
	Website       string           `json:"website,omitempty"`
	CareersURL    string           `json:"careers_url,omitempty"`
	LinkedInURL   string           `json:"linkedin_url,omitempty"`
	HiringRoles   []string         `json:"hiring_roles"`
	Emails        []EmailCandidate `json:"emails"`
	SourceURL     string           `json:"source_url"`
	SourceName    string           `json:"source_name,omitempty"`
	CrawlDepth    int              `json:"crawl_depth"`
	DiscoveredAt  time.Time        `json:"discovered_at"`
	LastUpdatedAt time.Time        `json:"last_updated_at"`
}

// NewCompanyRecord creates a record with discovery timestamps set.
func NewCompanyRecord(name, location, sourceURL string) *CompanyRecord {
	now := time.Now().UTC()
	return &CompanyRecord{
		Name:          strings.TrimSpace(name),
		Location:      strings.TrimSpace(location),
		SourceURL:     sourceURL,
		DiscoveredAt:  now,
		LastUpdatedAt: now,
	}
}

func (c *CompanyRecord) touch() {
	c.LastUpdatedAt = time.Now().UTC()
}

// AddRole appends a hiring role, preserving insertion order and suppressing
// duplicates (case-insensitive). Returns true if the role was added.
func (c *CompanyRecord) AddRole(role string) bool {
	role = strings.TrimSpace(role)
	if role == "" {
		return false
	}
	for _, existing := range c.HiringRoles {
		if strings.EqualFold(existing, role) {
			return false
		}
	}
	c.HiringRoles = append(c.HiringRoles, role)
	c.touch()
	return true
}

// AddEmail appends an email candidate unless the same (address, source URL)
// pair is already recorded. Returns true if the candidate was added.
func (c *CompanyRecord) AddEmail(e EmailCandidate) bool {
	key := e.Key()
	for _, existing := range c.Emails {
		if existing.Key() == key {
			return false
		}
	}
	if e.DiscoveredAt.IsZero() {
		e.DiscoveredAt = time.Now().UTC()
	}
	c.Emails = append(c.Emails, e)
	c.touch()
	return true
}

// Merge folds another record for the same entity into this one. Roles and
// emails are unioned; URLs are filled only when absent, never downgraded.
func (c *CompanyRecord) Merge(other *CompanyRecord) {
	if other == nil {
		return
	}
	for _, role := range other.HiringRoles {
		c.AddRole(role)
	}
	for _, e := range other.Emails {
		c.AddEmail(e)
	}
	if c.Website == "" {
		c.Website = other.Website
	}
	if c.CareersURL == "" {
		c.CareersURL = other.CareersURL
	}
	if c.LinkedInURL == "" {
		c.LinkedInURL = other.LinkedInURL
	}
	c.touch()
}

// BestContact returns the most actionable recruiting email, or nil if the
// record has none. HR-classified candidates win over non-HR; ties break on
// score, then confidence tier.
func (c *CompanyRecord) BestContact() *EmailCandidate {
	if len(c.Emails) == 0 {
		return nil
	}
	sorted := make([]EmailCandidate, len(c.Emails))
	copy(sorted, c.Emails)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IsHRContact != b.IsHRContact {
			return a.IsHRContact
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Confidence.Rank() > b.Confidence.Rank()
	})
	return &sorted[0]
}

// UniqueAddresses returns the distinct lower-cased addresses across all
// candidates, preserving first-seen order.
func (c *CompanyRecord) UniqueAddresses() []string {
	seen := make(map[string]bool, len(c.Emails))
	var out []string
	for _, e := range c.Emails {
		addr := strings.ToLower(e.Address)
		if !seen[addr] {
			seen[addr] = true
			out = append(out, addr)
		}
	}
	return out
}
