// Package source discovers companies that are hiring: each adapter scrapes
// one kind of external source (job portals, search engines, a static seed
// directory) and streams candidate records to the orchestrator.
package source

import (
	"context"
	"regexp"
	"strings"

	"github.com/ikihsan/location-companyemails/internal/model"
)

// Source is one discovery adapter. Adapters share no mutable state with
// each other; the orchestrator owns identity resolution.
type Source interface {
	// Name is the adapter's registry key.
	Name() string

	// Info describes the adapter for listings and config overlays.
	Info() model.DiscoverySource

	// Search streams candidate companies for the given location and
	// roles. Each call returns a fresh channel, closed when the adapter
	// is done or ctx is cancelled. maxResults is a soft cap: the adapter
	// may finish the page it is on but never wildly overshoots. Records
	// are deduplicated by name within the call.
	Search(ctx context.Context, location string, roles []string, maxResults int) (<-chan model.CompanyRecord, error)

	// Details enriches a record in place, best effort. A failure leaves
	// the record unchanged and is never returned as an error.
	Details(ctx context.Context, c *model.CompanyRecord) error
}

// consecutiveEmptyLimit ends pagination after this many pages in a row
// yield nothing: the source is exhausted or is serving us chaff.
const consecutiveEmptyLimit = 2

var (
	htmlEntityRe = regexp.MustCompile(`&[a-zA-Z]+;|&#\d+;`)

	// invalidNameRes match strings that job pages surface where a company
	// name should be but never are one.
	invalidNameRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(javascript|python|java|react|angular|node|vue|php|ruby|golang|rust)$`),
		regexp.MustCompile(`(?i)^(remote|full.?time|part.?time|contract|freelance|hybrid|onsite)$`),
		regexp.MustCompile(`(?i)^(posted|days?\s+ago|just\s+posted|today|yesterday)$`),
		regexp.MustCompile(`(?i)^(apply|save|share|report|hide)$`),
		regexp.MustCompile(`(?i)^(salary|location|job\s+type|experience|skills?)$`),
		regexp.MustCompile(`(?i)^(description|requirements|qualifications|benefits)$`),
		regexp.MustCompile(`(?i)^(senior|junior|lead|principal|staff|intern)$`),
		regexp.MustCompile(`^\d+$`),
		regexp.MustCompile(`^[^a-zA-Z]+$`),
	}

	trailingJunk = []string{
		" - remote", " (remote)", " | remote",
		" - hiring", " is hiring", " hiring",
	}
)

// cleanCompanyName strips HTML entities, collapses whitespace, and trims
// listing decorations from an extracted name.
func cleanCompanyName(name string) string {
	name = htmlEntityRe.ReplaceAllString(name, "")
	name = strings.Join(strings.Fields(name), " ")

	lower := strings.ToLower(name)
	for _, junk := range trailingJunk {
		if strings.HasSuffix(lower, junk) {
			name = strings.TrimSpace(name[:len(name)-len(junk)])
			lower = strings.ToLower(name)
		}
	}
	return name
}

// isValidCompanyName filters extraction noise: UI labels, tech keywords,
// bare numbers.
func isValidCompanyName(name string) bool {
	if len(name) < 3 || len(name) > 100 {
		return false
	}
	for _, re := range invalidNameRes {
		if re.MatchString(name) {
			return false
		}
	}
	return true
}

var indianLocationTokens = []string{
	"india", "kerala", "bangalore", "bengaluru", "mumbai", "delhi",
	"hyderabad", "chennai", "pune", "kolkata", "kochi", "trivandrum",
	"thiruvananthapuram", "ahmedabad", "jaipur", "lucknow", "noida",
	"gurgaon", "gurugram", "chandigarh", "indore", "bhopal", "nagpur",
	"coimbatore", "mysore", "kozhikode",
}

// isIndianLocation decides which portal set a search uses.
func isIndianLocation(location string) bool {
	lower := strings.ToLower(location)
	for _, tok := range indianLocationTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// send delivers one record unless the context is done. Reports whether the
// record was accepted.
func send(ctx context.Context, out chan<- model.CompanyRecord, c model.CompanyRecord) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- c:
		return true
	}
}
