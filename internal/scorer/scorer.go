// Package scorer classifies email addresses found on company pages:
// rejection of generic and board-owned addresses first, then an additive
// score that ranks recruiter-facing contacts ahead of everything else.
package scorer

import (
	"regexp"
	"strings"

	"github.com/ikihsan/location-companyemails/internal/model"
)

// Thresholds for mapping a numeric score into a confidence bucket.
const (
	highThreshold   = 100
	mediumThreshold = 50
)

const (
	minLocalLen = 2
	maxLocalLen = 50
)

// separators that terminate a local-part token for boundary matching.
const tokenSeparators = "._-+"

var personNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[a-z]{2,12}\.[a-z]{2,15}@`),
	regexp.MustCompile(`^[a-z]{2,12}_[a-z]{2,15}@`),
	regexp.MustCompile(`^[a-z]{2,15}[0-9]{0,3}@`),
	regexp.MustCompile(`^[a-z]\.[a-z]{2,15}@`),
	regexp.MustCompile(`^[a-z]{2,15}\.[a-z]@`),
}

var filePatternRe = regexp.MustCompile(`@\d+x\.(png|jpe?g|gif|webp|svg)$`)

// Result is the outcome of scoring one address against one page.
type Result struct {
	Score         int
	Confidence    model.Confidence
	IsHRContact   bool
	DomainMatches bool
	Rejected      bool
	RejectReason  string
}

// Scorer scores addresses in the context of a single company. The zero
// value is not usable; construct with New.
type Scorer struct {
	companyDomain string
}

// New returns a Scorer for a company whose canonical site host is domain.
// An empty domain disables the domain-match bonus.
func New(companyDomain string) *Scorer {
	return &Scorer{companyDomain: strings.ToLower(strings.TrimPrefix(companyDomain, "www."))}
}

// Score classifies address, using the surrounding page text to decide the
// HR-page bonus. Rejection rules run first and short-circuit.
func (s *Scorer) Score(address, pageText string) Result {
	address = strings.ToLower(strings.TrimSpace(address))
	local, domain, ok := splitAddress(address)
	if !ok {
		return Result{Rejected: true, RejectReason: "malformed address"}
	}

	if reason := rejectReason(local, domain, address); reason != "" {
		return Result{Rejected: true, RejectReason: reason}
	}

	score := 0
	isHR := false

	if bonus, hit := hrBonus(local); hit {
		score += bonus
		isHR = true
	}
	if isHRPage(pageText) {
		score += 30
	}
	domainMatches := s.domainMatches(domain)
	if domainMatches {
		score += 50
	}
	if looksLikePerson(address) {
		score += 40
	}
	if strings.HasSuffix(domain, ".co.in") || strings.HasSuffix(domain, ".in") {
		score += 10
	}
	if !isFreeMail(domain) {
		score += 20
	}
	if score < 10 {
		score = 10
	}

	return Result{
		Score:         score,
		Confidence:    bucket(score),
		IsHRContact:   isHR,
		DomainMatches: domainMatches,
	}
}

// IsHRPage reports whether the page text reads as careers/HR content:
// at least two distinct indicator keywords must appear.
func IsHRPage(text string) bool { return isHRPage(text) }

func isHRPage(text string) bool {
	lower := strings.ToLower(text)
	hits := 0
	for _, ind := range hrPageIndicators {
		if strings.Contains(lower, ind) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}

func bucket(score int) model.Confidence {
	switch {
	case score >= highThreshold:
		return model.ConfidenceHigh
	case score >= mediumThreshold:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func splitAddress(address string) (local, domain string, ok bool) {
	at := strings.LastIndex(address, "@")
	if at <= 0 || at == len(address)-1 {
		return "", "", false
	}
	return address[:at], address[at+1:], true
}

// rejectReason returns a non-empty reason when the address can never be a
// useful recruiter contact. Rules run from cheapest to most specific.
func rejectReason(local, domain, address string) string {
	if filePatternRe.MatchString(address) {
		return "asset filename, not an address"
	}
	if len(local) < minLocalLen || len(local) > maxLocalLen {
		return "local part length out of range"
	}
	for _, d := range rejectedDomains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return "rejected domain " + d
		}
	}
	for _, p := range rejectedPrefixes {
		if tokenMatches(local, p) {
			return "rejected prefix " + p
		}
	}
	return ""
}

// tokenMatches reports whether local equals token or starts with token
// immediately followed by a separator. Plain substring hits do not count,
// so "hr-info" is not caught by "info".
func tokenMatches(local, token string) bool {
	if local == token {
		return true
	}
	if strings.HasPrefix(local, token) && len(local) > len(token) {
		return strings.ContainsRune(tokenSeparators, rune(local[len(token)]))
	}
	return false
}

// hrBonus scans the priority table in order. An exact or boundary-prefix
// match takes the full bonus; otherwise the highest-priority substring
// match takes half.
func hrBonus(local string) (int, bool) {
	half := 0
	for _, p := range hrPrefixes {
		if tokenMatches(local, p.token) {
			return p.bonus, true
		}
		if half == 0 && strings.Contains(local, p.token) {
			half = p.bonus / 2
		}
	}
	if half > 0 {
		return half, true
	}
	return 0, false
}

func (s *Scorer) domainMatches(domain string) bool {
	if s.companyDomain == "" {
		return false
	}
	return domain == s.companyDomain || strings.HasSuffix(domain, "."+s.companyDomain)
}

func looksLikePerson(address string) bool {
	for _, re := range personNamePatterns {
		if re.MatchString(address) {
			return true
		}
	}
	return false
}

func isFreeMail(domain string) bool {
	for _, p := range freeMailProviders {
		if strings.Contains(domain, p) {
			return true
		}
	}
	return false
}
