package scorer

import (
	"encoding/base64"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ikihsan/location-companyemails/internal/model"
)

// maxPerPage caps how many candidates a single page may contribute.
const maxPerPage = 20

// contextWindow is how many characters around a match are inspected for
// placeholder markers and kept as evidence.
const contextWindow = 100

var (
	mailtoRe = regexp.MustCompile(`(?i)mailto:([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})`)
	plainRe  = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	jsonRe   = regexp.MustCompile(`(?i)"(?:email|e-mail|mail|contact_email|contactEmail)"\s*:\s*"([a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,})"`)

	// Obfuscation spellings people use to dodge harvesters. Captures are
	// reassembled into local@domain.tld form.
	obfuscatedRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)([a-zA-Z0-9._%+\-]+)\s*\[\s*at\s*\]\s*([a-zA-Z0-9.\-]+)\s*\[\s*dot\s*\]\s*([a-zA-Z]{2,})`),
		regexp.MustCompile(`(?i)([a-zA-Z0-9._%+\-]+)\s*\(\s*at\s*\)\s*([a-zA-Z0-9.\-]+)\s*\(\s*dot\s*\)\s*([a-zA-Z]{2,})`),
		regexp.MustCompile(`(?i)([a-zA-Z0-9._%+\-]+)\s+at\s+([a-zA-Z0-9.\-]+)\s+dot\s+([a-zA-Z]{2,})`),
	}

	base64MailRe = regexp.MustCompile(`data-(?:email|cfemail)="([A-Za-z0-9+/=]{8,})"`)
)

// Extractor pulls email candidates out of raw page content and scores them.
type Extractor struct {
	scorer *Scorer
}

// NewExtractor builds an Extractor scoring against companyDomain.
func NewExtractor(companyDomain string) *Extractor {
	return &Extractor{scorer: New(companyDomain)}
}

type rawHit struct {
	address string
	method  model.ExtractionMethod
	context string
}

// Extract finds, filters, and scores every address in content. The result
// is deduplicated by address, sorted by score descending, and capped.
func (e *Extractor) Extract(content, sourceURL string) []model.EmailCandidate {
	hits := collect(content)
	if len(hits) == 0 {
		return nil
	}

	now := time.Now().UTC()
	best := make(map[string]model.EmailCandidate, len(hits))
	for _, h := range hits {
		if hasPlaceholderContext(h.context) {
			continue
		}
		res := e.scorer.Score(h.address, content)
		if res.Rejected {
			zap.L().Debug("email rejected",
				zap.String("address", h.address),
				zap.String("reason", res.RejectReason))
			continue
		}
		cand := model.EmailCandidate{
			Address:       h.address,
			SourceURL:     sourceURL,
			Method:        h.method,
			Confidence:    liftConfidence(res.Confidence, h.method),
			Score:         res.Score,
			IsHRContact:   res.IsHRContact,
			DomainMatches: res.DomainMatches,
			DiscoveredAt:  now,
			Context:       h.context,
		}
		if prev, ok := best[cand.Address]; !ok || betterThan(cand, prev) {
			best[cand.Address] = cand
		}
	}

	out := make([]model.EmailCandidate, 0, len(best))
	for _, c := range best {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Address < out[j].Address
	})
	if len(out) > maxPerPage {
		out = out[:maxPerPage]
	}
	return out
}

// collect runs each extraction method over content in order of trust.
func collect(content string) []rawHit {
	var hits []rawHit

	for _, m := range mailtoRe.FindAllStringSubmatchIndex(content, -1) {
		addr := cleanAddress(content[m[2]:m[3]])
		hits = append(hits, rawHit{addr, model.MethodMailtoLink, window(content, m[0])})
	}
	for _, m := range jsonRe.FindAllStringSubmatchIndex(content, -1) {
		addr := cleanAddress(content[m[2]:m[3]])
		hits = append(hits, rawHit{addr, model.MethodEmbeddedJSON, window(content, m[0])})
	}
	for _, re := range obfuscatedRes {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			addr := cleanAddress(m[1] + "@" + m[2] + "." + m[3])
			loc := strings.Index(content, m[0])
			hits = append(hits, rawHit{addr, model.MethodObfuscated, window(content, loc)})
		}
	}
	for _, m := range base64MailRe.FindAllStringSubmatch(content, -1) {
		if decoded, ok := decodeBase64Mail(m[1]); ok {
			hits = append(hits, rawHit{cleanAddress(decoded), model.MethodObfuscated, ""})
		}
	}
	for _, m := range plainRe.FindAllStringIndex(content, -1) {
		addr := cleanAddress(content[m[0]:m[1]])
		hits = append(hits, rawHit{addr, model.MethodPlainRegex, window(content, m[0])})
	}

	valid := hits[:0]
	for _, h := range hits {
		if h.address != "" {
			valid = append(valid, h)
		}
	}
	return valid
}

func cleanAddress(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, ".,;:")
	if !strings.Contains(s, "@") || strings.Count(s, "@") != 1 {
		return ""
	}
	return s
}

func decodeBase64Mail(enc string) (string, bool) {
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", false
	}
	s := string(raw)
	if !plainRe.MatchString(s) {
		return "", false
	}
	return plainRe.FindString(s), true
}

// window returns a cleaned slice of content around offset, used as the
// candidate's surrounding evidence.
func window(content string, offset int) string {
	if offset < 0 {
		return ""
	}
	start := offset - contextWindow
	if start < 0 {
		start = 0
	}
	end := offset + contextWindow
	if end > len(content) {
		end = len(content)
	}
	ctx := strings.Join(strings.Fields(content[start:end]), " ")
	if len(ctx) > 2*contextWindow {
		ctx = ctx[:2*contextWindow]
	}
	return ctx
}

// hasPlaceholderContext reports whether the surrounding text marks the
// address as an example or form hint rather than a real contact.
func hasPlaceholderContext(ctx string) bool {
	if ctx == "" {
		return false
	}
	lower := strings.ToLower(ctx)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// liftConfidence raises the score bucket for methods that are inherently
// reliable: a mailto link is an explicit publication of the address.
func liftConfidence(c model.Confidence, m model.ExtractionMethod) model.Confidence {
	if m == model.MethodMailtoLink && c.Rank() < model.ConfidenceHigh.Rank() {
		if c == model.ConfidenceLow {
			return model.ConfidenceMedium
		}
		return model.ConfidenceHigh
	}
	return c
}

func betterThan(a, b model.EmailCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Confidence.Rank() > b.Confidence.Rank()
}
