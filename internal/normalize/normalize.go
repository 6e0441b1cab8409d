// Package normalize canonicalizes company names and website hosts so that
// records from different sources can be compared for identity.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes lists corporate/legal tokens stripped during name
// normalization, both as trailing tokens and embedded word tokens.
var legalSuffixes = []string{
	"pvt", "ltd", "limited", "llp", "llc", "inc", "incorporated",
	"corp", "corporation", "co", "company", "gmbh", "ag", "se", "ug",
	"plc", "sa", "bv", "oy", "ab",
	"technologies", "technology", "tech", "solutions", "software",
	"systems", "services", "labs", "consulting", "consultancy",
	"india", "global", "international", "group",
}

var (
	suffixRe     = regexp.MustCompile(`\b(` + strings.Join(legalSuffixes, "|") + `)\b\.?`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)

	// Strips combining marks after NFD decomposition, so accented names
	// collide with their plain-ASCII spellings.
	foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Name standardizes a company name into a comparison key:
//  1. Fold diacritics, lower-case, trim
//  2. Strip all non-alphanumeric characters
//  3. Strip legal/corporate suffix tokens (pvt, ltd, gmbh, technologies, ...)
//  4. Collapse whitespace
//
// Punctuation goes first: removing it can fuse characters into a suffix
// token (for example "In-c" into "inc"), and the suffix pass must see the
// final token stream or a second call would strip further.
//
// The result is idempotent: Name(Name(s)) == Name(s).
func Name(name string) string {
	folded, _, err := transform.String(foldTransform, name)
	if err == nil {
		name = folded
	}
	name = strings.ToLower(strings.TrimSpace(name))
	name = nonAlnumRe.ReplaceAllString(name, "")
	name = suffixRe.ReplaceAllString(name, "")
	name = multiSpaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// Host reduces a URL to its comparable host key: lower-cased authority with
// scheme, credentials, leading "www.", port, and path/query stripped.
func Host(rawURL string) string {
	h := strings.ToLower(strings.TrimSpace(rawURL))
	if i := strings.Index(h, "://"); i >= 0 {
		h = h[i+3:]
	}
	if i := strings.IndexAny(h, "/?#"); i >= 0 {
		h = h[:i]
	}
	if i := strings.LastIndex(h, "@"); i >= 0 {
		h = h[i+1:]
	}
	if i := strings.Index(h, ":"); i >= 0 {
		h = h[:i]
	}
	return strings.TrimPrefix(h, "www.")
}
