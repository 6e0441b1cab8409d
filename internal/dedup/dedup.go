// Package dedup resolves company identity across discovery sources.
//
// Matching is deliberately coarse: exact normalized-name match, or exact
// digest of (normalized name, normalized location). Near-miss names that
// differ by a single character are treated as distinct entities; recall is
// traded for zero false merges.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ikihsan/location-companyemails/internal/model"
	"github.com/ikihsan/location-companyemails/internal/normalize"
)

// Resolver maintains the per-run seen-set. Safe for concurrent use: multiple
// discovery workers write to it under one mutex.
type Resolver struct {
	mu         sync.Mutex
	seenHashes map[string]bool
	nameIndex  map[string]string // normalized name -> hash
	hostIndex  map[string]string // normalized website host -> hash
}

// NewResolver creates an empty resolver. Identity state is per-run; nothing
// persists across invocations.
func NewResolver() *Resolver {
	return &Resolver{
		seenHashes: make(map[string]bool),
		nameIndex:  make(map[string]string),
		hostIndex:  make(map[string]string),
	}
}

// Digest returns the stable identity hash for a record: a sha256-derived
// digest of its normalized name and location.
func Digest(c *model.CompanyRecord) string {
	content := normalize.Name(c.Name) + ":" + strings.ToLower(strings.TrimSpace(c.Location))
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:16]
}

// IsDuplicate reports whether the record refers to an entity already seen.
// A normalized-name collision alone is sufficient even when the location or
// URL differ: the same company is frequently re-discovered via different job
// postings with slightly different location strings.
func (r *Resolver) IsDuplicate(c *model.CompanyRecord) bool {
	hash := Digest(c)
	name := normalize.Name(c.Name)
	host := normalize.Host(c.Website)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seenHashes[hash] {
		return true
	}
	if name != "" {
		if _, ok := r.nameIndex[name]; ok {
			return true
		}
	}
	if host != "" {
		if _, ok := r.hostIndex[host]; ok {
			return true
		}
	}
	return false
}

// Add registers a record in the seen-set.
func (r *Resolver) Add(c *model.CompanyRecord) {
	hash := Digest(c)
	name := normalize.Name(c.Name)
	host := normalize.Host(c.Website)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seenHashes[hash] = true
	if name != "" {
		r.nameIndex[name] = hash
	}
	if host != "" {
		r.hostIndex[host] = hash
	}

	zap.L().Debug("dedup: registered company",
		zap.String("name", c.Name),
		zap.String("hash", hash),
	)
}

// Len returns the number of distinct entities registered.
func (r *Resolver) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seenHashes)
}
