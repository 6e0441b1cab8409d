package source

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ikihsan/location-companyemails/internal/model"
)

// SeedEntry is one known company in the static directory.
type SeedEntry struct {
	Name    string `yaml:"name"`
	Website string `yaml:"website"`
	Careers string `yaml:"careers,omitempty"`
}

// seedCatalog maps a region key to its known tech employers. The built-in
// set covers the regions the pipeline is most used for; sources.yaml can
// extend or replace regions.
var seedCatalog = map[string][]SeedEntry{
	"kerala": {
		{Name: "IBS Software", Website: "https://www.ibsplc.com", Careers: "https://www.ibsplc.com/careers"},
		{Name: "UST Global", Website: "https://www.ust.com", Careers: "https://www.ust.com/en/careers"},
		{Name: "Suntec Business Solutions", Website: "https://www.suntecgroup.com", Careers: "https://www.suntecgroup.com/careers"},
		{Name: "QBurst", Website: "https://www.qburst.com", Careers: "https://www.qburst.com/en-in/careers"},
		{Name: "Experion Technologies", Website: "https://experionglobal.com", Careers: "https://experionglobal.com/careers"},
		{Name: "Fingent", Website: "https://www.fingent.com", Careers: "https://www.fingent.com/careers"},
		{Name: "RapidValue Solutions", Website: "https://www.rapidvaluesolutions.com", Careers: "https://www.rapidvaluesolutions.com/careers"},
		{Name: "Cabot Technology Solutions", Website: "https://www.cabotsolutions.com", Careers: "https://www.cabotsolutions.com/careers"},
	},
	"bangalore": {
		{Name: "Infosys", Website: "https://www.infosys.com", Careers: "https://www.infosys.com/careers"},
		{Name: "Wipro", Website: "https://www.wipro.com", Careers: "https://careers.wipro.com"},
		{Name: "Mindtree", Website: "https://www.ltimindtree.com", Careers: "https://www.ltimindtree.com/careers"},
		{Name: "Flipkart", Website: "https://www.flipkart.com", Careers: "https://www.flipkartcareers.com"},
		{Name: "Swiggy", Website: "https://www.swiggy.com", Careers: "https://careers.swiggy.com"},
		{Name: "Razorpay", Website: "https://razorpay.com", Careers: "https://razorpay.com/jobs"},
	},
	"pune": {
		{Name: "Persistent Systems", Website: "https://www.persistent.com", Careers: "https://www.persistent.com/careers"},
		{Name: "Zensar Technologies", Website: "https://www.zensar.com", Careers: "https://www.zensar.com/careers"},
		{Name: "Icertis", Website: "https://www.icertis.com", Careers: "https://www.icertis.com/company/careers"},
	},
	"berlin": {
		{Name: "Zalando", Website: "https://jobs.zalando.com", Careers: "https://jobs.zalando.com/en/jobs"},
		{Name: "N26", Website: "https://n26.com", Careers: "https://n26.com/en/careers"},
		{Name: "HelloFresh", Website: "https://www.hellofresh.com", Careers: "https://www.hellofresh.com/careers"},
		{Name: "Babbel", Website: "https://www.babbel.com", Careers: "https://www.babbel.com/careers"},
	},
	"london": {
		{Name: "Revolut", Website: "https://www.revolut.com", Careers: "https://www.revolut.com/careers"},
		{Name: "Monzo", Website: "https://monzo.com", Careers: "https://monzo.com/careers"},
		{Name: "Starling Bank", Website: "https://www.starlingbank.com", Careers: "https://www.starlingbank.com/careers"},
	},
	"default": {
		{Name: "GitLab", Website: "https://about.gitlab.com", Careers: "https://about.gitlab.com/jobs"},
		{Name: "Automattic", Website: "https://automattic.com", Careers: "https://automattic.com/work-with-us"},
		{Name: "Zapier", Website: "https://zapier.com", Careers: "https://zapier.com/jobs"},
		{Name: "Doist", Website: "https://doist.com", Careers: "https://doist.com/careers"},
	},
}

// regionAliases fold city-level inputs onto catalog keys.
var regionAliases = map[string]string{
	"kochi":              "kerala",
	"cochin":             "kerala",
	"trivandrum":         "kerala",
	"thiruvananthapuram": "kerala",
	"kozhikode":          "kerala",
	"calicut":            "kerala",
	"bengaluru":          "bangalore",
	"blr":                "bangalore",
}

// DirectorySource serves the static seed directory: a fallback that
// guarantees well-known employers appear even when portals block us.
type DirectorySource struct {
	catalog map[string][]SeedEntry
}

// NewDirectorySource creates the directory adapter over the built-in
// catalog.
func NewDirectorySource() *DirectorySource {
	return &DirectorySource{catalog: seedCatalog}
}

func (s *DirectorySource) Name() string { return "directory" }

func (s *DirectorySource) Info() model.DiscoverySource {
	return model.DiscoverySource{
		Name:    s.Name(),
		Type:    model.SourceTypeDirectory,
		Enabled: true,
	}
}

// MergeSeeds overlays extra regions onto the catalog. A region present in
// both keeps the built-in entries and appends the new ones.
func (s *DirectorySource) MergeSeeds(extra map[string][]SeedEntry) {
	if len(extra) == 0 {
		return
	}
	merged := make(map[string][]SeedEntry, len(s.catalog)+len(extra))
	for k, v := range s.catalog {
		merged[k] = v
	}
	for region, entries := range extra {
		key := strings.ToLower(strings.TrimSpace(region))
		merged[key] = append(append([]SeedEntry(nil), merged[key]...), entries...)
	}
	s.catalog = merged
}

func (s *DirectorySource) Search(ctx context.Context, location string, roles []string, maxResults int) (<-chan model.CompanyRecord, error) {
	out := make(chan model.CompanyRecord)

	go func() {
		defer close(out)

		entries := s.entriesFor(location)
		zap.L().Debug("directory seeds selected",
			zap.String("location", location),
			zap.Int("entries", len(entries)))

		sent := 0
		for _, entry := range entries {
			if ctx.Err() != nil || sent >= maxResults {
				return
			}
			rec := model.NewCompanyRecord(entry.Name, location, entry.Website)
			rec.SourceName = s.Name()
			rec.Website = entry.Website
			rec.CareersURL = entry.Careers
			for _, role := range roles {
				rec.AddRole(role)
			}
			if !send(ctx, out, *rec) {
				return
			}
			sent++
		}
	}()

	return out, nil
}

// Details is a no-op: seed entries already carry their URLs.
func (s *DirectorySource) Details(ctx context.Context, c *model.CompanyRecord) error {
	return nil
}

// entriesFor matches the location against region keys and aliases by
// token. Unmatched locations fall back to the location-independent set.
func (s *DirectorySource) entriesFor(location string) []SeedEntry {
	lower := strings.ToLower(location)

	for region := range s.catalog {
		if region != "default" && strings.Contains(lower, region) {
			return s.catalog[region]
		}
	}
	for alias, region := range regionAliases {
		if strings.Contains(lower, alias) {
			if entries, ok := s.catalog[region]; ok {
				return entries
			}
		}
	}
	return s.catalog["default"]
}
