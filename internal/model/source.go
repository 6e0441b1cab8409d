package model

// SourceType classifies where a discovery source gets its data.
type SourceType string

const (
	SourceTypeJobBoard     SourceType = "job_board"
	SourceTypeSearchEngine SourceType = "search_engine"
	SourceTypeDirectory    SourceType = "directory"
)

// DiscoverySource describes a pluggable discovery adapter. Registered at
// startup; only the Enabled flag changes during a run.
type DiscoverySource struct {
	Name               string     `json:"name" yaml:"name"`
	BaseURL            string     `json:"base_url" yaml:"base_url"`
	Type               SourceType `json:"type" yaml:"type"`
	RequiresJS         bool       `json:"requires_js" yaml:"requires_js"`
	RateLimitPerMinute int        `json:"rate_limit_per_minute" yaml:"rate_limit_per_minute"`
	Enabled            bool       `json:"enabled" yaml:"enabled"`
}
