package model

import "time"

// RunStatus represents the current state of a scraping run.
type RunStatus string

const (
	RunStatusRunning     RunStatus = "running"
	RunStatusComplete    RunStatus = "complete"
	RunStatusInterrupted RunStatus = "interrupted"
	RunStatusFailed      RunStatus = "failed"
)

// RunSummary holds the final counts of a run. A run that found nothing is
// still a successful run with zero counts.
type RunSummary struct {
	Locations           []string          `json:"locations"`
	Roles               []string          `json:"roles"`
	CompaniesDiscovered int               `json:"companies_discovered"`
	CompaniesWithEmails int               `json:"companies_with_emails"`
	TotalEmails         int               `json:"total_emails"`
	OutputFiles         map[string]string `json:"output_files,omitempty"`
	ElapsedSeconds      float64           `json:"elapsed_seconds"`
}

// Run is one recorded invocation of the scrape pipeline.
type Run struct {
	ID        string      `json:"id"`
	Locations []string    `json:"locations"`
	Roles     []string    `json:"roles"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
