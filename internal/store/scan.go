package store

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/ikihsan/location-companyemails/internal/dedup"
	"github.com/ikihsan/location-companyemails/internal/model"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var (
		r           model.Run
		locJSON     string
		roleJSON    string
		status      string
		summaryJSON *string
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&r.ID, &locJSON, &roleJSON, &status, &summaryJSON, &r.Error, &createdAt, &updatedAt); err != nil {
		return nil, eris.Wrap(err, "store: scan run")
	}

	if err := json.Unmarshal([]byte(locJSON), &r.Locations); err != nil {
		return nil, eris.Wrap(err, "store: decode run locations")
	}
	if err := json.Unmarshal([]byte(roleJSON), &r.Roles); err != nil {
		return nil, eris.Wrap(err, "store: decode run roles")
	}
	if summaryJSON != nil && *summaryJSON != "" && *summaryJSON != "null" {
		var sum model.RunSummary
		if err := json.Unmarshal([]byte(*summaryJSON), &sum); err != nil {
			return nil, eris.Wrap(err, "store: decode run summary")
		}
		r.Summary = &sum
	}

	r.Status = model.RunStatus(status)
	r.CreatedAt = createdAt.UTC()
	r.UpdatedAt = updatedAt.UTC()
	return &r, nil
}

// companyKey is the stable per-company key inside one run's archive.
func companyKey(c *model.CompanyRecord) string {
	return dedup.Digest(c)
}
