// Package scanstore persists completed domain scans so they can be listed,
// compared and re-exported later.
package scanstore

import (
	"time"

	"github.com/google/uuid"

	adomain "nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
)

// Scan is one stored analysis run.
type Scan struct {
	ID                      string          `json:"id"`
	Domain                  string          `json:"domain"`
	Provider                string          `json:"provider"`
	ScanDate                time.Time       `json:"scanDate"`
	Summary                 adomain.Summary `json:"summary"`
	EstimatedMonthlySavings float64         `json:"estimatedMonthlySavings"`
	DurationMs              int64           `json:"durationMs"`

	// Result is only populated by Get and Latest. Listings leave it nil.
	Result *adomain.Result `json:"result,omitempty"`
}

// DomainEntry summarises the scan history of one domain.
type DomainEntry struct {
	Name      string    `json:"name"`
	Provider  string    `json:"provider"`
	LastScan  time.Time `json:"lastScan"`
	ScanCount int       `json:"scanCount"`
}

// NewScan wraps a finished analysis for storage under a fresh ID.
func NewScan(provider string, res *adomain.Result, took time.Duration) *Scan {
	return &Scan{
		ID:                      uuid.NewString(),
		Domain:                  res.Domain,
		Provider:                provider,
		ScanDate:                res.ScanDate,
		Summary:                 res.Summary,
		EstimatedMonthlySavings: res.EstimatedMonthlySavings,
		DurationMs:              took.Milliseconds(),
		Result:                  res,
	}
}

// ShortID is the first block of the scan ID, enough to pick a scan by hand.
func (s *Scan) ShortID() string {
	if len(s.ID) < 8 {
		return s.ID
	}
	return s.ID[:8]
}
