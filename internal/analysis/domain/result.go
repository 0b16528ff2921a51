package domain

import (
	"math"
	"time"
)

// CostPerRecord is the assumed monthly cost, in dollars, of keeping one
// garbage record around.
const CostPerRecord = 0.01

// Summary counts the outcome of a domain scan.
type Summary struct {
	TotalRecords      int `json:"totalRecords"`
	GarbageCount      int `json:"garbageCount"`
	SafeToDeleteCount int `json:"safeToDeleteCount"`
	ReviewNeededCount int `json:"reviewNeededCount"`
}

// ExportRow is the flat per-record view used for spreadsheets.
type ExportRow struct {
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Content        string         `json:"content"`
	Reason         string         `json:"reason"`
	Confidence     float64        `json:"confidence"`
	Recommendation Recommendation `json:"recommendation"`
}

// Result is the outcome of analysing every record in a domain.
type Result struct {
	Domain                  string             `json:"domain"`
	ScanDate                time.Time          `json:"scanDate"`
	Summary                 Summary            `json:"summary"`
	Results                 []RecordEvaluation `json:"results"`
	EstimatedMonthlySavings float64            `json:"estimatedMonthlySavings"`
	ExportData              []ExportRow        `json:"exportData"`
}

// RowFor flattens an evaluation into an export row.
func RowFor(ev RecordEvaluation) ExportRow {
	return ExportRow{
		Name:           ev.Record.Name,
		Type:           string(ev.Record.Type),
		Content:        ev.Record.Content,
		Reason:         ev.Reason,
		Confidence:     ev.Confidence,
		Recommendation: ev.Recommendation,
	}
}

// Savings returns the estimated monthly savings for n garbage records,
// rounded to cents.
func Savings(n int) float64 {
	return math.Round(float64(n)*CostPerRecord*100) / 100
}
