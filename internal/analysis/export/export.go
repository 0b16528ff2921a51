// Package export writes analysis results as JSON, CSV or XLSX.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported export format.
var Formats = []Format{FormatJSON, FormatCSV, FormatXLSX}

// Columns is the header shared by the tabular formats.
var Columns = []string{"name", "type", "content", "reason", "confidence", "recommendation"}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported export format %q (expected json, csv or xlsx)", s)
}

// Options controls which rows the tabular formats include.
type Options struct {
	// All exports every analysed record instead of only the garbage ones.
	All bool
}

// Write encodes res to w in the given format.
func Write(w io.Writer, res *domain.Result, f Format, opts Options) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatCSV:
		return WriteCSV(w, Rows(res, opts))
	case FormatXLSX:
		return WriteXLSX(w, res, Rows(res, opts))
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// WriteJSON writes the whole result as indented JSON.
func WriteJSON(w io.Writer, res *domain.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// Rows returns the export rows for res: the garbage records by default, or
// every record when opts.All is set.
func Rows(res *domain.Result, opts Options) []domain.ExportRow {
	if opts.All {
		return res.ExportData
	}
	rows := make([]domain.ExportRow, 0, len(res.Results))
	for _, ev := range res.Results {
		rows = append(rows, domain.RowFor(ev))
	}
	return rows
}

func rowValues(r domain.ExportRow) []string {
	return []string{
		r.Name,
		r.Type,
		r.Content,
		r.Reason,
		strconv.FormatFloat(r.Confidence, 'f', 2, 64),
		string(r.Recommendation),
	}
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Filename returns the default export file name for a scan of domainName.
func Filename(domainName string, f Format, at time.Time) string {
	name := unsafeFilename.ReplaceAllString(strings.ToLower(domainName), "_")
	if name == "" {
		name = "domain"
	}
	return fmt.Sprintf("dnsweeper-%s-%s.%s", name, at.Format("20060102-150405"), f)
}
