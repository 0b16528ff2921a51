package export

import (
	"encoding/csv"
	"io"

	"nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
)

// WriteCSV writes rows under the Columns header.
func WriteCSV(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(rowValues(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
