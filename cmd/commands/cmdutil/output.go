package cmdutil

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	adomain "nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	"nathanbeddoewebdev/dnsweeper/internal/analysis/export"
	"nathanbeddoewebdev/dnsweeper/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// FormatTable renders a human-readable summary instead of an export.
const FormatTable = "table"

// OutputOptions selects how a result is written.
type OutputOptions struct {
	Format string
	// Output is a file path; empty or "-" means stdout, except for xlsx
	// which falls back to a generated file name.
	Output string
	All    bool
}

// FormatNames lists the accepted --format values.
func FormatNames() []string {
	names := []string{FormatTable}
	for _, f := range export.Formats {
		names = append(names, string(f))
	}
	return names
}

// ValidateFormat rejects unknown --format values before any work is done.
func ValidateFormat(format string) error {
	if strings.EqualFold(strings.TrimSpace(format), FormatTable) {
		return nil
	}
	if _, err := export.ParseFormat(format); err != nil {
		return fmt.Errorf("unsupported format %q (expected %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// WriteResult writes res as requested and returns the file it wrote to, or
// "" for stdout.
func WriteResult(cmd *cobra.Command, res *adomain.Result, opts OutputOptions) (string, error) {
	if err := ValidateFormat(opts.Format); err != nil {
		return "", err
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))

	path := opts.Output
	if path == "-" {
		path = ""
	}
	if path == "" && format == string(export.FormatXLSX) {
		path = export.Filename(res.Domain, export.FormatXLSX, res.ScanDate)
	}

	var w io.Writer = cmd.OutOrStdout()
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	var err error
	if format == FormatTable {
		err = writeTable(w, res, opts.All, path == "")
	} else {
		err = export.Write(w, res, export.Format(format), export.Options{All: opts.All})
	}
	if err != nil {
		return "", fmt.Errorf("write %s output: %w", format, err)
	}
	return path, nil
}

func writeTable(w io.Writer, res *adomain.Result, all, toStdout bool) error {
	width := 100
	if toStdout && term.IsTerminal(int(os.Stdout.Fd())) {
		if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 0 {
			width = cols
		}
	}

	if _, err := fmt.Fprintln(w, tui.RenderSummary(res)); err != nil {
		return err
	}
	fmt.Fprintln(w)

	if !all {
		_, err := fmt.Fprintln(w, tui.RenderFindings(res, width))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tCONTENT\tRECOMMENDATION\tCONFIDENCE\tREASON")
	for _, row := range res.ExportData {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
			row.Name, row.Type, row.Content, row.Recommendation, row.Confidence, row.Reason)
	}
	return tw.Flush()
}
