package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docwire/checklinks/checker"
)

// Record is one problem link in machine-readable report output.
type Record struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Link   string `json:"link"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func records(rep *checker.Report) []Record {
	recs := make([]Record, 0, len(rep.Problems))
	for _, link := range rep.Problems {
		recs = append(recs, Record{
			File:   link.File,
			Line:   link.Line,
			Link:   link.Raw,
			Status: link.Status.State.String(),
			Detail: link.Status.Detail,
		})
	}
	return recs
}

// WriteJSON writes the problem links as a formatted JSON array to the writer.
// Uses flat array format (not wrapped with metadata) for simpler CI integration.
func WriteJSON(w io.Writer, rep *checker.Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records(rep)); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	return nil
}

// WriteCSV writes the problem links as CSV to the writer.
// Always includes a header row, even if there are no problem links.
// Column order: file, line, link, status, detail
func WriteCSV(w io.Writer, rep *checker.Report) error {
	cw := csv.NewWriter(w)

	header := []string{"file", "line", "link", "status", "detail"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range records(rep) {
		row := []string{rec.File, strconv.Itoa(rec.Line), rec.Link, rec.Status, rec.Detail}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv record for %s: %w", rec.Link, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv report: %w", err)
	}
	return nil
}

// WriteFile writes the report to path, picking the format from the file
// extension (.json or .csv).
func WriteFile(path string, rep *checker.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}

	var writeErr error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		writeErr = WriteJSON(f, rep)
	case ".csv":
		writeErr = WriteCSV(f, rep)
	default:
		writeErr = fmt.Errorf("unsupported report format %q (use .json or .csv)", filepath.Ext(path))
	}

	if closeErr := f.Close(); writeErr == nil && closeErr != nil {
		writeErr = fmt.Errorf("close report file: %w", closeErr)
	}
	return writeErr
}
