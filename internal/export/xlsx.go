// Package export renders stored records as spreadsheet and PDF documents.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/store"
)

// SubmissionsSheet is the worksheet name of the submissions workbook.
const SubmissionsSheet = "Submissions"

var submissionColumns = []string{"ID", "Template", "Status", "Submitted At", "Submitted By", "Line Items", "Signing URL"}

// WriteSubmissions writes an XLSX workbook with one row per submission. The
// fixed columns are followed by one column per data key, sorted.
func WriteSubmissions(w io.Writer, submissions []store.FormSubmission) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", SubmissionsSheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	dataKeys := collectDataKeys(submissions)
	header := append(append([]string(nil), submissionColumns...), dataKeys...)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	if err := writeRow(file, 1, toAny(header)); err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := file.SetCellStyle(SubmissionsSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("export: apply header style: %w", err)
	}

	for i, sub := range submissions {
		row := []any{
			sub.ID,
			sub.TemplateID,
			sub.Status,
			sub.CreatedAt.UTC().Format(time.RFC3339),
			sub.SubmittedBy,
			len(sub.LineItems),
			sub.SigningURL,
		}
		for _, key := range dataKeys {
			row = append(row, cellValue(sub.Data.Map()[key]))
		}
		if err := writeRow(file, i+2, row); err != nil {
			return err
		}
	}

	if err := file.SetPanes(SubmissionsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export: freeze header: %w", err)
	}
	if err := file.AutoFilter(SubmissionsSheet, "A1:"+lastHeader, nil); err != nil {
		return fmt.Errorf("export: auto filter: %w", err)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func writeRow(file *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	if err := file.SetSheetRow(SubmissionsSheet, cell, &values); err != nil {
		return fmt.Errorf("export: row %d: %w", row, err)
	}
	return nil
}

func collectDataKeys(submissions []store.FormSubmission) []string {
	seen := make(map[string]struct{})
	for _, sub := range submissions {
		for _, key := range sub.Data.Keys() {
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func cellValue(value any) any {
	switch v := value.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return v
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
