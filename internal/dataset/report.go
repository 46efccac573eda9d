package dataset

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"speech-pace-go/internal/aggregator"
	"speech-pace-go/internal/types"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

var resultsHeader = []interface{}{
	"Row", "Label", "File", "Status", "Media Kind", "Error Kind",
	"Transcript", "Words", "Audio Seconds", "WPM", "Duration ms", "Error",
}

// WriteReport saves per-file results and the batch summary as an .xlsx workbook.
func WriteReport(path string, records []types.BatchRecord, sum aggregator.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &resultsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Row, r.Label, r.Path, r.Status, r.MediaKind, r.ErrorKind,
			r.Transcript, r.WordCount, r.AudioSeconds, r.WPM, r.DurationMs, r.Error,
		}
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	lines := [][]interface{}{
		{"Total", sum.Total},
		{"Succeeded", sum.Succeeded},
		{"Client errors", sum.ClientErrors},
		{"Server errors", sum.ServerErrors},
		{"Silent", sum.Silent},
		{"Audio seconds", sum.AudioSeconds},
		{"Mean WPM", sum.MeanWPM},
		{"Overall WPM", sum.OverallWPM},
	}
	for _, k := range sortedKeys(sum.ByErrorKind) {
		lines = append(lines, []interface{}{"Errors: " + k, sum.ByErrorKind[k]})
	}
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &line); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
