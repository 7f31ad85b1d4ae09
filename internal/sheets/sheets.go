// Package sheets reads candidate records from, and appends result rows to,
// Google Sheets.
package sheets

import (
	"context"
	"fmt"
	"strings"

	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/fmuoria/ai-recruiter/internal/google"
)

// firstSheetTitle returns the title of the spreadsheet's first tab.
func firstSheetTitle(ctx context.Context, svc *sheetsapi.Service, spreadsheetID string) (string, error) {
	doc, err := svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("get spreadsheet: %w", google.WrapError(err))
	}
	if len(doc.Sheets) == 0 || doc.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no sheets", spreadsheetID)
	}
	return doc.Sheets[0].Properties.Title, nil
}

// sheetRange quotes a tab title for use in A1 notation, optionally followed
// by a cell span.
func sheetRange(title, span string) string {
	quoted := "'" + strings.ReplaceAll(title, "'", "''") + "'"
	if span == "" {
		return quoted
	}
	return quoted + "!" + span
}

// readValues returns every row of rng as strings.
func readValues(ctx context.Context, svc *sheetsapi.Service, spreadsheetID, rng string) ([][]string, error) {
	resp, err := svc.Spreadsheets.Values.Get(spreadsheetID, rng).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, google.WrapError(err))
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
