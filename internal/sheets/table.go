package sheets

import (
	"context"
	"fmt"

	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/fmuoria/ai-recruiter/internal/google"
)

// Table is a single tab of a spreadsheet used as an append-only row store.
type Table struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheet         string
}

// NewTable addresses the tab named sheet, or the first tab when sheet is
// empty.
func NewTable(svc *sheetsapi.Service, spreadsheetID, sheet string) *Table {
	return &Table{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet}
}

func (t *Table) title(ctx context.Context) (string, error) {
	if t.sheet != "" {
		return t.sheet, nil
	}
	title, err := firstSheetTitle(ctx, t.svc, t.spreadsheetID)
	if err != nil {
		return "", err
	}
	t.sheet = title
	return title, nil
}

// FirstRow returns row 1, empty when the sheet has no header yet.
func (t *Table) FirstRow(ctx context.Context) ([]string, error) {
	title, err := t.title(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := readValues(ctx, t.svc, t.spreadsheetID, sheetRange(title, "1:1"))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return rows[0], nil
}

// Rows returns every row including the header.
func (t *Table) Rows(ctx context.Context) ([][]string, error) {
	title, err := t.title(ctx)
	if err != nil {
		return nil, err
	}
	return readValues(ctx, t.svc, t.spreadsheetID, sheetRange(title, ""))
}

// AppendRow adds row after the last non-empty row.
func (t *Table) AppendRow(ctx context.Context, row []string) error {
	title, err := t.title(ctx)
	if err != nil {
		return err
	}

	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	_, err = t.svc.Spreadsheets.Values.Append(t.spreadsheetID, sheetRange(title, "A1"), &sheetsapi.ValueRange{
		Values: [][]interface{}{values},
	}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row: %w", google.WrapError(err))
	}
	return nil
}
