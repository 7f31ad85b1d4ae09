package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"
)

// DefaultResultsSheet names the tab a Workbook writes when none is given.
const DefaultResultsSheet = "Results"

// Workbook is a local .xlsx file used as an append-only row store. The file
// is created on the first append.
type Workbook struct {
	mu    sync.Mutex
	path  string
	sheet string
}

// NewWorkbook returns a table backed by the workbook at path.
func NewWorkbook(path, sheet string) *Workbook {
	if sheet == "" {
		sheet = DefaultResultsSheet
	}
	return &Workbook{path: path, sheet: sheet}
}

// FirstRow returns row 1, empty when the sheet has no rows.
func (w *Workbook) FirstRow(ctx context.Context) ([]string, error) {
	rows, err := w.Rows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	return rows[0], nil
}

// Rows returns every row including the header.
func (w *Workbook) Rows(_ context.Context) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(w.sheet); idx < 0 {
		return [][]string{}, nil
	}
	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", w.sheet, err)
	}
	return rows, nil
}

// AppendRow writes row below the last used row and saves the file. Cells
// holding integers are stored as numbers.
func (w *Workbook) AppendRow(_ context.Context, row []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.ensureSheet(f); err != nil {
		return err
	}

	rows, err := f.GetRows(w.sheet)
	if err != nil {
		return fmt.Errorf("read %s: %w", w.sheet, err)
	}

	values := make([]interface{}, len(row))
	for i, v := range row {
		if n, err := strconv.Atoi(v); err == nil {
			values[i] = n
		} else {
			values[i] = v
		}
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(w.sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s: %w", cell, err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func (w *Workbook) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return excelize.NewFile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", w.path, err)
	}
	return f, nil
}

// ensureSheet creates the target sheet, reusing the default empty sheet of a
// new file.
func (w *Workbook) ensureSheet(f *excelize.File) error {
	if idx, _ := f.GetSheetIndex(w.sheet); idx >= 0 {
		return nil
	}

	if list := f.GetSheetList(); len(list) == 1 && list[0] == "Sheet1" {
		if rows, _ := f.GetRows("Sheet1"); len(rows) == 0 {
			return f.SetSheetName("Sheet1", w.sheet)
		}
	}

	if _, err := f.NewSheet(w.sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", w.sheet, err)
	}
	return nil
}
