package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fmuoria/ai-recruiter/internal/models"
)

// RankingsSheet is the tab written by WriteRankings.
const RankingsSheet = "Rankings"

// ExportToExcel writes the rankings workbook to outputPath, adding the .xlsx
// extension when missing.
func ExportToExcel(ranked []models.RankedCandidate, outputPath string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	var buf bytes.Buffer
	if err := WriteRankings(&buf, ranked); err != nil {
		return "", err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to save Excel file: %w", err)
	}
	return outputPath, nil
}

// WriteRankings renders ranked as a single-sheet workbook ordered by score,
// highest first. Candidates with equal scores keep their processing order.
func WriteRankings(w io.Writer, ranked []models.RankedCandidate) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RankingsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := createRankingsSheet(f, RankingsSheet, sortedByScore(ranked)); err != nil {
		return fmt.Errorf("failed to create rankings sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func sortedByScore(ranked []models.RankedCandidate) []models.RankedCandidate {
	sorted := make([]models.RankedCandidate, len(ranked))
	copy(sorted, ranked)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	return sorted
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// scoreBands colour rows by score, highest band first.
var scoreBands = []struct {
	min   int
	color string
}{
	{90, "C6EFCE"},
	{70, "FFEB9C"},
	{50, "FFC7CE"},
	{0, "FF9999"},
}

func createRankingsSheet(f *excelize.File, sheetName string, ranked []models.RankedCandidate) error {
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "C", 10)
	f.SetColWidth(sheetName, "D", "D", 35)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	bandStyles := make([]int, len(scoreBands))
	for i, band := range scoreBands {
		bandStyles[i], err = f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{band.color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return err
		}
	}

	headers := []interface{}{"Rank", "Name", "Score", "Email"}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "D1", headerStyle); err != nil {
		return err
	}

	for i, candidate := range ranked {
		row := i + 2
		values := []interface{}{i + 1, candidate.Name, candidate.Score, candidate.Email}
		if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}

		style := bandStyles[len(bandStyles)-1]
		for b, band := range scoreBands {
			if candidate.Score >= band.min {
				style = bandStyles[b]
				break
			}
		}
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), style); err != nil {
			return err
		}
	}

	return f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
