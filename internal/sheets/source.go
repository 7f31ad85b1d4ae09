package sheets

import (
	"context"
	"strings"

	"go.uber.org/zap"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/fmuoria/ai-recruiter/internal/logger"
	"github.com/fmuoria/ai-recruiter/internal/models"
)

// Column headers of the candidate sheet.
const (
	ColumnFullName         = "Full Name"
	ColumnEmail            = "Email"
	ColumnScreeningAnswers = "Screening Answers"
	ColumnResumeLink       = "Resume Link"

	unknownValue = "Unknown"
)

// CandidateSource reads candidate records from a spreadsheet whose first row
// holds column headers.
type CandidateSource struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	rng           string
	logger        *zap.Logger
}

// NewCandidateSource reads from rng, or the whole first sheet when rng is
// empty.
func NewCandidateSource(svc *sheetsapi.Service, spreadsheetID, rng string, log *zap.Logger) *CandidateSource {
	return &CandidateSource{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		rng:           rng,
		logger:        logger.WithFields(log, zap.String("spreadsheet_id", spreadsheetID)),
	}
}

// Fetch returns every candidate row in sheet order.
func (s *CandidateSource) Fetch(ctx context.Context) ([]models.Candidate, error) {
	rng := s.rng
	if rng == "" {
		title, err := firstSheetTitle(ctx, s.svc, s.spreadsheetID)
		if err != nil {
			return nil, err
		}
		rng = sheetRange(title, "")
	}

	rows, err := readValues(ctx, s.svc, s.spreadsheetID, rng)
	if err != nil {
		return nil, err
	}

	candidates := rowsToCandidates(rows)
	s.logger.Info("candidates fetched", zap.String("range", rng), zap.Int("count", len(candidates)))
	return candidates, nil
}

// rowsToCandidates maps data rows by header name. Blank rows are skipped.
func rowsToCandidates(rows [][]string) []models.Candidate {
	if len(rows) == 0 {
		return []models.Candidate{}
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	cell := func(row []string, column, fallback string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return fallback
		}
		return strings.TrimSpace(row[i])
	}

	candidates := make([]models.Candidate, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		candidates = append(candidates, models.Candidate{
			FullName:         cell(row, ColumnFullName, unknownValue),
			Email:            cell(row, ColumnEmail, unknownValue),
			ScreeningAnswers: cell(row, ColumnScreeningAnswers, ""),
			ResumeLink:       cell(row, ColumnResumeLink, ""),
		})
	}
	return candidates
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
