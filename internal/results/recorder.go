// Package results persists ranked candidates to a tabular store, writing each
// candidate name at most once.
package results

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fmuoria/ai-recruiter/internal/logger"
	"github.com/fmuoria/ai-recruiter/internal/models"
)

// ErrPersistence marks a failure to read or initialise the results table.
var ErrPersistence = errors.New("results persistence failed")

// Header is row 1 of every results table.
var Header = []string{"Name", "Score", "Email"}

// Table is a row store whose first row is a header.
type Table interface {
	FirstRow(ctx context.Context) ([]string, error)
	Rows(ctx context.Context) ([][]string, error)
	AppendRow(ctx context.Context, row []string) error
}

// Recorder appends ranked candidates to a Table.
//
// Rows are keyed by name alone: a second candidate sharing a name with an
// existing row is never written, and concurrent writers may still race.
type Recorder struct {
	table  Table
	logger *zap.Logger
}

// NewRecorder creates a recorder over table.
func NewRecorder(table Table, log *zap.Logger) *Recorder {
	return &Recorder{table: table, logger: logger.WithFields(log)}
}

// Store writes the header when row 1 is empty, then appends every candidate
// whose name is not yet in the first column, in input order. It returns the
// number of rows appended. A failed append is logged and skipped.
func (r *Recorder) Store(ctx context.Context, ranked []models.RankedCandidate) (int, error) {
	first, err := r.table.FirstRow(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: read header: %v", ErrPersistence, err)
	}
	if isEmptyRow(first) {
		if err := r.table.AppendRow(ctx, Header); err != nil {
			return 0, fmt.Errorf("%w: write header: %v", ErrPersistence, err)
		}
		r.logger.Info("results header written")
	}

	rows, err := r.table.Rows(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: read rows: %v", ErrPersistence, err)
	}

	// Row 1 is the header, present by now.
	if len(rows) > 0 {
		rows = rows[1:]
	}
	existing := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if len(row) > 0 {
			existing[row[0]] = struct{}{}
		}
	}

	appended, failed := 0, 0
	for _, candidate := range ranked {
		if _, ok := existing[candidate.Name]; ok {
			r.logger.Debug("result already stored", logger.Candidate(candidate.Name, candidate.Email)...)
			continue
		}

		row := []string{candidate.Name, strconv.Itoa(candidate.Score), candidate.Email}
		if err := r.table.AppendRow(ctx, row); err != nil {
			failed++
			r.logger.Warn("failed to store result",
				append(logger.Candidate(candidate.Name, candidate.Email), zap.Error(err))...)
			continue
		}
		existing[candidate.Name] = struct{}{}
		appended++
	}

	r.logger.Info("results stored",
		zap.Int("appended", appended),
		zap.Int("skipped", len(ranked)-appended-failed),
		zap.Int("failed", failed),
	)
	return appended, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
