// Package agent orchestrates a candidate processing run and exposes its
// results and status to the HTTP surface.
package agent

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fmuoria/ai-recruiter/internal/logger"
	"github.com/fmuoria/ai-recruiter/internal/models"
)

// NotifyThreshold is the minimum score, inclusive, that triggers the
// screening email.
const NotifyThreshold = 70

// ProgressCallback is called to report progress during processing
type ProgressCallback func(current, total int, message string)

// CandidateSource lists the candidates of a run.
type CandidateSource interface {
	Fetch(ctx context.Context) ([]models.Candidate, error)
}

// ResumeFetcher materialises a resume link as a local file.
type ResumeFetcher interface {
	Download(ctx context.Context, link string) (string, error)
}

// TextExtractor reads the text of a local resume.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// CandidateScorer rates a candidate from 0 to 100. It never fails.
type CandidateScorer interface {
	Score(ctx context.Context, name, resumeText, screeningAnswers string) int
}

// ResultRecorder persists a run's results.
type ResultRecorder interface {
	Store(ctx context.Context, ranked []models.RankedCandidate) (int, error)
}

// CandidateNotifier emails a qualifying candidate.
type CandidateNotifier interface {
	Notify(ctx context.Context, address, name string) error
}

// Dependencies are the collaborators of a Pipeline.
type Dependencies struct {
	Source    CandidateSource
	Fetcher   ResumeFetcher
	Extractor TextExtractor
	Scorer    CandidateScorer
	Recorder  ResultRecorder
	Notifier  CandidateNotifier
}

// Summary counts what a run did.
type Summary struct {
	Processed      int
	Stored         int
	Qualified      int
	NotifyFailures int
}

// Pipeline processes every candidate sequentially: download, extract, score,
// then records the batch once and notifies qualifying candidates. No single
// candidate's failure stops the run.
type Pipeline struct {
	deps   Dependencies
	store  *ResultStore
	logger *zap.Logger

	mu         sync.RWMutex
	progressCb ProgressCallback
}

// NewPipeline creates a pipeline writing into store.
func NewPipeline(deps Dependencies, store *ResultStore, log *zap.Logger) *Pipeline {
	return &Pipeline{
		deps:   deps,
		store:  store,
		logger: logger.WithFields(log),
	}
}

// Results returns the store the pipeline writes into.
func (p *Pipeline) Results() *ResultStore {
	return p.store
}

// SetProgressCallback sets the progress callback function
func (p *Pipeline) SetProgressCallback(cb ProgressCallback) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progressCb = cb
}

func (p *Pipeline) reportProgress(current, total int, message string) {
	p.mu.RLock()
	cb := p.progressCb
	p.mu.RUnlock()

	if cb != nil {
		cb(current, total, message)
	}
}

// Run performs one pass over the candidate list. It only returns an error
// when ctx is cancelled between candidates; results gathered so far stay in
// the store but are neither recorded nor notified.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	log := p.logger
	if id := RunIDFromContext(ctx); id != "" {
		log = log.With(zap.String(logger.FieldRunID, id))
	}

	log.Info("fetching candidates")
	candidates, err := p.deps.Source.Fetch(ctx)
	if err != nil {
		log.Error("failed to fetch candidates, continuing with none", zap.Error(err))
		candidates = nil
	}

	p.store.Reset()

	var summary Summary
	total := len(candidates)
	for i, candidate := range candidates {
		select {
		case <-ctx.Done():
			log.Warn("run cancelled", zap.Int("processed", summary.Processed), zap.Int("total", total))
			return summary, ctx.Err()
		default:
		}

		p.reportProgress(i, total, fmt.Sprintf("Processing %s (%d/%d)", candidate.FullName, i+1, total))
		p.store.Append(p.processCandidate(ctx, log, candidate))
		summary.Processed++
	}
	p.reportProgress(total, total, "Storing results...")

	ranked := p.store.Snapshot()

	log.Info("storing results", zap.Int("count", len(ranked)))
	stored, err := p.deps.Recorder.Store(ctx, ranked)
	if err != nil {
		log.Error("failed to store results", zap.Error(err))
	}
	summary.Stored = stored

	for _, r := range ranked {
		if r.Score < NotifyThreshold {
			continue
		}
		summary.Qualified++
		log.Info("sending email", append(logger.Candidate(r.Name, r.Email), zap.Int("score", r.Score))...)
		if err := p.deps.Notifier.Notify(ctx, r.Email, r.Name); err != nil {
			summary.NotifyFailures++
		}
	}

	log.Info("process completed",
		zap.Int("processed", summary.Processed),
		zap.Int("stored", summary.Stored),
		zap.Int("qualified", summary.Qualified),
		zap.Int("notify_failures", summary.NotifyFailures),
	)
	return summary, nil
}

// processCandidate never fails: a missing resume becomes empty text and a
// scoring fault becomes 0.
func (p *Pipeline) processCandidate(ctx context.Context, log *zap.Logger, candidate models.Candidate) models.RankedCandidate {
	log = log.With(logger.Candidate(candidate.FullName, candidate.Email)...)
	log.Info("processing candidate")

	var resumeText string
	path, err := p.deps.Fetcher.Download(ctx, candidate.ResumeLink)
	if err != nil {
		log.Warn("resume unavailable", zap.String("link", candidate.ResumeLink), zap.Error(err))
	}
	if path != "" {
		resumeText, err = p.deps.Extractor.ExtractText(ctx, path)
		if err != nil {
			log.Warn("resume text unavailable", zap.String("path", path), zap.Error(err))
			resumeText = ""
		}
	}

	score := p.deps.Scorer.Score(ctx, candidate.FullName, resumeText, candidate.ScreeningAnswers)
	log.Info("candidate scored", zap.Int("score", score))

	return models.RankedCandidate{
		Name:  candidate.FullName,
		Score: score,
		Email: candidate.Email,
	}
}
