package scoring

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fmuoria/ai-recruiter/internal/logger"
)

// DefaultRole is the position candidates are rated against.
const DefaultRole = "marketing officer"

// ErrEvaluation marks an evaluator failure or a response without a score.
var ErrEvaluation = errors.New("candidate evaluation failed")

// Evaluator is a hosted language model.
type Evaluator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Scorer rates candidates from 0 to 100 with an Evaluator.
type Scorer struct {
	evaluator    Evaluator
	role         string
	maxLogLength int
	logger       *zap.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithRole sets the position named in the prompt.
func WithRole(role string) Option {
	return func(s *Scorer) {
		if role = strings.TrimSpace(role); role != "" {
			s.role = role
		}
	}
}

// WithMaxLogLength bounds the prompt and response previews in debug logs.
func WithMaxLogLength(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.maxLogLength = n
		}
	}
}

// NewScorer creates a new scorer instance
func NewScorer(evaluator Evaluator, log *zap.Logger, opts ...Option) *Scorer {
	s := &Scorer{
		evaluator:    evaluator,
		role:         DefaultRole,
		maxLogLength: 200,
		logger:       logger.WithFields(log),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the candidate's fit score. Evaluator faults and unparseable
// responses yield 0, which is indistinguishable from a genuine zero.
func (s *Scorer) Score(ctx context.Context, name, resumeText, screeningAnswers string) int {
	log := s.logger.With(logger.Candidate(name, "")...)

	score, err := s.evaluate(ctx, log, name, resumeText, screeningAnswers)
	if err != nil {
		log.Warn("scoring failed, using 0", zap.Error(err))
		return 0
	}

	log.Debug("candidate scored", zap.Int("score", score))
	return score
}

func (s *Scorer) evaluate(ctx context.Context, log *zap.Logger, name, resumeText, screeningAnswers string) (int, error) {
	prompt := s.buildPrompt(name, resumeText, screeningAnswers)
	log.Debug("evaluator prompt", zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLength)))

	response, err := s.evaluator.GenerateContent(ctx, prompt)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}
	log.Debug("evaluator response", zap.String("response_preview", logger.TruncateForLog(response, s.maxLogLength)))

	return ParseScore(response)
}

// buildPrompt lays out the candidate's details followed by the rating
// instruction.
func (s *Scorer) buildPrompt(name, resumeText, screeningAnswers string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Candidate Name: %s\n", name))
	sb.WriteString(fmt.Sprintf("Resume: %s\n", resumeText))
	sb.WriteString(fmt.Sprintf("Screening Answers: %s\n\n", screeningAnswers))

	sb.WriteString(fmt.Sprintf("Rate this candidate's fit for a %s role on a scale of 0-100.\n", s.role))
	sb.WriteString("Consider experience, skills, and cultural fit.\n")
	sb.WriteString("Respond only with a number between 0 and 100.\n")

	return sb.String()
}

var digitRun = regexp.MustCompile(`\d+`)

// ParseScore returns the first run of decimal digits in response. The value
// is not clamped to 0..100.
func ParseScore(response string) (int, error) {
	match := digitRun.FindString(response)
	if match == "" {
		return 0, fmt.Errorf("%w: no number in response %q", ErrEvaluation, strings.TrimSpace(response))
	}

	score, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEvaluation, err)
	}
	return score, nil
}
