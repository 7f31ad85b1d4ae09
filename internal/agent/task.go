package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fmuoria/ai-recruiter/internal/logger"
	"github.com/fmuoria/ai-recruiter/internal/models"
)

// ErrAlreadyStarted is returned by Start on a task that has been launched.
var ErrAlreadyStarted = errors.New("run already started")

type runIDKey struct{}

// WithRunID tags ctx with a run identifier used in log entries.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run identifier set by WithRunID.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// Task runs a pipeline at most once in the background and tracks its status.
type Task struct {
	pipeline *Pipeline
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.RWMutex
	status  models.RunStatus
	summary Summary
	err     error
	done    chan struct{}
}

// NewTask wraps pipeline. The task owns the pipeline's progress callback.
func NewTask(pipeline *Pipeline, log *zap.Logger) *Task {
	t := &Task{
		pipeline: pipeline,
		logger:   logger.WithFields(log),
		now:      time.Now,
		status:   models.RunStatus{State: models.RunNotStarted},
		done:     make(chan struct{}),
	}
	pipeline.SetProgressCallback(t.onProgress)
	return t
}

// Start launches the run. It returns ErrAlreadyStarted on every call after
// the first.
func (t *Task) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.status.State != models.RunNotStarted {
		t.mu.Unlock()
		return ErrAlreadyStarted
	}
	started := t.now()
	t.status = models.RunStatus{
		RunID:     uuid.NewString(),
		State:     models.RunRunning,
		StartedAt: &started,
	}
	runID := t.status.RunID
	t.mu.Unlock()

	t.logger.Info("run started", zap.String(logger.FieldRunID, runID))
	go t.run(WithRunID(ctx, runID))
	return nil
}

func (t *Task) run(ctx context.Context) {
	var (
		summary Summary
		err     error
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("run panicked: %v", r)
			t.logger.Error("run panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
		t.finish(summary, err)
	}()

	summary, err = t.pipeline.Run(ctx)
}

func (t *Task) finish(summary Summary, err error) {
	t.mu.Lock()
	finished := t.now()
	t.status.FinishedAt = &finished
	t.summary = summary
	t.err = err
	if err != nil {
		t.status.State = models.RunFailed
		t.status.Error = err.Error()
	} else {
		t.status.State = models.RunDone
		t.status.Message = "Process completed"
	}
	runID := t.status.RunID
	state := t.status.State
	t.mu.Unlock()

	close(t.done)
	t.logger.Info("run finished", zap.String(logger.FieldRunID, runID), zap.String("state", string(state)))
}

func (t *Task) onProgress(current, total int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status.Processed = current
	t.status.Total = total
	t.status.Message = message
}

// Status returns a copy of the current run status.
func (t *Task) Status() models.RunStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Done is closed when a started run finishes.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the run finishes or ctx ends, and returns the run's
// summary and error. Waiting on a task that was never started blocks until
// ctx ends.
func (t *Task) Wait(ctx context.Context) (Summary, error) {
	select {
	case <-t.done:
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.summary, t.err
}
