package models

import "time"

// Candidate is one row of the application spreadsheet.
type Candidate struct {
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	ScreeningAnswers string `json:"screening_answers"`
	ResumeLink       string `json:"resume_link"`
}

// RankedCandidate is the outcome of processing one candidate in a run.
type RankedCandidate struct {
	Name  string `json:"name"`
	Score int    `json:"score"` // 0-100, 0 also when scoring failed
	Email string `json:"email"`
}

// RankingsResponse is the payload of GET /rankings.
type RankingsResponse struct {
	Rankings []RankedCandidate `json:"rankings"`
}

// RunState is the lifecycle state of a pipeline run.
type RunState string

const (
	RunNotStarted RunState = "not_started"
	RunRunning    RunState = "running"
	RunDone       RunState = "done"
	RunFailed     RunState = "failed"
)

// IsTerminal reports whether the run has finished.
func (s RunState) IsTerminal() bool {
	return s == RunDone || s == RunFailed
}

// RunStatus describes the current or last pipeline run.
type RunStatus struct {
	RunID      string     `json:"run_id,omitempty"`
	State      RunState   `json:"state"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Processed  int        `json:"processed"`
	Total      int        `json:"total"`
	Message    string     `json:"message,omitempty"`
	Error      string     `json:"error,omitempty"`
}
