package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRankingsResponseEmptyList(t *testing.T) {
	data, err := json.Marshal(RankingsResponse{Rankings: []RankedCandidate{}})
	if err != nil {
		t.Fatalf("Failed to marshal RankingsResponse: %v", err)
	}

	if string(data) != `{"rankings":[]}` {
		t.Errorf("Expected empty rankings list, got %s", data)
	}
}

func TestRankedCandidateJSONKeys(t *testing.T) {
	data, err := json.Marshal(RankedCandidate{Name: "Jane", Score: 85, Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("Failed to marshal RankedCandidate: %v", err)
	}

	for _, key := range []string{`"name":"Jane"`, `"score":85`, `"email":"jane@example.com"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected %s in %s", key, data)
		}
	}
}

func TestRunStateIsTerminal(t *testing.T) {
	tests := []struct {
		state RunState
		want  bool
	}{
		{RunNotStarted, false},
		{RunRunning, false},
		{RunDone, true},
		{RunFailed, true},
	}

	for _, tt := range tests {
		if got := tt.state.IsTerminal(); got != tt.want {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.state, got, tt.want)
		}
	}
}
