package model

import "time"

// RunResult describes one completed pipeline run
type RunResult struct {
	RunID       string              `json:"run_id"`
	InputPath   string              `json:"input_path"`
	SummaryPath string              `json:"summary_path"`
	DeckPath    string              `json:"deck_path"`
	PayloadPath string              `json:"payload_path,omitempty"`
	StartedAt   time.Time           `json:"started_at"`
	Duration    time.Duration       `json:"duration"`
	Summary     SummaryMap          `json:"summary"`
	Payload     PresentationPayload `json:"payload"`
	SlideCount  int                 `json:"slide_count"`
}
