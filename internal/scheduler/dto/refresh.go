package dto

import "time"

// RefreshResponse reports the outcome of a manual refresh.
type RefreshResponse struct {
	Queued int `json:"queued"`
}

// StaleAnalysisResponse is a finished analysis due for another run.
type StaleAnalysisResponse struct {
	AnalysisID uint       `json:"analysis_id"`
	SubjectID  uint       `json:"subject_id"`
	Status     string     `json:"status"`
	FinishedAt *time.Time `json:"finished_at"`
}

// ErrorResponse is returned when a refresh request fails.
type ErrorResponse struct {
	Error string `json:"error"`
}
