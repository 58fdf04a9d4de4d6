package dto

import "time"

// WatchSubjectRequest adds a company to a user's watch list.
type WatchSubjectRequest struct {
	UserID      uint   `json:"user_id"`
	CompanyName string `json:"company_name"`
	// Analyze starts a run right away when the subject was just created.
	Analyze bool `json:"analyze"`
}

// SubjectResponse is a watched company with its latest analysis state.
type SubjectResponse struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"user_id"`
	CompanyName string     `json:"company_name"`
	StockCode   string     `json:"stock_code"`
	AnalysisID  uint       `json:"analysis_id"`
	Status      string     `json:"status"`
	Ready       bool       `json:"ready"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TriggerResponse reports how a run request was handled.
type TriggerResponse struct {
	AnalysisID uint   `json:"analysis_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// SentimentStatsResponse holds label counts.
type SentimentStatsResponse struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// CommentResponse is one stored comment.
type CommentResponse struct {
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Sentiment string    `json:"sentiment"`
	Likes     int       `json:"likes"`
	WrittenAt time.Time `json:"written_at"`
}

// AnalysisResultResponse is the latest result of a subject.
type AnalysisResultResponse struct {
	SubjectID        uint                   `json:"subject_id"`
	CompanyName      string                 `json:"company_name"`
	StockCode        string                 `json:"stock_code"`
	Status           string                 `json:"status"`
	Ready            bool                   `json:"ready"`
	Summary          string                 `json:"summary"`
	Keywords         []string               `json:"keywords"`
	Stats            SentimentStatsResponse `json:"sentiment_stats"`
	OverallSentiment string                 `json:"overall_sentiment"`
	Comments         []CommentResponse      `json:"comments"`
	StartedAt        *time.Time             `json:"started_at,omitempty"`
	FinishedAt       *time.Time             `json:"finished_at,omitempty"`
}
