package entity

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type AnalysisStatus string

const (
	AnalysisStatusWaiting AnalysisStatus = "waiting"
	AnalysisStatusRunning AnalysisStatus = "running"
	AnalysisStatusDone    AnalysisStatus = "done"
	AnalysisStatusFailed  AnalysisStatus = "failed"
)

// InterestSubject is a company a user watches. Unique per (user, company).
type InterestSubject struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;uniqueIndex:idx_subject_user_company" json:"user_id"`
	CompanyName string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_subject_user_company" json:"company_name"`
	StockCode   string          `gorm:"type:varchar(20)" json:"stock_code"`
	Analysis    *AnalysisRecord `gorm:"foreignKey:SubjectID" json:"analysis,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (InterestSubject) TableName() string {
	return "interest_subjects"
}

// SentimentStats holds label counts of one run.
type SentimentStats struct {
	Positive int `json:"Positive"`
	Negative int `json:"Negative"`
	Neutral  int `json:"Neutral"`
}

func (s SentimentStats) Total() int {
	return s.Positive + s.Negative + s.Neutral
}

// AnalysisRecord is the single, overwritten-in-place result of a subject's latest run.
type AnalysisRecord struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	SubjectID      uint             `gorm:"uniqueIndex;not null" json:"subject_id"`
	Subject        *InterestSubject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Summary        string           `gorm:"type:text" json:"summary"`
	Keywords       pq.StringArray   `gorm:"type:text[]" json:"keywords"`
	SentimentStats datatypes.JSON   `json:"sentiment_stats"`
	Ready          bool             `gorm:"not null;default:false" json:"ready"`
	Status         AnalysisStatus   `gorm:"type:varchar(10);not null;default:'waiting'" json:"status"`
	RunID          string           `gorm:"type:varchar(36)" json:"run_id"`
	StartedAt      *time.Time       `json:"started_at"`
	FinishedAt     *time.Time       `json:"finished_at"`
	CreatedAt      time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AnalysisRecord) TableName() string {
	return "analysis_records"
}

// Stats decodes SentimentStats, returning zero counts for an empty column.
func (a AnalysisRecord) Stats() SentimentStats {
	var s SentimentStats
	if len(a.SentimentStats) == 0 {
		return s
	}
	_ = json.Unmarshal(a.SentimentStats, &s)
	return s
}

// CommentRecord is one community comment captured by the latest run.
type CommentRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AnalysisID uint      `gorm:"index;not null" json:"analysis_id"`
	Author     string    `gorm:"type:varchar(100)" json:"author"`
	Content    string    `gorm:"type:text" json:"content"`
	Sentiment  string    `gorm:"type:varchar(10)" json:"sentiment"`
	Likes      int       `gorm:"not null;default:0" json:"likes"`
	WrittenAt  time.Time `json:"written_at"`
}

func (CommentRecord) TableName() string {
	return "comment_records"
}
