package dto

import (
	"time"

	"golang-finance-insight/internal/entity"
)

// AnalysisResult is everything a successful run writes for one subject.
type AnalysisResult struct {
	AnalysisID uint
	SubjectID  uint
	StockCode  string
	Summary    string
	Keywords   []string
	Stats      entity.SentimentStats
	Comments   []entity.CommentRecord
	FinishedAt time.Time
}
