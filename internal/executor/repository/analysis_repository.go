package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang-finance-insight/internal/entity"
	"golang-finance-insight/internal/executor/dto"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const commentInsertBatchSize = 200

// AnalysisRepository persists sentiment runs. Every write is scoped to a single analysis record.
type AnalysisRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.AnalysisRecord, error)
	MarkRunning(ctx context.Context, id uint, runID string, startedAt time.Time) error
	MarkFailed(ctx context.Context, id uint, message string, finishedAt time.Time) error
	SaveResult(ctx context.Context, result *dto.AnalysisResult) error
}

// NewAnalysisRepository creates a new GORM-based analysis repository.
func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

type analysisRepository struct {
	db *gorm.DB
}

// FindByID loads the record together with its subject.
func (r *analysisRepository) FindByID(ctx context.Context, id uint) (*entity.AnalysisRecord, error) {
	var record entity.AnalysisRecord
	if err := r.db.WithContext(ctx).Preload("Subject").First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *analysisRepository) MarkRunning(ctx context.Context, id uint, runID string, startedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.AnalysisRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     entity.AnalysisStatusRunning,
		"ready":      false,
		"run_id":     runID,
		"started_at": startedAt,
	}).Error
}

// MarkFailed keeps the comments of the previous run and stores message as the summary.
func (r *analysisRepository) MarkFailed(ctx context.Context, id uint, message string, finishedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.AnalysisRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      entity.AnalysisStatusFailed,
		"ready":       false,
		"summary":     message,
		"finished_at": finishedAt,
	}).Error
}

// SaveResult replaces the comments of the analysis and overwrites its aggregates in one transaction.
func (r *analysisRepository) SaveResult(ctx context.Context, result *dto.AnalysisResult) error {
	stats, err := json.Marshal(result.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal sentiment stats: %w", err)
	}
	keywords := result.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("analysis_id = ?", result.AnalysisID).Delete(&entity.CommentRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete previous comments: %w", err)
		}

		if len(result.Comments) > 0 {
			comments := make([]entity.CommentRecord, len(result.Comments))
			for i, c := range result.Comments {
				c.ID = 0
				c.AnalysisID = result.AnalysisID
				comments[i] = c
			}
			if err := tx.CreateInBatches(comments, commentInsertBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert comments: %w", err)
			}
		}

		err := tx.Model(&entity.AnalysisRecord{}).Where("id = ?", result.AnalysisID).Updates(map[string]interface{}{
			"summary":         result.Summary,
			"keywords":        pq.StringArray(keywords),
			"sentiment_stats": datatypes.JSON(stats),
			"ready":           true,
			"status":          entity.AnalysisStatusDone,
			"finished_at":     result.FinishedAt,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update analysis: %w", err)
		}

		if result.StockCode != "" {
			err := tx.Model(&entity.InterestSubject{}).
				Where("id = ? AND (stock_code IS NULL OR stock_code = '')", result.SubjectID).
				Update("stock_code", result.StockCode).Error
			if err != nil {
				return fmt.Errorf("failed to update stock code: %w", err)
			}
		}
		return nil
	})
}
