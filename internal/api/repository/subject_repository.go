package repository

import (
	"context"
	"errors"
	"time"

	"golang-finance-insight/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubjectRepository stores watched companies and their analysis records.
type SubjectRepository interface {
	// GetOrCreate returns the subject for (userID, companyName), creating it together with a
	// waiting analysis record. created reports whether a new row was inserted.
	GetOrCreate(ctx context.Context, userID uint, companyName string) (subject *entity.InterestSubject, created bool, err error)
	FindByID(ctx context.Context, id uint) (*entity.InterestSubject, error)
	ListByUser(ctx context.Context, userID uint) ([]entity.InterestSubject, error)
	Delete(ctx context.Context, id uint) error
	// ClaimRun flips the analysis to running unless a run started after staleBefore is still marked running.
	ClaimRun(ctx context.Context, analysisID uint, staleBefore time.Time) (bool, error)
	ReleaseRun(ctx context.Context, analysisID uint, message string) error
	ListComments(ctx context.Context, analysisID uint, limit int) ([]entity.CommentRecord, error)
}

// NewSubjectRepository creates a new GORM-based subject repository.
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

type subjectRepository struct {
	db *gorm.DB
}

func (r *subjectRepository) GetOrCreate(ctx context.Context, userID uint, companyName string) (*entity.InterestSubject, bool, error) {
	var subject entity.InterestSubject
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND company_name = ?", userID, companyName).First(&subject).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		subject = entity.InterestSubject{UserID: userID, CompanyName: companyName}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "company_name"}},
			DoNothing: true,
		}).Create(&subject)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// a concurrent request inserted the same subject first
			subject = entity.InterestSubject{}
			return tx.Where("user_id = ? AND company_name = ?", userID, companyName).First(&subject).Error
		}
		analysis := entity.AnalysisRecord{SubjectID: subject.ID, Status: entity.AnalysisStatusWaiting}
		if err := tx.Create(&analysis).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	found, err := r.FindByID(ctx, subject.ID)
	if err != nil {
		return nil, false, err
	}
	return found, created, nil
}

// FindByID loads the subject with its analysis record, creating the record when it is missing.
func (r *subjectRepository) FindByID(ctx context.Context, id uint) (*entity.InterestSubject, error) {
	var subject entity.InterestSubject
	if err := r.db.WithContext(ctx).Preload("Analysis").First(&subject, id).Error; err != nil {
		return nil, err
	}
	if subject.Analysis == nil {
		analysis := entity.AnalysisRecord{SubjectID: subject.ID, Status: entity.AnalysisStatusWaiting}
		if err := r.db.WithContext(ctx).Create(&analysis).Error; err != nil {
			return nil, err
		}
		subject.Analysis = &analysis
	}
	return &subject, nil
}

func (r *subjectRepository) ListByUser(ctx context.Context, userID uint) ([]entity.InterestSubject, error) {
	var subjects []entity.InterestSubject
	err := r.db.WithContext(ctx).
		Preload("Analysis").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&subjects).Error
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

// Delete removes the subject, its analysis and the analysis comments.
func (r *subjectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subject entity.InterestSubject
		if err := tx.First(&subject, id).Error; err != nil {
			return err
		}
		analysisIDs := tx.Model(&entity.AnalysisRecord{}).Select("id").Where("subject_id = ?", id)
		if err := tx.Where("analysis_id IN (?)", analysisIDs).Delete(&entity.CommentRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("subject_id = ?", id).Delete(&entity.AnalysisRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&subject).Error
	})
}

func (r *subjectRepository) ClaimRun(ctx context.Context, analysisID uint, staleBefore time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entity.AnalysisRecord{}).
		Where("id = ? AND (status <> ? OR updated_at < ?)", analysisID, entity.AnalysisStatusRunning, staleBefore).
		Updates(map[string]interface{}{
			"status": entity.AnalysisStatusRunning,
			"ready":  false,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReleaseRun marks a claimed run failed when it could not be handed to the executor.
func (r *subjectRepository) ReleaseRun(ctx context.Context, analysisID uint, message string) error {
	return r.db.WithContext(ctx).Model(&entity.AnalysisRecord{}).Where("id = ?", analysisID).Updates(map[string]interface{}{
		"status":  entity.AnalysisStatusFailed,
		"ready":   false,
		"summary": message,
	}).Error
}

// ListComments returns comments ordered by likes, most liked first.
func (r *subjectRepository) ListComments(ctx context.Context, analysisID uint, limit int) ([]entity.CommentRecord, error) {
	var comments []entity.CommentRecord
	q := r.db.WithContext(ctx).Where("analysis_id = ?", analysisID).Order("likes DESC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
