package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-finance-insight/internal/api/config"
	"golang-finance-insight/internal/api/dto"
	"golang-finance-insight/internal/api/repository"
	"golang-finance-insight/internal/dispatcher"
	"golang-finance-insight/internal/entity"
	"golang-finance-insight/pkg/logger"
	"golang-finance-insight/pkg/utils"

	"gorm.io/gorm"
)

const maxCompanyNameLen = 100

// SubjectService manages watched companies and their sentiment runs.
type SubjectService interface {
	Watch(ctx context.Context, req *dto.WatchSubjectRequest) (*dto.SubjectResponse, bool, error)
	List(ctx context.Context, userID uint) ([]*dto.SubjectResponse, error)
	Delete(ctx context.Context, id uint) error
	Trigger(ctx context.Context, id uint) (*dto.TriggerResponse, error)
	Result(ctx context.Context, id uint) (*dto.AnalysisResultResponse, error)
}

// NewSubjectService creates a new subject service. In sync mode the dispatcher runs the pipeline inline.
func NewSubjectService(cfg config.Analysis, subjectRepo repository.SubjectRepository, taskDispatcher dispatcher.TaskDispatcher, log *logger.Logger) SubjectService {
	return &subjectService{
		cfg:         cfg,
		subjectRepo: subjectRepo,
		dispatcher:  taskDispatcher,
		log:         log,
		now:         utils.TimeNowKST,
	}
}

type subjectService struct {
	cfg         config.Analysis
	subjectRepo repository.SubjectRepository
	dispatcher  dispatcher.TaskDispatcher
	log         *logger.Logger
	now         func() time.Time
}

func (s *subjectService) Watch(ctx context.Context, req *dto.WatchSubjectRequest) (*dto.SubjectResponse, bool, error) {
	name := strings.TrimSpace(req.CompanyName)
	if req.UserID == 0 || name == "" {
		return nil, false, fmt.Errorf("%w: user_id and company_name are required", ErrInvalidInput)
	}
	if len([]rune(name)) > maxCompanyNameLen {
		return nil, false, fmt.Errorf("%w: company_name longer than %d characters", ErrInvalidInput, maxCompanyNameLen)
	}

	subject, created, err := s.subjectRepo.GetOrCreate(ctx, req.UserID, name)
	if err != nil {
		s.log.Error("Failed to watch subject", logger.ErrorField(err), logger.StringField("company", name))
		return nil, false, err
	}

	if created && req.Analyze {
		if _, err := s.Trigger(ctx, subject.ID); err != nil {
			s.log.Warn("Initial analysis could not be started", logger.ErrorField(err), logger.UintField("subject_id", subject.ID))
		} else if subject, err = s.subjectRepo.FindByID(ctx, subject.ID); err != nil {
			return nil, false, err
		}
	}

	return mapToSubjectResponse(subject), created, nil
}

func (s *subjectService) List(ctx context.Context, userID uint) ([]*dto.SubjectResponse, error) {
	subjects, err := s.subjectRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		out = append(out, mapToSubjectResponse(&subjects[i]))
	}
	return out, nil
}

func (s *subjectService) Delete(ctx context.Context, id uint) error {
	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		s.log.Error("Failed to delete subject", logger.ErrorField(err), logger.UintField("subject_id", id))
		return err
	}
	return nil
}

// Trigger marks the analysis running and hands it to the executor.
func (s *subjectService) Trigger(ctx context.Context, id uint) (*dto.TriggerResponse, error) {
	subject, err := s.findSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	analysisID := subject.Analysis.ID

	claimed, err := s.subjectRepo.ClaimRun(ctx, analysisID, s.now().Add(-s.cfg.RunningStaleAfter))
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrAnalysisRunning
	}

	task := dispatcher.AnalysisTask{
		AnalysisID:  analysisID,
		SubjectID:   subject.ID,
		Trigger:     dispatcher.TriggerAPI,
		RequestedAt: s.now(),
	}

	if s.cfg.SyncAnalysis {
		return s.runSync(ctx, subject, task)
	}

	if err := s.dispatcher.Dispatch(ctx, task); err != nil {
		s.log.Error("Failed to dispatch analysis", logger.ErrorField(err), logger.UintField("analysis_id", analysisID))
		msg := utils.Truncate("failed to dispatch analysis: "+err.Error(), 500)
		if relErr := s.subjectRepo.ReleaseRun(context.WithoutCancel(ctx), analysisID, msg); relErr != nil {
			s.log.Error("Failed to release analysis", logger.ErrorField(relErr), logger.UintField("analysis_id", analysisID))
		}
		return nil, err
	}

	return &dto.TriggerResponse{
		AnalysisID: analysisID,
		Status:     string(entity.AnalysisStatusRunning),
		Message:    "analysis started in background",
	}, nil
}

// runSync waits for the pipeline. Pipeline failures are already persisted, so they are reported
// through the returned status rather than as an error.
func (s *subjectService) runSync(ctx context.Context, subject *entity.InterestSubject, task dispatcher.AnalysisTask) (*dto.TriggerResponse, error) {
	runCtx := ctx
	if s.cfg.SyncTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.SyncTimeout)
		defer cancel()
	}

	runErr := s.dispatcher.Dispatch(runCtx, task)

	reloaded, err := s.subjectRepo.FindByID(ctx, subject.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.TriggerResponse{
		AnalysisID: task.AnalysisID,
		Status:     string(reloaded.Analysis.Status),
		Message:    "analysis completed",
	}
	if runErr != nil {
		resp.Message = "analysis failed: " + reloaded.Analysis.Summary
		if reloaded.Analysis.Status != entity.AnalysisStatusFailed {
			resp.Message = "analysis failed: " + runErr.Error()
		}
	}
	return resp, nil
}

func (s *subjectService) Result(ctx context.Context, id uint) (*dto.AnalysisResultResponse, error) {
	subject, err := s.findSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	analysis := subject.Analysis

	comments, err := s.subjectRepo.ListComments(ctx, analysis.ID, s.cfg.CommentsLimit)
	if err != nil {
		return nil, err
	}

	stats := analysis.Stats()
	keywords := []string(analysis.Keywords)
	if keywords == nil {
		keywords = []string{}
	}
	resp := &dto.AnalysisResultResponse{
		SubjectID:   subject.ID,
		CompanyName: subject.CompanyName,
		StockCode:   subject.StockCode,
		Status:      string(analysis.Status),
		Ready:       analysis.Ready,
		Summary:     analysis.Summary,
		Keywords:    keywords,
		Stats: dto.SentimentStatsResponse{
			Positive: stats.Positive,
			Negative: stats.Negative,
			Neutral:  stats.Neutral,
		},
		OverallSentiment: OverallSentiment(stats),
		Comments:         make([]dto.CommentResponse, 0, len(comments)),
		StartedAt:        analysis.StartedAt,
		FinishedAt:       analysis.FinishedAt,
	}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, dto.CommentResponse{
			Author:    c.Author,
			Content:   c.Content,
			Sentiment: c.Sentiment,
			Likes:     c.Likes,
			WrittenAt: c.WrittenAt,
		})
	}
	return resp, nil
}

// OverallSentiment compares positive and negative counts; ties are neutral.
func OverallSentiment(stats entity.SentimentStats) string {
	switch {
	case stats.Positive > stats.Negative:
		return "positive"
	case stats.Negative > stats.Positive:
		return "negative"
	default:
		return "neutral"
	}
}

func (s *subjectService) findSubject(ctx context.Context, id uint) (*entity.InterestSubject, error) {
	subject, err := s.subjectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	return subject, nil
}

func mapToSubjectResponse(subject *entity.InterestSubject) *dto.SubjectResponse {
	resp := &dto.SubjectResponse{
		ID:          subject.ID,
		UserID:      subject.UserID,
		CompanyName: subject.CompanyName,
		StockCode:   subject.StockCode,
		Status:      string(entity.AnalysisStatusWaiting),
		CreatedAt:   subject.CreatedAt,
	}
	if a := subject.Analysis; a != nil {
		resp.AnalysisID = a.ID
		resp.Status = string(a.Status)
		resp.Ready = a.Ready
		resp.FinishedAt = a.FinishedAt
	}
	return resp
}
