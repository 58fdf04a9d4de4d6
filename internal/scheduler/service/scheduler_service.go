package service

import (
	"context"
	"fmt"
	"time"

	"golang-finance-insight/internal/dispatcher"
	"golang-finance-insight/internal/scheduler/config"
	"golang-finance-insight/internal/scheduler/dto"
	"golang-finance-insight/internal/scheduler/repository"
	"golang-finance-insight/pkg/logger"
	"golang-finance-insight/pkg/utils"

	"github.com/robfig/cron/v3"
)

// SchedulerService periodically re-dispatches analyses whose result has aged out.
type SchedulerService interface {
	Start(ctx context.Context) error
	RefreshStale(ctx context.Context) int
	ListStale(ctx context.Context) ([]*dto.StaleAnalysisResponse, error)
}

// NewSchedulerService creates a new scheduler service.
func NewSchedulerService(cfg *config.Config, refreshRepo repository.AnalysisRefreshRepository, taskDispatcher dispatcher.TaskDispatcher, logger *logger.Logger) SchedulerService {
	return &schedulerService{
		cfg:         cfg,
		refreshRepo: refreshRepo,
		dispatcher:  taskDispatcher,
		logger:      logger,
		cronParser:  cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		now:         utils.TimeNowKST,
	}
}

type schedulerService struct {
	cfg         *config.Config
	refreshRepo repository.AnalysisRefreshRepository
	dispatcher  dispatcher.TaskDispatcher
	logger      *logger.Logger
	cronParser  cron.Parser
	now         func() time.Time
}

// Start runs the refresh job on the configured cron expression until ctx is done.
func (s *schedulerService) Start(ctx context.Context) error {
	schedule, err := s.cronParser.Parse(s.cfg.Scheduler.RefreshCron)
	if err != nil {
		return fmt.Errorf("invalid refresh cron %q: %w", s.cfg.Scheduler.RefreshCron, err)
	}

	c := cron.New(cron.WithLocation(utils.Location()), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(schedule, cron.FuncJob(func() {
		runCtx, cancel := context.WithTimeout(ctx, s.cfg.Scheduler.RunTimeout)
		defer cancel()
		s.RefreshStale(runCtx)
	}))
	c.Start()
	s.logger.Info("Scheduler service started",
		logger.StringField("cron", s.cfg.Scheduler.RefreshCron),
		logger.DurationField("refresh_after", s.cfg.Scheduler.RefreshAfter))

	<-ctx.Done()
	s.logger.Info("Scheduler service stopping")
	<-c.Stop().Done()
	return nil
}

// RefreshStale dispatches one batch of stale analyses and returns how many were queued.
func (s *schedulerService) RefreshStale(ctx context.Context) int {
	cutoff := s.now().Add(-s.cfg.Scheduler.RefreshAfter)
	records, err := s.refreshRepo.FindStale(ctx, cutoff, s.cfg.Scheduler.BatchSize)
	if err != nil {
		s.logger.Error("Failed to find stale analyses", logger.ErrorField(err))
		return 0
	}

	queued := 0
	for _, record := range records {
		if !utils.ShouldContinue(ctx) {
			break
		}

		claimed, err := s.refreshRepo.Claim(ctx, record.ID)
		if err != nil {
			s.logger.Error("Failed to claim analysis", logger.ErrorField(err), logger.UintField("analysis_id", record.ID))
			continue
		}
		if !claimed {
			continue
		}

		task := dispatcher.AnalysisTask{
			AnalysisID:  record.ID,
			SubjectID:   record.SubjectID,
			Trigger:     dispatcher.TriggerScheduler,
			RequestedAt: s.now(),
		}
		if err := s.dispatcher.Dispatch(ctx, task); err != nil {
			s.logger.Error("Failed to enqueue analysis", logger.ErrorField(err), logger.UintField("analysis_id", record.ID))
			if err := s.refreshRepo.Release(context.WithoutCancel(ctx), record.ID); err != nil {
				s.logger.Error("Failed to release analysis", logger.ErrorField(err), logger.UintField("analysis_id", record.ID))
			}
			continue
		}
		queued++
	}

	if queued > 0 {
		s.logger.Info("Stale analyses queued", logger.IntField("count", queued), logger.IntField("found", len(records)))
	}
	return queued
}

// ListStale returns the batch the next refresh would pick up.
func (s *schedulerService) ListStale(ctx context.Context) ([]*dto.StaleAnalysisResponse, error) {
	records, err := s.refreshRepo.FindStale(ctx, s.now().Add(-s.cfg.Scheduler.RefreshAfter), s.cfg.Scheduler.BatchSize)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.StaleAnalysisResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, &dto.StaleAnalysisResponse{
			AnalysisID: record.ID,
			SubjectID:  record.SubjectID,
			Status:     string(record.Status),
			FinishedAt: record.FinishedAt,
		})
	}
	return responses, nil
}
