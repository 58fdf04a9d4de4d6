package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-finance-insight/internal/dispatcher"
	"golang-finance-insight/internal/executor/config"
	"golang-finance-insight/internal/executor/repository"
	"golang-finance-insight/pkg/logger"
	"golang-finance-insight/pkg/telegram"
	"golang-finance-insight/pkg/utils"
)

const streamBlock = 2 * time.Second

// AnalysisTaskService consumes the analysis stream and runs the pipeline for each task.
type AnalysisTaskService interface {
	ProcessTask(ctx context.Context)
	ProcessRetries(ctx context.Context)
}

type analysisTaskService struct {
	cfg         *config.Config
	log         *logger.Logger
	stream      repository.TaskStreamRepository
	pipeline    SentimentPipeline
	telegramBot telegram.Notifier
}

func NewAnalysisTaskService(cfg *config.Config, log *logger.Logger,
	stream repository.TaskStreamRepository,
	pipeline SentimentPipeline,
	telegramBot telegram.Notifier) AnalysisTaskService {
	return &analysisTaskService{
		cfg:         cfg,
		log:         log,
		stream:      stream,
		pipeline:    pipeline,
		telegramBot: telegramBot,
	}
}

func (s *analysisTaskService) ProcessTask(ctx context.Context) {
	msg, err := s.stream.Read(ctx, streamBlock)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		s.log.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}
	if msg == nil {
		return
	}

	task, err := dispatcher.DecodeAnalysisTask(msg.Values)
	if err != nil {
		s.log.Error("Dropping malformed analysis task", logger.ErrorField(err), logger.StringField("message_id", msg.ID))
		s.ack(ctx, msg.ID)
		return
	}

	s.log.Debug("Processing analysis task", logger.UintField("analysis_id", task.AnalysisID), logger.StringField("trigger", string(task.Trigger)))

	if err := s.run(ctx, task); err != nil {
		s.log.Error("Analysis task failed, leaving it pending for retry", logger.ErrorField(err),
			logger.StringField("message_id", msg.ID), logger.UintField("analysis_id", task.AnalysisID))
		return
	}
	s.ack(ctx, msg.ID)
}

func (s *analysisTaskService) ProcessRetries(ctx context.Context) {
	msg, retries, err := s.stream.ClaimStale(ctx, s.cfg.Executor.AnalysisMaxIdleDuration)
	if err != nil {
		s.log.Error("Failed to claim analysis task on retry", logger.ErrorField(err))
		return
	}
	if msg == nil {
		s.log.Debug("Retry No pending messages found")
		return
	}

	task, err := dispatcher.DecodeAnalysisTask(msg.Values)
	if err != nil {
		s.log.Error("Dropping malformed analysis task", logger.ErrorField(err), logger.StringField("message_id", msg.ID))
		s.ack(ctx, msg.ID)
		return
	}

	if retries >= int64(s.cfg.Executor.AnalysisMaxRetry) {
		s.log.Error("pending msg retry count exceeded",
			logger.StringField("message_id", msg.ID),
			logger.UintField("analysis_id", task.AnalysisID),
			logger.IntField("retry_count", int(retries)),
			logger.IntField("max_retry", s.cfg.Executor.AnalysisMaxRetry))
		alert := telegram.FormatErrorAlertMessage(utils.TimeNowKST(), "Analysis retry exceeded",
			fmt.Sprintf("analysis %d failed %d times", task.AnalysisID, retries),
			fmt.Sprintf("subject_id=%d trigger=%s", task.SubjectID, task.Trigger))
		if err := s.telegramBot.SendMessage(alert); err != nil {
			s.log.Error("Failed to send telegram message retry exceeded", logger.ErrorField(err), logger.UintField("analysis_id", task.AnalysisID))
		}
		reason := fmt.Sprintf("analysis gave up after %d attempts", retries)
		if err := s.pipeline.Abandon(ctx, task.AnalysisID, reason); err != nil {
			// left pending so the next retry tick marks it again
			s.log.Error("Failed to mark abandoned analysis failed", logger.ErrorField(err), logger.UintField("analysis_id", task.AnalysisID))
			return
		}
		s.ack(ctx, msg.ID)
		return
	}

	if err := s.run(ctx, task); err != nil {
		s.log.Error("Retry of analysis task failed", logger.ErrorField(err),
			logger.StringField("message_id", msg.ID), logger.UintField("analysis_id", task.AnalysisID))
		return
	}
	s.ack(ctx, msg.ID)
	s.log.Info("Retry analysis task processed successfully", logger.UintField("analysis_id", task.AnalysisID))
}

// run treats terminal outcomes as handled so the message is acknowledged.
func (s *analysisTaskService) run(ctx context.Context, task dispatcher.AnalysisTask) error {
	err := s.pipeline.Run(ctx, task.AnalysisID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrCompanyNotFound):
		s.log.Warn("Company not found, not retrying", logger.UintField("analysis_id", task.AnalysisID), logger.ErrorField(err))
		return nil
	case errors.Is(err, ErrAnalysisBusy):
		s.log.Info("Subject already being analysed, skipping", logger.UintField("analysis_id", task.AnalysisID))
		return nil
	default:
		return err
	}
}

func (s *analysisTaskService) ack(ctx context.Context, messageID string) {
	if err := s.stream.AckNDel(context.WithoutCancel(ctx), messageID); err != nil {
		s.log.Error("Failed to acknowledge and delete analysis task", logger.ErrorField(err), logger.StringField("message_id", messageID))
	}
}
