package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-finance-insight/internal/entity"
	"golang-finance-insight/internal/executor/config"
	"golang-finance-insight/internal/executor/dto"
	"golang-finance-insight/internal/executor/repository"
	"golang-finance-insight/pkg/common"
	"golang-finance-insight/pkg/logger"
	"golang-finance-insight/pkg/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrCompanyNotFound is returned when the comment source cannot resolve the company.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrAnalysisBusy is returned when another run holds the subject.
	ErrAnalysisBusy = errors.New("analysis already running for subject")
)

const failureWriteTimeout = 10 * time.Second

// RunOutcome describes a finished run and is handed to every PostRunHook.
type RunOutcome struct {
	RunID       string
	AnalysisID  uint
	SubjectID   uint
	CompanyName string
	StockCode   string
	Status      entity.AnalysisStatus
	Summary     string
	Keywords    []string
	Stats       entity.SentimentStats
	Comments    int
	Err         error
	FinishedAt  time.Time
}

// PostRunHook runs after a run's result has been committed.
type PostRunHook interface {
	AfterRun(ctx context.Context, outcome RunOutcome)
}

// SentimentPipeline fetches, classifies, summarizes and stores the comments of one subject.
type SentimentPipeline interface {
	Run(ctx context.Context, analysisID uint) error
	// Abandon leaves the analysis failed once nothing will run it again. A failure already
	// recorded by a run keeps its message.
	Abandon(ctx context.Context, analysisID uint, reason string) error
}

type sentimentPipeline struct {
	cfg          config.Pipeline
	log          *logger.Logger
	analysisRepo repository.AnalysisRepository
	source       repository.CommentSource
	classifier   SentimentClassifier
	summarizer   SummaryExtractor
	timeParser   *RelativeTimeParser
	locker       repository.SubjectLocker
	hooks        []PostRunHook
	now          func() time.Time
}

// PipelineDeps groups the collaborators of the pipeline.
type PipelineDeps struct {
	AnalysisRepo repository.AnalysisRepository
	Source       repository.CommentSource
	Classifier   SentimentClassifier
	Summarizer   SummaryExtractor
	TimeParser   *RelativeTimeParser
	Locker       repository.SubjectLocker
	Hooks        []PostRunHook
	Now          func() time.Time
}

func NewSentimentPipeline(cfg config.Pipeline, log *logger.Logger, deps PipelineDeps) SentimentPipeline {
	now := deps.Now
	if now == nil {
		now = utils.TimeNowKST
	}
	timeParser := deps.TimeParser
	if timeParser == nil {
		timeParser = NewRelativeTimeParser(log, now)
	}
	if cfg.ErrorMaxChars <= 0 {
		cfg.ErrorMaxChars = 500
	}
	return &sentimentPipeline{
		cfg:          cfg,
		log:          log,
		analysisRepo: deps.AnalysisRepo,
		source:       deps.Source,
		classifier:   deps.Classifier,
		summarizer:   deps.Summarizer,
		timeParser:   timeParser,
		locker:       deps.Locker,
		hooks:        deps.Hooks,
		now:          now,
	}
}

// Run executes one full pass for the analysis record. Re-running replaces the previous result.
// Failures mark the record failed and are returned so the caller can retry.
func (p *sentimentPipeline) Run(ctx context.Context, analysisID uint) error {
	record, err := p.analysisRepo.FindByID(ctx, analysisID)
	if err != nil {
		err = fmt.Errorf("failed to load analysis %d: %w", analysisID, err)
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			p.fail(ctx, p.log, analysisID, err)
		}
		return err
	}
	if record.Subject == nil {
		err := fmt.Errorf("analysis %d has no subject", analysisID)
		p.fail(ctx, p.log, analysisID, err)
		return err
	}

	if p.locker != nil {
		release, ok, err := p.locker.Acquire(ctx, record.SubjectID, p.cfg.LockTTL)
		if err != nil {
			err = fmt.Errorf("failed to acquire subject lock: %w", err)
			p.fail(ctx, p.log, analysisID, err)
			return err
		}
		if !ok {
			return ErrAnalysisBusy
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				p.log.Warn("Failed to release subject lock", logger.ErrorField(err), logger.UintField("subject_id", record.SubjectID))
			}
		}()
	}

	runID := uuid.NewString()
	log := p.log.With(
		logger.StringField("run_id", runID),
		logger.UintField("analysis_id", analysisID),
		logger.StringField("company", record.Subject.CompanyName),
	)

	if err := p.analysisRepo.MarkRunning(ctx, analysisID, runID, p.now()); err != nil {
		err = fmt.Errorf("failed to mark analysis running: %w", err)
		p.fail(ctx, log, analysisID, err)
		return err
	}
	log.Info("Sentiment run started")

	outcome, runErr := p.execute(ctx, log, record)
	outcome.RunID = runID
	outcome.AnalysisID = analysisID
	outcome.SubjectID = record.SubjectID
	if outcome.CompanyName == "" {
		outcome.CompanyName = record.Subject.CompanyName
	}

	if runErr != nil {
		message := p.fail(ctx, log, analysisID, runErr)

		outcome.Status = entity.AnalysisStatusFailed
		outcome.Summary = message
		outcome.Err = runErr
		outcome.FinishedAt = p.now()
		log.Error("Sentiment run failed", logger.ErrorField(runErr))
	} else {
		log.Info("Sentiment run finished",
			logger.IntField("comments", outcome.Comments),
			logger.IntField("positive", outcome.Stats.Positive),
			logger.IntField("negative", outcome.Stats.Negative),
			logger.IntField("neutral", outcome.Stats.Neutral))
	}

	for _, hook := range p.hooks {
		hook.AfterRun(ctx, outcome)
	}
	return runErr
}

func (p *sentimentPipeline) Abandon(ctx context.Context, analysisID uint, reason string) error {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failureWriteTimeout)
	defer cancel()

	record, err := p.analysisRepo.FindByID(writeCtx, analysisID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load analysis %d: %w", analysisID, err)
	}
	if record.Status == entity.AnalysisStatusFailed {
		return nil
	}
	return p.analysisRepo.MarkFailed(writeCtx, analysisID, utils.Truncate(reason, p.cfg.ErrorMaxChars), p.now())
}

// fail marks the analysis failed with the truncated error text and returns that text.
// A write error is only logged so the original error reaches the caller.
func (p *sentimentPipeline) fail(ctx context.Context, log *logger.Logger, analysisID uint, runErr error) string {
	message := utils.Truncate(runErr.Error(), p.cfg.ErrorMaxChars)
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failureWriteTimeout)
	defer cancel()
	if err := p.analysisRepo.MarkFailed(writeCtx, analysisID, message, p.now()); err != nil {
		log.Error("Failed to mark analysis failed", logger.ErrorField(err), logger.UintField("analysis_id", analysisID))
	}
	return message
}

func (p *sentimentPipeline) execute(ctx context.Context, log *logger.Logger, record *entity.AnalysisRecord) (RunOutcome, error) {
	company := record.Subject.CompanyName

	fetchCtx, cancel := withOptionalTimeout(ctx, p.cfg.FetchTimeout)
	name, code, raws, err := p.source.Fetch(fetchCtx, company)
	cancel()
	if err != nil {
		return RunOutcome{}, fmt.Errorf("failed to fetch comments for %s: %w", company, err)
	}
	if code == nil {
		return RunOutcome{CompanyName: name}, fmt.Errorf("%w: %s", ErrCompanyNotFound, company)
	}

	outcome := RunOutcome{CompanyName: name, StockCode: *code, Keywords: []string{}}
	result := &dto.AnalysisResult{
		AnalysisID: record.ID,
		SubjectID:  record.SubjectID,
		StockCode:  *code,
		Keywords:   []string{},
	}

	comments := make([]entity.CommentRecord, len(raws))
	var (
		texts   []string
		textIdx []int
	)
	for i, raw := range raws {
		comments[i] = entity.CommentRecord{
			AnalysisID: record.ID,
			Author:     utils.Truncate(strings.TrimSpace(raw.Author), 100),
			Content:    strings.TrimSpace(raw.Content),
			Likes:      raw.Likes,
			WrittenAt:  p.timeParser.Parse(raw.WrittenAt),
		}
		if comments[i].Content != "" {
			texts = append(texts, comments[i].Content)
			textIdx = append(textIdx, i)
		}
	}

	if len(texts) == 0 {
		log.Info("No comments to analyse", logger.IntField("raw_comments", len(raws)))
		result.FinishedAt = p.now()
		if err := p.analysisRepo.SaveResult(ctx, result); err != nil {
			return outcome, fmt.Errorf("failed to save empty result: %w", err)
		}
		outcome.Status = entity.AnalysisStatusDone
		outcome.FinishedAt = result.FinishedAt
		return outcome, nil
	}

	classifyCtx, cancel := withOptionalTimeout(ctx, p.cfg.ClassifyTimeout)
	labels := p.classifier.Classify(classifyCtx, texts)
	cancel()
	if len(labels) != len(texts) {
		return outcome, fmt.Errorf("classifier returned %d labels for %d texts", len(labels), len(texts))
	}

	var stats entity.SentimentStats
	for i, label := range labels {
		comments[textIdx[i]].Sentiment = label
		switch label {
		case common.SentimentPositive:
			stats.Positive++
		case common.SentimentNegative:
			stats.Negative++
		default:
			stats.Neutral++
		}
	}

	summarizeCtx, cancel := withOptionalTimeout(ctx, p.cfg.SummarizeTimeout)
	summary := p.summarizer.Extract(summarizeCtx, texts)
	cancel()
	if summary.Degraded || summary.Summary == "" {
		summary.Summary = GenericSummary(stats)
	}

	result.Summary = summary.Summary
	result.Keywords = summary.Keywords
	result.Stats = stats
	result.Comments = comments
	result.FinishedAt = p.now()
	if err := p.analysisRepo.SaveResult(ctx, result); err != nil {
		return outcome, fmt.Errorf("failed to save analysis result: %w", err)
	}

	outcome.Status = entity.AnalysisStatusDone
	outcome.Summary = result.Summary
	outcome.Keywords = result.Keywords
	outcome.Stats = stats
	outcome.Comments = len(comments)
	outcome.FinishedAt = result.FinishedAt
	return outcome, nil
}

// GenericSummary is stored when the model could not summarize the corpus.
func GenericSummary(stats entity.SentimentStats) string {
	return fmt.Sprintf("Auto-generated summary: %d comments analysed (%d positive, %d negative, %d neutral).",
		stats.Total(), stats.Positive, stats.Negative, stats.Neutral)
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
