package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-finance-insight/internal/executor/config"
	"golang-finance-insight/internal/executor/repository"
	"golang-finance-insight/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTaskStream struct {
	mock.Mock
}

func (m *mockTaskStream) Read(ctx context.Context, block time.Duration) (*repository.StreamMessage, error) {
	args := m.Called(ctx, block)
	msg, _ := args.Get(0).(*repository.StreamMessage)
	return msg, args.Error(1)
}

func (m *mockTaskStream) ClaimStale(ctx context.Context, minIdle time.Duration) (*repository.StreamMessage, int64, error) {
	args := m.Called(ctx, minIdle)
	msg, _ := args.Get(0).(*repository.StreamMessage)
	return msg, args.Get(1).(int64), args.Error(2)
}

func (m *mockTaskStream) AckNDel(ctx context.Context, messageID string) error {
	return m.Called(ctx, messageID).Error(0)
}

type stubPipeline struct {
	err        error
	abandonErr error
	calls      []uint
	abandoned  map[uint]string
}

func (p *stubPipeline) Run(_ context.Context, analysisID uint) error {
	p.calls = append(p.calls, analysisID)
	return p.err
}

func (p *stubPipeline) Abandon(_ context.Context, analysisID uint, reason string) error {
	if p.abandonErr != nil {
		return p.abandonErr
	}
	if p.abandoned == nil {
		p.abandoned = map[uint]string{}
	}
	p.abandoned[analysisID] = reason
	return nil
}

type stubNotifier struct {
	messages []string
}

func (n *stubNotifier) SendMessage(text string) error {
	n.messages = append(n.messages, text)
	return nil
}

func taskMessage(id string) *repository.StreamMessage {
	return &repository.StreamMessage{ID: id, Values: map[string]interface{}{
		"payload": `{"analysis_id":7,"subject_id":3,"trigger":"api"}`,
	}}
}

func newTaskService(stream repository.TaskStreamRepository, pipeline SentimentPipeline, notifier *stubNotifier) AnalysisTaskService {
	cfg := &config.Config{Executor: config.Executor{AnalysisMaxRetry: 3, AnalysisMaxIdleDuration: time.Minute}}
	return NewAnalysisTaskService(cfg, logger.NewNop(), stream, pipeline, notifier)
}

func TestAnalysisTaskService_ProcessTaskAckRules(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantAck bool
	}{
		{name: "success", wantAck: true},
		{name: "company not found", err: ErrCompanyNotFound, wantAck: true},
		{name: "busy", err: ErrAnalysisBusy, wantAck: true},
		{name: "transient", err: errors.New("upstream timeout"), wantAck: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := &mockTaskStream{}
			stream.On("Read", mock.Anything, streamBlock).Return(taskMessage("1-0"), nil)
			if tt.wantAck {
				stream.On("AckNDel", mock.Anything, "1-0").Return(nil).Once()
			}
			pipeline := &stubPipeline{err: tt.err}

			newTaskService(stream, pipeline, &stubNotifier{}).ProcessTask(context.Background())

			assert.Equal(t, []uint{7}, pipeline.calls)
			stream.AssertExpectations(t)
			if !tt.wantAck {
				stream.AssertNotCalled(t, "AckNDel", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestAnalysisTaskService_ProcessTaskDropsMalformed(t *testing.T) {
	stream := &mockTaskStream{}
	stream.On("Read", mock.Anything, streamBlock).Return(&repository.StreamMessage{ID: "2-0", Values: map[string]interface{}{"payload": "nope"}}, nil)
	stream.On("AckNDel", mock.Anything, "2-0").Return(nil).Once()
	pipeline := &stubPipeline{}

	newTaskService(stream, pipeline, &stubNotifier{}).ProcessTask(context.Background())

	assert.Empty(t, pipeline.calls)
	stream.AssertExpectations(t)
}

func TestAnalysisTaskService_ProcessTaskIdle(t *testing.T) {
	stream := &mockTaskStream{}
	stream.On("Read", mock.Anything, streamBlock).Return(nil, nil)
	pipeline := &stubPipeline{}

	newTaskService(stream, pipeline, &stubNotifier{}).ProcessTask(context.Background())

	assert.Empty(t, pipeline.calls)
}

func TestAnalysisTaskService_ProcessRetries(t *testing.T) {
	t.Run("retries under budget", func(t *testing.T) {
		stream := &mockTaskStream{}
		stream.On("ClaimStale", mock.Anything, time.Minute).Return(taskMessage("3-0"), int64(1), nil)
		stream.On("AckNDel", mock.Anything, "3-0").Return(nil).Once()
		pipeline := &stubPipeline{}
		notifier := &stubNotifier{}

		newTaskService(stream, pipeline, notifier).ProcessRetries(context.Background())

		assert.Equal(t, []uint{7}, pipeline.calls)
		assert.Empty(t, notifier.messages)
		stream.AssertExpectations(t)
	})

	t.Run("budget exceeded alerts and acks", func(t *testing.T) {
		stream := &mockTaskStream{}
		stream.On("ClaimStale", mock.Anything, time.Minute).Return(taskMessage("4-0"), int64(3), nil)
		stream.On("AckNDel", mock.Anything, "4-0").Return(nil).Once()
		pipeline := &stubPipeline{}
		notifier := &stubNotifier{}

		newTaskService(stream, pipeline, notifier).ProcessRetries(context.Background())

		assert.Empty(t, pipeline.calls)
		assert.Len(t, notifier.messages, 1)
		assert.Contains(t, notifier.messages[0], "analysis 7 failed 3 times")
		assert.Equal(t, map[uint]string{7: "analysis gave up after 3 attempts"}, pipeline.abandoned)
		stream.AssertExpectations(t)
	})

	t.Run("budget exceeded keeps the entry when the status write fails", func(t *testing.T) {
		stream := &mockTaskStream{}
		stream.On("ClaimStale", mock.Anything, time.Minute).Return(taskMessage("5-0"), int64(4), nil)
		pipeline := &stubPipeline{abandonErr: errors.New("db down")}

		newTaskService(stream, pipeline, &stubNotifier{}).ProcessRetries(context.Background())

		stream.AssertNotCalled(t, "AckNDel", mock.Anything, mock.Anything)
	})

	t.Run("nothing pending", func(t *testing.T) {
		stream := &mockTaskStream{}
		stream.On("ClaimStale", mock.Anything, time.Minute).Return(nil, int64(0), nil)
		pipeline := &stubPipeline{}

		newTaskService(stream, pipeline, &stubNotifier{}).ProcessRetries(context.Background())

		assert.Empty(t, pipeline.calls)
	})
}
