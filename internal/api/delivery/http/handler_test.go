package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang-finance-insight/internal/api/dto"
	"golang-finance-insight/internal/api/service"
	"golang-finance-insight/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSubjectService struct {
	mock.Mock
}

func (m *mockSubjectService) Watch(ctx context.Context, req *dto.WatchSubjectRequest) (*dto.SubjectResponse, bool, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*dto.SubjectResponse)
	return r, args.Bool(1), args.Error(2)
}

func (m *mockSubjectService) List(ctx context.Context, userID uint) ([]*dto.SubjectResponse, error) {
	args := m.Called(ctx, userID)
	r, _ := args.Get(0).([]*dto.SubjectResponse)
	return r, args.Error(1)
}

func (m *mockSubjectService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSubjectService) Trigger(ctx context.Context, id uint) (*dto.TriggerResponse, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*dto.TriggerResponse)
	return r, args.Error(1)
}

func (m *mockSubjectService) Result(ctx context.Context, id uint) (*dto.AnalysisResultResponse, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*dto.AnalysisResultResponse)
	return r, args.Error(1)
}

type mockRecommendationService struct {
	mock.Mock
}

func (m *mockRecommendationService) Recommend(ctx context.Context, userID uint, topN int) (*dto.RecommendationResponse, error) {
	args := m.Called(ctx, userID, topN)
	r, _ := args.Get(0).(*dto.RecommendationResponse)
	return r, args.Error(1)
}

type mockJoinService struct {
	mock.Mock
}

func (m *mockJoinService) Join(ctx context.Context, userID uint, req *dto.JoinProductRequest) (*dto.JoinProductResponse, error) {
	args := m.Called(ctx, userID, req)
	r, _ := args.Get(0).(*dto.JoinProductResponse)
	return r, args.Error(1)
}

func newTestServer(subjects service.SubjectService, recs service.RecommendationService, joins service.ProductJoinService, sync bool) *echo.Echo {
	e := echo.New()
	api := e.Group("/api/v1")
	NewSubjectHandler(subjects, sync, logger.NewNop()).RegisterRoutes(api.Group("/subjects"))
	NewUserHandler(recs, joins, logger.NewNop()).RegisterRoutes(api.Group("/users"))
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSubjectHandler_Watch(t *testing.T) {
	subjects := &mockSubjectService{}
	subjects.On("Watch", mock.Anything, &dto.WatchSubjectRequest{UserID: 1, CompanyName: "카카오"}).
		Return(&dto.SubjectResponse{ID: 3, CompanyName: "카카오", Status: "waiting"}, true, nil).Once()
	subjects.On("Watch", mock.Anything, &dto.WatchSubjectRequest{UserID: 1, CompanyName: "카카오"}).
		Return(&dto.SubjectResponse{ID: 3, CompanyName: "카카오", Status: "done"}, false, nil).Once()
	subjects.On("Watch", mock.Anything, &dto.WatchSubjectRequest{UserID: 1}).
		Return(nil, false, service.ErrInvalidInput)
	e := newTestServer(subjects, &mockRecommendationService{}, &mockJoinService{}, false)

	rec := do(e, http.MethodPost, "/api/v1/subjects", `{"user_id":1,"company_name":"카카오"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/subjects", `{"user_id":1,"company_name":"카카오"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	var body dto.SubjectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "done", body.Status)

	rec = do(e, http.MethodPost, "/api/v1/subjects", `{"user_id":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodPost, "/api/v1/subjects", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubjectHandler_Trigger(t *testing.T) {
	tests := []struct {
		name     string
		sync     bool
		resp     *dto.TriggerResponse
		err      error
		wantCode int
	}{
		{name: "async", resp: &dto.TriggerResponse{AnalysisID: 7, Status: "running"}, wantCode: http.StatusAccepted},
		{name: "sync", sync: true, resp: &dto.TriggerResponse{AnalysisID: 7, Status: "done"}, wantCode: http.StatusOK},
		{name: "running", err: service.ErrAnalysisRunning, wantCode: http.StatusConflict},
		{name: "missing", err: service.ErrSubjectNotFound, wantCode: http.StatusNotFound},
		{name: "broken", err: errors.New("redis down"), wantCode: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subjects := &mockSubjectService{}
			subjects.On("Trigger", mock.Anything, uint(3)).Return(tt.resp, tt.err)
			e := newTestServer(subjects, &mockRecommendationService{}, &mockJoinService{}, tt.sync)

			rec := do(e, http.MethodPost, "/api/v1/subjects/3/analyze", "")

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "redis down")
			}
		})
	}
}

func TestSubjectHandler_ListResultDelete(t *testing.T) {
	subjects := &mockSubjectService{}
	subjects.On("List", mock.Anything, uint(1)).Return([]*dto.SubjectResponse{{ID: 3}}, nil)
	subjects.On("Result", mock.Anything, uint(3)).Return(&dto.AnalysisResultResponse{SubjectID: 3, OverallSentiment: "positive"}, nil)
	subjects.On("Delete", mock.Anything, uint(3)).Return(nil)
	e := newTestServer(subjects, &mockRecommendationService{}, &mockJoinService{}, false)

	rec := do(e, http.MethodGet, "/api/v1/subjects?user_id=1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/subjects", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/subjects/3/result", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"overall_sentiment":"positive"`)

	rec = do(e, http.MethodDelete, "/api/v1/subjects/3", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodDelete, "/api/v1/subjects/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler(t *testing.T) {
	recs := &mockRecommendationService{}
	recs.On("Recommend", mock.Anything, uint(1), 3).Return(&dto.RecommendationResponse{Message: "recommended products"}, nil)
	recs.On("Recommend", mock.Anything, uint(1), 0).Return(&dto.RecommendationResponse{}, nil)
	recs.On("Recommend", mock.Anything, uint(2), 0).Return(nil, service.ErrProfileNotFound)
	joins := &mockJoinService{}
	joins.On("Join", mock.Anything, uint(1), &dto.JoinProductRequest{OptionID: 11, Amount: 500}).
		Return(&dto.JoinProductResponse{JoinedProductID: 42}, nil)
	e := newTestServer(&mockSubjectService{}, recs, joins, false)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/v1/users/1/recommendations?top_n=3", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/v1/users/1/recommendations", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/v1/users/1/recommendations?top_n=0", "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/api/v1/users/2/recommendations", "").Code)
	assert.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/api/v1/users/1/joined-products", `{"option_id":11,"amount":500}`).Code)
}
