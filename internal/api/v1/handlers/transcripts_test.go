package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dualscribe/internal/api/v1/dto"
)

type stubTranscriptService struct {
	lastLimit  int
	lastOffset int
	summaries  []dto.TranscriptSummary
	summary    *dto.TranscriptSummary
	err        error
}

func (s *stubTranscriptService) List(ctx context.Context, limit, offset int) ([]dto.TranscriptSummary, error) {
	s.lastLimit = limit
	s.lastOffset = offset
	return s.summaries, s.err
}

func (s *stubTranscriptService) Get(ctx context.Context, id int64) (*dto.TranscriptSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

func newTranscriptRouter(svc *stubTranscriptService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewTranscriptHandler(svc)
	router.GET("/api/v1/transcripts", handler.List)
	router.GET("/api/v1/transcripts/:id", handler.Get)
	return router
}

func TestTranscriptHandler_List(t *testing.T) {
	svc := &stubTranscriptService{summaries: []dto.TranscriptSummary{{ID: 1, RequestID: "r1"}}}
	router := newTranscriptRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/transcripts?limit=10&offset=5", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, svc.lastLimit)
	assert.Equal(t, 5, svc.lastOffset)

	var resp dto.TranscriptListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "r1", resp.Data[0].RequestID)
}

func TestTranscriptHandler_List_DefaultLimit(t *testing.T) {
	svc := &stubTranscriptService{}
	router := newTranscriptRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/transcripts", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, svc.lastLimit)
}

func TestTranscriptHandler_Get(t *testing.T) {
	svc := &stubTranscriptService{summary: &dto.TranscriptSummary{ID: 7, RequestID: "r7"}}
	router := newTranscriptRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/transcripts/7", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TranscriptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "r7", resp.Data.RequestID)
}

func TestTranscriptHandler_Get_NotFound(t *testing.T) {
	router := newTranscriptRouter(&stubTranscriptService{err: sql.ErrNoRows})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/transcripts/99", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTranscriptHandler_Get_InvalidID(t *testing.T) {
	router := newTranscriptRouter(&stubTranscriptService{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/transcripts/abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
