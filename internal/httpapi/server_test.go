package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobyward/pace/internal/model"
	"github.com/tobyward/pace/internal/remote"
	"github.com/tobyward/pace/internal/testutil"
)

func newTestServer(t *testing.T) (*gin.Engine, *remote.SQLStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := remote.Open("sqlite3", filepath.Join(t.TempDir(), "remote.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	clock := testutil.NewFixedClock(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	return NewServer(store, clock).Router(), store
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestServer_Ping(t *testing.T) {
	router, _ := newTestServer(t)
	w := doJSON(t, router, http.MethodGet, "/api/v1/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}

func TestServer_PostLesson_PersistsAndValidates(t *testing.T) {
	router, store := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/learners/l1/lessons",
		`{"module_id":"foundations","lesson_id":"intro","completed":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	ps, _, err := store.LoadSnapshot(context.Background(), "l1")
	require.NoError(t, err)
	assert.True(t, ps.Module("foundations").Lessons["intro"].Completed)

	// Missing required fields.
	w = doJSON(t, router, http.MethodPost, "/api/v1/learners/l1/lessons", `{"module_id":"foundations"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_PostAttempt(t *testing.T) {
	router, store := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/learners/l1/attempts",
		`{"module_id":"foundations","correct":9,"total":10}`)
	require.Equal(t, http.StatusCreated, w.Code)

	ps, _, err := store.LoadSnapshot(context.Background(), "l1")
	require.NoError(t, err)
	p := ps.Module("foundations").Practice
	assert.Equal(t, 1, p.Attempts)
	assert.Equal(t, 90, p.BestScore)
}

func TestServer_PostAssessmentAndExam(t *testing.T) {
	router, store := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/learners/l1/assessments",
		`{"module_id":"foundations","passed":true,"score":85}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/learners/l1/exam",
		`{"passed":false,"score":40}`)
	require.Equal(t, http.StatusCreated, w.Code)

	ps, _, err := store.LoadSnapshot(context.Background(), "l1")
	require.NoError(t, err)
	assert.True(t, *ps.Module("foundations").GQA.Passed)
	require.NotNil(t, ps.FinalExam.Passed)
	assert.False(t, *ps.FinalExam.Passed)
}

func TestServer_PutGamification(t *testing.T) {
	router, store := newTestServer(t)

	gs := model.NewGamificationState()
	gs.StreakCount = 4
	gs.TotalXP = 150
	gs.Level = 2
	body, err := json.Marshal(gs)
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPut, "/api/v1/learners/l1/gamification", string(body))
	require.Equal(t, http.StatusOK, w.Code)

	_, got, err := store.LoadSnapshot(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, 4, got.StreakCount)
	assert.Equal(t, 150, got.TotalXP)
}

func TestServer_GetSnapshot(t *testing.T) {
	router, store := newTestServer(t)
	require.NoError(t, store.UpsertLessonProgress(context.Background(), "l1", "foundations", "intro", true))

	w := doJSON(t, router, http.MethodGet, "/api/v1/learners/l1/snapshot", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp snapshotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "l1", resp.LearnerID)
	assert.True(t, resp.Progress.Module("foundations").Lessons["intro"].Completed)
}
