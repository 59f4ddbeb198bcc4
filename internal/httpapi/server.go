// Package httpapi exposes the remote-store collections over HTTP so other
// devices (or a web UI) can read and write a learner's record.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tobyward/pace/internal/dates"
	"github.com/tobyward/pace/internal/model"
	"github.com/tobyward/pace/internal/remote"
)

// Server wires the remote store into a gin router.
type Server struct {
	store remote.Store
	clock dates.Clock
}

// NewServer builds the API server around a remote store.
func NewServer(store remote.Store, clock dates.Clock) *Server {
	return &Server{store: store, clock: clock}
}

// Router builds the gin engine with all routes mounted under /api/v1.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})

		api.GET("/learners/:id/snapshot", s.handleGetSnapshot)
		api.POST("/learners/:id/lessons", s.handlePostLesson)
		api.POST("/learners/:id/attempts", s.handlePostAttempt)
		api.POST("/learners/:id/assessments", s.handlePostAssessment)
		api.POST("/learners/:id/exam", s.handlePostExam)
		api.PUT("/learners/:id/gamification", s.handlePutGamification)
	}

	return r
}

// requestLogger logs one line per request via slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}

type snapshotResponse struct {
	LearnerID    string                   `json:"learner_id"`
	Progress     *model.ProgressState     `json:"progress"`
	Gamification *model.GamificationState `json:"gamification"`
}

func (s *Server) handleGetSnapshot(c *gin.Context) {
	learnerID := c.Param("id")
	ps, gs, err := s.store.LoadSnapshot(c.Request.Context(), learnerID)
	if err != nil {
		slog.Error("snapshot load failed", "learner", learnerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "snapshot load failed"})
		return
	}
	c.JSON(http.StatusOK, snapshotResponse{LearnerID: learnerID, Progress: ps, Gamification: gs})
}

type lessonRequest struct {
	ModuleID  string `json:"module_id" binding:"required"`
	LessonID  string `json:"lesson_id" binding:"required"`
	Completed bool   `json:"completed"`
}

func (s *Server) handlePostLesson(c *gin.Context) {
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.store.UpsertLessonProgress(c.Request.Context(), c.Param("id"), req.ModuleID, req.LessonID, req.Completed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type attemptRequest struct {
	ModuleID string `json:"module_id" binding:"required"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total" binding:"required"`
}

func (s *Server) handlePostAttempt(c *gin.Context) {
	var req attemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	percentage := float64(req.Correct) * 100 / float64(req.Total)
	err := s.store.InsertPracticeAttempt(c.Request.Context(), c.Param("id"),
		req.ModuleID, req.Correct, req.Total, percentage, s.clock.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

type assessmentRequest struct {
	ModuleID string `json:"module_id" binding:"required"`
	Passed   bool   `json:"passed"`
	Score    int    `json:"score"`
}

func (s *Server) handlePostAssessment(c *gin.Context) {
	var req assessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.store.InsertAssessmentResult(c.Request.Context(), c.Param("id"),
		req.ModuleID, req.Passed, req.Score, s.clock.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

type examRequest struct {
	Passed bool `json:"passed"`
	Score  int  `json:"score"`
}

func (s *Server) handlePostExam(c *gin.Context) {
	var req examRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.store.InsertFinalExamResult(c.Request.Context(), c.Param("id"), req.Passed, req.Score, s.clock.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

func (s *Server) handlePutGamification(c *gin.Context) {
	var gs model.GamificationState
	if err := c.ShouldBindJSON(&gs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	gs.Normalize()

	learnerID := c.Param("id")
	ctx := c.Request.Context()
	if err := s.store.UpsertStreakState(ctx, learnerID, &gs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
		return
	}
	if err := s.store.UpsertGamificationState(ctx, learnerID, &gs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
		return
	}
	for key, ls := range gs.LessonStrength {
		moduleID, lessonID, ok := model.SplitStrengthKey(key)
		if !ok {
			continue
		}
		if err := s.store.UpsertLessonStrength(ctx, learnerID, moduleID, lessonID, ls.Strength, ls.LastReviewed); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "write failed"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
