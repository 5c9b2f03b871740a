package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/http/response"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
	"github.com/yungbote/tutormatch-backend/internal/services"
)

type RecommendationHandler struct {
	log                   *logger.Logger
	recommendationService services.RecommendationService
	defaultLimit          int
}

// NewRecommendationHandler caps ranked lists at defaultLimit when the request
// has no ?limit=. 0 returns every candidate.
func NewRecommendationHandler(log *logger.Logger, recommendationService services.RecommendationService, defaultLimit int) *RecommendationHandler {
	return &RecommendationHandler{
		log:                   log.With("handler", "RecommendationHandler"),
		recommendationService: recommendationService,
		defaultLimit:          defaultLimit,
	}
}

type recommendationPayload struct {
	Student         string                  `json:"student"`
	Course          string                  `json:"course,omitempty"`
	Total           int                     `json:"total"`
	Recommendations []domain.Recommendation `json:"recommendations"`
}

func (h *RecommendationHandler) Recommend(c *gin.Context) {
	limit, err := queryLimit(c, h.defaultLimit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	student, course := c.Param("student"), c.Query("course")
	recs, err := h.recommendationService.Recommend(c.Request.Context(), student, course)
	if err != nil {
		h.log.Ctx(c.Request.Context()).Warn("Recommend failed", "student", student, "course", course, "error", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, recommendationPayload{
		Student:         student,
		Course:          course,
		Total:           len(recs),
		Recommendations: truncate(recs, limit),
	})
}

// History returns up to ?limit= audit runs, default domain.DefaultHistoryLimit.
// 0 returns the most the store serves, domain.MaxHistoryLimit.
func (h *RecommendationHandler) History(c *gin.Context) {
	limit, err := queryLimitMax(c, domain.DefaultHistoryLimit, domain.MaxHistoryLimit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	runs, err := h.recommendationService.History(c.Request.Context(), c.Param("student"), limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, runs)
}

func (h *RecommendationHandler) RecordPass(c *gin.Context) {
	var rec domain.PassRecord
	if err := bindJSON(c, &rec); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	ok, err := h.recommendationService.RecordCoursePassed(c.Request.Context(), rec)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	msg := "course pass recorded"
	if !ok {
		msg = "student, instructor or course not found; nothing recorded"
	}
	response.RespondMessage(c, msg, gin.H{"recorded": ok})
}
