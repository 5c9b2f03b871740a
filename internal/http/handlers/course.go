package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/http/response"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
	"github.com/yungbote/tutormatch-backend/internal/services"
)

type CourseHandler struct {
	log           *logger.Logger
	courseService services.CourseService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		courseService: courseService,
	}
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req domain.Course
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	course, err := h.courseService.Create(c.Request.Context(), &req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, "course created", course)
}

func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context(), c.Query("department"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, courses)
}

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courseService.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	var patch domain.CoursePatch
	if err := bindJSON(c, &patch); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	course, err := h.courseService.Update(c.Request.Context(), c.Param("code"), patch)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondMessage(c, "course updated", course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courseService.Delete(c.Request.Context(), c.Param("code")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondMessage(c, "course deleted", nil)
}
