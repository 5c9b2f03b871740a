package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/http/response"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
	"github.com/yungbote/tutormatch-backend/internal/services"
)

type StudentHandler struct {
	log            *logger.Logger
	studentService services.StudentService
}

func NewStudentHandler(log *logger.Logger, studentService services.StudentService) *StudentHandler {
	return &StudentHandler{
		log:            log.With("handler", "StudentHandler"),
		studentService: studentService,
	}
}

type createStudentRequest struct {
	Name          string  `json:"name"`
	LearningStyle string  `json:"learning_style"`
	ClassMode     string  `json:"class_mode"`
	GPA           float64 `json:"gpa"`
	RepeatCount   int     `json:"repeat_count"`
}

func (h *StudentHandler) Create(c *gin.Context) {
	var req createStudentRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	st, err := h.studentService.Create(c.Request.Context(), &domain.Student{
		Name:          req.Name,
		LearningStyle: domain.LearningStyle(req.LearningStyle),
		ClassMode:     domain.ClassMode(req.ClassMode),
		GPA:           req.GPA,
		RepeatCount:   req.RepeatCount,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, "student registered", st)
}

func (h *StudentHandler) List(c *gin.Context) {
	list, err := h.studentService.List(c.Request.Context())
	if err != nil {
		h.log.Error("List students failed", "error", err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, list)
}

func (h *StudentHandler) Get(c *gin.Context) {
	st, err := h.studentService.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, st)
}

func (h *StudentHandler) Update(c *gin.Context) {
	var patch domain.StudentPatch
	if err := bindJSON(c, &patch); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	st, err := h.studentService.Update(c.Request.Context(), c.Param("name"), patch)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondMessage(c, "student updated", st)
}

func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.studentService.Delete(c.Request.Context(), c.Param("name")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondMessage(c, "student deleted", nil)
}

func (h *StudentHandler) Similar(c *gin.Context) {
	limit, err := queryLimit(c, 0)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	peers, err := h.studentService.Similar(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, truncate(peers, limit))
}
