package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutormatch-backend/internal/domain"
	"github.com/yungbote/tutormatch-backend/internal/http/response"
	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
	"github.com/yungbote/tutormatch-backend/internal/services"
)

type InstructorHandler struct {
	log               *logger.Logger
	instructorService services.InstructorService
}

func NewInstructorHandler(log *logger.Logger, instructorService services.InstructorService) *InstructorHandler {
	return &InstructorHandler{
		log:               log.With("handler", "InstructorHandler"),
		instructorService: instructorService,
	}
}

type createInstructorRequest struct {
	Name            string  `json:"name"`
	TeachingStyle   string  `json:"teaching_style"`
	ClassMode       string  `json:"class_mode"`
	YearsExperience int     `json:"years_experience"`
	Evaluation      float64 `json:"evaluation"`
	PassRate        float64 `json:"pass_rate"`
	Availability    int     `json:"availability"`
}

func (h *InstructorHandler) Create(c *gin.Context) {
	var req createInstructorRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	in, err := h.instructorService.Create(c.Request.Context(), &domain.Instructor{
		Name:            req.Name,
		TeachingStyle:   domain.LearningStyle(req.TeachingStyle),
		ClassMode:       domain.ClassMode(req.ClassMode),
		YearsExperience: req.YearsExperience,
		Evaluation:      req.Evaluation,
		PassRate:        req.PassRate,
		Availability:    req.Availability,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, "instructor registered", in)
}

// List accepts ?teaching_style= and ?class_mode= filters.
func (h *InstructorHandler) List(c *gin.Context) {
	list, err := h.instructorService.List(c.Request.Context(), c.Query("teaching_style"), c.Query("class_mode"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, list)
}

func (h *InstructorHandler) Get(c *gin.Context) {
	in, err := h.instructorService.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, in)
}

func (h *InstructorHandler) Update(c *gin.Context) {
	var patch domain.InstructorPatch
	if err := bindJSON(c, &patch); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	in, err := h.instructorService.Update(c.Request.Context(), c.Param("name"), patch)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondMessage(c, "instructor updated", in)
}

func (h *InstructorHandler) Delete(c *gin.Context) {
	if err := h.instructorService.Delete(c.Request.Context(), c.Param("name")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondMessage(c, "instructor deleted", nil)
}

func (h *InstructorHandler) Courses(c *gin.Context) {
	courses, err := h.instructorService.Courses(c.Request.Context(), c.Param("name"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, courses)
}

func (h *InstructorHandler) AssignCourse(c *gin.Context) {
	if err := h.instructorService.AssignCourse(c.Request.Context(), c.Param("name"), c.Param("code")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondMessage(c, "course assigned", gin.H{"instructor": c.Param("name"), "course": c.Param("code")})
}

func (h *InstructorHandler) UnassignCourse(c *gin.Context) {
	if err := h.instructorService.UnassignCourse(c.Request.Context(), c.Param("name"), c.Param("code")); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondMessage(c, "course unassigned", nil)
}
