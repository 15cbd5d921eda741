package handlers

import (
	"net/http"
	"strconv"

	"github.com/Akila-Wasalathilaka/cognihire/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssessmentHandler struct {
	log      *zap.Logger
	sessions *services.SessionService
}

func NewAssessmentHandler(log *zap.Logger, sessions *services.SessionService) *AssessmentHandler {
	return &AssessmentHandler{log: log, sessions: sessions}
}

type createAssessmentRequest struct {
	CandidateID string `json:"candidate_id" binding:"required"`
	JobRoleID   string `json:"job_role_id" binding:"required"`
}

// Create assigns a new assessment to a candidate. Admin only.
func (h *AssessmentHandler) Create(c *gin.Context) {
	var req createAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidate_id and job_role_id are required"})
		return
	}

	assessment, err := h.sessions.Create(c.Request.Context(), req.CandidateID, req.JobRoleID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, assessment)
}

// List returns recent assessments. Admin only.
func (h *AssessmentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	assessments, err := h.sessions.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, assessments)
}

func (h *AssessmentHandler) Get(c *gin.Context) {
	assessment, err := h.sessions.Get(c.Request.Context(), c.Param("id"), principal(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// Delete removes a NOT_STARTED assessment. Admin only; anything started is a
// conflict.
func (h *AssessmentHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Start materializes the item schedule and moves the assessment to
// IN_PROGRESS.
func (h *AssessmentHandler) Start(c *gin.Context) {
	items, err := h.sessions.Start(c.Request.Context(), c.Param("id"), principal(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Current returns the caller's active assessment, or 204 when there is none.
func (h *AssessmentHandler) Current(c *gin.Context) {
	assessment, err := h.sessions.Current(c.Request.Context(), principal(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if assessment == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, assessment)
}

// Items lists the assessment's items in schedule order.
func (h *AssessmentHandler) Items(c *gin.Context) {
	items, err := h.sessions.ListItems(c.Request.Context(), c.Param("id"), principal(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
