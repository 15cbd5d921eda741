package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"github.com/Akila-Wasalathilaka/cognihire/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TelemetryHandler struct {
	log       *zap.Logger
	telemetry *services.TelemetryService
}

func NewTelemetryHandler(log *zap.Logger, telemetry *services.TelemetryService) *TelemetryHandler {
	return &TelemetryHandler{log: log, telemetry: telemetry}
}

// Ingest records one behavioral event and runs the violation check.
func (h *TelemetryHandler) Ingest(c *gin.Context) {
	var event services.IngestEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
		return
	}

	entry, err := h.telemetry.Ingest(c.Request.Context(), event, principal(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event_id": entry.ID})
}

type heartbeatRequest struct {
	Data json.RawMessage `json:"data"`
}

// Heartbeat records a liveness ping for the assessment.
func (h *TelemetryHandler) Heartbeat(c *gin.Context) {
	var req heartbeatRequest
	// An empty body is a valid heartbeat.
	_ = c.ShouldBindJSON(&req)

	entry, err := h.telemetry.Heartbeat(c.Request.Context(), c.Param("id"), req.Data, principal(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event_id": entry.ID})
}

type manualFlagRequest struct {
	FlagType    string `json:"flag_type" binding:"required"`
	Severity    string `json:"severity" binding:"required"`
	Description string `json:"description"`
}

// ManualFlag lets a reviewer append an integrity flag directly. Admin only.
func (h *TelemetryHandler) ManualFlag(c *gin.Context) {
	var req manualFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "flag_type and severity are required"})
		return
	}

	err := h.telemetry.ManualFlag(c.Request.Context(), c.Param("id"),
		req.FlagType, models.Severity(req.Severity), req.Description, principal(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Report returns the aggregate integrity risk view. Admin only.
func (h *TelemetryHandler) Report(c *gin.Context) {
	report, err := h.telemetry.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Events lists recent raw telemetry rows. Admin only.
func (h *TelemetryHandler) Events(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	events, err := h.telemetry.Events(c.Request.Context(), c.Param("id"), c.Query("event_type"), limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Stats summarizes recorded telemetry for an assessment. Admin only.
func (h *TelemetryHandler) Stats(c *gin.Context) {
	stats, err := h.telemetry.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
