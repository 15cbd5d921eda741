package handlers

import (
	"net/http"

	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"github.com/Akila-Wasalathilaka/cognihire/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ItemHandler struct {
	log   *zap.Logger
	items *services.ItemService
}

func NewItemHandler(log *zap.Logger, items *services.ItemService) *ItemHandler {
	return &ItemHandler{log: log, items: items}
}

// Activate starts an item's server-side clock and returns the advisory
// deadline, if the item carries a timer.
func (h *ItemHandler) Activate(c *gin.Context) {
	deadline, err := h.items.Activate(c.Request.Context(), c.Param("id"), principal(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	resp := gin.H{"status": models.ItemActive}
	if deadline != nil {
		resp["server_deadline_at"] = deadline
	}
	c.JSON(http.StatusOK, resp)
}

type submitRequest struct {
	Metrics models.RawMetrics `json:"metrics"`
}

// Submit scores the item's raw metrics and returns the server scoring record.
func (h *ItemHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "metrics payload is required"})
		return
	}

	result, err := h.items.Submit(c.Request.Context(), c.Param("id"), req.Metrics, principal(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  models.ItemSubmitted,
		"scoring": result,
	})
}
