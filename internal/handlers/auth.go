package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Akila-Wasalathilaka/cognihire/internal/auth"
	"github.com/Akila-Wasalathilaka/cognihire/internal/config"
	"github.com/Akila-Wasalathilaka/cognihire/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthHandler struct {
	log   *zap.Logger
	users *repository.UserRepo
}

func NewAuthHandler(log *zap.Logger, users *repository.UserRepo) *AuthHandler {
	return &AuthHandler{log: log, users: users}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a bearer token. Bad username and bad
// password produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(c, h.log, err)
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	ttl := time.Duration(config.Conf.Auth.TokenTTLMin) * time.Minute
	token, err := auth.Sign(user, config.Conf.Auth.JWTSecret, ttl)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if err := h.users.TouchLastLogin(c.Request.Context(), user.ID); err != nil {
		h.log.Warn("Failed to record login time", zap.String("user_id", user.ID), zap.Error(err))
	}

	h.log.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("role", user.Role))
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// Me returns the authenticated user's own record.
func (h *AuthHandler) Me(c *gin.Context) {
	p := principal(c)
	user, err := h.users.GetByID(c.Request.Context(), p.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"tenant_id": user.TenantID,
		"username":  user.Username,
		"email":     user.Email,
		"role":      user.Role,
	})
}
