package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Akila-Wasalathilaka/cognihire/internal/auth"
	"github.com/Akila-Wasalathilaka/cognihire/internal/models"
	"github.com/Akila-Wasalathilaka/cognihire/internal/repository"
	"github.com/Akila-Wasalathilaka/cognihire/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserHandler covers admin-side candidate account management.
type UserHandler struct {
	log   *zap.Logger
	users *repository.UserRepo
}

func NewUserHandler(log *zap.Logger, users *repository.UserRepo) *UserHandler {
	return &UserHandler{log: log, users: users}
}

type createCandidateRequest struct {
	TenantID  string  `json:"tenant_id" binding:"required"`
	Username  string  `json:"username" binding:"required"`
	Email     string  `json:"email" binding:"required"`
	Password  string  `json:"password"`
	FullName  string  `json:"full_name"`
	JobRoleID *string `json:"job_role_id"`
}

// CreateCandidate provisions a candidate account. When no password is given,
// a one-time password is generated and returned exactly once in the
// response.
func (h *UserHandler) CreateCandidate(c *gin.Context) {
	var req createCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tenant_id, username and email are required"})
		return
	}
	if !utils.IsValidUsername(req.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid username"})
		return
	}
	if !utils.IsValidEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}

	generated := ""
	if req.Password == "" {
		token, err := utils.GenerateSecureToken(12)
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		generated = token
		req.Password = token
	} else if !utils.IsComplexPassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password does not meet complexity requirements"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		TenantID:     req.TenantID,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         models.RoleCandidate,
		IsActive:     true,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "username or email already in use"})
			return
		}
		writeError(c, h.log, err)
		return
	}

	if req.FullName != "" || req.JobRoleID != nil {
		profile := &models.CandidateProfile{
			UserID:    user.ID,
			FullName:  req.FullName,
			JobRoleID: req.JobRoleID,
		}
		if err := h.users.SaveProfile(c.Request.Context(), profile); err != nil {
			writeError(c, h.log, err)
			return
		}
	}

	h.log.Info("Candidate created",
		zap.String("user_id", user.ID),
		zap.String("tenant_id", user.TenantID))

	resp := gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	}
	if generated != "" {
		resp["initial_password"] = generated
	}
	c.JSON(http.StatusCreated, resp)
}

// ListCandidates returns recent candidate accounts.
func (h *UserHandler) ListCandidates(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	users, err := h.users.ListByRole(c.Request.Context(), models.RoleCandidate, limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":            u.ID,
			"tenant_id":     u.TenantID,
			"username":      u.Username,
			"email":         u.Email,
			"is_active":     u.IsActive,
			"last_login_at": u.LastLoginAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"candidates": out})
}
