package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/garage-manager/internal/audit"
	"github.com/BruksfildServices01/garage-manager/internal/config"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/middleware"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	audit  audit.Recorder
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config, rec audit.Recorder) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, audit: rec}
}

// --------- Requests ---------

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	email := validators.NormalizeEmail(req.Email)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Permissions").
		Where("email = ? AND active = ?", email, true).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.WriteError(c, httperr.ErrBusiness("invalid_credentials"), "", "")
			return
		}
		httperr.Internal(c, "internal_error", "Erro ao autenticar.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.WriteError(c, httperr.ErrBusiness("invalid_credentials"), "", "")
		return
	}

	token, err := middleware.IssueToken(h.config, &user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar sessão.")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middleware.SessionCookie,
		token,
		int(h.config.JWTTTL.Seconds()),
		"/",
		"",
		h.config.IsProduction(),
		true,
	)

	h.audit.Dispatch(audit.Event{
		UserID:   &user.ID,
		Action:   "login",
		Entity:   "user",
		EntityID: &user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"user":  userView(&user),
		"token": token,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.config.IsProduction(), true)
	c.Status(http.StatusNoContent)
}

func userView(u *models.User) gin.H {
	perms := make([]string, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		perms = append(perms, p.Name)
	}
	return gin.H{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"phone":       u.Phone,
		"role":        u.Role,
		"active":      u.Active,
		"permissions": perms,
	}
}
