package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/garage-manager/internal/audit"
	"github.com/BruksfildServices01/garage-manager/internal/httperr"
	"github.com/BruksfildServices01/garage-manager/internal/httpresp"
	"github.com/BruksfildServices01/garage-manager/internal/middleware"
	"github.com/BruksfildServices01/garage-manager/internal/models"
	"github.com/BruksfildServices01/garage-manager/internal/validators"
)

// ======================================================
// HANDLER (admin only)
// ======================================================

type UserHandler struct {
	db          *gorm.DB
	audit       audit.Recorder
	checkDomain func(ctx context.Context, email string) bool
}

func NewUserHandler(db *gorm.DB, rec audit.Recorder) *UserHandler {
	return &UserHandler{
		db:          db,
		audit:       rec,
		checkDomain: validators.EmailDomainResolves,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
	Role     string `json:"role" binding:"required,oneof=admin technician"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin technician"`
	Active   *bool   `json:"active"`
}

type SetPermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// ======================================================
// USERS
// ======================================================

func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Permissions").
		Order("name ASC").
		Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Erro ao listar usuários.")
		return
	}

	out := make([]gin.H, 0, len(users))
	for i := range users {
		out = append(out, userView(&users[i]))
	}
	httpresp.List(c, out)
}

func (h *UserHandler) Create(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !h.checkDomain(c.Request.Context(), email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao criar usuário.")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         req.Role,
		Active:       true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		httperr.WriteError(c, err, "failed_to_create_user", "Erro ao criar usuário.")
		return
	}

	h.record(adminID, "user_created", &user, map[string]any{"role": user.Role})
	httpresp.Created(c, userView(&user))
}

func (h *UserHandler) Update(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	user, err := h.find(c, id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_get_user", "Erro ao buscar usuário.")
		return
	}

	// an admin cannot lock themselves out
	if id == adminID && ((req.Active != nil && !*req.Active) || (req.Role != nil && *req.Role != models.RoleAdmin)) {
		httperr.WriteError(c, httperr.ErrBusiness("forbidden"), "", "")
		return
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			httperr.Internal(c, "failed_to_hash_password", "Erro ao atualizar usuário.")
			return
		}
		user.PasswordHash = string(hashed)
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("Permissions").Save(user).Error; err != nil {
		httperr.WriteError(c, err, "failed_to_update_user", "Erro ao atualizar usuário.")
		return
	}

	h.record(adminID, "user_updated", user, map[string]any{"role": user.Role, "active": user.Active})
	httpresp.OK(c, userView(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if id == adminID {
		httperr.WriteError(c, httperr.ErrBusiness("cannot_delete_self"), "", "")
		return
	}

	user, err := h.find(c, id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_get_user", "Erro ao buscar usuário.")
		return
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Association("Permissions").Clear(); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.PushSubscription{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_delete_user", "Erro ao excluir usuário.")
		return
	}

	h.record(adminID, "user_deleted", user, map[string]any{"email": user.Email})
	httpresp.NoContent(c)
}

// ======================================================
// PERMISSIONS
// ======================================================

func (h *UserHandler) ListPermissions(c *gin.Context) {
	var perms []models.Permission
	if err := h.db.WithContext(c.Request.Context()).Order("name ASC").Find(&perms).Error; err != nil {
		httperr.Internal(c, "failed_to_list_permissions", "Erro ao listar permissões.")
		return
	}
	httpresp.List(c, perms)
}

func (h *UserHandler) SetPermissions(c *gin.Context) {
	adminID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req SetPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BindError(c, err)
		return
	}

	user, err := h.find(c, id)
	if err != nil {
		httperr.WriteError(c, err, "failed_to_get_user", "Erro ao buscar usuário.")
		return
	}

	var perms []models.Permission
	if len(req.Permissions) > 0 {
		if err := h.db.WithContext(c.Request.Context()).
			Where("name IN ?", req.Permissions).
			Find(&perms).Error; err != nil {
			httperr.Internal(c, "failed_to_set_permissions", "Erro ao salvar permissões.")
			return
		}
	}
	if len(perms) != len(req.Permissions) {
		httperr.BadRequest(c, "unknown_permission", "Permissão desconhecida.")
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(user).
		Association("Permissions").
		Replace(perms); err != nil {
		httperr.Internal(c, "failed_to_set_permissions", "Erro ao salvar permissões.")
		return
	}
	user.Permissions = perms

	h.record(adminID, "user_permissions_set", user, map[string]any{"permissions": req.Permissions})
	httpresp.OK(c, userView(user))
}

// ======================================================
// HELPERS
// ======================================================

func (h *UserHandler) find(c *gin.Context, id uint) (*models.User, error) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Permissions").
		First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("user_not_found")
		}
		return nil, err
	}
	return &user, nil
}

func (h *UserHandler) record(adminID uint, action string, u *models.User, meta any) {
	h.audit.Dispatch(audit.Event{
		UserID:   &adminID,
		Action:   action,
		Entity:   "user",
		EntityID: &u.ID,
		Metadata: meta,
	})
}
