package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/instihub/instihub-backend/internal/config"
	"github.com/instihub/instihub-backend/internal/model"
	"github.com/instihub/instihub-backend/internal/response"
	"github.com/instihub/instihub-backend/internal/service"
	"github.com/instihub/instihub-backend/internal/validator"
)

// AuthHandler handles the universal and institution-scoped login endpoints.
type AuthHandler struct {
	authService *service.AuthService
	resolver    *service.IdentityResolver
	cfg         *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, resolver *service.IdentityResolver, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		resolver:    resolver,
		cfg:         cfg,
	}
}

// UniversalLogin godoc
// POST /api/v1/auth/login
// Resolves the email against institution superadmins, delegated admins,
// instructors and students, in that order, and returns a role-tagged JWT.
func (h *AuthHandler) UniversalLogin(c *gin.Context) {
	h.login(c, h.cfg.UniversalTokenExpiry)
}

// InstitutionLogin godoc
// POST /api/v1/auth/institution/login
// Same resolution as the universal login but restricted to institution
// accounts and issuing a short-lived token.
func (h *AuthHandler) InstitutionLogin(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	identity, err := h.resolver.Resolve(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFromService(c, err)
		return
	}
	if identity.Role != service.RoleInstitution {
		// Same uniform answer as a bad password: this endpoint must not
		// reveal that the email exists in another universe.
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateIdentityToken(identity, h.cfg.InstitutionTokenExpiry)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":       token,
		"institution": institutionLoginBody(identity),
	})
}

func (h *AuthHandler) login(c *gin.Context, expiry time.Duration) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	identity, err := h.resolver.Resolve(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFromService(c, err)
		return
	}

	token, err := h.authService.GenerateIdentityToken(identity, expiry)
	if err != nil {
		failFromService(c, err)
		return
	}

	data := gin.H{
		"token": token,
		"role":  identity.Role,
	}
	switch identity.Role {
	case service.RoleInstitution:
		data["institution"] = institutionLoginBody(identity)
	case service.RoleInstructor:
		data["instructor"] = gin.H{"id": identity.ID, "name": identity.Name, "email": identity.Email}
	case service.RoleStudent:
		data["student"] = gin.H{"id": identity.ID, "name": identity.Name, "email": identity.Email}
	}

	response.Success(c, http.StatusOK, data)
}

func institutionLoginBody(identity *service.Identity) gin.H {
	body := gin.H{
		"id":            identity.InstitutionID,
		"name":          identity.Name,
		"slug":          identity.Slug,
		"eiin":          identity.EIIN,
		"email":         identity.Email,
		"is_superadmin": identity.IsSuperadmin,
	}
	if identity.AdminEmail != "" {
		body["admin_email"] = identity.AdminEmail
	}
	return body
}
