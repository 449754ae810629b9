package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/instihub/instihub-backend/internal/middleware"
	"github.com/instihub/instihub-backend/internal/model"
	"github.com/instihub/instihub-backend/internal/response"
	"github.com/instihub/instihub-backend/internal/service"
	"github.com/instihub/instihub-backend/internal/validator"
)

// AccessHandler handles the per-institution delegated admin registry.
// All endpoints re-derive the requester's email from verified token claims;
// a client-supplied "I am superadmin" flag is never trusted.
type AccessHandler struct {
	accessService *service.AccessService
}

// NewAccessHandler creates a new AccessHandler.
func NewAccessHandler(accessService *service.AccessService) *AccessHandler {
	return &AccessHandler{accessService: accessService}
}

// ListAdmins godoc
// GET /api/v1/institutions/:slug/access-control
func (h *AccessHandler) ListAdmins(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	inst, admins, err := h.accessService.ListAdmins(c.Request.Context(), c.Param("slug"), claims.Email)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"superadmin": inst.SuperadminEmail,
		"admins":     admins,
	})
}

// AddAdmin godoc
// POST /api/v1/institutions/:slug/access-control
func (h *AccessHandler) AddAdmin(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.AddDelegatedAdminRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.accessService.AddAdmin(c.Request.Context(), c.Param("slug"), claims.Email, req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"admin": admin})
}

// RemoveAdmin godoc
// DELETE /api/v1/institutions/:slug/access-control/:email
func (h *AccessHandler) RemoveAdmin(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	err := h.accessService.RemoveAdmin(c.Request.Context(), c.Param("slug"), claims.Email, c.Param("email"))
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
