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

// InstitutionHandler handles public registration and the authenticated
// institution profile endpoints.
type InstitutionHandler struct {
	institutionService *service.InstitutionService
}

// NewInstitutionHandler creates a new InstitutionHandler.
func NewInstitutionHandler(institutionService *service.InstitutionService) *InstitutionHandler {
	return &InstitutionHandler{institutionService: institutionService}
}

// Register godoc
// POST /api/v1/institutions/register
// Public intake: creates a pending request awaiting platform review.
func (h *InstitutionHandler) Register(c *gin.Context) {
	var req model.RegisterInstitutionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p, err := h.institutionService.Register(c.Request.Context(), req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"request_id": p.ID,
		"status":     p.Status,
	})
}

// GetProfile godoc
// GET /api/v1/institutions/me
func (h *InstitutionHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	inst, err := h.institutionService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"institution": inst})
}

// UpdateProfileRequest edits display fields. A changed name regenerates
// the slug; an unchanged one keeps it.
type UpdateProfileRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=200"`
	Phone       string `json:"phone" binding:"omitempty,max=30"`
	Address     string `json:"address" binding:"omitempty,max=500"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateProfile godoc
// PUT /api/v1/institutions/me
// Superadmin only.
func (h *InstitutionHandler) UpdateProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	if !claims.IsSuperadmin {
		response.Fail(c, http.StatusForbidden, response.ErrSuperadminOnly)
		return
	}

	var req UpdateProfileRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	inst, err := h.institutionService.UpdateProfile(c.Request.Context(), claims.UserID,
		req.Name, req.Phone, req.Address, req.Description)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"institution": inst})
}
