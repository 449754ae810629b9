package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/instihub/instihub-backend/internal/middleware"
	"github.com/instihub/instihub-backend/internal/model"
	"github.com/instihub/instihub-backend/internal/response"
	"github.com/instihub/instihub-backend/internal/service"
	"github.com/instihub/instihub-backend/internal/validator"
)

// AdminHandler handles platform-admin endpoints: login, institution
// lifecycle review and the system status page.
type AdminHandler struct {
	authService        *service.AuthService
	platformService    *service.PlatformAdminService
	institutionService *service.InstitutionService
	systemService      *service.SystemService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	authService *service.AuthService,
	platformService *service.PlatformAdminService,
	institutionService *service.InstitutionService,
	systemService *service.SystemService,
) *AdminHandler {
	return &AdminHandler{
		authService:        authService,
		platformService:    platformService,
		institutionService: institutionService,
		systemService:      systemService,
	}
}

// Login godoc
// POST /api/v1/admin/login
// Validates email + password against platform operator accounts.
func (h *AdminHandler) Login(c *gin.Context) {
	var req model.PlatformLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.platformService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFromService(c, err)
		return
	}

	token, err := h.authService.GeneratePlatformToken(admin)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
			"role":  admin.Role,
		},
	})
}

// GetProfile godoc
// GET /api/v1/admin/me
func (h *AdminHandler) GetProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	admin, err := h.platformService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"admin": admin})
}

// ListInstitutions godoc
// GET /api/v1/admin/institutions
func (h *AdminHandler) ListInstitutions(c *gin.Context) {
	institutions, err := h.institutionService.ListAll(c.Request.Context())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"institutions": institutions})
}

// ListPending godoc
// GET /api/v1/admin/institutions/pending
func (h *AdminHandler) ListPending(c *gin.Context) {
	pending, err := h.institutionService.ListPending(c.Request.Context())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pending": pending})
}

// Approve godoc
// POST /api/v1/admin/institutions/:id/approve
// Turns a pending registration into an active institution with a freshly
// generated slug and login ID.
func (h *AdminHandler) Approve(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	inst, err := h.institutionService.Approve(c.Request.Context(), id)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"institution": gin.H{
			"id":               inst.ID,
			"name":             inst.Name,
			"eiin":             inst.EIIN,
			"superadmin_email": inst.SuperadminEmail,
			"slug":             inst.Slug,
			"login_id":         inst.LoginID,
		},
	})
}

// Reject godoc
// POST /api/v1/admin/institutions/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.RejectInstitutionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p, err := h.institutionService.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"institution": gin.H{
			"id":   p.ID,
			"name": p.Name,
			"eiin": p.EIIN,
		},
	})
}

// Delete godoc
// DELETE /api/v1/admin/institutions/:id
// Hard delete, superadmin only. Irreversible.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.institutionService.Delete(c.Request.Context(), id); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// SetActive godoc
// PATCH /api/v1/admin/institutions/:id/active
// Superadmin-only idempotent activation toggle.
func (h *AdminHandler) SetActive(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req model.SetActiveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.institutionService.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"id": id, "active": *req.Active})
}

// SystemStatus godoc
// GET /api/v1/admin/system/status
// Aggregated health probes of the external collaborators.
func (h *AdminHandler) SystemStatus(c *gin.Context) {
	response.Success(c, http.StatusOK, h.systemService.Status(c.Request.Context()))
}

// paramID parses the :id path parameter, failing the request on garbage.
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
