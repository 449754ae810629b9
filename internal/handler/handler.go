package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/instihub/instihub-backend/internal/response"
	"github.com/instihub/instihub-backend/internal/service"
)

// failFromService maps service-layer sentinel errors onto HTTP statuses and
// response codes. Anything unrecognized is logged and reported as a generic
// internal error — storage details never leak to clients.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrAccountDisabled):
		response.Fail(c, http.StatusUnauthorized, response.ErrAccountDisabled)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrAlreadyProcessed):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyProcessed)
	case errors.Is(err, service.ErrDuplicateAdmin):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateAdmin)
	case errors.Is(err, service.ErrCannotAddSelf):
		response.Fail(c, http.StatusConflict, response.ErrCannotAddSelf)
	case errors.Is(err, service.ErrConflict):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
