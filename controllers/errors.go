package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"campsite-backend/middleware"
	"campsite-backend/models"
	"campsite-backend/services"
	"campsite-backend/utils"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrExhaustedRetries):
		return http.StatusConflict
	case errors.Is(err, services.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, services.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrUpstreamBadGateway), errors.Is(err, services.ErrData):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		utils.JSONError(c, statusFor(err), svcErr.Message)
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, err.Error())
}

func badRequest(c *gin.Context, msg string) {
	utils.JSONError(c, http.StatusBadRequest, msg)
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// principal returns the caller set by RequireAuth. Routes that use it are
// always behind that middleware.
func principal(c *gin.Context) models.Principal {
	p, _ := middleware.CurrentPrincipal(c)
	return p
}
