package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lead-funnel/internal/application"
	"github.com/oksasatya/lead-funnel/pkg/helpers"
	"github.com/oksasatya/lead-funnel/pkg/response"
)

// fail maps service errors onto HTTP statuses. Anything unrecognised is
// logged and reported as a bare 500.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "Invalid credentials or insufficient permissions", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, application.ErrLeadNotFound):
		response.Error[any](c, http.StatusNotFound, "Lead not found", nil)
	case errors.Is(err, application.ErrAlreadySubscribed):
		response.Error[any](c, http.StatusConflict, "Email already subscribed to newsletter", nil)
	case errors.Is(err, application.ErrExportUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, "Export storage not configured", nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
		})
		response.Error[any](c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
