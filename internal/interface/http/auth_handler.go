package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lead-funnel/internal/application"
	"github.com/oksasatya/lead-funnel/internal/interface/middleware"
	"github.com/oksasatya/lead-funnel/pkg/helpers"
	"github.com/oksasatya/lead-funnel/pkg/response"
	"github.com/oksasatya/lead-funnel/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "Invalid input", validation.ToDetails(err))
		return
	}
	id, issued, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetSession(c, issued.Token, issued.ExpiresAt)
	response.Success(c, http.StatusOK, id, "Login successful", map[string]any{"expires_at": issued.ExpiresAt})
}

// Logout POST /api/admin/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxSessionID)); err != nil {
		helpers.LogError(h.Logger, "logout failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
		response.Error[any](c, http.StatusInternalServerError, "Could not log out", nil)
		return
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "Logout successful", nil)
}

// Me GET /api/admin/me
func (h *AuthHandler) Me(c *gin.Context) {
	id, err := h.Svc.Me(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, id, "Authenticated", nil)
}
