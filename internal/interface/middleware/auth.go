package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lead-funnel/internal/application"
	"github.com/oksasatya/lead-funnel/pkg/helpers"
	"github.com/oksasatya/lead-funnel/pkg/response"
)

// Gin context keys set by Session.
const (
	CtxUserID    = "userID"
	CtxIsAdmin   = "isAdmin"
	CtxSessionID = "sessionID"
)

// Session resolves the session cookie, if any, and exposes the caller's
// identity in the Gin context. It never rejects a request: anonymous callers
// simply carry no userID.
func Session(auth *application.AuthService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		sess, err := auth.Resolve(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, application.ErrSessionNotFound) {
				helpers.LogError(logger, "session lookup failed", err, logrus.Fields{"request_id": c.GetString("request_id")})
			}
			c.Next()
			return
		}
		c.Set(CtxUserID, sess.UserID)
		c.Set(CtxIsAdmin, sess.IsAdmin)
		c.Set(CtxSessionID, sess.ID)
		c.Next()
	}
}

// RequireAuth rejects callers without a session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserID) == "" {
			response.Abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects callers without an admin session. Anonymous callers
// get 403 as well, not 401.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserID) == "" || !c.GetBool(CtxIsAdmin) {
			response.Abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}
