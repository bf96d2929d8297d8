package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/lead-funnel/internal/interface/http"
	"github.com/oksasatya/lead-funnel/internal/interface/middleware"
)

// AuthModule wires admin session routes.
// Public: POST /api/admin/login
// Authenticated: POST /api/admin/logout, GET /api/admin/me
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.POST("/login", m.Handler.Login)

	auth := admin.Group("/")
	auth.Use(middleware.RequireAuth())
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
	}
}
