package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/lead-funnel/internal/interface/http"
	"github.com/oksasatya/lead-funnel/internal/interface/middleware"
)

// LeadModule: public capture plus the admin pipeline views.
type LeadModule struct {
	Handler *handlers.LeadHandler
}

func NewLeadModule(h *handlers.LeadHandler) *LeadModule {
	return &LeadModule{Handler: h}
}

func (m *LeadModule) Register(rg *gin.RouterGroup) {
	leads := rg.Group("/leads")
	leads.POST("", m.Handler.Create)

	admin := leads.Group("")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("", m.Handler.List)
		admin.GET("/stats", m.Handler.Stats)
		admin.GET("/:id", m.Handler.Get)
		admin.PATCH("/:id", m.Handler.Update)
	}
}
