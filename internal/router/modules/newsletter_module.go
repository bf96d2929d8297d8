package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/lead-funnel/internal/interface/http"
	"github.com/oksasatya/lead-funnel/internal/interface/middleware"
)

type NewsletterModule struct {
	Handler *handlers.NewsletterHandler
}

func NewNewsletterModule(h *handlers.NewsletterHandler) *NewsletterModule {
	return &NewsletterModule{Handler: h}
}

func (m *NewsletterModule) Register(rg *gin.RouterGroup) {
	nl := rg.Group("/newsletter")
	nl.POST("/subscribe", m.Handler.Subscribe)

	admin := nl.Group("/")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/subscriptions", m.Handler.List)
		admin.POST("/subscriptions/export", m.Handler.Export)
	}
}
