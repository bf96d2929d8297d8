package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lead-funnel/internal/application"
	"github.com/oksasatya/lead-funnel/pkg/response"
	"github.com/oksasatya/lead-funnel/pkg/validation"
)

type NewsletterHandler struct {
	Svc    *application.NewsletterService
	Logger *logrus.Logger
}

func NewNewsletterHandler(svc *application.NewsletterService, logger *logrus.Logger) *NewsletterHandler {
	return &NewsletterHandler{Svc: svc, Logger: logger}
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type subscribedResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Subscribe POST /api/newsletter/subscribe
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "Invalid email format", validation.ToDetails(err))
		return
	}
	sub, err := h.Svc.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, subscribedResponse{ID: sub.ID, Email: sub.Email}, "Successfully subscribed to newsletter", nil)
}

// List GET /api/newsletter/subscriptions
func (h *NewsletterHandler) List(c *gin.Context) {
	subs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, subs, "Newsletter subscriptions", map[string]any{"count": len(subs)})
}

// Export POST /api/newsletter/subscriptions/export
func (h *NewsletterHandler) Export(c *gin.Context) {
	url, n, err := h.Svc.Export(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url, "count": n}, "Export created", nil)
}
