package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lead-funnel/internal/application"
	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	"github.com/oksasatya/lead-funnel/pkg/response"
	"github.com/oksasatya/lead-funnel/pkg/validation"
)

type LeadHandler struct {
	Svc    *application.LeadService
	Logger *logrus.Logger
}

func NewLeadHandler(svc *application.LeadService, logger *logrus.Logger) *LeadHandler {
	return &LeadHandler{Svc: svc, Logger: logger}
}

type createLeadRequest struct {
	Email   string  `json:"email" binding:"required,email"`
	Name    *string `json:"name" binding:"omitempty,max=200"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Message *string `json:"message" binding:"omitempty,max=5000"`
	Source  string  `json:"source" binding:"required,leadsource"`
}

// updateLeadRequest distinguishes absent from null for notes and contactedAt.
type updateLeadRequest struct {
	Status      *string                    `json:"status" binding:"omitempty,leadstatus"`
	Notes       entity.Optional[string]    `json:"notes"`
	ContactedAt entity.Optional[time.Time] `json:"contactedAt"`
}

func (r updateLeadRequest) toUpdate() entity.LeadUpdate {
	u := entity.LeadUpdate{Notes: r.Notes, ContactedAt: r.ContactedAt}
	if r.Status != nil {
		st := entity.LeadStatus(*r.Status)
		u.Status = &st
	}
	return u
}

// Create POST /api/leads
func (h *LeadHandler) Create(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "Invalid input", validation.ToDetails(err))
		return
	}
	l, err := h.Svc.Create(c.Request.Context(), entity.NewLead{
		Email:   req.Email,
		Name:    req.Name,
		Phone:   req.Phone,
		Message: req.Message,
		Source:  entity.LeadSource(req.Source),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, l, "Lead created successfully", nil)
}

// List GET /api/leads?status=&source=&q=
func (h *LeadHandler) List(c *gin.Context) {
	leads, err := h.Svc.List(c.Request.Context(), application.LeadFilter{
		Status: c.Query("status"),
		Source: c.Query("source"),
		Query:  c.Query("q"),
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, leads, "Leads", map[string]any{"count": len(leads)})
}

// Stats GET /api/leads/stats
func (h *LeadHandler) Stats(c *gin.Context) {
	st, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, st, "Lead stats", nil)
}

// Get GET /api/leads/:id
func (h *LeadHandler) Get(c *gin.Context) {
	l, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, l, "Lead", nil)
}

// Update PATCH /api/leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	var req updateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "Invalid input", validation.ToDetails(err))
		return
	}
	l, err := h.Svc.Update(c.Request.Context(), c.Param("id"), req.toUpdate())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, l, "Lead updated successfully", nil)
}
