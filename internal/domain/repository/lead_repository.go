package repository

import (
	"context"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
)

// LeadRepository lists return leads sorted by CreatedAt descending.
type LeadRepository interface {
	CreateLead(ctx context.Context, l entity.NewLead) (*entity.Lead, error)
	GetAllLeads(ctx context.Context) ([]entity.Lead, error)
	GetLeadByID(ctx context.Context, id string) (*entity.Lead, error)
	UpdateLead(ctx context.Context, id string, u entity.LeadUpdate) (*entity.Lead, error)
	GetLeadsByStatus(ctx context.Context, status entity.LeadStatus) ([]entity.Lead, error)
	GetLeadsBySource(ctx context.Context, source entity.LeadSource) ([]entity.Lead, error)
	// SearchLeads returns leads whose email or name contains term, ignoring
	// case, or whose phone contains term verbatim.
	SearchLeads(ctx context.Context, term string) ([]entity.Lead, error)
}

// Store is the full record store used by the HTTP layer. Both the in-memory
// and the PostgreSQL backends implement it.
type Store interface {
	UserRepository
	NewsletterRepository
	LeadRepository
}
