package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	repo "github.com/oksasatya/lead-funnel/internal/domain/repository"
)

var ErrLeadNotFound = errors.New("lead not found")

// LeadIndexer is an optional search backend kept in sync on a best-effort
// basis. Search must match the same leads as LeadRepository.SearchLeads.
type LeadIndexer interface {
	Index(ctx context.Context, l *entity.Lead) error
	IndexAll(ctx context.Context, leads []entity.Lead) error
	Search(ctx context.Context, term string) ([]string, error)
}

type LeadService struct {
	Repo       repo.LeadRepository
	Newsletter repo.NewsletterRepository
	Index      LeadIndexer
	Logger     *logrus.Logger
}

func NewLeadService(r repo.LeadRepository, newsletter repo.NewsletterRepository, index LeadIndexer, logger *logrus.Logger) *LeadService {
	return &LeadService{Repo: r, Newsletter: newsletter, Index: index, Logger: logger}
}

// LeadFilter selects which leads List returns. Only the first non-empty of
// Status, Source, Query is applied, in that order.
type LeadFilter struct {
	Status string
	Source string
	Query  string
}

func (s *LeadService) Create(ctx context.Context, in entity.NewLead) (*entity.Lead, error) {
	l, err := s.Repo.CreateLead(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	s.reindex(ctx, l)
	return l, nil
}

func (s *LeadService) List(ctx context.Context, f LeadFilter) ([]entity.Lead, error) {
	switch {
	case f.Status != "":
		// an unknown value matches nothing
		if !entity.LeadStatus(f.Status).Valid() {
			return []entity.Lead{}, nil
		}
		return s.Repo.GetLeadsByStatus(ctx, entity.LeadStatus(f.Status))
	case f.Source != "":
		if !entity.LeadSource(f.Source).Valid() {
			return []entity.Lead{}, nil
		}
		return s.Repo.GetLeadsBySource(ctx, entity.LeadSource(f.Source))
	case strings.TrimSpace(f.Query) != "":
		return s.search(ctx, strings.TrimSpace(f.Query))
	default:
		return s.Repo.GetAllLeads(ctx)
	}
}

// search prefers the index and falls back to the store scan when the index
// is absent or failing.
func (s *LeadService) search(ctx context.Context, term string) ([]entity.Lead, error) {
	if s.Index == nil {
		return s.Repo.SearchLeads(ctx, term)
	}
	ids, err := s.Index.Search(ctx, term)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("lead index search failed, scanning store")
		}
		return s.Repo.SearchLeads(ctx, term)
	}
	out := make([]entity.Lead, 0, len(ids))
	for _, id := range ids {
		l, err := s.Repo.GetLeadByID(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load lead %s: %w", id, err)
		}
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Reindex pushes every stored lead into the index. It runs at startup so
// leads written while the index was absent become searchable.
func (s *LeadService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	leads, err := s.Repo.GetAllLeads(ctx)
	if err != nil {
		return 0, fmt.Errorf("list leads: %w", err)
	}
	if err := s.Index.IndexAll(ctx, leads); err != nil {
		return 0, fmt.Errorf("reindex leads: %w", err)
	}
	return len(leads), nil
}

func (s *LeadService) Get(ctx context.Context, id string) (*entity.Lead, error) {
	l, err := s.Repo.GetLeadByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

func (s *LeadService) Update(ctx context.Context, id string, u entity.LeadUpdate) (*entity.Lead, error) {
	l, err := s.Repo.UpdateLead(ctx, id, u)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}
	s.reindex(ctx, l)
	return l, nil
}

func (s *LeadService) reindex(ctx context.Context, l *entity.Lead) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, l); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("lead_id", l.ID).Warn("lead index failed")
	}
}

// DashboardStats backs the summary cards of the admin dashboard.
type DashboardStats struct {
	TotalLeads            int                       `json:"totalLeads"`
	NewLeads              int                       `json:"newLeads"`
	ConvertedLeads        int                       `json:"convertedLeads"`
	NewsletterSubscribers int                       `json:"newsletterSubscribers"`
	ConversionRate        float64                   `json:"conversionRate"`
	ByStatus              map[entity.LeadStatus]int `json:"byStatus"`
	BySource              map[entity.LeadSource]int `json:"bySource"`
}

func (s *LeadService) Stats(ctx context.Context) (*DashboardStats, error) {
	leads, err := s.Repo.GetAllLeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	counts := entity.CountLeads(leads)
	st := &DashboardStats{
		TotalLeads:     counts.Total,
		NewLeads:       counts.ByStatus[entity.StatusNew],
		ConvertedLeads: counts.ByStatus[entity.StatusConverted],
		ByStatus:       counts.ByStatus,
		BySource:       counts.BySource,
	}
	if st.TotalLeads > 0 {
		// percent, one decimal
		st.ConversionRate = math.Round(float64(st.ConvertedLeads)/float64(st.TotalLeads)*1000) / 10
	}
	if s.Newsletter != nil {
		subs, err := s.Newsletter.GetAllNewsletterSubscriptions(ctx)
		if err != nil {
			return nil, fmt.Errorf("list subscriptions: %w", err)
		}
		st.NewsletterSubscribers = len(subs)
	}
	return st, nil
}
