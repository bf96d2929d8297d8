package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	repo "github.com/oksasatya/lead-funnel/internal/domain/repository"
)

var (
	ErrAlreadySubscribed = errors.New("email already subscribed to newsletter")
	ErrExportUnavailable = errors.New("export storage not configured")
)

// SubscriptionExporter writes a snapshot of subscriptions somewhere durable
// and returns where it went.
type SubscriptionExporter interface {
	ExportSubscriptions(ctx context.Context, subs []entity.NewsletterSubscription) (string, error)
}

type NewsletterService struct {
	Repo     repo.NewsletterRepository
	Exporter SubscriptionExporter
	Logger   *logrus.Logger
}

func NewNewsletterService(r repo.NewsletterRepository, exporter SubscriptionExporter, logger *logrus.Logger) *NewsletterService {
	return &NewsletterService{Repo: r, Exporter: exporter, Logger: logger}
}

// Subscribe creates an active subscription for email. A second subscribe for
// the same address fails with ErrAlreadySubscribed.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (*entity.NewsletterSubscription, error) {
	if _, err := s.Repo.GetNewsletterSubscriptionByEmail(ctx, email); err == nil {
		return nil, ErrAlreadySubscribed
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("lookup subscription: %w", err)
	}
	sub, err := s.Repo.CreateNewsletterSubscription(ctx, entity.NewSubscription{Email: email})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return sub, nil
}

func (s *NewsletterService) List(ctx context.Context) ([]entity.NewsletterSubscription, error) {
	return s.Repo.GetAllNewsletterSubscriptions(ctx)
}

// Export uploads every subscription and returns the location and row count.
func (s *NewsletterService) Export(ctx context.Context) (string, int, error) {
	if s.Exporter == nil {
		return "", 0, ErrExportUnavailable
	}
	subs, err := s.Repo.GetAllNewsletterSubscriptions(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("list subscriptions: %w", err)
	}
	url, err := s.Exporter.ExportSubscriptions(ctx, subs)
	if err != nil {
		return "", 0, fmt.Errorf("export subscriptions: %w", err)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"url": url, "count": len(subs)}).Info("newsletter export uploaded")
	}
	return url, len(subs), nil
}
