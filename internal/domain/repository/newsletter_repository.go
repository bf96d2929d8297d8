package repository

import (
	"context"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
)

type NewsletterRepository interface {
	CreateNewsletterSubscription(ctx context.Context, s entity.NewSubscription) (*entity.NewsletterSubscription, error)
	GetNewsletterSubscriptionByEmail(ctx context.Context, email string) (*entity.NewsletterSubscription, error)
	// GetAllNewsletterSubscriptions returns subscriptions newest first.
	GetAllNewsletterSubscriptions(ctx context.Context) ([]entity.NewsletterSubscription, error)
}
