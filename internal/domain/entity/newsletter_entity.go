package entity

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive       SubscriptionStatus = "active"
	SubscriptionUnsubscribed SubscriptionStatus = "unsubscribed"
)

// DefaultSubscriptionSource is used when a subscription arrives without a source.
const DefaultSubscriptionSource = "website"

type NewsletterSubscription struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	SubscribedAt time.Time          `json:"subscribedAt"`
	Status       SubscriptionStatus `json:"status"`
	Source       string             `json:"source"`
}

type NewSubscription struct {
	Email  string
	Source string
}
