package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
)

func TestWriteSubscriptionsCSV(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	subs := []entity.NewsletterSubscription{
		{ID: "1", Email: "a@x.com", Status: entity.SubscriptionActive, Source: "website", SubscribedAt: at},
		{ID: "2", Email: "b,c@x.com", Status: entity.SubscriptionUnsubscribed, Source: "webinar", SubscribedAt: at},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSubscriptionsCSV(&buf, subs))

	want := "id,email,status,source,subscribed_at\n" +
		"1,a@x.com,active,website,2024-03-01T10:00:00Z\n" +
		"2,\"b,c@x.com\",unsubscribed,webinar,2024-03-01T10:00:00Z\n"
	assert.Equal(t, want, buf.String())
}

func TestObjectPath(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 4, 5, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, "exports/newsletter/subscriptions-20240301T090405Z.csv", ObjectPath(at))
}
