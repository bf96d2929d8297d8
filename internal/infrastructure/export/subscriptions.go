package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	"github.com/oksasatya/lead-funnel/pkg/helpers"
)

var subscriptionHeader = []string{"id", "email", "status", "source", "subscribed_at"}

// WriteSubscriptionsCSV writes subs as CSV with a header row.
func WriteSubscriptionsCSV(w io.Writer, subs []entity.NewsletterSubscription) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(subscriptionHeader); err != nil {
		return err
	}
	for _, s := range subs {
		if err := cw.Write([]string{
			s.ID,
			s.Email,
			string(s.Status),
			s.Source,
			s.SubscribedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// GCSExporter uploads subscription snapshots to a bucket.
type GCSExporter struct {
	client *storage.Client
	bucket string
	now    func() time.Time
}

func NewGCSExporter(client *storage.Client, bucket string) *GCSExporter {
	return &GCSExporter{client: client, bucket: bucket, now: time.Now}
}

// ObjectPath names the export object for t.
func ObjectPath(t time.Time) string {
	return fmt.Sprintf("exports/newsletter/subscriptions-%s.csv", t.UTC().Format("20060102T150405Z"))
}

// ExportSubscriptions uploads subs as a CSV and returns the object URL.
func (e *GCSExporter) ExportSubscriptions(ctx context.Context, subs []entity.NewsletterSubscription) (string, error) {
	var buf bytes.Buffer
	if err := WriteSubscriptionsCSV(&buf, subs); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return helpers.UploadObject(ctx, e.client, e.bucket, ObjectPath(e.now()), "text/csv", &buf)
}
