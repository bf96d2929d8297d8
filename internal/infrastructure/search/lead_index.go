package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
)

// LeadsMapping is the index definition used when the leads index is created.
// email and name are lowercased keywords so a wildcard query gives the same
// case-insensitive substring match as the store scan; phone stays verbatim.
const LeadsMapping = `{
  "settings": {
    "analysis": {
      "normalizer": {
        "lowercase_keyword": {"type": "custom", "filter": ["lowercase"]}
      }
    }
  },
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "email":      {"type": "keyword", "normalizer": "lowercase_keyword"},
      "name":       {"type": "keyword", "normalizer": "lowercase_keyword"},
      "phone":      {"type": "keyword"},
      "source":     {"type": "keyword"},
      "status":     {"type": "keyword"},
      "created_at": {"type": "date"}
    }
  }
}`

const (
	requestTimeout = 3 * time.Second
	bulkTimeout    = 30 * time.Second
	bulkBatch      = 500
)

// searchPageSize is how many hits each search_after page asks for.
var searchPageSize = 500

// LeadIndex mirrors leads into Elasticsearch for free-text search.
type LeadIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewLeadIndex(es *elasticsearch.Client, index string) *LeadIndex {
	return &LeadIndex{es: es, index: index}
}

type leadDoc struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Source    string `json:"source"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func toDoc(l *entity.Lead) leadDoc {
	d := leadDoc{
		ID:        l.ID,
		Email:     l.Email,
		Source:    string(l.Source),
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if l.Name != nil {
		d.Name = *l.Name
	}
	if l.Phone != nil {
		d.Phone = *l.Phone
	}
	return d
}

// Index upserts the lead document under its id. It returns once the
// document is visible to search.
func (x *LeadIndex) Index(ctx context.Context, l *entity.Lead) error {
	b, err := json.Marshal(toDoc(l))
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.IndexRequest{Index: x.index, DocumentID: l.ID, Body: bytes.NewReader(b), Refresh: "wait_for"}
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index lead %s: %s", l.ID, res.Status())
	}
	return nil
}

// IndexAll upserts every lead through the bulk API, in batches.
func (x *LeadIndex) IndexAll(ctx context.Context, leads []entity.Lead) error {
	for start := 0; start < len(leads); start += bulkBatch {
		end := min(start+bulkBatch, len(leads))
		if err := x.bulk(ctx, leads[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (x *LeadIndex) bulk(ctx context.Context, leads []entity.Lead) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range leads {
		meta := map[string]any{"index": map[string]any{"_id": leads[i].ID}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(toDoc(&leads[i])); err != nil {
			return err
		}
	}

	c, cancel := context.WithTimeout(ctx, bulkTimeout)
	defer cancel()
	res, err := esapi.BulkRequest{Index: x.index, Body: &buf, Refresh: "wait_for"}.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("bulk index leads: %s", res.Status())
	}
	var parsed struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return err
	}
	if parsed.Errors {
		return fmt.Errorf("bulk index leads: some documents were rejected")
	}
	return nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// searchQuery matches term as a substring: case-insensitive on email and
// name, verbatim on phone.
func searchQuery(term string, after string) map[string]any {
	pattern := "*" + wildcardEscaper.Replace(term) + "*"
	q := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should": []any{
					map[string]any{"wildcard": map[string]any{"email": map[string]any{"value": pattern, "case_insensitive": true}}},
					map[string]any{"wildcard": map[string]any{"name": map[string]any{"value": pattern, "case_insensitive": true}}},
					map[string]any{"wildcard": map[string]any{"phone": map[string]any{"value": pattern}}},
				},
				"minimum_should_match": 1,
			},
		},
		"size":    searchPageSize,
		"_source": false,
		"sort":    []any{map[string]any{"id": "asc"}},
	}
	if after != "" {
		q["search_after"] = []any{after}
	}
	return q
}

// Search returns the ids of every lead matching term. Results are paged
// with search_after on id, so there is no cap.
func (x *LeadIndex) Search(ctx context.Context, term string) ([]string, error) {
	var ids []string
	after := ""
	for {
		page, err := x.searchPage(ctx, searchQuery(term, after))
		if err != nil {
			return nil, err
		}
		ids = append(ids, page...)
		if len(page) < searchPageSize {
			return ids, nil
		}
		after = page[len(page)-1]
	}
}

func (x *LeadIndex) searchPage(ctx context.Context, query map[string]any) ([]string, error) {
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search leads: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
