package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lead-funnel/internal/domain/entity"
	"github.com/oksasatya/lead-funnel/internal/infrastructure/memory"
	"github.com/oksasatya/lead-funnel/pkg/helpers"
)

type fakeIndex struct {
	indexed   []string
	bulk      []string
	bulkErr   error
	searchIDs []string
	searchErr error
}

func (f *fakeIndex) Index(_ context.Context, l *entity.Lead) error {
	f.indexed = append(f.indexed, l.ID)
	return nil
}

func (f *fakeIndex) IndexAll(_ context.Context, leads []entity.Lead) error {
	if f.bulkErr != nil {
		return f.bulkErr
	}
	for _, l := range leads {
		f.bulk = append(f.bulk, l.ID)
	}
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string) ([]string, error) {
	return f.searchIDs, f.searchErr
}

func emails(leads []entity.Lead) []string {
	out := make([]string, 0, len(leads))
	for _, l := range leads {
		out = append(out, l.Email)
	}
	return out
}

func TestListFilterPrecedence(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewLeadService(store, store, nil, nil)

	a, err := svc.Create(ctx, entity.NewLead{Email: "a@x.com", Source: entity.SourceWebinar})
	require.NoError(t, err)
	_, err = svc.Create(ctx, entity.NewLead{Email: "b@x.com", Source: entity.SourcePhone})
	require.NoError(t, err)
	qualified := entity.StatusQualified
	_, err = svc.Update(ctx, a.ID, entity.LeadUpdate{Status: &qualified})
	require.NoError(t, err)

	got, err := svc.List(ctx, LeadFilter{Status: "qualified", Source: "phone"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, emails(got))

	got, err = svc.List(ctx, LeadFilter{Source: "phone", Query: "a@"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b@x.com"}, emails(got))

	got, err = svc.List(ctx, LeadFilter{Query: "a@"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, emails(got))

	got, err = svc.List(ctx, LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUpdateUnknownLead(t *testing.T) {
	store := memory.NewStore()
	svc := NewLeadService(store, store, nil, nil)
	closed := entity.StatusClosed
	_, err := svc.Update(context.Background(), "missing", entity.LeadUpdate{Status: &closed})
	assert.ErrorIs(t, err, ErrLeadNotFound)
	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestIndexKeptInSyncAndUsedForSearch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	idx := &fakeIndex{}
	svc := NewLeadService(store, store, idx, helpers.NewDiscardLogger())

	a, err := svc.Create(ctx, entity.NewLead{Email: "a@x.com", Source: entity.SourceWebinar})
	require.NoError(t, err)
	contacted := entity.StatusContacted
	_, err = svc.Update(ctx, a.ID, entity.LeadUpdate{Status: &contacted})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, a.ID}, idx.indexed)

	idx.searchIDs = []string{"stale-id", a.ID}
	got, err := svc.List(ctx, LeadFilter{Query: "anything"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, emails(got))

	idx.searchErr = errors.New("es down")
	got, err = svc.List(ctx, LeadFilter{Query: "x.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, emails(got))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewLeadService(store, store, nil, nil)
	news := NewNewsletterService(store, nil, nil)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.TotalLeads)
	assert.Equal(t, 0.0, st.ConversionRate)

	converted := entity.StatusConverted
	for i, src := range []entity.LeadSource{entity.SourceWebinar, entity.SourceWebinar, entity.SourcePhone} {
		l, err := svc.Create(ctx, entity.NewLead{Email: string(rune('a'+i)) + "@x.com", Source: src})
		require.NoError(t, err)
		if i == 0 {
			_, err = svc.Update(ctx, l.ID, entity.LeadUpdate{Status: &converted})
			require.NoError(t, err)
		}
	}
	_, err = news.Subscribe(ctx, "n@x.com")
	require.NoError(t, err)

	st, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalLeads)
	assert.Equal(t, 2, st.NewLeads)
	assert.Equal(t, 1, st.ConvertedLeads)
	assert.Equal(t, 1, st.NewsletterSubscribers)
	assert.Equal(t, 33.3, st.ConversionRate)
	assert.Equal(t, 2, st.BySource[entity.SourceWebinar])
	assert.Equal(t, 0, st.BySource[entity.SourceLinktree])
	assert.Equal(t, 0, st.ByStatus[entity.StatusClosed])
}

func TestReindexPushesEveryStoredLead(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	a, err := store.CreateLead(ctx, entity.NewLead{Email: "a@x.com", Source: entity.SourceWebinar})
	require.NoError(t, err)
	b, err := store.CreateLead(ctx, entity.NewLead{Email: "b@x.com", Source: entity.SourcePhone})
	require.NoError(t, err)

	n, err := NewLeadService(store, store, nil, nil).Reindex(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	idx := &fakeIndex{}
	svc := NewLeadService(store, store, idx, helpers.NewDiscardLogger())
	n, err = svc.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, idx.bulk)

	idx.bulkErr = errors.New("cluster red")
	_, err = svc.Reindex(ctx)
	assert.ErrorContains(t, err, "cluster red")
}

func TestIndexSearchWithNoHitsIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewLeadService(store, store, &fakeIndex{}, nil)
	_, err := svc.Create(ctx, entity.NewLead{Email: "john@x.com", Source: entity.SourceWebsite})
	require.NoError(t, err)

	got, err := svc.List(ctx, LeadFilter{Query: "nomatch"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
