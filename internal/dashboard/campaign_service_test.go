package dashboard

import (
	"context"
	"testing"

	"github.com/leadforge/campaign-api/internal/models"
	"github.com/leadforge/campaign-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignUpsertAssignsDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewCampaignService(storage.NewInMemoryCampaignRepo(), storage.NewInMemoryStatRepo())

	c := &models.Campaign{Name: "AFFF"}
	require.NoError(t, svc.Upsert(ctx, c))

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, models.CampaignStatusDraft, c.Status)
	assert.False(t, c.CreatedAt.IsZero())
	assert.False(t, c.UpdatedAt.IsZero())
}

func TestCampaignUpsertRejectsInvalid(t *testing.T) {
	svc := NewCampaignService(storage.NewInMemoryCampaignRepo(), storage.NewInMemoryStatRepo())

	err := svc.Upsert(context.Background(), &models.Campaign{}) // no name
	assert.Error(t, err)
}

func TestCampaignGetAttachesHistory(t *testing.T) {
	ctx := context.Background()
	campaigns := storage.NewInMemoryCampaignRepo()
	stats := storage.NewInMemoryStatRepo()
	svc := NewCampaignService(campaigns, stats)

	require.NoError(t, svc.Upsert(ctx, &models.Campaign{ID: "c1", Name: "AFFF"}))
	require.NoError(t, stats.Upsert(ctx, &models.StatRecord{
		ID: "r1", CampaignID: "c1", Date: "2024-06-01", Leads: 5,
	}))

	c, err := svc.Get(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, c.StatsHistory, 1)
	assert.Equal(t, "2024-06-01", c.StatsHistory[0].Date)
}

func TestCampaignGetNotFound(t *testing.T) {
	svc := NewCampaignService(storage.NewInMemoryCampaignRepo(), storage.NewInMemoryStatRepo())

	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuyerServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewBuyerService(storage.NewInMemoryBuyerRepo())

	b := &models.Buyer{Name: "Acme Law", PricePerCase: 1500, Active: true}
	require.NoError(t, svc.Upsert(ctx, b))
	require.NotEmpty(t, b.ID)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Law", got.Name)

	require.NoError(t, svc.Delete(ctx, b.ID))
	_, err = svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
