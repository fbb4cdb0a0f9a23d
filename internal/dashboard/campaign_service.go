package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/leadforge/campaign-api/internal/models"
	"github.com/leadforge/campaign-api/internal/storage"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// CampaignService provides CRUD operations over campaigns.  It
// encapsulates validation, ID assignment and timestamp management,
// delegating persistence to the underlying repository.
type CampaignService struct {
	repo  storage.CampaignRepo
	stats storage.StatRepo
}

// NewCampaignService constructs a CampaignService backed by the given repos.
func NewCampaignService(repo storage.CampaignRepo, stats storage.StatRepo) *CampaignService {
	return &CampaignService{repo: repo, stats: stats}
}

// List returns all campaigns without their stat history attached.
func (s *CampaignService) List(ctx context.Context) ([]*models.Campaign, error) {
	return s.repo.ListAll(ctx)
}

// ListByBuyer returns campaigns assigned to one buyer.
func (s *CampaignService) ListByBuyer(ctx context.Context, buyerID string) ([]*models.Campaign, error) {
	return s.repo.GetByBuyer(ctx, buyerID)
}

// ListByStatus returns campaigns in the given lifecycle status.
func (s *CampaignService) ListByStatus(ctx context.Context, status models.CampaignStatus) ([]*models.Campaign, error) {
	return s.repo.GetByStatus(ctx, status)
}

// Get returns a campaign with its full stat history attached, or
// ErrNotFound.
func (s *CampaignService) Get(ctx context.Context, id string) (*models.Campaign, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	history, err := s.stats.ListByCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	c.StatsHistory = history
	return c, nil
}

// Upsert validates the campaign, assigns an ID if missing, populates
// timestamps and saves it.
func (s *CampaignService) Upsert(ctx context.Context, c *models.Campaign) error {
	if c == nil {
		return errors.New("campaign is nil")
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.CampaignStatusDraft
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.Upsert(ctx, c)
}

// Delete removes a campaign.  Deleting a missing campaign is not an error.
func (s *CampaignService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// BuyerService provides CRUD operations over case buyers.
type BuyerService struct {
	repo storage.BuyerRepo
}

// NewBuyerService constructs a BuyerService backed by the given repo.
func NewBuyerService(repo storage.BuyerRepo) *BuyerService {
	return &BuyerService{repo: repo}
}

// List returns all buyers.
func (s *BuyerService) List(ctx context.Context) ([]*models.Buyer, error) {
	return s.repo.ListAll(ctx)
}

// Get returns a buyer by ID or ErrNotFound.
func (s *BuyerService) Get(ctx context.Context, id string) (*models.Buyer, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

// Upsert validates the buyer, assigns an ID if missing and saves it.
func (s *BuyerService) Upsert(ctx context.Context, b *models.Buyer) error {
	if b == nil {
		return errors.New("buyer is nil")
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	if err := b.Validate(); err != nil {
		return err
	}
	return s.repo.Upsert(ctx, b)
}

// Delete removes a buyer.
func (s *BuyerService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
