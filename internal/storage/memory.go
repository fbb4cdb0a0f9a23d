package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/leadforge/campaign-api/internal/models"
)

// InMemoryCampaignRepo is a thread-safe map-backed CampaignRepo.  It is
// the fallback when Postgres is not configured and is what the tests
// run against.
type InMemoryCampaignRepo struct {
	mu        sync.RWMutex
	campaigns map[string]*models.Campaign
}

func NewInMemoryCampaignRepo() *InMemoryCampaignRepo {
	return &InMemoryCampaignRepo{campaigns: make(map[string]*models.Campaign)}
}

func (r *InMemoryCampaignRepo) ListAll(_ context.Context) ([]*models.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*models.Campaign, 0, len(r.campaigns))
	for _, c := range r.campaigns {
		cp := *c
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (r *InMemoryCampaignRepo) GetByID(_ context.Context, id string) (*models.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.campaigns[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *InMemoryCampaignRepo) Upsert(_ context.Context, c *models.Campaign) error {
	if c == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *InMemoryCampaignRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.campaigns, id)
	return nil
}

func (r *InMemoryCampaignRepo) GetByBuyer(ctx context.Context, buyerID string) ([]*models.Campaign, error) {
	all, _ := r.ListAll(ctx)
	res := make([]*models.Campaign, 0)
	for _, c := range all {
		if c.BuyerID == buyerID {
			res = append(res, c)
		}
	}
	return res, nil
}

func (r *InMemoryCampaignRepo) GetByStatus(ctx context.Context, status models.CampaignStatus) ([]*models.Campaign, error) {
	all, _ := r.ListAll(ctx)
	res := make([]*models.Campaign, 0)
	for _, c := range all {
		if c.Status == status {
			res = append(res, c)
		}
	}
	return res, nil
}

// InMemoryBuyerRepo is a thread-safe map-backed BuyerRepo.
type InMemoryBuyerRepo struct {
	mu     sync.RWMutex
	buyers map[string]*models.Buyer
}

func NewInMemoryBuyerRepo() *InMemoryBuyerRepo {
	return &InMemoryBuyerRepo{buyers: make(map[string]*models.Buyer)}
}

func (r *InMemoryBuyerRepo) ListAll(_ context.Context) ([]*models.Buyer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]*models.Buyer, 0, len(r.buyers))
	for _, b := range r.buyers {
		cp := *b
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (r *InMemoryBuyerRepo) GetByID(_ context.Context, id string) (*models.Buyer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.buyers[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *InMemoryBuyerRepo) Upsert(_ context.Context, b *models.Buyer) error {
	if b == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.buyers[b.ID] = &cp
	return nil
}

func (r *InMemoryBuyerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.buyers, id)
	return nil
}

// InMemoryStatRepo keeps stat records per campaign keyed by date.
type InMemoryStatRepo struct {
	mu      sync.RWMutex
	records map[string]map[string]models.StatRecord // campaignID -> date -> record
}

func NewInMemoryStatRepo() *InMemoryStatRepo {
	return &InMemoryStatRepo{records: make(map[string]map[string]models.StatRecord)}
}

func (r *InMemoryStatRepo) ListByCampaign(_ context.Context, campaignID string) ([]models.StatRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	byDate := r.records[campaignID]
	res := make([]models.StatRecord, 0, len(byDate))
	for _, rec := range byDate {
		res = append(res, rec)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date < res[j].Date })
	return res, nil
}

func (r *InMemoryStatRepo) GetByDate(_ context.Context, campaignID, date string) (*models.StatRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rec, ok := r.records[campaignID][date]; ok {
		cp := rec
		return &cp, nil
	}
	return nil, nil
}

func (r *InMemoryStatRepo) Upsert(_ context.Context, rec *models.StatRecord) error {
	if rec == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	byDate, ok := r.records[rec.CampaignID]
	if !ok {
		byDate = make(map[string]models.StatRecord)
		r.records[rec.CampaignID] = byDate
	}
	byDate[rec.Date] = *rec
	return nil
}

func (r *InMemoryStatRepo) Delete(_ context.Context, campaignID, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records[campaignID], date)
	return nil
}
