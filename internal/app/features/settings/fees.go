package settings

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/merchdesk/merchdesk/internal/app/backend"
	"github.com/merchdesk/merchdesk/internal/domain/models"
)

// FeeSource abstracts where the shipping fee table lives. The
// shipping_fees_source config value picks the implementation at startup:
// "static" keeps the table in dashboard memory, "api" stores it in the
// backend.
type FeeSource interface {
	List(ctx context.Context, api *backend.Caller) ([]models.ShippingFee, error)
	Add(ctx context.Context, api *backend.Caller, fee models.ShippingFee) (models.ShippingFee, error)
	Remove(ctx context.Context, api *backend.Caller, id string) error
}

// NewFeeSource returns the source for the configured mode. Anything other
// than "api" falls back to the static table.
func NewFeeSource(mode string) FeeSource {
	if mode == "api" {
		return &apiFees{}
	}
	return &staticFees{}
}

// staticFees is the in-memory table. It resets on restart; that is
// acceptable for stores that only ever configure a handful of flat fees.
type staticFees struct {
	mu   sync.RWMutex
	fees []models.ShippingFee
}

func (s *staticFees) List(_ context.Context, _ *backend.Caller) ([]models.ShippingFee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ShippingFee, len(s.fees))
	copy(out, s.fees)
	return out, nil
}

func (s *staticFees) Add(_ context.Context, _ *backend.Caller, fee models.ShippingFee) (models.ShippingFee, error) {
	fee.ID = uuid.NewString()
	fee.CreatedAt = time.Now()
	s.mu.Lock()
	s.fees = append(s.fees, fee)
	s.mu.Unlock()
	return fee, nil
}

func (s *staticFees) Remove(_ context.Context, _ *backend.Caller, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, fee := range s.fees {
		if fee.ID == id {
			s.fees = append(s.fees[:i], s.fees[i+1:]...)
			return nil
		}
	}
	return nil
}

// apiFees stores the table in the backend under /settings/shipping-fees.
type apiFees struct{}

func (a *apiFees) List(ctx context.Context, api *backend.Caller) ([]models.ShippingFee, error) {
	var all []models.ShippingFee
	for page := 1; ; page++ {
		p, err := backend.List[models.ShippingFee](ctx, api, "/settings/shipping-fees", backend.ListParams{
			Page:  page,
			Limit: 100,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if page >= p.Pagination.TotalPages || len(p.Items) == 0 {
			break
		}
	}
	return all, nil
}

func (a *apiFees) Add(ctx context.Context, api *backend.Caller, fee models.ShippingFee) (models.ShippingFee, error) {
	return backend.Create[models.ShippingFee](ctx, api, "/settings/shipping-fees", fee)
}

func (a *apiFees) Remove(ctx context.Context, api *backend.Caller, id string) error {
	return backend.Delete(ctx, api, "/settings/shipping-fees/"+id)
}
