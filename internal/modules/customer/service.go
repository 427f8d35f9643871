// README: Customer context assembly with the Guest fallback.
package customer

import (
	"context"
	"errors"

	"packwise/pkg/logger"
)

// ProfileStore is what the service needs from storage; satisfied by Store.
type ProfileStore interface {
	GetProfile(ctx context.Context, customerID int64) (*Context, error)
	RecentPurchases(ctx context.Context, customerID int64) ([]Purchase, error)
}

type Service struct {
	store ProfileStore
}

func NewService(store ProfileStore) *Service {
	return &Service{store: store}
}

// GetContext assembles the full customer view. Unknown customers and store
// failures alike come back as Guest, and purchase-history errors degrade to an
// empty history. A turn is never failed over the profile.
func (s *Service) GetContext(ctx context.Context, customerID int64) Context {
	profile, err := s.store.GetProfile(ctx, customerID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logx.Warn().Err(err).Int64("customer_id", customerID).Msg("profile lookup failed, using guest profile")
		}
		return Guest(customerID)
	}

	purchases, err := s.store.RecentPurchases(ctx, customerID)
	if err != nil {
		logx.Warn().Err(err).Int64("customer_id", customerID).Msg("purchase history lookup failed")
		purchases = nil
	}
	if purchases == nil {
		purchases = []Purchase{}
	}
	profile.RecentPurchases = purchases
	return *profile
}
