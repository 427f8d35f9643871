// README: Customer store backed by PostgreSQL; profile JSON columns plus recent purchases.
package customer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// GetProfile loads a customer's profile. The preferences, style_profile, and
// size_info columns are JSONB and scan directly into their structs.
func (s *Store) GetProfile(ctx context.Context, customerID int64) (*Context, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, name, preferences, style_profile, size_info, COALESCE(location, '')
        FROM customers
        WHERE id = $1`, customerID,
	)

	var c Context
	err := row.Scan(&c.CustomerID, &c.Name, &c.Preferences, &c.StyleProfile, &c.SizeInfo, &c.Location)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// RecentPurchases returns the customer's latest purchases joined with product
// data, newest first, capped at ten.
func (s *Store) RecentPurchases(ctx context.Context, customerID int64) ([]Purchase, error) {
	rows, err := s.db.Query(ctx, `
        SELECT p.name, p.category, p.brand, p.price, ph.purchased_at::text
        FROM purchase_history ph
        JOIN products p ON p.id = ph.product_id
        WHERE ph.customer_id = $1
        ORDER BY ph.purchased_at DESC
        LIMIT 10`, customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ProductName, &p.Category, &p.Brand, &p.Price, &p.PurchasedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}
