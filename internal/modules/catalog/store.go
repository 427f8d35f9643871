// README: Product store backed by PostgreSQL; filtered, keyword, and category searches.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, name, description, category, subcategory, price, brand, gender,
       sizes_available, colors, tags, image_url, in_stock, rating, material, season`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// FilterQuery narrows the in-stock catalog. Zero values are inactive.
// PreferredBrands only applies when Brand is empty; an explicit brand request
// always wins over profile preferences.
type FilterQuery struct {
	Brand           string
	Category        string
	Subcategory     string
	BudgetMin       float64
	BudgetMax       float64
	Gender          string
	PreferredBrands []string
	Limit           int
}

func (s *Store) Get(ctx context.Context, id int64) (*Product, error) {
	row := s.db.QueryRow(ctx, `
        SELECT `+productColumns+`
        FROM products
        WHERE id = $1`, id,
	)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FilterSearch returns in-stock products matching the query, best rated first.
func (s *Store) FilterSearch(ctx context.Context, q FilterQuery) ([]Product, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Brand != "" {
		conds = append(conds, "brand ILIKE "+arg("%"+q.Brand+"%"))
	}
	if q.Subcategory != "" {
		conds = append(conds, "subcategory ILIKE "+arg("%"+q.Subcategory+"%"))
	} else if q.Category != "" {
		conds = append(conds, "category ILIKE "+arg("%"+q.Category+"%"))
	}
	if q.BudgetMax > 0 {
		conds = append(conds, "price <= "+arg(q.BudgetMax))
	}
	if q.BudgetMin > 0 {
		conds = append(conds, "price >= "+arg(q.BudgetMin))
	}
	if q.Gender != "" {
		conds = append(conds, "(gender ILIKE "+arg("%"+q.Gender+"%")+" OR gender ILIKE '%unisex%')")
	}
	if q.Brand == "" && len(q.PreferredBrands) > 0 {
		brands := q.PreferredBrands
		if len(brands) > 5 {
			brands = brands[:5]
		}
		var ors []string
		for _, b := range brands {
			ors = append(ors, "brand ILIKE "+arg("%"+b+"%"))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	sql := `SELECT ` + productColumns + ` FROM products WHERE in_stock = TRUE`
	if len(conds) > 0 {
		sql += " AND " + strings.Join(conds, " AND ")
	}
	sql += " ORDER BY rating DESC LIMIT " + arg(limitOrDefault(q.Limit))

	return s.query(ctx, sql, args...)
}

// BrandSearch returns in-stock products of a single brand, best rated first.
func (s *Store) BrandSearch(ctx context.Context, brand string, limit int) ([]Product, error) {
	return s.query(ctx, `
        SELECT `+productColumns+`
        FROM products
        WHERE in_stock = TRUE AND brand ILIKE $1
        ORDER BY rating DESC
        LIMIT $2`,
		"%"+brand+"%", limitOrDefault(limit),
	)
}

// CategorySearch matches any of the given interests against category or
// subcategory. At most the first three interests are used.
func (s *Store) CategorySearch(ctx context.Context, interests []string, budgetMax float64, limit int) ([]Product, error) {
	if len(interests) > 3 {
		interests = interests[:3]
	}
	var conds []string
	var args []any
	for _, c := range interests {
		args = append(args, "%"+c+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(category ILIKE $%d OR subcategory ILIKE $%d)", n, n))
	}
	if len(conds) == 0 {
		return nil, nil
	}
	sql := `SELECT ` + productColumns + ` FROM products WHERE in_stock = TRUE AND (` + strings.Join(conds, " OR ") + `)`
	if budgetMax > 0 {
		args = append(args, budgetMax)
		sql += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	args = append(args, limitOrDefault(limit))
	sql += fmt.Sprintf(" ORDER BY rating DESC LIMIT $%d", len(args))

	return s.query(ctx, sql, args...)
}

// KeywordSearch ORs the first three keywords over name, description,
// subcategory, and material.
func (s *Store) KeywordSearch(ctx context.Context, keywords []string, budgetMax float64, limit int) ([]Product, error) {
	if len(keywords) > 3 {
		keywords = keywords[:3]
	}
	var conds []string
	var args []any
	for _, kw := range keywords {
		args = append(args, "%"+kw+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d OR subcategory ILIKE $%d OR material ILIKE $%d)", n, n, n, n))
	}
	if len(conds) == 0 {
		return nil, nil
	}
	sql := `SELECT ` + productColumns + ` FROM products WHERE in_stock = TRUE AND (` + strings.Join(conds, " OR ") + `)`
	if budgetMax > 0 {
		args = append(args, budgetMax)
		sql += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	args = append(args, limitOrDefault(limit))
	sql += fmt.Sprintf(" ORDER BY rating DESC LIMIT $%d", len(args))

	return s.query(ctx, sql, args...)
}

// ListInStock returns every in-stock product, used for index building.
func (s *Store) ListInStock(ctx context.Context) ([]Product, error) {
	return s.query(ctx, `
        SELECT `+productColumns+`
        FROM products
        WHERE in_stock = TRUE
        ORDER BY id`)
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]Product, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Subcategory,
		&p.Price, &p.Brand, &p.Gender,
		&p.SizesAvailable, &p.Colors, &p.Tags,
		&p.ImageURL, &p.InStock, &p.Rating, &p.Material, &p.Season,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return 15
	}
	return limit
}
