package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
)

const productColumns = `id, partner_id, name, description, price_cents, category, available, stock_quantity, tags`

type SQLiteCatalog struct {
	db *sql.DB
}

// NewSQLiteCatalog returns a Catalog backed by the embedded SQLite database.
func NewSQLiteCatalog(db *sql.DB) *SQLiteCatalog {
	return &SQLiteCatalog{db: db}
}

func (c *SQLiteCatalog) Product(ctx context.Context, id string) (domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = ?`, productColumns)

	product, err := scanProduct(c.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to query product: %w", err)
	}

	return product, nil
}

func (c *SQLiteCatalog) ProductsByPartner(ctx context.Context, partnerID string) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE partner_id = ? ORDER BY id`, productColumns)

	rows, err := c.db.QueryContext(ctx, query, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

// Put inserts or replaces a product. Catalog maintenance is outside the cart
// engine; this exists for seeding and tests.
func (c *SQLiteCatalog) Put(ctx context.Context, p domain.Product) error {
	var stock sql.NullInt32
	if p.StockQuantity != nil {
		stock = sql.NullInt32{Int32: *p.StockQuantity, Valid: true}
	}

	query := fmt.Sprintf(`INSERT OR REPLACE INTO products (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, productColumns)
	_, err := c.db.ExecContext(ctx, query,
		p.ID, p.PartnerID, p.Name, p.Description, p.PriceCents,
		p.Category, p.Available, stock, strings.Join(p.Tags, ","),
	)
	if err != nil {
		return fmt.Errorf("failed to put product: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		product domain.Product
		stock   sql.NullInt32
		tags    string
	)
	err := row.Scan(
		&product.ID,
		&product.PartnerID,
		&product.Name,
		&product.Description,
		&product.PriceCents,
		&product.Category,
		&product.Available,
		&stock,
		&tags,
	)
	if err != nil {
		return domain.Product{}, err
	}
	if stock.Valid {
		quantity := stock.Int32
		product.StockQuantity = &quantity
	}
	if tags != "" {
		product.Tags = strings.Split(tags, ",")
	}
	return product, nil
}
