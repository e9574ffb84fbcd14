package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
)

type sqliteRepository struct {
	db         *sql.DB
	customerID string
}

// NewSQLiteRepository returns a CartRepository backed by the embedded SQLite
// database, scoped to a single customer's cart.
func NewSQLiteRepository(db *sql.DB, customerID string) CartRepository {
	return &sqliteRepository{db: db, customerID: customerID}
}

func (r *sqliteRepository) LoadAll(ctx context.Context) ([]domain.CartItem, error) {
	query := `
		SELECT id, product_id, partner_id, product_name, description, price_cents,
		       category, available, stock_quantity, tags, quantity, instructions
		FROM cart_items
		WHERE customer_id = ?
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, r.customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var (
			item  domain.CartItem
			stock sql.NullInt32
			tags  string
		)
		err := rows.Scan(
			&item.ID,
			&item.Product.ID,
			&item.Product.PartnerID,
			&item.Product.Name,
			&item.Product.Description,
			&item.Product.PriceCents,
			&item.Product.Category,
			&item.Product.Available,
			&stock,
			&tags,
			&item.Quantity,
			&item.Instructions,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		if stock.Valid {
			quantity := stock.Int32
			item.Product.StockQuantity = &quantity
		}
		if tags != "" {
			item.Product.Tags = strings.Split(tags, ",")
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

func (r *sqliteRepository) Save(ctx context.Context, item domain.CartItem) error {
	var stock sql.NullInt32
	if item.Product.StockQuantity != nil {
		stock = sql.NullInt32{Int32: *item.Product.StockQuantity, Valid: true}
	}

	// New lines take the next position for the customer; re-saving an
	// existing line keeps its position so load order stays insertion order.
	query := `
		INSERT INTO cart_items (
			id, customer_id, product_id, partner_id, product_name, description,
			price_cents, category, available, stock_quantity, tags, quantity,
			instructions, position
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM cart_items WHERE customer_id = ?))
		ON CONFLICT(id)
		DO UPDATE SET quantity = excluded.quantity, instructions = excluded.instructions
	`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		r.customerID,
		item.Product.ID,
		item.Product.PartnerID,
		item.Product.Name,
		item.Product.Description,
		item.Product.PriceCents,
		item.Product.Category,
		item.Product.Available,
		stock,
		strings.Join(item.Product.Tags, ","),
		item.Quantity,
		item.Instructions,
		r.customerID,
	)
	if err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}

	return nil
}

func (r *sqliteRepository) Delete(ctx context.Context, itemID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE customer_id = ? AND id = ?`,
		r.customerID, itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	return nil
}

func (r *sqliteRepository) ClearAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE customer_id = ?`,
		r.customerID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	return nil
}
