package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/db"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteCatalog(t *testing.T) *SQLiteCatalog {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database))
	return NewSQLiteCatalog(database)
}

func TestSQLiteCatalog_RoundTrip(t *testing.T) {
	sut := setupSQLiteCatalog(t)
	ctx := context.Background()

	stock := int32(12)
	want := domain.Product{
		ID:            "prod-brezel",
		PartnerID:     "partner-1",
		Name:          "Laugenbrezel",
		Description:   "Mit grobem Salz",
		PriceCents:    120,
		Category:      "bakery",
		Available:     true,
		StockQuantity: &stock,
		Tags:          []string{"vegan", "fresh"},
	}
	require.NoError(t, sut.Put(ctx, want))

	got, err := sut.Product(ctx, "prod-brezel")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLiteCatalog_ProductNotFound(t *testing.T) {
	sut := setupSQLiteCatalog(t)

	_, err := sut.Product(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestSQLiteCatalog_ProductsByPartner(t *testing.T) {
	sut := setupSQLiteCatalog(t)
	ctx := context.Background()

	require.NoError(t, sut.Put(ctx, domain.Product{ID: "p2", PartnerID: "partner-1", Name: "B", Available: true}))
	require.NoError(t, sut.Put(ctx, domain.Product{ID: "p1", PartnerID: "partner-1", Name: "A", Available: true}))
	require.NoError(t, sut.Put(ctx, domain.Product{ID: "p3", PartnerID: "partner-2", Name: "C", Available: true}))

	products, err := sut.ProductsByPartner(ctx, "partner-1")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "p2", products[1].ID)
}
