package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/seed"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/store"
)

func TestCatalogWarmSeedsEveryCollection(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	repo := NewCatalogRepository(kv, seed.NewEmbeddedSource())

	require.NoError(t, repo.Warm(ctx))
	for _, key := range []string{KeyProducts, KeyEmployees, KeyProductionItems, KeyProductionOrders} {
		_, err := kv.Get(ctx, key)
		assert.NoError(t, err, key)
	}
}

func TestCatalogReadsStoredValueFirst(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyEmployees, `[{"id":"x","name":"Only One"}]`))

	employees, err := NewCatalogRepository(kv, seed.NewEmbeddedSource()).Employees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Only One", employees[0].Name)
}

func TestCatalogClearProducts(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	repo := NewCatalogRepository(kv, seed.NewEmbeddedSource())

	require.NoError(t, kv.Set(ctx, KeyProducts, `[]`))
	products, err := repo.Products(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	require.NoError(t, repo.ClearProducts(ctx))
	products, err = repo.Products(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, products)
}

func TestCatalogPlanningReferenceIsCopied(t *testing.T) {
	ctx := context.Background()
	repo := NewCatalogRepository(store.NewMemoryKV(), seed.NewEmbeddedSource())

	ref, err := repo.PlanningReference(ctx)
	require.NoError(t, err)
	original := ref.DefaultPlanning["monday"][0].Quantity
	ref.DefaultPlanning["monday"][0].Quantity = -1

	again, err := repo.PlanningReference(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, again.DefaultPlanning["monday"][0].Quantity)
}
