package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/seed"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/store"
)

var fixedNow = time.Date(2025, 1, 30, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("order-%d", n)
	}
}

func newOrderRepo(kv store.KV) OrderRepository {
	return NewOrderRepository(kv, nil, WithClock(clock), WithIDGenerator(sequentialIDs()))
}

func ptr[T any](v T) *T { return &v }

func sampleDraft() models.OrderDraft {
	return models.OrderDraft{
		CustomerName: "Mariana",
		Items: []models.OrderItem{
			{ProductID: "p-sonho", ProductName: "Sonho", Quantity: 2, Price: 6, Total: 12},
		},
		Total: 12,
	}
}

// MockKV records KV calls for testing
type MockKV struct {
	mock.Mock
}

func (m *MockKV) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockKV) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockKV) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestOrderListSeedsFromReferenceData(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(store.NewMemoryKV(), seed.NewEmbeddedSource())

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, orders)
}

func TestOrderCreate(t *testing.T) {
	ctx := context.Background()
	repo := newOrderRepo(store.NewMemoryKV())

	draft := sampleDraft()
	draft.PickupAt = ptr("2025-02-01T09:00:00-03:00")
	draft.Note = "sem açúcar"

	created, err := repo.Create(ctx, draft, &models.Creator{ID: "e-1", Name: "Joana"})
	require.NoError(t, err)

	assert.Equal(t, "order-1", created.ID)
	assert.Equal(t, "2025-01-30T12:00:00.000Z", created.CreatedAt)
	assert.Equal(t, models.OrderStatusPending, created.Status)
	require.NotNil(t, created.PickupAt)
	assert.Equal(t, "2025-02-01T12:00:00.000Z", *created.PickupAt)
	assert.Equal(t, "Joana", *created.CreatedByName)
	assert.Equal(t, "e-1", *created.CreatedByID)
	assert.Equal(t, "sem açúcar", created.Note)

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, *created, orders[0])
}

func TestOrderCreateKeepsUnparseablePickup(t *testing.T) {
	repo := newOrderRepo(store.NewMemoryKV())

	draft := sampleDraft()
	draft.PickupAt = ptr("after lunch")
	created, err := repo.Create(context.Background(), draft, nil)
	require.NoError(t, err)
	assert.Equal(t, "after lunch", *created.PickupAt)
	assert.Nil(t, created.CreatedByID)
	assert.Nil(t, created.CreatedByName)
}

func TestOrderCreateValidation(t *testing.T) {
	repo := newOrderRepo(store.NewMemoryKV())

	draft := sampleDraft()
	draft.CustomerName = ""
	_, err := repo.Create(context.Background(), draft, nil)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "customerName")

	draft = sampleDraft()
	draft.Status = "lost"
	_, err = repo.Create(context.Background(), draft, nil)
	require.ErrorIs(t, err, ErrValidation)
}

func TestOrderCreateIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(store.NewMemoryKV(), nil)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		o, err := repo.Create(ctx, sampleDraft(), nil)
		require.NoError(t, err)
		require.False(t, seen[o.ID], "duplicate id %s", o.ID)
		seen[o.ID] = true
	}
}

func TestOrderUpdatePickup(t *testing.T) {
	ctx := context.Background()
	repo := newOrderRepo(store.NewMemoryKV())

	draft := sampleDraft()
	draft.PickupAt = ptr("2025-02-01T10:00:00.000Z")
	created, err := repo.Create(ctx, draft, nil)
	require.NoError(t, err)

	// omitted pickup keeps the prior value
	updated, err := repo.Update(ctx, created.ID, models.OrderPatch{Note: ptr("extra")})
	require.NoError(t, err)
	assert.Equal(t, "2025-02-01T10:00:00.000Z", *updated.PickupAt)
	assert.Equal(t, "extra", updated.Note)

	updated, err = repo.Update(ctx, created.ID, models.OrderPatch{PickupAt: models.SetString("2025-02-02T08:30:00Z")})
	require.NoError(t, err)
	assert.Equal(t, "2025-02-02T08:30:00.000Z", *updated.PickupAt)

	updated, err = repo.Update(ctx, created.ID, models.OrderPatch{PickupAt: models.SetString("someday")})
	require.NoError(t, err)
	assert.Equal(t, "someday", *updated.PickupAt)

	updated, err = repo.Update(ctx, created.ID, models.OrderPatch{PickupAt: models.SetNull()})
	require.NoError(t, err)
	assert.Nil(t, updated.PickupAt)

	stored, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PickupAt)
	assert.Equal(t, created.CreatedAt, stored.CreatedAt)
}

func TestOrderUpdateMergesFields(t *testing.T) {
	ctx := context.Background()
	repo := newOrderRepo(store.NewMemoryKV())

	created, err := repo.Create(ctx, sampleDraft(), nil)
	require.NoError(t, err)

	status := models.OrderStatusCompleted
	items := []models.OrderItem{{ProductID: "p-coxinha", ProductName: "Coxinha", Quantity: 3, Price: 8, Total: 24}}
	updated, err := repo.Update(ctx, created.ID, models.OrderPatch{
		CustomerName: ptr("Mariana Alves"),
		Items:        &items,
		Total:        ptr(24.0),
		Status:       &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "Mariana Alves", updated.CustomerName)
	assert.Equal(t, items, updated.Items)
	assert.Equal(t, 24.0, updated.Total)
	assert.Equal(t, status, updated.Status)
	assert.Equal(t, created.ID, updated.ID)
}

func TestOrderUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	repo := newOrderRepo(kv)

	_, err := repo.Create(ctx, sampleDraft(), nil)
	require.NoError(t, err)
	before, err := kv.Get(ctx, KeyOrders)
	require.NoError(t, err)

	_, err = repo.Update(ctx, "missing", models.OrderPatch{Note: ptr("x")})
	require.ErrorIs(t, err, ErrNotFound)

	after, err := kv.Get(ctx, KeyOrders)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestOrderReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	repo := newOrderRepo(store.NewMemoryKV())

	created, err := repo.Create(ctx, sampleDraft(), nil)
	require.NoError(t, err)
	created.Items[0].Quantity = 99
	created.CustomerName = "changed"

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, orders[0].Items[0].Quantity)
	assert.Equal(t, "Mariana", orders[0].CustomerName)
}

func TestOrderClear(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(store.NewMemoryKV(), seed.NewEmbeddedSource())

	require.NoError(t, repo.Clear(ctx))
	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders, "a cleared collection must not be re-seeded")
}

func TestOrderCreateWriteFailureSurfaces(t *testing.T) {
	kv := new(MockKV)
	kv.On("Get", mock.Anything, KeyOrders).Return("[]", nil)
	kv.On("Set", mock.Anything, KeyOrders, mock.Anything).Return(errors.New("quota exceeded"))

	repo := newOrderRepo(kv)
	_, err := repo.Create(context.Background(), sampleDraft(), nil)
	require.ErrorIs(t, err, store.ErrWriteFailed)
	kv.AssertExpectations(t)
}

func TestOrderConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(store.NewMemoryKV(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, sampleDraft(), nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 20)
}

func TestKeyFunc(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	repo := NewOrderRepository(kv, nil, WithKeyFunc(func(k string) string { return "ns:" + k }))

	_, err := repo.Create(ctx, sampleDraft(), nil)
	require.NoError(t, err)

	_, err = kv.Get(ctx, "ns:"+KeyOrders)
	assert.NoError(t, err)
}
