package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

// stubSeeder serves canned resources and counts fetches
type stubSeeder struct {
	data  map[string]any
	err   error
	calls int
}

func (s *stubSeeder) Fetch(_ context.Context, resource string, v any) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	raw, err := json.Marshal(s.data[resource])
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

type widget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	_, err := kv.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "k", "v"))
	v, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)

	require.NoError(t, kv.Delete(ctx, "k"))
	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	in := []widget{{ID: "1", Name: "croissant"}}
	require.NoError(t, Save(ctx, kv, "widgets", in))

	out, found, err := Load[[]widget](ctx, kv, "widgets")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in, out)

	_, found, err = Load[[]widget](ctx, kv, "other")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLoadCorruptValueSelfHeals(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "widgets", "{not json"))

	_, found, err := Load[[]widget](ctx, kv, "widgets")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = kv.Get(ctx, "widgets")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestLoadSurfacesBackendErrors(t *testing.T) {
	kv := new(MockKV)
	kv.On("Get", mock.Anything, "widgets").Return("", errors.New("connection refused"))

	_, _, err := Load[[]widget](context.Background(), kv, "widgets")
	require.Error(t, err)
	kv.AssertExpectations(t)
}

func TestSaveWriteFailure(t *testing.T) {
	kv := new(MockKV)
	kv.On("Set", mock.Anything, "widgets", mock.AnythingOfType("string")).Return(errors.New("quota exceeded"))

	err := Save(context.Background(), kv, "widgets", []widget{})
	require.ErrorIs(t, err, ErrWriteFailed)

	assert.NotPanics(t, func() { SaveQuietly(context.Background(), kv, "widgets", []widget{}) })
	kv.AssertExpectations(t)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, Save(ctx, kv, "widgets", []widget{{ID: "1"}}))

	require.NoError(t, Clear(ctx, kv, "widgets"))
	require.NoError(t, Clear(ctx, kv, "widgets"))

	_, found, err := Load[[]widget](ctx, kv, "widgets")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCollectionSeedsOnce(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	seeder := &stubSeeder{data: map[string]any{"widgets.json": []widget{{ID: "1", Name: "sonho"}}}}
	c := NewCollection[[]widget](kv, "widgets", WithSeed(seeder, "widgets.json"))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, seeder.calls)

	require.NoError(t, c.Put(ctx, []widget{}))
	got, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, seeder.calls, "an empty stored collection must not be re-seeded")
}

func TestCollectionSeedFailureStoresNothing(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	fetchErr := errors.New("fetch error 500")
	c := NewCollection[[]widget](kv, "widgets", WithSeed(&stubSeeder{err: fetchErr}, "widgets.json"))

	_, err := c.Get(ctx)
	require.ErrorIs(t, err, fetchErr)

	_, err = kv.Get(ctx, "widgets")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestCollectionWithoutSeedIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	c := NewCollection[[]widget](kv, "plans")

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = kv.Get(ctx, "plans")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestCollectionCriticalWrites(t *testing.T) {
	ctx := context.Background()

	failing := new(MockKV)
	failing.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	critical := NewCollection[[]widget](failing, "orders", Critical())
	require.ErrorIs(t, critical.Put(ctx, []widget{{ID: "1"}}), ErrWriteFailed)

	cache := NewCollection[[]widget](failing, "products")
	require.NoError(t, cache.Put(ctx, []widget{{ID: "1"}}))
}

func TestCollectionCacheSeedSurvivesWriteFailure(t *testing.T) {
	ctx := context.Background()
	kv := new(MockKV)
	kv.On("Get", mock.Anything, "products").Return("", ErrKeyNotFound)
	kv.On("Set", mock.Anything, "products", mock.Anything).Return(errors.New("quota exceeded"))

	seeder := &stubSeeder{data: map[string]any{"products.json": []widget{{ID: "p1"}}}}
	c := NewCollection[[]widget](kv, "products", WithSeed(seeder, "products.json"))

	got, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
	kv.AssertExpectations(t)
}
