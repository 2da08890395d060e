package store

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Seeder provides the default value of a collection
type Seeder interface {
	Fetch(ctx context.Context, resource string, v any) error
}

// Collection is a JSON document under a fixed key, populated from a seed
// resource the first time it is read.
type Collection[T any] struct {
	kv       KV
	key      string
	resource string
	seeder   Seeder
	critical bool
}

// CollectionOption configures a Collection
type CollectionOption func(*collectionOptions)

type collectionOptions struct {
	resource string
	seeder   Seeder
	critical bool
}

// WithSeed populates an absent collection from resource
func WithSeed(seeder Seeder, resource string) CollectionOption {
	return func(o *collectionOptions) {
		o.seeder = seeder
		o.resource = resource
	}
}

// Critical makes write failures surface to the caller. Non-critical collections
// are caches and only log them.
func Critical() CollectionOption {
	return func(o *collectionOptions) {
		o.critical = true
	}
}

// NewCollection binds a collection to key
func NewCollection[T any](kv KV, key string, opts ...CollectionOption) *Collection[T] {
	var o collectionOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T]{
		kv:       kv,
		key:      key,
		resource: o.resource,
		seeder:   o.seeder,
		critical: o.critical,
	}
}

// Key returns the storage key
func (c *Collection[T]) Key() string {
	return c.key
}

// Get returns the stored value. An absent value is seeded and stored; without a
// seeder the zero value is returned and nothing is written.
func (c *Collection[T]) Get(ctx context.Context) (T, error) {
	v, found, err := Load[T](ctx, c.kv, c.key)
	if err != nil || found {
		return v, err
	}

	var zero T
	if c.seeder == nil {
		return zero, nil
	}

	var seeded T
	if err := c.seeder.Fetch(ctx, c.resource, &seeded); err != nil {
		return zero, errors.Wrapf(err, "failed to seed %s", c.key)
	}
	log.Info().Str("key", c.key).Str("resource", c.resource).Msg("Seeded collection")

	if err := c.write(ctx, seeded); err != nil {
		return zero, err
	}
	return seeded, nil
}

// Put replaces the stored value
func (c *Collection[T]) Put(ctx context.Context, v T) error {
	return c.write(ctx, v)
}

// Clear removes the stored value; the next Get seeds again
func (c *Collection[T]) Clear(ctx context.Context) error {
	return Clear(ctx, c.kv, c.key)
}

func (c *Collection[T]) write(ctx context.Context, v T) error {
	if c.critical {
		return Save(ctx, c.kv, c.key, v)
	}
	SaveQuietly(ctx, c.kv, c.key, v)
	return nil
}
