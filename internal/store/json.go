package store

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Load decodes the JSON value stored under key. found is false when the key is
// absent. A value that does not decode is deleted and reported as absent.
func Load[T any](ctx context.Context, kv KV, key string) (v T, found bool, err error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return v, false, nil
		}
		return v, false, errors.Wrapf(err, "failed to load %s", key)
	}

	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Warn().
			Err(errors.Wrap(ErrCorrupt, err.Error())).
			Str("key", key).
			Msg("Discarding corrupt stored value")
		if delErr := kv.Delete(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("Failed to delete corrupt stored value")
		}
		var zero T
		return zero, false, nil
	}
	return v, true, nil
}

// Save encodes v as JSON and writes it under key
func Save[T any](ctx context.Context, kv KV, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(ErrWriteFailed, "failed to encode %s: %v", key, err)
	}
	if err := kv.Set(ctx, key, string(data)); err != nil {
		return errors.Wrapf(ErrWriteFailed, "failed to write %s: %v", key, err)
	}
	return nil
}

// SaveQuietly is Save for cache collections: failures are logged and dropped
func SaveQuietly[T any](ctx context.Context, kv KV, key string, v T) {
	if err := Save(ctx, kv, key, v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Ignoring cache write failure")
	}
}

// Clear removes the value stored under key
func Clear(ctx context.Context, kv KV, key string) error {
	if err := kv.Delete(ctx, key); err != nil {
		return errors.Wrapf(err, "failed to clear %s", key)
	}
	return nil
}
