package store

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/elpiaio/elpiaio-ERP-prototype/config"
)

// Backend is a KV holding a connection
type Backend interface {
	KV
	Close() error
}

// Open connects the backend selected by store.driver
func Open(cfg config.Config) (Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory store, data is lost on restart")
		return NewMemoryKV(), nil
	case config.DriverRedis:
		kv, err := NewRedisKV(cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Info().Str("host", cfg.Redis.Host).Int("port", cfg.Redis.Port).Msg("Connected to Redis store")
		return kv, nil
	case config.DriverPostgres:
		kv, err := ConnectPostgres(cfg.DB)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("Connected to Postgres store")
		return kv, nil
	}
	return nil, errors.Errorf("unknown store driver %q", cfg.Store.Driver)
}
