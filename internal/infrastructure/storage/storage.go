// Package storage holds the client storage adapters: the per-client key/value
// store the session services persist comparison and recent-view state into.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carjai/marketplace-client/internal/core/ports"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// legacyKeys are identity copies older clients kept in local storage. The
// session now lives only in the cookie jar, so they are removed on startup.
var legacyKeys = []string{"user", "adminUser", "adminToken", "carjai_token", "carjai_user"}

// Store is a ClientStorage that owns a connection.
type Store interface {
	ports.ClientStorage
	Close(ctx context.Context) error
}

// Config selects and configures a storage backend.
type Config struct {
	Backend  string
	StateDir string
	ClientID string
	Redis    RedisConfig
	Mongo    MongoConfig
}

// Open returns the store named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.StateDir)
	case BackendRedis:
		client, err := ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.ClientID), nil
	case BackendMongo:
		client, db, err := ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(client, db, cfg.ClientID), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}

// PurgeLegacy deletes identity keys left behind by older clients. Failures
// are logged and otherwise ignored.
func PurgeLegacy(ctx context.Context, store ports.ClientStorage, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for _, key := range legacyKeys {
		if err := store.Delete(ctx, key); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("legacy key purge failed")
		}
	}
}
