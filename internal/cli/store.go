package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pianoxl/pkg/cache"
	"github.com/matzehuels/pianoxl/pkg/state"
)

// State store backends selectable with --store.
const (
	storeFile  = "file"
	storeRedis = "redis"
	storeMongo = "mongo"
	storeNone  = "none"
)

// storeFlags selects and configures the UI state backend.
type storeFlags struct {
	backend string
	key     string
	dir     string
	redis   state.RedisConfig
	mongo   state.MongoConfig
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "store", storeFile, "state store: file, redis, mongo or none")
	cmd.Flags().StringVar(&f.key, "state-key", state.DefaultKey, "key the state is stored under")
	cmd.Flags().StringVar(&f.dir, "state-dir", "", "file store directory (default: ~/.config/pianoxl/state)")
	cmd.Flags().StringVar(&f.redis.Addr, "redis-addr", "localhost:6379", "redis address")
	cmd.Flags().StringVar(&f.redis.Password, "redis-password", "", "redis password")
	cmd.Flags().IntVar(&f.redis.DB, "redis-db", 0, "redis database")
	cmd.Flags().StringVar(&f.mongo.URI, "mongo-uri", "mongodb://localhost:27017", "mongodb connection URI")
	cmd.Flags().StringVar(&f.mongo.Database, "mongo-db", "", "mongodb database (default: pianoxl)")
}

// open connects to the selected backend. Network backends are retried with
// backoff, so a store that is still starting up does not fail the command.
func (f *storeFlags) open(ctx context.Context, logger *log.Logger) (state.Store, error) {
	switch f.backend {
	case storeNone:
		return state.NewNullStore(), nil
	case storeFile, "":
		return state.NewFileStore(f.dir)
	case storeRedis:
		return connect(ctx, logger, storeRedis, func() (state.Store, error) {
			return state.NewRedisStore(ctx, f.redis)
		})
	case storeMongo:
		return connect(ctx, logger, storeMongo, func() (state.Store, error) {
			return state.NewMongoStore(ctx, f.mongo)
		})
	default:
		return nil, fmt.Errorf("unknown store %q (want file, redis, mongo or none)", f.backend)
	}
}

func connect(ctx context.Context, logger *log.Logger, name string, dial func() (state.Store, error)) (state.Store, error) {
	var store state.Store
	attempt := 0
	err := cache.RetryWithBackoff(ctx, func() error {
		attempt++
		s, err := dial()
		if err != nil {
			logger.Debug("store connect failed", "store", name, "attempt", attempt, "error", err)
			return cache.Retryable(fmt.Errorf("%w: %w", cache.ErrUnavailable, err))
		}
		store = s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", name, err)
	}
	logger.Debug("store connected", "store", name)
	return store, nil
}
