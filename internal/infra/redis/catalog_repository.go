package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"cyberaware/internal/domain"
	"cyberaware/internal/infra/memory"
)

const catalogKey = "catalog:games"

// CatalogRepository caches the full game list as one JSON value in Redis and
// falls back to a loader on cache miss. The list is cached whole because the
// daily-challenge index depends on its ordering.
type CatalogRepository struct {
	client *redis.Client
	loader memory.GameLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader memory.GameLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) Games(ctx context.Context) ([]domain.GameDefinition, error) {
	if games, ok := r.cached(ctx); ok {
		return games, nil
	}

	result, err, _ := r.sf.Do(catalogKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if games, ok := r.cached(ctx); ok {
			return games, nil
		}

		games, err := r.loader.LoadGames(ctx)
		if err != nil {
			return nil, err
		}
		if len(games) == 0 {
			return nil, domain.ErrCatalogEmpty
		}

		if raw, err := json.Marshal(games); err == nil {
			// best-effort cache fill
			_ = r.client.Set(ctx, catalogKey, raw, r.ttlWithJitter()).Err()
		}
		return games, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.GameDefinition), nil
}

func (r *CatalogRepository) cached(ctx context.Context) ([]domain.GameDefinition, bool) {
	raw, err := r.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		return nil, false
	}
	var games []domain.GameDefinition
	if err := json.Unmarshal(raw, &games); err != nil || len(games) == 0 {
		return nil, false
	}
	return games, true
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
