package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"cyberaware/internal/domain"
)

// GameLoader fetches game content from a backing store (embedded JSON,
// Postgres, etc).
type GameLoader interface {
	LoadGames(ctx context.Context) ([]domain.GameDefinition, error)
}

// CatalogRepository caches the game list with TTL to avoid repeated loads.
type CatalogRepository struct {
	loader GameLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	games     []domain.GameDefinition
	expiresAt time.Time
}

func NewCatalogRepository(loader GameLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) Games(ctx context.Context) ([]domain.GameDefinition, error) {
	now := r.clock()

	r.mu.RLock()
	if r.games != nil && r.expiresAt.After(now) {
		games := r.games
		r.mu.RUnlock()
		return games, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("catalog", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.games != nil && r.expiresAt.After(now) {
			games := r.games
			r.mu.RUnlock()
			return games, nil
		}
		r.mu.RUnlock()

		games, err := r.loader.LoadGames(ctx)
		if err != nil {
			return nil, err
		}
		if len(games) == 0 {
			return nil, domain.ErrCatalogEmpty
		}

		r.mu.Lock()
		r.games = games
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return games, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.GameDefinition), nil
}

// StaticGameLoader serves a fixed game list (embedded content, tests).
type StaticGameLoader struct {
	games []domain.GameDefinition
}

func NewStaticGameLoader(games []domain.GameDefinition) *StaticGameLoader {
	return &StaticGameLoader{games: games}
}

func (l *StaticGameLoader) LoadGames(_ context.Context) ([]domain.GameDefinition, error) {
	return l.games, nil
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
