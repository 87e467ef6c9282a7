package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"quiz-chat-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CatalogLoader fetches the raw question records from a backing store
// (sheet endpoint, Postgres, static fixture).
type CatalogLoader interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// CatalogRepository caches the built catalog with a TTL to avoid hitting
// the backing store on every message. TTL <= 0 means load once and serve
// that snapshot for the process lifetime.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	catalog   *domain.Catalog
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Warm eagerly loads the catalog. Called at startup so a broken source
// fails fast instead of surfacing as silent empty catalogs later.
func (r *CatalogRepository) Warm(ctx context.Context) error {
	_, err := r.refresh(ctx)
	return err
}

// Catalog returns the cached catalog, refreshing it past the TTL. A failed
// refresh keeps serving the last good snapshot.
func (r *CatalogRepository) Catalog(ctx context.Context) (*domain.Catalog, error) {
	now := r.clock()

	r.mu.RLock()
	catalog, expiresAt := r.catalog, r.expiresAt
	r.mu.RUnlock()

	if catalog != nil && (r.ttl <= 0 || expiresAt.After(now)) {
		return catalog, nil
	}

	fresh, err := r.refresh(ctx)
	if err != nil {
		if catalog != nil {
			return catalog, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return fresh, nil
}

func (r *CatalogRepository) refresh(ctx context.Context) (*domain.Catalog, error) {
	result, err, _ := r.sf.Do("catalog", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.catalog != nil && (r.ttl <= 0 || r.expiresAt.After(now)) {
			catalog := r.catalog
			r.mu.RUnlock()
			return catalog, nil
		}
		r.mu.RUnlock()

		records, err := r.loader.LoadQuestions(ctx)
		if err != nil {
			return nil, err
		}
		catalog := domain.NewCatalog(records)

		r.mu.Lock()
		r.catalog = catalog
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.Catalog), nil
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread refreshes across instances
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticCatalogLoader serves a fixed record slice (tests and demos).
type StaticCatalogLoader struct {
	records []domain.Question
}

func NewStaticCatalogLoader(records []domain.Question) *StaticCatalogLoader {
	return &StaticCatalogLoader{records: records}
}

func (l *StaticCatalogLoader) LoadQuestions(context.Context) ([]domain.Question, error) {
	return l.records, nil
}
