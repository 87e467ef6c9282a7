package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-chat-service/internal/domain"
)

type countingLoader struct {
	CatalogLoader
	calls int
}

func (l *countingLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.CatalogLoader.LoadQuestions(ctx)
}

type failingLoader struct {
	records []domain.Question
	fail    bool
}

func (l *failingLoader) LoadQuestions(context.Context) ([]domain.Question, error) {
	if l.fail {
		return nil, errors.New("source down")
	}
	return l.records, nil
}

func sampleRecords() []domain.Question {
	return []domain.Question{
		{ID: "Q1", Answer: "A", Category: "math"},
		{ID: "Q2", Answer: "B", Category: "science"},
	}
}

func TestCatalogRepositoryLoadsOnce(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(sampleRecords())}
	repo := NewCatalogRepository(loader, 0)

	catalog, err := repo.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if catalog.Len() != 2 {
		t.Fatalf("expected 2 questions, got %d", catalog.Len())
	}
	if loader.calls != 1 {
		t.Fatalf("expected one load, got %d", loader.calls)
	}

	// TTL 0: serve the startup snapshot forever.
	if _, err := repo.Catalog(context.Background()); err != nil {
		t.Fatalf("catalog second call: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cached catalog, loader calls %d", loader.calls)
	}
}

func TestCatalogRepositoryRefreshesAfterTTL(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(sampleRecords())}
	repo := NewCatalogRepository(loader, time.Minute)

	now := time.Now()
	repo.clock = func() time.Time { return now }

	if _, err := repo.Catalog(context.Background()); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if _, err := repo.Catalog(context.Background()); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected single load inside TTL, got %d", loader.calls)
	}

	now = now.Add(2 * time.Minute)
	if _, err := repo.Catalog(context.Background()); err != nil {
		t.Fatalf("catalog after ttl: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected refresh after TTL, got %d loads", loader.calls)
	}
}

func TestCatalogRepositoryKeepsStaleOnRefreshFailure(t *testing.T) {
	loader := &failingLoader{records: sampleRecords()}
	repo := NewCatalogRepository(loader, time.Minute)

	now := time.Now()
	repo.clock = func() time.Time { return now }

	if err := repo.Warm(context.Background()); err != nil {
		t.Fatalf("warm: %v", err)
	}

	loader.fail = true
	now = now.Add(2 * time.Minute)
	catalog, err := repo.Catalog(context.Background())
	if err != nil {
		t.Fatalf("expected stale catalog, got error: %v", err)
	}
	if catalog.Len() != 2 {
		t.Fatalf("expected stale snapshot with 2 questions, got %d", catalog.Len())
	}
}

func TestCatalogRepositoryWarmFailsFast(t *testing.T) {
	repo := NewCatalogRepository(&failingLoader{fail: true}, 0)
	if err := repo.Warm(context.Background()); err == nil {
		t.Fatalf("expected warm to fail when the source is down")
	}
}
