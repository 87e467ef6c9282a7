package postgres

import (
	"context"
	"fmt"

	"quiz-chat-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader reads question rows from Postgres. The position column
// preserves the authoring order the sequencing logic depends on.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, prompt, choices, image_urls, answer, explanation, accuracy, theme, category
		FROM questions
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var records []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Choices, &q.ImageURLs, &q.Answer, &q.Explanation, &q.Accuracy, &q.Theme, &q.Category); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		records = append(records, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return records, nil
}
