package postgres

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"quiz-chat-service/internal/domain"
	"github.com/uptrace/bun"
)

// AnswerHistory is the persisted form of an answer attempt.
type AnswerHistory struct {
	bun.BaseModel `bun:"table:answer_history"`

	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        string    `bun:"user_id,notnull"`
	QuestionID    string    `bun:"question_id,notnull"`
	UserAnswer    string    `bun:"user_answer,notnull"`
	CorrectAnswer string    `bun:"correct_answer,notnull"`
	Correct       bool      `bun:"correct,notnull"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

var errQueueFull = errors.New("answer history queue full, attempt dropped")

// HistoryRecorder writes answer attempts to Postgres through a buffered
// channel and a single background writer, so a slow or dead database never
// delays the reply path. Attempts are dropped when the buffer is full.
type HistoryRecorder struct {
	db        *bun.DB
	queue     chan domain.AnswerAttempt
	done      chan struct{}
	closeOnce sync.Once
}

func NewHistoryRecorder(db *bun.DB) *HistoryRecorder {
	r := &HistoryRecorder{
		db:    db,
		queue: make(chan domain.AnswerAttempt, 256),
		done:  make(chan struct{}),
	}
	go r.run()
	return r
}

// Record enqueues the attempt without blocking.
func (r *HistoryRecorder) Record(_ context.Context, attempt domain.AnswerAttempt) error {
	select {
	case r.queue <- attempt:
		return nil
	default:
		return errQueueFull
	}
}

// Close stops accepting attempts and waits for the queue to drain.
func (r *HistoryRecorder) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
	})
	<-r.done
}

func (r *HistoryRecorder) run() {
	defer close(r.done)
	for attempt := range r.queue {
		r.insert(attempt)
	}
}

func (r *HistoryRecorder) insert(attempt domain.AnswerAttempt) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := &AnswerHistory{
		UserID:        attempt.UserID,
		QuestionID:    attempt.QuestionID,
		UserAnswer:    attempt.UserAnswer,
		CorrectAnswer: attempt.CorrectAnswer,
		Correct:       attempt.Correct,
	}
	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		log.Printf("insert answer history: %v", err)
	}
}
