package app

import (
	"context"
	"log"
	"strings"

	"quiz-chat-service/internal/domain"
)

// SessionRepository abstracts how user sessions are stored (in-memory,
// Redis, etc). GetOrCreate must return the same *Session for concurrent
// calls with the same userID.
type SessionRepository interface {
	GetOrCreate(userID string) *Session
	// Persist mirrors a committed state to durable storage; best-effort,
	// implementations swallow their own errors.
	Persist(userID string, state domain.SessionState)
}

// CatalogProvider supplies the current question catalog.
type CatalogProvider interface {
	Catalog(ctx context.Context) (*domain.Catalog, error)
}

// HistoryRecorder receives one event per answer attempt. Implementations
// are best-effort: a failed record must never surface to the user.
type HistoryRecorder interface {
	Record(ctx context.Context, attempt domain.AnswerAttempt) error
}

// Tokens are the reserved inputs, compared after trimming, exact match.
type Tokens struct {
	GiveUp        string
	No            string
	Yes           string
	AllCategories string
}

// DefaultTokens returns the stock reserved words.
func DefaultTokens() Tokens {
	return Tokens{
		GiveUp:        "give up",
		No:            "no",
		Yes:           "yes",
		AllCategories: "all",
	}
}

// Engine is the per-user conversation state machine. Each inbound event is
// processed to completion synchronously; concurrency comes only from the
// surrounding transport delivering different users' events in parallel.
type Engine struct {
	sessions SessionRepository
	catalog  CatalogProvider
	history  HistoryRecorder
	taunts   *TauntSelector
	tokens   Tokens
}

func NewEngine(sessions SessionRepository, catalog CatalogProvider, history HistoryRecorder, taunts *TauntSelector, tokens Tokens) *Engine {
	if taunts == nil {
		taunts = NewTauntSelector(nil)
	}
	return &Engine{
		sessions: sessions,
		catalog:  catalog,
		history:  history,
		taunts:   taunts,
		tokens:   tokens,
	}
}

// HandleMessage advances userID's session with one inbound text and returns
// the directives to deliver. It never fails: collaborator errors degrade to
// defined fallback directives.
func (e *Engine) HandleMessage(ctx context.Context, userID, text string) []domain.Directive {
	text = strings.TrimSpace(text)

	catalog, err := e.catalog.Catalog(ctx)
	if err != nil || catalog == nil {
		if err != nil {
			log.Printf("catalog unavailable, serving empty: %v", err)
		}
		catalog = domain.NewCatalog(nil)
	}

	session := e.sessions.GetOrCreate(userID)
	_, directives := session.apply(func(st domain.SessionState) (domain.SessionState, []domain.Directive) {
		switch st.Step {
		case domain.StepAwaitingAnswer:
			return e.checkAnswer(ctx, catalog, st, userID, text)
		case domain.StepAwaitingConfirmation:
			return e.advance(catalog, st, text)
		default:
			return e.selectQuestion(catalog, st, text)
		}
	}, func(committed domain.SessionState) {
		e.sessions.Persist(userID, committed)
	})
	return directives
}

// selectQuestion handles the step where the user picks a question id or a
// category filter.
func (e *Engine) selectQuestion(catalog *domain.Catalog, st domain.SessionState, text string) (domain.SessionState, []domain.Directive) {
	id := strings.ToUpper(text)
	if q, ok := catalog.Lookup(id); ok {
		// Explicit id entry wins regardless of any active filter.
		next := domain.SessionState{
			Step:       domain.StepAwaitingAnswer,
			QuestionID: id,
			Category:   st.Category,
		}
		return next, []domain.Directive{domain.NewQuestionDirective(q)}
	}

	if catalog.HasCategory(text) || text == e.tokens.AllCategories {
		filter := text
		if text == e.tokens.AllCategories {
			filter = ""
		}
		st.Category = filter
		return st, []domain.Directive{{Kind: domain.DirectivePrompt, Category: filter}}
	}

	return st, []domain.Directive{{Kind: domain.DirectiveHelp, Categories: catalog.Categories()}}
}

// checkAnswer evaluates the user's answer against the current question.
func (e *Engine) checkAnswer(ctx context.Context, catalog *domain.Catalog, st domain.SessionState, userID, text string) (domain.SessionState, []domain.Directive) {
	question, ok := catalog.Lookup(st.QuestionID)
	if !ok {
		// The question vanished from the catalog (reload shrank it).
		// Recover as if the set were exhausted.
		return e.exhaust(st)
	}

	normalizedCorrect := Normalize(question.Answer)
	correct := Normalize(text) == normalizedCorrect

	e.record(ctx, domain.AnswerAttempt{
		UserID:        userID,
		QuestionID:    st.QuestionID,
		UserAnswer:    text,
		CorrectAnswer: normalizedCorrect,
		Correct:       correct,
	})

	if correct || text == e.tokens.GiveUp {
		st.Step = domain.StepAwaitingConfirmation
		return st, []domain.Directive{{
			Kind: domain.DirectiveResult,
			Result: &domain.ResultPayload{
				Correct:     correct,
				Explanation: question.Explanation,
				Accuracy:    question.Accuracy,
				Theme:       question.Theme,
				Category:    question.Category,
			},
		}}
	}

	return st, []domain.Directive{{Kind: domain.DirectiveIncorrect, Text: e.taunts.Pick()}}
}

// advance handles the continuation prompt: "no" ends the run, anything else
// is a yes and moves to the next question in catalog order, honoring the
// category filter.
func (e *Engine) advance(catalog *domain.Catalog, st domain.SessionState, text string) (domain.SessionState, []domain.Directive) {
	if text == e.tokens.No {
		cleared := st.Category != ""
		next := domain.SessionState{Step: domain.StepAwaitingQuestion}
		return next, []domain.Directive{{
			Kind:          domain.DirectiveEnded,
			Category:      st.Category,
			FilterCleared: cleared,
		}}
	}

	if id, ok := e.nextQuestionID(catalog, st); ok {
		question, _ := catalog.Lookup(id)
		next := domain.SessionState{
			Step:       domain.StepAwaitingAnswer,
			QuestionID: id,
			Category:   st.Category,
		}
		return next, []domain.Directive{domain.NewQuestionDirective(question)}
	}

	return e.exhaust(st)
}

// nextQuestionID scans strictly past the current question in load order,
// narrowed by the category filter when one is set. A current id missing
// from the catalog yields no candidates.
func (e *Engine) nextQuestionID(catalog *domain.Catalog, st domain.SessionState) (string, bool) {
	index := catalog.IndexOf(st.QuestionID)
	if index < 0 {
		return "", false
	}
	for _, id := range catalog.IDs()[index+1:] {
		if st.Category == "" {
			return id, true
		}
		if q, ok := catalog.Lookup(id); ok && q.Category == st.Category {
			return id, true
		}
	}
	return "", false
}

// exhaust resets the session and reports that no questions remain.
func (e *Engine) exhaust(st domain.SessionState) (domain.SessionState, []domain.Directive) {
	cleared := st.Category != ""
	next := domain.SessionState{Step: domain.StepAwaitingQuestion}
	return next, []domain.Directive{{
		Kind:          domain.DirectiveExhausted,
		Category:      st.Category,
		FilterCleared: cleared,
	}}
}

// record forwards an answer attempt to the history sink. Failures are
// logged and discarded; they never affect the committed transition.
func (e *Engine) record(ctx context.Context, attempt domain.AnswerAttempt) {
	if e.history == nil {
		return
	}
	if err := e.history.Record(ctx, attempt); err != nil {
		log.Printf("record answer attempt: %v", err)
	}
}
