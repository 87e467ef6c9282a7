package domain

import (
	"sort"
	"strings"
)

// Question is a single quiz question as loaded from the catalog source.
// Immutable after the catalog is built.
type Question struct {
	ID          string `json:"id"`
	Prompt      string `json:"prompt"`
	Choices     string `json:"choices"`
	ImageURLs   string `json:"imageUrls"` // comma-joined, may be blank
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
	Accuracy    string `json:"accuracy"`
	Theme       string `json:"theme"`
	Category    string `json:"category"`
}

// Images splits the comma-joined image field, dropping blanks.
func (q Question) Images() []string {
	if strings.TrimSpace(q.ImageURLs) == "" {
		return nil
	}
	parts := strings.Split(q.ImageURLs, ",")
	images := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			images = append(images, p)
		}
	}
	return images
}

// Catalog is the ordered, read-only question set. Insertion order is the
// canonical sequencing order for "next question" selection.
type Catalog struct {
	order      []string
	byID       map[string]Question
	categories []string
}

// NewCatalog builds a catalog from records in load order. Identifiers are
// expected to be unique in the source; if a duplicate does appear, the
// first record wins both its position and its fields, and later records
// with the same ID are dropped entirely.
func NewCatalog(records []Question) *Catalog {
	c := &Catalog{byID: make(map[string]Question, len(records))}
	seen := make(map[string]struct{})
	for _, r := range records {
		if _, dup := c.byID[r.ID]; dup {
			continue
		}
		c.byID[r.ID] = r
		c.order = append(c.order, r.ID)
		if _, ok := seen[r.Category]; !ok && r.Category != "" {
			seen[r.Category] = struct{}{}
			c.categories = append(c.categories, r.Category)
		}
	}
	sort.Strings(c.categories)
	return c
}

// Lookup returns the question for id.
func (c *Catalog) Lookup(id string) (Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// IDs returns question ids in load order. Callers must not mutate the slice.
func (c *Catalog) IDs() []string {
	return c.order
}

// IndexOf returns the position of id in load order, or -1.
func (c *Catalog) IndexOf(id string) int {
	for i, qid := range c.order {
		if qid == id {
			return i
		}
	}
	return -1
}

// Categories returns the distinct category labels, sorted.
func (c *Catalog) Categories() []string {
	return c.categories
}

// HasCategory reports whether label is a known category.
func (c *Catalog) HasCategory(label string) bool {
	for _, cat := range c.categories {
		if cat == label {
			return true
		}
	}
	return false
}

// Len returns the number of questions.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Step identifies where a user is in the quiz conversation.
type Step int

const (
	// StepAwaitingQuestion means the user has no active question and the
	// next input selects a question id or a category filter.
	StepAwaitingQuestion Step = iota
	// StepAwaitingAnswer means a question is out and inputs are answers.
	StepAwaitingAnswer
	// StepAwaitingConfirmation means a result was shown and the next input
	// decides whether to continue.
	StepAwaitingConfirmation
)

func (s Step) String() string {
	switch s {
	case StepAwaitingQuestion:
		return "awaiting_question"
	case StepAwaitingAnswer:
		return "awaiting_answer"
	case StepAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return "unknown"
	}
}

// ParseStep is the inverse of Step.String, used when rehydrating sessions.
func ParseStep(raw string) (Step, bool) {
	switch raw {
	case "awaiting_question":
		return StepAwaitingQuestion, true
	case "awaiting_answer":
		return StepAwaitingAnswer, true
	case "awaiting_confirmation":
		return StepAwaitingConfirmation, true
	default:
		return StepAwaitingQuestion, false
	}
}

// SessionState is the serializable view of a user's session, exchanged
// between the engine's session objects and persistent stores.
type SessionState struct {
	Step       Step   `json:"step"`
	QuestionID string `json:"questionId,omitempty"`
	Category   string `json:"category,omitempty"`
}

// AnswerAttempt is the log event emitted on every answer attempt.
type AnswerAttempt struct {
	UserID        string `json:"userId"`
	QuestionID    string `json:"questionId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"` // normalized form
	Correct       bool   `json:"correct"`
}
