package domain

// DirectiveKind discriminates the outbound directives the engine produces.
type DirectiveKind string

const (
	// DirectiveQuestion delivers a question (prompt, choices, images).
	DirectiveQuestion DirectiveKind = "question"
	// DirectiveResult reports the outcome of an answered question.
	DirectiveResult DirectiveKind = "result"
	// DirectivePrompt confirms a category filter and asks for a start id.
	DirectivePrompt DirectiveKind = "prompt"
	// DirectiveHelp lists the selectable categories.
	DirectiveHelp DirectiveKind = "help"
	// DirectiveIncorrect is the retry response to a wrong answer.
	DirectiveIncorrect DirectiveKind = "incorrect"
	// DirectiveEnded acknowledges the user stopping the quiz.
	DirectiveEnded DirectiveKind = "ended"
	// DirectiveExhausted reports that no questions remain.
	DirectiveExhausted DirectiveKind = "exhausted"
)

// QuestionPayload carries the content of a delivered question.
type QuestionPayload struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Choices string   `json:"choices"`
	Images  []string `json:"images,omitempty"`
}

// ResultPayload carries the outcome shown after a question is resolved.
type ResultPayload struct {
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
	Accuracy    string `json:"accuracy"`
	Theme       string `json:"theme"`
	Category    string `json:"category"`
}

// Directive is an abstract instruction for the transport layer. The engine
// never renders text; transports decide how a directive reaches the user.
type Directive struct {
	Kind DirectiveKind `json:"kind"`

	// Question is set for DirectiveQuestion.
	Question *QuestionPayload `json:"question,omitempty"`
	// Result is set for DirectiveResult.
	Result *ResultPayload `json:"result,omitempty"`
	// Categories is set for DirectiveHelp.
	Categories []string `json:"categories,omitempty"`
	// Category is the confirmed filter for DirectivePrompt, or the filter
	// that was active for DirectiveEnded/DirectiveExhausted ("" if none).
	Category string `json:"category,omitempty"`
	// Text is the taunt line for DirectiveIncorrect.
	Text string `json:"text,omitempty"`
	// FilterCleared marks Ended/Exhausted directives that also reset an
	// active category filter.
	FilterCleared bool `json:"filterCleared,omitempty"`
}

// NewQuestionDirective bundles a catalog question into a deliverable.
func NewQuestionDirective(q Question) Directive {
	return Directive{
		Kind: DirectiveQuestion,
		Question: &QuestionPayload{
			ID:      q.ID,
			Prompt:  q.Prompt,
			Choices: q.Choices,
			Images:  q.Images(),
		},
	}
}
