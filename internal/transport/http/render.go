package http

import (
	"fmt"
	"strings"

	"quiz-chat-service/internal/app"
	"quiz-chat-service/internal/domain"
)

// Message is a single chat-channel payload produced from a directive.
type Message struct {
	Type string `json:"type"` // "text" or "image"
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Renderer turns engine directives into chat messages. The engine never
// renders text itself; all user-facing wording lives here.
type Renderer struct {
	tokens app.Tokens
}

func NewRenderer(tokens app.Tokens) *Renderer {
	return &Renderer{tokens: tokens}
}

// Render flattens directives into the message sequence to deliver.
func (r *Renderer) Render(directives []domain.Directive) []Message {
	var messages []Message
	for _, d := range directives {
		messages = append(messages, r.renderOne(d)...)
	}
	return messages
}

func (r *Renderer) renderOne(d domain.Directive) []Message {
	switch d.Kind {
	case domain.DirectiveQuestion:
		q := d.Question
		messages := []Message{{
			Type: "text",
			Text: fmt.Sprintf("%s\n%s\n%s", q.ID, q.Prompt, q.Choices),
		}}
		for _, img := range q.Images {
			messages = append(messages, Message{Type: "image", URL: img})
		}
		return messages

	case domain.DirectiveResult:
		res := d.Result
		banner := "Too bad!"
		if res.Correct {
			banner = "Correct!"
		}
		text := fmt.Sprintf("%s\n%s\nAccuracy: %s\nTheme: %s\nCategory: %s\nContinue? [%s/%s]",
			banner, res.Explanation, res.Accuracy, res.Theme, res.Category, r.tokens.Yes, r.tokens.No)
		return []Message{{Type: "text", Text: text}}

	case domain.DirectivePrompt:
		label := d.Category
		if label == "" {
			label = r.tokens.AllCategories
		}
		return []Message{{
			Type: "text",
			Text: fmt.Sprintf("Serving %s questions\nEnter the first question number", label),
		}}

	case domain.DirectiveHelp:
		options := append(append([]string{}, d.Categories...), r.tokens.AllCategories)
		return []Message{{
			Type: "text",
			Text: "Enter a question number or a category\n" + strings.Join(options, ", "),
		}}

	case domain.DirectiveIncorrect:
		return []Message{{Type: "text", Text: d.Text}}

	case domain.DirectiveEnded:
		text := "Quiz ended"
		if d.FilterCleared {
			text += "\nCategory filter reset"
		}
		return []Message{{Type: "text", Text: text}}

	case domain.DirectiveExhausted:
		text := "That was the last question"
		if d.FilterCleared {
			text += "\nCategory filter reset"
		}
		return []Message{{Type: "text", Text: text}}

	default:
		return nil
	}
}
