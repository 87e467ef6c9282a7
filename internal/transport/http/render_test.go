package http

import (
	"strings"
	"testing"

	"quiz-chat-service/internal/app"
	"quiz-chat-service/internal/domain"
)

func TestRenderHelpListsCategoriesAndAllToken(t *testing.T) {
	renderer := NewRenderer(app.DefaultTokens())
	messages := renderer.Render([]domain.Directive{{
		Kind:       domain.DirectiveHelp,
		Categories: []string{"math", "science"},
	}})
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if !strings.Contains(messages[0].Text, "math, science, all") {
		t.Fatalf("expected categories plus all token, got %q", messages[0].Text)
	}
}

func TestRenderQuestionOmitsImagesWhenBlank(t *testing.T) {
	renderer := NewRenderer(app.DefaultTokens())
	messages := renderer.Render([]domain.Directive{
		domain.NewQuestionDirective(domain.Question{ID: "Q1", Prompt: "p", Choices: "c", ImageURLs: "  "}),
	})
	if len(messages) != 1 || messages[0].Type != "text" {
		t.Fatalf("expected single text message, got %+v", messages)
	}
}

func TestRenderPromptUsesAllLabelForClearedFilter(t *testing.T) {
	renderer := NewRenderer(app.DefaultTokens())
	messages := renderer.Render([]domain.Directive{{Kind: domain.DirectivePrompt, Category: ""}})
	if !strings.HasPrefix(messages[0].Text, "Serving all questions") {
		t.Fatalf("expected all label, got %q", messages[0].Text)
	}
}

func TestRenderExhaustedMentionsFilterReset(t *testing.T) {
	renderer := NewRenderer(app.DefaultTokens())

	plain := renderer.Render([]domain.Directive{{Kind: domain.DirectiveExhausted}})
	if strings.Contains(plain[0].Text, "filter") {
		t.Fatalf("unfiltered exhaustion should not mention the filter: %q", plain[0].Text)
	}

	filtered := renderer.Render([]domain.Directive{{Kind: domain.DirectiveExhausted, Category: "math", FilterCleared: true}})
	if !strings.Contains(filtered[0].Text, "Category filter reset") {
		t.Fatalf("expected filter reset note, got %q", filtered[0].Text)
	}
}
