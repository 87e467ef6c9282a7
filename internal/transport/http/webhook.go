package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"quiz-chat-service/internal/app"
)

// WebhookHandler accepts batched inbound chat events and replies with the
// rendered messages per event, keyed by the channel's opaque reply token.
type WebhookHandler struct {
	engine   *app.Engine
	renderer *Renderer
}

func NewWebhookHandler(engine *app.Engine, renderer *Renderer) *WebhookHandler {
	return &WebhookHandler{engine: engine, renderer: renderer}
}

type webhookEvent struct {
	UserID     string `json:"userId"`
	Text       string `json:"text"`
	ReplyToken string `json:"replyToken"`
}

type webhookRequest struct {
	Events []webhookEvent `json:"events"`
}

type webhookReply struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

type webhookResponse struct {
	Replies []webhookReply `json:"replies"`
}

// ServeHTTP processes POSTed events and returns one reply per usable event.
// Events without a user id or with blank text are the transport's problem
// and are skipped.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	resp := webhookResponse{Replies: []webhookReply{}}
	for _, event := range req.Events {
		if event.UserID == "" || strings.TrimSpace(event.Text) == "" {
			continue
		}
		directives := h.engine.HandleMessage(r.Context(), event.UserID, event.Text)
		resp.Replies = append(resp.Replies, webhookReply{
			ReplyToken: event.ReplyToken,
			Messages:   h.renderer.Render(directives),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
