package http

import (
	"log"
	"net/http"
	"strings"

	"quiz-chat-service/internal/app"
	"github.com/gorilla/websocket"
)

// ChatHandler exposes the quiz conversation over a websocket: one
// connection per user, each text frame is an inbound event, rendered
// messages stream back as JSON envelopes.
type ChatHandler struct {
	engine   *app.Engine
	renderer *Renderer
	upgrader websocket.Upgrader
}

func NewChatHandler(engine *app.Engine, renderer *Renderer) *ChatHandler {
	return &ChatHandler{
		engine:   engine,
		renderer: renderer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type chatInbound struct {
	Text string `json:"text"`
}

type chatOutbound struct {
	Type     string    `json:"type"`
	Messages []Message `json:"messages,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// ServeWS upgrades the request and runs the read-reply loop. Replies are
// synchronous to inbound frames, so a single loop owns all writes.
func (h *ChatHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var inbound chatInbound
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		if strings.TrimSpace(inbound.Text) == "" {
			if err := conn.WriteJSON(chatOutbound{Type: "error", Error: "empty text"}); err != nil {
				return
			}
			continue
		}

		directives := h.engine.HandleMessage(r.Context(), userID, inbound.Text)
		out := chatOutbound{Type: "reply", Messages: h.renderer.Render(directives)}
		if err := conn.WriteJSON(out); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}
