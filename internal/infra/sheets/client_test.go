package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-chat-service/internal/domain"
)

func newSheetServer(t *testing.T, posted *[]map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var row map[string]any
			if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
				t.Fatalf("decode posted row: %v", err)
			}
			*posted = append(*posted, row)
			w.WriteHeader(http.StatusOK)
			return
		}

		switch r.URL.Query().Get("sheet") {
		case "questions":
			_ = json.NewEncoder(w).Encode([]domain.Question{
				{ID: "Q1", Prompt: "p1", Answer: "A", Category: "math"},
				{ID: "Q2", Prompt: "p2", Answer: "B", Category: "science"},
			})
		case "taunts":
			_ = json.NewEncoder(w).Encode([]map[string]string{
				{"sentence": "too slow"},
				{"sentence": ""},
				{"sentence": "not even close"},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestClientLoadQuestions(t *testing.T) {
	var posted []map[string]any
	server := newSheetServer(t, &posted)
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	records, err := client.LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("load questions: %v", err)
	}
	if len(records) != 2 || records[0].ID != "Q1" || records[1].Category != "science" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestClientLoadTauntsSkipsBlanks(t *testing.T) {
	var posted []map[string]any
	server := newSheetServer(t, &posted)
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	taunts, err := client.LoadTaunts(context.Background())
	if err != nil {
		t.Fatalf("load taunts: %v", err)
	}
	if len(taunts) != 2 || taunts[0] != "too slow" || taunts[1] != "not even close" {
		t.Fatalf("unexpected taunts: %v", taunts)
	}
}

func TestClientRecordPostsHistoryRow(t *testing.T) {
	var posted []map[string]any
	server := newSheetServer(t, &posted)
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	err := client.Record(context.Background(), domain.AnswerAttempt{
		UserID:        "u1",
		QuestionID:    "Q1",
		UserAnswer:    "B,A",
		CorrectAnswer: "ab",
		Correct:       true,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(posted) != 1 {
		t.Fatalf("expected 1 posted row, got %d", len(posted))
	}
	row := posted[0]
	if row["sheet"] != "history" || row["userId"] != "u1" || row["result"] != true {
		t.Fatalf("unexpected row: %+v", row)
	}
}

func TestClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.LoadQuestions(context.Background()); err == nil {
		t.Fatalf("expected error on 500")
	}
	if err := client.Record(context.Background(), domain.AnswerAttempt{}); err == nil {
		t.Fatalf("expected error on 500 post")
	}
}
