// Package sheets talks to an Apps-Script-style spreadsheet endpoint: one
// URL serving JSON rows per sheet, selected with a query parameter, and
// accepting POSTed rows for the history sheet.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"quiz-chat-service/internal/domain"
)

const (
	sheetQuestions = "questions"
	sheetTaunts    = "taunts"
	sheetHistory   = "history"
)

type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// LoadQuestions fetches the question sheet in row order.
func (c *Client) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	var records []domain.Question
	if err := c.getSheet(ctx, sheetQuestions, &records); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	return records, nil
}

// LoadTaunts fetches the taunt pool. A missing or empty sheet is not an
// error; callers fall back to a fixed message.
func (c *Client) LoadTaunts(ctx context.Context) ([]string, error) {
	var rows []struct {
		Sentence string `json:"sentence"`
	}
	if err := c.getSheet(ctx, sheetTaunts, &rows); err != nil {
		return nil, fmt.Errorf("load taunts: %w", err)
	}
	taunts := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Sentence != "" {
			taunts = append(taunts, row.Sentence)
		}
	}
	return taunts, nil
}

// Record appends an answer attempt to the history sheet.
func (c *Client) Record(ctx context.Context, attempt domain.AnswerAttempt) error {
	payload := map[string]any{
		"sheet":         sheetHistory,
		"userId":        attempt.UserID,
		"questionId":    attempt.QuestionID,
		"userAnswer":    attempt.UserAnswer,
		"correctAnswer": attempt.CorrectAnswer,
		"result":        attempt.Correct,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal history row: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build history request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("post history row: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("post history row: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) getSheet(ctx context.Context, sheet string, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("sheet", sheet)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheet %q: status %d", sheet, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
