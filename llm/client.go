// Package llm sends distilled page text to an OpenAI-compatible chat
// completions endpoint and returns the raw standings payload the model
// produced.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// maxErrorBody caps how much of an upstream error body lands in our error
// text. Proxies sometimes answer with whole HTML pages.
const maxErrorBody = 300

// Client is a chat completions client bound to one endpoint and model.
type Client struct {
	http  *resty.Client
	model string
	token string
}

// NewClient builds a client for endpoint. The token is sent as a bearer
// credential and scrubbed from any error text this client returns.
func NewClient(endpoint, token, model string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(endpoint, "/")).
		SetTimeout(timeout).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json")
	return &Client{http: httpClient, model: model, token: token}
}

// Model returns the model identifier requests are issued for.
func (c *Client) Model() string {
	return c.model
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Extract asks the model for the league table hidden in content and decodes
// the reply into a raw payload for schema validation.
func (c *Client) Extract(ctx context.Context, league, content string) (map[string]any, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(league, content)},
		},
		Temperature:    0,
		ResponseFormat: &chatFormat{Type: "json_object"},
	}

	var out chatResponse
	var failure apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&failure).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("model request: %w", err)
	}
	if resp.IsError() {
		msg := strings.TrimSpace(resp.String())
		if failure.Error.Message != "" {
			msg = failure.Error.Message
		}
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody] + "..."
		}
		return nil, fmt.Errorf("model request: status %d: %s", resp.StatusCode(), c.redact(msg))
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("model response has no choices")
	}

	raw := extractJSON(out.Choices[0].Message.Content)
	if raw == "" {
		return nil, fmt.Errorf("model response contains no JSON object")
	}
	payload := make(map[string]any)
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	return payload, nil
}

// extractJSON returns the outermost JSON object in a model reply, tolerating
// markdown fences and prose around it.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func (c *Client) redact(s string) string {
	if c.token == "" {
		return s
	}
	return strings.ReplaceAll(s, c.token, "****")
}
