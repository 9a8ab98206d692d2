package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
)

const (
	testEndpoint = "http://llm.test/v1"
	testToken    = "sk-secret-token"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(testEndpoint, testToken, "gpt-4o", 5*time.Second)
	httpmock.ActivateNonDefault(c.http.GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func jsonResponder(status int, body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(status, body)
	resp.Header.Set("Content-Type", "application/json")
	return httpmock.ResponderFromResponse(resp)
}

func chatReply(content string) string {
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	raw, _ := json.Marshal(reply)
	return string(raw)
}

func TestExtractRequestShape(t *testing.T) {
	c := newTestClient(t)

	var captured chatRequest
	var authHeader string
	httpmock.RegisterResponder("POST", testEndpoint+"/chat/completions",
		func(req *http.Request) (*http.Response, error) {
			authHeader = req.Header.Get("Authorization")
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return nil, err
			}
			if err := json.Unmarshal(body, &captured); err != nil {
				return nil, err
			}
			resp := httpmock.NewStringResponse(200, chatReply(`{"sport":"football","league":"Serie A","standings":[]}`))
			resp.Header.Set("Content-Type", "application/json")
			return resp, nil
		})

	payload, err := c.Extract(context.Background(), "Serie A", "1 | Inter | 45")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if authHeader != "Bearer "+testToken {
		t.Errorf("authorization header = %q", authHeader)
	}
	if captured.Model != "gpt-4o" {
		t.Errorf("model = %q", captured.Model)
	}
	if captured.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", captured.Temperature)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v", captured.ResponseFormat)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Role != "user" {
		t.Fatalf("messages = %+v", captured.Messages)
	}
	user := captured.Messages[1].Content
	if !strings.Contains(user, "Serie A") || !strings.Contains(user, "1 | Inter | 45") {
		t.Errorf("user message missing league or content: %q", user)
	}

	if payload["league"] != "Serie A" {
		t.Errorf("payload league = %v", payload["league"])
	}
}

func TestExtractFencedReply(t *testing.T) {
	c := newTestClient(t)

	content := "Here is the table:\n```json\n{\"league\": \"La Liga\", \"standings\": []}\n```\nDone."
	httpmock.RegisterResponder("POST", testEndpoint+"/chat/completions",
		jsonResponder(200, chatReply(content)))

	payload, err := c.Extract(context.Background(), "La Liga", "text")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if payload["league"] != "La Liga" {
		t.Errorf("league = %v", payload["league"])
	}
}

func TestExtractErrorRedactsToken(t *testing.T) {
	c := newTestClient(t)

	body := `{"error": {"message": "Incorrect API key provided: ` + testToken + `"}}`
	httpmock.RegisterResponder("POST", testEndpoint+"/chat/completions",
		jsonResponder(401, body))

	_, err := c.Extract(context.Background(), "La Liga", "text")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if strings.Contains(err.Error(), testToken) {
		t.Fatalf("error leaks the credential: %v", err)
	}
	if !strings.Contains(err.Error(), "****") {
		t.Errorf("error should carry the redaction marker: %v", err)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error should carry the status: %v", err)
	}
}

func TestExtractNoChoices(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("POST", testEndpoint+"/chat/completions",
		jsonResponder(200, `{"choices": []}`))

	if _, err := c.Extract(context.Background(), "La Liga", "text"); err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Fatalf("expected no-choices error, got %v", err)
	}
}

func TestExtractReplyWithoutJSON(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("POST", testEndpoint+"/chat/completions",
		jsonResponder(200, chatReply("I could not find a league table on this page.")))

	if _, err := c.Extract(context.Background(), "La Liga", "text"); err == nil || !strings.Contains(err.Error(), "no JSON object") {
		t.Fatalf("expected no-JSON error, got %v", err)
	}
}

func TestExtractMalformedJSONReply(t *testing.T) {
	c := newTestClient(t)

	httpmock.RegisterResponder("POST", testEndpoint+"/chat/completions",
		jsonResponder(200, chatReply(`{"league": "La Liga", "standings": [`+"}")))

	if _, err := c.Extract(context.Background(), "La Liga", "text"); err == nil || !strings.Contains(err.Error(), "decode model response") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestExtractJSONHelper(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", `Sure! {"a":1} Hope that helps.`, `{"a":1}`},
		{"nested braces", `{"a":{"b":2}}`, `{"a":{"b":2}}`},
		{"no object", "nothing here", ""},
		{"unbalanced", "} {", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.input); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildPromptTruncatesContent(t *testing.T) {
	content := strings.Repeat("x", maxContentChars+50_000)
	prompt := BuildPrompt("Premier League", content)

	if len(prompt) >= len(content) {
		t.Errorf("prompt should truncate oversized content, len = %d", len(prompt))
	}
	if !strings.Contains(prompt, "Premier League") {
		t.Error("prompt should name the league")
	}
	if !strings.Contains(prompt, "typically 18-20 teams") {
		t.Error("prompt should carry the extraction instruction")
	}
	if !strings.Contains(prompt, `"standings"`) {
		t.Error("prompt should carry the schema description")
	}
}
