// Package inference drives a local Ollama-style chat endpoint and extracts
// a single structured answer from output that is only loosely guaranteed to
// be well-formed.
package inference

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

//go:embed prompt.txt
var basePrompt string

const (
	// DefaultBaseURL is the default Ollama endpoint.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModel is the model queried when none is configured.
	DefaultModel = "gemma3:4b"
)

// Client talks to the chat endpoint of a local text-generation service.
type Client struct {
	baseURL     string
	model       string
	userContext map[string]string
	client      *http.Client
}

// NewClient creates a client for the given base URL and model, falling
// back to the defaults when either is empty. No request timeout is imposed
// beyond the transport defaults; callers bound requests through the
// context.
func NewClient(baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		userContext: make(map[string]string),
		client:      &http.Client{},
	}
}

// SetUserContext sets extra context lines merged into (and overriding) the
// automatically computed system context.
func (c *Client) SetUserContext(context map[string]string) {
	c.userContext = context
}

// Query sends the task and selected text to the model and returns the
// normalized answers. Cancelling ctx aborts the outstanding request.
func (c *Client) Query(ctx context.Context, task, selected string) ([]string, error) {
	messages, err := c.buildMessages(task, selected)
	if err != nil {
		return nil, err
	}

	content, err := c.postChat(ctx, messages)
	if err != nil {
		return nil, err
	}

	object, ok := extractObject(content)
	if !ok {
		return nil, &ProtocolError{Message: "no response could be generated"}
	}

	answers := normalizeAnswers(object["answers"])

	if status, _ := object["status"].(string); status == "error" {
		message, _ := object["error_message"].(string)
		if message == "" {
			message = "unknown error"
		}
		return nil, &DomainError{Message: message}
	}

	// Only an absent answers field is a protocol violation; a present but
	// empty list flows through and surfaces as a no-result task.
	if answers == nil {
		return nil, &ProtocolError{Message: "no response could be generated"}
	}

	return answers, nil
}

// chatMessage is one message in the chat request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the request body for POST /api/chat.
type chatRequest struct {
	Model    string         `json:"model"`
	Format   map[string]any `json:"format"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
}

// chatResponse is the subset of the response body the client reads.
type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// postChat sends the chat request and returns the raw message content.
func (c *Client) postChat(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Format:   responseFormat(),
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := c.baseURL + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// Cancellation belongs to the caller; everything else is a
		// transport failure worth a user-facing message.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &ProtocolError{Message: fmt.Sprintf(
			"cannot connect to AI service at '%s', please check if the service is running", c.baseURL)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", &ProtocolError{Message: fmt.Sprintf(
			"model or API endpoint not found: '%s' at '%s'", c.model, c.baseURL)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ProtocolError{Message: fmt.Sprintf(
			"inference service returned status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProtocolError{Message: "failed to read inference response"}
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", &ProtocolError{Message: "invalid response from model"}
	}

	return parsed.Message.Content, nil
}

// buildMessages constructs the system and user messages for the model.
func (c *Client) buildMessages(task, selected string) ([]chatMessage, error) {
	payload, err := json.Marshal(map[string]string{
		"task":          task,
		"selected_text": selected,
	})
	if err != nil {
		return nil, err
	}

	return []chatMessage{
		{Role: "system", Content: c.buildSystemPrompt()},
		{Role: "user", Content: string(payload)},
	}, nil
}

// buildSystemPrompt appends the formatted context lines to the base prompt.
// Caller-supplied context entries override the computed ones.
func (c *Client) buildSystemPrompt() string {
	context := systemContext()
	for key, value := range c.userContext {
		context[key] = value
	}

	return basePrompt + formatContext(context)
}

// formatContext renders the context map one "* key: value" line per entry,
// omitting empty values, in stable key order.
func formatContext(context map[string]string) string {
	keys := make([]string, 0, len(context))
	for key, value := range context {
		if value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&sb, "* %s: %s\n", key, context[key])
	}
	return sb.String()
}

// systemContext returns the current date, time and locale information that
// grounds the model's answers.
func systemContext() map[string]string {
	now := time.Now()
	zone, _ := now.Zone()

	return map[string]string{
		"User language":        userLanguage(),
		"Current date":         now.Format("2006-01-02"),
		"Current time":         now.Format("15:04"),
		"Current day name":     now.Weekday().String(),
		"Current day number":   fmt.Sprint(now.Day()),
		"Current month name":   now.Month().String(),
		"Current month number": fmt.Sprint(int(now.Month())),
		"Current year":         fmt.Sprint(now.Year()),
		"Current timezone":     zone,
	}
}

// userLanguage reads the locale from the environment ("en_US.UTF-8"
// becomes "en_US"). Empty when the environment does not say.
func userLanguage() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if value := os.Getenv(name); value != "" {
			if idx := strings.IndexByte(value, '.'); idx > 0 {
				value = value[:idx]
			}
			return value
		}
	}
	return ""
}

// responseFormat is the strict JSON schema declared to the model.
func responseFormat() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{
				"type": "string",
				"enum": []string{"success", "error"},
			},
			"answers": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
			},
			"error_message": map[string]any{"type": "string"},
		},
		"required": []string{"status", "answers", "error_message"},
	}
}

// normalizeAnswers coerces the model's answers field into a string slice:
// a bare string becomes a one-element slice, array elements are
// stringified, and anything else is wrapped whole.
func normalizeAnswers(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []any:
		answers := make([]string, len(v))
		for i, item := range v {
			if s, ok := item.(string); ok {
				answers[i] = s
			} else {
				answers[i] = fmt.Sprint(item)
			}
		}
		return answers
	default:
		return []string{fmt.Sprint(v)}
	}
}
