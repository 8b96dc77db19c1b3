package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// maxResponseBytes caps how much of a backend response is read
	maxResponseBytes = 1 << 20

	// previewBytes caps a response body quoted in an error
	previewBytes = 200

	defaultGatewayTimeout = 30 * time.Second
)

// AdviceGateway performs the outbound chat call to the AI advice backend
type AdviceGateway struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	client   *http.Client
	logger   *zap.Logger
}

// AdviceGatewayConfig holds the connection parameters of the advice backend
type AdviceGatewayConfig struct {
	// BaseURL is the backend root, e.g. https://ai.example.com
	BaseURL string
	// BotID selects the assistant
	BotID string
	// APIKey is the bearer credential; an empty key fails every request as unauthorized
	APIKey string
	// Timeout bounds one call (defaults to 30s)
	Timeout time.Duration
	// HTTPClient overrides the default client
	HTTPClient *http.Client
}

// ChatMessage is one turn of the conversation sent to or returned by the backend
type ChatMessage struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
}

// ChatRequest is the request body of the chat endpoint
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse is the response body of the chat endpoint.
// Messages is the documented shape; Choices is accepted from completion-style backends.
type ChatResponse struct {
	Messages []ChatMessage `json:"messages"`
	Choices  []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices,omitempty"`
}

// NewAdviceGateway creates a new gateway for the configured backend
func NewAdviceGateway(cfg *AdviceGatewayConfig, logger *zap.Logger) (*AdviceGateway, error) {
	if cfg == nil {
		return nil, fmt.Errorf("advice gateway config is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("advice backend base URL is required")
	}
	if cfg.BotID == "" {
		return nil, fmt.Errorf("advice bot ID is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	endpoint := fmt.Sprintf("%s/api/v1/bot/%s/chat",
		strings.TrimRight(cfg.BaseURL, "/"),
		url.PathEscape(cfg.BotID),
	)

	return &AdviceGateway{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		timeout:  timeout,
		client:   client,
		logger:   logger,
	}, nil
}

// Endpoint returns the chat URL the gateway posts to
func (g *AdviceGateway) Endpoint() string {
	return g.endpoint
}

// RequestAdvice sends the system directive and user prompt as a two-message
// conversation and returns the assistant's reply.
// Every error returned is an *AdviceError.
func (g *AdviceGateway) RequestAdvice(ctx context.Context, systemDirective, userPrompt string) (string, error) {
	if g.apiKey == "" {
		return "", newAdviceError(CategoryUnauthorized, errors.New("advice API key not configured"))
	}

	body, err := json.Marshal(ChatRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: systemDirective},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", newAdviceError(CategoryInternal, fmt.Errorf("failed to marshal request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", newAdviceError(CategoryInternal, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return "", newAdviceError(classifyTransportError(err), fmt.Errorf("failed to call advice backend: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", newAdviceError(CategoryInternal, fmt.Errorf("failed to read response: %w", err))
	}

	g.logger.Debug("advice backend responded",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.Int("bytes", len(respBody)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newAdviceError(
			classifyStatusCode(resp.StatusCode),
			fmt.Errorf("advice backend error (status %d): %s", resp.StatusCode, preview(respBody)),
		)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", newAdviceError(CategoryInternal, fmt.Errorf("failed to decode response: %w (body: %s)", err, preview(respBody)))
	}

	reply, err := extractReply(&chatResp)
	if err != nil {
		return "", newAdviceError(CategoryInternal, fmt.Errorf("unexpected response shape: %w", err))
	}

	return reply, nil
}

// extractReply locates the assistant's reply in a chat response.
// An assistant-role message wins; otherwise the reply is expected at
// messages[1], after the acknowledged user turn at messages[0].
func extractReply(resp *ChatResponse) (string, error) {
	if len(resp.Messages) > 0 {
		for i := len(resp.Messages) - 1; i >= 0; i-- {
			if resp.Messages[i].Role == "assistant" {
				return nonEmpty(resp.Messages[i].Content)
			}
		}
		if len(resp.Messages) < 2 {
			return "", fmt.Errorf("expected at least 2 messages, got %d", len(resp.Messages))
		}
		return nonEmpty(resp.Messages[1].Content)
	}

	if len(resp.Choices) > 0 {
		return nonEmpty(resp.Choices[0].Message.Content)
	}

	return "", errors.New("response contains no messages")
}

func nonEmpty(content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", errors.New("reply content is empty")
	}
	return content, nil
}

// preview shortens a response body for log output without splitting a UTF-8 sequence
func preview(body []byte) string {
	if len(body) <= previewBytes {
		return string(body)
	}
	n := previewBytes
	for n > 0 && !utf8.RuneStart(body[n]) {
		n--
	}
	return string(body[:n]) + "..."
}
