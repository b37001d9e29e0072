// Package openai implements ports.Assistant over an OpenAI-compatible chat completions API.
//
// The default base URL is Gemini's OpenAI-compatible endpoint, so a Gemini API key works as is.
package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aretw0/selim/pkg/domain"
	goopenai "github.com/sashabaranov/go-openai"
)

// GeminiBaseURL is the OpenAI-compatible endpoint of the Gemini API.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// Client is a ports.Assistant backed by go-openai.
type Client struct {
	api *goopenai.Client
}

type config struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*config)

// WithBaseURL points the client at another OpenAI-compatible server.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

// New creates a Client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	cfg := config{baseURL: GeminiBaseURL}
	for _, opt := range opts {
		opt(&cfg)
	}

	oc := goopenai.DefaultConfig(apiKey)
	oc.BaseURL = cfg.baseURL
	if cfg.httpClient != nil {
		oc.HTTPClient = cfg.httpClient
	}
	return &Client{api: goopenai.NewClientWithConfig(oc)}
}

// Complete sends the conversation history plus the new user text and returns the first choice.
func (c *Client) Complete(ctx context.Context, req domain.RemoteRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    convertMessages(req),
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func convertMessages(req domain.RemoteRequest) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(req.History)+2)
	if req.SystemInstruction != "" {
		out = append(out, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	for _, m := range req.History {
		role := goopenai.ChatMessageRoleUser
		if m.Role == domain.RoleAssistant {
			role = goopenai.ChatMessageRoleAssistant
		}
		out = append(out, goopenai.ChatCompletionMessage{Role: role, Content: m.Text})
	}
	return append(out, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: req.Text,
	})
}
