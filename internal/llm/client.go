// Package llm adapts ordered chat messages into calls against the Groq
// chat-completion API (OpenAI-compatible wire format).
package llm

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/lindenmoor/teahouse/backend/internal/model/chat"
	"github.com/lindenmoor/teahouse/backend/pkg/llmerr"
)

const (
	// DefaultBaseURL is the Groq OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is a fast, capable production model on Groq.
	DefaultModel = "llama-3.3-70b-versatile"

	// DefaultTimeout bounds a single completion call.
	DefaultTimeout = 30 * time.Second
)

// Options are the generation parameters for one completion call.
type Options struct {
	Temperature float32
	MaxTokens   int
	Stream      bool
	// JSONResponse asks the model to emit a single JSON object.
	JSONResponse bool
}

// Usage is the token accounting reported by the upstream.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Completion is the adapted upstream response. Usage is nil when the
// upstream did not report it, which is always the case in streaming mode.
type Completion struct {
	Content string `json:"content"`
	Usage   *Usage `json:"usage,omitempty"`
}

// Config carries the credential and connection settings for the client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client wraps the Groq API. The zero credential case is legal; every call
// then fails with a configuration error before any network attempt.
type Client struct {
	cfg Config
	api *openai.Client
}

// NewClient builds a completion client from the given configuration,
// filling unset fields with defaults.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		cfg: cfg,
		api: openai.NewClientWithConfig(clientConfig),
	}
}

// Enabled reports whether a credential is configured.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

// Complete performs exactly one completion call. In streaming mode the
// chunk stream is consumed internally and the concatenated text returned.
func (c *Client) Complete(ctx context.Context, messages []chat.Message, opts Options) (*Completion, error) {
	return c.CompleteStream(ctx, messages, opts, nil)
}

// CompleteStream behaves like Complete but additionally forwards each
// incremental chunk to onChunk when streaming is enabled. onChunk may be
// nil to only buffer.
func (c *Client) CompleteStream(ctx context.Context, messages []chat.Message, opts Options, onChunk func(string)) (*Completion, error) {
	if !c.Enabled() {
		return nil, llmerr.NewConfiguration("GROQ_API_KEY is not set; add it to your .env file")
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    toWireMessages(messages),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if opts.JSONResponse {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	if opts.Stream {
		return c.completeStreaming(ctx, req, onChunk)
	}
	return c.completeOnce(ctx, req)
}

func (c *Client) completeOnce(ctx context.Context, req openai.ChatCompletionRequest) (*Completion, error) {
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, upstreamError("chat completion failed", err)
	}

	// Missing or empty content is tolerated as an empty string.
	var content string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	out := &Completion{Content: content}
	if resp.Usage.TotalTokens > 0 || resp.Usage.PromptTokens > 0 {
		out.Usage = &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return out, nil
}

func (c *Client) completeStreaming(ctx context.Context, req openai.ChatCompletionRequest, onChunk func(string)) (*Completion, error) {
	req.Stream = true

	stream, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, upstreamError("chat completion stream failed", err)
	}
	defer func() { _ = stream.Close() }()

	var sb strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, upstreamError("chat completion stream interrupted", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		sb.WriteString(delta)
		if onChunk != nil {
			onChunk(delta)
		}
	}

	// Usage is not reported mid-stream.
	return &Completion{Content: sb.String()}, nil
}

func toWireMessages(messages []chat.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}

// upstreamError maps an API failure into the taxonomy, preferring the
// upstream's own message when one is available.
func upstreamError(msg string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		log.Printf("[llm] upstream error: status=%d type=%s", apiErr.HTTPStatusCode, apiErr.Type)
		return llmerr.NewUpstream(apiErr.Message, err)
	}
	return llmerr.NewUpstream(msg, err)
}
