// Package advisor orchestrates one chat turn of the tea advisor: memory in,
// completion call out, exchange persisted.
package advisor

import (
	"context"
	"log"

	"github.com/lindenmoor/teahouse/backend/internal/llm"
	"github.com/lindenmoor/teahouse/backend/internal/model/chat"
	"github.com/lindenmoor/teahouse/backend/internal/service/memory"
)

const (
	// DefaultTemperature for advisor turns.
	DefaultTemperature = 0.7

	// DefaultMaxTokens caps the advisor's reply length.
	DefaultMaxTokens = 1024
)

// CompletionClient is the slice of the llm client the advisor needs.
type CompletionClient interface {
	Complete(ctx context.Context, messages []chat.Message, opts llm.Options) (*llm.Completion, error)
	CompleteStream(ctx context.Context, messages []chat.Message, opts llm.Options, onChunk func(string)) (*llm.Completion, error)
}

// Service ties the memory store and the completion client together per turn.
type Service struct {
	store       *memory.Store
	client      CompletionClient
	temperature float32
	maxTokens   int
}

// NewService creates the advisor orchestrator. maxTokens <= 0 selects the
// default.
func NewService(store *memory.Store, client CompletionClient, maxTokens int) *Service {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Service{
		store:       store,
		client:      client,
		temperature: DefaultTemperature,
		maxTokens:   maxTokens,
	}
}

// Respond handles one user chat turn. The user message is persisted before
// the upstream call so it survives a downstream failure; the assistant
// reply is persisted only on success. Failures propagate to the caller,
// which owns the user-visible fallback text.
func (s *Service) Respond(ctx context.Context, sessionID, userMessage, systemPrompt string) (*llm.Completion, error) {
	return s.respond(ctx, sessionID, userMessage, systemPrompt, nil)
}

// RespondStream behaves like Respond but forwards incremental reply chunks
// to onChunk as they arrive.
func (s *Service) RespondStream(ctx context.Context, sessionID, userMessage, systemPrompt string, onChunk func(string)) (*llm.Completion, error) {
	return s.respond(ctx, sessionID, userMessage, systemPrompt, onChunk)
}

func (s *Service) respond(ctx context.Context, sessionID, userMessage, systemPrompt string, onChunk func(string)) (*llm.Completion, error) {
	outgoing := make([]chat.Message, 0, 8)

	// Inject the instruction context only when the session has none yet.
	// It is carried on the outgoing sequence, not persisted; a separately
	// initialized system message is reused from history instead.
	if systemPrompt != "" && !s.store.HasSystemMessage(sessionID) {
		outgoing = append(outgoing, chat.System(systemPrompt))
	}

	outgoing = append(outgoing, s.store.History(sessionID)...)
	outgoing = append(outgoing, chat.User(userMessage))

	s.store.Append(sessionID, chat.User(userMessage))

	opts := llm.Options{
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		Stream:      onChunk != nil,
	}
	completion, err := s.client.CompleteStream(ctx, outgoing, opts, onChunk)
	if err != nil {
		log.Printf("[advisor] completion failed for session=%s: %v", sessionID, err)
		return nil, err
	}

	s.store.Append(sessionID, chat.Assistant(completion.Content))
	log.Printf("[advisor] generated reply for session=%s, length=%d", sessionID, len(completion.Content))
	return completion, nil
}
