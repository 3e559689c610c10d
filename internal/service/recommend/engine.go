// Package recommend maps a free-text tea preference to a small ranked set
// of products. The primary path asks the model for a structured pick; a
// deterministic keyword scorer takes over on any failure.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/lindenmoor/teahouse/backend/internal/llm"
	"github.com/lindenmoor/teahouse/backend/internal/model/catalog"
	"github.com/lindenmoor/teahouse/backend/internal/model/chat"
	"github.com/lindenmoor/teahouse/backend/pkg/llmerr"
)

// Recommendation is the output shape shared by both paths.
type Recommendation struct {
	ProductIDs       []string `json:"productIds"`
	SommelierComment string   `json:"sommelierComment"`
}

// Result wraps a recommendation with the path that produced it.
type Result struct {
	Recommendation
	UsedFallback bool `json:"usedFallback"`
}

// CompletionClient is the slice of the llm client the engine needs.
type CompletionClient interface {
	Complete(ctx context.Context, messages []chat.Message, opts llm.Options) (*llm.Completion, error)
}

// Engine orchestrates the primary and fallback recommendation paths.
type Engine struct {
	client CompletionClient
	pick   func(n int) int
}

// Option configures an Engine.
type Option func(*Engine)

// WithPicker injects the comment-template selector so tests can pin the
// otherwise random choice.
func WithPicker(pick func(n int) int) Option {
	return func(e *Engine) {
		if pick != nil {
			e.pick = pick
		}
	}
}

// NewEngine creates a recommendation engine backed by the given client.
func NewEngine(client CompletionClient, opts ...Option) *Engine {
	e := &Engine{
		client: client,
		pick:   rand.Intn,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend attempts the primary model-backed path and falls back to the
// deterministic scorer on any failure. It never returns an error.
func (e *Engine) Recommend(ctx context.Context, preference string, products []catalog.Product) Result {
	rec, err := e.recommendPrimary(ctx, preference, products)
	if err != nil {
		log.Printf("[recommend] primary path failed, using fallback: %v", err)
		return Result{Recommendation: e.Fallback(preference, products), UsedFallback: true}
	}
	return Result{Recommendation: rec}
}

const sommelierSystemPrompt = `You are an expert tea sommelier with deep knowledge of tea varieties, flavor profiles, and brewing traditions. Your role is to recommend teas based on customer preferences.

IMPORTANT GUIDELINES:
- Prioritize Oolong, Japanese Green, and Korean Green teas when they match the customer's preferences
- Provide warm, knowledgeable recommendations like a friendly expert
- Focus on flavor profiles, origins, and brewing characteristics
- Keep explanations concise but informative

You MUST respond in valid JSON format with this exact structure:
{
  "productIds": ["id1", "id2", "id3"],
  "sommelierComment": "Your expert recommendation text here..."
}

The sommelierComment should be 2-3 sentences explaining why these teas match what the customer is looking for. Be warm and conversational.`

// catalogEntry is the slimmed product shape sent to the model.
type catalogEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Origin      string   `json:"origin"`
	Price       float64  `json:"price"`
}

func (e *Engine) recommendPrimary(ctx context.Context, preference string, products []catalog.Product) (Recommendation, error) {
	entries := make([]catalogEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, catalogEntry{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Tags:        p.Tags,
			Description: p.Short,
			Origin:      p.Origin,
			Price:       p.Price,
		})
	}

	catalogJSON, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return Recommendation{}, llmerr.NewParse("marshal catalog for prompt", err)
	}

	userPrompt := fmt.Sprintf(`Customer preference: %q

Available teas:
%s

Based on the customer's preference, recommend 3-5 teas that best match what they're looking for. Return your response as JSON with productIds (array of tea IDs) and sommelierComment (your expert recommendation).`, preference, catalogJSON)

	completion, err := e.client.Complete(ctx, []chat.Message{
		chat.System(sommelierSystemPrompt),
		chat.User(userPrompt),
	}, llm.Options{
		Temperature:  0.7,
		MaxTokens:    512,
		JSONResponse: true,
	})
	if err != nil {
		return Recommendation{}, err
	}

	return parseRecommendation(completion.Content)
}

// parseRecommendation decodes the model output against the structured
// schema. Returned ids are not checked against the catalog here; unknown
// ids are filtered when the caller resolves them.
func parseRecommendation(content string) (Recommendation, error) {
	var rec Recommendation
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &rec); err != nil {
		return Recommendation{}, llmerr.NewParse("recommendation response is not valid JSON", err)
	}
	if rec.ProductIDs == nil {
		rec.ProductIDs = []string{}
	}
	if rec.SommelierComment == "" {
		rec.SommelierComment = "Here are some teas you might enjoy."
	}
	return rec, nil
}
