package advisor

import (
	"fmt"
	"strings"

	"github.com/lindenmoor/teahouse/backend/internal/model/catalog"
)

// DefaultSystemPrompt is used when no product context accompanies a turn.
const DefaultSystemPrompt = "You are a helpful tea expert assistant. Provide friendly, informative, and concise responses about tea."

// ProductSystemPrompt builds the instruction context for a turn that is
// anchored to a specific catalog product.
func ProductSystemPrompt(p catalog.Product) string {
	return fmt.Sprintf(`You are a helpful tea expert assistant specializing in %s.

Product Details:
- Name: %s
- Origin: %s
- Category: %s
- Tags: %s
- Brew Instructions: %s
- Description: %s

Provide friendly, informative, and concise responses about this specific tea. Answer questions about brewing, flavor profile, origin, and any other tea-related topics. Keep responses conversational and helpful.`,
		p.Name,
		p.Name,
		p.Origin,
		p.Category,
		strings.Join(p.Tags, ", "),
		p.Brew,
		p.Short,
	)
}
