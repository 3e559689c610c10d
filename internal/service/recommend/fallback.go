package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lindenmoor/teahouse/backend/internal/model/catalog"
)

// priorityCategories receive a base boost and seed the padding pool.
var priorityCategories = []string{"oolong", "japanese green", "korean green"}

// keywordMap relates preference vocabulary to tea attributes. A matched
// keyword adds +2 per related term found in a product's tags, category or
// name.
var keywordMap = map[string][]string{
	"strong":     {"roasted", "oolong", "wuyi"},
	"sweet":      {"floral", "honeyed", "jasmine"},
	"calming":    {"jasmine", "floral", "white"},
	"energizing": {"green", "japanese", "sencha"},
	"focus":      {"oolong", "mountain", "jade"},
	"floral":     {"jasmine", "floral", "scented"},
	"earthy":     {"oolong", "roasted", "mineral"},
	"nutty":      {"genmaicha", "toasty", "roasted"},
	"vegetal":    {"green", "sencha", "umami"},
	"smooth":     {"white", "silver", "delicate"},
	"light":      {"white", "green", "jasmine"},
	"bold":       {"oolong", "roasted", "wuyi"},
	"morning":    {"sencha", "green", "energizing"},
	"afternoon":  {"oolong", "floral", "jasmine"},
	"evening":    {"jasmine", "white", "calming"},
	"relaxing":   {"jasmine", "white", "floral"},
}

// scoredCandidate exists only during ranking.
type scoredCandidate struct {
	product catalog.Product
	score   int
}

// Fallback is the deterministic rule-based recommender. It performs no
// external calls and always returns a Recommendation; the product ordering
// is stable for a fixed input, only the comment wording varies.
func (e *Engine) Fallback(preference string, products []catalog.Product) Recommendation {
	pref := strings.ToLower(preference)

	scored := make([]scoredCandidate, 0, len(products))
	for _, p := range products {
		scored = append(scored, scoredCandidate{product: p, score: scoreProduct(pref, p)})
	}

	// Stable sort keeps catalog order among equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	limit := 4
	if len(scored) < limit {
		limit = len(scored)
	}
	top := make([]scoredCandidate, 0, limit)
	for _, c := range scored[:limit] {
		if c.score > 0 {
			top = append(top, c)
		}
	}

	// Pad weak matches with priority-category teas until three are reached
	// or the pool is exhausted.
	if len(top) < 3 {
		for _, p := range products {
			if len(top) >= 3 {
				break
			}
			if !inPriorityCategory(p) || containsProduct(top, p.ID) {
				continue
			}
			top = append(top, scoredCandidate{product: p, score: 1})
		}
	}

	if len(top) > 4 {
		top = top[:4]
	}

	picked := make([]catalog.Product, 0, len(top))
	ids := make([]string, 0, len(top))
	for _, c := range top {
		picked = append(picked, c.product)
		ids = append(ids, c.product.ID)
	}

	return Recommendation{
		ProductIDs:       ids,
		SommelierComment: e.fallbackComment(preference, picked),
	}
}

func scoreProduct(pref string, p catalog.Product) int {
	score := 0

	if inPriorityCategory(p) {
		score += 2
	}

	for _, tag := range p.Tags {
		if strings.Contains(pref, strings.ToLower(tag)) {
			score += 3
		}
	}

	for _, word := range strings.Fields(strings.ToLower(p.Short)) {
		if len(word) > 3 && strings.Contains(pref, word) {
			score++
		}
	}

	category := strings.ToLower(p.Category)
	name := strings.ToLower(p.Name)
	for keyword, related := range keywordMap {
		if !strings.Contains(pref, keyword) {
			continue
		}
		for _, term := range related {
			if tagContains(p.Tags, term) || strings.Contains(category, term) || strings.Contains(name, term) {
				score += 2
			}
		}
	}

	return score
}

func inPriorityCategory(p catalog.Product) bool {
	category := strings.ToLower(p.Category)
	for _, priority := range priorityCategories {
		if strings.Contains(category, priority) {
			return true
		}
	}
	return false
}

func tagContains(tags []string, term string) bool {
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

func containsProduct(cands []scoredCandidate, id string) bool {
	for _, c := range cands {
		if c.product.ID == id {
			return true
		}
	}
	return false
}

const commentClosing = " Each offers unique characteristics worth exploring."

// fallbackComment synthesizes a short sommelier note. The template choice
// is drawn through the injected picker for variety.
func (e *Engine) fallbackComment(preference string, products []catalog.Product) string {
	if len(products) == 0 {
		return "Explore our curated selection of premium teas."
	}

	seen := make(map[string]struct{})
	var categories []string
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	if len(categories) > 2 {
		categories = categories[:2]
	}
	categoryText := strings.Join(categories, " and ")

	phrases := []string{
		fmt.Sprintf("Based on your preference for %q, I'd recommend exploring our %s selections.", preference, categoryText),
		fmt.Sprintf("For what you're looking for, these %s teas offer wonderful flavor profiles that should delight your palate.", categoryText),
		fmt.Sprintf("These carefully selected teas from our %s collection align beautifully with your taste preferences.", categoryText),
	}

	return phrases[e.pick(len(phrases))] + commentClosing
}
