package catalog

// SimilarityMapping lists related products for one catalog entry, split into
// close matches, a premium step-up and a deliberate contrast, each with a
// display weight.
type SimilarityMapping struct {
	Similar  []string          `json:"similar"`
	Premium  []string          `json:"premium"`
	Contrast []string          `json:"contrast"`
	Weights  SimilarityWeights `json:"weights"`
}

// SimilarityWeights describes how strongly each bucket should be surfaced.
type SimilarityWeights struct {
	Similar  float64 `json:"similar"`
	Premium  float64 `json:"premium"`
	Contrast float64 `json:"contrast"`
}

// similarityIndex is precomputed and static, keyed by product id.
var similarityIndex = map[string]SimilarityMapping{
	"eastern-beauty-oolong": {
		Similar:  []string{"high-mountain-jade-oolong", "wuyi-oolong"},
		Premium:  []string{"high-mountain-jade-oolong"},
		Contrast: []string{"sencha"},
		Weights:  SimilarityWeights{Similar: 0.6, Premium: 0.25, Contrast: 0.15},
	},
	"wuyi-oolong": {
		Similar:  []string{"eastern-beauty-oolong", "high-mountain-jade-oolong"},
		Premium:  []string{"eastern-beauty-oolong"},
		Contrast: []string{"dragonwell"},
		Weights:  SimilarityWeights{Similar: 0.6, Premium: 0.25, Contrast: 0.15},
	},
	"high-mountain-jade-oolong": {
		Similar:  []string{"eastern-beauty-oolong", "wuyi-oolong"},
		Premium:  []string{"eastern-beauty-oolong"},
		Contrast: []string{"jasmine-pearl"},
		Weights:  SimilarityWeights{Similar: 0.6, Premium: 0.25, Contrast: 0.15},
	},
	"sencha": {
		Similar:  []string{"genmaicha", "dragonwell"},
		Premium:  []string{"korean-woojeon-demo", "dragonwell"},
		Contrast: []string{"wuyi-oolong"},
		Weights:  SimilarityWeights{Similar: 0.6, Premium: 0.3, Contrast: 0.1},
	},
	"genmaicha": {
		Similar:  []string{"sencha", "jasmine-pearl"},
		Premium:  []string{"sencha"},
		Contrast: []string{"eastern-beauty-oolong"},
		Weights:  SimilarityWeights{Similar: 0.6, Premium: 0.25, Contrast: 0.15},
	},
	"korean-woojeon-demo": {
		Similar:  []string{"sencha", "genmaicha"},
		Premium:  []string{"high-mountain-jade-oolong"},
		Contrast: []string{"jasmine-silver-needle"},
		Weights:  SimilarityWeights{Similar: 0.7, Premium: 0.2, Contrast: 0.1},
	},
	"dragonwell": {
		Similar:  []string{"sencha", "genmaicha"},
		Premium:  []string{"korean-woojeon-demo"},
		Contrast: []string{"wuyi-oolong"},
		Weights:  SimilarityWeights{Similar: 0.6, Premium: 0.25, Contrast: 0.15},
	},
	"jasmine-pearl": {
		Similar:  []string{"jasmine-silver-needle", "genmaicha"},
		Premium:  []string{"jasmine-silver-needle"},
		Contrast: []string{"wuyi-oolong"},
		Weights:  SimilarityWeights{Similar: 0.6, Premium: 0.25, Contrast: 0.15},
	},
	"jasmine-silver-needle": {
		Similar:  []string{"jasmine-pearl", "high-mountain-jade-oolong"},
		Premium:  []string{"high-mountain-jade-oolong"},
		Contrast: []string{"wuyi-oolong"},
		Weights:  SimilarityWeights{Similar: 0.6, Premium: 0.25, Contrast: 0.15},
	},
}

// SimilarProducts returns the similarity mapping for a product id, or false
// when the product has no precomputed relations.
func SimilarProducts(id string) (SimilarityMapping, bool) {
	m, ok := similarityIndex[id]
	return m, ok
}
