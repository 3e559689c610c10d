package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/products.json
var productsJSON []byte

// Load decodes the embedded catalog and validates every product against the
// declared schema. Called once at startup; any structural violation is fatal.
func Load() ([]Product, error) {
	return parse(productsJSON)
}

func parse(raw []byte) ([]Product, error) {
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog entry: %w", err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return products, nil
}
