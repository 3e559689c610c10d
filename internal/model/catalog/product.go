package catalog

import "fmt"

// Product captures one tea in the storefront catalog. The catalog is static
// and consumed read-only.
type Product struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Price      float64  `json:"price"`
	PriceRange string   `json:"priceRange,omitempty"`
	Short      string   `json:"short"`
	Long       string   `json:"long"`
	Origin     string   `json:"origin"`
	Brew       string   `json:"brew"`
	Image      string   `json:"image"`
	Tags       []string `json:"tags"`
}

// Validate checks the structural requirements the rest of the service
// relies on. The catalog is decoded from untyped JSON once at startup, so a
// violation here aborts the boot instead of surfacing downstream.
func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product is missing an id")
	}
	if p.Name == "" {
		return fmt.Errorf("product %q is missing a name", p.ID)
	}
	if p.Category == "" {
		return fmt.Errorf("product %q is missing a category", p.ID)
	}
	if p.Price <= 0 {
		return fmt.Errorf("product %q has a non-positive price", p.ID)
	}
	if p.Short == "" {
		return fmt.Errorf("product %q is missing a short description", p.ID)
	}
	if p.Origin == "" {
		return fmt.Errorf("product %q is missing an origin", p.ID)
	}
	if p.Brew == "" {
		return fmt.Errorf("product %q is missing brew instructions", p.ID)
	}
	if len(p.Tags) == 0 {
		return fmt.Errorf("product %q has no tags", p.ID)
	}
	for _, tag := range p.Tags {
		if tag == "" {
			return fmt.Errorf("product %q has an empty tag", p.ID)
		}
	}
	return nil
}
