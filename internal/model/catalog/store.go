package catalog

import "strings"

// Store exposes catalog retrieval for services and HTTP handlers.
type Store interface {
	List() []Product
	ByID(id string) (Product, bool)
	ByCategory(category string) []Product
	ByTags(tags []string) []Product
}

// MemoryStore implements Store with an in-memory slice. The catalog is
// small and immutable, so no locking is needed.
type MemoryStore struct {
	items []Product
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied products.
func NewMemoryStore(items []Product) *MemoryStore {
	return &MemoryStore{items: append([]Product(nil), items...)}
}

// List returns a copy of the full catalog in its original order.
func (s *MemoryStore) List() []Product {
	return append([]Product(nil), s.items...)
}

// ByID looks up a product by identifier.
func (s *MemoryStore) ByID(id string) (Product, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Product{}, false
}

// ByCategory returns products whose category contains the given fragment,
// case-insensitively.
func (s *MemoryStore) ByCategory(category string) []Product {
	needle := strings.ToLower(category)
	var out []Product
	for _, item := range s.items {
		if strings.Contains(strings.ToLower(item.Category), needle) {
			out = append(out, item)
		}
	}
	return out
}

// ByTags returns products carrying at least one of the given tags.
func (s *MemoryStore) ByTags(tags []string) []Product {
	var out []Product
	for _, item := range s.items {
		if hasAnyTag(item, tags) {
			out = append(out, item)
		}
	}
	return out
}

func hasAnyTag(p Product, tags []string) bool {
	for _, want := range tags {
		for _, have := range p.Tags {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}
