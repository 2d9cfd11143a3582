// Package finance holds the pure transaction pipeline: category registry,
// month windows, attribute filters and aggregation. Nothing in this package
// touches the database or the network.
package finance

import (
	"fmt"
	"sort"

	"github.com/username/bitbudget/backend/src/model"
)

// Category describes how a category key renders and whether entries under it
// count as spending or income.
type Category struct {
	Title     string
	Color     string
	IsExpense bool
}

// Registry maps category keys to their attributes.
type Registry map[string]Category

// Lookup resolves a category key, failing on keys the registry does not know.
func (r Registry) Lookup(key string) (Category, error) {
	c, ok := r[key]
	if !ok {
		return Category{}, fmt.Errorf("unknown category %q", key)
	}
	return c, nil
}

// Keys returns the registry's keys in ascending order.
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultRegistry returns the starter registry every new user begins with.
func DefaultRegistry() Registry {
	registry := make(Registry, len(model.DefaultCategories))
	for _, c := range model.DefaultCategories {
		registry[c.Key] = Category{Title: c.Title, Color: c.Color, IsExpense: c.IsExpense}
	}
	return registry
}

// NewRegistryFromCategories builds a registry from a user's stored categories.
func NewRegistryFromCategories(categories []model.Category) Registry {
	registry := make(Registry, len(categories))
	for _, c := range categories {
		registry[c.Key] = Category{Title: c.Title, Color: c.Color, IsExpense: c.IsExpense}
	}
	return registry
}
