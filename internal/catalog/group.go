package catalog

import "campusmarket/internal/core/models"

// OtherCategory is the bucket for products without a category.
const OtherCategory = "Other"

// Grouped is a category->products mapping that remembers first-seen category
// order, since a plain Go map would lose it.
type Grouped struct {
	Order  []string
	Groups map[string][]models.Product
}

// GroupByCategory buckets products by category in first-seen order. A product
// with an absent or empty category lands under "Other". Every product ends up
// in exactly one bucket.
func GroupByCategory(products []models.Product) Grouped {
	grouped := Grouped{Groups: make(map[string][]models.Product)}
	for _, p := range products {
		category := p.Category
		if category == "" {
			category = OtherCategory
		}
		if _, seen := grouped.Groups[category]; !seen {
			grouped.Order = append(grouped.Order, category)
		}
		grouped.Groups[category] = append(grouped.Groups[category], p)
	}
	return grouped
}

// Flatten walks the groups in order and concatenates their products.
func (g Grouped) Flatten() []models.Product {
	var out []models.Product
	for _, category := range g.Order {
		out = append(out, g.Groups[category]...)
	}
	return out
}
