package listing

import "campusmarket/internal/core/models"

// Reconcile returns a copy of list with patch applied to the product whose
// id matches, all other entries untouched. No match means the list comes
// back unchanged. This is the keyed-update primitive the purchase flow uses
// to fold a confirmed sale into the listings.
func Reconcile(list []models.Product, id string, patch func(models.Product) models.Product) []models.Product {
	out := make([]models.Product, len(list))
	for i, p := range list {
		if p.ID == id {
			out[i] = patch(p)
		} else {
			out[i] = p
		}
	}
	return out
}

// MarkSold is the patch a confirmed purchase applies: only the status field
// changes.
func MarkSold(p models.Product) models.Product {
	p.Status = models.StatusSold
	return p
}
