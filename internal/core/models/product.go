package models

import "strings"

// Status отражает жизненный цикл объявления. Переходы монотонны:
// Available -> Pending/Sold, обратных переходов нет.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusPending   Status = "Pending"
	StatusSold      Status = "Sold"
)

// Product представляет товар на площадке. Владелец данных — бэкенд; клиент
// держит копию только для чтения, кроме локальной правки статуса после
// подтверждённой покупки.
type Product struct {
	ID            string  `json:"_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category,omitempty"`
	Image         string  `json:"image"`
	ContactNumber string  `json:"contactNumber"`
	Seller        string  `json:"seller"`
	Status        Status  `json:"status"`
}

// CartEntry is a projection of a Product taken at add-time: later changes to
// the source Product do not propagate into the cart.
type CartEntry struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl"`
}

// EntryOf snapshots the fields the cart keeps.
func EntryOf(p Product) CartEntry {
	return CartEntry{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  p.Image,
	}
}

// MatchesSearch reports whether the product matches a case-insensitive
// substring search on name or description. An empty term matches everything.
func (p Product) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}
