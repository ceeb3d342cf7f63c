package catalog

import (
	"context"
	"io"
	"sync"

	"campusmarket/internal/core/models"
	"campusmarket/pkg/logger"
)

// ProductsLister is the slice of the products API the catalog needs.
type ProductsLister interface {
	List(ctx context.Context, sellerID string) ([]models.Product, error)
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

// Catalog держит список товаров продавца для секции Buy: одна загрузка на
// каждое значение scope, фильтрация и группировка поверх загруженного.
type Catalog struct {
	mu       sync.Mutex
	products ProductsLister
	log      logger.Logger

	state      State
	scope      string
	generation int
	items      []models.Product
	errMessage string
}

func New(products ProductsLister, writer io.Writer) *Catalog {
	return &Catalog{
		products: products,
		log:      logger.NewLogger(writer, "[catalog]"),
	}
}

// Load fetches the product list for the given seller scope. Calling it again
// with the scope already loaded is a no-op; a new scope triggers exactly one
// new fetch. Completions apply by generation, so a slow earlier load can
// never clobber a later one's result.
func (c *Catalog) Load(ctx context.Context, sellerScope string) error {
	c.mu.Lock()
	if c.state != StateIdle && c.scope == sellerScope && c.state != StateFailed {
		c.mu.Unlock()
		return nil
	}
	c.scope = sellerScope
	c.generation++
	gen := c.generation
	c.state = StateLoading
	c.items = nil
	c.errMessage = ""
	c.mu.Unlock()

	items, err := c.products.List(ctx, sellerScope)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// запоздалый ответ от предыдущего scope — игнорируем
		return nil
	}
	if err != nil {
		c.log.Log("load failed: %v", err)
		c.state = StateFailed
		c.items = nil
		c.errMessage = err.Error()
		return err
	}
	c.state = StateReady
	c.items = items
	return nil
}

func (c *Catalog) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ErrorMessage returns the surfaced failure text, empty unless StateFailed.
func (c *Catalog) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMessage
}

// Products returns a copy of the loaded list. Empty while loading or failed:
// stale data is never rendered around an error.
func (c *Catalog) Products() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady {
		return nil
	}
	out := make([]models.Product, len(c.items))
	copy(out, c.items)
	return out
}

// Filter returns the subsequence matching the term case-insensitively on
// name or description. An empty term returns the full list.
func (c *Catalog) Filter(term string) []models.Product {
	var out []models.Product
	for _, p := range c.Products() {
		if p.MatchesSearch(term) {
			out = append(out, p)
		}
	}
	return out
}
