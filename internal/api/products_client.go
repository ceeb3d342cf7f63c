package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"campusmarket/internal/core/models"
)

// ProductsClient talks to /api/products.
type ProductsClient struct {
	*Client
}

func NewProductsClient(base *Client) *ProductsClient {
	return &ProductsClient{Client: base}
}

// List fetches the product list, optionally scoped to one seller.
func (c *ProductsClient) List(ctx context.Context, sellerID string) ([]models.Product, error) {
	endpoint := "/api/products"
	if sellerID != "" {
		endpoint = fmt.Sprintf("%s?sellerId=%s", endpoint, url.QueryEscape(sellerID))
	}

	var products []models.Product
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

type createProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category,omitempty"`
	Image         string  `json:"image"`
	ContactNumber string  `json:"contactNumber"`
	Seller        string  `json:"seller,omitempty"`
}

// Create submits a new listing. By this point the image is always a URL: a
// draft that started with a local file has already exchanged it through
// /api/upload.
func (c *ProductsClient) Create(ctx context.Context, draft models.SellDraft, sellerID string) (models.Product, error) {
	req := createProductRequest{
		Name:          draft.ProductName,
		Description:   draft.Description,
		Price:         draft.Price,
		Category:      draft.Category,
		Image:         draft.ImageURL,
		ContactNumber: draft.ContactNumber,
		Seller:        sellerID,
	}

	var created models.Product
	if err := c.doJSON(ctx, http.MethodPost, "/api/products", req, &created); err != nil {
		return models.Product{}, err
	}
	return created, nil
}

// MarkSold flips the product's status on the backend. Some backend variants
// answer with the updated product, some with an empty body; the returned
// pointer is nil in the latter case.
func (c *ProductsClient) MarkSold(ctx context.Context, productID string) (*models.Product, error) {
	endpoint := fmt.Sprintf("/api/products/%s/sell", url.PathEscape(productID))

	var updated models.Product
	if err := c.doJSON(ctx, http.MethodPut, endpoint, nil, &updated); err != nil {
		return nil, err
	}
	if updated.ID == "" {
		return nil, nil
	}
	return &updated, nil
}
