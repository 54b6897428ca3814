package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/joao-fontenele/storefront/internal/domain"
)

type Products struct {
	client *Client
}

func NewProducts(client *Client) *Products {
	return &Products{client: client}
}

func (p *Products) List(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	params := url.Values{}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.ActiveOnly {
		params.Set("isActive", "true")
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	path := "/product"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	products := []domain.Product{}
	if err := p.client.getJSON(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (p *Products) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := p.client.getJSON(ctx, fmt.Sprintf("/product/%d", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Create sends the product form. image is optional.
func (p *Products) Create(ctx context.Context, in domain.ProductInput, image *File) (*domain.Product, error) {
	var product domain.Product
	if err := p.client.sendMultipart(ctx, http.MethodPost, "/product", productFields(in), "image", image, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *Products) Update(ctx context.Context, id int64, in domain.ProductInput, image *File) (*domain.Product, error) {
	var product domain.Product
	path := fmt.Sprintf("/product/%d", id)
	if err := p.client.sendMultipart(ctx, http.MethodPut, path, productFields(in), "image", image, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (p *Products) Delete(ctx context.Context, id int64) error {
	return p.client.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/product/%d", id), nil, nil)
}

func (p *Products) UploadImage(ctx context.Context, id int64, image File) (*domain.Product, error) {
	var product domain.Product
	path := fmt.Sprintf("/product/%d/image", id)
	if err := p.client.sendMultipart(ctx, http.MethodPost, path, nil, "image", &image, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func productFields(in domain.ProductInput) map[string]string {
	fields := map[string]string{
		"name":        in.Name,
		"description": in.Description,
		"price":       in.Price.String(),
		"stock":       strconv.Itoa(in.Stock),
		"isActive":    strconv.FormatBool(in.IsActive),
	}
	if in.Category != "" {
		fields["category"] = in.Category
	}
	return fields
}
