package fakeapi

import (
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/storefront/internal/domain"
)

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	products := h.backend.Products(domain.ProductQuery{
		Search:     q.Get("search"),
		Category:   q.Get("category"),
		ActiveOnly: q.Get("isActive") == "true",
		Page:       page,
		Limit:      limit,
	})

	h.logger.Info("products listed", "count", len(products))
	h.writeJSON(w, http.StatusOK, map[string]any{"data": products})
}

func (h *Handler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.backend.Product(id)
	if err != nil {
		h.fail(w, r, "get product", err)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}

// productForm reads the multipart product form. The image part is optional.
func (h *Handler) productForm(r *http.Request) (domain.ProductInput, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return domain.ProductInput{}, "", &ValidationError{Problems: []string{"expected a multipart product form"}}
	}

	var problems []string
	price, err := decimal.NewFromString(r.FormValue("price"))
	if err != nil {
		problems = append(problems, "price must be a decimal number")
	}
	stock, err := strconv.Atoi(r.FormValue("stock"))
	if err != nil {
		problems = append(problems, "stock must be an integer")
	}
	if len(problems) > 0 {
		return domain.ProductInput{}, "", &ValidationError{Problems: problems}
	}

	in := domain.ProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		Stock:       stock,
		IsActive:    r.FormValue("isActive") == "true",
		Category:    r.FormValue("category"),
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return in, "", nil
	}
	defer func() { _ = file.Close() }()

	url, err := h.store(file, header, "products")
	return in, url, err
}

func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	in, imageURL, err := h.productForm(r)
	if err != nil {
		h.fail(w, r, "create product", err)
		return
	}

	product, err := h.backend.CreateProduct(in)
	if err == nil && imageURL != "" {
		product, err = h.backend.SetProductImage(product.ID, imageURL)
	}
	if err != nil {
		h.fail(w, r, "create product", err)
		return
	}

	h.logger.Info("product created", "product_id", product.ID)
	h.writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	in, imageURL, err := h.productForm(r)
	if err != nil {
		h.fail(w, r, "update product", err)
		return
	}

	product, err := h.backend.UpdateProduct(id, in)
	if err == nil && imageURL != "" {
		product, err = h.backend.SetProductImage(id, imageURL)
	}
	if err != nil {
		h.fail(w, r, "update product", err)
		return
	}

	h.logger.Info("product updated", "product_id", id)
	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.backend.DeleteProduct(id); err != nil {
		h.fail(w, r, "delete product", err)
		return
	}

	h.logger.Info("product deleted", "product_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleUploadProductImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if _, err := h.backend.Product(id); err != nil {
		h.fail(w, r, "upload image", err)
		return
	}

	url, err := h.saveUpload(r, "image", "products")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "image file is required")
		return
	}

	product, err := h.backend.SetProductImage(id, url)
	if err != nil {
		h.fail(w, r, "upload image", err)
		return
	}
	h.writeJSON(w, http.StatusOK, product)
}
