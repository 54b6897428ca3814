package fakeapi

import (
	"encoding/json"
	"net/http"

	"github.com/joao-fontenele/storefront/internal/domain"
)

func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.backend.CreateOrder(userFrom(r.Context()), req)
	if err != nil {
		h.fail(w, r, "create order", err)
		return
	}

	h.logger.Info("order created", "order_id", order.ID, "total", order.Total.String())
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleMyOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.backend.Orders(userFrom(r.Context()).ID, nil)
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.backend.Orders(0, nil)
	h.logger.Info("orders listed", "count", len(orders))
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandlePendingReview(w http.ResponseWriter, r *http.Request) {
	orders := h.backend.Orders(0, func(o domain.Order) bool { return o.Status.AwaitingReview() })
	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.backend.Order(userFrom(r.Context()), id)
	if err != nil {
		h.fail(w, r, "get order", err)
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	user := userFrom(r.Context())
	if _, err := h.backend.Order(user, id); err != nil {
		h.fail(w, r, "upload receipt", err)
		return
	}

	url, err := h.saveUpload(r, "receipt", "receipts")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "receipt file is required")
		return
	}

	order, err := h.backend.AttachReceipt(user, id, url)
	if err != nil {
		h.fail(w, r, "upload receipt", err)
		return
	}

	h.logger.Info("receipt uploaded", "order_id", id)
	h.writeJSON(w, http.StatusOK, order)
}

func (h *Handler) HandleApprovePayment(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, true)
}

func (h *Handler) HandleRejectPayment(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, false)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, approve bool) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req domain.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.backend.Review(id, approve, req.AdminNotes)
	if err != nil {
		h.fail(w, r, "review payment", err)
		return
	}

	h.logger.Info("payment reviewed", "order_id", id, "status", order.Status.String())
	h.writeJSON(w, http.StatusOK, order)
}
