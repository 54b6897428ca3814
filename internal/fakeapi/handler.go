package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/telemetry"
)

const maxUploadBytes = 5 << 20

type upload struct {
	contentType string
	data        []byte
}

type Handler struct {
	backend *Backend
	logger  *slog.Logger

	mu      sync.RWMutex
	uploads map[string]upload
}

func NewHandler(backend *Backend, logger *slog.Logger) *Handler {
	return &Handler{
		backend: backend,
		logger:  logger,
		uploads: map[string]upload{},
	}
}

// Routes registers every endpoint on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	route := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, telemetry.WithHTTPRoute(fn))
	}

	route("POST /auth/register", h.HandleRegister)
	route("POST /auth/login", h.HandleLogin)
	route("GET /auth/profile", h.authenticated(h.HandleProfile))
	route("PUT /auth/profile", h.authenticated(h.HandleUpdateProfile))

	route("GET /product", h.HandleListProducts)
	route("GET /product/{id}", h.HandleGetProduct)
	route("POST /product", h.admin(h.HandleCreateProduct))
	route("PUT /product/{id}", h.admin(h.HandleUpdateProduct))
	route("DELETE /product/{id}", h.admin(h.HandleDeleteProduct))
	route("POST /product/{id}/image", h.admin(h.HandleUploadProductImage))

	route("POST /order", h.authenticated(h.HandleCreateOrder))
	route("GET /order/my-orders", h.authenticated(h.HandleMyOrders))
	route("GET /order", h.admin(h.HandleListOrders))
	route("GET /order/pending-review", h.admin(h.HandlePendingReview))
	route("GET /order/{id}", h.authenticated(h.HandleGetOrder))
	route("POST /order/{id}/payment-receipt", h.authenticated(h.HandleUploadReceipt))
	route("PUT /order/{id}/approve-payment", h.admin(h.HandleApprovePayment))
	route("PUT /order/{id}/reject-payment", h.admin(h.HandleRejectPayment))

	route("GET /uploads/{name...}", h.HandleUpload)

	return mux
}

type userKey struct{}

func userFrom(ctx context.Context) domain.User {
	u, _ := ctx.Value(userKey{}).(domain.User)
	return u
}

func (h *Handler) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			h.writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := h.backend.Authenticate(token)
		if err != nil {
			h.writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	}
}

func (h *Handler) admin(next http.HandlerFunc) http.HandlerFunc {
	return h.authenticated(func(w http.ResponseWriter, r *http.Request) {
		if !userFrom(r.Context()).IsAdmin() {
			h.writeError(w, http.StatusForbidden, "admin role required")
			return
		}
		next(w, r)
	})
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.backend.Register(req, domain.RoleCustomer)
	if err != nil {
		h.fail(w, r, "register", err)
		return
	}

	h.logger.Info("user registered", "user_id", resp.User.ID)
	h.writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.backend.Login(creds)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.logger.Info("user logged in", "user_id", resp.User.ID)
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.backend.UpdateProfile(userFrom(r.Context()).ID, upd)
	if err != nil {
		h.fail(w, r, "update profile", err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	up, ok := h.uploads[r.PathValue("name")]
	h.mu.RUnlock()
	if !ok {
		h.writeError(w, http.StatusNotFound, "upload not found")
		return
	}

	w.Header().Set("Content-Type", up.contentType)
	_, _ = w.Write(up.data)
}

// saveUpload keeps the named file part in memory and returns its public path.
func (h *Handler) saveUpload(r *http.Request, field, dir string) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", err
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	return h.store(file, header, dir)
}

func (h *Handler) store(file multipart.File, header *multipart.FileHeader, dir string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return "", err
	}

	name := dir + "/" + uuid.NewString() + path.Ext(header.Filename)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	h.mu.Lock()
	h.uploads[name] = upload{contentType: contentType, data: data}
	h.mu.Unlock()

	return "/uploads/" + name, nil
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// fail maps backend errors to HTTP answers.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		h.writeJSON(w, http.StatusBadRequest, map[string]any{
			"statusCode": http.StatusBadRequest,
			"message":    verr.Problems,
			"error":      "Bad Request",
		})
	case errors.Is(err, ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrUnauthorized):
		h.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ErrForbidden):
		h.writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrEmailTaken), errors.Is(err, ErrInvalidTransition):
		h.writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("request failed", "error", err, "op", op, "path", r.URL.Path)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]any{"statusCode": status, "message": message})
}
