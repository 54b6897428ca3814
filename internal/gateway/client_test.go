package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Do(t *testing.T) {
	t.Run("sends bearer token and request id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer secret" {
				t.Errorf("expected bearer token, got %q", got)
			}
			if r.Header.Get("X-Request-ID") == "" {
				t.Error("expected X-Request-ID header")
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":1}`))
		}))
		defer server.Close()

		client := NewClient(server.URL+"/", server.Client())
		client.SetToken("secret")

		var out struct{ ID int64 }
		if err := client.getJSON(context.Background(), "/thing", &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.ID != 1 {
			t.Errorf("expected id 1, got %d", out.ID)
		}
	})

	t.Run("omits authorization without token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "" {
				t.Errorf("expected no authorization header, got %q", got)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		if err := client.sendJSON(context.Background(), http.MethodDelete, "/thing", nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unwraps data envelopes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":[{"id":1},{"id":2}],"total":2}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		var out []struct{ ID int64 }
		if err := client.getJSON(context.Background(), "/things", &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out) != 2 {
			t.Errorf("expected 2 items, got %d", len(out))
		}
	})

	t.Run("maps transport failures to ErrConnection", func(t *testing.T) {
		client := NewClient("http://localhost:99999", &http.Client{})
		err := client.getJSON(context.Background(), "/orders", nil)
		if !errors.Is(err, ErrConnection) {
			t.Fatalf("expected ErrConnection, got %v", err)
		}
		if Message(err) != GenericErrorMessage {
			t.Errorf("expected generic message, got %q", Message(err))
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewClient(server.URL, server.Client())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := client.getJSON(ctx, "/test", nil); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"message string", http.StatusBadRequest, `{"message":"Stock insuficiente"}`, "Stock insuficiente"},
		{"message array", http.StatusBadRequest, `{"message":["name should not be empty","price must be positive"]}`, "name should not be empty; price must be positive"},
		{"error field", http.StatusNotFound, `{"error":"order not found"}`, "order not found"},
		{"empty body", http.StatusInternalServerError, ``, GenericErrorMessage},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, GenericErrorMessage},
		{"blank message", http.StatusConflict, `{"message":"  "}`, GenericErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, server.Client())
			err := client.getJSON(context.Background(), "/x", nil)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if Message(err) != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, Message(err))
			}
			if !IsStatus(err, tt.status) {
				t.Errorf("IsStatus(%d) = false", tt.status)
			}
		})
	}
}

func TestClient_Multipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if got := r.FormValue("name"); got != "Keyboard" {
			t.Errorf("expected name field, got %q", got)
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			t.Errorf("expected image part: %v", err)
			return
		}
		defer func() { _ = f.Close() }()

		if hdr.Filename != "k.png" {
			t.Errorf("expected filename k.png, got %s", hdr.Filename)
		}
		if ct := hdr.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("expected image/png, got %s", ct)
		}
		data, _ := io.ReadAll(f)
		if string(data) != "PNGDATA" {
			t.Errorf("unexpected file body %q", data)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	file := &File{Name: "k.png", ContentType: "image/png", Body: strings.NewReader("PNGDATA")}
	err := client.sendMultipart(context.Background(), http.MethodPost, "/product", map[string]string{"name": "Keyboard"}, "image", file, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
