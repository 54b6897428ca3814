package gateway

import (
	"context"
	"net/http"

	"github.com/joao-fontenele/storefront/internal/domain"
)

type Auth struct {
	client *Client
}

func NewAuth(client *Client) *Auth {
	return &Auth{client: client}
}

// Login exchanges credentials for a token. On success the token is kept on
// the client for later calls.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	return a.authenticate(ctx, "/auth/login", creds)
}

func (a *Auth) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	return a.authenticate(ctx, "/auth/register", req)
}

func (a *Auth) authenticate(ctx context.Context, path string, body any) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := a.client.sendJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	a.client.SetToken(resp.Token)
	return &resp, nil
}

func (a *Auth) Profile(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := a.client.getJSON(ctx, "/auth/profile", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *Auth) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error) {
	var user domain.User
	if err := a.client.sendJSON(ctx, http.MethodPut, "/auth/profile", upd, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout forgets the token held by the client.
func (a *Auth) Logout() {
	a.client.ClearToken()
}

func (a *Auth) SetToken(token string) {
	a.client.SetToken(token)
}
