// Package session keeps the authenticated user and bearer token, restored
// from durable storage at startup.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/gateway"
	"github.com/joao-fontenele/storefront/internal/storage"
)

const (
	TokenKey = "token"
	UserKey  = "user"
)

// Gateway is the subset of the auth API the session needs.
type Gateway interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
	UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error)
	SetToken(token string)
	Logout()
}

type Session struct {
	Token   string
	User    *domain.User
	Loading bool
	Error   string
}

func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

type Result struct {
	Success bool
	Error   string
}

type Store struct {
	mu      sync.Mutex
	state   Session
	gateway Gateway
	storage storage.Store
	logger  *slog.Logger
}

// NewStore restores the session when both the token and a decodable user are
// stored. A partial session is wiped.
func NewStore(ctx context.Context, gw Gateway, store storage.Store, logger *slog.Logger) *Store {
	s := &Store{
		gateway: gw,
		storage: store,
		logger:  logger,
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	token, tokenErr := s.storage.Get(ctx, TokenKey)
	rawUser, userErr := s.storage.Get(ctx, UserKey)
	if errors.Is(tokenErr, storage.ErrNotFound) && errors.Is(userErr, storage.ErrNotFound) {
		return
	}

	if tokenErr == nil && userErr == nil && len(token) > 0 {
		var user domain.User
		if err := json.Unmarshal(rawUser, &user); err == nil && user.ID != 0 {
			s.state = Session{Token: string(token), User: &user}
			s.gateway.SetToken(string(token))
			s.logger.Debug("session restored", "user_id", user.ID)
			return
		}
	}

	s.logger.Warn("discarding inconsistent stored session", "token_error", tokenErr, "user_error", userErr)
	s.wipe(ctx)
}

func (s *Store) Login(ctx context.Context, creds domain.Credentials) Result {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return s.fail("Email and password are required")
	}

	s.begin()
	resp, err := s.gateway.Login(ctx, creds)
	return s.finish(ctx, resp, err, "login")
}

func (s *Store) Register(ctx context.Context, req domain.RegisterRequest) Result {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return s.fail("Email and password are required")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return s.fail("First and last name are required")
	}

	s.begin()
	resp, err := s.gateway.Register(ctx, req)
	return s.finish(ctx, resp, err, "register")
}

func (s *Store) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Error = ""
}

func (s *Store) fail(message string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.Error = message
	return Result{Error: message}
}

func (s *Store) finish(ctx context.Context, resp *domain.AuthResponse, err error, op string) Result {
	if err != nil {
		s.logger.Warn(op+" failed", "error", err)
		return s.fail(gateway.Message(err))
	}
	if resp == nil || resp.Token == "" || resp.User.ID == 0 {
		s.logger.Error(op+" returned an incomplete session")
		return s.fail(gateway.GenericErrorMessage)
	}

	s.mu.Lock()
	user := resp.User
	s.state = Session{Token: resp.Token, User: &user}
	s.mu.Unlock()

	s.persist(ctx, resp.Token, &user)
	s.logger.Info(op+" succeeded", "user_id", user.ID, "role", user.Role)
	return Result{Success: true}
}

// UpdateProfile returns the gateway error unchanged so the caller can show it.
func (s *Store) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) error {
	user, err := s.gateway.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.state.User = user
	token := s.state.Token
	s.mu.Unlock()

	s.persist(ctx, token, user)
	return nil
}

func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.state = Session{}
	s.mu.Unlock()

	s.gateway.Logout()
	s.wipe(ctx)
}

func (s *Store) persist(ctx context.Context, token string, user *domain.User) {
	data, err := json.Marshal(user)
	if err != nil {
		s.logger.Error("failed to encode user", "error", err)
		return
	}
	if err := s.storage.Set(ctx, TokenKey, []byte(token)); err != nil {
		s.logger.Error("failed to store token", "error", err)
	}
	if err := s.storage.Set(ctx, UserKey, data); err != nil {
		s.logger.Error("failed to store user", "error", err)
	}
}

func (s *Store) wipe(ctx context.Context) {
	for _, key := range []string{TokenKey, UserKey} {
		if err := s.storage.Delete(ctx, key); err != nil {
			s.logger.Error("failed to delete session entry", "key", key, "error", err)
		}
	}
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}

func (s *Store) IsAuthenticated() bool {
	return s.Snapshot().IsAuthenticated()
}

func (s *Store) IsAdmin() bool {
	snap := s.Snapshot()
	return snap.IsAuthenticated() && snap.User.IsAdmin()
}
