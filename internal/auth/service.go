package auth

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/dennisdiepolder/hopwhistle/internal/session"
	"github.com/dennisdiepolder/hopwhistle/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Backend is the subset of the API client the auth flows need
type Backend interface {
	Login(ctx context.Context, creds types.LoginRequest) (*types.LoginResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*types.User, error)
}

// Service binds the backend auth endpoints to the session store. The backend
// session is held once per process, so the browser that logged in last gets a
// gateway token and every other caller is treated as anonymous.
type Service struct {
	backend Backend
	store   *session.Store
	logger  zerolog.Logger

	mu    sync.RWMutex
	token string
}

// NewService creates a new auth Service
func NewService(backend Backend, store *session.Store, logger zerolog.Logger) *Service {
	return &Service{
		backend: backend,
		store:   store,
		logger:  logger.With().Str("component", "auth").Logger(),
	}
}

// Login authenticates against the backend, stores the user and returns a new
// gateway token for the caller. Any previously issued token stops working.
// A failed login only clears the session when it comes from the caller that
// holds it (current is that caller's token, possibly empty).
func (s *Service) Login(ctx context.Context, creds types.LoginRequest, current string) (*types.User, string, error) {
	resp, err := s.backend.Login(ctx, creds)
	if err != nil {
		s.logger.Info().Err(err).Msg("login failed")
		if s.Authorize(current) {
			s.clear()
		}
		return nil, "", err
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user := resp.User
	s.store.SetUser(&user)
	s.logToken(resp.AccessToken, user)

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Str("account_id", user.AccountID).
		Msg("user logged in")
	return &user, token, nil
}

// Logout ends the backend session best-effort and always clears the store
func (s *Service) Logout(ctx context.Context) {
	if err := s.backend.Logout(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("backend logout failed")
	}
	s.clear()
	s.logger.Info().Msg("user logged out")
}

// Authorize reports whether token is the current gateway token and a user is
// logged in
func (s *Service) Authorize(token string) bool {
	if token == "" || s.store.User() == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) == 1
}

// clear notifies subscribers before revoking the token so the logged-in
// browser still receives the logout event
func (s *Service) clear() {
	s.store.Logout()
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

// Restore rehydrates the store from an existing backend session
func (s *Service) Restore(ctx context.Context) error {
	if err := s.store.Rehydrate(ctx, s.backend); err != nil {
		return err
	}
	if user := s.store.User(); user != nil {
		s.logger.Info().Str("user_id", user.ID).Msg("session restored")
	} else {
		s.logger.Info().Msg("no active session")
	}
	return nil
}

// logToken records what the (otherwise unused) access token says about itself
func (s *Service) logToken(token string, user types.User) {
	if token == "" {
		return
	}
	info, err := InspectAccessToken(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("access token is not a readable JWT")
		return
	}

	event := s.logger.Debug().Str("subject", info.Subject)
	if !info.ExpiresAt.IsZero() {
		event = event.Time("expires_at", info.ExpiresAt)
	}
	event.Msg("access token received (not used for auth)")

	if info.Subject != "" && info.Subject != user.ID {
		s.logger.Warn().
			Str("subject", info.Subject).
			Str("user_id", user.ID).
			Msg("access token subject does not match user")
	}
	if info.Expired(time.Now()) {
		s.logger.Warn().Time("expires_at", info.ExpiresAt).Msg("access token already expired")
	}
}

// Token returns the current gateway token, empty when none was issued
func (s *Service) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
