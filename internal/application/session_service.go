package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/bnema/admin-dashboard-cli/internal/domain"
	"github.com/bnema/admin-dashboard-cli/internal/ports"
)

const (
	loginPath       = "/login"
	tokenKeySuffix  = "token"
	userKeySuffix   = "user"
	missingTokenMsg = "login response did not include a token"
)

type loginResponse struct {
	User  *domain.UserIdentity `json:"user"`
	Token string               `json:"token"`
}

type SessionServiceConfig struct {
	Client  ports.RemoteClient
	Store   ports.SecretStore
	Profile domain.Profile
	// Profiles records successful logins. Optional.
	Profiles ports.ProfileRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

// SessionService owns the current login. It persists the token and the
// user identity under the profile's secret namespace and hands the token to
// the remote client through Credentials.
type SessionService struct {
	client   ports.RemoteClient
	store    ports.SecretStore
	profile  domain.Profile
	profiles ports.ProfileRepository
	clock    ports.Clock
	logger   *slog.Logger

	mu      sync.RWMutex
	session domain.Session
	loading bool
	lastErr error
}

func NewSessionService(cfg SessionServiceConfig) *SessionService {
	clock := cfg.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	profile := cfg.Profile
	if profile.Name == "" {
		profile.Name = domain.DefaultProfileName
	}

	return &SessionService{
		client:   cfg.Client,
		store:    cfg.Store,
		profile:  profile,
		profiles: cfg.Profiles,
		clock:    clock,
		logger:   logger,
	}
}

func (s *SessionService) TokenKey() string {
	return s.profile.SecretNamespace() + "/" + tokenKeySuffix
}

func (s *SessionService) UserKey() string {
	return s.profile.SecretNamespace() + "/" + userKeySuffix
}

// Login authenticates against the API. It never returns an error; the
// failure stays available through LastError.
func (s *SessionService) Login(ctx context.Context, email, password string) bool {
	s.mu.Lock()
	s.loading = true
	s.lastErr = nil
	s.mu.Unlock()

	err := s.login(ctx, email, password)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.lastErr = err
	if err != nil {
		s.logger.Debug("login failed", "profile", s.profile.Name, "error", err)
		return false
	}

	return true
}

func (s *SessionService) login(ctx context.Context, email, password string) error {
	var resp loginResponse
	err := s.client.Do(ctx, ports.RemoteRequest{
		Method: http.MethodPost,
		Path:   loginPath,
		Body: map[string]string{
			"email":    email,
			"password": password,
		},
	}, &resp)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if strings.TrimSpace(resp.Token) == "" {
		return errors.New(missingTokenMsg)
	}

	user := resp.User
	if user == nil {
		user = &domain.UserIdentity{Email: email}
	}
	if err := s.persist(ctx, resp.Token, *user); err != nil {
		return err
	}

	s.mu.Lock()
	s.session = domain.Session{User: user, Token: resp.Token}
	s.mu.Unlock()

	s.recordLogin(ctx, email)
	return nil
}

func (s *SessionService) persist(ctx context.Context, token string, user domain.UserIdentity) error {
	encodedUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}

	if err := s.store.Put(ctx, s.TokenKey(), token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}
	if err := s.store.Put(ctx, s.UserKey(), string(encodedUser)); err != nil {
		if rollbackErr := s.store.Delete(ctx, s.TokenKey()); rollbackErr != nil {
			return fmt.Errorf("store session user and rollback token: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("store session user: %w", err)
	}

	return nil
}

func (s *SessionService) recordLogin(ctx context.Context, email string) {
	if s.profiles == nil {
		return
	}

	profile := s.profile
	if existing, err := s.profiles.GetByName(ctx, profile.Name); err == nil {
		if profile.BaseURL == "" {
			profile.BaseURL = existing.BaseURL
		}
	} else if !errors.Is(err, domain.ErrProfileNotFound) {
		s.logger.Warn("read profile", "profile", profile.Name, "error", err)
	}
	profile.Email = email
	profile.LastLoginAt = s.clock.Now().UTC()

	if err := s.profiles.Save(ctx, profile); err != nil {
		s.logger.Warn("record login on profile", "profile", profile.Name, "error", err)
	}
}

// Logout clears the in-memory session and both durable keys. Missing keys
// are not an error.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.session = domain.Session{}
	s.mu.Unlock()

	var errs error
	for _, key := range []string{s.TokenKey(), s.UserKey()} {
		if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
			errs = errors.Join(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}

	return errs
}

// Restore loads a previously persisted session. The session is set only
// when both the token and the user are present.
func (s *SessionService) Restore(ctx context.Context) error {
	token, err := s.store.Get(ctx, s.TokenKey())
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return nil
		}
		return fmt.Errorf("read session token: %w", err)
	}
	rawUser, err := s.store.Get(ctx, s.UserKey())
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return nil
		}
		return fmt.Errorf("read session user: %w", err)
	}
	if token == "" || rawUser == "" {
		return nil
	}

	var user domain.UserIdentity
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return fmt.Errorf("decode session user: %w", err)
	}

	s.mu.Lock()
	s.session = domain.Session{User: &user, Token: token}
	s.mu.Unlock()

	return nil
}

// HandleUnauthorized is the remote client's 401 hook.
func (s *SessionService) HandleUnauthorized() {
	s.logger.Info("session rejected by server, logging out", "profile", s.profile.Name)
	if err := s.Logout(context.Background()); err != nil {
		s.logger.Warn("clear rejected session", "profile", s.profile.Name, "error", err)
	}
}

func (s *SessionService) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session := s.session
	if session.User != nil {
		user := *session.User
		session.User = &user
	}
	return session
}

func (s *SessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAuthenticated()
}

func (s *SessionService) User() *domain.UserIdentity {
	return s.Session().User
}

func (s *SessionService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *SessionService) Credentials() ports.Credentials {
	return ports.Credentials{Token: s.Token()}
}

func (s *SessionService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *SessionService) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *SessionService) Profile() domain.Profile {
	return s.profile
}
