package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jharlow/reel/internal/api"
	"github.com/jharlow/reel/internal/config"
)

// Polling cadence for the init endpoint, matching the server's setup flow:
// slower while waiting on a login, faster while waiting for the first user.
const (
	PollReady     = 0 // polling stops once the server reports ready
	PollLogin     = 10 * time.Second
	PollFirstUser = 5 * time.Second
)

// Form validation errors, rendered next to the affected control
var (
	ErrUsernameRequired    = errors.New("Username is required")
	ErrPasswordRequired    = errors.New("Password is required")
	ErrPasswordMismatch    = errors.New("Passwords do not match")
	ErrSetupCodeIncomplete = errors.New("Invalid or incomplete code")
)

const setupCodeLength = 6

// SessionService owns the setup/auth flow: polling the init endpoint,
// submitting credentials, and persisting the session token.
type SessionService struct {
	client *api.Client
	logger *slog.Logger
}

// NewSessionService creates a new session service
func NewSessionService(client *api.Client, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{client: client, logger: logger}
}

// InitState fetches the server's initialization status
func (s *SessionService) InitState(ctx context.Context) (api.InitState, error) {
	return s.client.InitState(ctx)
}

// PollInterval returns how long to wait before the next init poll for a
// given state. Zero means stop polling.
func (s *SessionService) PollInterval(state api.InitState) time.Duration {
	switch state {
	case api.InitStateLogin:
		return PollLogin
	case api.InitStateCreateFirstUser:
		return PollFirstUser
	default:
		return PollReady
	}
}

// Login validates and submits credentials, persisting the session token
func (s *SessionService) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}
	if strings.TrimSpace(password) == "" {
		return ErrPasswordRequired
	}

	token, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	s.client.SetToken(token)

	if err := config.SaveSession(token, username); err != nil {
		s.logger.Error("failed to persist session", "error", err)
	}
	s.logger.Info("signed in", "username", username)
	return nil
}

// Signup validates and creates the first user, using the one-time setup
// code logged to the server console
func (s *SessionService) Signup(ctx context.Context, username, password, confirm, setupCode string) error {
	if !ValidSetupCode(setupCode) {
		return ErrSetupCodeIncomplete
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}
	if strings.TrimSpace(password) == "" {
		return ErrPasswordRequired
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	token, err := s.client.Signup(ctx, username, password, setupCode)
	if err != nil {
		return err
	}
	s.client.SetToken(token)

	if err := config.SaveSession(token, username); err != nil {
		s.logger.Error("failed to persist session", "error", err)
	}
	s.logger.Info("first user created", "username", username)
	return nil
}

// ValidSetupCode reports whether the code is six digits
func ValidSetupCode(code string) bool {
	if len(code) != setupCodeLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
