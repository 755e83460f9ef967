package services

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
)

// AuthService provides the account endpoints: register, login, and the
// on-demand profile read. It holds no state of its own.
type AuthService struct {
	api *Client
}

// NewAuthService creates an [AuthService] backed by the given gateway client.
func NewAuthService(api *Client) *AuthService {
	return &AuthService{api: api}
}

// Register creates a new account. It does not authenticate; a successful
// registration is followed by an explicit login.
func (s *AuthService) Register(ctx context.Context, username, password, email string) error {
	body := map[string]string{
		"username": username,
		"password": password,
		"email":    email,
	}

	_, err := s.api.Request(ctx, http.MethodPost, "/api/auth/register", body, false)
	return err
}

// Login exchanges credentials for a bearer token. Persisting the token is the
// caller's job; this service never writes to the credential store.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	raw, err := s.api.Request(ctx, http.MethodPost, "/api/auth/login", body, false)
	if err != nil {
		return "", err
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Token == "" {
		return "", &APIError{Kind: shared.ErrMalformedResponse, Message: "login response carried no token"}
	}

	return payload.Token, nil
}

// Profile fetches the authenticated user's profile.
func (s *AuthService) Profile(ctx context.Context) (*models.UserProfile, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, "/api/profile", nil, true)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, &APIError{Kind: shared.ErrMalformedResponse, cause: err}
	}

	return &profile, nil
}
