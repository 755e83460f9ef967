package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/tdx/internal/shared"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("Register", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/auth/register" {
					t.Errorf("expected path /api/auth/register, got %s", r.URL.Path)
				}

				var body map[string]string
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if body["username"] != "ada" || body["email"] != "ada@example.com" {
					t.Errorf("unexpected body: %v", body)
				}

				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(`{}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewClient(ClientOpts{BaseURL: server.URL}))
			if err := svc.Register(ctx, "ada", "hunter2", "ada@example.com"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Validation Message Surfaces", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"message":"username already taken"}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewClient(ClientOpts{BaseURL: server.URL}))
			err := svc.Register(ctx, "ada", "hunter2", "ada@example.com")

			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.Message != "username already taken" {
				t.Errorf("expected server message to surface, got %v", err)
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("Returns Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"token":"t1"}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewClient(ClientOpts{BaseURL: server.URL}))
			token, err := svc.Login(ctx, "ada", "hunter2")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token != "t1" {
				t.Errorf("expected token t1, got %q", token)
			}
		})

		t.Run("Accepts Enveloped Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"data":{"token":"t2"}}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewClient(ClientOpts{BaseURL: server.URL}))
			token, err := svc.Login(ctx, "ada", "hunter2")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token != "t2" {
				t.Errorf("expected token t2, got %q", token)
			}
		})

		t.Run("Missing Token Is Malformed", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(`{"ok":true}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewClient(ClientOpts{BaseURL: server.URL}))
			if _, err := svc.Login(ctx, "ada", "hunter2"); !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})

		t.Run("Bad Credentials", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"invalid credentials"}`))
			}))
			defer server.Close()

			svc := NewAuthService(NewClient(ClientOpts{BaseURL: server.URL}))
			if _, err := svc.Login(ctx, "ada", "wrong"); !errors.Is(err, shared.ErrUnauthorized) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	})

	t.Run("Profile", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer t1" {
				t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"data":{"username":"ada","email":"ada@example.com"}}`))
		}))
		defer server.Close()

		svc := NewAuthService(NewClient(ClientOpts{BaseURL: server.URL, Tokens: staticTokens("t1")}))
		profile, err := svc.Profile(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if profile.Username != "ada" || profile.Email != "ada@example.com" {
			t.Errorf("unexpected profile: %+v", profile)
		}
	})
}
