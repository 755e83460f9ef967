package store

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/tdx/internal/credentials"
	"github.com/desertthunder/tdx/internal/services"
	"github.com/desertthunder/tdx/internal/session"
	"github.com/desertthunder/tdx/internal/shared"
	tu "github.com/desertthunder/tdx/internal/testing"
	"golang.org/x/oauth2"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) (*TodoStore, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := services.NewClient(services.ClientOpts{
		BaseURL: server.URL,
		Tokens:  oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t1"}),
	})
	return NewTodoStore(client, nil), server
}

func respond(w http.ResponseWriter, status int, body string) {
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func TestTodoStore(t *testing.T) {
	ctx := context.Background()

	t.Run("FetchAll", func(t *testing.T) {
		t.Run("Replaces Entire Cache", func(t *testing.T) {
			lists := []string{
				`{"data":[{"_id":"1","title":"A","description":""},{"_id":"2","title":"B","description":"b"}]}`,
				`{"data":[{"_id":"3","title":"C","description":""}]}`,
			}
			call := 0
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				respond(w, http.StatusOK, lists[call])
				call++
			})

			if err := s.FetchAll(ctx); err != nil {
				t.Fatalf("first fetch failed: %v", err)
			}
			if s.Len() != 2 {
				t.Fatalf("expected 2 items, got %d", s.Len())
			}

			if err := s.FetchAll(ctx); err != nil {
				t.Fatalf("second fetch failed: %v", err)
			}

			// No residual items from the earlier state.
			snapshot := s.Snapshot()
			if len(snapshot) != 1 || snapshot[0].ID != "3" {
				t.Errorf("expected cache to equal the last server list, got %+v", snapshot)
			}
			if _, ok := s.Get("1"); ok {
				t.Error("expected item 1 to be dropped")
			}
		})

		t.Run("Preserves Server Order", func(t *testing.T) {
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				respond(w, http.StatusOK, `{"data":[{"_id":"b","title":"B","description":""},{"_id":"a","title":"A","description":""}]}`)
			})

			if err := s.FetchAll(ctx); err != nil {
				t.Fatalf("fetch failed: %v", err)
			}

			snapshot := s.Snapshot()
			if snapshot[0].ID != "b" || snapshot[1].ID != "a" {
				t.Errorf("expected server order b,a, got %+v", snapshot)
			}
		})

		t.Run("Failure Leaves Previous Cache", func(t *testing.T) {
			call := 0
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				if call == 0 {
					respond(w, http.StatusOK, `{"data":[{"_id":"1","title":"A","description":""}]}`)
				} else {
					respond(w, http.StatusInternalServerError, "")
				}
				call++
			})

			if err := s.FetchAll(ctx); err != nil {
				t.Fatalf("seed fetch failed: %v", err)
			}
			if err := s.FetchAll(ctx); !errors.Is(err, shared.ErrServerFailure) {
				t.Fatalf("expected ErrServerFailure, got %v", err)
			}

			if s.Len() != 1 {
				t.Errorf("expected previous cache to survive, got %d items", s.Len())
			}
		})

		t.Run("Malformed List", func(t *testing.T) {
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				respond(w, http.StatusOK, `{"data":{"not":"a list"}}`)
			})

			if err := s.FetchAll(ctx); !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	})

	t.Run("FetchOne", func(t *testing.T) {
		t.Run("Upserts Without Disturbing Others", func(t *testing.T) {
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/api/todos":
					respond(w, http.StatusOK, `{"data":[{"_id":"1","title":"A","description":""},{"_id":"2","title":"B","description":""}]}`)
				case "/api/todos/2":
					respond(w, http.StatusOK, `{"data":{"_id":"2","title":"B2","description":"changed"}}`)
				default:
					respond(w, http.StatusNotFound, `{"message":"not found"}`)
				}
			})

			if err := s.FetchAll(ctx); err != nil {
				t.Fatalf("seed fetch failed: %v", err)
			}

			todo, err := s.FetchOne(ctx, "2")
			if err != nil {
				t.Fatalf("fetch one failed: %v", err)
			}
			if todo.Title != "B2" {
				t.Errorf("expected refreshed title, got %q", todo.Title)
			}

			if cached, _ := s.Get("1"); cached.Title != "A" {
				t.Errorf("expected item 1 untouched, got %+v", cached)
			}
			if s.Len() != 2 {
				t.Errorf("expected 2 items, got %d", s.Len())
			}
		})

		t.Run("Inserts New Item", func(t *testing.T) {
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				respond(w, http.StatusOK, `{"data":{"_id":"9","title":"New","description":""}}`)
			})

			if _, err := s.FetchOne(ctx, "9"); err != nil {
				t.Fatalf("fetch one failed: %v", err)
			}
			if _, ok := s.Get("9"); !ok {
				t.Error("expected item 9 in cache")
			}
		})
	})

	t.Run("Create", func(t *testing.T) {
		t.Run("Inserts Server-Assigned Item", func(t *testing.T) {
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				respond(w, http.StatusCreated, `{"data":{"_id":"srv-1","title":"Groceries","description":"milk"}}`)
			})

			todo, err := s.Create(ctx, "Groceries", "milk")
			if err != nil {
				t.Fatalf("create failed: %v", err)
			}
			if todo.ID != "srv-1" {
				t.Errorf("expected server-assigned id, got %q", todo.ID)
			}
			if _, ok := s.Get("srv-1"); !ok {
				t.Error("expected created item in cache")
			}
		})

		t.Run("Nothing Enters Cache On Failure", func(t *testing.T) {
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				respond(w, http.StatusBadRequest, `{"message":"title too long"}`)
			})

			_, err := s.Create(ctx, "a very long title", "")
			if !errors.Is(err, shared.ErrValidationFailed) {
				t.Fatalf("expected ErrValidationFailed, got %v", err)
			}
			if s.Len() != 0 {
				t.Errorf("expected empty cache, got %d items", s.Len())
			}
		})

		t.Run("Rejects Empty Title Locally", func(t *testing.T) {
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request should be issued")
			})

			if _, err := s.Create(ctx, "  ", ""); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("Server Response Wins Over Submitted Fields", func(t *testing.T) {
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					respond(w, http.StatusOK, `{"data":[{"_id":"1","title":"A","description":""}]}`)
				case http.MethodPut:
					// Server normalizes the submitted title.
					respond(w, http.StatusOK, `{"data":{"_id":"1","title":"Normalized","description":""}}`)
				}
			})

			if err := s.FetchAll(ctx); err != nil {
				t.Fatalf("seed fetch failed: %v", err)
			}

			todo, err := s.Update(ctx, "1", "  raw title  ", "")
			if err != nil {
				t.Fatalf("update failed: %v", err)
			}
			if todo.Title != "Normalized" {
				t.Errorf("expected server value, got %q", todo.Title)
			}
			if cached, _ := s.Get("1"); cached.Title != "Normalized" {
				t.Errorf("expected cache to hold server value, got %q", cached.Title)
			}
		})

		t.Run("Failure Leaves Cache Unchanged", func(t *testing.T) {
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					respond(w, http.StatusOK, `{"data":[{"_id":"1","title":"A","description":""}]}`)
				case http.MethodPut:
					respond(w, http.StatusInternalServerError, "")
				}
			})

			if err := s.FetchAll(ctx); err != nil {
				t.Fatalf("seed fetch failed: %v", err)
			}

			if _, err := s.Update(ctx, "1", "B", ""); !errors.Is(err, shared.ErrServerFailure) {
				t.Fatalf("expected ErrServerFailure, got %v", err)
			}
			if cached, _ := s.Get("1"); cached.Title != "A" {
				t.Errorf("expected cached title A, got %q", cached.Title)
			}
		})

		t.Run("Unauthorized Does Not Touch Cache Or Session", func(t *testing.T) {
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					respond(w, http.StatusOK, `{"data":[{"_id":"2","title":"B","description":""}]}`)
				case http.MethodPut:
					respond(w, http.StatusUnauthorized, `{"message":"token expired"}`)
				}
			})

			creds := &tu.FakeCredentialStore{TokenValue: "t1"}
			sess := session.NewController(creds, nil)
			sess.Bootstrap(ctx)

			if err := s.FetchAll(ctx); err != nil {
				t.Fatalf("seed fetch failed: %v", err)
			}

			_, err := s.Update(ctx, "2", "changed", "")
			if !errors.Is(err, shared.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}

			if cached, _ := s.Get("2"); cached.Title != "B" {
				t.Errorf("expected cache unchanged, got %q", cached.Title)
			}
			if sess.Status() != session.StatusAuthenticated {
				t.Errorf("store must not force logout, session is %v", sess.Status())
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("Removes After Confirmation", func(t *testing.T) {
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					respond(w, http.StatusOK, `{"data":[{"_id":"1","title":"A","description":""},{"_id":"2","title":"B","description":""}]}`)
				case http.MethodDelete:
					w.WriteHeader(http.StatusNoContent)
				}
			})

			if err := s.FetchAll(ctx); err != nil {
				t.Fatalf("seed fetch failed: %v", err)
			}
			if err := s.Delete(ctx, "1"); err != nil {
				t.Fatalf("delete failed: %v", err)
			}

			if _, ok := s.Get("1"); ok {
				t.Error("expected item 1 removed")
			}
			snapshot := s.Snapshot()
			if len(snapshot) != 1 || snapshot[0].ID != "2" {
				t.Errorf("expected only item 2, got %+v", snapshot)
			}
		})

		t.Run("Failure Keeps Entry", func(t *testing.T) {
			s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				switch r.Method {
				case http.MethodGet:
					respond(w, http.StatusOK, `{"data":[{"_id":"1","title":"A","description":""}]}`)
				case http.MethodDelete:
					respond(w, http.StatusInternalServerError, "")
				}
			})

			if err := s.FetchAll(ctx); err != nil {
				t.Fatalf("seed fetch failed: %v", err)
			}
			if err := s.Delete(ctx, "1"); !errors.Is(err, shared.ErrServerFailure) {
				t.Fatalf("expected ErrServerFailure, got %v", err)
			}
			if _, ok := s.Get("1"); !ok {
				t.Error("expected item 1 to remain after failed delete")
			}
		})
	})
}

// TestSessionAndStoreFlow walks the full lifecycle: stored token, bootstrap,
// fetch, update, delete, logout.
func TestSessionAndStoreFlow(t *testing.T) {
	ctx := context.Background()

	deleted := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t1" {
			respond(w, http.StatusUnauthorized, `{"message":"missing token"}`)
			return
		}

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/todos":
			if deleted {
				respond(w, http.StatusOK, `{"data":[]}`)
			} else {
				respond(w, http.StatusOK, `{"data":[{"_id":"1","title":"A","description":""}]}`)
			}
		case r.Method == http.MethodPut && r.URL.Path == "/api/todos/1":
			respond(w, http.StatusOK, `{"data":{"_id":"1","title":"B","description":""}}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/todos/1":
			deleted = true
			w.WriteHeader(http.StatusNoContent)
		default:
			respond(w, http.StatusNotFound, `{"message":"not found"}`)
		}
	}))
	defer server.Close()

	creds := &tu.FakeCredentialStore{TokenValue: "t1"}
	sess := session.NewController(creds, nil)

	client := services.NewClient(services.ClientOpts{
		BaseURL: server.URL,
		Tokens:  credentials.TokenSource(ctx, creds),
	})
	todos := NewTodoStore(client, nil)

	if got := sess.Bootstrap(ctx); got != session.StatusAuthenticated {
		t.Fatalf("expected authenticated after bootstrap, got %v", got)
	}

	if err := todos.FetchAll(ctx); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	snapshot := todos.Snapshot()
	if len(snapshot) != 1 || snapshot[0].Title != "A" {
		t.Fatalf("expected one item titled A, got %+v", snapshot)
	}

	updated, err := todos.Update(ctx, "1", "B", "")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "B" {
		t.Errorf("expected title B, got %q", updated.Title)
	}

	if err := todos.Delete(ctx, "1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if todos.Len() != 0 {
		t.Errorf("expected empty cache, got %d items", todos.Len())
	}

	if err := sess.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if sess.Status() != session.StatusUnauthenticated {
		t.Errorf("expected unauthenticated, got %v", sess.Status())
	}
	if creds.TokenValue != "" {
		t.Error("expected stored token to be cleared")
	}

	// Deleted item never reappears without an explicit re-fetch.
	if _, ok := todos.Get("1"); ok {
		t.Error("deleted item resurfaced without a fetch")
	}
}
