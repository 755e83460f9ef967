// package store holds the client-side todo cache.
//
// The cache is the only copy of the list the presentation layer reads, and
// every entry in it came from a server response: mutations round-trip through
// the gateway and only apply on success, so a failed call leaves the cache
// exactly as it was.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/services"
	"github.com/desertthunder/tdx/internal/shared"
)

// TodoStore caches todo items keyed by id, preserving list order for display.
type TodoStore struct {
	mu    sync.Mutex
	order []string
	items map[string]models.Todo

	api    *services.Client
	logger *log.Logger
}

// NewTodoStore creates an empty [TodoStore] backed by the given gateway client.
func NewTodoStore(api *services.Client, logger *log.Logger) *TodoStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &TodoStore{
		items:  make(map[string]models.Todo),
		api:    api,
		logger: logger,
	}
}

// todoBody is the request payload for create and update calls.
type todoBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// FetchAll replaces the entire cache with the server's list. The server is
// authoritative: items it didn't return are dropped. On failure the previous
// cache is left untouched.
func (s *TodoStore) FetchAll(ctx context.Context) error {
	raw, err := s.api.Request(ctx, http.MethodGet, "/api/todos", nil, true)
	if err != nil {
		return err
	}

	var todos []models.Todo
	if err := json.Unmarshal(raw, &todos); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.items = make(map[string]models.Todo, len(todos))
	for _, todo := range todos {
		if _, ok := s.items[todo.ID]; !ok {
			s.order = append(s.order, todo.ID)
		}
		s.items[todo.ID] = todo
	}

	s.logger.Debug("cache reconciled", "count", len(s.items))
	return nil
}

// FetchOne fetches a single item and upserts it into the cache without
// disturbing other entries.
func (s *TodoStore) FetchOne(ctx context.Context, id string) (models.Todo, error) {
	raw, err := s.api.Request(ctx, http.MethodGet, "/api/todos/"+id, nil, true)
	if err != nil {
		return models.Todo{}, err
	}

	todo, err := decodeTodo(raw)
	if err != nil {
		return models.Todo{}, err
	}

	s.upsert(todo)
	return todo, nil
}

// Create asks the server to create an item and inserts the server-returned
// todo, with its server-assigned id, into the cache. There is no optimistic
// insertion: nothing enters the cache before the server confirms.
func (s *TodoStore) Create(ctx context.Context, title, description string) (models.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return models.Todo{}, fmt.Errorf("%w: title must not be empty", shared.ErrInvalidInput)
	}

	raw, err := s.api.Request(ctx, http.MethodPost, "/api/todos", todoBody{title, description}, true)
	if err != nil {
		return models.Todo{}, err
	}

	todo, err := decodeTodo(raw)
	if err != nil {
		return models.Todo{}, err
	}

	s.upsert(todo)
	return todo, nil
}

// Update submits new field values for id and replaces the cached entry with
// whatever the server returns, which may differ from what was submitted. On
// failure the cache is untouched, so the caller's unsaved edit stays theirs
// to resubmit.
func (s *TodoStore) Update(ctx context.Context, id, title, description string) (models.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return models.Todo{}, fmt.Errorf("%w: title must not be empty", shared.ErrInvalidInput)
	}

	raw, err := s.api.Request(ctx, http.MethodPut, "/api/todos/"+id, todoBody{title, description}, true)
	if err != nil {
		return models.Todo{}, err
	}

	todo, err := decodeTodo(raw)
	if err != nil {
		return models.Todo{}, err
	}

	s.upsert(todo)
	return todo, nil
}

// Delete removes id from the cache after the server confirms the deletion.
// On failure the entry remains.
func (s *TodoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.api.Request(ctx, http.MethodDelete, "/api/todos/"+id, nil, true); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return nil
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Snapshot returns the cached todos in display order.
func (s *TodoStore) Snapshot() []models.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	todos := make([]models.Todo, 0, len(s.order))
	for _, id := range s.order {
		todos = append(todos, s.items[id])
	}
	return todos
}

// Get returns the cached item for id, if present.
func (s *TodoStore) Get(id string) (models.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.items[id]
	return todo, ok
}

// Len returns the number of cached items.
func (s *TodoStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// upsert inserts a server-confirmed todo, appending new ids to the display
// order and replacing existing entries in place.
func (s *TodoStore) upsert(todo models.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[todo.ID]; !ok {
		s.order = append(s.order, todo.ID)
	}
	s.items[todo.ID] = todo
}

func decodeTodo(raw json.RawMessage) (models.Todo, error) {
	var todo models.Todo
	if err := json.Unmarshal(raw, &todo); err != nil {
		return models.Todo{}, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}
	if todo.ID == "" {
		return models.Todo{}, fmt.Errorf("%w: todo without id", shared.ErrMalformedResponse)
	}
	return todo, nil
}
