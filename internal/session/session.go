// package session owns the in-memory authentication status.
//
// The status is derived from the credential store exactly once per process
// (Bootstrap) and only ever moves forward: resolving to a terminal state, and
// authenticated to unauthenticated on logout. The controller is the sole
// writer; everything else observes.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tdx/internal/credentials"
	"github.com/desertthunder/tdx/internal/shared"
)

// Status is the resolved authentication state driving initial navigation.
type Status int

const (
	StatusResolving Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusResolving:
		return "resolving"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Listener receives each status transition exactly once.
type Listener func(Status)

// Controller is the session state machine.
type Controller struct {
	mu           sync.Mutex
	status       Status
	bootstrapped bool
	listeners    []Listener

	creds  credentials.Store
	logger *log.Logger
}

// NewController creates a [Controller] in the resolving state.
func NewController(creds credentials.Store, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{
		status: StatusResolving,
		creds:  creds,
		logger: logger,
	}
}

// Status returns the current session status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Authenticated reports whether the session has resolved to authenticated.
func (c *Controller) Authenticated() bool {
	return c.Status() == StatusAuthenticated
}

// OnChange registers a listener for status transitions. Listeners registered
// after a transition do not see it retroactively.
func (c *Controller) OnChange(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Bootstrap reads the credential store and resolves the session to
// authenticated or unauthenticated. It is the only path out of resolving and
// runs at most once; later calls return the already-resolved status.
//
// A storage read failure resolves to unauthenticated rather than failing:
// an unreadable token and a missing token route the user the same way, and no
// destructive action follows from the choice.
func (c *Controller) Bootstrap(ctx context.Context) Status {
	c.mu.Lock()
	if c.bootstrapped {
		status := c.status
		c.mu.Unlock()
		return status
	}
	c.bootstrapped = true
	c.mu.Unlock()

	token, err := c.creds.Token(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrStorageUnavailable) {
			c.logger.Warn("credential read failed during bootstrap, treating as logged out", "error", err)
		} else {
			c.logger.Warn("unexpected credential error during bootstrap", "error", err)
		}
		token = ""
	}

	next := StatusUnauthenticated
	if token != "" {
		next = StatusAuthenticated
	}

	c.transition(next)
	return next
}

// Logout clears the stored token and resolves the session to unauthenticated.
// The transition happens regardless of whether the clear succeeded; logout is
// a local, best-effort operation and no server round trip is made. The clear
// error, if any, is returned so the caller can surface it.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.creds.ClearToken(ctx)
	if err != nil {
		c.logger.Warn("failed to clear stored token", "error", err)
	}

	c.mu.Lock()
	c.bootstrapped = true
	c.mu.Unlock()

	c.transition(StatusUnauthenticated)
	return err
}

// MarkAuthenticated records a successful login. Only valid after the token
// has been persisted; the controller does not write the credential store on
// this path.
func (c *Controller) MarkAuthenticated() {
	c.mu.Lock()
	c.bootstrapped = true
	c.mu.Unlock()

	c.transition(StatusAuthenticated)
}

// transition moves to next and notifies listeners once per change. Listeners
// run outside the lock so they may call back into the controller.
func (c *Controller) transition(next Status) {
	c.mu.Lock()
	if c.status == next {
		c.mu.Unlock()
		return
	}
	c.status = next
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	c.logger.Debug("session status changed", "status", next)
	for _, l := range listeners {
		l(next)
	}
}
