package ui

import (
	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/session"
)

// sessionResolvedMsg is emitted once bootstrap has left the resolving state.
type sessionResolvedMsg struct {
	status session.Status
}

// todosFetchedMsg reports the outcome of a FetchAll.
type todosFetchedMsg struct {
	err error
}

// todoSavedMsg reports the outcome of a Create or Update.
type todoSavedMsg struct {
	todo models.Todo
	err  error
}

// todoDeletedMsg reports the outcome of a Delete.
type todoDeletedMsg struct {
	id  string
	err error
}

// profileFetchedMsg carries the on-demand profile read.
type profileFetchedMsg struct {
	profile *models.UserProfile
	err     error
}

// loggedOutMsg reports that the session was torn down.
type loggedOutMsg struct {
	err error
}
