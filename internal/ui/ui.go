package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/services"
	"github.com/desertthunder/tdx/internal/session"
	"github.com/desertthunder/tdx/internal/store"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SessionView ViewState = iota
	ListView
	DetailView
	ConfirmDeleteView
	ConfirmLogoutView
	ProfileView
	SignedOutView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	sess   *session.Controller
	todos  *store.TodoStore
	auth   *services.AuthService
	width  int
	height int

	todoList   list.Model
	titleInput textinput.Model
	descInput  textinput.Model
	editingID  string // empty while creating a new todo
	focusDesc  bool

	pendingDelete string
	profile       *models.UserProfile
	err           error
	help          help.Model
	keys          keyMap
}

// NewModel creates the TUI model in the session-resolving view.
func NewModel(ctx context.Context, sess *session.Controller, todos *store.TodoStore, auth *services.AuthService) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Todos"
	l.SetShowHelp(false)

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 120

	desc := textinput.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 500

	return Model{
		ctx:        ctx,
		view:       SessionView,
		sess:       sess,
		todos:      todos,
		auth:       auth,
		todoList:   l,
		titleInput: title,
		descInput:  desc,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.bootstrapCmd()
}

// bootstrapCmd resolves the session off the render loop. The view stays on
// SessionView, rendering nothing of substance, until this message lands.
func (m Model) bootstrapCmd() tea.Cmd {
	return func() tea.Msg {
		return sessionResolvedMsg{status: m.sess.Bootstrap(m.ctx)}
	}
}

func (m Model) fetchTodosCmd() tea.Cmd {
	return func() tea.Msg {
		return todosFetchedMsg{err: m.todos.FetchAll(m.ctx)}
	}
}

func (m Model) saveTodoCmd(id, title, desc string) tea.Cmd {
	return func() tea.Msg {
		if id == "" {
			todo, err := m.todos.Create(m.ctx, title, desc)
			return todoSavedMsg{todo: todo, err: err}
		}
		todo, err := m.todos.Update(m.ctx, id, title, desc)
		return todoSavedMsg{todo: todo, err: err}
	}
}

func (m Model) deleteTodoCmd(id string) tea.Cmd {
	return func() tea.Msg {
		return todoDeletedMsg{id: id, err: m.todos.Delete(m.ctx, id)}
	}
}

func (m Model) fetchProfileCmd() tea.Cmd {
	return func() tea.Msg {
		profile, err := m.auth.Profile(m.ctx)
		return profileFetchedMsg{profile: profile, err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: m.sess.Logout(m.ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.todoList.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case sessionResolvedMsg:
		if msg.status == session.StatusAuthenticated {
			m.view = ListView
			return m, m.fetchTodosCmd()
		}
		m.view = SignedOutView
		return m, nil

	case todosFetchedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.todoList.SetItems(todoItems(m.todos.Snapshot()))
		}
		return m, nil

	case todoSavedMsg:
		if msg.err != nil {
			// Stay on the editor; the draft is the user's to resubmit.
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.view = ListView
		m.todoList.SetItems(todoItems(m.todos.Snapshot()))
		return m, nil

	case todoDeletedMsg:
		m.err = msg.err
		m.view = ListView
		m.todoList.SetItems(todoItems(m.todos.Snapshot()))
		return m, nil

	case profileFetchedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.profile = msg.profile
			m.view = ProfileView
		}
		return m, nil

	case loggedOutMsg:
		m.err = msg.err
		m.view = SignedOutView
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) && m.view != DetailView {
		return m, tea.Quit
	}

	switch m.view {
	case ListView:
		return m.handleListKey(msg)
	case DetailView:
		return m.handleDetailKey(msg)
	case ConfirmDeleteView:
		switch {
		case key.Matches(msg, m.keys.yes):
			id := m.pendingDelete
			m.pendingDelete = ""
			return m, m.deleteTodoCmd(id)
		case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
			m.pendingDelete = ""
			m.view = ListView
		}
	case ConfirmLogoutView:
		switch {
		case key.Matches(msg, m.keys.yes):
			return m, m.logoutCmd()
		case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
			m.view = ListView
		}
	case ProfileView:
		if key.Matches(msg, m.keys.back) {
			m.view = ListView
		}
	case SignedOutView:
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchTodosCmd()

	case key.Matches(msg, m.keys.new):
		m.openEditor(models.Todo{})
		return m, nil

	case key.Matches(msg, m.keys.enter):
		if item, ok := m.todoList.SelectedItem().(todoItem); ok {
			m.openEditor(item.todo)
		}
		return m, nil

	case key.Matches(msg, m.keys.delete):
		if item, ok := m.todoList.SelectedItem().(todoItem); ok {
			m.pendingDelete = item.todo.ID
			m.view = ConfirmDeleteView
		}
		return m, nil

	case key.Matches(msg, m.keys.profile):
		return m, m.fetchProfileCmd()

	case key.Matches(msg, m.keys.logout):
		m.view = ConfirmLogoutView
		return m, nil
	}

	var cmd tea.Cmd
	m.todoList, cmd = m.todoList.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.err = nil
		m.view = ListView
		return m, nil

	case key.Matches(msg, m.keys.tab):
		m.focusDesc = !m.focusDesc
		if m.focusDesc {
			m.titleInput.Blur()
			return m, m.descInput.Focus()
		}
		m.descInput.Blur()
		return m, m.titleInput.Focus()

	case key.Matches(msg, m.keys.enter):
		return m, m.saveTodoCmd(m.editingID, m.titleInput.Value(), m.descInput.Value())
	}

	var cmd tea.Cmd
	if m.focusDesc {
		m.descInput, cmd = m.descInput.Update(msg)
	} else {
		m.titleInput, cmd = m.titleInput.Update(msg)
	}
	return m, cmd
}

// openEditor switches to the detail view seeded with the given todo. A zero
// todo opens the editor in create mode.
func (m *Model) openEditor(todo models.Todo) {
	m.editingID = todo.ID
	m.titleInput.SetValue(todo.Title)
	m.descInput.SetValue(todo.Description)
	m.focusDesc = false
	m.titleInput.Focus()
	m.descInput.Blur()
	m.err = nil
	m.view = DetailView
}

func (m Model) View() string {
	switch m.view {
	case SessionView:
		// Render nothing routable until the session resolves.
		return noticeStyle.Render("resolving session…")

	case ListView:
		view := m.todoList.View()
		if m.err != nil {
			view += "\n" + errorStyle.Render(m.err.Error())
		}
		return view + "\n" + m.help.View(m.keys)

	case DetailView:
		header := "Edit todo"
		if m.editingID == "" {
			header = "New todo"
		}
		body := fmt.Sprintf(
			"%s\n\n%s\n%s\n\n%s\n%s\n\n%s",
			titleStyle.Render(header),
			labelStyle.Render("Title"),
			m.titleInput.View(),
			labelStyle.Render("Description"),
			m.descInput.View(),
			noticeStyle.Render("enter save • tab next field • esc cancel"),
		)
		if m.err != nil {
			body += "\n\n" + errorStyle.Render(m.err.Error())
		}
		return paneStyle.Render(body)

	case ConfirmDeleteView:
		return paneStyle.Render(fmt.Sprintf("Delete this todo? %s", noticeStyle.Render("y/n")))

	case ConfirmLogoutView:
		return paneStyle.Render(fmt.Sprintf("Log out? %s", noticeStyle.Render("y/n")))

	case ProfileView:
		return paneStyle.Render(fmt.Sprintf(
			"%s\n\n%s %s\n%s %s\n\n%s",
			titleStyle.Render("Profile"),
			labelStyle.Render("Username:"), m.profile.Username,
			labelStyle.Render("Email:"), m.profile.Email,
			noticeStyle.Render("esc back"),
		))

	case SignedOutView:
		notice := "You are signed out. Run `tdx login` to sign in."
		if m.err != nil {
			notice += "\n" + errorStyle.Render(m.err.Error())
		}
		return paneStyle.Render(notice)
	}

	return ""
}
