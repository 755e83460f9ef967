package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tdx/internal/models"
)

var _ list.Item = todoItem{}

// todoItem wraps [models.Todo] to implement [list.Item].
type todoItem struct {
	todo models.Todo
}

func (i todoItem) FilterValue() string { return i.todo.Title }
func (i todoItem) Title() string       { return i.todo.Title }
func (i todoItem) Description() string {
	if i.todo.Description == "" {
		return "no description"
	}
	return i.todo.Description
}

func todoItems(todos []models.Todo) []list.Item {
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, todoItem{todo: t})
	}
	return items
}
